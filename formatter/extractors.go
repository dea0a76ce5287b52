package formatter

import "github.com/Scalingo/sclng-language-stats/model"

// LanguagePercentage read the share of a language in the global distribution
func LanguagePercentage(entry model.LanguageDistribution) (Pair, error) {
	return Pair{Value: entry.Percentage, Label: entry.Language}, nil
}

// CategoryNormalizedPercentage read the share of a category among categorized repositories only
func CategoryNormalizedPercentage(entry model.CategoryDistribution) (Pair, error) {
	return Pair{Value: entry.NormalizedPercentage, Label: entry.Category}, nil
}

// CategoryPercentage read the share of a category among all repositories, Rest included
func CategoryPercentage(entry model.CategoryDistribution) (Pair, error) {
	return Pair{Value: entry.Percentage, Label: entry.Category}, nil
}
