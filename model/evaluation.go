package model

import "strconv"

// RestCategory is the bucket for repositories without any matching category
const RestCategory = "Rest"

// LanguageDistributionPrecision is the number of digits kept for global language percentages
const LanguageDistributionPrecision = 2

// Row is a record that can be exported as a flat tabular line
type Row interface {
	Columns() []string
	Values() []string
}

type LanguageEntry struct {
	Language string `json:"language"`
}

type LanguageDistribution struct {
	Language   string  `json:"language"`
	Bytes      int     `json:"bytes"`
	Percentage float64 `json:"percentage"`
}

type RepositoryCategory struct {
	RepositoryName string `json:"repositoryName"`
	Category       string `json:"category"`
}

// CategoryDistribution count the repositories assigned to a category label
// Precision only drives the textual rendering of both percentages
type CategoryDistribution struct {
	Category             string  `json:"category"`
	Count                int     `json:"count"`
	Percentage           float64 `json:"percentage"`
	NormalizedPercentage float64 `json:"normalizedPercentage"`
	Precision            int     `json:"-"`
}

func (l LanguageEntry) Columns() []string {
	return []string{"language"}
}

func (l LanguageEntry) Values() []string {
	return []string{l.Language}
}

func (l LanguageDistribution) Columns() []string {
	return []string{"language", "bytes", "percentage"}
}

func (l LanguageDistribution) Values() []string {
	return []string{
		l.Language,
		strconv.Itoa(l.Bytes),
		strconv.FormatFloat(l.Percentage, 'f', LanguageDistributionPrecision, 64),
	}
}

func (r RepositoryCategory) Columns() []string {
	return []string{"repository_name", "category"}
}

func (r RepositoryCategory) Values() []string {
	return []string{r.RepositoryName, r.Category}
}

func (c CategoryDistribution) Columns() []string {
	return []string{"category", "count", "percentage", "normalized_percentage"}
}

func (c CategoryDistribution) Values() []string {
	return []string{
		c.Category,
		strconv.Itoa(c.Count),
		strconv.FormatFloat(c.Percentage, 'f', c.Precision, 64),
		strconv.FormatFloat(c.NormalizedPercentage, 'f', c.Precision, 64),
	}
}

// ToRows convert any slice of rows to the interface type expected by exporters
func ToRows[T Row](items []T) []Row {
	rows := make([]Row, 0, len(items))

	for _, item := range items {
		rows = append(rows, item)
	}

	return rows
}
