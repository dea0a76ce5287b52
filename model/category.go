package model

import (
	"fmt"
	"strings"
)

type Category struct {
	Name      string   `mapstructure:"Name" json:"name"`
	Languages []string `mapstructure:"Languages" json:"languages"`
}

// CategoryConfig define how repositories are assigned to categories
// a language is relevant for a repository when its share is >= ThresholdPercent
type CategoryConfig struct {
	ThresholdPercent float64    `mapstructure:"ThresholdPercent" json:"thresholdPercent"`
	Categories       []Category `mapstructure:"Categories" json:"categories"`
}

// Validate check the threshold bounds and the category definitions
func (c CategoryConfig) Validate() error {
	if c.ThresholdPercent < 0 || c.ThresholdPercent > 100 {
		return fmt.Errorf("%w: threshold percent must be between 0 and 100, got %v", ErrInvalidConfig, c.ThresholdPercent)
	}

	seen := make(map[string]bool, len(c.Categories))

	for _, category := range c.Categories {
		name := strings.TrimSpace(category.Name)

		if name == "" {
			return fmt.Errorf("%w: category name cannot be empty", ErrInvalidConfig)
		}

		// the rest bucket is reserved for uncategorized repositories
		if strings.Contains(name, RestCategory) {
			return fmt.Errorf("%w: category name %q contains reserved word %q", ErrInvalidConfig, name, RestCategory)
		}

		if seen[name] {
			return fmt.Errorf("%w: category %q defined twice", ErrInvalidConfig, name)
		}

		if len(category.Languages) == 0 {
			return fmt.Errorf("%w: category %q has no language", ErrInvalidConfig, name)
		}

		seen[name] = true
	}

	return nil
}

// LanguageSets return each category name with its languages as a set
func (c CategoryConfig) LanguageSets() map[string]map[string]struct{} {
	sets := make(map[string]map[string]struct{}, len(c.Categories))

	for _, category := range c.Categories {
		set := make(map[string]struct{}, len(category.Languages))
		for _, language := range category.Languages {
			set[language] = struct{}{}
		}

		sets[category.Name] = set
	}

	return sets
}
