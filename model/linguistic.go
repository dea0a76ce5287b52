package model

import (
	"fmt"
	"sort"
)

// LinguisticData map a language name to the number of bytes written in this language
// nil or empty means no linguistic data is available for the repository
type LinguisticData map[string]int

// HasData return true if at least one language is present
func (l LinguisticData) HasData() bool {
	return len(l) > 0
}

// Total return the sum of bytes for all languages
func (l LinguisticData) Total() int {
	total := 0

	for _, bytes := range l {
		total += bytes
	}

	return total
}

// Percentage return the share (0-100) of a language in this repository
func (l LinguisticData) Percentage(language string) float64 {
	total := l.Total()
	if total == 0 {
		return 0
	}

	return float64(l[language]) / float64(total) * 100
}

// Languages return the language names sorted alphabetically
func (l LinguisticData) Languages() []string {
	languages := make([]string, 0, len(l))

	for language := range l {
		languages = append(languages, language)
	}

	sort.Strings(languages)
	return languages
}

// Validate ensure the data can be aggregated
// github never send negative counts, but snapshots can be edited by hand
func (l LinguisticData) Validate() error {
	for _, language := range l.Languages() {
		if language == "" {
			return fmt.Errorf("%w: empty language name", ErrInvalidData)
		}

		if l[language] < 0 {
			return fmt.Errorf("%w: negative byte count %d for language %s", ErrInvalidData, l[language], language)
		}
	}

	return nil
}

// Clone return a copy that can be modified without touching the original map
func (l LinguisticData) Clone() LinguisticData {
	if l == nil {
		return nil
	}

	clone := make(LinguisticData, len(l))
	for language, bytes := range l {
		clone[language] = bytes
	}

	return clone
}
