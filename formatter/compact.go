// Package formatter render distributions as compact "value/label" lists,
// the format expected by pgfplots and similar typesetting macros.
package formatter

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrExtraction is wrapped by every error returned when a value or a label cannot be read from an item
var ErrExtraction = errors.New("unable to extract value and label")

// Pair is a single entry of a distribution
type Pair struct {
	Value float64
	Label string
}

// Extractor read the pair to render from any item
type Extractor[T any] func(item T) (Pair, error)

// Compact sort pairs by value (desc, then label) and join them as "value/label" separated by commas
func Compact(pairs []Pair, precision int) string {
	if precision < 0 {
		precision = 0
	}

	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}

		return sorted[i].Label < sorted[j].Label
	})

	entries := make([]string, 0, len(sorted))
	for _, pair := range sorted {
		entries = append(entries, strconv.FormatFloat(pair.Value, 'f', precision, 64)+"/"+pair.Label)
	}

	return strings.Join(entries, ",")
}

// CompactWithRemainder group every pair below threshold in a single remainder pair before calling Compact
// the remainder is only added when its sum is strictly positive
func CompactWithRemainder(pairs []Pair, threshold float64, remainderLabel string, precision int) string {
	return Compact(GroupRemainder(pairs, threshold, remainderLabel), precision)
}

// GroupRemainder keep pairs >= threshold and sum the others in a pair named remainderLabel
func GroupRemainder(pairs []Pair, threshold float64, remainderLabel string) []Pair {
	grouped := make([]Pair, 0, len(pairs)+1)
	remainder := 0.0

	for _, pair := range pairs {
		if pair.Value >= threshold {
			grouped = append(grouped, pair)
			continue
		}

		remainder += pair.Value
	}

	if remainder > 0 {
		grouped = append(grouped, Pair{Value: remainder, Label: remainderLabel})
	}

	return grouped
}

// ExtractPairs apply the extractor on every item
// the first failure abort the extraction, partial results are never returned
func ExtractPairs[T any](items []T, extract Extractor[T]) ([]Pair, error) {
	if extract == nil {
		return nil, fmt.Errorf("%w: no extractor given", ErrExtraction)
	}

	pairs := make([]Pair, 0, len(items))

	for i, item := range items {
		pair, err := extract(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrExtraction, i, err)
		}

		if math.IsNaN(pair.Value) || math.IsInf(pair.Value, 0) {
			return nil, fmt.Errorf("%w: item %d: value %v is not a finite number", ErrExtraction, i, pair.Value)
		}

		pairs = append(pairs, pair)
	}

	return pairs, nil
}

// FormatCompact extract the pairs from items and render them with Compact
func FormatCompact[T any](items []T, extract Extractor[T], precision int) (string, error) {
	pairs, err := ExtractPairs(items, extract)
	if err != nil {
		return "", fmt.Errorf("unable to format distribution: %w", err)
	}

	return Compact(pairs, precision), nil
}

// FormatCompactWithRemainder extract the pairs from items and render them with CompactWithRemainder
func FormatCompactWithRemainder[T any](items []T, extract Extractor[T], threshold float64, remainderLabel string, precision int) (string, error) {
	pairs, err := ExtractPairs(items, extract)
	if err != nil {
		return "", fmt.Errorf("unable to format grouped distribution: %w", err)
	}

	return CompactWithRemainder(pairs, threshold, remainderLabel, precision), nil
}
