package model

import (
	"fmt"
	"strings"
)

// FilterMode is a three-valued repository filter
// FilterUnset apply no constraint at all
type FilterMode int

const (
	FilterUnset FilterMode = iota
	FilterRequire
	FilterExclude
)

func ParseFilterMode(value string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "unset":
		return FilterUnset, nil
	case "require":
		return FilterRequire, nil
	case "exclude":
		return FilterExclude, nil
	default:
		return FilterUnset, fmt.Errorf("%w: unknown filter mode %q (expected require, exclude or empty)", ErrInvalidConfig, value)
	}
}

func (m FilterMode) String() string {
	switch m {
	case FilterRequire:
		return "require"
	case FilterExclude:
		return "exclude"
	default:
		return "unset"
	}
}

// Allows return true if a repository attribute with the given value pass the filter
func (m FilterMode) Allows(value bool) bool {
	switch m {
	case FilterRequire:
		return value
	case FilterExclude:
		return !value
	default:
		return true
	}
}

type RepositoryFilterOptions struct {
	Forks    FilterMode
	Archived FilterMode
	Disabled FilterMode
	Template FilterMode
}

// Match return true if the repository pass all filters
func (f RepositoryFilterOptions) Match(r RepositoryMetaData) bool {
	return f.Forks.Allows(r.Fork) &&
		f.Archived.Allows(r.Archived) &&
		f.Disabled.Allows(r.Disabled) &&
		f.Template.Allows(r.IsTemplate)
}
