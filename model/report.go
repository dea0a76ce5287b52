package model

// Report hold every evaluation computed from a stored snapshot
// CompactCategoryShares is CompactCategories with the share of all repositories, Rest included
type Report struct {
	Organisation          string                 `json:"organisation"`
	RepositoriesCount     int                    `json:"repositoriesCount"`
	TotalSizeKB           int                    `json:"totalSizeKB"`
	Languages             []string               `json:"languages"`
	LanguageDistribution  []LanguageDistribution `json:"languageDistribution"`
	RepositoryCategories  []RepositoryCategory   `json:"repositoryCategories"`
	CategoryDistribution  []CategoryDistribution `json:"categoryDistribution"`
	CompactCategories     string                 `json:"compactCategories"`
	CompactCategoryShares string                 `json:"compactCategoryShares"`
	CompactLanguages      string                 `json:"compactLanguages"`
}

// LanguageEntries wrap the distinct language names for tabular export
func (r Report) LanguageEntries() []LanguageEntry {
	entries := make([]LanguageEntry, 0, len(r.Languages))

	for _, language := range r.Languages {
		entries = append(entries, LanguageEntry{Language: language})
	}

	return entries
}
