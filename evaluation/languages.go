// Package evaluation aggregates the linguistic data of repositories into
// language and category distributions.
//
// All functions are stateless and never modify their arguments. A repository
// with malformed data is logged and left out, it never aborts the whole run.
package evaluation

import (
	"sort"

	"github.com/Scalingo/sclng-language-stats/model"
	log "github.com/sirupsen/logrus"
)

// CollectDistinctLanguages return every language found in at least one repository, sorted alphabetically
func CollectDistinctLanguages(repos []model.RepositoryMetaData) []string {
	log.WithField("repositories", len(repos)).Info("collecting all distinct languages from repositories")

	seen := make(map[string]struct{})
	languages := make([]string, 0)

	for i, r := range repos {
		logProgress(i, len(repos), r, "checking repository languages")

		if !r.Languages.HasData() {
			log.WithField("repository", r.Name).Info("no linguistic data available for repository")
			continue
		}

		if err := r.Languages.Validate(); err != nil {
			log.WithError(err).WithField("repository", r.Name).Error("failed to read languages from repository")
			continue
		}

		for language := range r.Languages {
			if _, found := seen[language]; !found {
				seen[language] = struct{}{}
				languages = append(languages, language)
			}
		}
	}

	sort.Strings(languages)

	log.WithField("languages", len(languages)).Info("distinct languages collected")
	return languages
}

// ComputeGlobalLanguageDistribution sum the bytes of each language across all repositories
// entries are sorted by bytes (desc) then by language name
func ComputeGlobalLanguageDistribution(repos []model.RepositoryMetaData) []model.LanguageDistribution {
	log.WithField("repositories", len(repos)).Info("starting global language distribution evaluation")

	// languages keep the first-seen order, totals are looked up by name
	languages := make([]string, 0)
	totals := make(map[string]int)
	grandTotal := 0

	for i, r := range repos {
		logProgress(i, len(repos), r, "evaluating linguistic data of repository")

		if !r.Languages.HasData() {
			log.WithField("repository", r.Name).Info("no linguistic data available for repository")
			continue
		}

		if err := r.Languages.Validate(); err != nil {
			log.WithError(err).WithField("repository", r.Name).Error("failed to process linguistic data of repository")
			continue
		}

		for _, language := range r.Languages.Languages() {
			if _, found := totals[language]; !found {
				languages = append(languages, language)
			}

			totals[language] += r.Languages[language]
			grandTotal += r.Languages[language]
		}
	}

	if grandTotal == 0 {
		log.Info("no language data found across repositories")
		return []model.LanguageDistribution{}
	}

	sort.SliceStable(languages, func(i, j int) bool {
		if totals[languages[i]] != totals[languages[j]] {
			return totals[languages[i]] > totals[languages[j]]
		}

		return languages[i] < languages[j]
	})

	distribution := make([]model.LanguageDistribution, 0, len(languages))

	for _, language := range languages {
		distribution = append(distribution, model.LanguageDistribution{
			Language:   language,
			Bytes:      totals[language],
			Percentage: Round(float64(totals[language])/float64(grandTotal)*100, model.LanguageDistributionPrecision),
		})
	}

	log.WithFields(log.Fields{
		"languages":  len(distribution),
		"totalBytes": grandTotal,
	}).Info("language data successfully aggregated")

	return distribution
}

func logProgress(index int, total int, r model.RepositoryMetaData, message string) {
	log.WithFields(log.Fields{
		"index":      index + 1,
		"total":      total,
		"repository": r.Name,
	}).Debug(message)
}
