package evaluation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Scalingo/sclng-language-stats/model"
	log "github.com/sirupsen/logrus"
)

// CompositeSeparator join the names of several matching categories
const CompositeSeparator = " + "

var errNoLanguageBytes = errors.New("no language bytes")

// ComputeRepositoryCategoryDistribution assign a category label to each repository and count repositories per label
//
// A language is relevant for a repository when its share of the repository's own bytes is
// at least cfg.ThresholdPercent. Repositories matching several categories get a composite label,
// repositories matching none (or without data) go to the Rest bucket.
func ComputeRepositoryCategoryDistribution(repos []model.RepositoryMetaData, cfg model.CategoryConfig, precision int) ([]model.RepositoryCategory, []model.CategoryDistribution) {
	if precision < 0 {
		precision = 0
	}

	log.WithFields(log.Fields{
		"repositories": len(repos),
		"threshold":    cfg.ThresholdPercent,
		"categories":   len(cfg.Categories),
	}).Info("starting repository category evaluation")

	categorySets := cfg.LanguageSets()
	categoryNames := make([]string, 0, len(categorySets))
	for name := range categorySets {
		categoryNames = append(categoryNames, name)
	}
	sort.Strings(categoryNames)

	assignments := make([]model.RepositoryCategory, 0, len(repos))
	repositoryIDs := make([]int64, 0, len(repos))
	counters := make(map[string]int)

	for i, r := range repos {
		logProgress(i, len(repos), r, "analyzing repository")

		label, err := categorize(r.Languages, cfg.ThresholdPercent, categoryNames, categorySets)
		if err != nil {
			log.WithError(err).WithField("repository", r.Name).Error("failed to process linguistic data for repository")
			label = model.RestCategory
		}

		assignments = append(assignments, model.RepositoryCategory{RepositoryName: r.Name, Category: label})
		repositoryIDs = append(repositoryIDs, r.ID)
		counters[label]++
	}

	if len(assignments) == 0 {
		log.Info("no repositories could be categorized")
		return []model.RepositoryCategory{}, []model.CategoryDistribution{}
	}

	sortAssignments(assignments, repositoryIDs)

	totalCategorized := 0
	totalWithoutRest := 0
	labels := make([]string, 0, len(counters))

	for label, count := range counters {
		labels = append(labels, label)
		totalCategorized += count

		if label != model.RestCategory {
			totalWithoutRest += count
		}
	}

	sort.Strings(labels)

	distribution := make([]model.CategoryDistribution, 0, len(labels))

	for _, label := range labels {
		count := counters[label]
		normalized := 0.0

		if label != model.RestCategory && totalWithoutRest > 0 {
			normalized = Round(float64(count)/float64(totalWithoutRest)*100, precision)
		}

		distribution = append(distribution, model.CategoryDistribution{
			Category:             label,
			Count:                count,
			Percentage:           Round(float64(count)/float64(totalCategorized)*100, precision),
			NormalizedPercentage: normalized,
			Precision:            precision,
		})
	}

	log.WithFields(log.Fields{
		"repositories": totalCategorized,
		"labels":       len(distribution),
	}).Info("repository categories successfully aggregated")

	return assignments, distribution
}

// RelevantLanguages return the languages whose share of the repository bytes reach the threshold, sorted
func RelevantLanguages(languages model.LinguisticData, thresholdPercent float64) ([]string, error) {
	if err := languages.Validate(); err != nil {
		return nil, err
	}

	if languages.Total() == 0 {
		return nil, errNoLanguageBytes
	}

	relevant := make([]string, 0, len(languages))

	for _, language := range languages.Languages() {
		if languages.Percentage(language) >= thresholdPercent {
			relevant = append(relevant, language)
		}
	}

	return relevant, nil
}

func categorize(languages model.LinguisticData, thresholdPercent float64, categoryNames []string, categorySets map[string]map[string]struct{}) (string, error) {
	if !languages.HasData() {
		return model.RestCategory, nil
	}

	relevant, err := RelevantLanguages(languages, thresholdPercent)
	if err != nil {
		return model.RestCategory, fmt.Errorf("unable to compute relevant languages: %w", err)
	}

	matched := make([]string, 0)

	// categoryNames is sorted, so the composite label is sorted as well
	for _, name := range categoryNames {
		for _, language := range relevant {
			if _, found := categorySets[name][language]; found {
				matched = append(matched, name)
				break
			}
		}
	}

	if len(matched) == 0 {
		return model.RestCategory, nil
	}

	return strings.Join(matched, CompositeSeparator), nil
}

// sortAssignments sort by repository name, then by repository id for duplicated names
func sortAssignments(assignments []model.RepositoryCategory, ids []int64) {
	sort.Sort(assignmentSorter{assignments: assignments, ids: ids})
}

type assignmentSorter struct {
	assignments []model.RepositoryCategory
	ids         []int64
}

func (s assignmentSorter) Len() int {
	return len(s.assignments)
}

func (s assignmentSorter) Less(i, j int) bool {
	if s.assignments[i].RepositoryName != s.assignments[j].RepositoryName {
		return s.assignments[i].RepositoryName < s.assignments[j].RepositoryName
	}

	return s.ids[i] < s.ids[j]
}

func (s assignmentSorter) Swap(i, j int) {
	s.assignments[i], s.assignments[j] = s.assignments[j], s.assignments[i]
	s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
}
