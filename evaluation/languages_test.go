package evaluation

import (
	"testing"

	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/stretchr/testify/assert"
)

// TestCollectDistinctLanguages test the function called CollectDistinctLanguages
func TestCollectDistinctLanguages(t *testing.T) {
	tests := []struct {
		name     string
		repos    []model.RepositoryMetaData
		expected []string
	}{
		{
			name:     "No repositories",
			repos:    nil,
			expected: []string{},
		},
		{
			name: "Repositories without linguistic data",
			repos: []model.RepositoryMetaData{
				{ID: 1, Name: "repo1"},
				{ID: 2, Name: "repo2", Languages: model.LinguisticData{}},
			},
			expected: []string{},
		},
		{
			name: "Languages are merged and sorted",
			repos: []model.RepositoryMetaData{
				{ID: 1, Name: "repo1", Languages: model.LinguisticData{"Vue": 10, "Java": 20}},
				{ID: 2, Name: "repo2"},
				{ID: 3, Name: "repo3", Languages: model.LinguisticData{"Java": 5, "CSS": 1}},
			},
			expected: []string{"CSS", "Java", "Vue"},
		},
		{
			name: "Malformed repository is ignored",
			repos: []model.RepositoryMetaData{
				{ID: 1, Name: "broken", Languages: model.LinguisticData{"Go": -1, "Rust": 10}},
				{ID: 2, Name: "repo2", Languages: model.LinguisticData{"Python": 5}},
			},
			expected: []string{"Python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CollectDistinctLanguages(tt.repos))
		})
	}
}

// TestComputeGlobalLanguageDistribution test the function called ComputeGlobalLanguageDistribution
func TestComputeGlobalLanguageDistribution(t *testing.T) {
	tests := []struct {
		name     string
		repos    []model.RepositoryMetaData
		expected []model.LanguageDistribution
	}{
		{
			name:     "No data at all",
			repos:    []model.RepositoryMetaData{{ID: 1, Name: "repo1"}},
			expected: []model.LanguageDistribution{},
		},
		{
			name:     "Only zero byte counts",
			repos:    []model.RepositoryMetaData{{ID: 1, Name: "repo1", Languages: model.LinguisticData{"Go": 0}}},
			expected: []model.LanguageDistribution{},
		},
		{
			name: "Bytes are summed across repositories",
			repos: []model.RepositoryMetaData{
				{ID: 1, Name: "repo1", Languages: model.LinguisticData{"Java": 600, "HTML": 100}},
				{ID: 2, Name: "repo2"},
				{ID: 3, Name: "repo3", Languages: model.LinguisticData{"Java": 100, "TypeScript": 200}},
			},
			expected: []model.LanguageDistribution{
				{Language: "Java", Bytes: 700, Percentage: 70},
				{Language: "TypeScript", Bytes: 200, Percentage: 20},
				{Language: "HTML", Bytes: 100, Percentage: 10},
			},
		},
		{
			name: "Equal bytes are ordered by name and percentages rounded",
			repos: []model.RepositoryMetaData{
				{ID: 1, Name: "repo1", Languages: model.LinguisticData{"Vue": 1, "CSS": 1, "Go": 1}},
			},
			expected: []model.LanguageDistribution{
				{Language: "CSS", Bytes: 1, Percentage: 33.33},
				{Language: "Go", Bytes: 1, Percentage: 33.33},
				{Language: "Vue", Bytes: 1, Percentage: 33.33},
			},
		},
		{
			name: "Malformed repository is not counted",
			repos: []model.RepositoryMetaData{
				{ID: 1, Name: "broken", Languages: model.LinguisticData{"": 1000}},
				{ID: 2, Name: "repo2", Languages: model.LinguisticData{"Go": 300, "Shell": 100}},
			},
			expected: []model.LanguageDistribution{
				{Language: "Go", Bytes: 300, Percentage: 75},
				{Language: "Shell", Bytes: 100, Percentage: 25},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeGlobalLanguageDistribution(tt.repos))
		})
	}
}

func TestGlobalLanguageDistributionSumsToHundred(t *testing.T) {
	repos := []model.RepositoryMetaData{
		{ID: 1, Name: "a", Languages: model.LinguisticData{"Go": 12345, "Shell": 77, "Makefile": 3}},
		{ID: 2, Name: "b", Languages: model.LinguisticData{"Python": 9876, "Jupyter Notebook": 45678}},
		{ID: 3, Name: "c", Languages: model.LinguisticData{"Java": 333, "Kotlin": 333, "Go": 1}},
	}

	distribution := ComputeGlobalLanguageDistribution(repos)

	sum := 0.0
	for _, entry := range distribution {
		sum += entry.Percentage
	}

	assert.InDelta(t, 100, sum, 0.1*float64(len(distribution)))
}

func TestGlobalLanguageDistributionIgnoresInputOrder(t *testing.T) {
	repos := []model.RepositoryMetaData{
		{ID: 1, Name: "a", Languages: model.LinguisticData{"Go": 100, "Shell": 50}},
		{ID: 2, Name: "b", Languages: model.LinguisticData{"Shell": 50, "Python": 100}},
		{ID: 3, Name: "c", Languages: model.LinguisticData{"Java": 10}},
	}
	permuted := []model.RepositoryMetaData{repos[2], repos[0], repos[1]}

	assert.Equal(t, ComputeGlobalLanguageDistribution(repos), ComputeGlobalLanguageDistribution(permuted))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 33.33, Round(100.0/3, 2))
	assert.Equal(t, 66.7, Round(200.0/3, 1))
	assert.Equal(t, 3.0, Round(2.5, 0))
	assert.Equal(t, 12.0, Round(12.3, -1))
	assert.Equal(t, 12.5, Round(12.5, 400))
}
