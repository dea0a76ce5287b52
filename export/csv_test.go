package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	report := model.Report{
		Organisation: "test-org",
		Languages:    []string{"Java", "Vue"},
		LanguageDistribution: []model.LanguageDistribution{
			{Language: "Java", Bytes: 750, Percentage: 75},
			{Language: "Vue", Bytes: 250, Percentage: 25},
		},
		RepositoryCategories: []model.RepositoryCategory{
			{RepositoryName: "api", Category: "Backend"},
			{RepositoryName: "web, app", Category: "Frontend"},
		},
		CategoryDistribution: []model.CategoryDistribution{
			{Category: "Backend", Count: 1, Percentage: 50, NormalizedPercentage: 50, Precision: 0},
			{Category: "Frontend", Count: 1, Percentage: 50, NormalizedPercentage: 50, Precision: 0},
		},
	}

	require.NoError(t, WriteReport(dir, report))

	tests := []struct {
		file     string
		expected string
	}{
		{LanguagesFile, "language\nJava\nVue\n"},
		{LanguageDistributionFile, "language,bytes,percentage\nJava,750,75.00\nVue,250,25.00\n"},
		{RepositoryDistributionFile, "repository_name,category\napi,Backend\n\"web, app\",Frontend\n"},
		{CategoryDistributionFile, "category,count,percentage,normalized_percentage\nBackend,1,50,50\nFrontend,1,50,50\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join(dir, "test-org", tt.file))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(content))
		})
	}
}

func TestWriteCSVEmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "empty.csv")

	require.NoError(t, WriteCSV(path, []string{"language"}, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "language\n", string(content))
}
