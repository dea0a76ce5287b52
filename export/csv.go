package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Scalingo/sclng-language-stats/model"
	log "github.com/sirupsen/logrus"
)

const (
	LanguagesFile              = "languages.csv"
	LanguageDistributionFile   = "language-distribution.csv"
	RepositoryDistributionFile = "repository-distribution.csv"
	CategoryDistributionFile   = "category-distribution.csv"
)

// WriteCSV write the header and the rows to path
// empty results still produce a file with the given header
func WriteCSV(path string, header []string, rows []model.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create result directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("unable to write header of %s: %w", path, err)
	}

	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return fmt.Errorf("unable to write row of %s: %w", path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("unable to flush %s: %w", path, err)
	}

	return file.Close()
}

// WriteReport write the four report tables to <directory>/<organisation>/
func WriteReport(directory string, report model.Report) error {
	target := filepath.Join(directory, report.Organisation)

	tables := []struct {
		file   string
		header []string
		rows   []model.Row
	}{
		{LanguagesFile, model.LanguageEntry{}.Columns(), model.ToRows(report.LanguageEntries())},
		{LanguageDistributionFile, model.LanguageDistribution{}.Columns(), model.ToRows(report.LanguageDistribution)},
		{RepositoryDistributionFile, model.RepositoryCategory{}.Columns(), model.ToRows(report.RepositoryCategories)},
		{CategoryDistributionFile, model.CategoryDistribution{}.Columns(), model.ToRows(report.CategoryDistribution)},
	}

	for _, table := range tables {
		path := filepath.Join(target, table.file)

		if err := WriteCSV(path, table.header, table.rows); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"path": path,
			"rows": len(table.rows),
		}).Info("result table written")
	}

	return nil
}
