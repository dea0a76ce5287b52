package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Scalingo/sclng-language-stats/export"
	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compute the language and category distributions",
	Long: `Reads the stored snapshot of the organisation, computes every distribution,
writes them as csv tables in the result directory and prints a summary.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var (
	evaluateThreshold float64
	evaluatePrecision int
	evaluateNoExport  bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().Float64Var(&evaluateThreshold, "threshold", -1, "Override the category threshold percent")
	evaluateCmd.Flags().IntVar(&evaluatePrecision, "precision", -1, "Override the category percentages precision")
	evaluateCmd.Flags().BoolVar(&evaluateNoExport, "no-export", false, "Only print the summary, do not write csv tables")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reportService, store, err := newReportService(cmd.Context(), *cfg, false)
	if err != nil {
		return err
	}
	defer store.Close()

	var query model.EvaluationQuery

	if cmd.Flags().Changed("threshold") {
		query.Threshold = &evaluateThreshold
	}

	if cmd.Flags().Changed("precision") {
		query.Precision = &evaluatePrecision
	}

	report, err := reportService.BuildReport(cmd.Context(), cfg.Github.Organisation, query.Apply(reportService.DefaultOptions()))
	if err != nil {
		return fmt.Errorf("failed to evaluate repositories: %w", err)
	}

	if !evaluateNoExport {
		if err := export.WriteReport(cfg.Storage.ResultDirectory, report); err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
	}

	repos, err := reportService.Repositories(cmd.Context(), cfg.Github.Organisation)
	if err != nil {
		return fmt.Errorf("failed to load repositories: %w", err)
	}

	printReport(report, largestRepositories(repos, largestRepositoriesShown))
	return nil
}

const largestRepositoriesShown = 5

// largestRepositories return the n biggest repositories by disk size, then by name
func largestRepositories(repos []model.RepositoryMetaData, n int) []model.RepositoryMetaData {
	sorted := make([]model.RepositoryMetaData, len(repos))
	copy(sorted, repos)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Size != sorted[j].Size {
			return sorted[i].Size > sorted[j].Size
		}

		return sorted[i].Name < sorted[j].Name
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

func printReport(report model.Report, largest []model.RepositoryMetaData) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	fmt.Printf("\n%s\n", titleStyle.Render(report.Organisation))
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d repositories, %d kB", report.RepositoriesCount, report.TotalSizeKB)))

	if len(largest) > 0 {
		fmt.Printf("\n%s\n", sectionStyle.Render("Largest repositories"))
		for _, r := range largest {
			fmt.Printf("  %-24s %8s MB\n", labelStyle.Render(r.Name), strconv.FormatFloat(r.SizeMB(), 'f', 2, 64))
		}
	}

	fmt.Printf("\n%s\n", sectionStyle.Render("Languages"))
	for _, entry := range report.LanguageDistribution {
		fmt.Printf("  %-24s %8s%%  %s\n",
			labelStyle.Render(entry.Language),
			strconv.FormatFloat(entry.Percentage, 'f', model.LanguageDistributionPrecision, 64),
			dimStyle.Render(strconv.Itoa(entry.Bytes)+" bytes"),
		)
	}

	fmt.Printf("\n%s\n", sectionStyle.Render("Categories"))
	for _, entry := range report.CategoryDistribution {
		values := entry.Values()
		fmt.Printf("  %-24s %4d  %8s%%  %s\n",
			labelStyle.Render(entry.Category),
			entry.Count,
			values[2],
			dimStyle.Render(values[3]+"% without "+model.RestCategory),
		)
	}

	fmt.Printf("\n%s\n", sectionStyle.Render("Compact"))
	fmt.Println("  " + report.CompactCategories)
	fmt.Println("  " + report.CompactCategoryShares)
	fmt.Println("  " + report.CompactLanguages)
	fmt.Println()
}
