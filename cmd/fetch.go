package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the organisation repositories and their languages",
	Long:  `Lists every repository of the organisation, loads the languages of each one and saves the snapshot in the configured store.`,
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reportService, store, err := newReportService(cmd.Context(), *cfg, true)
	if err != nil {
		return err
	}
	defer store.Close()

	repos, err := reportService.RefreshRepositories(cmd.Context(), cfg.Github.Organisation)
	if err != nil {
		return fmt.Errorf("failed to refresh repositories: %w", err)
	}

	withLanguages := 0
	for _, r := range repos {
		if r.Languages.HasData() {
			withLanguages++
		}
	}

	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ %d repositories saved for %s", len(repos), cfg.Github.Organisation)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("  %d with linguistic data", withLanguages)))

	return nil
}
