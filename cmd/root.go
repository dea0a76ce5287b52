package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile   string
	organisation string
)

var rootCmd = &cobra.Command{
	Use:   "sclng-language-stats",
	Short: "Language statistics for a GitHub organisation",
	Long: `sclng-language-stats fetches the repositories of a GitHub organisation with their languages,
then computes language and category distributions from the stored snapshot.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the toml configuration file (default config/config.toml)")
	rootCmd.PersistentFlags().StringVar(&organisation, "org", "", "GitHub organisation, override the configuration and GITHUB_ORGANISATION")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
