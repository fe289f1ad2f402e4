package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pathmind",
	Short: "AI tutor that finds your gaps and builds a learning path",
	Long: "Pathmind runs a short diagnostic test on any topic, analyzes the answers and\n" +
		"turns them into a step-by-step learning path with lessons and practice.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default ./pathmind.yaml or ~/.config/pathmind/pathmind.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Database DSN; a file path for SQLite (overrides PATHMIND_DATABASE_DSN)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
