// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coursemark",
	Short: "coursemark manages assignment groups and submission rules",
	Long: `coursemark is the grouping and submission-rule service for course
assignments: group formation, invitations, bulk imports, lateness rules,
and released grade statistics.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
