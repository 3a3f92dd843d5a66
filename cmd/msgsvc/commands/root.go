package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the msgsvc command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "msgsvc",
		Short: "msgsvc stores messages and tells you which ones are palindromes",
		Long: `A REST service and command-line tool for storing short text messages.

Every message records whether its content is a palindrome and how many
characters it has. Storage is chosen with ENV_NAME and the storage variables
(DATA_FILE, SQLITE_PATH, BADGER_PATH, DYNAMODB_TABLE) or with the
equivalent flags on each command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "server", Title: "Server Commands:"},
		&cobra.Group{ID: "data", Title: "Data Commands:"},
	)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMessagesCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
