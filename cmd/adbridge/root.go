package main

import "github.com/spf13/cobra"

// Commands that run unattended log structured; interactive one-shots
// print plain text.
var structuredLogCommands = map[string]bool{
	"serve": true,
}

var rootCmd = &cobra.Command{
	Use:           "adbridge",
	Short:         "Adbridge connects ad and CRM providers to your analytics backend.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setCommandExecutionContext(commandExecutionContext{
			CommandPath:       cmd.CommandPath(),
			UsesStructuredLog: commandUsesStructuredLogging(cmd),
		})
	},
}

func commandUsesStructuredLogging(cmd *cobra.Command) bool {
	return cmd != nil && structuredLogCommands[cmd.Name()]
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, providersCmd, connectCmd, disconnectCmd, statusCmd, versionCmd)
}
