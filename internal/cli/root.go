package cli

import (
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bilancio",
		Short: "Personal finance tracker",
		Long: `bilancio tracks income and expenses in a local SQLite database,
evaluates monthly budgets, and renders aggregate views. A companion
worker exports transactions to Google Sheets through RabbitMQ.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			LoadEnvFile()
			SetupLogger("cli")
		},
	}

	cmd.AddCommand(txCmd())
	cmd.AddCommand(categoryCmd())
	cmd.AddCommand(budgetCmd())
	cmd.AddCommand(statusCmd())
	cmd.AddCommand(dashboardCmd())

	return cmd
}
