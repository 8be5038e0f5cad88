package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bilancio/internal/core"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets",
	}

	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetListCmd())
	cmd.AddCommand(budgetDeleteCmd())

	return cmd
}

func budgetSetCmd() *cobra.Command {
	var (
		amount   string
		category int64
		month    int
		year     int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a monthly budget",
		Long: `Set the spending limit for a category and month. Category 0 sets the
budget across all categories. Setting the same category and month again
replaces the previous limit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			cents, err := core.ParseDecimalToCents(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			if month == 0 || year == 0 {
				m, y := core.MonthYearOf(time.Now())
				if month == 0 {
					month = m
				}
				if year == 0 {
					year = y
				}
			}

			b := core.Budget{
				CategoryID: category,
				Amount:     core.Money{Cents: cents},
				Month:      month,
				Year:       year,
			}

			id, err := app.budgets.SetBudget(ctx, b)
			if err != nil {
				return err
			}
			fmt.Printf("Budget %d set: %s for %02d/%d\n", id, b.Amount, month, year)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "limit in euros, e.g. 400.00")
	cmd.Flags().Int64Var(&category, "category", core.AllCategories, "category ID (0 = all categories)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current)")
	cmd.Flags().IntVar(&year, "year", 0, "four-digit year (default current)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func budgetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with current usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			budgets, err := app.budgets.ListBudgets(ctx)
			if err != nil {
				return err
			}

			if len(budgets) == 0 {
				fmt.Println("No budgets found. Use 'bilancio budget set' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tCategory\tMonth\tLimit\tSpent\tUsed")
			for _, b := range budgets {
				spent, fraction, err := app.budgets.Progress(ctx, b)
				if err != nil {
					return err
				}

				category := strconv.FormatInt(b.CategoryID, 10)
				if b.CategoryID == core.AllCategories {
					category = "all"
				}
				fmt.Fprintf(w, "%d\t%s\t%02d/%d\t%s\t%s\t%.0f%%\n",
					b.ID, category, b.Month, b.Year, b.Amount, spent, fraction*100)
			}
			return nil
		},
	}
}

func budgetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid budget ID %q", args[0])
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.budgets.DeleteBudget(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted budget %d\n", id)
			return nil
		},
	}
}
