package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bilancio/internal/core"
)

func statusCmd() *cobra.Command {
	var (
		category int64
		month    int
		year     int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check a budget for a category and month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if month == 0 || year == 0 {
				m, y := core.MonthYearOf(time.Now())
				if month == 0 {
					month = m
				}
				if year == 0 {
					year = y
				}
			}

			ev, err := app.budgets.Check(ctx, category, month, year)
			if err != nil {
				return err
			}

			if ev.Status == core.StatusNoBudget {
				fmt.Printf("No budget set for %02d/%d\n", month, year)
				return nil
			}

			fmt.Printf("Status: %s\n", ev.Status)
			fmt.Printf("Spent:  %s of %s (%.0f%%)\n", ev.Spent, ev.Limit, ev.Ratio*100)
			fmt.Println(ev.Message)
			return nil
		},
	}

	cmd.Flags().Int64Var(&category, "category", core.AllCategories, "category ID (0 = all categories)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current)")
	cmd.Flags().IntVar(&year, "year", 0, "four-digit year (default current)")

	return cmd
}
