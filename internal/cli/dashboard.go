package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bilancio/internal/core"
)

func dashboardCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show balance, recent expenses and aggregate series",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			now := time.Now()
			if year == 0 {
				_, year = core.MonthYearOf(now)
			}

			d, err := app.dash.BuildAt(ctx, now, year)
			if err != nil {
				return err
			}

			fmt.Printf("Income:  %s\n", d.TotalIncome)
			fmt.Printf("Expense: %s\n", d.TotalExpense)
			fmt.Printf("Balance: %s\n", d.NetBalance)

			if len(d.RecentExpenses) > 0 {
				fmt.Println("\nRecent expenses:")
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, tx := range d.RecentExpenses {
					fmt.Fprintf(w, "  %s\t%s\t%s\n",
						tx.OccurredAt.Format("2006-01-02"), tx.Title, tx.Amount)
				}
				w.Flush()
			}

			fmt.Printf("\nNet balance, last %d days:\n", app.cfg.TrailingWindowDays)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  Day\tNet\tCumulative")
			for _, p := range d.TrailingNet {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", p.Label, p.Net, p.Cumulative)
			}
			w.Flush()

			fmt.Printf("\nMonthly totals %d:\n", year)
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  Month\tIncome\tExpense")
			for i, mt := range d.MonthlyTotals {
				fmt.Fprintf(w, "  %s\t%s\t%s\n",
					time.Month(i+1).String()[:3], mt.Income, mt.Expense)
			}
			w.Flush()

			printBreakdown("Expenses by category:", d.ExpenseSlices)
			printBreakdown("Income by category:", d.IncomeSlices)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year for the monthly totals (default current)")

	return cmd
}

func printBreakdown(header string, slices []core.CategoryAmount) {
	if len(slices) == 0 {
		return
	}

	fmt.Println("\n" + header)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, s := range slices {
		fmt.Fprintf(w, "  %s\t%s\n", s.Name, s.Total)
	}
	w.Flush()
}
