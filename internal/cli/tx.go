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

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txDeleteCmd())

	return cmd
}

func txAddCmd() *cobra.Command {
	var (
		title     string
		amount    string
		category  int64
		direction string
		date      string
		photo     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record an income or expense entry. After an expense is saved the
budget for its category and month is checked and the result printed.`,
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

			occurredAt := time.Now()
			if date != "" {
				occurredAt, err = parseDay(date)
				if err != nil {
					return err
				}
			}

			tx := core.Transaction{
				Title:      title,
				Amount:     core.Money{Cents: cents},
				OccurredAt: occurredAt,
				CategoryID: category,
				Direction:  core.Direction(direction),
				PhotoPath:  photo,
			}

			id, err := app.tx.CreateTransaction(ctx, tx)
			if err != nil {
				return err
			}
			fmt.Printf("Saved transaction %d\n", id)

			if tx.Direction == core.Expense {
				printBudgetCheck(ctx, app, tx.CategoryID, tx.OccurredAt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "transaction title")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in euros, e.g. 12.50")
	cmd.Flags().Int64Var(&category, "category", 0, "category ID")
	cmd.Flags().StringVar(&direction, "direction", string(core.Expense), "income or expense")
	cmd.Flags().StringVar(&date, "date", "", "day of the transaction (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&photo, "photo", "", "path to a receipt photo")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

// printBudgetCheck reports the budget evaluation for the category the
// expense landed in and for the all-categories budget, when either
// exists.
func printBudgetCheck(ctx context.Context, app *app, categoryID int64, at time.Time) {
	month, year := core.MonthYearOf(at)

	for _, id := range []int64{categoryID, core.AllCategories} {
		ev, err := app.budgets.Check(ctx, id, month, year)
		if err != nil {
			fmt.Printf("Budget check failed: %v\n", err)
			continue
		}
		if ev.Status == core.StatusNoBudget {
			continue
		}
		fmt.Printf("%s (%s of %s used)\n", ev.Message, ev.Spent, ev.Limit)
	}
}

func txListCmd() *cobra.Command {
	var (
		title     string
		direction string
		category  int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			txs, err := app.tx.ListTransactions(ctx)
			if err != nil {
				return err
			}

			txs = core.FilterTransactions(txs, core.Criteria{
				Title:      title,
				Direction:  core.Direction(direction),
				CategoryID: category,
			})

			if len(txs) == 0 {
				fmt.Println("No transactions found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tDate\tTitle\tDirection\tCategory\tAmount")
			for _, tx := range txs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					tx.ID,
					tx.OccurredAt.Format("2006-01-02"),
					tx.Title,
					tx.Direction,
					tx.CategoryID,
					tx.Amount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "filter by title substring")
	cmd.Flags().StringVar(&direction, "direction", "", "filter by direction (income or expense)")
	cmd.Flags().Int64Var(&category, "category", 0, "filter by category ID")

	return cmd
}

func txEditCmd() *cobra.Command {
	var (
		id        int64
		title     string
		amount    string
		category  int64
		direction string
		date      string
		photo     string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			tx, err := app.tx.GetTransaction(ctx, id)
			if err != nil {
				return fmt.Errorf("load transaction %d: %w", id, err)
			}

			if cmd.Flags().Changed("title") {
				tx.Title = title
			}
			if cmd.Flags().Changed("amount") {
				cents, err := core.ParseDecimalToCents(amount)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
				tx.Amount = core.Money{Cents: cents}
			}
			if cmd.Flags().Changed("category") {
				tx.CategoryID = category
			}
			if cmd.Flags().Changed("direction") {
				tx.Direction = core.Direction(direction)
			}
			if cmd.Flags().Changed("date") {
				tx.OccurredAt, err = parseDay(date)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("photo") {
				tx.PhotoPath = photo
			}

			if err := app.tx.UpdateTransaction(ctx, tx); err != nil {
				return err
			}
			fmt.Printf("Updated transaction %d\n", id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "transaction ID")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount in euros")
	cmd.Flags().Int64Var(&category, "category", 0, "new category ID")
	cmd.Flags().StringVar(&direction, "direction", "", "new direction")
	cmd.Flags().StringVar(&date, "date", "", "new day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&photo, "photo", "", "new receipt photo path")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction ID %q", args[0])
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.tx.DeleteTransaction(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted transaction %d\n", id)
			return nil
		},
	}
}

// parseDay parses a YYYY-MM-DD day in the local time zone.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
