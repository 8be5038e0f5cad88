// Package storage persists transactions, categories, and budgets in
// SQLite. It is the mutable collaborator behind the pure engine in
// internal/core: every List call returns a fresh point-in-time
// snapshot, and referential integrity (category deletion cascading to
// transactions and budgets) is enforced here so the engine can assume
// it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
// Budget lookups never return it: an absent budget is nil, not an
// error.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Cascade deletes depend on foreign keys being enforced on every
	// pooled connection.
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction validates and persists a transaction, returning
// its new ID.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (title, amount_cents, occurred_at, category_id, direction, photo_path)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.Title, tx.Amount.Cents, tx.OccurredAt.UnixMilli(), tx.CategoryID, string(tx.Direction), tx.PhotoPath)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"title", tx.Title,
		"amount_cents", tx.Amount.Cents,
		"direction", tx.Direction,
		"category_id", tx.CategoryID)

	return id, nil
}

// UpdateTransaction rewrites a transaction in place and resets its
// sync state so the worker exports the new version.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET title = ?, amount_cents = ?, occurred_at = ?, category_id = ?, direction = ?, photo_path = ?,
		     synced = 0, sync_error = 0
		 WHERE id = ?`,
		tx.Title, tx.Amount.Cents, tx.OccurredAt.UnixMilli(), tx.CategoryID, string(tx.Direction), tx.PhotoPath, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, tx.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, amount_cents, occurred_at, category_id, direction, photo_path
		 FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns a fresh snapshot of every transaction,
// newest first. The returned slice is owned by the caller.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, occurred_at, category_id, direction, photo_path
		 FROM transactions ORDER BY occurred_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("validate category: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, c.Name)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category saved", "id", id, "name", c.Name)
	return id, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate category: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, c.Name, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, c.ID)
}

// DeleteCategory removes a category. The schema's ON DELETE CASCADE
// removes every transaction and budget referencing it in the same
// statement, which is the invariant the aggregation engine relies on.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := requireRow(res, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category deleted with cascading transactions and budgets", "id", id)
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// UpsertBudget stores a budget, replacing any existing budget for the
// same (category, month, year) key. Delete-then-insert inside one
// transaction gives replace semantics for both real categories and the
// all-categories sentinel (stored as NULL, which UNIQUE would treat as
// distinct).
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("validate budget: %w", err)
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert budget: %w", err)
	}
	defer dbTx.Rollback()

	catRef := categoryRef(b.CategoryID)
	_, err = dbTx.ExecContext(ctx,
		`DELETE FROM budgets
		 WHERE month = ? AND year = ?
		   AND ((category_id IS NULL AND ? IS NULL) OR category_id = ?)`,
		b.Month, b.Year, catRef, catRef)
	if err != nil {
		return 0, fmt.Errorf("replace budget: %w", err)
	}

	res, err := dbTx.ExecContext(ctx,
		`INSERT INTO budgets (category_id, amount_cents, month, year) VALUES (?, ?, ?, ?)`,
		catRef, b.Amount.Cents, b.Month, b.Year)
	if err != nil {
		return 0, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", id,
		"category_id", b.CategoryID,
		"amount_cents", b.Amount.Cents,
		"month", b.Month,
		"year", b.Year)

	return id, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, id)
}

// GetBudgetFor looks up the budget for (categoryID, month, year).
// Absence is not an error: a missing budget returns (nil, nil).
func (r *SQLiteRepository) GetBudgetFor(ctx context.Context, categoryID int64, month, year int) (*core.Budget, error) {
	catRef := categoryRef(categoryID)
	row := r.db.QueryRowContext(ctx,
		`SELECT id, category_id, amount_cents, month, year
		 FROM budgets
		 WHERE month = ? AND year = ?
		   AND ((category_id IS NULL AND ? IS NULL) OR category_id = ?)`,
		month, year, catRef, catRef)

	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_id, amount_cents, month, year
		 FROM budgets ORDER BY year DESC, month DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// PendingSyncTransaction is the minimal row shape the export worker
// needs to drive its queue.
type PendingSyncTransaction struct {
	ID        int64
	CreatedAt time.Time
}

// GetPendingSyncTransactions returns transactions that have not been
// exported yet, oldest first.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions
		 WHERE synced = 0 AND sync_error = 0
		 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending transactions: %w", err)
	}
	return pending, nil
}

// MarkSynced records a successful export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError parks a transaction out of the pending queue after a
// failed export so it stops being retried on every pass.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx        core.Transaction
		millis    int64
		direction string
	)
	if err := row.Scan(&tx.ID, &tx.Title, &tx.Amount.Cents, &millis, &tx.CategoryID, &direction, &tx.PhotoPath); err != nil {
		return core.Transaction{}, err
	}
	tx.OccurredAt = time.UnixMilli(millis)
	tx.Direction = core.Direction(direction)
	return tx, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b      core.Budget
		catRef sql.NullInt64
	)
	if err := row.Scan(&b.ID, &catRef, &b.Amount.Cents, &b.Month, &b.Year); err != nil {
		return core.Budget{}, err
	}
	if catRef.Valid {
		b.CategoryID = catRef.Int64
	} else {
		b.CategoryID = core.AllCategories
	}
	return b, nil
}

// categoryRef maps the in-memory all-categories sentinel to the NULL
// used in the budgets table.
func categoryRef(categoryID int64) any {
	if categoryID == core.AllCategories {
		return nil
	}
	return categoryID
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("row %d: %w", id, ErrNotFound)
	}
	return nil
}
