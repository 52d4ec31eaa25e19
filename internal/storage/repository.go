// Package storage reads expenses and incomes from a local SQLite database.
// It is an alternative to piping expenses on stdin.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"expense-insights/internal/core"
	"expense-insights/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// Expense is a stored expense row.
type Expense struct {
	ID       int64
	Email    string
	Name     string
	Category string
	Amount   float64
	SpentAt  time.Time
}

// Snapshot is everything needed to analyze one user's period.
type Snapshot struct {
	Records []core.ExpenseRecord
	Income  float64
}

func Open(ctx context.Context, dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Debug("SQLite expense store ready", "path", dbPath, log.FieldOperation, log.OpMigrate)

	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AddUser creates the user or updates their income.
func (r *SQLiteRepository) AddUser(ctx context.Context, email string, income float64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, income) VALUES (?, ?)
		 ON CONFLICT(email) DO UPDATE SET income = excluded.income`,
		NormalizeEmail(email), income)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// AddExpense stores e and returns its ID.
func (r *SQLiteRepository) AddExpense(ctx context.Context, e Expense) (int64, error) {
	var category any
	if e.Category != "" {
		category = e.Category
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_email, name, category, amount, spent_at) VALUES (?, ?, ?, ?, ?)`,
		NormalizeEmail(e.Email), e.Name, category, e.Amount, e.SpentAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}
	return id, nil
}

// ListExpenses returns the user's expenses spent inside window.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, email string, window core.Window) ([]core.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount, COALESCE(category, '') FROM expenses
		 WHERE user_email = ? AND spent_at >= ? AND spent_at < ?
		 ORDER BY spent_at, id`,
		NormalizeEmail(email), window.Start.Unix(), window.End.Unix())
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	records := []core.ExpenseRecord{}
	for rows.Next() {
		var (
			amount   float64
			category string
		)
		if err := rows.Scan(&amount, &category); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		records = append(records, core.NewExpenseRecord(amount, category))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return records, nil
}

// Income returns the user's stored income, or 0 for unknown users.
func (r *SQLiteRepository) Income(ctx context.Context, email string) (float64, error) {
	var income sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `SELECT income FROM users WHERE email = ?`, NormalizeEmail(email)).Scan(&income)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query income: %w", err)
	}
	return income.Float64, nil
}

// LoadSnapshot reads the user's expenses and income concurrently.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, email string, window core.Window) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := r.ListExpenses(gctx, email, window)
		snap.Records = records
		return err
	})
	g.Go(func() error {
		income, err := r.Income(gctx, email)
		snap.Income = income
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	r.logger.DebugContext(ctx, "Expense snapshot loaded",
		log.FieldOperation, log.OpRead,
		log.FieldRecords, len(snap.Records),
		"window_start", window.Start.Format(time.RFC3339),
		"window_end", window.End.Format(time.RFC3339))
	return snap, nil
}
