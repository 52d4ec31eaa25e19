// Package cli runs one analysis: acquire expenses, analyze them and write a
// single JSON line to stdout.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"expense-insights/internal/amqp"
	"expense-insights/internal/config"
	"expense-insights/internal/core"
	"expense-insights/internal/input"
	"expense-insights/internal/log"
	"expense-insights/internal/storage"
)

// Exit statuses returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// SnapshotLoader is the stored-expense source used instead of stdin.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, email string, window core.Window) (storage.Snapshot, error)
}

// PublishFunc delivers a computed result downstream.
type PublishFunc func(ctx context.Context, msg *amqp.InsightsMessage) error

type App struct {
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Logger *log.Logger

	// Store replaces Stdin as the expense source when set.
	Store SnapshotLoader
	// Publish is called after the result has been written, when set.
	Publish PublishFunc
	Now     func() time.Time
}

// loadError reports a failure reading the stored expenses.
type loadError struct {
	err error
}

func (e *loadError) Error() string {
	return "Failed to load expenses: " + e.err.Error()
}

func (e *loadError) Unwrap() error {
	return e.err
}

type errorResponse struct {
	Error string `json:"error"`
}

// Run executes the pipeline and returns the process exit status.
func (a *App) Run(ctx context.Context) int {
	logger := a.logger().With(log.FieldSource, a.source())
	period := a.Config.PeriodValue()
	start := a.now()

	records, income, err := a.acquire(ctx, period)
	if err != nil {
		return a.failAcquire(ctx, logger, err)
	}

	result := core.Analyze(records, income)
	if err := result.Validate(); err != nil {
		return a.failAcquire(ctx, logger, &input.ParseError{Err: err})
	}
	logger.WithComponent(log.ComponentAnalysis).DebugContext(ctx, "Expenses analyzed",
		log.NewFields().
			WithOperation(log.OpAnalyze).
			WithSummary(len(records), result.Grouped.Len(), result.TotalSpend, result.Income).
			ToSlice()...)

	line, err := encodeLine(result)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to encode result", log.FieldOperation, log.OpEmit, log.FieldError, err.Error())
		return a.fail(logger, "Failed to encode result: "+err.Error())
	}
	if _, err := a.Stdout.Write(line); err != nil {
		logger.ErrorContext(ctx, "Failed to write result", log.FieldOperation, log.OpEmit, log.FieldError, err.Error())
		return ExitError
	}

	if a.Publish != nil {
		msg := amqp.NewInsightsMessage(a.Config.Email, period, result)
		if err := a.Publish(ctx, msg); err != nil {
			// stdout already carries the result, so this is not fatal.
			logger.WithComponent(log.ComponentAMQP).WarnContext(ctx, "Failed to publish insights",
				log.NewFields().WithOperation(log.OpPublish).WithError(err, log.ErrorTypeNetwork).ToSlice()...)
		}
	}

	logger.InfoContext(ctx, "Analysis complete",
		log.FieldPeriod, period,
		log.FieldDuration, a.now().Sub(start).Milliseconds())
	return ExitOK
}

// acquire returns the expense records and the income to analyze them with.
func (a *App) acquire(ctx context.Context, period core.Period) ([]core.ExpenseRecord, float64, error) {
	if a.Store == nil {
		records, err := input.ReadExpenses(a.Stdin)
		if err != nil {
			return nil, 0, err
		}
		return records, a.Config.Salary, nil
	}

	window, err := core.PeriodWindow(period, a.now())
	if err != nil {
		return nil, 0, err
	}
	snap, err := a.Store.LoadSnapshot(ctx, a.Config.Email, window)
	if err != nil {
		return nil, 0, &loadError{err: err}
	}
	income := snap.Income
	if a.Config.SalarySet {
		income = a.Config.Salary
	}
	return snap.Records, income, nil
}

// FailLoad reports a stored-expense source that could not be opened, in the
// same shape Run uses for load failures.
func (a *App) FailLoad(ctx context.Context, err error) int {
	return a.failAcquire(ctx, a.logger().With(log.FieldSource, a.source()), &loadError{err: err})
}

func (a *App) failAcquire(ctx context.Context, logger *log.Logger, err error) int {
	op := log.OpRead
	var perr *input.ParseError
	if errors.As(err, &perr) {
		op = log.OpParse
	}
	logger.WithComponent(log.ComponentInput).ErrorContext(ctx, "Expense acquisition failed",
		log.NewFields().WithOperation(op).WithError(err, errorType(err)).ToSlice()...)
	return a.fail(logger, err.Error())
}

func (a *App) source() string {
	if a.Store != nil || a.Config.SQLiteDBPath != "" {
		return "sqlite"
	}
	return "stdin"
}

func (a *App) fail(logger *log.Logger, msg string) int {
	if err := WriteError(a.Stdout, msg); err != nil {
		logger.Error("Failed to write error response", log.FieldOperation, log.OpEmit, log.FieldError, err.Error())
	}
	return ExitError
}

func (a *App) logger() *log.Logger {
	if a.Logger == nil {
		return log.Discard()
	}
	return a.Logger
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// WriteError writes the {"error": msg} shape as one line.
func WriteError(w io.Writer, msg string) error {
	return writeJSON(w, errorResponse{Error: msg})
}

// writeJSON writes v as one line.
func writeJSON(w io.Writer, v any) error {
	line, err := encodeLine(v)
	if err != nil {
		return err
	}
	_, err = w.Write(line)
	return err
}

// encodeLine encodes v as one newline-terminated line, buffered so that a
// failed encode writes nothing. HTML escaping is off so the suggestion text
// keeps its literal "&".
func encodeLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func errorType(err error) string {
	var perr *input.ParseError
	if errors.As(err, &perr) {
		return log.ErrorTypeValidation
	}
	var lerr *loadError
	if errors.As(err, &lerr) {
		return log.ErrorTypeDatabase
	}
	if errors.Is(err, core.ErrInvalidPeriod) {
		return log.ErrorTypeConfiguration
	}
	return log.ErrorTypeInternal
}
