package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
	"github.com/rs/zerolog"

	"datachat/models"
	"datachat/schema"
)

// ExecutionError is the sanitized, user-facing form of a driver failure.
// The wrapped error keeps the full detail for logging.
type ExecutionError struct {
	Detail string
	Err    error
}

func (e *ExecutionError) Error() string { return e.Detail }
func (e *ExecutionError) Unwrap() error { return e.Err }

type ExecutorConfig struct {
	Path         string
	MaxRows      int
	QueryTimeout time.Duration
}

// Executor runs accepted statements against the demo database. The serving
// pool is opened with access_mode=read_only, so even a statement that
// slipped past the validator cannot mutate anything: the driver refuses it.
type Executor struct {
	db      *sql.DB
	maxRows int
	timeout time.Duration
	logger  zerolog.Logger
}

// NewExecutor creates (and seeds, when empty) the demo database, then opens
// the read-only pool used for all query execution. Any failure here is
// startup-fatal for the caller.
func NewExecutor(cfg ExecutorConfig, desc *schema.Descriptor, logger zerolog.Logger) (*Executor, error) {
	if cfg.MaxRows <= 0 {
		return nil, fmt.Errorf("max result rows must be positive")
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 15 * time.Second
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := seedDatabase(cfg.Path, desc); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	db, err := sql.Open("duckdb", cfg.Path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("failed to open read-only database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Executor{
		db:      db,
		maxRows: cfg.MaxRows,
		timeout: cfg.QueryTimeout,
		logger:  logger.With().Str("component", "executor").Logger(),
	}, nil
}

// newExecutorWithDB wires an executor onto an existing pool. Used by tests.
func newExecutorWithDB(db *sql.DB, maxRows int, timeout time.Duration, logger zerolog.Logger) *Executor {
	return &Executor{db: db, maxRows: maxRows, timeout: timeout, logger: logger}
}

func (e *Executor) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

func (e *Executor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Execute runs a statement with a bounded timeout and materializes at most
// the configured row cap, regardless of any LIMIT in the statement itself.
func (e *Executor) Execute(ctx context.Context, sqlText string) (*models.QueryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, e.wrapDriverError(sqlText, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, e.wrapDriverError(sqlText, err)
	}

	result := &models.QueryResult{
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}

	for rows.Next() {
		if len(result.Rows) >= e.maxRows {
			// Next() returned true, so at least one more row exists.
			result.Truncated = true
			break
		}

		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, e.wrapDriverError(sqlText, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if !result.Truncated {
		if err := rows.Err(); err != nil {
			return nil, e.wrapDriverError(sqlText, err)
		}
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

func (e *Executor) wrapDriverError(sqlText string, err error) error {
	e.logger.Error().Err(err).Str("sql", sqlText).Msg("query execution failed")

	if errors.Is(err, context.DeadlineExceeded) {
		return &ExecutionError{Detail: "query timed out", Err: err}
	}
	return &ExecutionError{Detail: "database error: " + firstLine(err.Error()), Err: err}
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case []byte:
		return string(typed)
	default:
		return typed
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
