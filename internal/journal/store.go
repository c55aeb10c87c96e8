package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/s3upload/internal/journal/migrations"
	"github.com/dmitrijs2005/s3upload/internal/logging"
	"github.com/dmitrijs2005/s3upload/internal/upload"
)

// timeLayout is fixed-width so that started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Run describes one invocation of the uploader.
type Run struct {
	ID        string
	StartedAt time.Time
	Bucket    string
	Region    string
	Directory string
	Total     int
	Succeeded int
}

// Record is a stored per-file outcome.
type Record struct {
	Seq     int
	Path    string
	Message string
	Failed  bool
}

// Store is a SQLite-backed journal.
type Store struct {
	db *sql.DB
}

type Option func(*options)

type options struct {
	logger logging.Logger
}

// WithLogger routes migration output to l instead of discarding it.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open opens (creating if needed) the journal at path and migrates it to the
// latest schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, ErrNoPath
	}

	o := options{logger: logging.NewSlogLogger(slog.New(slog.DiscardHandler))}
	for _, fn := range opts {
		fn(&o)
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db, o.logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// ensureParentDir creates the directory that will hold the database file.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB, l logging.Logger) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(&gooseLogger{ctx: ctx, l: l})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores run and its outcomes atomically. Total and Succeeded are
// derived from outcomes.
func (s *Store) RecordRun(ctx context.Context, run Run, outcomes []upload.Outcome) error {
	run.Total = len(outcomes)
	run.Succeeded = upload.CountSuccessful(outcomes)

	return withTx(ctx, s.db, nil, func(ctx context.Context, tx dbtx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, started_at, bucket, region, directory, total, succeeded)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.StartedAt.UTC().Format(timeLayout), run.Bucket, run.Region,
			run.Directory, run.Total, run.Succeeded)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for i, o := range outcomes {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO outcomes (run_id, seq, path, message, failed) VALUES (?, ?, ?, ?, ?)`,
				run.ID, i, o.Path, o.Message, o.Failed())
			if err != nil {
				return fmt.Errorf("failed to insert outcome %d: %w", i, err)
			}
		}
		return nil
	})
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, bucket, region, directory, total, succeeded
		FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var (
			r       Run
			started string
		)
		if err := rows.Scan(&r.ID, &started, &r.Bucket, &r.Region, &r.Directory, &r.Total, &r.Succeeded); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("run %s: bad started_at: %w", r.ID, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Outcomes lists the outcomes of runID in traversal order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Record, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, path, message, failed FROM outcomes WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to select outcomes: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Seq, &r.Path, &r.Message, &r.Failed); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// gooseLogger adapts logging.Logger to goose.Logger.
type gooseLogger struct {
	ctx context.Context
	l   logging.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.l.Debug(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
}
