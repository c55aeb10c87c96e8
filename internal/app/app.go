// Package app wires configuration, logging, the upload driver and the
// optional run journal into a single run of the uploader.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/s3upload/internal/config"
	"github.com/dmitrijs2005/s3upload/internal/journal"
	"github.com/dmitrijs2005/s3upload/internal/logging"
	"github.com/dmitrijs2005/s3upload/internal/memstat"
	"github.com/dmitrijs2005/s3upload/internal/upload"
)

type App struct {
	config *config.Config
	logger logging.Logger
	driver *upload.Driver
	runID  string
	now    func() time.Time
}

type Option func(*settings)

type settings struct {
	logWriter  io.Writer
	httpClient upload.HTTPClient
	now        func() time.Time
}

// WithLogWriter sends logs to w instead of stderr.
func WithLogWriter(w io.Writer) Option {
	return func(s *settings) { s.logWriter = w }
}

// WithHTTPClient replaces the client built from HTTP_TIMEOUT.
func WithHTTPClient(c upload.HTTPClient) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithClock fixes the time source used for the request timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	s := settings{
		logWriter: os.Stderr,
		now:       time.Now,
	}
	for _, fn := range opts {
		fn(&s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	runID := uuid.NewString()
	logger := logging.New(s.logWriter, cfg.LogLevel).With("run_id", runID)

	driver, err := upload.NewDriver(upload.Options{
		Bucket:      cfg.BucketName,
		Region:      cfg.Region,
		Credentials: cfg.Credentials(),
		Backend:     cfg.Backend,
		HTTPClient:  s.httpClient,
		Now:         s.now,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("driver init error: %w", err)
	}

	return &App{config: cfg, logger: logger, driver: driver, runID: runID, now: s.now}, nil
}

// RunID identifies this run in logs and in the journal.
func (app *App) RunID() string {
	return app.runID
}

// Run uploads the configured directory and writes the memory and success
// report to stdout. Per-file failures never make Run fail; the returned
// error reports an aborted walk or a failed report write.
func (app *App) Run(ctx context.Context, stdout io.Writer) error {
	before := memstat.Sample()
	started := app.now()

	app.logger.Info(ctx, "starting upload", "config", *app.config)

	outcomes, runErr := app.driver.UploadDirectory(ctx, app.config.DirectoryPath)
	if runErr != nil {
		app.logger.Error(ctx, "upload run aborted", "error", runErr, "completed", len(outcomes))
	}

	succeeded := upload.CountSuccessful(outcomes)
	app.logger.Info(ctx, "upload finished", "total", len(outcomes), "succeeded", succeeded)

	app.recordJournal(ctx, started, outcomes)

	delta := memstat.DeltaKB(before, memstat.Sample())
	if _, err := fmt.Fprintf(stdout, "Memory used: %d KB\nSuccessfully uploaded: %d\n", delta, succeeded); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return runErr
}

// recordJournal appends the run to the journal when one is configured.
// Failures are logged only.
func (app *App) recordJournal(ctx context.Context, started time.Time, outcomes []upload.Outcome) {
	if app.config.JournalPath == "" {
		return
	}

	// The run is recorded even if ctx was cancelled mid-walk.
	ctx = context.WithoutCancel(ctx)

	store, err := journal.Open(ctx, app.config.JournalPath, journal.WithLogger(app.logger))
	if err != nil {
		app.logger.Error(ctx, "journal unavailable", "path", app.config.JournalPath, "error", err)
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			app.logger.Warn(ctx, "journal close failed", "error", err)
		}
	}()

	run := journal.Run{
		ID:        app.runID,
		StartedAt: started,
		Bucket:    app.config.BucketName,
		Region:    app.config.Region,
		Directory: app.config.DirectoryPath,
	}
	if err := store.RecordRun(ctx, run, outcomes); err != nil {
		app.logger.Error(ctx, "journal write failed", "error", err)
		return
	}
	app.logger.Debug(ctx, "run recorded", "path", app.config.JournalPath)
}
