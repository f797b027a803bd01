package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"arbeitszeit/internal/config"
	"arbeitszeit/internal/events"
	"arbeitszeit/internal/google"
	"arbeitszeit/internal/repository"
	"arbeitszeit/internal/service"
	"arbeitszeit/internal/session"
	"arbeitszeit/internal/workbook"
)

// app holds the wired components of one process.
type app struct {
	cfg     *config.Config
	logger  *zerolog.Logger
	rdb     *redis.Client
	records *repository.Records
	svc     *service.TimesheetService
}

func newLogger(cfg *config.Config, out io.Writer) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Logging.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &logger
}

func loadApp(ctx context.Context, opts *rootOptions, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logOut == nil {
		logOut = os.Stdout
	}
	logger := newLogger(cfg, logOut)

	table, err := openTable(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	var sessions session.Store = session.NewMemoryStore()
	if cfg.Redis.Address != "" {
		a.rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		sessions = session.NewRedisStore(a.rdb, cfg.SessionTTL())
		if ttl := cfg.CacheTTL(); ttl > 0 {
			table = repository.NewCachedTable(table, a.rdb, ttl, logger)
		}
	}

	bus := events.NewEventBus(logger)
	bus.Subscribe(events.EntrySaved, events.LogSubscriber(logger))
	bus.Subscribe(events.EntryDeleted, events.LogSubscriber(logger))

	a.records = repository.NewRecords(table, logger)
	a.svc = service.NewTimesheetService(a.records, sessions, bus, logger)
	return a, nil
}

func openTable(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.Table, error) {
	switch cfg.Store.Backend {
	case config.BackendSheets:
		t, err := google.NewSheetsTable(ctx, cfg.Google.CredentialsFile, cfg.Google.SpreadsheetID, cfg.Google.Worksheet, cfg.Google.RequestsPerMinute, logger)
		if err != nil {
			return nil, fmt.Errorf("open google sheet: %w", err)
		}
		return t, nil
	case config.BackendWorkbook:
		t, err := workbook.Open(cfg.Workbook.Path, cfg.Workbook.Sheet, logger)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		return t, nil
	default:
		return repository.NewMemoryTable(), nil
	}
}

// ready pings Redis when it is configured.
func (a *app) ready(ctx context.Context) error {
	if a.rdb == nil {
		return nil
	}
	return a.rdb.Ping(ctx).Err()
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}
