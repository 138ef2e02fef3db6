package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/calendar/pgstore"
	"github.com/meenmo/fincore/config"
	"github.com/meenmo/fincore/solver"
)

const holidayLoadTimeout = 10 * time.Second

// env is the process-wide state every command shares: configuration,
// logger, calendar registry and root finder.
type env struct {
	cfg       config.Config
	logger    *slog.Logger
	closer    io.Closer
	calendars *calendar.Registry
	solver    solver.Solver
}

func newEnv(cfgPath string, stderr io.Writer) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger, closer, err := config.NewLogger(cfg.Log, stderr)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	reg, err := loadCalendars(cfg.Calendar, logger)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &env{
		cfg:       cfg,
		logger:    logger,
		closer:    closer,
		calendars: reg,
		solver:    solver.New(cfg.Solver),
	}, nil
}

func (e *env) Close() error { return e.closer.Close() }

// loadCalendars applies holiday files first and database rows last, so a
// database table overrides a file for the same market.
func loadCalendars(cfg config.CalendarConfig, logger *slog.Logger) (*calendar.Registry, error) {
	var tables []calendar.HolidayTable
	for _, path := range cfg.HolidayFiles {
		ts, err := calendar.LoadHolidayFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("holiday file loaded", "path", path, "tables", len(ts))
		tables = append(tables, ts...)
	}

	if cfg.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), holidayLoadTimeout)
		defer cancel()

		db, err := pgstore.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		opts := []pgstore.Option{pgstore.WithLogger(logger)}
		if cfg.PostgresTable != "" {
			opts = append(opts, pgstore.WithTable(cfg.PostgresTable))
		}
		ids := calendar.NewRegistry(tables...).IDs()
		ts, err := pgstore.New(db, opts...).Load(ctx, ids...)
		if err != nil {
			return nil, err
		}
		tables = append(tables, ts...)
	}

	return calendar.NewRegistry(tables...), nil
}

// lookupCalendar resolves an optional calendar id; empty means the Null calendar.
func (e *env) lookupCalendar(id string) (calendar.Calendar, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return calendar.Calendar{}, nil
	}
	return e.calendars.Get(calendar.CalendarID(id))
}
