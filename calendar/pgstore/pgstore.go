// Package pgstore loads market holiday tables from PostgreSQL so they can be
// merged into a calendar.Registry at process start.
//
// Expected table layout:
//
//	CREATE TABLE market_holidays (
//	    market          text    NOT NULL,
//	    holiday         date    NOT NULL,
//	    name            text,
//	    is_business_day boolean NOT NULL DEFAULT false,
//	    PRIMARY KEY (market, holiday)
//	);
//
// Rows with is_business_day set mark special opening days that override a
// weekend or rule-based holiday.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/meenmo/fincore/calendar"
)

const defaultTable = "market_holidays"

// Store reads holiday rows through a *sql.DB opened with the postgres driver.
type Store struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithTable overrides the holiday table name.
func WithTable(name string) Option {
	return func(s *Store) { s.table = pq.QuoteIdentifier(name) }
}

// WithLogger sets the logger used for load summaries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open connects with lib/pq. The caller owns the returned *sql.DB.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pgstore.Open: ping: %w", err)
	}
	return db, nil
}

// New wraps an open database handle.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, table: pq.QuoteIdentifier(defaultTable), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns one HolidayTable per requested market that has rows.
func (s *Store) Load(ctx context.Context, ids ...calendar.CalendarID) ([]calendar.HolidayTable, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	markets := make([]string, len(ids))
	for i, id := range ids {
		markets[i] = string(id)
	}

	query := fmt.Sprintf(`SELECT market, holiday, COALESCE(name, ''), is_business_day
FROM %s WHERE market = ANY($1) ORDER BY market, holiday`, s.table)
	rows, err := s.db.QueryContext(ctx, query, pq.Array(markets))
	if err != nil {
		return nil, fmt.Errorf("pgstore.Load: %w", describe(err))
	}
	defer rows.Close()

	byMarket := make(map[calendar.CalendarID]*calendar.HolidayTable)
	var order []calendar.CalendarID
	for rows.Next() {
		var (
			market  string
			holiday time.Time
			name    string
			open    bool
		)
		if err := rows.Scan(&market, &holiday, &name, &open); err != nil {
			return nil, fmt.Errorf("pgstore.Load: scan: %w", err)
		}
		id := calendar.CalendarID(market)
		t, ok := byMarket[id]
		if !ok {
			t = &calendar.HolidayTable{Calendar: id, Version: "postgres"}
			byMarket[id] = t
			order = append(order, id)
		}
		entry := calendar.HolidayDate{Date: time.Date(holiday.Year(), holiday.Month(), holiday.Day(), 0, 0, 0, 0, time.UTC), Name: name}
		if open {
			t.BusinessDays = append(t.BusinessDays, entry)
		} else {
			t.Holidays = append(t.Holidays, entry)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore.Load: %w", describe(err))
	}

	out := make([]calendar.HolidayTable, 0, len(order))
	for _, id := range order {
		t := byMarket[id]
		s.logger.Info("loaded holiday table", "market", id, "holidays", len(t.Holidays), "business_days", len(t.BusinessDays))
		out = append(out, *t)
	}
	return out, nil
}

// describe adds the SQLSTATE name for server-side errors.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (%s): %w", pqErr.Code.Name(), pqErr.Code, err)
	}
	return err
}
