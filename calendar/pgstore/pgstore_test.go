package pgstore_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/calendar/pgstore"
)

// fakeDriver serves canned holiday rows and records the query arguments.
type fakeDriver struct {
	mu   sync.Mutex
	args []driver.Value
	rows [][]driver.Value
}

func (f *fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{f: f}, nil }

type fakeConn struct{ f *fakeDriver }

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) { return &fakeStmt{f: c.f}, nil }
func (c *fakeConn) Close() error                              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)                 { return nil, driver.ErrSkip }

type fakeStmt struct{ f *fakeDriver }

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }
func (s *fakeStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, driver.ErrSkip
}
func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.f.mu.Lock()
	s.f.args = args
	s.f.mu.Unlock()
	return &fakeRows{rows: s.f.rows}, nil
}

type fakeRows struct {
	rows [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string {
	return []string{"market", "holiday", "name", "is_business_day"}
}
func (r *fakeRows) Close() error { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

var registerOnce sync.Once
var shared = &fakeDriver{}

func TestLoad_GroupsRowsByMarket(t *testing.T) {
	registerOnce.Do(func() { sql.Register("fakeholidays", shared) })
	shared.rows = [][]driver.Value{
		{"KRW", time.Date(2027, 2, 8, 0, 0, 0, 0, time.UTC), "Seollal", false},
		{"KRW", time.Date(2027, 2, 9, 0, 0, 0, 0, time.UTC), "Seollal", false},
		{"TARGET", time.Date(2027, 12, 26, 0, 0, 0, 0, time.UTC), "", true},
	}

	db, err := sql.Open("fakeholidays", "")
	require.NoError(t, err)
	defer db.Close()

	tables, err := pgstore.New(db).Load(context.Background(), calendar.KRW, calendar.TARGET)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	require.Equal(t, calendar.KRW, tables[0].Calendar)
	require.Len(t, tables[0].Holidays, 2)
	require.Equal(t, "Seollal", tables[0].Holidays[0].Name)
	require.Len(t, tables[1].BusinessDays, 1)

	require.Len(t, shared.args, 1)
	require.Equal(t, `{"KRW","TARGET"}`, shared.args[0])

	reg := calendar.NewRegistry(tables...)
	krw, err := reg.Get(calendar.KRW)
	require.NoError(t, err)
	require.True(t, krw.IsHoliday(time.Date(2027, 2, 8, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "postgres", reg.Version(calendar.KRW))
}

func TestLoad_NoMarkets(t *testing.T) {
	t.Parallel()

	tables, err := pgstore.New(nil).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, tables)
}

// TestLoad_Postgres runs against a live database when FINCORE_TEST_PG_DSN is set.
func TestLoad_Postgres(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("FINCORE_TEST_PG_DSN"))
	if dsn == "" {
		t.Skip("FINCORE_TEST_PG_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pgstore.Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = pgstore.New(db).Load(ctx, calendar.TARGET)
	require.NoError(t, err)
}
