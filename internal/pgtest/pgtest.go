// Package pgtest is an in-memory database/sql driver for tests that run
// several connections against shared PostgreSQL state.
//
// It understands pg_try_advisory_xact_lock and the daily_log statements used
// by the daily log repository. Advisory locks are held until the owning
// transaction commits or rolls back, and inserted rows become visible to other
// connections on commit. The daily_log date is unique.
package pgtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	stmtTryLock        = `SELECT pg_try_advisory_xact_lock($1)`
	stmtDailyLogByDate = `SELECT id FROM daily_log WHERE date = $1`
	stmtInsertDaily    = `INSERT INTO daily_log (id, date, created) VALUES ($1, $2, $3)`

	dateLayout = "2006-01-02"
)

var errNoTx = errors.New("pgtest: statement requires an open transaction")

// Server is the state shared by every connection of one database.
type Server struct {
	mu        sync.Mutex
	locks     map[int64]*conn
	dailyLogs map[string]string
}

// Open returns a database backed by a fresh Server. The database is closed
// when the test ends.
func Open(t testing.TB) (*sql.DB, *Server) {
	t.Helper()

	srv := &Server{
		locks:     make(map[int64]*conn),
		dailyLogs: make(map[string]string),
	}
	db := sql.OpenDB(connector{srv: srv})
	t.Cleanup(func() { _ = db.Close() })
	return db, srv
}

// HeldLocks returns the number of advisory locks currently held.
func (s *Server) HeldLocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

// DailyLogCount returns the number of committed daily_log rows.
func (s *Server) DailyLogCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dailyLogs)
}

type connector struct {
	srv *Server
}

func (c connector) Connect(context.Context) (driver.Conn, error) {
	return &conn{srv: c.srv}, nil
}

func (c connector) Driver() driver.Driver { return drv(c) }

type drv connector

func (d drv) Open(string) (driver.Conn, error) {
	return &conn{srv: d.srv}, nil
}

// conn fields are guarded by srv.mu.
type conn struct {
	srv *Server

	inTx    bool
	held    []int64
	pending map[string]string
}

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("pgtest: prepared statements are not supported: %s", query)
}

func (c *conn) Close() error {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	c.endTx()
	return nil
}

func (c *conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *conn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()

	if c.inTx {
		return nil, errors.New("pgtest: transaction already open")
	}
	c.inTx = true
	c.pending = make(map[string]string)
	return tx{c: c}, nil
}

func (c *conn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()

	switch normalize(query) {
	case stmtTryLock:
		key, ok := args[0].Value.(int64)
		if !ok {
			return nil, fmt.Errorf("pgtest: lock key %T is not int64", args[0].Value)
		}
		obtained, err := c.tryLock(key)
		if err != nil {
			return nil, err
		}
		return &rows{cols: []string{"pg_try_advisory_xact_lock"}, vals: [][]driver.Value{{obtained}}}, nil

	case stmtDailyLogByDate:
		date, err := dateArg(args[0])
		if err != nil {
			return nil, err
		}
		r := &rows{cols: []string{"id"}}
		if id, ok := c.lookupDailyLog(date); ok {
			r.vals = append(r.vals, []driver.Value{id})
		}
		return r, nil
	}

	return nil, fmt.Errorf("pgtest: unsupported query: %s", query)
}

func (c *conn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()

	if normalize(query) != stmtInsertDaily {
		return nil, fmt.Errorf("pgtest: unsupported statement: %s", query)
	}
	if !c.inTx {
		return nil, errNoTx
	}

	id := fmt.Sprint(args[0].Value)
	date, err := dateArg(args[1])
	if err != nil {
		return nil, err
	}
	if _, taken := c.lookupDailyLog(date); taken {
		return nil, uniqueDateViolation()
	}
	c.pending[date] = id
	return driver.RowsAffected(1), nil
}

func (c *conn) tryLock(key int64) (bool, error) {
	if !c.inTx {
		return false, errNoTx
	}
	owner, held := c.srv.locks[key]
	if held {
		return owner == c, nil
	}
	c.srv.locks[key] = c
	c.held = append(c.held, key)
	return true, nil
}

func (c *conn) lookupDailyLog(date string) (string, bool) {
	if id, ok := c.pending[date]; ok {
		return id, true
	}
	id, ok := c.srv.dailyLogs[date]
	return id, ok
}

func (c *conn) commit() error {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	defer c.endTx()

	for date := range c.pending {
		if _, taken := c.srv.dailyLogs[date]; taken {
			return uniqueDateViolation()
		}
	}
	for date, id := range c.pending {
		c.srv.dailyLogs[date] = id
	}
	return nil
}

// endTx drops uncommitted rows and releases the transaction's locks.
func (c *conn) endTx() {
	for _, key := range c.held {
		if c.srv.locks[key] == c {
			delete(c.srv.locks, key)
		}
	}
	c.held = nil
	c.pending = nil
	c.inTx = false
}

type tx struct {
	c *conn
}

func (t tx) Commit() error { return t.c.commit() }

func (t tx) Rollback() error {
	t.c.srv.mu.Lock()
	defer t.c.srv.mu.Unlock()
	t.c.endTx()
	return nil
}

type rows struct {
	cols []string
	vals [][]driver.Value
	next int
}

func (r *rows) Columns() []string { return r.cols }

func (r *rows) Close() error { return nil }

func (r *rows) Next(dest []driver.Value) error {
	if r.next >= len(r.vals) {
		return io.EOF
	}
	copy(dest, r.vals[r.next])
	r.next++
	return nil
}

func normalize(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func dateArg(arg driver.NamedValue) (string, error) {
	t, ok := arg.Value.(time.Time)
	if !ok {
		return "", fmt.Errorf("pgtest: date argument %T is not time.Time", arg.Value)
	}
	return t.Format(dateLayout), nil
}

func uniqueDateViolation() error {
	return &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "daily_log",
		ConstraintName: "uq_daily_log_date",
	}
}
