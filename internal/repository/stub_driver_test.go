package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
	"testing"
)

// stubBackend records statements and answers queries with canned rows.
type stubBackend struct {
	mu      sync.Mutex
	queries []string
	args    [][]driver.Value
	columns []string
	rows    [][]driver.Value
}

func (b *stubBackend) Connect(context.Context) (driver.Conn, error) { return &stubConn{b: b}, nil }
func (b *stubBackend) Driver() driver.Driver                        { return stubDriver{} }

func (b *stubBackend) record(query string, args []driver.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, query)
	b.args = append(b.args, args)
}

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("use a connector")
}

type stubConn struct {
	b *stubBackend
}

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{b: c.b, query: query}, nil
}
func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

type stubStmt struct {
	b     *stubBackend
	query string
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return -1 }

func (s *stubStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.b.record(s.query, args)
	return driver.RowsAffected(1), nil
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.b.record(s.query, args)
	return &stubRows{columns: s.b.columns, rows: s.b.rows}, nil
}

type stubRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *stubRows) Columns() []string { return r.columns }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

func newStubDB(t *testing.T, b *stubBackend) *sql.DB {
	t.Helper()
	db := sql.OpenDB(b)
	t.Cleanup(func() { db.Close() })
	return db
}
