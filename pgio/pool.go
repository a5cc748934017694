package pgio

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"cotask/debug"
)

// Pool is a Postgres connection pool, the equivalent of the teacher's own
// database/sql handle in db/srv and the thing dbclnt.Query talks to over
// 9p — here used directly, in process, with lib/pq instead of the
// teacher's MySQL driver.
type Pool struct {
	db *sql.DB
}

// Open connects to dsn and verifies connectivity with a ping.
func Open(dsn string) (*Pool, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &Pool{db: db}, nil
}

// Query runs a query and returns its rows.
func (p *Pool) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	debug.DPrintf(debug.PGIO, "query %q", query)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		debug.DPrintf(debug.PGIO_ERR, "query %q failed: %v", query, err)
	}
	return rows, err
}

// Exec runs a statement that does not return rows.
func (p *Pool) Exec(ctx context.Context, stmt string, args ...interface{}) (sql.Result, error) {
	debug.DPrintf(debug.PGIO, "exec %q", stmt)
	res, err := p.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		debug.DPrintf(debug.PGIO_ERR, "exec %q failed: %v", stmt, err)
	}
	return res, err
}

// Close releases the pool's connections.
func (p *Pool) Close() error {
	return p.db.Close()
}
