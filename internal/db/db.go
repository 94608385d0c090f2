// Package db provides a pgxpool-based connection pool with prepared statement
// registration, health checking and schema migrations.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/albapepper/topina-data/internal/config"
)

// Prepared statement names shared with the store.
const (
	StmtHealthCheck  = "health_check"
	StmtRefByName    = "player_ref_by_name"
	StmtRefsBySource = "player_refs_by_source"
	StmtLatestRun    = "coverage_latest_run"
)

// Statements maps each prepared statement name to its SQL.
var Statements = map[string]string{
	StmtHealthCheck: "SELECT 1",

	StmtRefByName: "SELECT name, kind, value, source, image_url FROM " + config.PlayerRefsTable +
		" WHERE name = $1",
	StmtRefsBySource: "SELECT name, kind, value, source, image_url FROM " + config.PlayerRefsTable +
		" WHERE $1 = '' OR source = $1 ORDER BY position",

	StmtLatestRun: "SELECT id, checked, resolved, unresolved, broken, created_at FROM " + config.CoverageRunsTable +
		" ORDER BY created_at DESC LIMIT 1",
}

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, eris.Wrap(err, "db: parse database URL")
	}

	poolCfg.MinConns = int32(cfg.PoolMinConns)
	poolCfg.MaxConns = int32(cfg.PoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.PoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = registerPreparedStatements

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "db: create pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "db: ping database")
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, StmtHealthCheck).Scan(&n)
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return eris.Wrapf(err, "db: prepare %q", name)
		}
	}
	return nil
}
