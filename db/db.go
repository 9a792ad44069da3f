package db

import (
	"context"
	"fmt"

	"kopikoni/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pooler is the slice of pgxpool.Pool the services use. Tests swap in a
// pgxmock pool through the same variable.
type Pooler interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var Pool Pooler

var pool *pgxpool.Pool

func Init(cfg config.DBConfig) error {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
	var err error
	pool, err = pgxpool.New(context.Background(), connStr)
	if err != nil {
		return err
	}
	Pool = pool
	return nil
}

func Close() {
	if pool != nil {
		pool.Close()
		pool = nil
		Pool = nil
	}
}
