package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig — параметры пула соединений.
type PoolConfig struct {
	DSN             string
	MaxConns        int32         // 0 — значение pgxpool по умолчанию
	MaxConnLifetime time.Duration // 0 — час
	MaxConnIdleTime time.Duration // 0 — 30 минут
}

// NewPool — пул соединений к Postgres с Ping для fail-fast.
func NewPool(ctx context.Context, pc PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}

	cfg.MaxConnLifetime = time.Hour
	if pc.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = pc.MaxConnLifetime
	}
	cfg.MaxConnIdleTime = 30 * time.Minute
	if pc.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = pc.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	if connErr := pool.Ping(ctx); connErr != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", connErr)
	}

	return pool, nil
}
