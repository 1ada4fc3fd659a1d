package db

import (
	"context"
	"fmt"
	"time"

	"barangay/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema holds every table the service owns. Migrate creates it.
const Schema = "barangay"

const applicationName = "barangay"

// Connect opens a pool against cfg.DatabaseURL and pings it before returning.
func Connect(ctx context.Context, cfg *types.Config) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingTimeout := time.Duration(cfg.DBPingTimeout) * time.Second
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// newPoolConfig applies service defaults on top of the URL. Parameters given
// in the URL win over the defaults.
func newPoolConfig(cfg *types.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	params := poolConfig.ConnConfig.RuntimeParams
	if _, ok := params["search_path"]; !ok {
		params["search_path"] = Schema
	}
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = applicationName
	}

	if cfg.DBMaxConns > 0 {
		poolConfig.MaxConns = cfg.DBMaxConns
	}
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.MaxConnLifetime = 45 * time.Minute

	return poolConfig, nil
}
