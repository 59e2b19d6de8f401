package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Employees-CSV/library/yamlenv"
)

type PostgresConfig struct {
	Conn *yamlenv.Env[string] `yaml:"conn"`
}

type PG struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPG opens a pool and pings it so a bad DSN fails at startup.
func NewPG(ctx context.Context, conn string, log zerolog.Logger) (*PG, error) {
	cfg, err := pgxpool.ParseConfig(conn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	log.Info().Str("host", cfg.ConnConfig.Host).Str("database", cfg.ConnConfig.Database).Msg("postgres connected")

	return &PG{pool: pool, log: log}, nil
}

func (p *PG) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PG) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}
