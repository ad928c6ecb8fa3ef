package db

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultDBUser   = "postgres"
	defaultMaxConns = 10
)

type NewDBPoolParams struct {
	DBHost string
	DBPort string
	DBName string
	// DBUser defaults to postgres; auth is left to pg_hba / PGPASSWORD
	DBUser         string
	MaxConns       int32
	TracingEnabled bool
}

// ConnString builds the postgres URL for the given params.
func (p NewDBPoolParams) ConnString() string {
	user := p.DBUser
	if user == "" {
		user = defaultDBUser
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.User(user),
		Host:   net.JoinHostPort(p.DBHost, p.DBPort),
		Path:   p.DBName,
	}
	return u.String()
}

// NewDBPool creates the weight log connection pool. Connections are opened lazily,
// the caller decides whether an unreachable db is fatal.
func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(params.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolConfig.MaxConns = params.MaxConns
	if poolConfig.MaxConns <= 0 {
		poolConfig.MaxConns = defaultMaxConns
	}
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = "5000"

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}
