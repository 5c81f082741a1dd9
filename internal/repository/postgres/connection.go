package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docspace/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig is shared by every hierarchy repository constructor
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the environment-prefixed names of the hierarchy tables
type TableNames struct {
	Folders       string
	Files         string
	FileSequences string
	TreeEdges     string
	OrderEntries  string
	RoomSettings  string
}

// NewTableNames prefixes every table, e.g. "dev_" gives dev_tree_edges
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:       prefix + "folders",
		Files:         prefix + "files",
		FileSequences: prefix + "file_sequences",
		TreeEdges:     prefix + "tree_edges",
		OrderEntries:  prefix + "order_entries",
		RoomSettings:  prefix + "room_settings",
	}
}

// dependents returns the tables leaves first, the safe order for dropping
func (t *TableNames) dependents() []string {
	return []string{t.RoomSettings, t.OrderEntries, t.FileSequences, t.Files, t.TreeEdges, t.Folders}
}

// Pool sizing. Hierarchy transactions hold row locks for their whole
// duration, so the pool stays small and idle connections are recycled.
const (
	poolMaxConns        = 25
	poolMinConns        = 5
	poolMaxConnIdleTime = 5 * time.Minute
	pgBouncerPort       = 6543
)

// CreateConnectionPool opens and pings a pgx pool.
//
// PgBouncer in transaction mode (port 6543) cannot hold prepared statements,
// so the cached-statement default is switched to cached describe there.
// An explicit default_query_exec_mode in the URL wins over this detection.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = poolMaxConns
	config.MinConns = poolMinConns
	config.MaxConnIdleTime = poolMaxConnIdleTime

	if config.ConnConfig.Port == pgBouncerPort && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("pgbouncer port detected, using cache_describe exec mode", "port", pgBouncerPort)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or pool when there is none
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
