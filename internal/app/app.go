// Package app wires repositories and services for the server and seed commands.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"docspace/internal/config"
	"docspace/internal/domain/repositories"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/domain/services"
	"docspace/internal/foldertypes"
	"docspace/internal/jobs"
	"docspace/internal/repository/memory"
	"docspace/internal/repository/postgres"
	pgHierarchy "docspace/internal/repository/postgres/hierarchy"
	redisRepo "docspace/internal/repository/redis"
	"docspace/internal/repository/retry"
	"docspace/internal/service/audit"
	"docspace/internal/service/auth"
	"docspace/internal/service/hierarchy"
	"docspace/internal/service/rooms"
	"docspace/internal/tenancy"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SystemUserID stamps changes made by background jobs
const SystemUserID = "system"

// App holds the wired dependencies
type App struct {
	Service hierarchy.Service
	Gate    services.SecurityGate
	Folders hierarchyRepo.FolderRepository
	Pool    *pgxpool.Pool // nil for memory storage
	Tables  *postgres.TableNames

	closers []func()
	logger  *slog.Logger
}

type storage struct {
	folders   hierarchyRepo.FolderRepository
	files     hierarchyRepo.FileRepository
	tree      hierarchyRepo.TreeRepository
	orders    hierarchyRepo.OrderRepository
	settings  hierarchyRepo.RoomSettingsRepository
	txManager repositories.TransactionManager
}

// Build connects storage and constructs the hierarchy service
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{logger: logger}

	types, err := foldertypes.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load folder types: %w", err)
	}

	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.TxMaxRetries
	policy.InitialInterval = cfg.TxRetryInitialInterval

	var st storage
	switch cfg.Storage {
	case "memory":
		store := memory.NewStore()
		st = storage{
			folders:   memory.NewFolderRepository(store),
			files:     memory.NewFileRepository(store),
			tree:      memory.NewTreeRepository(store),
			orders:    memory.NewOrderRepository(store),
			settings:  memory.NewSettingsRepository(store),
			txManager: memory.NewTransactionManager(store, policy, logger),
		}
		logger.Warn("using in-memory storage; data is lost on exit")

	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.Pool = pool
		a.Tables = postgres.NewTableNames(cfg.TablePrefix)
		a.closers = append(a.closers, pool.Close)
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)

		if cfg.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool, a.Tables, logger); err != nil {
				a.Close()
				return nil, err
			}
		}

		repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: a.Tables, Logger: logger}
		st = storage{
			folders:   pgHierarchy.NewFolderRepository(repoConfig),
			files:     pgHierarchy.NewFileRepository(repoConfig),
			tree:      pgHierarchy.NewTreeRepository(repoConfig),
			orders:    pgHierarchy.NewOrderRepository(repoConfig),
			settings:  pgHierarchy.NewRoomSettingsRepository(repoConfig),
			txManager: postgres.NewTransactionManager(pool, policy, logger),
		}

	default:
		return nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}

	resolver := rooms.NewSettingsResolver(st.settings, st.folders, types, logger)
	sinks := audit.Fanout{audit.NewLogSink(logger)}

	if cfg.RedisURL != "" {
		client, err := redisRepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		resolver = redisRepo.NewSettingsCache(resolver, client, cfg.SettingsCacheTTL, logger)
		stream := redisRepo.NewStreamAuditSink(client, cfg.AuditStream, 0, logger)
		sinks = append(sinks, stream)
		// stream flushes before the client closes
		a.closers = append(a.closers, func() { _ = client.Close() }, stream.Close)
		logger.Info("redis enabled", "audit_stream", cfg.AuditStream, "settings_ttl", cfg.SettingsCacheTTL)
	}

	identity := tenancy.NewContextResolver(SystemUserID)
	a.Service = hierarchy.NewService(hierarchy.Deps{
		Folders:   st.folders,
		Files:     st.files,
		Tree:      st.tree,
		Orders:    st.orders,
		Settings:  st.settings,
		Resolver:  resolver,
		Types:     types,
		TxManager: st.txManager,
		Tenant:    identity,
		Identity:  identity,
		Audit:     sinks,
		Logger:    logger,
	})
	a.Gate = auth.NewRoomOwnerGate(st.folders, st.files, st.tree)
	a.Folders = st.folders
	return a, nil
}

// Scheduler builds the cron scheduler with the purge and recount jobs
func (a *App) Scheduler(cfg *config.Config) (*jobs.Scheduler, error) {
	s := jobs.NewScheduler(a.logger)
	if err := s.Add(cfg.PurgeSchedule, jobs.NewPurgeJob(a.Folders, a.Service, cfg.TrashRetention, a.logger)); err != nil {
		return nil, err
	}
	if err := s.Add(cfg.RecountSchedule, jobs.NewRecountJob(a.Folders, a.Service, a.logger)); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases connections, last opened first
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
