package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
	_ "github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource/csv"
	_ "github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource/mssql"
	_ "github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource/postgres"
	"github.com/ekaya-inc/ekaya-profiler/pkg/config"
	"github.com/ekaya-inc/ekaya-profiler/pkg/database"
	"github.com/ekaya-inc/ekaya-profiler/pkg/handlers"
	"github.com/ekaya-inc/ekaya-profiler/pkg/logging"
	"github.com/ekaya-inc/ekaya-profiler/pkg/matching"
	"github.com/ekaya-inc/ekaya-profiler/pkg/mcp"
	"github.com/ekaya-inc/ekaya-profiler/pkg/middleware"
	"github.com/ekaya-inc/ekaya-profiler/pkg/profiling"
	"github.com/ekaya-inc/ekaya-profiler/pkg/repositories"
	"github.com/ekaya-inc/ekaya-profiler/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("listen_addr", cfg.ListenAddr()),
		zap.Bool("persistence", cfg.Database.Enabled()),
		zap.Bool("cache", cfg.Redis.Host != ""),
		zap.Int("parallelism", cfg.Profiling.Parallelism),
	)

	runRepo, closeDB, err := setupPersistence(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	resultCache, closeRedis, err := setupResultCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	loaders := datasource.NewDatasourceAdapterFactory(datasource.LoaderOptions{
		Delimiter: cfg.Profiling.Delimiter(),
		NullToken: cfg.Profiling.NullToken,
		Logger:    logger,
	})

	profilingService := services.NewProfilingService(
		profiling.NewUCCProfiler(profiling.UCCProfilerConfig{Parallelism: cfg.Profiling.Parallelism}, logger),
		profiling.NewINDProfiler(logger),
		matching.NewFirstLineMatcher(matching.FirstLineConfig{
			HeaderWeight:       cfg.Matching.HeaderWeight,
			ValueWeight:        cfg.Matching.ValueWeight,
			TokenSize:          cfg.Matching.TokenSize,
			SingularizeHeaders: cfg.Matching.SingularizeHeaders,
		}, logger),
		matching.NewSecondLineMatcher(logger),
		loaders,
		runRepo,
		resultCache,
		logger,
	)

	mux := http.NewServeMux()

	datasourceTypes := func() []string {
		types := []string{}
		for _, info := range loaders.ListTypes() {
			types = append(types, info.Type)
		}
		return types
	}
	handlers.NewHealthHandler(cfg, datasourceTypes, logger).RegisterRoutes(mux)
	handlers.NewProfilingHandler(profilingService, logger).RegisterRoutes(mux)

	mcpServer := mcp.NewServer("ekaya-profiler", cfg.Version, logger)
	mcpServer.RegisterProfilingTools(cfg.Version, profilingService)
	handlers.NewMCPHandler(mcpServer, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting ekaya-profiler", zap.String("addr", server.Addr), zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// setupPersistence connects to PostgreSQL and applies migrations when a
// database is configured. Without one, runs are not stored.
func setupPersistence(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.ProfileRunRepository, func(), error) {
	if !cfg.Database.Enabled() {
		logger.Info("No database configured; profile runs will not be persisted")
		return nil, func() {}, nil
	}

	connStr := cfg.Database.ConnectionString()

	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, nil, fmt.Errorf("open database for migrations: %w", err)
	}
	schema, migrateErr := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger)
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}
	if migrateErr != nil {
		return nil, nil, fmt.Errorf("run migrations: %w", migrateErr)
	}

	db, err := database.NewConnection(ctx, database.ConfigFromSettings(&cfg.Database))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database %s: %w",
			logging.SanitizeConnectionString(connStr), err)
	}
	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
		zap.Uint("schema_version", schema.Version))

	return repositories.NewProfileRunRepository(db), db.Close, nil
}

// setupResultCache connects to Redis when a host is configured.
func setupResultCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.ResultCache, func(), error) {
	client, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	if client == nil {
		logger.Info("No redis configured; results will not be cached")
		return nil, func() {}, nil
	}

	logger.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr()))
	ttl := time.Duration(cfg.Redis.TTLMinutes) * time.Minute
	return repositories.NewRedisResultCache(client, ttl), closeRedis(client, logger), nil
}

func closeRedis(client *redis.Client, logger *zap.Logger) func() {
	return func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}
