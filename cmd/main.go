package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"dubexpo/cmd/buildCFG"
	"dubexpo/internal/api/api"
	"dubexpo/internal/auth"
	"dubexpo/internal/metrics"
	"dubexpo/internal/notifier"
	"dubexpo/internal/rabbit"
	"dubexpo/internal/service"
	"dubexpo/internal/store"
	"dubexpo/internal/store/postgres"
	"dubexpo/internal/store/sqlite"
	"dubexpo/internal/wizard"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "'"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	port := serverCfg.Port

	storageCfg, err := buildCFG.BuildStorageConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build storage config")
	}

	var (
		st          store.Store
		migrateDown func() error
	)
	switch storageCfg.Driver {
	case buildCFG.DriverPostgres:
		masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build DB config")
		}
		db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
		if err != nil {
			log.Fatal().Msgf("failed to connect to DB: %v", err)
		}
		if err := db.Master.Ping(); err != nil {
			log.Fatal().Msgf("DB ping failed: %v", err)
		}
		log.Info().Msg("Database connected successfully")

		pgStore, err := postgres.New(db, &log)
		if err != nil {
			log.Fatal().Msgf("failed to initialize postgres store: %v", err)
		}
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatal().Err(err).Msg("cannot get working directory")
		}
		migrationPath := filepath.Join(cwd, "migrations/postgres")
		if err := pgStore.MigrateUp(migrationPath); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("Migrations applied successfully")
		migrateDown = func() error { return pgStore.MigrateDown(migrationPath) }
		st = pgStore
	case buildCFG.DriverSQLite:
		sqStore, err := sqlite.New(storageCfg.SQLitePath, storageCfg.SQLiteBaseline, &log)
		if err != nil {
			log.Fatal().Msgf("failed to open sqlite store: %v", err)
		}
		log.Info().Str("path", storageCfg.SQLitePath).Msg("Embedded database opened")
		st = sqStore
	}
	defer st.Close()

	var rmq *rabbit.Client
	var reader *notifier.Reader
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	rabbitCfg := buildCFG.BuildRabbitConfig(cfg, &log)
	if rabbitCfg.Enabled() {
		rmq, err = rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
		if err != nil {
			log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rmq.Close()

		mailCfg := buildCFG.BuildMailConfig(cfg, &log)
		reader = notifier.NewReader(rmq, mailCfg)
		go reader.Start(workerCtx)
	}

	adminCfg, err := buildCFG.BuildAdminConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build admin config")
	}
	authSvc := auth.NewService(adminCfg.Password, adminCfg.JWTSecret, "dubexpo", adminCfg.SessionTTL)

	wizardCfg := buildCFG.BuildWizardConfig(cfg)
	wiz := wizard.NewManager(st, wizardCfg.RequirePack, &log)

	serviceInstance := service.NewService(st, wiz, authSvc, &log, rmq, metrics.New())
	app := api.NewRouters(&api.Routers{Service: serviceInstance})

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", port)
		if err := app.Run(":" + port); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if closer, ok := interface{}(app).(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(shutdownCtx); err != nil {
			log.Error().Msgf("Error shutting down server: %v", err)
		}
	}

	if migrateDown != nil && cfg.GetString("db.rollback_on_shutdown") == "true" {
		log.Info().Msg("Rolling back migrations...")
		if err := migrateDown(); err != nil {
			log.Error().Msgf("failed to rollback migrations: %v", err)
		}
	}
	log.Info().Msg("Shutdown complete")
}
