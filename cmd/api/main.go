package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tomlord1122/todo-api/internal/config"
	"github.com/Tomlord1122/todo-api/internal/database"
	"github.com/Tomlord1122/todo-api/internal/logging"
	"github.com/Tomlord1122/todo-api/internal/repository"
	"github.com/Tomlord1122/todo-api/internal/server"
	"github.com/Tomlord1122/todo-api/internal/service"
)

// newLogger is swapped in tests to capture output.
var newLogger = logging.New

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo-api",
		Short:         "HTTP CRUD service for todo items",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	config.BindFlags(cmd.Flags())
	return cmd
}

func run(cfg config.Config) error {
	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 1. Connect the store. Failure here aborts before the port is bound;
	// cobra prints the returned error.
	dbService, todoRepo, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	// 2. Wire service and server
	todoService := service.NewTodoService(todoRepo)
	apiServer := server.NewServer(cfg.Addr, todoService, dbService, log)

	done := make(chan struct{})
	go gracefulShutdown(apiServer, dbService, cfg, log, done)

	log.Info("Starting server", zap.String("addr", apiServer.Addr), zap.String("store", cfg.Store))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_ = dbService.Close()
		return fmt.Errorf("HTTP server ListenAndServe error: %w", err)
	}

	<-done
	log.Info("Graceful shutdown complete")
	return nil
}

// openStore connects the configured backend and returns the shared handle
// together with the repository built on it.
func openStore(cfg config.Config, log *zap.Logger) (database.Service, repository.TodoRepository, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pg, err := database.NewPostgres(cfg.PostgresDSN, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Ensuring todos table exists")
		if err := pg.GetDB().AutoMigrate(&repository.TodoRecord{}); err != nil {
			_ = pg.Close()
			return nil, nil, fmt.Errorf("create todos table: %w", err)
		}
		return pg, repository.NewGormTodoRepository(pg.GetDB()), nil
	default:
		mongoDB, err := database.NewMongo(database.MongoConfig{URI: cfg.MongoURI}, log)
		if err != nil {
			return nil, nil, err
		}
		return mongoDB, repository.NewMongoTodoRepository(mongoDB.Database(repository.DatabaseName)), nil
	}
}

func gracefulShutdown(apiServer *http.Server, dbService database.Service, cfg config.Config, log *zap.Logger, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctxTimeout, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Warn("Server forced to shutdown", zap.Error(err))
	}

	if err := dbService.Close(); err != nil {
		log.Error("Error closing store connection", zap.Error(err))
	}

	close(done)
}
