package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/auth"
	dbadapter "taskmanager/internal/adapter/db"
	httpadapter "taskmanager/internal/adapter/http"
	"taskmanager/internal/adapter/http/handlers"
	httpmiddleware "taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/memory"
	mongoadapter "taskmanager/internal/adapter/mongo"
	appservice "taskmanager/internal/app/service"
	"taskmanager/internal/config"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/translator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadConfig()
	logger, sync := newLogger(cfg)
	defer sync()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	repo, closeStore, err := openTaskRepository(cmd.Context(), cfg)
	if err != nil {
		logger.Error("failed to open task store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
		return err
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	healthHandler := handlers.NewHealthHandler(repo, cfg.StoreDriver)
	taskHandler := handlers.NewTaskHandler(appservice.NewTaskService(repo))
	authMiddleware := httpmiddleware.AuthMiddleware(auth.NewJWTResolver(cfg.JWTSecret))
	r := httpadapter.NewRouter(healthHandler, taskHandler, authMiddleware, httpmiddleware.GinZapMiddleware(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies", zap.Error(err))
		return err
	}

	addr := ":" + cfg.AppPort
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info("starting server", zap.String("addr", addr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
			"task-store": func(ctx context.Context) error {
				return closeStore(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("server stopped", zap.Int("exit_code", exitCode))
	if exitCode != 0 {
		sync()
		os.Exit(exitCode)
	}
	return nil
}

// openTaskRepository connects the configured store and returns it with its
// close function.
func openTaskRepository(ctx context.Context, cfg *config.Config) (ports.TaskRepository, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := mongoadapter.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := mongoadapter.NewTaskRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return repo, client.Disconnect, nil

	case config.StoreDriverMySQL:
		db, err := dbadapter.ConnectDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := dbadapter.Migrate(ctx, db, "up"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return dbadapter.NewTaskRepository(db), func(context.Context) error { return db.Close() }, nil

	case config.StoreDriverMemory:
		return memory.NewTaskRepository(), func(context.Context) error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
