package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/todoapp/todo-api/internal/api"
	"github.com/todoapp/todo-api/internal/api/handler"
	"github.com/todoapp/todo-api/internal/api/middleware"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/core/security"
	"github.com/todoapp/todo-api/internal/core/service"
	mongodb "github.com/todoapp/todo-api/internal/infrastructure/db/mongo"
	"github.com/todoapp/todo-api/internal/infrastructure/db/postgres"
	redisdb "github.com/todoapp/todo-api/internal/infrastructure/db/redis"
	"github.com/todoapp/todo-api/internal/infrastructure/queue"
	s3storage "github.com/todoapp/todo-api/internal/infrastructure/storage/s3"
	"github.com/todoapp/todo-api/internal/pkg/config"
	"github.com/todoapp/todo-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			ctx := cmd.Context()
			cfg, db, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := postgres.Close(db); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			if cfg.Postgres.AutoMigrate {
				if err := postgres.RunMigrations(cfg.Postgres.URL); err != nil {
					return err
				}
			}

			deps, cleanup, err := buildDeps(ctx, cfg, db)
			defer cleanup()
			if err != nil {
				return err
			}

			return serve(ctx, api.NewRouter(deps), ":"+cfg.Port, logger.Get())
		},
	}
}

// buildDeps connects the optional stores and assembles the services. cleanup
// releases whatever was opened, in reverse order, and is safe to call on error.
func buildDeps(ctx context.Context, cfg *config.Config, db *gorm.DB) (api.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	log := logger.Get()

	health := map[string]handler.Pinger{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	var revoker ports.TokenRevoker
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return api.Deps{}, cleanup, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		if cfg.Token.Revocation {
			revoker = redisdb.NewRevocationList(rdb)
		}
	}

	var (
		sink     ports.AuditSink = queue.NopSink{}
		auditLog ports.AuditRepository
	)
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return api.Deps{}, cleanup, err
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
		health["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		repo := mongodb.NewAuditRepository(mdb)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return api.Deps{}, cleanup, err
		}
		dispatcher := queue.NewAuditDispatcher(cfg.Mongo.Workers, repo, logger.Component("audit"))
		workerCtx, stopWorkers := context.WithCancel(context.Background())
		dispatcher.Start(workerCtx)
		closers = append(closers, func() {
			stopWorkers()
			dispatcher.Wait()
		})
		sink, auditLog = dispatcher, repo
	}

	storage, err := s3storage.New(ctx, s3storage.Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	})
	if err != nil {
		return api.Deps{}, cleanup, err
	}

	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret:    cfg.Token.Secret,
		Algorithm: cfg.Token.Algorithm,
		TTL:       cfg.Token.TTL,
	})
	if err != nil {
		return api.Deps{}, cleanup, fmt.Errorf("token service: %w", err)
	}

	users := postgres.NewUserRepository(db)
	tasks := postgres.NewTaskRepository(db)
	categories := postgres.NewCategoryRepository(db)

	authService := service.NewAuthService(users, security.NewBcryptHasher(bcrypt.DefaultCost), tokens, revoker, sink, logger.Component("auth"))

	extractIP, err := api.ClientIPExtractor(cfg.RateLimit.TrustedProxies)
	if err != nil {
		return api.Deps{}, cleanup, err
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		PerMinute: cfg.RateLimit.AuthPerMinute,
		Burst:     cfg.RateLimit.AuthBurst,
	}, logger.Component("ratelimit"))
	closers = append(closers, limiter.Stop)

	log.Info().
		Bool("revocation", revoker != nil).
		Bool("audit", auditLog != nil).
		Strs("dependencies", dependencyNames(health)).
		Msg("dependencies ready")

	return api.Deps{
		Auth:        authService,
		Identity:    authService,
		Users:       service.NewUserService(users),
		Admin:       service.NewAdminService(users, sink, auditLog, logger.Component("admin")),
		Tasks:       service.NewTaskService(tasks, categories, logger.Component("tasks")),
		SubTasks:    service.NewSubTaskService(tasks, postgres.NewSubTaskRepository(db)),
		Categories:  service.NewCategoryService(categories, storage, logger.Component("categories")),
		Attachments: service.NewAttachmentService(postgres.NewAttachmentRepository(db), tasks, storage, cfg.S3.AttachmentURLTTL, logger.Component("attachments")),
		RateLimiter: limiter,
		IPExtractor: extractIP,
		Logout:      authService.RevocationEnabled(),
		Health:      health,
		Log:         logger.Component("http"),
	}, cleanup, nil
}

func dependencyNames(health map[string]handler.Pinger) []string {
	names := make([]string, 0, len(health))
	for name := range health {
		names = append(names, name)
	}
	return names
}

// serve runs e until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		log.Info().Str("address", addr).Msg("starting HTTP server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	grp.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return grp.Wait()
}
