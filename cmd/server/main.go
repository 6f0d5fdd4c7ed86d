// @title           Dossier Tracking API
// @version         1.0
// @description     Case records, service catalog and accounts for the regional records office.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/arsn/dossier-tracking/docs"
	"github.com/arsn/dossier-tracking/internal/api"
	"github.com/arsn/dossier-tracking/internal/core/audit"
	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
	"github.com/arsn/dossier-tracking/internal/core/service"
	"github.com/arsn/dossier-tracking/internal/infrastructure/db/memory"
	mongostore "github.com/arsn/dossier-tracking/internal/infrastructure/db/mongo"
	redisstore "github.com/arsn/dossier-tracking/internal/infrastructure/db/redis"
	amqpsink "github.com/arsn/dossier-tracking/internal/infrastructure/messaging/amqp"
	"github.com/arsn/dossier-tracking/internal/infrastructure/queue"
	"github.com/arsn/dossier-tracking/internal/pkg/config"
	"github.com/arsn/dossier-tracking/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// stores groups the repositories of the selected backend.
type stores struct {
	dossiers ports.DossierRepository
	services ports.ServiceRepository
	users    ports.UserRepository
	db       *mongo.Database
	client   *mongo.Client
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "dossier-tracking",
	})
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	deleteMode, err := ports.ParseDeleteMode(cfg.Dossier.DeleteMode)
	if err != nil {
		return err
	}

	var appenderOpts []audit.Option
	if cfg.StorageBackend == config.BackendMongo {
		appenderOpts = append(appenderOpts, audit.WithResolution(time.Millisecond))
	}
	appender := audit.NewAppender(appenderOpts...)
	st, err := openStores(ctx, cfg, appender, deleteMode, log)
	if err != nil {
		return err
	}
	if st.client != nil {
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = st.client.Disconnect(dctx)
		}()
	}

	if err := service.SeedCatalog(ctx, st.services, domain.DefaultServices()); err != nil {
		return err
	}
	if cfg.Bootstrap.AdminEmail != "" {
		admin, err := service.BootstrapAdmin(ctx, st.users, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminServices)
		if err != nil {
			return err
		}
		log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("admin account ready")
	}

	// --- Event sinks ---
	sinks := []ports.EventSink{queue.NewLogSink(log)}
	if st.db != nil {
		sinks = append(sinks, mongostore.NewAuditMirror(st.db))
	}
	if cfg.AMQP.URL != "" {
		pub, err := amqpsink.Dial(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			return err
		}
		defer func() { _ = pub.Close() }()
		sinks = append(sinks, pub)
		log.Info().Str("queue", cfg.AMQP.Queue).Msg("amqp event sink enabled")
	}

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Dispatcher.Workers, log, sinks...)
	dispatcher.Start(dispatchCtx)
	defer func() {
		stopDispatch()
		dispatcher.Wait()
	}()

	// --- Services ---
	opts := []service.DossierOption{
		service.WithStrictNotFound(cfg.Dossier.StrictNotFound),
		service.WithDeleteMode(deleteMode),
		service.WithEventPublisher(dispatcher),
	}

	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		opts = append(opts, service.WithIdempotency(redisstore.NewIdempotencyStore(rdb)))
	}

	users := service.NewUserService(st.users, st.services, log)
	e := api.NewRouter(api.Dependencies{
		Logger:    log,
		JWTSecret: cfg.JWTSecret,
		Auth:      service.NewAuthService(st.users, cfg.JWTSecret, cfg.TokenTTL),
		Dossiers:  service.NewDossierService(st.dossiers, st.services, log, opts...),
		Catalog:   service.NewCatalogService(st.services, log),
		Users:     users,
		Accounts:  st.users,
		Mongo:     st.db,
		Redis:     rdb,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StorageBackend).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func openStores(ctx context.Context, cfg *config.Config, appender *audit.Appender, mode ports.DeleteMode, log zerolog.Logger) (*stores, error) {
	if cfg.StorageBackend != config.BackendMongo {
		log.Warn().Msg("memory storage backend: data is lost on restart")
		return &stores{
			dossiers: memory.NewDossierStore(appender, mode),
			services: memory.NewServiceCatalog(),
			users:    memory.NewUserStore(),
		}, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}

	dossiers := mongostore.NewDossierRepository(db, appender, mode)
	users := mongostore.NewUserRepository(db)
	for _, ensure := range []func(context.Context) error{dossiers.EnsureIndexes, users.EnsureIndexes} {
		if err := ensure(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return &stores{
		dossiers: dossiers,
		services: mongostore.NewServiceRepository(db),
		users:    users,
		db:       db,
		client:   client,
	}, nil
}
