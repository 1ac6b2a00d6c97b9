// Command api serves the Hastakala marketplace REST API.
//
//	@title						Hastakala API
//	@version					1.0
//	@description				Marketplace and community API for artists.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

//go:generate swag init -d ../.. -g cmd/api/main.go -o ../../docs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hastakala/hastakala-api/docs"
	"github.com/hastakala/hastakala-api/internal/api"
	"github.com/hastakala/hastakala-api/internal/core/ports"
	"github.com/hastakala/hastakala-api/internal/core/service"
	"github.com/hastakala/hastakala-api/internal/infrastructure/config"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/memory"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/mongo"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/redis"
	"github.com/hastakala/hastakala-api/internal/infrastructure/queue"
	"github.com/hastakala/hastakala-api/internal/infrastructure/storage"
	"github.com/hastakala/hastakala-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Level: "info"})
		l := logger.Get()
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "hastakala-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

// repositories groups the document-store adapters selected by STORE_DRIVER.
type repositories struct {
	users         ports.UserRepository
	artworks      ports.ArtworkRepository
	events        ports.EventRepository
	posts         ports.PostRepository
	comments      ports.CommentRepository
	notifications ports.NotificationRepository
	carts         ports.CartRepository
}

func memoryRepositories() repositories {
	return repositories{
		users:         memory.NewUserRepository(),
		artworks:      memory.NewArtworkRepository(),
		events:        memory.NewEventRepository(),
		posts:         memory.NewPostRepository(),
		comments:      memory.NewCommentRepository(),
		notifications: memory.NewNotificationRepository(),
		carts:         memory.NewCartRepository(),
	}
}

func mongoRepositories(db *mongodrv.Database) repositories {
	return repositories{
		users:         mongo.NewUserRepository(db),
		artworks:      mongo.NewArtworkRepository(db),
		events:        mongo.NewEventRepository(db),
		posts:         mongo.NewPostRepository(db),
		comments:      mongo.NewCommentRepository(db),
		notifications: mongo.NewNotificationRepository(db),
		carts:         mongo.NewCartRepository(db),
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Document store ---
	var (
		repos repositories
		db    *mongodrv.Database
	)
	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("using in-memory store, data is lost on restart")
		repos = memoryRepositories()
	default:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}()
		if err := mongo.EnsureIndexes(ctx, database); err != nil {
			return err
		}
		db = database
		repos = mongoRepositories(database)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	// --- Token revocation ---
	var (
		revoked ports.RevocationList
		rdb     *goredis.Client
	)
	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
		revoked = redis.NewRevocationList(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation enabled")
	}

	// --- Content store ---
	var files ports.ContentStore
	switch cfg.Storage.Driver {
	case "s3":
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:     cfg.Storage.S3Endpoint,
			Region:       cfg.Storage.S3Region,
			Bucket:       cfg.Storage.S3Bucket,
			AccessKey:    cfg.Storage.S3AccessKey,
			SecretKey:    cfg.Storage.S3SecretKey,
			UsePathStyle: cfg.Storage.S3UsePathStyle,
		})
		if err != nil {
			return err
		}
		files = s3
	default:
		local, err := storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			return err
		}
		files = local
	}

	// --- Notifications ---
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	notifier := queue.NewDispatcher(cfg.Limits.NotifyWorkers,
		service.NewNotifier(repos.notifications, repos.users, logger.For("notifier")),
		logger.For("dispatcher"))
	notifier.Start(workerCtx)
	defer func() {
		stopWorkers()
		notifier.Wait()
	}()

	// --- Services ---
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, revoked, logger.For("tokens"))
	svcLog := logger.For("service")

	router := api.NewRouter(api.Dependencies{
		Auth:          service.NewAuthService(repos.users, tokens, svcLog),
		Tokens:        tokens,
		Artworks:      service.NewArtworkService(repos.artworks, files, svcLog),
		Events:        service.NewEventService(repos.events, files, notifier, svcLog),
		Community:     service.NewCommunityService(repos.posts, repos.comments, notifier, svcLog),
		Profiles:      service.NewProfileService(repos.users, files, svcLog),
		Notifications: service.NewNotificationService(repos.notifications, svcLog),
		Carts:         service.NewCartService(repos.carts, repos.artworks, notifier, svcLog),
		Files:         files,
		Mongo:         db,
		Redis:         rdb,
		Log:           logger.For("http"),
		CORSOrigins:   cfg.CORSOrigin,
		LoginRate:     cfg.Limits.LoginRate,
		LoginBurst:    cfg.Limits.LoginBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting hastakala-api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("stopped")
	return nil
}
