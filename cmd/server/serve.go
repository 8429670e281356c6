package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/auth"
	"github.com/ayush/item-catalog/backend/internal/catalog"
	"github.com/ayush/item-catalog/backend/internal/config"
	"github.com/ayush/item-catalog/backend/internal/middleware"
	"github.com/ayush/item-catalog/backend/internal/profile"
	"github.com/ayush/item-catalog/backend/internal/server"
	"github.com/ayush/item-catalog/backend/internal/storage"
	"github.com/ayush/item-catalog/backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	return runServe(cmd.Context(), appFrom(cmd))
}

func runServe(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log

	// ── PostgreSQL ────────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("postgres connect: %w", err)
	}
	defer pool.Close()
	pg := store.NewPostgresStore(pool)
	if cfg.AutoMigrate {
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
		log.Info("schema migrated")
	}

	// ── Profiles ─────────────────────────────────────────────
	var profiles profile.Store = pg
	if cfg.MongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		defer client.Disconnect(context.Background())
		profiles = store.NewMongoProfileStore(client.Database(cfg.MongoDB))
		log.Info("profiles stored in mongo", zap.String("db", cfg.MongoDB))
	}

	// ── Identity ─────────────────────────────────────────────
	provider, closeProvider, err := identityProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeProvider()

	// ── Object storage ───────────────────────────────────────
	issuer, err := storageIssuer(ctx, cfg, log)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Deps{
		Catalog: catalog.NewHandler(catalog.NewService(pg), log),
		Profile: profile.NewHandler(profile.NewService(profiles), log),
		Storage: storage.NewHandler(issuer, log),
		Gate:    auth.NewGate(provider, log),
		Origin:  middleware.NewOriginPolicy(cfg.AllowedOrigin, log),
		Log:     log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.Stringer("signal", sig))
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// identityProvider builds the configured bearer token verifier.
func identityProvider(ctx context.Context, cfg config.Config) (auth.Provider, func(), error) {
	if cfg.IdentityProvider == config.ProviderSession {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connect: %w", err)
		}
		return auth.NewSessionStore(rdb), func() { rdb.Close() }, nil
	}
	return auth.NewJWTProvider(cfg.JWTSecret), func() {}, nil
}

// storageIssuer signs uploads with the service credential and reads with
// the low-privilege one. A missing credential leaves its signer unset.
func storageIssuer(ctx context.Context, cfg config.Config, log *zap.Logger) (*storage.Issuer, error) {
	opts := store.MinioOptions{
		Endpoint: cfg.MinioEndpoint,
		Region:   cfg.MinioRegion,
		Bucket:   cfg.MinioBucket,
		UseSSL:   cfg.MinioUseSSL,
	}

	var uploads storage.UploadSigner
	if cfg.HasServiceStorageKey() {
		service := opts
		service.AccessKey, service.SecretKey = cfg.MinioAccessKey, cfg.MinioSecretKey
		s, err := store.NewMinioStore(service)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			log.Warn("bucket not ready", zap.String("bucket", cfg.MinioBucket), zap.Error(err))
		}
		uploads = s
	} else {
		log.Warn("storage service credentials not set; upload-url disabled")
	}

	var downloads storage.DownloadSigner
	if cfg.HasAnonStorageKey() {
		anon := opts
		anon.AccessKey, anon.SecretKey = cfg.MinioAnonAccessKey, cfg.MinioAnonSecretKey
		s, err := store.NewMinioStore(anon)
		if err != nil {
			return nil, err
		}
		downloads = s
	} else {
		log.Warn("storage read credentials not set; sign-image-url disabled")
	}

	return storage.NewIssuer(uploads, downloads), nil
}
