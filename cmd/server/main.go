package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"lexid/internal/audit"
	auditkafka "lexid/internal/audit/kafka"
	auditstore "lexid/internal/audit/store"
	"lexid/internal/authz"
	"lexid/internal/health"
	"lexid/internal/identity"
	"lexid/internal/platform/config"
	"lexid/internal/platform/httpserver"
	"lexid/internal/platform/logger"
	"lexid/internal/platform/metrics"
	redisplatform "lexid/internal/platform/redis"
	profilehandler "lexid/internal/profile/handler"
	profileservice "lexid/internal/profile/service"
	profilestore "lexid/internal/profile/store"
	"lexid/internal/token"
	transporthttp "lexid/internal/transport/http"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()

	// Storage. Without DATABASE_URL the process runs on in-memory stores,
	// which is enough for local development.
	var (
		db            *sql.DB
		profiles      profilestore.Store
		auditEntries  audit.Store
		serviceOpts   []profileservice.Option
		healthPingers health.Pinger
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		profiles = profilestore.NewPostgresStore(db)
		auditEntries = auditstore.NewPostgresStore(db)
		serviceOpts = append(serviceOpts, profileservice.WithTxRunner(profileservice.NewSQLTxRunner(db)))
		log.Info("using postgres storage")
	} else {
		profiles = profilestore.NewInMemoryStore()
		auditEntries = auditstore.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Optional authorize cache.
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return err
	}
	var cache *authz.Cache
	if redisClient != nil {
		defer redisClient.Close()
		cache = authz.NewCache(redisClient.Client, cfg.AuthorizeCacheTTL)
		healthPingers = redisClient
		serviceOpts = append(serviceOpts, profileservice.WithCacheInvalidator(cache))
		log.Info("authorize cache enabled")
	}

	// Optional audit mirror to Kafka.
	publisher, err := auditkafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic, log)
	if err != nil {
		return err
	}
	var recorderOpts []audit.RecorderOption
	var mirror chan audit.Entry
	if publisher != nil {
		mirror = make(chan audit.Entry, 256)
		recorderOpts = append(recorderOpts, audit.WithMirror(mirror))
		log.Info("audit mirror enabled", "topic", cfg.KafkaAuditTopic)
	}
	recorder := audit.NewRecorder(auditEntries, log, recorderOpts...)

	// Identity provider for registration orchestration.
	var provider identity.Provider
	if cfg.IdentityProviderURL != "" {
		provider = identity.NewHTTPProvider(cfg.IdentityProviderURL)
	} else {
		provider = identity.NewInMemoryProvider()
		log.Warn("IDENTITY_PROVIDER_URL not set, using in-memory identity provider")
	}

	serviceOpts = append(serviceOpts, profileservice.WithMetrics(metrics.New()))
	profileSvc := profileservice.New(profiles, provider, recorder, log, serviceOpts...)

	authzOpts := []authz.ServiceOption{}
	if cache != nil {
		authzOpts = append(authzOpts, authz.WithCache(cache))
	}
	authzSvc := authz.NewService(profiles, log, authzOpts...)

	tokens := token.NewService(cfg.JWTSigningKey)

	router := transporthttp.NewRouter(
		profilehandler.New(profileSvc, tokens, log),
		authz.NewHandler(authzSvc, log),
		health.NewHandler(db, healthPingers, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if publisher != nil {
		g.Go(func() error {
			if err := publisher.Run(gctx, mirror); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
