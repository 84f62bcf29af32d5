package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	contactHandler "rishta/internal/contact/handler"
	contactMetrics "rishta/internal/contact/metrics"
	contactService "rishta/internal/contact/service"
	contactStore "rishta/internal/contact/store"
	favoriteAdapters "rishta/internal/favorite/adapters"
	favoriteHandler "rishta/internal/favorite/handler"
	favoriteMetrics "rishta/internal/favorite/metrics"
	favoriteService "rishta/internal/favorite/service"
	favoriteStore "rishta/internal/favorite/store"
	jwttoken "rishta/internal/jwt_token"
	membershipAdapters "rishta/internal/membership/adapters"
	membershipHandler "rishta/internal/membership/handler"
	membershipMetrics "rishta/internal/membership/metrics"
	membershipService "rishta/internal/membership/service"
	accountStore "rishta/internal/membership/store/account"
	premiumStore "rishta/internal/membership/store/premium"
	paymentGateway "rishta/internal/payment/gateway"
	paymentHandler "rishta/internal/payment/handler"
	paymentMetrics "rishta/internal/payment/metrics"
	paymentService "rishta/internal/payment/service"
	"rishta/internal/platform/config"
	"rishta/internal/platform/httpserver"
	"rishta/internal/platform/logger"
	"rishta/internal/platform/metrics"
	platformmongo "rishta/internal/platform/mongo"
	platformredis "rishta/internal/platform/redis"
	profileHandler "rishta/internal/profile/handler"
	profileMetrics "rishta/internal/profile/metrics"
	profileService "rishta/internal/profile/service"
	profileStore "rishta/internal/profile/store"
	rateLimitMetrics "rishta/internal/ratelimit/metrics"
	rateLimitMiddleware "rishta/internal/ratelimit/middleware"
	rateLimitModels "rishta/internal/ratelimit/models"
	"rishta/internal/ratelimit/store/bucket"
	"rishta/internal/sequence"
	storyHandler "rishta/internal/story/handler"
	storyService "rishta/internal/story/service"
	storyStore "rishta/internal/story/store"
	httptransport "rishta/internal/transport/http"
	"rishta/internal/transport/http/shared"
	"rishta/pkg/platform/audit"
	auditpublisher "rishta/pkg/platform/audit/publisher"
	auditKafka "rishta/pkg/platform/audit/store/kafka"
	auditMemory "rishta/pkg/platform/audit/store/memory"
	"rishta/pkg/platform/circuit"
	adminmw "rishta/pkg/platform/middleware/admin"
	authmw "rishta/pkg/platform/middleware/auth"
	"rishta/pkg/platform/middleware/metadata"
)

// main wires configuration, infrastructure, domain services and the HTTP
// router, then serves until SIGINT or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

type infra struct {
	mongo    *platformmongo.Client
	redis    *platformredis.Client
	auditLog *auditKafka.Store
}

func (i *infra) close(ctx context.Context, log *slog.Logger) {
	if i.auditLog != nil {
		i.auditLog.Close()
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn("failed to close redis", "error", err)
		}
	}
	if i.mongo != nil {
		if err := i.mongo.Close(ctx); err != nil {
			log.Warn("failed to close mongo", "error", err)
		}
	}
}

type stores struct {
	profiles  profileService.Store
	accounts  membershipService.AccountStore
	roster    membershipService.PremiumRosterStore
	contacts  contactService.Store
	favorites favoriteService.Store
	stories   storyService.Store
	sequence  sequence.Allocator
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	httpMetrics := metrics.New(reg)

	deps := &infra{}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		deps.close(closeCtx, log)
	}()

	var err error
	if deps.redis, err = platformredis.New(ctx, cfg.Redis); err != nil {
		return err
	}
	if cfg.Storage.Driver == config.StorageMongo {
		if deps.mongo, err = platformmongo.New(ctx, cfg.Mongo); err != nil {
			return err
		}
	}

	st, err := buildStores(ctx, cfg, deps)
	if err != nil {
		return err
	}

	auditStore, err := buildAuditStore(cfg, deps, log)
	if err != nil {
		return err
	}
	publisher := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithAsyncBuffer(1024),
		auditpublisher.WithLogger(log),
		auditpublisher.WithDroppedCounter(httpMetrics.AuditDropped),
	)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := publisher.Shutdown(flushCtx); err != nil {
			log.Warn("failed to flush audit publisher", "error", err)
		}
	}()

	profiles := profileService.New(st.profiles, st.sequence,
		profileService.WithLogger(log),
		profileService.WithAuditPublisher(publisher),
		profileService.WithMetrics(profileMetrics.New(reg)),
	)
	if err := profiles.SyncSequence(ctx); err != nil {
		return fmt.Errorf("sync profile id sequence: %w", err)
	}
	membership := membershipService.New(st.accounts, st.roster,
		membershipService.WithLogger(log),
		membershipService.WithAuditPublisher(publisher),
		membershipService.WithProfileOwners(membershipAdapters.NewProfileAdapter(profiles)),
		membershipService.WithMetrics(membershipMetrics.New(reg)),
	)
	contacts := contactService.New(st.contacts,
		contactService.WithLogger(log),
		contactService.WithAuditPublisher(publisher),
		contactService.WithMetrics(contactMetrics.New(reg)),
	)
	favorites := favoriteService.New(st.favorites,
		favoriteService.WithProfiles(favoriteAdapters.NewProfileAdapter(profiles)),
		favoriteService.WithLogger(log),
		favoriteService.WithAuditPublisher(publisher),
		favoriteService.WithMetrics(favoriteMetrics.New(reg)),
	)
	stories := storyService.New(st.stories,
		storyService.WithLogger(log),
		storyService.WithAuditPublisher(publisher),
	)

	var gateway paymentService.Gateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = paymentGateway.NewStripe(cfg.Payment.StripeSecretKey, cfg.Payment.Currency)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, payment intents are disabled")
	}
	payments := paymentService.New(gateway,
		paymentService.WithLogger(log),
		paymentService.WithAuditPublisher(publisher),
		paymentService.WithMetrics(paymentMetrics.New(reg)),
	)

	verifier, err := buildVerifier(cfg)
	if err != nil {
		return err
	}
	limiter := buildRateLimiter(cfg, deps, log, publisher, rateLimitMetrics.New(reg))
	guards := shared.Guards{
		RequireAuth:   authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(verifier), log),
		RequireAdmin:  adminmw.RequireAdmin(membership, log),
		LimitWrites:   limiter.RateLimit(rateLimitModels.ClassWrite),
		LimitPayments: limiter.RateLimit(rateLimitModels.ClassPayment),
	}

	opts := []httptransport.Option{
		httptransport.WithMetrics(httpMetrics),
		httptransport.WithHandlers(
			membershipHandler.New(membership, log, guards),
			profileHandler.New(profiles, log, guards),
			contactHandler.New(contacts, log, guards),
			favoriteHandler.New(favorites, log, guards),
			storyHandler.New(stories, log, guards),
			paymentHandler.New(payments, log, guards),
		),
	}
	if deps.mongo != nil {
		opts = append(opts, httptransport.WithHealthCheck("mongo", deps.mongo))
	}
	if deps.redis != nil {
		opts = append(opts, httptransport.WithHealthCheck("redis", deps.redis))
	}
	if deps.auditLog != nil {
		opts = append(opts, httptransport.WithHealthCheck("kafka", deps.auditLog))
	}
	trusted, err := metadata.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}
	router := httptransport.New(httptransport.Config{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		TrustedProxies: trusted,
	}, log, opts...)

	srv := httpserver.New(cfg.Server.Addr, router.Handler(), cfg.Server.RequestTimeout)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting rishta",
			"addr", cfg.Server.Addr,
			"environment", cfg.Environment,
			"storage", cfg.Storage.Driver,
			"sequence", cfg.Storage.Sequence,
			"auth", cfg.Auth.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func buildStores(ctx context.Context, cfg *config.Config, deps *infra) (*stores, error) {
	st := &stores{}
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		st.profiles = profileStore.NewInMemory()
		st.accounts = accountStore.NewInMemory()
		st.roster = premiumStore.NewInMemory()
		st.contacts = contactStore.NewInMemory()
		st.favorites = favoriteStore.NewInMemory()
		st.stories = storyStore.NewInMemory()
		st.sequence = sequence.NewMemory()
	default:
		if err := buildMongoStores(ctx, deps.mongo.Database(), st); err != nil {
			return nil, err
		}
		st.sequence = sequence.NewMongo(deps.mongo.Database())
	}

	if cfg.Storage.Sequence == config.SequenceRedis {
		if deps.redis == nil {
			return nil, errors.New("redis sequence backend selected but redis is not configured")
		}
		st.sequence = sequence.NewRedis(deps.redis.Client)
	}
	return st, nil
}

func buildMongoStores(ctx context.Context, db *mongo.Database, st *stores) error {
	var err error
	if st.profiles, err = profileStore.NewMongo(ctx, db); err != nil {
		return fmt.Errorf("profile store: %w", err)
	}
	if st.accounts, err = accountStore.NewMongo(ctx, db); err != nil {
		return fmt.Errorf("account store: %w", err)
	}
	if st.roster, err = premiumStore.NewMongo(ctx, db); err != nil {
		return fmt.Errorf("premium roster store: %w", err)
	}
	if st.contacts, err = contactStore.NewMongo(ctx, db); err != nil {
		return fmt.Errorf("contact store: %w", err)
	}
	if st.favorites, err = favoriteStore.NewMongo(ctx, db); err != nil {
		return fmt.Errorf("favorite store: %w", err)
	}
	if st.stories, err = storyStore.NewMongo(ctx, db); err != nil {
		return fmt.Errorf("story store: %w", err)
	}
	return nil
}

func buildAuditStore(cfg *config.Config, deps *infra, log *slog.Logger) (audit.Store, error) {
	if len(cfg.Audit.KafkaBrokers) == 0 {
		log.Info("audit events kept in a bounded ring; set RISHTA_AUDIT_KAFKA_BROKERS to ship them",
			"capacity", cfg.Audit.MemoryCapacity)
		return auditMemory.NewInMemoryStore(auditMemory.WithCapacity(cfg.Audit.MemoryCapacity)), nil
	}
	store, err := auditKafka.New(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("audit kafka store: %w", err)
	}
	deps.auditLog = store
	return store, nil
}

func buildVerifier(cfg *config.Config) (jwttoken.TokenValidator, error) {
	switch cfg.Auth.Mode {
	case config.AuthDev:
		return jwttoken.NewDevVerifier(), nil
	case config.AuthFirebase:
		keys := jwttoken.NewHTTPKeySource(jwttoken.GoogleCertsURL, &http.Client{Timeout: 10 * time.Second})
		return jwttoken.NewFirebaseVerifier(cfg.Auth.FirebaseProjectID, keys), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

// buildRateLimiter prefers Redis so limits hold across replicas, falling back
// to a local window while the Redis circuit is open.
func buildRateLimiter(cfg *config.Config, deps *infra, log *slog.Logger, publisher *auditpublisher.Publisher, m *rateLimitMetrics.Metrics) *rateLimitMiddleware.Middleware {
	limit := rateLimitModels.Limit{RequestsPerWindow: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}
	opts := []rateLimitMiddleware.Option{
		rateLimitMiddleware.WithDisabled(cfg.RateLimit.Disabled),
		rateLimitMiddleware.WithMetrics(m),
		rateLimitMiddleware.WithAuditPublisher(publisher),
		rateLimitMiddleware.WithLimit(rateLimitModels.ClassPayment, rateLimitModels.Limit{
			RequestsPerWindow: max(1, cfg.RateLimit.Requests/3),
			Window:            cfg.RateLimit.Window,
		}),
	}
	if deps.redis == nil {
		return rateLimitMiddleware.New(bucket.NewInMemoryBucketStore(), log, limit, opts...)
	}
	opts = append(opts, rateLimitMiddleware.WithFallback(
		bucket.NewInMemoryBucketStore(),
		circuit.New("ratelimit-redis"),
	))
	return rateLimitMiddleware.New(bucket.NewRedis(deps.redis.Client), log, limit, opts...)
}
