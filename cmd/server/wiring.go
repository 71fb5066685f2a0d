package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"catalog/internal/accesstoken"
	"catalog/internal/catalog/authz"
	"catalog/internal/catalog/handler"
	catalogmetrics "catalog/internal/catalog/metrics"
	"catalog/internal/catalog/service"
	"catalog/internal/catalog/store/cache"
	"catalog/internal/catalog/store/memory"
	pgstore "catalog/internal/catalog/store/postgres"
	"catalog/internal/notification"
	notificationmetrics "catalog/internal/notification/metrics"
	"catalog/internal/platform/config"
	"catalog/internal/platform/kafka/admin"
	"catalog/internal/platform/kafka/consumer"
	"catalog/internal/platform/kafka/producer"
	"catalog/internal/platform/metrics"
	"catalog/internal/platform/postgres"
	platformredis "catalog/internal/platform/redis"
	replicametrics "catalog/internal/replica/metrics"
	replicastore "catalog/internal/replica/store"
	"catalog/internal/replica/syncer"
	"catalog/pkg/platform/circuit"
	"catalog/pkg/platform/httputil"
	authmw "catalog/pkg/platform/middleware/auth"
	"catalog/pkg/platform/middleware/request"
	"catalog/pkg/platform/middleware/requesttime"
)

// app holds everything run needs plus the resources Close releases.
type app struct {
	router   http.Handler
	consumer *consumer.Consumer
	storage  string
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type replicaStore interface {
	authz.ReplicaReader
	syncer.Store
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	stores, replicas, db, err := buildStores(ctx, cfg, log, a)
	if err != nil {
		return nil, err
	}

	catalogMetrics := catalogmetrics.New()
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(catalogMetrics),
		service.WithInstructorPolicy(authz.NewInstructorPolicy(replicas)),
		service.WithCascadeTimeout(cfg.Cascade.Timeout),
		service.WithMaxPageSize(cfg.Server.MaxPageSize),
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		cached := cache.NewCourseStore(stores.Courses, rdb.Client, cfg.Redis.CourseTTL,
			cache.WithLogger(log),
			cache.WithMetrics(catalogMetrics),
			cache.WithInvalidationHold(cfg.Redis.InvalidationHold),
		)
		stores.Courses = cached
		opts = append(opts, service.WithCourseCache(cached))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		dispatcher, err := buildKafka(ctx, cfg, log, replicas, a)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithNotifier(dispatcher))
	} else {
		log.WarnContext(ctx, "kafka brokers not configured: user replica sync and notifications are disabled")
	}

	h := handler.New(
		service.NewCourseService(stores, opts...),
		service.NewModuleService(stores, opts...),
		service.NewLessonService(stores, opts...),
		service.NewEnrollmentService(stores, opts...),
		log,
	)
	a.router = newRouter(cfg, log, h, healthCheck(db, rdb))
	return a, nil
}

func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger, a *app) (service.Stores, replicaStore, *sql.DB, error) {
	if cfg.Database.DSN == "" {
		log.WarnContext(ctx, "database dsn not configured: using in-memory storage")
		replicas := replicastore.NewInMemory()
		mem := memory.New(replicas)
		a.storage = "memory"
		return service.Stores{
			Tx:          mem,
			Courses:     mem.Courses(),
			Modules:     mem.Modules(),
			Lessons:     mem.Lessons(),
			Enrollments: mem.Enrollments(),
			Replicas:    replicas,
		}, replicas, nil, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return service.Stores{}, nil, nil, err
	}
	a.closers = append(a.closers, func() { _ = db.Close() })
	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return service.Stores{}, nil, nil, err
		}
	}
	replicas := replicastore.NewPostgres(db)
	a.storage = "postgres"
	return service.Stores{
		Tx:          pgstore.NewTx(db, cfg.Database.TxTimeout),
		Courses:     pgstore.NewCourseStore(db),
		Modules:     pgstore.NewModuleStore(db),
		Lessons:     pgstore.NewLessonStore(db),
		Enrollments: pgstore.NewEnrollmentStore(db),
		Replicas:    replicas,
	}, replicas, db, nil
}

func buildKafka(ctx context.Context, cfg config.Config, log *slog.Logger, replicas replicaStore, a *app) (*notification.Dispatcher, error) {
	prod, err := producer.New(cfg.Kafka.Brokers)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, prod.Close)

	if cfg.Kafka.EnsureTopics {
		if err := admin.EnsureTopics(ctx, prod.Client(), cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor,
			cfg.Kafka.UserEventsTopic, cfg.Kafka.NotificationTopic); err != nil {
			return nil, err
		}
	}

	dispatcher := notification.New(prod, cfg.Kafka.NotificationTopic,
		notification.WithLogger(log),
		notification.WithMetrics(notificationmetrics.New()),
		notification.WithTimeout(cfg.Notification.Timeout),
		notification.WithBreaker(circuit.New("notification",
			circuit.WithFailureThreshold(cfg.Notification.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.Notification.SuccessThreshold),
			circuit.WithCooldown(cfg.Notification.Cooldown),
		)),
	)

	client, err := consumer.NewClient(consumer.Config{
		Brokers: cfg.Kafka.Brokers,
		Group:   cfg.Kafka.ConsumerGroup,
		Topics:  []string{cfg.Kafka.UserEventsTopic},
	})
	if err != nil {
		return nil, err
	}
	replicaSync := syncer.New(replicas,
		syncer.WithLogger(log),
		syncer.WithMetrics(replicametrics.New()),
		syncer.WithWorkers(cfg.Sync.Workers),
		syncer.WithApplyTimeout(cfg.Sync.ApplyTimeout),
		syncer.WithRetry(cfg.Sync.Attempts, cfg.Sync.RetryBackoff),
	)
	a.consumer = consumer.New(client, replicaSync,
		consumer.WithLogger(log),
		consumer.WithRetryBackoff(time.Second, cfg.Sync.BatchBackoff),
	)
	return dispatcher, nil
}

func newRouter(cfg config.Config, log *slog.Logger, h *handler.Handler, health http.HandlerFunc) http.Handler {
	httpMetrics := metrics.New()
	tokens := accesstoken.NewVerifier(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience,
		accesstoken.WithLeeway(cfg.Server.JWTLeeway))

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.Logger(log))
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)

	r.Get("/health", health)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(tokens, log))
		h.Register(r)
	})
	return r
}

func healthCheck(db *sql.DB, rdb *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				status["status"], status["database"] = "degraded", fmt.Sprintf("unreachable: %v", err)
				code = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			// The cache is optional; a Redis outage is reported but not fatal.
			if err := rdb.Health(ctx); err != nil {
				status["redis"] = fmt.Sprintf("unreachable: %v", err)
			}
		}
		httputil.WriteJSON(w, code, status)
	}
}
