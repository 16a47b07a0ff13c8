package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/stgeorge_backend/config"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/seed"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
	"github.com/Alijeyrad/stgeorge_backend/pkg/database"
	"github.com/Alijeyrad/stgeorge_backend/pkg/events"
	"github.com/Alijeyrad/stgeorge_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/stgeorge_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRepositories),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideDomainMetrics),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePublisher),
	fx.Invoke(SeedOnStart),
)

// NeedsRedis reports whether any component is configured to use Redis: the
// redis store driver, or the rate limiter storage in production.
func NeedsRedis(cfg *config.Config) bool {
	return cfg.Store.Driver == config.StoreDriverRedis || cfg.Server.Environment == "production"
}

// ProvideRedis returns nil when nothing is configured to use Redis.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	if !NeedsRedis(cfg) {
		return nil, nil
	}
	rdb, err := redispkg.NewRedisFromCentral(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

// ProvideStore opens the configured record store backend.
func ProvideStore(lc fx.Lifecycle, cfg *config.Config, rdb *redis.Client) (*store.Store, error) {
	backend, err := OpenBackend(context.Background(), cfg, rdb)
	if err != nil {
		return nil, err
	}
	s := store.New(backend)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing record store", "driver", cfg.Store.Driver)
			return s.Close()
		},
	})
	return s, nil
}

// OpenBackend builds the Backend for cfg.Store.Driver, wrapped in the
// simulated latency decorator when one is configured. rdb may be nil unless
// the driver is redis.
func OpenBackend(ctx context.Context, cfg *config.Config, rdb *redis.Client) (store.Backend, error) {
	var backend store.Backend
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		backend = store.NewMemoryBackend()
	case config.StoreDriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis store driver needs a redis client")
		}
		backend = store.NewRedisBackend(rdb, cfg.Store.KeyPrefix, cfg.Store.MaxUpdateRetries)
	case config.StoreDriverPostgres:
		drv, err := database.OpenDriver(cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresBackend(drv)
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("migrate record store: %w", err)
		}
		backend = pg
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	slog.Info("record store opened", "driver", cfg.Store.Driver, "latency_ms", cfg.Store.SimulatedLatencyMs)
	return store.WithLatency(backend, time.Duration(cfg.Store.SimulatedLatencyMs)*time.Millisecond), nil
}

func ProvideRepositories(s *store.Store) *repository.Repositories {
	return repository.New(s)
}

// ProvideAuthorization builds the in-memory casbin enforcer and seeds the
// default role policies.
func ProvideAuthorization(cfg *config.Config) (authorize.IAuthorization, error) {
	enforcer, err := authorize.NewEnforcer()
	if err != nil {
		return nil, err
	}
	auth, err := authorize.NewAuthorization(enforcer, authorize.FromCentralConfig(cfg.Authorization))
	if err != nil {
		return nil, err
	}
	if cfg.Authorization.EnableAudit {
		auth = authorize.NewAuditedAuthorization(auth, slog.Default())
	}
	if err := authorize.SeedDefaultPolicies(context.Background(), auth); err != nil {
		return nil, fmt.Errorf("seed policies: %w", err)
	}
	return auth, nil
}

// ProvideOTel returns nil when observability is disabled.
func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideDomainMetrics depends on the provider so counters bind after the
// global meter is installed.
func ProvideDomainMetrics(_ *observability.Provider) *observability.DomainMetrics {
	return observability.NewDomainMetrics()
}

// ProvideNatsClient returns nil when NATS is disabled.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if !cfg.Nats.Enabled {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name("stgeorge_backend"))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvidePublisher(nc *nats.Conn) events.Publisher {
	if nc == nil {
		return events.Nop{}
	}
	return nc
}

// SeedOnStart loads the demo data set into an empty store.
func SeedOnStart(lc fx.Lifecycle, cfg *config.Config, repos *repository.Repositories) {
	if !cfg.Store.SeedOnStart {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := seed.Demo(ctx, repos, time.Now(), false)
			return err
		},
	})
}

// OpenStore opens the record store outside the fx graph, for CLI commands.
// The returned close func releases the store and any Redis client it opened.
func OpenStore(ctx context.Context, cfg *config.Config) (*store.Store, func(), error) {
	var rdb *redis.Client
	if cfg.Store.Driver == config.StoreDriverRedis {
		var err error
		rdb, err = redispkg.NewRedisFromCentral(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
	}
	backend, err := OpenBackend(ctx, cfg, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}
	s := store.New(backend)
	return s, func() {
		_ = s.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
	}, nil
}
