// README: Entry point; loads config, wires the document store, AI stack and session registry, then serves HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"strollpath/internal/ai"
	"strollpath/internal/config"
	httptransport "strollpath/internal/http"
	"strollpath/internal/infra"
	"strollpath/internal/logger"
	"strollpath/internal/modules/aiquota"
	"strollpath/internal/modules/recommend"
	"strollpath/internal/modules/session"
	"strollpath/internal/modules/synchronizer"
	"strollpath/internal/store/firestore"
	"strollpath/internal/store/memory"
)

const shutdownTimeout = 10 * time.Second

// seeder is implemented by both document stores.
type seeder interface {
	synchronizer.Remote
	Seed(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := infra.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		zlog.Fatal("firebase init", zap.Error(err))
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, app)
	if err != nil {
		zlog.Fatal("firebase auth init", zap.Error(err))
	}

	var remote seeder
	switch cfg.Store {
	case config.StoreMemory:
		remote = memory.NewStore(zlog.Named("memory"))
	default:
		client, err := infra.NewFirestore(ctx, app)
		if err != nil {
			zlog.Fatal("firestore init", zap.Error(err))
		}
		defer client.Close()
		remote = firestore.NewStore(client, zlog.Named("firestore"))
	}
	if cfg.Seed {
		if err := remote.Seed(ctx); err != nil {
			zlog.Fatal("seed", zap.Error(err))
		}
	}

	assistant, cleanup := newAssistant(ctx, cfg, zlog)
	defer cleanup()

	sessions := session.NewRegistry(func(l *zap.Logger) *synchronizer.Service {
		opts := []synchronizer.Option{synchronizer.WithLogger(l)}
		if assistant != nil {
			opts = append(opts, synchronizer.WithAssistant(assistant))
		}
		return synchronizer.NewService(remote, opts...)
	}, zlog)
	defer sessions.Close()

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Sessions: sessions,
		Verifier: verifier,
		Log:      zlog.Named("http"),
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Warn("http shutdown", zap.Error(err))
		}
	}()

	zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("store", cfg.Store))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal("http server", zap.Error(err))
	}
}

// newAssistant wires Gemini behind the Redis cache and the Postgres quota. It returns nil
// when no API key is configured; cache and quota are skipped when unconfigured.
func newAssistant(ctx context.Context, cfg config.Config, zlog *zap.Logger) (*recommend.Service, func()) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model, zlog.Named("ai"))
	if errors.Is(err, ai.ErrUnavailable) {
		zlog.Info("GEMINI_API_KEY not set, AI features disabled")
		return nil, cleanup
	}
	if err != nil {
		zlog.Fatal("gemini init", zap.Error(err))
	}
	closers = append(closers, provider.Close)

	var quota recommend.Quota
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			zlog.Fatal("postgres init", zap.Error(err))
		}
		closers = append(closers, pool.Close)
		quota = aiquota.NewService(aiquota.NewStore(pool, cfg.AI.MonthlyQuota))
	} else {
		zlog.Info("STROLL_DB_DSN not set, AI quota not enforced")
	}

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache, err = infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			zlog.Fatal("redis init", zap.Error(err))
		}
		closers = append(closers, func() { _ = cache.Close() })
	} else {
		zlog.Info("STROLL_REDIS_ADDR not set, AI results not cached")
	}

	return recommend.NewService(provider, cache, quota, cfg.AI.CacheTTL, zlog.Named("recommend")), cleanup
}
