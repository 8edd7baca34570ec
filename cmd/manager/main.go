package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/BruksfildServices01/barber-manager/internal/association"
	"github.com/BruksfildServices01/barber-manager/internal/cache"
	"github.com/BruksfildServices01/barber-manager/internal/config"
	"github.com/BruksfildServices01/barber-manager/internal/console"
	"github.com/BruksfildServices01/barber-manager/internal/geo"
	"github.com/BruksfildServices01/barber-manager/internal/logging"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/server"
	"github.com/BruksfildServices01/barber-manager/internal/servicemap"
	"github.com/BruksfildServices01/barber-manager/internal/shopform"
	"github.com/BruksfildServices01/barber-manager/internal/state"
	"github.com/BruksfildServices01/barber-manager/internal/storage"
	"github.com/BruksfildServices01/barber-manager/internal/timezone"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.AppEnv)
	timezone.Set(cfg.Timezone)

	flush := server.InitSentry(cfg)
	defer flush()

	drafts, closeCache := openCache(cfg)
	defer closeCache()

	previews, err := storage.NewPreviewStore(cfg.PreviewDir)
	if err != nil {
		slog.Error("preview store init failed", "dir", cfg.PreviewDir, "error", err)
		os.Exit(1)
	}

	// prévias e rascunhos abandonados
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	if cfg.SweepInterval > 0 {
		go shopform.NewJanitor(previews, drafts, cfg.DraftTTL).Run(janitorCtx, cfg.SweepInterval)
	}

	client := remote.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	store := state.NewStore()

	r := server.NewEngine(cfg)
	r.MaxMultipartMemory = cfg.MaxUploadBytes + (1 << 20)

	console.Register(r, console.Deps{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSOrigins,
		Store:          store,
		Platform:       func(token string) remote.API { return client.WithToken(token) },
		Sync:           association.NewSynchronizer(store, association.Options{UpdateUsers: cfg.SyncDualWrite}),
		Services:       servicemap.NewManager(store, drafts, servicemap.ParsePolicy(cfg.ServiceMapPolicy)),
		Forms:          shopform.NewController(store, drafts, previews, cfg.DraftTTL),
		Locator:        geo.NewGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent, drafts),
	})

	if err := server.Run(r, cfg.ManagerAddr()); err != nil {
		slog.Error("server failed", "error", err)
	}
}

// openCache usa o Redis quando REDIS_URL existe; senão guarda em memória.
func openCache(cfg *config.Config) (cache.Store, func()) {
	if cfg.RedisURL == "" {
		slog.Warn("REDIS_URL not set, drafts kept in memory")
		return cache.NewMemory(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := cache.NewRedis(ctx, cfg.RedisURL, "barber-manager:")
	if err != nil {
		slog.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	return rdb, func() {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
}
