package main

import (
	"log/slog"
	"os"

	"github.com/BruksfildServices01/barber-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-manager/internal/db"
	"github.com/BruksfildServices01/barber-manager/internal/logging"
	"github.com/BruksfildServices01/barber-manager/internal/routes"
	"github.com/BruksfildServices01/barber-manager/internal/server"
	"github.com/BruksfildServices01/barber-manager/internal/storage"
	"github.com/BruksfildServices01/barber-manager/internal/timezone"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.AppEnv)
	timezone.Set(cfg.Timezone)

	flush := server.InitSentry(cfg)
	defer flush()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		slog.Error("database init failed", "error", err)
		os.Exit(1)
	}

	r := server.NewEngine(cfg)
	r.MaxMultipartMemory = cfg.MaxUploadBytes + (1 << 20)

	closeAudit := routes.RegisterRoutes(r, db, cfg, storage.NewUploader(cfg), nil)

	if err := server.Run(r, cfg.Addr()); err != nil {
		slog.Error("server failed", "error", err)
	}

	closeAudit()
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}
}
