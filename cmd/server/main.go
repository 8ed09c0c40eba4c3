package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/WalidElHadhri/PDS/internal/bootstrap"
	"github.com/WalidElHadhri/PDS/internal/config"
	"github.com/WalidElHadhri/PDS/internal/infra/cache"
	"github.com/WalidElHadhri/PDS/internal/infra/db"
	"github.com/WalidElHadhri/PDS/internal/modules/handler"
	"github.com/WalidElHadhri/PDS/internal/router"
	"github.com/WalidElHadhri/PDS/internal/telemetry"
)

//	@title			PDS API
//	@version		0.1.0
//	@description	Collaborative project tracking API: projects, collaborators, documentation, versions and a shared code file.
//	@BasePath		/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}

	gdb := do.MustInvoke[*gorm.DB](inj)
	rdb := do.MustInvoke[*redis.Client](inj)
	if tp != nil {
		if err := db.RegisterOpenTelemetryPlugin(gdb); err != nil {
			log.Fatal("failed to instrument gorm", zap.Error(err))
		}
		if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
			log.Fatal("failed to instrument redis", zap.Error(err))
		}
	}

	r := router.NewRouter(router.RouterDeps{
		Config:              cfg,
		DB:                  gdb,
		Redis:               rdb,
		Log:                 log,
		AuthHandler:         do.MustInvoke[*handler.AuthHandler](inj),
		ProjectHandler:      do.MustInvoke[*handler.ProjectHandler](inj),
		CollaboratorHandler: do.MustInvoke[*handler.CollaboratorHandler](inj),
		DocHandler:          do.MustInvoke[*handler.DocHandler](inj),
		VersionHandler:      do.MustInvoke[*handler.VersionHandler](inj),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		_ = telemetry.Shutdown(shutdownCtx)
		_ = cache.Close(rdb)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
