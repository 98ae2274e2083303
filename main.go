package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bioserver/config"
	"bioserver/dao/query"
	"bioserver/logutils"
	"bioserver/server"
	"bioserver/tracing"
	"bioserver/util"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", config.Path(), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logutils.Log.Fatal("load config: ", err)
	}
	if err := logutils.SetLevel(cfg.Log.Level); err != nil {
		logutils.Log.Fatal(err)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, os.Stdout)
	if err != nil {
		logutils.Log.Fatal("init tracing: ", err)
	}

	q, closeStore, err := query.InitDB(ctx, cfg.Store)
	if err != nil {
		logutils.Log.Fatal("init store: ", err)
	}
	if err := prepareStore(ctx, cfg.Store.Driver, q); err != nil {
		logutils.Log.Fatal("prepare store: ", err)
	}

	srv, err := server.New(cfg.Server.Addr, server.RouterConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		AllowOrigins:   cfg.Server.AllowOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		Query:          q,
		Tokens:         util.NewTokenManager(cfg.Auth),
	})
	if err != nil {
		logutils.Log.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err = <-errCh:
		if err != nil {
			logutils.Log.Error(err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logutils.Log.Error("stop server: ", err)
	}
	if err := closeStore(); err != nil {
		logutils.Log.Error("close store: ", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logutils.Log.Error("shutdown tracing: ", err)
	}
}

// prepareStore migrates a sqlite store in place. Postgres schemas are owned by
// cmd/migrate, so only a reminder is logged; Mongo needs nothing up front.
func prepareStore(ctx context.Context, driver string, q *query.Query) error {
	switch driver {
	case config.DriverSQLite:
		return q.Migrate(ctx)
	case config.DriverPostgres:
		logutils.Log.Warn("postgres schema is not migrated at startup, run cmd/migrate after upgrades")
	}
	return nil
}
