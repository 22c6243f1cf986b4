// seedrec 启动推荐服务：加载配置与领域描述、并发加载目录、对外提供 HTTP 接口。
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rushteam/seedrec/api"
	"github.com/rushteam/seedrec/config"
	"github.com/rushteam/seedrec/domain"
	"github.com/rushteam/seedrec/logging"
	"github.com/rushteam/seedrec/metrics"
	"github.com/rushteam/seedrec/service"
	"github.com/rushteam/seedrec/store"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("seedrec exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})
	logger := logging.Component("seedrec")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := loadRegistry(cfg.Catalog.Tables)
	if err != nil {
		return err
	}

	kv, err := store.New(store.Options{
		Backend:   cfg.Store.Backend,
		RedisAddr: cfg.Store.RedisAddr,
		RedisPass: cfg.Store.RedisPass,
		RedisDB:   cfg.Store.RedisDB,
		KeyPrefix: cfg.Store.KeyPrefix,
	})
	if err != nil {
		return err
	}
	defer kv.Close()

	catalogs := store.NewCatalogStore(registry, kv, store.CatalogOptions{
		DataDir:        cfg.Catalog.DataDir,
		Files:          cfg.CatalogFiles(),
		IMDbRaw:        cfg.Catalog.IMDbRaw,
		IMDbSampleSize: cfg.Catalog.SampleSize,
	}, logger)
	if err := catalogs.LoadAll(ctx); err != nil {
		return err
	}
	for _, d := range registry.Domains() {
		if info, err := catalogs.Info(ctx, d); err == nil {
			metrics.CatalogRows.WithLabelValues(string(d), info.Source).Set(float64(info.Rows))
		}
	}

	pipelineCfg, err := config.LoadPipeline(cfg.Pipeline.File)
	if err != nil {
		return err
	}
	rec, err := service.NewRecommender(service.Options{
		Registry: registry,
		Catalogs: catalogs,
		Store:    kv,
		Recall:   cfg.RecallConfig(),
		Pipeline: pipelineCfg,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	handler := api.NewHandler(rec, catalogs, registry.Domains())
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewRouter(handler, api.RouterConfig{
			CORSOrigins:     cfg.Server.CORSOrigins,
			RateLimit:       cfg.Server.RateLimit,
			RateLimitWindow: cfg.Server.RateLimitWindow,
			RequestTimeout:  cfg.Server.RequestTimeout,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("store", kv.Name()).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadRegistry(path string) (*domain.Registry, error) {
	if path == "" {
		return domain.Builtin()
	}
	return domain.LoadFromYAML(path)
}
