// Command roster-api serves the player roster HTTP API and runs the
// webhook dispatch worker alongside it.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scout-pipeline/internal/common/auth"
	"scout-pipeline/internal/common/config"
	"scout-pipeline/internal/common/database"
	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/common/observability"
	"scout-pipeline/internal/notify"
	"scout-pipeline/internal/server"
	"scout-pipeline/internal/store"
	"scout-pipeline/internal/webhook"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "json").WithError(err).Error("failed to load configuration", nil)
		return 1
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting roster API", map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
		"env":     cfg.App.Environment,
		"address": cfg.Server.Address,
		"backend": cfg.Storage.Backend,
	})

	cleanup, err := observability.InitTracer(cfg.App.Name, os.Getenv("JAEGER_ENDPOINT"))
	if err != nil {
		log.WithError(err).Warn("tracing disabled", nil)
	} else {
		defer cleanup()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	players, evaluations, closeStores, err := buildStores(cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to initialize storage", nil)
		return 1
	}
	defer closeStores()

	var subscriptions store.SubscriptionStore = store.NewFileSubscriptionStore(cfg.Storage.DataDir)
	if cfg.Storage.Redis.Enabled {
		redisClient, err := database.NewRedis(cfg.Storage.Redis)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, subscription cache disabled", nil)
		} else {
			defer redisClient.Close()
			subscriptions = store.NewCachedSubscriptionStore(subscriptions, redisClient.Client, cfg.Storage.Redis.CacheTTL, log)
		}
	}

	var index *store.PlayerIndex
	if cfg.Storage.Elasticsearch.Enabled {
		esClient, err := database.NewElasticsearch(cfg.Storage.Elasticsearch)
		if err != nil {
			log.WithError(err).Warn("elasticsearch unavailable, name search falls back to store scan", nil)
		} else {
			index = store.NewPlayerIndex(esClient.Client, cfg.Storage.Elasticsearch.Index)
		}
	}

	queue := webhook.NewQueue(cfg.Webhooks.QueueSize)
	dispatcher := webhook.NewDispatcher(subscriptions, cfg.Webhooks.Timeout, log)
	if cfg.Webhooks.SNS.Enabled {
		mirror, err := notify.NewSNSMirror(ctx, cfg.Webhooks.SNS, log)
		if err != nil {
			log.WithError(err).Warn("SNS mirror unavailable", nil)
		} else {
			dispatcher.WithMirror(mirror)
		}
	}

	// The worker gets its own context so that on shutdown it drains
	// whatever is already queued instead of dropping it.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		dispatcher.Run(workerCtx, queue)
	}()

	srv := server.New(server.Options{
		Players:       players,
		Evaluations:   evaluations,
		Subscriptions: subscriptions,
		Index:         index,
		Verifier:      auth.NewStaticToken(cfg.Auth.Token),
		Queue:         queue,
		Logger:        log,
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: srv.Routes(),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		log.WithError(err).Error("server stopped", nil)
		return 1
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("forced shutdown", nil)
	}

	// Let the worker drain what is already queued before exiting.
	queue.Close()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
	}
	return 0
}

// buildStores selects the persistence backend for players and
// evaluations. The file backend needs no external service; Postgres is
// for shared deployments.
func buildStores(cfg *config.Config, log logger.Logger) (store.PlayerStore, store.EvaluationStore, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		client, err := database.NewPostgres(cfg.Storage.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewPostgresPlayerStore(client.DB),
			store.NewPostgresEvaluationStore(client.DB),
			func() { client.Close() },
			nil
	default:
		return store.NewFilePlayerStore(cfg.Storage.DataDir),
			store.NewFileEvaluationStore(cfg.Storage.DataDir),
			func() {},
			nil
	}
}
