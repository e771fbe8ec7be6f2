// Command pipeline runs one extract-transform-deliver batch: pull
// organizations from the paginated source, synthesize player records
// and scouting reports, and deliver each report to the downstream
// scores endpoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"scout-pipeline/internal/common/config"
	"scout-pipeline/internal/common/errors"
	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/common/observability"
	"scout-pipeline/internal/common/retry"
	"scout-pipeline/internal/notify"
	"scout-pipeline/internal/pipeline/deliver"
	"scout-pipeline/internal/pipeline/extract"
	"scout-pipeline/internal/pipeline/runner"
	"scout-pipeline/internal/pipeline/transform"
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
	log.Info("starting pipeline", map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
		"env":     cfg.App.Environment,
	})

	cleanup, err := observability.InitTracer(cfg.App.Name, os.Getenv("JAEGER_ENDPOINT"))
	if err != nil {
		log.WithError(err).Warn("tracing disabled", nil)
	} else {
		defer cleanup()
	}
	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	extractor := extract.New(extract.Config{
		URL:       cfg.Source.URL,
		MaxPages:  cfg.Source.MaxPages,
		Timeout:   cfg.Source.Timeout,
		PageDelay: cfg.Source.PageDelay,
	}, retry.Policy{
		MaxAttempts:    cfg.Source.RetryAttempts,
		TransientDelay: cfg.Source.TransientDelay,
	}, log)

	orgs, err := extractor.Extract(ctx, cfg.Source.Query)
	if err != nil && len(orgs) > 0 {
		log.WithError(err).Warn("extraction aborted early, continuing with partial batch", map[string]interface{}{
			"extracted": len(orgs),
		})
	}
	if len(orgs) == 0 {
		if err == nil {
			err = errors.NewExtractionEmptyError(cfg.Source.Query)
		}
		log.WithError(err).Error("extraction produced nothing, aborting", map[string]interface{}{
			"query": cfg.Source.Query,
		})
		return 1
	}

	transformer := transform.New()
	players := transformer.Players(orgs)
	evals := transformer.Evaluations(players)
	log.Info("batch transformed", map[string]interface{}{
		"extracted": len(orgs),
		"eligible":  len(players),
	})

	deliverer := deliver.New(deliver.Config{
		URL:     cfg.Target.URL,
		Token:   cfg.Target.Token,
		Timeout: cfg.Target.Timeout,
	}, retry.Policy{
		MaxAttempts:    cfg.Target.RetryAttempts,
		TransientDelay: cfg.Target.TransientDelay,
		StatusDelay:    cfg.Target.StatusDelay,
	}, log)

	_, summary := runner.New(deliverer, cfg.Target.ItemDelay, log, obs).Run(ctx, evals)

	if cfg.Notifications.Email.Enabled {
		mailer, err := notify.NewSummaryMailer(ctx, cfg.Notifications.Email, log)
		if err != nil {
			log.WithError(err).Warn("summary mailer unavailable", nil)
		} else if err := mailer.SendRunSummary(ctx, summary); err != nil {
			log.WithError(err).Warn("summary email not sent", nil)
		}
	}

	if summary.Errors > 0 {
		return 1
	}
	return 0
}
