// Package runner drives a batch of deliveries sequentially and
// aggregates the per-item outcomes.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/common/observability"
	"scout-pipeline/internal/models"
)

// Deliverer sends one report and classifies the result.
type Deliverer interface {
	Deliver(ctx context.Context, eval models.Evaluation) models.DeliveryOutcome
}

// Summary aggregates a batch run for reporting.
type Summary struct {
	RunID     string        `json:"runId"`
	Total     int           `json:"total"`
	Success   int           `json:"success"`
	Conflicts int           `json:"conflicts"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// Runner processes items one at a time, paced, so downstream load stays
// predictable. It deliberately does not parallelize.
type Runner struct {
	deliverer Deliverer
	itemDelay time.Duration
	pause     func(time.Duration)
	logger    logger.Logger
	obs       *observability.Observability
}

func New(deliverer Deliverer, itemDelay time.Duration, log logger.Logger, obs *observability.Observability) *Runner {
	return &Runner{
		deliverer: deliverer,
		itemDelay: itemDelay,
		pause:     time.Sleep,
		logger:    log.WithFields(map[string]interface{}{"component": "runner"}),
		obs:       obs,
	}
}

// Run delivers every report in order and returns one outcome per input
// item, in input order, plus the aggregate summary.
func (r *Runner) Run(ctx context.Context, evals []models.Evaluation) ([]models.DeliveryOutcome, Summary) {
	start := time.Now()
	summary := Summary{
		RunID: uuid.New().String(),
		Total: len(evals),
	}

	tracer := otel.Tracer("scout-pipeline/runner")
	ctx, span := tracer.Start(ctx, "batch.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", summary.RunID),
		attribute.Int("run.items", len(evals)),
	)

	r.logger.Info("starting batch run", map[string]interface{}{
		"runId": summary.RunID,
		"items": len(evals),
	})

	outcomes := make([]models.DeliveryOutcome, 0, len(evals))
	for i, eval := range evals {
		if ctx.Err() != nil {
			r.logger.Warn("run canceled", map[string]interface{}{
				"runId":     summary.RunID,
				"processed": i,
			})
			break
		}

		outcome := r.deliverer.Deliver(ctx, eval)
		outcomes = append(outcomes, outcome)

		switch outcome.Status {
		case models.OutcomeSuccess:
			summary.Success++
		case models.OutcomeConflict:
			summary.Conflicts++
		default:
			summary.Errors++
		}
		if r.obs != nil {
			r.obs.RecordItemProcessed(ctx, outcome.Status)
		}

		// Fixed pacing between items, including after the last attempt
		// of a failed one.
		if r.itemDelay > 0 && i < len(evals)-1 {
			r.pause(r.itemDelay)
		}
	}

	summary.Duration = time.Since(start)
	if r.obs != nil {
		r.obs.RecordRunDuration(ctx, summary.Duration, runStatus(summary))
	}

	r.logger.Info("batch run finished", map[string]interface{}{
		"runId":     summary.RunID,
		"total":     summary.Total,
		"success":   summary.Success,
		"conflicts": summary.Conflicts,
		"errors":    summary.Errors,
		"duration":  summary.Duration.String(),
	})
	return outcomes, summary
}

func runStatus(s Summary) string {
	if s.Errors > 0 {
		return "partial"
	}
	return "ok"
}
