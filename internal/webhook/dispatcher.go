package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	httpclient "scout-pipeline/internal/common/http"
	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/common/metrics"
	"scout-pipeline/internal/models"
	"scout-pipeline/internal/store"
)

// Mirror is an optional secondary sink for drained events (e.g. an SNS
// topic). Same best-effort contract as subscriber delivery.
type Mirror interface {
	Publish(ctx context.Context, e models.Event) error
}

// Dispatcher delivers events to every matching subscription: one
// best-effort POST per subscriber, a fixed timeout, no retries. A
// subscriber failure is logged and swallowed.
type Dispatcher struct {
	subs    store.SubscriptionStore
	client  *httpclient.Client
	timeout time.Duration
	mirror  Mirror
	logger  logger.Logger
}

func NewDispatcher(subs store.SubscriptionStore, timeout time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		subs:    subs,
		client:  httpclient.NewClient(timeout),
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "webhook-dispatcher"}),
	}
}

// WithMirror attaches a secondary event sink.
func (d *Dispatcher) WithMirror(m Mirror) *Dispatcher {
	d.mirror = m
	return d
}

// NewEvent stamps a payload into a dispatchable event.
func NewEvent(eventType string, payload interface{}) models.Event {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = json.RawMessage(`{}`)
	}
	return models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   raw,
	}
}

// Dispatch fans one event out to all interested subscriptions. It never
// returns an error: the triggering operation already succeeded and must
// not be affected by subscriber failures.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.Event) {
	subs, err := d.subs.List(ctx)
	if err != nil {
		d.logger.Error("failed to load subscriptions", map[string]interface{}{
			"eventType": event.Type,
			"error":     err.Error(),
		})
		return
	}

	matched := 0
	for _, sub := range subs {
		if !sub.Wants(event.Type) {
			continue
		}
		matched++
		d.post(ctx, sub.URL, event)
	}

	if d.mirror != nil {
		if err := d.mirror.Publish(ctx, event); err != nil {
			d.logger.Warn("event mirror failed", map[string]interface{}{
				"eventType": event.Type,
				"error":     err.Error(),
			})
		}
	}

	d.logger.Info("event dispatched", map[string]interface{}{
		"eventType":   event.Type,
		"subscribers": matched,
	})
}

func (d *Dispatcher) post(ctx context.Context, url string, event models.Event) {
	postCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.PostJSON(postCtx, url, event, nil)
	if err != nil {
		metrics.WebhookDispatches.WithLabelValues(event.Type, "error").Inc()
		d.logger.Warn("webhook delivery failed", map[string]interface{}{
			"url":       url,
			"eventType": event.Type,
			"error":     err.Error(),
		})
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.WebhookDispatches.WithLabelValues(event.Type, "error").Inc()
		d.logger.Warn("webhook delivery rejected", map[string]interface{}{
			"url":        url,
			"eventType":  event.Type,
			"statusCode": resp.StatusCode,
		})
		return
	}

	metrics.WebhookDispatches.WithLabelValues(event.Type, "ok").Inc()
}

// Run drains the queue until it closes or the context is canceled. Once
// an event is picked up its dispatch runs to completion or timeout.
func (d *Dispatcher) Run(ctx context.Context, queue *Queue) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-queue.Dequeue():
			if !ok {
				return
			}
			metrics.EventQueueDepth.Set(float64(queue.Len()))
			d.Dispatch(ctx, event)
		}
	}
}
