// Package deliver posts scouting reports to the target API one at a
// time, with bounded retries and a single classified outcome per item.
package deliver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"scout-pipeline/internal/common/auth"
	httpclient "scout-pipeline/internal/common/http"
	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/common/metrics"
	"scout-pipeline/internal/common/retry"
	"scout-pipeline/internal/models"
)

type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	return nil
}

type Client struct {
	config Config
	policy retry.Policy
	http   *httpclient.Client
	logger logger.Logger
}

func New(config Config, policy retry.Policy, log logger.Logger) *Client {
	return &Client{
		config: config,
		policy: policy.Normalize(),
		http:   httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "deliver"}),
	}
}

// Deliver posts one report. 200/201 stop the loop as success, 409 stops
// as conflict, anything else retries until the attempt ceiling and then
// classifies as error. Exactly one outcome comes back no matter what.
func (c *Client) Deliver(ctx context.Context, eval models.Evaluation) models.DeliveryOutcome {
	start := time.Now()
	defer func() {
		metrics.DeliveryDuration.Observe(time.Since(start).Seconds())
	}()

	outcome := c.attemptLoop(ctx, eval)
	metrics.DeliveriesTotal.WithLabelValues(outcome.Status).Inc()

	switch outcome.Status {
	case models.OutcomeSuccess:
		c.logger.Info("delivered", map[string]interface{}{
			"identifier": outcome.Identifier,
			"statusCode": outcome.StatusCode,
		})
	case models.OutcomeConflict:
		c.logger.Warn("delivery conflict", map[string]interface{}{
			"identifier": outcome.Identifier,
			"statusCode": outcome.StatusCode,
		})
	default:
		c.logger.Error("delivery failed", map[string]interface{}{
			"identifier": outcome.Identifier,
			"error":      outcome.Error,
		})
	}
	return outcome
}

func (c *Client) attemptLoop(ctx context.Context, eval models.Evaluation) models.DeliveryOutcome {
	identifier := eval.FullName

	for attempt := 0; ; attempt++ {
		resp, err := c.http.PostJSON(ctx, c.config.URL, eval, map[string]string{
			auth.HeaderName: c.config.Token,
		})
		if err != nil {
			if c.policy.LastAttempt(attempt) {
				return models.DeliveryOutcome{
					Status:     models.OutcomeError,
					Identifier: identifier,
					Error:      err.Error(),
				}
			}
			c.logger.Warn("transport failure, retrying", map[string]interface{}{
				"identifier": identifier,
				"attempt":    attempt + 1,
				"error":      err.Error(),
			})
			c.policy.WaitTransient()
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
			return models.DeliveryOutcome{
				Status:     models.OutcomeSuccess,
				Identifier: identifier,
				StatusCode: resp.StatusCode,
				Response:   rawIfJSON(body),
			}
		case resp.StatusCode == http.StatusConflict:
			// Already known downstream. Terminal, not an error.
			return models.DeliveryOutcome{
				Status:     models.OutcomeConflict,
				Identifier: identifier,
				StatusCode: resp.StatusCode,
				Response:   rawIfJSON(body),
			}
		default:
			if c.policy.LastAttempt(attempt) {
				return models.DeliveryOutcome{
					Status:     models.OutcomeError,
					Identifier: identifier,
					StatusCode: resp.StatusCode,
					Error:      fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)),
				}
			}
			c.logger.Warn("unexpected status, retrying", map[string]interface{}{
				"identifier": identifier,
				"attempt":    attempt + 1,
				"statusCode": resp.StatusCode,
			})
			c.policy.WaitStatus()
		}
	}
}

func rawIfJSON(body []byte) json.RawMessage {
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}
