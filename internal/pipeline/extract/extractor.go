// Package extract fetches source pages until exhaustion or the page cap.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"scout-pipeline/internal/common/errors"
	httpclient "scout-pipeline/internal/common/http"
	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/common/metrics"
	"scout-pipeline/internal/common/retry"
	"scout-pipeline/internal/models"
)

type Config struct {
	URL       string
	MaxPages  int
	Timeout   time.Duration
	PageDelay time.Duration
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1")
	}
	return nil
}

// Extractor walks the paginated source API with a single zero-based
// page cursor.
type Extractor struct {
	config Config
	policy retry.Policy
	client *httpclient.Client
	logger logger.Logger
	pause  func(time.Duration)
}

func New(config Config, policy retry.Policy, log logger.Logger) *Extractor {
	return &Extractor{
		config: config,
		policy: policy.Normalize(),
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "extractor"}),
		pause:  time.Sleep,
	}
}

// Extract fetches pages for query until the source is exhausted, the
// page cap is hit, or a page fails for good. On failure it returns
// whatever was accumulated together with the error; callers decide
// whether a partial batch is usable.
func (e *Extractor) Extract(ctx context.Context, query string) ([]models.Organization, error) {
	e.logger.Info("starting extraction", map[string]interface{}{
		"query":    query,
		"maxPages": e.config.MaxPages,
	})

	var all []models.Organization
	totalPages := -1

	for page := 0; (totalPages < 0 || page < totalPages) && page < e.config.MaxPages; page++ {
		data, err := e.fetchPage(ctx, query, page)
		if err != nil {
			e.logger.Error("page fetch failed, aborting extraction", map[string]interface{}{
				"page":  page,
				"error": err.Error(),
			})
			metrics.ItemsExtracted.Add(float64(len(all)))
			return all, err
		}

		// The first successful response tells us how many pages exist.
		if totalPages < 0 && data.NumPages > 0 {
			totalPages = data.NumPages
			if totalPages > e.config.MaxPages {
				totalPages = e.config.MaxPages
			}
		}

		if len(data.Organizations) == 0 {
			e.logger.Info("no more data available", map[string]interface{}{"page": page})
			break
		}

		all = append(all, data.Organizations...)
		metrics.PagesFetched.Inc()

		if e.config.PageDelay > 0 {
			e.pause(e.config.PageDelay)
		}
	}

	metrics.ItemsExtracted.Add(float64(len(all)))
	e.logger.Info("extraction finished", map[string]interface{}{
		"query": query,
		"items": len(all),
	})
	return all, nil
}

// fetchPage requests one page, retrying transient transport failures
// per the policy. Bad statuses and undecodable bodies are terminal.
func (e *Extractor) fetchPage(ctx context.Context, query string, page int) (*models.SearchPage, error) {
	for attempt := 0; ; attempt++ {
		data, err := e.requestPage(ctx, query, page)
		if err == nil {
			return data, nil
		}

		stdErr, ok := err.(*errors.StandardError)
		if !ok || !stdErr.Retryable || e.policy.LastAttempt(attempt) {
			return nil, err
		}

		e.logger.Warn("page request failed, retrying", map[string]interface{}{
			"page":    page,
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
		e.policy.WaitTransient()
	}
}

func (e *Extractor) requestPage(ctx context.Context, query string, page int) (*models.SearchPage, error) {
	u, err := url.Parse(e.config.URL)
	if err != nil {
		return nil, errors.NewSourceBadResponseError(page, fmt.Sprintf("bad source url: %v", err))
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.NewSourceBadResponseError(page, fmt.Sprintf("build request: %v", err))
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.NewSourceUnreachableError(page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.NewSourceBadResponseError(page, fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}

	var data models.SearchPage
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.NewSourceBadResponseError(page, fmt.Sprintf("decode body: %v", err))
	}
	return &data, nil
}
