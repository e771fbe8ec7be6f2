package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/common/retry"
	"scout-pipeline/internal/models"
)

func newTestExtractor(t *testing.T, url string, maxPages int, policy retry.Policy) *Extractor {
	t.Helper()
	e := New(Config{URL: url, MaxPages: maxPages, Timeout: 2 * time.Second}, policy, logger.NewTestLogger(t))
	e.pause = func(time.Duration) {}
	return e
}

func noSleep(time.Duration) {}

func pageResponse(numPages int, names ...string) models.SearchPage {
	page := models.SearchPage{NumPages: numPages}
	for _, n := range names {
		page.Organizations = append(page.Organizations, models.Organization{Name: n, City: "Testville"})
	}
	return page
}

func TestExtractWalksAllPages(t *testing.T) {
	var pagesSeen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesSeen = append(pagesSeen, page)
		assert.Equal(t, "soccer", r.URL.Query().Get("q"))

		var resp models.SearchPage
		switch page {
		case "0":
			resp = pageResponse(2, "Alpha Club", "Beta Club")
		case "1":
			resp = pageResponse(2, "Gamma Club")
		default:
			t.Fatalf("unexpected page %s", page)
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := newTestExtractor(t, srv.URL, 5, retry.Policy{MaxAttempts: 3, Sleep: noSleep})

	orgs, err := e.Extract(context.Background(), "soccer")
	require.NoError(t, err)
	assert.Len(t, orgs, 3)
	// num_pages=2 stops the walk before the configured cap of 5.
	assert.Equal(t, []string{"0", "1"}, pagesSeen)
}

func TestExtractStopsAtEmptyPage(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "0" {
			json.NewEncoder(w).Encode(pageResponse(10, "Only Club"))
			return
		}
		json.NewEncoder(w).Encode(models.SearchPage{NumPages: 10})
	}))
	defer srv.Close()

	e := newTestExtractor(t, srv.URL, 5, retry.Policy{MaxAttempts: 3, Sleep: noSleep})

	orgs, err := e.Extract(context.Background(), "soccer")
	require.NoError(t, err)
	assert.Len(t, orgs, 1)
	assert.Equal(t, 2, requests, "an empty page ends the walk")
}

func TestExtractHonorsPageCap(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(pageResponse(100, fmt.Sprintf("Club %d", requests)))
	}))
	defer srv.Close()

	e := newTestExtractor(t, srv.URL, 2, retry.Policy{MaxAttempts: 3, Sleep: noSleep})

	orgs, err := e.Extract(context.Background(), "soccer")
	require.NoError(t, err)
	assert.Len(t, orgs, 2)
	assert.Equal(t, 2, requests)
}

func TestExtractRetriesTransientFailures(t *testing.T) {
	var slept []time.Duration
	attempts := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			// Hijack and drop the connection to force a transport error.
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		json.NewEncoder(w).Encode(pageResponse(1, "Recovered Club"))
	}))
	defer srv.Close()

	policy := retry.Policy{
		MaxAttempts:    3,
		TransientDelay: 2 * time.Second,
		Sleep:          func(d time.Duration) { slept = append(slept, d) },
	}
	e := newTestExtractor(t, srv.URL, 5, policy)

	orgs, err := e.Extract(context.Background(), "soccer")
	require.NoError(t, err)
	assert.Len(t, orgs, 1)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
}

func TestExtractReturnsPartialOnPersistentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "0" {
			json.NewEncoder(w).Encode(pageResponse(3, "Kept Club"))
			return
		}
		conn, _, err := w.(http.Hijacker).Hijack()
		require.NoError(t, err)
		conn.Close()
	}))
	defer srv.Close()

	e := newTestExtractor(t, srv.URL, 5, retry.Policy{MaxAttempts: 3, Sleep: noSleep})

	orgs, err := e.Extract(context.Background(), "soccer")
	require.Error(t, err)
	assert.Len(t, orgs, 1, "page 0 results survive the abort")
}

func TestExtractBadStatusIsTerminal(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	e := newTestExtractor(t, srv.URL, 5, retry.Policy{MaxAttempts: 3, Sleep: noSleep})

	orgs, err := e.Extract(context.Background(), "soccer")
	require.Error(t, err)
	assert.Empty(t, orgs)
	assert.Equal(t, 1, requests, "non-200 responses are not retried")
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{URL: "http://example.com", MaxPages: 1}
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&Config{MaxPages: 1}).Validate())
	assert.Error(t, (&Config{URL: "http://example.com", MaxPages: 0}).Validate())
}
