package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/models"
)

type stubSubscriptionStore struct {
	subs []models.Subscription
	err  error
}

func (s *stubSubscriptionStore) List(ctx context.Context) ([]models.Subscription, error) {
	return s.subs, s.err
}
func (s *stubSubscriptionStore) Add(ctx context.Context, sub models.Subscription) error { return nil }
func (s *stubSubscriptionStore) Remove(ctx context.Context, url string) error           { return nil }

type recordingMirror struct {
	mu     sync.Mutex
	events []models.Event
}

func (m *recordingMirror) Publish(ctx context.Context, e models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func recordingServer(t *testing.T) (*httptest.Server, func() []models.Event) {
	t.Helper()
	var mu sync.Mutex
	var received []models.Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e models.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	}))
	t.Cleanup(srv.Close)
	return srv, func() []models.Event {
		mu.Lock()
		defer mu.Unlock()
		return received
	}
}

func TestDispatchFiltersByEventType(t *testing.T) {
	srvA, gotA := recordingServer(t)
	srvB, gotB := recordingServer(t)

	subs := &stubSubscriptionStore{subs: []models.Subscription{
		{URL: srvA.URL, EventTypes: []string{models.EventPlayerCreated}},
		{URL: srvB.URL, EventTypes: []string{models.EventScoreCreated, models.EventScoreUpdated}},
	}}
	d := NewDispatcher(subs, 2*time.Second, logger.NewTestLogger(t))

	d.Dispatch(context.Background(), NewEvent(models.EventPlayerCreated, map[string]int{"id": 1}))
	d.Dispatch(context.Background(), NewEvent(models.EventScoreUpdated, map[string]int{"id": 1}))

	require.Len(t, gotA(), 1)
	assert.Equal(t, models.EventPlayerCreated, gotA()[0].Type)
	require.Len(t, gotB(), 1)
	assert.Equal(t, models.EventScoreUpdated, gotB()[0].Type)
}

func TestDispatchSubscriberFailureDoesNotSpread(t *testing.T) {
	srvOK, gotOK := recordingServer(t)
	srvDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srvDown.Close()

	subs := &stubSubscriptionStore{subs: []models.Subscription{
		{URL: srvDown.URL, EventTypes: []string{models.EventTest}},
		{URL: "http://127.0.0.1:1", EventTypes: []string{models.EventTest}},
		{URL: srvOK.URL, EventTypes: []string{models.EventTest}},
	}}
	d := NewDispatcher(subs, 2*time.Second, logger.NewTestLogger(t))

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), NewEvent(models.EventTest, nil))
	})
	assert.Len(t, gotOK(), 1, "healthy subscribers still receive the event")
}

func TestDispatchMirrorsEvents(t *testing.T) {
	mirror := &recordingMirror{}
	d := NewDispatcher(&stubSubscriptionStore{}, time.Second, logger.NewTestLogger(t)).WithMirror(mirror)

	event := NewEvent(models.EventScoreCreated, map[string]int{"id": 7})
	d.Dispatch(context.Background(), event)

	require.Len(t, mirror.events, 1)
	assert.Equal(t, event.ID, mirror.events[0].ID)
}

func TestNewEventShape(t *testing.T) {
	e := NewEvent(models.EventPlayerCreated, map[string]string{"name": "x"})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, models.EventPlayerCreated, e.Type)
	_, err := time.Parse(time.RFC3339, e.Timestamp)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(e.Payload))

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event_type":"player.created"`)
}

func TestRunDrainsQueue(t *testing.T) {
	srv, got := recordingServer(t)

	subs := &stubSubscriptionStore{subs: []models.Subscription{
		{URL: srv.URL, EventTypes: []string{models.EventTest}},
	}}
	d := NewDispatcher(subs, 2*time.Second, logger.NewTestLogger(t))

	q := NewQueue(8)
	require.True(t, q.Enqueue(NewEvent(models.EventTest, nil)))
	require.True(t, q.Enqueue(NewEvent(models.EventTest, nil)))
	q.Close()

	done := make(chan struct{})
	go func() {
		d.Run(context.Background(), q)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not drain the queue")
	}
	assert.Len(t, got(), 2)
}
