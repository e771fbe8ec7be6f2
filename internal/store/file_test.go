package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scout-pipeline/internal/models"
)

func testPlayer(id int) models.Player {
	return models.Player{
		ID:        id,
		FirstName: fmt.Sprintf("Player%d", id),
		LastName:  "Test",
		Team:      "Northside United",
		Position:  "striker",
		Skills:    map[string]int{"force": 70},
	}
}

func TestFilePlayerStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewFilePlayerStore(t.TempDir())

	players, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, players, "missing file reads as empty")

	require.NoError(t, s.Create(ctx, testPlayer(1)))
	require.NoError(t, s.Create(ctx, testPlayer(2)))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Player1", got.FirstName)
	assert.Equal(t, map[string]int{"force": 70}, got.Skills)

	exists, err := s.Exists(ctx, 2)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, 99)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Get(ctx, 99)
	assert.Equal(t, ErrNotFound, err)
}

func TestFilePlayerStoreDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewFilePlayerStore(t.TempDir())

	require.NoError(t, s.Create(ctx, testPlayer(1)))
	assert.Equal(t, ErrDuplicate, s.Create(ctx, testPlayer(1)))

	players, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 1)
}

func TestFilePlayerStoreConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	s := NewFilePlayerStore(t.TempDir())

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, s.Create(ctx, testPlayer(id)))
		}(i)
	}
	wg.Wait()

	players, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 20, "no concurrent create may be lost")
}

func TestFileEvaluationStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewFileEvaluationStore(t.TempDir())

	_, err := s.Get(ctx, 1)
	assert.Equal(t, ErrNotFound, err)

	eval := models.Evaluation{PlayerID: 1, FullName: "A", OverallScore: 70, Verdict: models.VerdictGood}
	created, err := s.Upsert(ctx, eval)
	require.NoError(t, err)
	assert.True(t, created, "first upsert creates")

	eval.OverallScore = 81
	eval.Verdict = models.VerdictExcellent
	created, err = s.Upsert(ctx, eval)
	require.NoError(t, err)
	assert.False(t, created, "second upsert replaces")

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 81.0, got.OverallScore)
	assert.Equal(t, models.VerdictExcellent, got.Verdict)
}

func TestFileSubscriptionStore(t *testing.T) {
	ctx := context.Background()
	s := NewFileSubscriptionStore(t.TempDir())

	sub := models.Subscription{URL: "http://hooks.example.com/a", EventTypes: []string{models.EventPlayerCreated}}
	require.NoError(t, s.Add(ctx, sub))
	assert.Equal(t, ErrDuplicate, s.Add(ctx, sub))

	subs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.URL, subs[0].URL)

	require.NoError(t, s.Remove(ctx, sub.URL))
	assert.Equal(t, ErrNotFound, s.Remove(ctx, sub.URL))

	subs, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestFileStoresSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := NewFilePlayerStore(dir)
	require.NoError(t, first.Create(ctx, testPlayer(5)))

	second := NewFilePlayerStore(dir)
	got, err := second.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Player5", got.FirstName)
}
