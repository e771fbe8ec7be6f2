// Package store persists players, evaluations, and webhook
// subscriptions behind small interfaces so the file, Postgres, Redis,
// and Elasticsearch backings stay interchangeable.
package store

import (
	"context"
	"errors"

	"scout-pipeline/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// PlayerStore holds player records keyed by their immutable integer id.
type PlayerStore interface {
	List(ctx context.Context) ([]models.Player, error)
	Get(ctx context.Context, id int) (*models.Player, error)
	Create(ctx context.Context, p models.Player) error
	Exists(ctx context.Context, id int) (bool, error)
}

// EvaluationStore holds at most one evaluation per player. Upsert
// reports whether it created a new evaluation or replaced an existing
// one, which drives the score.created / score.updated event choice.
type EvaluationStore interface {
	Get(ctx context.Context, playerID int) (*models.Evaluation, error)
	Upsert(ctx context.Context, eval models.Evaluation) (created bool, err error)
}

// SubscriptionStore is the webhook subscription registry. URLs are
// unique keys.
type SubscriptionStore interface {
	List(ctx context.Context) ([]models.Subscription, error)
	Add(ctx context.Context, sub models.Subscription) error
	Remove(ctx context.Context, url string) error
}
