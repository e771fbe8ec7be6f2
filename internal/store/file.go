package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"scout-pipeline/internal/models"
)

// The file backend keeps one JSON array per collection and rewrites the
// whole file on every mutation. A per-store mutex serializes writers so
// concurrent mutations cannot lose updates; writes go through a temp
// file and rename so readers never observe a torn file.

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// FilePlayerStore stores players in a single JSON array file.
type FilePlayerStore struct {
	path string
	mu   sync.Mutex
}

func NewFilePlayerStore(dataDir string) *FilePlayerStore {
	return &FilePlayerStore{path: filepath.Join(dataDir, "players.json")}
}

func (s *FilePlayerStore) load() ([]models.Player, error) {
	var players []models.Player
	if err := readJSONFile(s.path, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (s *FilePlayerStore) List(ctx context.Context) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FilePlayerStore) Get(ctx context.Context, id int) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FilePlayerStore) Exists(ctx context.Context, id int) (bool, error) {
	_, err := s.Get(ctx, id)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FilePlayerStore) Create(ctx context.Context, p models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range players {
		if existing.ID == p.ID {
			return ErrDuplicate
		}
	}
	players = append(players, p)
	return writeJSONFile(s.path, players)
}

// FileEvaluationStore stores evaluations in a single JSON array file,
// at most one per player.
type FileEvaluationStore struct {
	path string
	mu   sync.Mutex
}

func NewFileEvaluationStore(dataDir string) *FileEvaluationStore {
	return &FileEvaluationStore{path: filepath.Join(dataDir, "evaluations.json")}
}

func (s *FileEvaluationStore) load() ([]models.Evaluation, error) {
	var evals []models.Evaluation
	if err := readJSONFile(s.path, &evals); err != nil {
		return nil, err
	}
	return evals, nil
}

func (s *FileEvaluationStore) Get(ctx context.Context, playerID int) (*models.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evals, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, e := range evals {
		if e.PlayerID == playerID {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileEvaluationStore) Upsert(ctx context.Context, eval models.Evaluation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evals, err := s.load()
	if err != nil {
		return false, err
	}
	for i, e := range evals {
		if e.PlayerID == eval.PlayerID {
			evals[i] = eval
			return false, writeJSONFile(s.path, evals)
		}
	}
	evals = append(evals, eval)
	return true, writeJSONFile(s.path, evals)
}

// FileSubscriptionStore stores webhook subscriptions in a single JSON
// array file, keyed by URL.
type FileSubscriptionStore struct {
	path string
	mu   sync.Mutex
}

func NewFileSubscriptionStore(dataDir string) *FileSubscriptionStore {
	return &FileSubscriptionStore{path: filepath.Join(dataDir, "subscriptions.json")}
}

func (s *FileSubscriptionStore) load() ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := readJSONFile(s.path, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *FileSubscriptionStore) List(ctx context.Context) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileSubscriptionStore) Add(ctx context.Context, sub models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range subs {
		if existing.URL == sub.URL {
			return ErrDuplicate
		}
	}
	subs = append(subs, sub)
	return writeJSONFile(s.path, subs)
}

func (s *FileSubscriptionStore) Remove(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load()
	if err != nil {
		return err
	}
	for i, existing := range subs {
		if existing.URL == url {
			subs = append(subs[:i], subs[i+1:]...)
			return writeJSONFile(s.path, subs)
		}
	}
	return ErrNotFound
}
