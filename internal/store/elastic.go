package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"

	"scout-pipeline/internal/models"
)

// PlayerIndex mirrors player records into an Elasticsearch index so
// name searches don't scan the whole collection. The index is a replica
// of the primary store, never the source of truth.
type PlayerIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewPlayerIndex(client *elasticsearch.Client, index string) *PlayerIndex {
	return &PlayerIndex{client: client, index: index}
}

// Index upserts one player document keyed by its id.
func (x *PlayerIndex) Index(ctx context.Context, p models.Player) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode player doc: %w", err)
	}

	res, err := x.client.Index(
		x.index,
		bytes.NewReader(doc),
		x.client.Index.WithDocumentID(strconv.Itoa(p.ID)),
		x.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index player %d: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index player %d: %s", p.ID, res.Status())
	}
	return nil
}

// SearchByName matches the query against first and last names and
// returns the stored documents.
func (x *PlayerIndex) SearchByName(ctx context.Context, name string) ([]models.Player, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  name,
				"fields": []string{"firstName", "lastName"},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search players: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Player `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	players := make([]models.Player, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		players = append(players, hit.Source)
	}
	return players, nil
}
