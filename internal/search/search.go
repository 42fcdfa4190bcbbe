package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/blindys/blindys-backend/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

// Tracks runs a fuzzy multi_match over the track index.
func Tracks(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Track, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "artist", "theme"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Track `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	tracks := make([]models.Track, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		tracks[i] = hit.Source
	}
	return r.Hits.Total.Value, tracks, nil
}

// IndexTrack writes one track document, keyed by the database id.
func IndexTrack(ctx context.Context, es *elasticsearch.Client, index string, track models.Track) error {
	data, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("search: encode track: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(track.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("search: index track: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index track: %s", res.Status())
	}
	return nil
}
