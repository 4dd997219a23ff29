// Package diarize attributes transcript segments to anonymous speaker
// clusters using acoustic embeddings.
package diarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Embedder produces a fixed-length acoustic fingerprint for a waveform
// slice. Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, samples []float32, sampleRate int) ([]float64, error)
	Dimension() int
}

// HTTPEmbedder calls a speaker-embedding sidecar service (ECAPA-TDNN or
// compatible) over HTTP. The model is loaded once by the sidecar and
// reused across requests.
type HTTPEmbedder struct {
	baseURL   string
	dimension int
	client    *http.Client
}

// NewHTTPEmbedder creates an embedder backed by the sidecar at baseURL.
// dimension is the vector size the model produces (192 for ECAPA).
func NewHTTPEmbedder(baseURL string, dimension int) *HTTPEmbedder {
	return &HTTPEmbedder{
		baseURL:   baseURL,
		dimension: dimension,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
}

// Dimension returns the embedding vector size.
func (e *HTTPEmbedder) Dimension() int { return e.dimension }

type embedRequest struct {
	Samples    []float32 `json:"samples"`
	SampleRate int       `json:"sample_rate"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed posts the waveform slice to the sidecar's /embed endpoint and
// returns the resulting vector.
func (e *HTTPEmbedder) Embed(ctx context.Context, samples []float32, sampleRate int) ([]float64, error) {
	reqBody, err := json.Marshal(embedRequest{Samples: samples, SampleRate: sampleRate})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embed %s: %s", resp.Status, string(b))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("embed decode: %w", err)
	}
	if len(out.Embedding) != e.dimension {
		return nil, fmt.Errorf("embed: expected %d dimensions, got %d", e.dimension, len(out.Embedding))
	}
	return out.Embedding, nil
}
