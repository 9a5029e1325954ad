package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/skillmatch/internal/ingestion"
	"golang.org/x/time/rate"
)

const (
	// DefaultHTTPTimeout bounds a single inference request.
	DefaultHTTPTimeout = 20 * time.Second
	// DefaultRequestsPerSecond throttles calls to the inference endpoint.
	DefaultRequestsPerSecond = 5.0

	maxResponseBytes = 4 << 20
)

// HTTPRecognizerOptions configures an HTTPRecognizer.
type HTTPRecognizerOptions struct {
	Endpoint          string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// HTTPRecognizer calls a token-classification inference endpoint that takes
// {"inputs": text} and answers with a list of tagged tokens or entities.
type HTTPRecognizer struct {
	endpoint string
	token    string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewHTTPRecognizer creates an HTTPRecognizer. A missing endpoint yields
// ErrModelUnavailable.
func NewHTTPRecognizer(opts HTTPRecognizerOptions) (*HTTPRecognizer, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("%w: no inference endpoint configured", ErrModelUnavailable)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultHTTPTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &HTTPRecognizer{
		endpoint: opts.Endpoint,
		token:    opts.Token,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
	}, nil
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

// Recognize implements EntityRecognizer.
func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs:     text,
		Parameters: inferenceParameters{AggregationStrategy: "simple"},
	})
	if err != nil {
		return nil, &InferenceError{Backend: "http", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &InferenceError{Backend: "http", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &InferenceError{Backend: "http", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := ingestion.ReadAllLimited(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, &InferenceError{Backend: "http", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		// Hosted endpoints answer 503 while the model is loading
		return nil, fmt.Errorf("%w: endpoint returned %d: %s", ErrModelUnavailable, resp.StatusCode, truncateRunes(string(data), 200))
	case resp.StatusCode != http.StatusOK:
		return nil, &InferenceError{
			Backend: "http",
			Cause:   fmt.Errorf("status %d: %s", resp.StatusCode, truncateRunes(string(data), 200)),
		}
	}

	tokens, err := decodeEntities(data)
	if err != nil {
		return nil, &InferenceError{Backend: "http", Cause: err}
	}
	return Aggregate(tokens), nil
}

// decodeEntities accepts a flat list, or the nested list returned for
// batched inputs.
func decodeEntities(data []byte) ([]Entity, error) {
	var flat []Entity
	flatErr := json.Unmarshal(data, &flat)
	if flatErr == nil {
		return flat, nil
	}

	var nested [][]Entity
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, errors.Join(errors.New("unrecognized inference response"), flatErr)
	}
	var out []Entity
	for _, batch := range nested {
		out = append(out, batch...)
	}
	return out, nil
}
