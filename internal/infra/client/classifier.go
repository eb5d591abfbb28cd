// Package client contains HTTP adapters for the external services the
// engine talks to. Retry and circuit breaking are applied by the caller;
// adapters here do one attempt per call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/port"
)

var tracer = otel.Tracer("infra/client")

// ClassifierClient calls the remote transaction classification API.
type ClassifierClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewClassifierClient creates a classifier adapter.
func NewClassifierClient(httpClient *http.Client, baseURL string) *ClassifierClient {
	return &ClassifierClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// BatchClassify sends one batch of transactions and returns the verdicts.
// A context deadline is reported as a timeout so callers can distinguish
// slow from broken.
func (c *ClassifierClient) BatchClassify(ctx context.Context, reqs []port.ClassificationRequest) ([]port.ClassificationEntry, error) {
	ctx, span := tracer.Start(ctx, "ClassifierClient.BatchClassify")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(reqs)))

	body, err := json.Marshal(struct {
		Transactions []port.ClassificationRequest `json:"transactions"`
	}{Transactions: reqs})
	if err != nil {
		return nil, fmt.Errorf("encode classification request: %w", err)
	}

	url := c.baseURL + "/v1/classify/batch"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &domain.ErrClassifier{Timeout: true, Err: err}
		}
		return nil, &domain.ErrClassifier{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ErrExternalService{
			Service: "classifier",
			Err:     fmt.Errorf("classifier API returned status %d", resp.StatusCode),
		}
	}

	var decoded struct {
		Results []port.ClassificationEntry `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &domain.ErrClassifier{Err: fmt.Errorf("decode classifier response: %w", err)}
	}
	return decoded.Results, nil
}
