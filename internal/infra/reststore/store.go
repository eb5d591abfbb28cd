// Package reststore persists analyses through a PostgREST API. It is the
// default implementation of port.AnalysisStore for deployments backed by
// a Postgres instance exposed over REST.
package reststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

var tracer = otel.Tracer("infra/reststore")

// Store wraps HTTP calls to the PostgREST analyses tables.
type Store struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	logger     *zap.Logger
}

// New creates a store backed by a PostgREST endpoint.
func New(httpClient *http.Client, baseURL, serviceKey string, logger *zap.Logger) *Store {
	return &Store{
		httpClient: httpClient,
		baseURL:    baseURL,
		serviceKey: serviceKey,
		logger:     logger,
	}
}

// analysisRow maps one completed analysis to the analyses table.
type analysisRow struct {
	ID                 string                 `json:"id"`
	StatementID        string                 `json:"statement_id"`
	BankName           string                 `json:"bank_name,omitempty"`
	AccountMasked      string                 `json:"account_masked,omitempty"`
	VeritasScore       int                    `json:"veritas_score"`
	Grade              string                 `json:"grade"`
	MethodologyVersion string                 `json:"methodology_version"`
	Result             *domain.AnalysisResult `json:"result"`
	ComputedAt         time.Time              `json:"computed_at"`
}

// SaveAnalysis writes the statement's analysis as one row, with the full
// result document embedded as JSON for later audit.
func (s *Store) SaveAnalysis(ctx context.Context, stmt *domain.Statement, result *domain.AnalysisResult) error {
	ctx, span := tracer.Start(ctx, "Store.SaveAnalysis")
	defer span.End()
	span.SetAttributes(
		attribute.String("statement.id", stmt.ID),
		attribute.Int("analysis.score", result.VeritasScore),
	)

	row := analysisRow{
		ID:                 stmt.ID,
		StatementID:        stmt.ID,
		BankName:           stmt.Metadata.BankName,
		AccountMasked:      stmt.Metadata.AccountMasked,
		VeritasScore:       result.VeritasScore,
		Grade:              string(result.Grade),
		MethodologyVersion: result.MethodologyVersion,
		Result:             result,
		ComputedAt:         result.ComputedAt,
	}
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode analysis row: %w", err)
	}

	_, err = s.doRequest(ctx, http.MethodPost, "analyses", body)
	if err != nil {
		return &domain.ErrExternalService{Service: "store", Err: err}
	}
	return nil
}

// LoadStatement retrieves a previously analyzed statement by ID.
func (s *Store) LoadStatement(ctx context.Context, id string) (*domain.Statement, error) {
	ctx, span := tracer.Start(ctx, "Store.LoadStatement")
	defer span.End()
	span.SetAttributes(attribute.String("statement.id", id))

	body, err := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("statements?id=eq.%s", id), nil)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store", Err: err}
	}
	if body == nil {
		return nil, &domain.ErrNotFound{Resource: "statement", ID: id}
	}

	var rows []domain.Statement
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode statement: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "statement", ID: id}
	}
	return &rows[0], nil
}

// doRequest executes an authenticated request against the PostgREST API.
func (s *Store) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("store: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("store: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("store returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
