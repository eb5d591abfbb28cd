// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the pipeline
// from concrete implementations.
package port

import (
	"context"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// ClassificationRequest is one transaction sent to the remote classifier.
type ClassificationRequest struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant,omitempty"`
	Amount      float64 `json:"amount"`
}

// ClassificationEntry is the remote classifier's verdict for one transaction.
type ClassificationEntry struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Merchant   string   `json:"merchant,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Confidence float64  `json:"confidence"`
}

// BatchClassifier sends a batch of transactions to a remote classification
// backend. Implementations must respect ctx for timeout and cancellation.
type BatchClassifier interface {
	BatchClassify(ctx context.Context, reqs []ClassificationRequest) ([]ClassificationEntry, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// AnalysisStore persists completed analyses. The pipeline treats it as an
// opaque sink/source; both arguments are handed over read-only.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, stmt *domain.Statement, result *domain.AnalysisResult) error
	LoadStatement(ctx context.Context, id string) (*domain.Statement, error)
}
