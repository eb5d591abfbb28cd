// Package categorize assigns a category to every transaction. Local
// keyword rules handle the common cases; the rest goes to a remote
// classifier behind a TTL cache, a circuit breaker and bounded batch
// concurrency. Classification never fails an analysis: when the remote
// side is unavailable, transactions fall back to uncategorized.
package categorize

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/config"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/infra/observability"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/infra/resilience"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/port"
)

const cacheName = "merchant"

// Engine categorizes transactions via local rules first, then the remote
// classifier for whatever the rules missed.
type Engine struct {
	rules        []CategoryRule
	cache        port.Cache[port.ClassificationEntry]
	classifier   port.BatchClassifier
	breaker      *gobreaker.CircuitBreaker
	retry        resilience.Config
	batchSize    int
	maxInFly     int
	batchTimeout time.Duration
	logger       *zap.Logger
	metrics      *observability.Metrics
}

// New creates a categorization engine. The classifier may be nil, in which
// case everything the local rules miss is uncategorized.
func New(
	cfg *config.Config,
	classifier port.BatchClassifier,
	cache port.Cache[port.ClassificationEntry],
	logger *zap.Logger,
	metrics *observability.Metrics,
) *Engine {
	return &Engine{
		rules:      defaultRules(),
		cache:      cache,
		classifier: classifier,
		breaker:    resilience.NewCircuitBreaker("classifier"),
		retry: resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
		},
		batchSize:    cfg.BatchSize,
		maxInFly:     cfg.MaxBatchesInFly,
		batchTimeout: cfg.BatchTimeout,
		logger:       logger,
		metrics:      metrics,
	}
}

// Categorize assigns a category to every transaction in place. It never
// returns an error: remote failures degrade to the uncategorized fallback
// so the analysis always completes.
func (e *Engine) Categorize(ctx context.Context, txs []domain.Transaction) {
	var misses []int

	for i := range txs {
		if rule, ok := matchRule(e.rules, txs[i].NormalizedDescription); ok {
			txs[i].Category = rule.Category
			txs[i].Tags = append(txs[i].Tags, rule.Tags...)
			continue
		}

		key := cacheKey(&txs[i])
		if entry, ok := e.cache.Get(key); ok {
			e.metrics.IncrCacheHit(cacheName)
			applyEntry(&txs[i], entry)
			continue
		}
		e.metrics.IncrCacheMiss(cacheName)
		misses = append(misses, i)
	}

	if len(misses) > 0 {
		e.classifyRemote(ctx, txs, misses)
	}

	for i := range txs {
		if txs[i].Category == "" {
			txs[i].Category = domain.CategoryUncategorized
		}
	}
}

// classifyRemote sends the missed transactions to the classifier in
// bounded-concurrency batches. Batches write to disjoint index sets, so
// no locking around txs is needed.
func (e *Engine) classifyRemote(ctx context.Context, txs []domain.Transaction, misses []int) {
	if e.classifier == nil {
		e.markUnavailable(txs, misses)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxInFly)

	for start := 0; start < len(misses); start += e.batchSize {
		end := start + e.batchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		g.Go(func() error {
			e.classifyBatch(gctx, txs, batch)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) classifyBatch(ctx context.Context, txs []domain.Transaction, batch []int) {
	reqs := make([]port.ClassificationRequest, 0, len(batch))
	for _, i := range batch {
		reqs = append(reqs, port.ClassificationRequest{
			ID:          strconv.Itoa(i),
			Description: txs[i].NormalizedDescription,
			Merchant:    txs[i].Merchant,
			Amount:      txs[i].Amount,
		})
	}

	bctx, cancel := context.WithTimeout(ctx, e.batchTimeout)
	defer cancel()

	var entries []port.ClassificationEntry
	err := resilience.Execute(bctx, e.breaker, e.retry, func() error {
		var callErr error
		entries, callErr = e.classifier.BatchClassify(bctx, reqs)
		return callErr
	})
	if err != nil {
		e.logger.Warn("remote classification failed, falling back",
			zap.Int("batch_size", len(batch)),
			zap.Error(err))
		e.metrics.IncrExternalError("classifier")
		e.metrics.IncrClassifierBatch("fallback")
		e.markUnavailable(txs, batch)
		return
	}

	e.metrics.IncrClassifierBatch("success")

	byID := make(map[string]port.ClassificationEntry, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
	}
	for _, i := range batch {
		entry, ok := byID[strconv.Itoa(i)]
		if !ok || entry.Category == "" {
			txs[i].Category = domain.CategoryUncategorized
			continue
		}
		// Key on the normalizer-derived merchant, the same key lookups
		// compute, before applyEntry can overwrite the merchant with the
		// classifier's canonical name.
		key := cacheKey(&txs[i])
		applyEntry(&txs[i], entry)
		e.cache.Set(key, entry)
	}
}

// markUnavailable applies the risk-neutral fallback to a set of indices.
func (e *Engine) markUnavailable(txs []domain.Transaction, indices []int) {
	for _, i := range indices {
		txs[i].Category = domain.CategoryUncategorized
		if !txs[i].HasTag(domain.TagClassifierUnavailable) {
			txs[i].Tags = append(txs[i].Tags, domain.TagClassifierUnavailable)
		}
	}
}

func applyEntry(tx *domain.Transaction, entry port.ClassificationEntry) {
	tx.Category = entry.Category
	for _, tag := range entry.Tags {
		if !tx.HasTag(tag) {
			tx.Tags = append(tx.Tags, tag)
		}
	}
	if entry.Merchant != "" {
		tx.Merchant = entry.Merchant
	}
}

// cacheKey is the canonical merchant when one was extracted, otherwise the
// normalized description. Keys are case-insensitive.
func cacheKey(tx *domain.Transaction) string {
	key := tx.Merchant
	if key == "" {
		key = tx.NormalizedDescription
	}
	return strings.ToLower(key)
}
