// Package service orchestrates the analysis pipeline: parse, normalize,
// categorize, calculate, and score.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/categorize"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/config"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/income"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/infra/observability"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/normalizer"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/parser"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/port"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/risk"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/scorer"
)

var tracer = otel.Tracer("service/analyzer")

// MethodologyVersion stamps every result so scores produced by different
// releases of the scoring methodology are never compared blindly.
const MethodologyVersion = "1.2.0"

// AnalysisRequest is one statement document submitted for analysis.
type AnalysisRequest struct {
	Bytes    []byte
	Format   domain.DocumentFormat
	BankHint string
}

// Analyzer runs the full analysis pipeline over a statement document.
type Analyzer struct {
	cfg        *config.Config
	parser     *parser.Parser
	categorize *categorize.Engine
	income     *income.Analyzer
	scorer     *scorer.Scorer
	store      port.AnalysisStore
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewAnalyzer creates the analyzer service with all dependencies injected.
// The store may be nil; results are then returned without persistence.
func NewAnalyzer(
	cfg *config.Config,
	p *parser.Parser,
	eng *categorize.Engine,
	store port.AnalysisStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Analyzer {
	return &Analyzer{
		cfg:        cfg,
		parser:     p,
		categorize: eng,
		income:     income.New(cfg),
		scorer:     scorer.New(cfg),
		store:      store,
		metrics:    metrics,
		logger:     logger,
	}
}

// Analyze runs the full pipeline. Parse failures are fatal; everything
// downstream degrades instead of failing where the data allows it.
func (a *Analyzer) Analyze(ctx context.Context, req AnalysisRequest) (*domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.AnalysisBudget)
	defer cancel()

	ctx, span := tracer.Start(ctx, "Analyzer.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("statement.format", string(req.Format)),
		attribute.Int("statement.bytes", len(req.Bytes)),
	)

	start := time.Now()

	stmt, warnings, err := a.buildStatement(ctx, req)
	if err != nil {
		a.metrics.IncrAnalysis("error")
		return nil, err
	}
	span.SetAttributes(attribute.Int("statement.transactions", len(stmt.Transactions)))

	// --- Categorize (remote calls live behind this stage) ---
	catStart := time.Now()
	a.categorize.Categorize(ctx, stmt.Transactions)
	a.metrics.RecordStageDuration("categorize", time.Since(catStart))

	// --- Risk metrics and income stability are independent ---
	var (
		metrics      domain.RiskMetrics
		stability    domain.IncomeStability
		recurringIDs []string
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		metrics = risk.Calculate(stmt)
		return nil
	})
	g.Go(func() error {
		stability, recurringIDs = a.income.Analyze(stmt)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.metrics.IncrAnalysis("error")
		return nil, err
	}
	markRecurring(stmt, recurringIDs)

	score, grade, factors, err := a.scorer.Score(stmt, metrics, stability)
	if err != nil {
		a.metrics.IncrAnalysis("error")
		return nil, err
	}

	result := &domain.AnalysisResult{
		VeritasScore:       score,
		Grade:              grade,
		RiskFactors:        factors,
		NSFCount:           metrics.NSFCount,
		TotalDeposits:      metrics.TotalDeposits,
		TotalWithdrawals:   metrics.TotalWithdrawals,
		IncomeStability:    stability,
		Transactions:       stmt.Transactions,
		Warnings:           warnings,
		ComputedAt:         time.Now().UTC(),
		MethodologyVersion: MethodologyVersion,
	}

	if a.store != nil {
		if err := a.store.SaveAnalysis(ctx, stmt, result); err != nil {
			// Persistence is best-effort; the caller still gets the result.
			a.logger.Error("failed to persist analysis",
				zap.String("statement_id", stmt.ID),
				zap.Error(err))
			a.metrics.IncrExternalError("store")
		}
	}

	a.metrics.IncrAnalysis("success")
	a.metrics.RecordStageDuration("analyze", time.Since(start))
	a.logger.Info("analysis complete",
		zap.String("statement_id", stmt.ID),
		zap.Int("veritas_score", score),
		zap.String("grade", string(grade)),
		zap.Int("transactions", len(stmt.Transactions)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("took", time.Since(start)))

	return result, nil
}

// markRecurring flags the members of the detected regular income clusters.
// It runs after the risk/income fan-out joins, so both of those stages see
// the statement read-only.
func markRecurring(stmt *domain.Statement, ids []string) {
	if len(ids) == 0 {
		return
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for i := range stmt.Transactions {
		if _, ok := set[stmt.Transactions[i].ID]; ok {
			stmt.Transactions[i].IsRecurring = true
		}
	}
}

// buildStatement parses and normalizes the document into an immutable,
// chronologically ordered statement. Individual invalid records are
// dropped with a warning; a document where nothing survives is fatal.
func (a *Analyzer) buildStatement(ctx context.Context, req AnalysisRequest) (*domain.Statement, []domain.ParseWarning, error) {
	_, span := tracer.Start(ctx, "Analyzer.buildStatement")
	defer span.End()

	parseStart := time.Now()
	parsed, err := a.parser.Parse(req.Bytes, req.Format, req.BankHint)
	a.metrics.RecordStageDuration("parse", time.Since(parseStart))
	if err != nil {
		var pe *domain.ParseError
		if errors.As(err, &pe) {
			a.logger.Warn("statement parse failed",
				zap.String("kind", string(pe.Kind)),
				zap.Int("warnings", len(pe.Warnings)))
		}
		return nil, nil, err
	}
	warnings := parsed.Warnings

	txs := make([]domain.Transaction, 0, len(parsed.Transactions))
	for _, raw := range parsed.Transactions {
		tx, err := normalizer.Normalize(raw)
		if err != nil {
			warnings = append(warnings, domain.ParseWarning{
				Line:   raw.Line,
				Reason: fmt.Sprintf("dropped: %v", err),
			})
			continue
		}
		tx.ID = uuid.NewString()
		txs = append(txs, tx)
	}
	a.metrics.AddParseWarnings(len(warnings))

	if len(txs) == 0 {
		return nil, nil, domain.NewParseError(domain.ParseNoTransactionsFound, warnings, nil)
	}

	// Chronological ascending; stable keeps document order for same-day rows.
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	stmt := &domain.Statement{
		ID: uuid.NewString(),
		Metadata: domain.StatementMetadata{
			BankName:      parsed.BankName,
			AccountMasked: parsed.AccountMasked,
			PeriodStart:   txs[0].Date,
			PeriodEnd:     txs[len(txs)-1].Date,
		},
		Transactions: txs,
	}
	return stmt, warnings, nil
}
