package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/categorize"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/config"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/infra/cache"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/infra/client"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/infra/observability"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/infra/reststore"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/parser"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/port"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/service"
)

func main() {
	filePath := flag.String("file", "", "statement document to analyze (pdf or csv)")
	format := flag.String("format", "", "document format override: pdf or csv (default: by extension)")
	bank := flag.String("bank", "", "bank name hint, promotes that bank's layout heuristics")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Parse()

	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if *filePath == "" {
		logger.Fatal("missing required -file flag")
	}

	logger.Info("configuration loaded",
		zap.String("log_level", cfg.LogLevel),
		zap.String("classifier_url", cfg.ClassifierURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("analysis_budget", cfg.AnalysisBudget),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "helios-engine")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	merchantCache := cache.New[port.ClassificationEntry](cfg.CacheTTL)

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	classifier := client.NewClassifierClient(httpClient, cfg.ClassifierURL)

	var store port.AnalysisStore
	if cfg.StoreURL != "" {
		store = reststore.New(httpClient, cfg.StoreURL, cfg.StoreKey, logger)
		logger.Info("persistence enabled", zap.String("store_url", cfg.StoreURL))
	} else {
		logger.Info("persistence disabled, results go to stdout only")
	}

	// --- Services ---
	engine := categorize.New(cfg, classifier, merchantCache, logger, metrics)
	analyzer := service.NewAnalyzer(cfg, parser.New(), engine, store, metrics, logger)

	// --- Cancellation ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		logger.Fatal("failed to read statement file", zap.Error(err))
	}

	result, err := analyzer.Analyze(ctx, service.AnalysisRequest{
		Bytes:    data,
		Format:   resolveFormat(*format, *filePath),
		BankHint: *bank,
	})
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		logger.Fatal("failed to encode result", zap.Error(err))
	}

	snap := metrics.GetSnapshot()
	logger.Info("pipeline counters",
		zap.Float64("analyses", snap.Analyses),
		zap.Float64("cache_hit_rate", snap.CacheHitRate),
		zap.Float64("fallback_batches", snap.FallbackBatches),
	)
}

// resolveFormat prefers the explicit flag, then the file extension.
func resolveFormat(override, path string) domain.DocumentFormat {
	if override != "" {
		return domain.DocumentFormat(strings.ToLower(override))
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return domain.FormatPDF
	case ".csv":
		return domain.FormatCSV
	default:
		return domain.DocumentFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	}
}
