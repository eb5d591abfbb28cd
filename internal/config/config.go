package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
// Scoring weights and detection thresholds are deliberately configuration,
// not code, so they can be recalibrated without touching the pipeline.
type Config struct {
	LogLevel string

	// Remote classifier
	ClassifierURL   string
	HTTPTimeout     time.Duration
	BatchSize       int
	MaxBatchesInFly int
	BatchTimeout    time.Duration
	MaxRetries      int
	InitialBackoff  time.Duration
	AnalysisBudget  time.Duration

	// Categorization cache
	CacheTTL time.Duration

	// Persistence (PostgREST-style store); empty URL disables saving
	StoreURL string
	StoreKey string

	// Income stability
	MinIncomeAmount      float64
	AmountTolerancePct   float64
	MaxIntervalStdDev    float64
	MaxIncomeGapDays     float64
	IncomeFractionWeight float64
	CoverageWeight       float64
	ConsistencyWeight    float64
	ClusterCountWeight   float64

	// Composite scoring
	BaselineScore    float64
	NSFPenalty       float64
	NSFPenaltyFloor  float64
	OverdraftPenalty float64
	OverdraftFloor   float64
	IncomeWeight     float64
	FlowRatioWeight  float64
	GradeACutoff     int
	GradeBCutoff     int
	GradeCCutoff     int
	GradeDCutoff     int

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ClassifierURL:   getEnv("CLASSIFIER_API_URL", "http://localhost:8090"),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		BatchSize:       getEnvInt("CLASSIFIER_BATCH_SIZE", 20),
		MaxBatchesInFly: getEnvInt("CLASSIFIER_MAX_BATCHES", 4),
		BatchTimeout:    getEnvDuration("CLASSIFIER_BATCH_TIMEOUT", 5*time.Second),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		InitialBackoff:  getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		AnalysisBudget:  getEnvDuration("ANALYSIS_BUDGET", 60*time.Second),

		CacheTTL: getEnvDuration("CACHE_TTL", time.Hour),

		StoreURL: getEnv("STORE_URL", ""),
		StoreKey: getEnv("STORE_SERVICE_KEY", ""),

		MinIncomeAmount:      getEnvFloat("MIN_INCOME_AMOUNT", 50),
		AmountTolerancePct:   getEnvFloat("INCOME_AMOUNT_TOLERANCE_PCT", 5),
		MaxIntervalStdDev:    getEnvFloat("MAX_INCOME_INTERVAL_STDDEV", 7),
		MaxIncomeGapDays:     getEnvFloat("MAX_INCOME_GAP_DAYS", 45),
		IncomeFractionWeight: getEnvFloat("INCOME_FRACTION_WEIGHT", 35),
		CoverageWeight:       getEnvFloat("INCOME_COVERAGE_WEIGHT", 25),
		ConsistencyWeight:    getEnvFloat("INCOME_CONSISTENCY_WEIGHT", 25),
		ClusterCountWeight:   getEnvFloat("INCOME_CLUSTER_COUNT_WEIGHT", 15),

		BaselineScore:    getEnvFloat("SCORE_BASELINE", 50),
		NSFPenalty:       getEnvFloat("SCORE_NSF_PENALTY", 8),
		NSFPenaltyFloor:  getEnvFloat("SCORE_NSF_FLOOR", 30),
		OverdraftPenalty: getEnvFloat("SCORE_OVERDRAFT_PENALTY", 5),
		OverdraftFloor:   getEnvFloat("SCORE_OVERDRAFT_FLOOR", 20),
		IncomeWeight:     getEnvFloat("SCORE_INCOME_WEIGHT", 30),
		FlowRatioWeight:  getEnvFloat("SCORE_FLOW_RATIO_WEIGHT", 10),
		GradeACutoff:     getEnvInt("GRADE_A_CUTOFF", 90),
		GradeBCutoff:     getEnvInt("GRADE_B_CUTOFF", 75),
		GradeCCutoff:     getEnvInt("GRADE_C_CUTOFF", 60),
		GradeDCutoff:     getEnvInt("GRADE_D_CUTOFF", 50),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
