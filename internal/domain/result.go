package domain

import "time"

// Grade buckets a Veritas score for underwriting decisions.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// RiskFactor records one scoring term for audit: its name, the configured
// weight, and the signed contribution actually applied. Factors are listed
// in the order they were applied.
type RiskFactor struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// RegularCluster is a group of income transactions of similar amount
// recurring at consistent intervals. Kept on the result for explainability.
type RegularCluster struct {
	Amount             float64 `json:"amount"`
	Count              int     `json:"count"`
	AvgIntervalDays    float64 `json:"avg_interval_days"`
	IntervalStdDevDays float64 `json:"interval_std_dev_days"`
}

// IncomeStability summarizes recurring-income detection.
type IncomeStability struct {
	Score           int              `json:"score"`
	RegularClusters []RegularCluster `json:"regular_clusters"`
}

// RiskMetrics holds the signals derived by the risk calculator.
type RiskMetrics struct {
	NSFCount         int     `json:"nsf_count"`
	OverdraftCount   int     `json:"overdraft_count"`
	TotalDeposits    float64 `json:"total_deposits"`
	TotalWithdrawals float64 `json:"total_withdrawals"`
}

// AnalysisResult is the final, immutable output of one analysis run.
type AnalysisResult struct {
	VeritasScore       int             `json:"veritasScore"`
	Grade              Grade           `json:"grade"`
	RiskFactors        []RiskFactor    `json:"riskFactors"`
	NSFCount           int             `json:"nsfCount"`
	TotalDeposits      float64         `json:"totalDeposits"`
	TotalWithdrawals   float64         `json:"totalWithdrawals"`
	IncomeStability    IncomeStability `json:"incomeStability"`
	Transactions       []Transaction   `json:"transactions"`
	Warnings           []ParseWarning  `json:"warnings,omitempty"`
	ComputedAt         time.Time       `json:"computedAt"`
	MethodologyVersion string          `json:"methodologyVersion"`
}
