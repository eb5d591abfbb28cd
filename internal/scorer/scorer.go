// Package scorer folds the risk metrics and income stability signal into
// the composite Veritas score and its letter grade. Every applied term is
// recorded as a risk factor so a score can be audited after the fact.
package scorer

import (
	"math"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/config"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// Scorer computes the composite score. Weights, penalties and grade
// cutoffs come from configuration.
type Scorer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the 0-100 composite score, the grade, and the ordered
// risk factor trail. A statement with no transactions scores the neutral
// baseline with an empty factor list: no evidence, no adjustment.
func (s *Scorer) Score(stmt *domain.Statement, metrics domain.RiskMetrics, income domain.IncomeStability) (int, domain.Grade, []domain.RiskFactor, error) {
	factors := []domain.RiskFactor{}

	if len(stmt.Transactions) == 0 {
		score := clampScore(s.cfg.BaselineScore)
		return score, s.grade(score), factors, nil
	}

	total := s.cfg.BaselineScore

	apply := func(name string, weight, contribution float64) error {
		if math.IsNaN(contribution) || math.IsInf(contribution, 0) {
			return &domain.ErrScoring{Message: "non-finite contribution from factor " + name}
		}
		factors = append(factors, domain.RiskFactor{
			Name:         name,
			Weight:       weight,
			Contribution: contribution,
		})
		total += contribution
		return nil
	}

	nsfPenalty := math.Min(float64(metrics.NSFCount)*s.cfg.NSFPenalty, s.cfg.NSFPenaltyFloor)
	if err := apply("nsf_events", s.cfg.NSFPenalty, -nsfPenalty); err != nil {
		return 0, "", nil, err
	}

	odPenalty := math.Min(float64(metrics.OverdraftCount)*s.cfg.OverdraftPenalty, s.cfg.OverdraftFloor)
	if err := apply("overdraft_days", s.cfg.OverdraftPenalty, -odPenalty); err != nil {
		return 0, "", nil, err
	}

	incomeBonus := s.cfg.IncomeWeight * float64(income.Score) / 100
	if err := apply("income_stability", s.cfg.IncomeWeight, incomeBonus); err != nil {
		return 0, "", nil, err
	}

	if err := apply("flow_ratio", s.cfg.FlowRatioWeight, s.flowRatio(metrics)); err != nil {
		return 0, "", nil, err
	}

	score := clampScore(total)
	return score, s.grade(score), factors, nil
}

// flowRatio rewards statements where deposits exceed withdrawals and
// penalizes the inverse, bounded by the configured weight in either
// direction.
func (s *Scorer) flowRatio(metrics domain.RiskMetrics) float64 {
	volume := metrics.TotalDeposits + metrics.TotalWithdrawals
	if volume <= 0 {
		return 0
	}
	ratio := (metrics.TotalDeposits - metrics.TotalWithdrawals) / volume
	contribution := s.cfg.FlowRatioWeight * ratio
	if contribution > s.cfg.FlowRatioWeight {
		return s.cfg.FlowRatioWeight
	}
	if contribution < -s.cfg.FlowRatioWeight {
		return -s.cfg.FlowRatioWeight
	}
	return contribution
}

func (s *Scorer) grade(score int) domain.Grade {
	switch {
	case score >= s.cfg.GradeACutoff:
		return domain.GradeA
	case score >= s.cfg.GradeBCutoff:
		return domain.GradeB
	case score >= s.cfg.GradeCCutoff:
		return domain.GradeC
	case score >= s.cfg.GradeDCutoff:
		return domain.GradeD
	default:
		return domain.GradeF
	}
}

func clampScore(v float64) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
