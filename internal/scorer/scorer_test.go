package scorer_test

import (
	"testing"
	"time"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/config"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/scorer"
)

func nonEmptyStatement() *domain.Statement {
	return &domain.Statement{
		Transactions: []domain.Transaction{
			{
				Date:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				Amount: 100,
				Type:   domain.TypeCredit,
			},
		},
	}
}

func TestScore_EmptyStatementIsNeutral(t *testing.T) {
	s := scorer.New(config.Load())

	score, grade, factors, err := s.Score(&domain.Statement{}, domain.RiskMetrics{}, domain.IncomeStability{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if score != 50 {
		t.Errorf("expected neutral baseline 50, got %d", score)
	}
	if grade != domain.GradeD {
		t.Errorf("expected grade D at baseline, got %s", grade)
	}
	if factors == nil {
		t.Fatal("expected empty (non-nil) risk factor list")
	}
	if len(factors) != 0 {
		t.Errorf("expected no risk factors without evidence, got %d", len(factors))
	}
}

func TestScore_NSFPenalty(t *testing.T) {
	s := scorer.New(config.Load())

	clean, _, _, err := s.Score(nonEmptyStatement(), domain.RiskMetrics{TotalDeposits: 100}, domain.IncomeStability{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	dirty, _, factors, err := s.Score(nonEmptyStatement(),
		domain.RiskMetrics{NSFCount: 2, TotalDeposits: 100}, domain.IncomeStability{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if dirty >= clean {
		t.Errorf("NSF events must reduce the score: clean=%d dirty=%d", clean, dirty)
	}

	var found bool
	for _, f := range factors {
		if f.Name == "nsf_events" {
			found = true
			if f.Contribution != -16 {
				t.Errorf("expected contribution -16 for 2 NSF events, got %v", f.Contribution)
			}
		}
	}
	if !found {
		t.Error("expected an nsf_events factor in the audit trail")
	}
}

func TestScore_NSFPenaltyFloor(t *testing.T) {
	s := scorer.New(config.Load())

	_, _, factors, err := s.Score(nonEmptyStatement(),
		domain.RiskMetrics{NSFCount: 100, TotalDeposits: 100}, domain.IncomeStability{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, f := range factors {
		if f.Name == "nsf_events" && f.Contribution != -30 {
			t.Errorf("expected NSF penalty capped at -30, got %v", f.Contribution)
		}
	}
}

func TestScore_IncomeStabilityRaisesScore(t *testing.T) {
	s := scorer.New(config.Load())

	low, _, _, err := s.Score(nonEmptyStatement(), domain.RiskMetrics{TotalDeposits: 100}, domain.IncomeStability{Score: 0})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	high, _, _, err := s.Score(nonEmptyStatement(), domain.RiskMetrics{TotalDeposits: 100}, domain.IncomeStability{Score: 90})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if high <= low {
		t.Errorf("stable income must raise the score: low=%d high=%d", low, high)
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	s := scorer.New(config.Load())

	worst, _, _, err := s.Score(nonEmptyStatement(), domain.RiskMetrics{
		NSFCount:         50,
		OverdraftCount:   50,
		TotalWithdrawals: 100000,
		TotalDeposits:    1,
	}, domain.IncomeStability{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if worst < 0 || worst > 100 {
		t.Errorf("score out of bounds: %d", worst)
	}

	best, _, _, err := s.Score(nonEmptyStatement(), domain.RiskMetrics{
		TotalDeposits: 100000,
	}, domain.IncomeStability{Score: 100})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if best < 0 || best > 100 {
		t.Errorf("score out of bounds: %d", best)
	}
}

func TestScore_GradeCutoffs(t *testing.T) {
	cfg := config.Load()
	s := scorer.New(cfg)

	// Drive the composite score through income stability alone: baseline 50
	// plus the income term, with a neutral flow ratio (no volume).
	tests := []struct {
		incomeScore int
		wantGrade   domain.Grade
	}{
		{100, domain.GradeB}, // 50 + 30 = 80
		{50, domain.GradeC},  // 50 + 15 = 65
		{20, domain.GradeD},  // 50 + 6 = 56
		{0, domain.GradeD},   // 50
	}

	for _, tt := range tests {
		score, grade, _, err := s.Score(nonEmptyStatement(), domain.RiskMetrics{}, domain.IncomeStability{Score: tt.incomeScore})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if grade != tt.wantGrade {
			t.Errorf("income %d -> score %d grade %s, want %s", tt.incomeScore, score, grade, tt.wantGrade)
		}
	}
}

func TestScore_FactorsRecordWeightAndContribution(t *testing.T) {
	s := scorer.New(config.Load())

	_, _, factors, err := s.Score(nonEmptyStatement(),
		domain.RiskMetrics{NSFCount: 1, TotalDeposits: 200, TotalWithdrawals: 100},
		domain.IncomeStability{Score: 60})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"nsf_events", "overdraft_days", "income_stability", "flow_ratio"}
	if len(factors) != len(want) {
		t.Fatalf("expected %d factors, got %d", len(want), len(factors))
	}
	for i, name := range want {
		if factors[i].Name != name {
			t.Errorf("factor %d = %q, want %q", i, factors[i].Name, name)
		}
		if factors[i].Weight == 0 {
			t.Errorf("factor %q has zero weight", name)
		}
	}
}
