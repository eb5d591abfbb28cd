package income_test

import (
	"math"
	"testing"
	"time"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/config"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/income"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d-1)
}

func deposit(d int, amount float64) domain.Transaction {
	return domain.Transaction{
		Date:                  day(d),
		NormalizedDescription: "PAYROLL ACME CORP",
		Amount:                amount,
		Type:                  domain.TypeCredit,
	}
}

func withdrawal(d int, amount float64) domain.Transaction {
	return domain.Transaction{
		Date:                  day(d),
		NormalizedDescription: "GROCERY MART",
		Amount:                -amount,
		Type:                  domain.TypeDebit,
	}
}

func statement(txs ...domain.Transaction) *domain.Statement {
	first, last := txs[0].Date, txs[0].Date
	for _, tx := range txs {
		if tx.Date.Before(first) {
			first = tx.Date
		}
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
	return &domain.Statement{
		Metadata:     domain.StatementMetadata{PeriodStart: first, PeriodEnd: last},
		Transactions: txs,
	}
}

func TestAnalyze_BiweeklyPayrollScoresHigh(t *testing.T) {
	a := income.New(config.Load())

	// Same employer, same amount, paid on the 1st, 15th and 1st of the
	// next month. Intervals of 14 and 17 days are normal payroll jitter.
	s := statement(
		deposit(1, 2500),
		withdrawal(3, 60),
		deposit(15, 2500),
		withdrawal(20, 140),
		deposit(32, 2500),
	)

	got, _ := a.Analyze(s)
	if got.Score < 80 {
		t.Errorf("expected stability score >= 80 for regular payroll, got %d", got.Score)
	}
	if len(got.RegularClusters) != 1 {
		t.Fatalf("expected 1 regular cluster, got %d", len(got.RegularClusters))
	}

	c := got.RegularClusters[0]
	if c.Count != 3 {
		t.Errorf("cluster count = %d, want 3", c.Count)
	}
	if math.Abs(c.AvgIntervalDays-15.5) > 0.01 {
		t.Errorf("avg interval = %v, want 15.5", c.AvgIntervalDays)
	}
	if math.Abs(c.IntervalStdDevDays-1.5) > 0.01 {
		t.Errorf("interval stddev = %v, want 1.5", c.IntervalStdDevDays)
	}
}

func TestAnalyze_ReturnsClusterMemberIDs(t *testing.T) {
	a := income.New(config.Load())

	p1, p2, p3 := deposit(1, 2500), deposit(15, 2500), deposit(32, 2500)
	p1.ID, p2.ID, p3.ID = "tx-1", "tx-2", "tx-3"
	oneOff := deposit(10, 975)
	oneOff.ID = "tx-4"

	_, ids := a.Analyze(statement(p1, oneOff, p2, p3))

	want := map[string]bool{"tx-1": true, "tx-2": true, "tx-3": true}
	if len(ids) != len(want) {
		t.Fatalf("expected %d recurring IDs, got %v", len(want), ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected recurring ID %q", id)
		}
	}
}

func TestAnalyze_AmountToleranceGroupsNearIdenticalDeposits(t *testing.T) {
	a := income.New(config.Load())

	s := statement(
		deposit(1, 2490),
		deposit(15, 2500),
		deposit(29, 2510),
	)

	got, _ := a.Analyze(s)
	if len(got.RegularClusters) != 1 {
		t.Fatalf("expected deposits within tolerance to form 1 cluster, got %d", len(got.RegularClusters))
	}
	if got.RegularClusters[0].Count != 3 {
		t.Errorf("cluster count = %d, want 3", got.RegularClusters[0].Count)
	}
}

func TestAnalyze_NoCandidatesScoresZero(t *testing.T) {
	a := income.New(config.Load())

	s := statement(
		withdrawal(3, 60),
		withdrawal(20, 140),
	)

	got, _ := a.Analyze(s)
	if got.Score != 0 {
		t.Errorf("expected score 0 without income candidates, got %d", got.Score)
	}
	if len(got.RegularClusters) != 0 {
		t.Errorf("expected no clusters, got %d", len(got.RegularClusters))
	}
}

func TestAnalyze_OneOffDepositsScoreZero(t *testing.T) {
	a := income.New(config.Load())

	s := statement(
		deposit(2, 900),
		deposit(11, 4100),
		deposit(27, 1750),
	)

	got, _ := a.Analyze(s)
	if got.Score != 0 {
		t.Errorf("expected score 0 for unrelated one-off deposits, got %d", got.Score)
	}
}

func TestAnalyze_IrregularIntervalsRejected(t *testing.T) {
	cfg := config.Load()
	a := income.New(cfg)

	// Same amount, but intervals of 3 and 25 days blow the jitter ceiling.
	s := statement(
		deposit(1, 2500),
		deposit(4, 2500),
		deposit(29, 2500),
	)

	got, _ := a.Analyze(s)
	if len(got.RegularClusters) != 0 {
		t.Errorf("expected no regular clusters for erratic intervals, got %d", len(got.RegularClusters))
	}
	if got.Score != 0 {
		t.Errorf("expected score 0, got %d", got.Score)
	}
}

func TestAnalyze_SmallDepositsBelowMinimumIgnored(t *testing.T) {
	cfg := config.Load()
	a := income.New(cfg)

	// Interest credits below the income minimum must not register.
	s := statement(
		deposit(1, cfg.MinIncomeAmount/2),
		deposit(15, cfg.MinIncomeAmount/2),
		deposit(29, cfg.MinIncomeAmount/2),
	)

	got, _ := a.Analyze(s)
	if got.Score != 0 {
		t.Errorf("expected score 0 for sub-minimum deposits, got %d", got.Score)
	}
}

func TestAnalyze_TransfersExcluded(t *testing.T) {
	a := income.New(config.Load())

	mk := func(d int) domain.Transaction {
		tx := deposit(d, 2000)
		tx.Category = "transfer"
		return tx
	}
	s := statement(mk(1), mk(15), mk(29))

	got, _ := a.Analyze(s)
	if got.Score != 0 {
		t.Errorf("expected transfers to be excluded from income, got score %d", got.Score)
	}
}
