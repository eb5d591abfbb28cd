// Package income detects regular income streams in a statement and rates
// their stability. Deposits with near-identical amounts are clustered,
// then each cluster's payment rhythm is checked for regularity.
package income

import (
	"math"
	"sort"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/config"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// Analyzer rates income stability on a 0-100 scale. Thresholds and score
// weights come from configuration.
type Analyzer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze detects regular income clusters and scores their stability.
// A statement with no plausible income candidates scores zero. The second
// return value lists the IDs of the transactions belonging to a regular
// cluster; the analyzer only reads the statement, so the caller decides
// when to flag them as recurring.
func (a *Analyzer) Analyze(stmt *domain.Statement) (domain.IncomeStability, []string) {
	candidates := a.incomeCandidates(stmt)
	if len(candidates) == 0 {
		return domain.IncomeStability{}, nil
	}

	clusters := a.clusterByAmount(candidates)
	regular := a.regularClusters(clusters)
	if len(regular) == 0 {
		return domain.IncomeStability{}, nil
	}

	score := a.scoreClusters(stmt, regular)
	result := domain.IncomeStability{Score: score}
	var recurringIDs []string
	for _, c := range regular {
		result.RegularClusters = append(result.RegularClusters, c.summary())
		for _, tx := range c.txs {
			recurringIDs = append(recurringIDs, tx.ID)
		}
	}
	return result, recurringIDs
}

// incomeCandidates selects the deposits that could plausibly be income:
// credits at or above the minimum amount, excluding internal transfers.
func (a *Analyzer) incomeCandidates(stmt *domain.Statement) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range stmt.Transactions {
		if tx.Type != domain.TypeCredit {
			continue
		}
		if tx.Amount < a.cfg.MinIncomeAmount {
			continue
		}
		if tx.Category == "transfer" {
			continue
		}
		out = append(out, tx)
	}
	return out
}

type cluster struct {
	txs           []domain.Transaction
	meanAmount    float64
	meanInterval  float64
	stdDevDays    float64
	totalDeposits float64
}

// clusterByAmount groups candidates whose amounts fall within the
// configured tolerance of the cluster's running mean. Candidates are
// processed in ascending amount order, so each cluster is a contiguous
// amount band.
func (a *Analyzer) clusterByAmount(candidates []domain.Transaction) []*cluster {
	sorted := make([]domain.Transaction, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount < sorted[j].Amount })

	tolerance := a.cfg.AmountTolerancePct / 100

	var clusters []*cluster
	var current *cluster
	for _, tx := range sorted {
		if current != nil && math.Abs(tx.Amount-current.meanAmount) <= current.meanAmount*tolerance {
			current.add(tx)
			continue
		}
		current = &cluster{}
		current.add(tx)
		clusters = append(clusters, current)
	}
	return clusters
}

func (c *cluster) add(tx domain.Transaction) {
	c.txs = append(c.txs, tx)
	c.totalDeposits += tx.Amount
	c.meanAmount = c.totalDeposits / float64(len(c.txs))
}

// regularClusters keeps the clusters whose payment rhythm qualifies as
// regular income: at least two occurrences, interval jitter within the
// standard deviation ceiling, and no gap pattern longer than the maximum
// plausible pay cycle.
func (a *Analyzer) regularClusters(clusters []*cluster) []*cluster {
	var regular []*cluster
	for _, c := range clusters {
		if len(c.txs) < 2 {
			continue
		}

		sort.SliceStable(c.txs, func(i, j int) bool { return c.txs[i].Date.Before(c.txs[j].Date) })

		intervals := make([]float64, 0, len(c.txs)-1)
		for i := 1; i < len(c.txs); i++ {
			days := c.txs[i].Date.Sub(c.txs[i-1].Date).Hours() / 24
			intervals = append(intervals, days)
		}

		c.meanInterval = mean(intervals)
		c.stdDevDays = stdDev(intervals, c.meanInterval)

		if c.meanInterval <= 0 || c.meanInterval > a.cfg.MaxIncomeGapDays {
			continue
		}
		if c.stdDevDays > a.cfg.MaxIntervalStdDev {
			continue
		}
		regular = append(regular, c)
	}
	return regular
}

// scoreClusters combines four signals into the 0-100 stability score:
// how much of the deposit volume is regular income, how much of the
// statement period the income stream covers, how consistent the payment
// intervals are, and whether more than one regular stream exists.
func (a *Analyzer) scoreClusters(stmt *domain.Statement, regular []*cluster) int {
	var totalDeposits float64
	for _, tx := range stmt.Transactions {
		if tx.Type == domain.TypeCredit {
			totalDeposits += tx.Amount
		}
	}

	var regularVolume, weightedConsistency, bestCoverage float64
	for _, c := range regular {
		regularVolume += c.totalDeposits

		consistency := 0.0
		if c.meanInterval > 0 {
			consistency = 1 - c.stdDevDays/c.meanInterval
			if consistency < 0 {
				consistency = 0
			}
		}
		weightedConsistency += consistency * c.totalDeposits

		if cov := a.coverage(stmt, c); cov > bestCoverage {
			bestCoverage = cov
		}
	}

	incomeFraction := 0.0
	if totalDeposits > 0 {
		incomeFraction = regularVolume / totalDeposits
	}
	consistency := 0.0
	if regularVolume > 0 {
		consistency = weightedConsistency / regularVolume
	}
	clusterTerm := math.Min(float64(len(regular)), 2) / 2

	score := a.cfg.IncomeFractionWeight*incomeFraction +
		a.cfg.CoverageWeight*bestCoverage +
		a.cfg.ConsistencyWeight*consistency +
		a.cfg.ClusterCountWeight*clusterTerm

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// coverage measures how much of the statement period the cluster spans.
// One expected interval is granted past the last payment, since income
// earned near the period end has simply not recurred yet.
func (a *Analyzer) coverage(stmt *domain.Statement, c *cluster) float64 {
	periodDays := float64(stmt.PeriodDays())
	if periodDays <= 0 {
		return 0
	}
	span := c.txs[len(c.txs)-1].Date.Sub(c.txs[0].Date).Hours() / 24
	covered := span + c.meanInterval
	if covered > periodDays {
		covered = periodDays
	}
	return covered / periodDays
}

func (c *cluster) summary() domain.RegularCluster {
	return domain.RegularCluster{
		Amount:             c.meanAmount,
		Count:              len(c.txs),
		AvgIntervalDays:    c.meanInterval,
		IntervalStdDevDays: c.stdDevDays,
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the population standard deviation.
func stdDev(xs []float64, mu float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := x - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
