// Package risk computes deterministic risk metrics from a normalized,
// categorized statement. Everything here is a pure function of its input.
package risk

import (
	"strings"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// nsfKeywords identify insufficient-funds events in descriptions that the
// categorization engine did not tag, e.g. when the fee line was phrased in
// a way the rule table missed but a human would still recognize.
var nsfKeywords = []string{
	"NSF",
	"INSUFFICIENT FUNDS",
	"RETURNED ITEM",
	"UNPAID ITEM",
	"RETURN ITEM CHARGEBACK",
}

// Calculate derives the risk metrics for a statement. Each transaction is
// counted as at most one NSF event even when both the tag and a keyword
// match.
func Calculate(stmt *domain.Statement) domain.RiskMetrics {
	var m domain.RiskMetrics

	for i := range stmt.Transactions {
		tx := &stmt.Transactions[i]

		if isNSF(tx) {
			m.NSFCount++
		}
		if tx.Balance != nil && *tx.Balance < 0 {
			m.OverdraftCount++
		}

		switch tx.Type {
		case domain.TypeCredit:
			m.TotalDeposits += tx.Amount
		case domain.TypeDebit:
			m.TotalWithdrawals += -tx.Amount
		}
	}
	return m
}

func isNSF(tx *domain.Transaction) bool {
	if tx.HasTag(domain.TagFeeNSF) {
		return true
	}
	desc := strings.ToUpper(tx.NormalizedDescription)
	for _, kw := range nsfKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
