package risk_test

import (
	"testing"
	"time"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
	"github.com/Shift4funding/Helios-Engine-sub007/internal/risk"
)

func stmt(txs ...domain.Transaction) *domain.Statement {
	return &domain.Statement{Transactions: txs}
}

func credit(amount float64, desc string) domain.Transaction {
	return domain.Transaction{
		Date:                  time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		NormalizedDescription: desc,
		Amount:                amount,
		Type:                  domain.TypeCredit,
	}
}

func debit(amount float64, desc string) domain.Transaction {
	return domain.Transaction{
		Date:                  time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		NormalizedDescription: desc,
		Amount:                -amount,
		Type:                  domain.TypeDebit,
	}
}

func TestCalculate_NSFCount(t *testing.T) {
	tagged := debit(35, "RETURNED ITEM CHARGE")
	tagged.Tags = []string{domain.TagFeeNSF}

	s := stmt(
		credit(2500, "PAYROLL ACME"),
		debit(35, "NSF FEE"),
		tagged,
		debit(12, "MONTHLY SERVICE FEE"),
	)

	m := risk.Calculate(s)
	if m.NSFCount != 2 {
		t.Errorf("expected 2 NSF events, got %d", m.NSFCount)
	}
}

func TestCalculate_TagAndKeywordCountOnce(t *testing.T) {
	both := debit(35, "NSF FEE")
	both.Tags = []string{domain.TagFeeNSF}

	m := risk.Calculate(stmt(both))
	if m.NSFCount != 1 {
		t.Errorf("expected a single NSF event, got %d", m.NSFCount)
	}
}

func TestCalculate_Totals(t *testing.T) {
	s := stmt(
		credit(2500, "PAYROLL ACME"),
		credit(300, "REFUND"),
		debit(1200, "RENT PAYMENT"),
		debit(54.25, "GROCERY MART"),
	)

	m := risk.Calculate(s)
	if m.TotalDeposits != 2800 {
		t.Errorf("total deposits = %v, want 2800", m.TotalDeposits)
	}
	if m.TotalWithdrawals != 1254.25 {
		t.Errorf("total withdrawals = %v, want 1254.25", m.TotalWithdrawals)
	}
}

func TestCalculate_OverdraftCount(t *testing.T) {
	neg1, neg2, pos := -120.50, -5.00, 80.00

	a := debit(200, "RENT PAYMENT")
	a.Balance = &neg1
	b := debit(30, "GROCERY MART")
	b.Balance = &neg2
	c := credit(200, "DEPOSIT")
	c.Balance = &pos
	d := debit(10, "COFFEE") // no balance column

	m := risk.Calculate(stmt(a, b, c, d))
	if m.OverdraftCount != 2 {
		t.Errorf("expected 2 overdrawn balances, got %d", m.OverdraftCount)
	}
}

func TestCalculate_Empty(t *testing.T) {
	m := risk.Calculate(stmt())
	if m.NSFCount != 0 || m.OverdraftCount != 0 || m.TotalDeposits != 0 || m.TotalWithdrawals != 0 {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}
