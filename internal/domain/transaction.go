// Package domain defines the core business entities for the Helios Engine.
// These models are independent of external services and represent the
// canonical data structures used throughout the analysis pipeline.
package domain

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// DocumentFormat is the declared format of an uploaded statement.
type DocumentFormat string

const (
	FormatPDF DocumentFormat = "pdf"
	FormatCSV DocumentFormat = "csv"
)

// CategoryUncategorized is assigned when neither the local rules nor the
// remote classifier could categorize a transaction.
const CategoryUncategorized = "uncategorized"

// TagClassifierUnavailable marks transactions whose remote classification
// failed or timed out. It is risk-neutral: downstream calculators ignore it.
const TagClassifierUnavailable = "classifier:unavailable"

// TagFeeNSF marks fee transactions caused by insufficient funds.
const TagFeeNSF = "fee:nsf"

// RawTransaction is one transaction candidate as extracted by the parser,
// before normalization. Amount carries the sign as stated in the document;
// Balance is the running balance when the layout provides one.
type RawTransaction struct {
	Date        time.Time
	Description string
	Amount      float64
	Balance     *float64
	// FromDebitColumn / FromCreditColumn record the column of origin for
	// CSV layouts with separate debit/credit columns, where the amount
	// itself is unsigned.
	FromDebitColumn  bool
	FromCreditColumn bool
	Line             int // 1-based source line, for warnings
}

// Transaction is a normalized, optionally categorized statement entry.
// Date, Amount and Type are immutable after normalization; the
// categorization engine and income analyzer only add information.
type Transaction struct {
	ID                    string          `json:"id"`
	Date                  time.Time       `json:"date"`
	RawDescription        string          `json:"raw_description"`
	NormalizedDescription string          `json:"normalized_description"`
	Merchant              string          `json:"merchant,omitempty"`
	Category              string          `json:"category"`
	Tags                  []string        `json:"tags,omitempty"`
	Amount                float64         `json:"amount"`
	Type                  TransactionType `json:"type"`
	Balance               *float64        `json:"balance,omitempty"`
	IsRecurring           bool            `json:"is_recurring"`
}

// HasTag reports whether the transaction carries the given tag.
func (t *Transaction) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// StatementMetadata describes the document a statement came from.
type StatementMetadata struct {
	BankName      string    `json:"bank_name,omitempty"`
	AccountMasked string    `json:"account_masked,omitempty"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
}

// Statement is an ordered (chronological ascending, document order on ties)
// sequence of transactions plus document metadata. It is created once per
// analysis run and treated as immutable afterwards.
type Statement struct {
	ID           string            `json:"id"`
	Metadata     StatementMetadata `json:"metadata"`
	Transactions []Transaction     `json:"transactions"`
}

// PeriodDays returns the number of calendar days the statement covers,
// inclusive of both endpoints. A single-day statement covers one day.
func (s *Statement) PeriodDays() int {
	if s.Metadata.PeriodEnd.Before(s.Metadata.PeriodStart) {
		return 0
	}
	return int(s.Metadata.PeriodEnd.Sub(s.Metadata.PeriodStart).Hours()/24) + 1
}
