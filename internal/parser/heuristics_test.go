package parser

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "150.00", 150.00},
		{"thousands separator", "1,234.56", 1234.56},
		{"dollar sign", "$42.10", 42.10},
		{"negative with minus", "-20.00", -20.00},
		{"negative with symbol", "-$20.00", -20.00},
		{"accounting parentheses", "(150.00)", -150.00},
		{"parentheses with symbol", "($1,000.00)", -1000.00},
		{"euro", "€99.99", 99.99},
		{"pound", "£12.50", 12.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "$", "()"} {
		if _, err := ParseAmount(input); err == nil {
			t.Errorf("ParseAmount(%q): expected error", input)
		}
	}
}

func TestParseLines_USLayoutWithBalance(t *testing.T) {
	lines := []string{
		"01/05/2024 PAYROLL ACME CORP 2,500.00 3,100.00",
		"01/07/2024 CHECKCARD STARBUCKS #123 (4.75) 3,095.25",
	}

	res := New().parseLines(lines, "")
	if len(res.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d (warnings: %v)", len(res.Transactions), res.Warnings)
	}

	first := res.Transactions[0]
	if first.Amount != 2500.00 {
		t.Errorf("expected amount 2500.00, got %v", first.Amount)
	}
	if first.Balance == nil || *first.Balance != 3100.00 {
		t.Errorf("expected balance 3100.00, got %v", first.Balance)
	}
	if first.Date.Month() != 1 || first.Date.Day() != 5 {
		t.Errorf("unexpected date: %v", first.Date)
	}

	second := res.Transactions[1]
	if second.Amount != -4.75 {
		t.Errorf("expected parenthesized amount -4.75, got %v", second.Amount)
	}
}

func TestParseLines_EuropeanDateOrder(t *testing.T) {
	res := New().parseLines([]string{"05-03-2024 CARD PAYMENT TESCO 12.00"}, "hsbc")
	if len(res.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(res.Transactions))
	}
	tx := res.Transactions[0]
	if tx.Date.Day() != 5 || tx.Date.Month() != 3 {
		t.Errorf("expected day-first date 5 March, got %v", tx.Date)
	}
}

func TestParseLines_MultiLineDescriptionMerged(t *testing.T) {
	lines := []string{
		"01/05/2024 ACH DEBIT BIG SUPPLIER -300.00",
		"INVOICE 2024-0042 CONTINUED",
	}

	res := New().parseLines(lines, "")
	if len(res.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(res.Transactions))
	}
	if !strings.Contains(res.Transactions[0].Description, "INVOICE 2024-0042") {
		t.Errorf("continuation line not merged: %q", res.Transactions[0].Description)
	}
}

func TestParseLines_NoiseBecomesWarning(t *testing.T) {
	lines := []string{
		"Beginning Balance 1,000.00",
		"01/05/2024 DEPOSIT 200.00",
		"Page 1 of 3",
	}

	res := New().parseLines(lines, "")
	if len(res.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(res.Transactions))
	}
	if len(res.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d: %v", len(res.Warnings), res.Warnings)
	}
}

func TestOrderForHint_PromotesHintedBank(t *testing.T) {
	table := defaultHeuristics()
	ordered := orderForHint(table, "HSBC UK")
	if ordered[0].bank != "hsbc" {
		t.Errorf("expected hsbc heuristics first, got %q", ordered[0].name)
	}
	if ordered[len(ordered)-1].name != "generic" {
		t.Errorf("expected generic heuristic last, got %q", ordered[len(ordered)-1].name)
	}
}

func TestTruncate_KeepsRuneBoundaries(t *testing.T) {
	s := "CAFÉ MÜNCHEN £12.00"
	for n := 0; n <= len(s); n++ {
		got := truncate(s, n)
		if len(got) > n {
			t.Fatalf("truncate(%q, %d) returned %d bytes", s, n, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) = %q is not valid UTF-8", s, n, got)
		}
		if !strings.HasPrefix(s, got) {
			t.Fatalf("truncate(%q, %d) = %q is not a prefix", s, n, got)
		}
	}
	if got := truncate(s, len(s)+5); got != s {
		t.Errorf("truncate beyond length must return input unchanged, got %q", got)
	}
}

func TestDetectBank(t *testing.T) {
	if got := detectBank("WELLS FARGO BANK, N.A. Statement of Account"); got != "Wells Fargo" {
		t.Errorf("expected Wells Fargo, got %q", got)
	}
	if got := detectBank("no fingerprints here"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestFindMaskedAccount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Account Number: 000123456789", "****6789"},
		{"Account #: XXXX-XXXX-1234", "****1234"},
		{"no account here", ""},
	}
	for _, tt := range tests {
		if got := findMaskedAccount(tt.input); got != tt.want {
			t.Errorf("findMaskedAccount(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
