package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// amountToken matches a monetary value with optional currency symbol,
// thousands separators, leading minus, or accounting-style parentheses.
const amountToken = `\(?-?[$£€]?[\d,]+\.\d{2}\)?`

// layoutHeuristic is one entry in the ordered layout table. Bank-specific
// layouts are tried before the generic one; within a bank, the richer
// pattern (with balance column) is tried first.
type layoutHeuristic struct {
	name        string
	bank        string // lowercase bank name, "" for generic
	pattern     *regexp.Regexp
	dateLayouts []string
	hasBalance  bool
}

func defaultHeuristics() []layoutHeuristic {
	return []layoutHeuristic{
		{
			name:        "us-slash-balance",
			bank:        "chase",
			pattern:     regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+(` + amountToken + `)\s+(` + amountToken + `)$`),
			dateLayouts: []string{"01/02/2006"},
			hasBalance:  true,
		},
		{
			name:        "us-slash",
			bank:        "chase",
			pattern:     regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+(` + amountToken + `)$`),
			dateLayouts: []string{"01/02/2006"},
		},
		{
			name:        "eu-dash-balance",
			bank:        "hsbc",
			pattern:     regexp.MustCompile(`^(\d{1,2}-\d{1,2}-\d{4})\s+(.+?)\s+(` + amountToken + `)\s+(` + amountToken + `)$`),
			dateLayouts: []string{"02-01-2006"},
			hasBalance:  true,
		},
		{
			name:        "eu-dash",
			bank:        "hsbc",
			pattern:     regexp.MustCompile(`^(\d{1,2}-\d{1,2}-\d{4})\s+(.+?)\s+(` + amountToken + `)$`),
			dateLayouts: []string{"02-01-2006"},
		},
		{
			name:        "text-date-balance",
			bank:        "wells fargo",
			pattern:     regexp.MustCompile(`^((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},\s+\d{4})\s+(.+?)\s+(` + amountToken + `)\s+(` + amountToken + `)$`),
			dateLayouts: []string{"Jan 2, 2006", "January 2, 2006"},
			hasBalance:  true,
		},
		{
			name:        "text-date",
			bank:        "wells fargo",
			pattern:     regexp.MustCompile(`^((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},\s+\d{4})\s+(.+?)\s+(` + amountToken + `)$`),
			dateLayouts: []string{"Jan 2, 2006", "January 2, 2006"},
		},
		{
			name:        "generic",
			pattern:     regexp.MustCompile(`^(\S+(?:\s\d{1,2},\s+\d{4})?)\s+(.+?)\s+(` + amountToken + `)$`),
			dateLayouts: []string{"01/02/2006", "02-01-2006", "2006-01-02", "Jan 2, 2006"},
		},
	}
}

// orderForHint moves heuristics for the hinted bank to the front while
// keeping the relative order of everything else (generic stays last).
func orderForHint(table []layoutHeuristic, bankHint string) []layoutHeuristic {
	hint := strings.ToLower(strings.TrimSpace(bankHint))
	if hint == "" {
		return table
	}
	ordered := make([]layoutHeuristic, 0, len(table))
	var rest []layoutHeuristic
	for _, h := range table {
		if h.bank != "" && strings.Contains(hint, h.bank) {
			ordered = append(ordered, h)
		} else {
			rest = append(rest, h)
		}
	}
	return append(ordered, rest...)
}

// tryLine attempts to extract a transaction from one line. Both the date
// and the amount must parse for the heuristic to claim the line.
func (h layoutHeuristic) tryLine(line string) (domain.RawTransaction, bool) {
	m := h.pattern.FindStringSubmatch(line)
	if m == nil {
		return domain.RawTransaction{}, false
	}

	date, ok := parseDate(m[1], h.dateLayouts)
	if !ok {
		return domain.RawTransaction{}, false
	}
	amount, err := ParseAmount(m[3])
	if err != nil {
		return domain.RawTransaction{}, false
	}

	tx := domain.RawTransaction{
		Date:        date,
		Description: strings.TrimSpace(m[2]),
		Amount:      amount,
	}
	if h.hasBalance && len(m) > 4 {
		if bal, err := ParseAmount(m[4]); err == nil {
			tx.Balance = &bal
		}
	}
	return tx, true
}

// ParseAmount converts an amount token like "1,234.56", "-$20.00" or
// "(150.00)" to a signed float. Accounting-style parentheses mean negative.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	for _, sym := range []string{"$", "£", "€", ",", " ", " "} {
		s = strings.ReplaceAll(s, sym, "")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if negative {
		v = -v
	}
	return v, nil
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var leadingDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{2,4}\b`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`^(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},\s+\d{2,4}\b`),
}

// startsWithDate reports whether a line begins with a recognized date
// encoding. Continuation lines never do.
func startsWithDate(line string) bool {
	for _, pat := range leadingDatePatterns {
		if pat.MatchString(line) {
			return true
		}
	}
	return false
}

// noisePhrases mark headers, footers and summary rows that should never
// be merged into a transaction description.
var noisePhrases = []string{
	"beginning balance", "ending balance", "balance brought forward",
	"balance carried forward", "total deposits", "total withdrawals",
	"statement period", "page ", "member fdic", "customer service",
}

func isNoiseLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "date") && strings.Contains(lower, "description") {
		return true
	}
	for _, phrase := range noisePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// bankIdentifiers maps text fingerprints to display names, used when no
// bank hint was supplied.
var bankIdentifiers = []struct {
	needle string
	name   string
}{
	{"chase", "Chase"},
	{"wells fargo", "Wells Fargo"},
	{"bank of america", "Bank of America"},
	{"hsbc", "HSBC"},
	{"barclays", "Barclays"},
	{"citibank", "Citibank"},
}

func detectBank(text string) string {
	lower := strings.ToLower(text)
	for _, id := range bankIdentifiers {
		if strings.Contains(lower, id.needle) {
			return id.name
		}
	}
	return ""
}

var accountNumberPattern = regexp.MustCompile(`(?i)account\s*(?:number|no\.?|#)?[:\s]+([\dXx*-]{6,})`)

// findMaskedAccount locates an account identifier and masks all but the
// last four characters.
func findMaskedAccount(text string) string {
	m := accountNumberPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m[1])
	if len(digits) < 4 {
		return ""
	}
	return "****" + digits[len(digits)-4:]
}
