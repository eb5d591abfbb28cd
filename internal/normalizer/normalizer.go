// Package normalizer converts raw transaction candidates into canonical
// transactions: cleaned descriptions, extracted merchant names, and an
// explicit credit/debit type. Normalization is pure and idempotent.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// cardPrefixes are processor artifacts stripped from the front of a
// description before merchant extraction. Order matters: longer prefixes
// first so "POS PURCHASE" wins over "POS".
var cardPrefixes = []string{
	"POS PURCHASE ", "POS DEBIT ", "POS ", "DEBIT CARD PURCHASE ",
	"CHECKCARD ", "CHECK CARD ", "ACH DEBIT ", "ACH CREDIT ",
	"ELECTRONIC WITHDRAWAL ", "ELECTRONIC DEPOSIT ", "ONLINE PAYMENT ",
	"RECURRING PAYMENT ", "WEB PMT ", "SQ *", "TST* ", "PAYPAL *", "PP*",
}

// knownMerchants maps a description substring to a canonical merchant name.
// First match wins.
var knownMerchants = []struct {
	needle   string
	merchant string
}{
	{"AMAZON", "Amazon"},
	{"AMZN", "Amazon"},
	{"WAL-MART", "Walmart"},
	{"WALMART", "Walmart"},
	{"STARBUCKS", "Starbucks"},
	{"NETFLIX", "Netflix"},
	{"SPOTIFY", "Spotify"},
	{"UBER EATS", "Uber Eats"},
	{"UBER", "Uber"},
	{"LYFT", "Lyft"},
	{"SHELL OIL", "Shell"},
	{"SHELL", "Shell"},
	{"EXXON", "ExxonMobil"},
	{"MCDONALD", "McDonald's"},
	{"TARGET", "Target"},
	{"COSTCO", "Costco"},
	{"WHOLE FOODS", "Whole Foods"},
	{"WHOLEFDS", "Whole Foods"},
	{"HOME DEPOT", "Home Depot"},
	{"CVS", "CVS"},
	{"WALGREENS", "Walgreens"},
	{"COMCAST", "Comcast"},
	{"VERIZON", "Verizon"},
	{"AT&T", "AT&T"},
	{"GEICO", "Geico"},
	{"STATE FARM", "State Farm"},
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	storeNumber    = regexp.MustCompile(`\s+#\d+\b`)
	refNumber      = regexp.MustCompile(`\s+(?:REF|TRACE|ID|CONF)[:#\s]*\d{4,}\b`)
	longDigitRun   = regexp.MustCompile(`\s+\d{6,}\b`)
	trailingState  = regexp.MustCompile(`\s+[A-Z][A-Za-z .'-]*\s+[A-Z]{2}$`)
	trailingDate   = regexp.MustCompile(`\s+\d{1,2}/\d{1,2}(?:/\d{2,4})?$`)
	cardNumberTail = regexp.MustCompile(`\s+[Xx*]{2,}\d{2,4}$`)
)

// Normalize converts a single raw candidate into a canonical transaction.
// The result has a cleaned description, a best-effort merchant name, and a
// type derived from the amount sign or the CSV column of origin. Category
// and tags are left for the categorization engine.
func Normalize(raw domain.RawTransaction) (domain.Transaction, error) {
	if raw.Date.IsZero() {
		return domain.Transaction{}, &domain.ErrValidation{Field: "date", Message: "missing transaction date"}
	}
	if raw.Amount == 0 && !raw.FromDebitColumn && !raw.FromCreditColumn {
		return domain.Transaction{}, &domain.ErrValidation{Field: "amount", Message: "zero amount with no column of origin"}
	}

	amount, txType, err := resolveTypeAndSign(raw)
	if err != nil {
		return domain.Transaction{}, err
	}

	cleaned := cleanDescription(raw.Description)
	if cleaned == "" {
		return domain.Transaction{}, &domain.ErrValidation{Field: "description", Message: "empty description"}
	}

	return domain.Transaction{
		Date:                  raw.Date,
		RawDescription:        raw.Description,
		NormalizedDescription: cleaned,
		Merchant:              extractMerchant(cleaned),
		Amount:                amount,
		Type:                  txType,
		Balance:               raw.Balance,
	}, nil
}

// resolveTypeAndSign fixes the canonical representation: debits are
// negative, credits positive. A signed amount coming out of a dedicated
// debit or credit column that contradicts the column is a layout
// misread and rejected.
func resolveTypeAndSign(raw domain.RawTransaction) (float64, domain.TransactionType, error) {
	switch {
	case raw.FromDebitColumn:
		if raw.Amount < 0 {
			return 0, "", &domain.ErrValidation{Field: "amount", Message: "negative amount in debit column"}
		}
		return -raw.Amount, domain.TypeDebit, nil
	case raw.FromCreditColumn:
		if raw.Amount < 0 {
			return 0, "", &domain.ErrValidation{Field: "amount", Message: "negative amount in credit column"}
		}
		return raw.Amount, domain.TypeCredit, nil
	case raw.Amount < 0:
		return raw.Amount, domain.TypeDebit, nil
	default:
		return raw.Amount, domain.TypeCredit, nil
	}
}

// cleanDescription uppercases, collapses whitespace and strips processor
// noise (reference numbers, store numbers, trailing city/state, card tails).
// Running it on already-clean input returns the input unchanged.
func cleanDescription(desc string) string {
	s := strings.ToUpper(strings.TrimSpace(desc))
	s = whitespaceRun.ReplaceAllString(s, " ")

	for _, prefix := range cardPrefixes {
		upper := strings.ToUpper(prefix)
		if strings.HasPrefix(s, upper) {
			s = strings.TrimSpace(s[len(upper):])
			break
		}
	}

	s = refNumber.ReplaceAllString(s, "")
	s = cardNumberTail.ReplaceAllString(s, "")
	s = trailingDate.ReplaceAllString(s, "")
	s = longDigitRun.ReplaceAllString(s, "")
	s = storeNumber.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractMerchant resolves a canonical merchant from the cleaned
// description. Known merchants match by substring; otherwise the leading
// words before any location suffix serve as a best-effort name.
func extractMerchant(cleaned string) string {
	for _, km := range knownMerchants {
		if strings.Contains(cleaned, km.needle) {
			return km.merchant
		}
	}

	s := trailingState.ReplaceAllString(cleaned, "")
	s = strings.TrimSpace(s)
	if s == "" {
		s = cleaned
	}

	words := strings.Fields(s)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}
