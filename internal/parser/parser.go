// Package parser turns raw statement document bytes into an ordered
// sequence of raw transaction candidates. It is deliberately tolerant:
// lines it cannot understand become warnings, and only a document that
// yields no transactions at all fails the parse.
package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// Result is the parser output: transaction candidates in document order
// plus whatever document metadata could be recovered.
type Result struct {
	Transactions  []domain.RawTransaction
	BankName      string
	AccountMasked string
	Warnings      []domain.ParseWarning
}

// Parser extracts transaction candidates from statement documents.
// A bank hint (from the upload form) promotes that bank's layout
// heuristics to the front of the table.
type Parser struct {
	heuristics []layoutHeuristic
}

// New creates a parser with the built-in layout heuristic table.
func New() *Parser {
	return &Parser{heuristics: defaultHeuristics()}
}

// Parse dispatches on the declared document format. The upload layer has
// already enforced size/type limits; bytes are trusted to be the claimed
// document type, but their content is not.
func (p *Parser) Parse(data []byte, format domain.DocumentFormat, bankHint string) (*Result, error) {
	switch format {
	case domain.FormatPDF:
		return p.parsePDF(data, bankHint)
	case domain.FormatCSV:
		return p.parseCSV(data, bankHint)
	default:
		return nil, domain.NewParseError(domain.ParseUnsupportedFormat, nil, nil)
	}
}

// parsePDF extracts the text layer and runs the line heuristics over it.
func (p *Parser) parsePDF(data []byte, bankHint string) (*Result, error) {
	pages, err := extractPDFText(data)
	if err != nil {
		return nil, err
	}

	text := strings.Join(pages, "\n")
	res := p.parseLines(strings.Split(text, "\n"), bankHint)
	if len(res.Transactions) == 0 {
		return nil, domain.NewParseError(domain.ParseNoTransactionsFound, res.Warnings, nil)
	}

	if res.BankName == "" {
		res.BankName = detectBank(text)
	}
	if res.AccountMasked == "" {
		res.AccountMasked = findMaskedAccount(text)
	}
	return res, nil
}

// parseLines runs the ordered heuristic table over each line. The first
// heuristic that yields a plausible transaction (date parses, amount
// parses) wins for that line. Lines without a leading date are merged
// into the previous transaction's description; everything else becomes
// a warning.
func (p *Parser) parseLines(lines []string, bankHint string) *Result {
	res := &Result{BankName: strings.TrimSpace(bankHint)}
	heuristics := orderForHint(p.heuristics, bankHint)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isNoiseLine(line) {
			res.Warnings = append(res.Warnings, domain.ParseWarning{
				Line: i + 1, Text: truncate(line, 80), Reason: "skipped non-transaction line",
			})
			continue
		}

		matched := false
		for _, h := range heuristics {
			tx, ok := h.tryLine(line)
			if !ok {
				continue
			}
			tx.Line = i + 1
			res.Transactions = append(res.Transactions, tx)
			matched = true
			break
		}
		if matched {
			continue
		}

		// Multi-line descriptions continue until the next date+amount line.
		if !startsWithDate(line) && len(res.Transactions) > 0 {
			last := &res.Transactions[len(res.Transactions)-1]
			last.Description += " " + line
			continue
		}

		res.Warnings = append(res.Warnings, domain.ParseWarning{
			Line: i + 1, Text: truncate(line, 80), Reason: "no layout heuristic matched",
		})
	}

	return res
}

// truncate shortens warning text to at most n bytes without splitting a
// multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
