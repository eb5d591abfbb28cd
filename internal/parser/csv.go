package parser

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// columnMap holds the resolved column index per field; -1 means absent.
type columnMap struct {
	date        int
	description int
	amount      int
	debit       int
	credit      int
	balance     int
}

var csvDateLayouts = []string{"01/02/2006", "02-01-2006", "2006-01-02", "Jan 2, 2006"}

// parseCSV maps rows to transactions using a header-driven column map,
// falling back to positional assumption (date, description, amount,
// balance) when no header row is present.
func (p *Parser) parseCSV(data []byte, bankHint string) (*Result, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil && err != io.EOF {
		return nil, domain.NewParseError(domain.ParseCorruptDocument, nil, err)
	}
	if len(records) == 0 {
		return nil, domain.NewParseError(domain.ParseNoTextContent, nil, nil)
	}

	res := &Result{BankName: strings.TrimSpace(bankHint)}

	cols, hasHeader := detectColumns(records[0])
	start := 0
	if hasHeader {
		start = 1
	}

	for i := start; i < len(records); i++ {
		row := records[i]
		tx, warn := mapRow(row, cols)
		if warn != "" {
			res.Warnings = append(res.Warnings, domain.ParseWarning{
				Line: i + 1, Text: truncate(strings.Join(row, ","), 80), Reason: warn,
			})
			continue
		}
		tx.Line = i + 1
		res.Transactions = append(res.Transactions, tx)
	}

	if len(res.Transactions) == 0 {
		return nil, domain.NewParseError(domain.ParseNoTransactionsFound, res.Warnings, nil)
	}
	return res, nil
}

// detectColumns resolves field columns by header name. When the first row
// has no recognizable header names it is assumed to be data and positional
// columns are used instead.
func detectColumns(header []string) (columnMap, bool) {
	cols := columnMap{date: -1, description: -1, amount: -1, debit: -1, credit: -1, balance: -1}
	found := false

	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.date < 0 && (strings.Contains(name, "date") || strings.Contains(name, "posted")):
			cols.date = i
			found = true
		case cols.description < 0 && (strings.Contains(name, "description") || strings.Contains(name, "details") ||
			strings.Contains(name, "memo") || strings.Contains(name, "payee")):
			cols.description = i
			found = true
		case cols.debit < 0 && (strings.Contains(name, "debit") || strings.Contains(name, "withdrawal") ||
			strings.Contains(name, "money out")):
			cols.debit = i
			found = true
		case cols.credit < 0 && (strings.Contains(name, "credit") || strings.Contains(name, "deposit") ||
			strings.Contains(name, "money in")):
			cols.credit = i
			found = true
		case cols.amount < 0 && strings.Contains(name, "amount"):
			cols.amount = i
			found = true
		case cols.balance < 0 && strings.Contains(name, "balance"):
			cols.balance = i
			found = true
		}
	}

	if !found {
		// Positional fallback: date, description, amount, optional balance.
		cols = columnMap{date: 0, description: 1, amount: 2, debit: -1, credit: -1, balance: 3}
	}
	return cols, found
}

func mapRow(row []string, cols columnMap) (domain.RawTransaction, string) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	date, ok := parseDate(field(cols.date), csvDateLayouts)
	if !ok {
		return domain.RawTransaction{}, "unparsable date"
	}

	tx := domain.RawTransaction{
		Date:        date,
		Description: field(cols.description),
	}

	// Separate debit/credit columns carry unsigned amounts; the column of
	// origin determines the transaction type downstream.
	switch {
	case field(cols.debit) != "":
		amt, err := ParseAmount(field(cols.debit))
		if err != nil {
			return domain.RawTransaction{}, "unparsable debit amount"
		}
		if amt < 0 {
			amt = -amt
		}
		tx.Amount = amt
		tx.FromDebitColumn = true
	case field(cols.credit) != "":
		amt, err := ParseAmount(field(cols.credit))
		if err != nil {
			return domain.RawTransaction{}, "unparsable credit amount"
		}
		if amt < 0 {
			amt = -amt
		}
		tx.Amount = amt
		tx.FromCreditColumn = true
	default:
		amt, err := ParseAmount(field(cols.amount))
		if err != nil {
			return domain.RawTransaction{}, "unparsable amount"
		}
		tx.Amount = amt
	}

	if bal := field(cols.balance); bal != "" {
		if b, err := ParseAmount(bal); err == nil {
			tx.Balance = &b
		}
	}
	return tx, ""
}
