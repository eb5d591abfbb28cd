package categorize

import "strings"

// CategoryRule maps a description keyword to a category and optional tags.
// The table is ordered; the first matching rule wins, so specific keywords
// ("NSF FEE") come before broad ones ("FEE").
type CategoryRule struct {
	Keyword  string
	Category string
	Tags     []string
}

// defaultRules covers the high-frequency patterns a statement produces.
// Everything the table misses goes to the remote classifier.
func defaultRules() []CategoryRule {
	return []CategoryRule{
		{Keyword: "NSF FEE", Category: "bank_fee", Tags: []string{"fee:nsf"}},
		{Keyword: "INSUFFICIENT FUNDS", Category: "bank_fee", Tags: []string{"fee:nsf"}},
		{Keyword: "RETURNED ITEM FEE", Category: "bank_fee", Tags: []string{"fee:nsf"}},
		{Keyword: "UNPAID ITEM FEE", Category: "bank_fee", Tags: []string{"fee:nsf"}},
		{Keyword: "OVERDRAFT FEE", Category: "bank_fee", Tags: []string{"fee:overdraft"}},
		{Keyword: "OD FEE", Category: "bank_fee", Tags: []string{"fee:overdraft"}},
		{Keyword: "MONTHLY SERVICE FEE", Category: "bank_fee"},
		{Keyword: "MAINTENANCE FEE", Category: "bank_fee"},
		{Keyword: "WIRE FEE", Category: "bank_fee"},
		{Keyword: "ATM FEE", Category: "bank_fee"},

		{Keyword: "PAYROLL", Category: "income", Tags: []string{"income:payroll"}},
		{Keyword: "DIRECT DEP", Category: "income", Tags: []string{"income:payroll"}},
		{Keyword: "DIRECT DEPOSIT", Category: "income", Tags: []string{"income:payroll"}},
		{Keyword: "SALARY", Category: "income", Tags: []string{"income:payroll"}},
		{Keyword: "SSA TREAS", Category: "income", Tags: []string{"income:benefits"}},
		{Keyword: "IRS TREAS", Category: "income", Tags: []string{"income:refund"}},
		{Keyword: "TAX REF", Category: "income", Tags: []string{"income:refund"}},

		{Keyword: "TRANSFER TO", Category: "transfer"},
		{Keyword: "TRANSFER FROM", Category: "transfer"},
		{Keyword: "ONLINE TRANSFER", Category: "transfer"},
		{Keyword: "ZELLE", Category: "transfer"},
		{Keyword: "VENMO", Category: "transfer"},
		{Keyword: "WIRE TRANSFER", Category: "transfer"},

		{Keyword: "ATM WITHDRAWAL", Category: "cash"},
		{Keyword: "CASH WITHDRAWAL", Category: "cash"},
		{Keyword: "CASH DEPOSIT", Category: "cash"},

		{Keyword: "MORTGAGE", Category: "housing"},
		{Keyword: "RENT", Category: "housing"},
		{Keyword: "ELECTRIC", Category: "utilities"},
		{Keyword: "WATER UTIL", Category: "utilities"},
		{Keyword: "GAS COMPANY", Category: "utilities"},
		{Keyword: "INTERNET", Category: "utilities"},
		{Keyword: "COMCAST", Category: "utilities"},
		{Keyword: "VERIZON", Category: "utilities"},

		{Keyword: "INSURANCE", Category: "insurance"},
		{Keyword: "GEICO", Category: "insurance"},
		{Keyword: "STATE FARM", Category: "insurance"},

		{Keyword: "LOAN PMT", Category: "loan_payment"},
		{Keyword: "LOAN PAYMENT", Category: "loan_payment"},
		{Keyword: "AUTO PAY", Category: "loan_payment"},

		{Keyword: "GROCERY", Category: "groceries"},
		{Keyword: "SUPERMARKET", Category: "groceries"},
		{Keyword: "WHOLE FOODS", Category: "groceries"},
		{Keyword: "WALMART", Category: "groceries"},
		{Keyword: "COSTCO", Category: "groceries"},

		{Keyword: "RESTAURANT", Category: "dining"},
		{Keyword: "STARBUCKS", Category: "dining"},
		{Keyword: "MCDONALD", Category: "dining"},
		{Keyword: "UBER EATS", Category: "dining"},
		{Keyword: "DOORDASH", Category: "dining"},

		{Keyword: "AMAZON", Category: "shopping"},
		{Keyword: "TARGET", Category: "shopping"},

		{Keyword: "NETFLIX", Category: "subscriptions"},
		{Keyword: "SPOTIFY", Category: "subscriptions"},
		{Keyword: "SUBSCRIPTION", Category: "subscriptions"},

		{Keyword: "FUEL", Category: "transport"},
		{Keyword: "SHELL", Category: "transport"},
		{Keyword: "EXXON", Category: "transport"},
		{Keyword: "UBER", Category: "transport"},
		{Keyword: "LYFT", Category: "transport"},

		{Keyword: "INTEREST PAID", Category: "interest"},
		{Keyword: "INTEREST EARNED", Category: "interest"},
	}
}

// matchRule returns the first rule whose keyword occurs in the normalized
// description.
func matchRule(rules []CategoryRule, normalizedDesc string) (CategoryRule, bool) {
	upper := strings.ToUpper(normalizedDesc)
	for _, r := range rules {
		if strings.Contains(upper, r.Keyword) {
			return r, true
		}
	}
	return CategoryRule{}, false
}
