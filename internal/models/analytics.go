package models

// MonthlySummary represents income and expense totals for one month
type MonthlySummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// CashFlowPoint is one month of a cash-flow trend
type CashFlowPoint struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// NetWorthPoint is the user's net worth at the end of one month
type NetWorthPoint struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	NetWorth float64 `json:"net_worth"`
}

// DebtSummary aggregates the user's open debt across loans
type DebtSummary struct {
	TotalDebt     float64 `json:"total_debt"`     // sum of latest remaining balances
	PrincipalPaid float64 `json:"principal_paid"` // via direct installment payments
	InterestPaid  float64 `json:"interest_paid"`
	ExtraPaid     float64 `json:"extra_paid"` // applied principal prepayments
}
