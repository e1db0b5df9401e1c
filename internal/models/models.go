package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Sector    string    `json:"sector"`
	Industry  string    `json:"industry"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyOverview is a point-in-time fundamentals snapshot for a symbol.
// It is immutable once fetched and replaced wholesale on an explicit re-fetch.
// Nil fields were not reported by the provider.
type CompanyOverview struct {
	Symbol           string           `json:"symbol"`
	Name             string           `json:"name"`
	Sector           string           `json:"sector"`
	Industry         string           `json:"industry"`
	MarketCap        *decimal.Decimal `json:"market_cap"`
	PERatio          *decimal.Decimal `json:"pe_ratio"`
	DividendYield    *decimal.Decimal `json:"dividend_yield"`
	DividendPerShare *decimal.Decimal `json:"dividend_per_share"`
	EPS              *decimal.Decimal `json:"eps"`
	PayoutRatio      *decimal.Decimal `json:"payout_ratio"`
	ReturnOnEquity   *decimal.Decimal `json:"return_on_equity"`
	FetchedAt        time.Time        `json:"fetched_at"`
}

// BalanceSheetEntry is one periodic balance-sheet report. Statements are
// ordered by fiscal date descending; index 0 is authoritative for current
// ratios.
type BalanceSheetEntry struct {
	Symbol             string           `json:"symbol"`
	FiscalDate         time.Time        `json:"fiscal_date"`
	Period             string           `json:"period"` // annual, quarterly
	TotalAssets        *decimal.Decimal `json:"total_assets"`
	TotalLiabilities   *decimal.Decimal `json:"total_liabilities"`
	TotalEquity        *decimal.Decimal `json:"total_equity"`
	TotalDebt          *decimal.Decimal `json:"total_debt"`
	CashAndEquivalents *decimal.Decimal `json:"cash_and_equivalents"`
	CurrentAssets      *decimal.Decimal `json:"current_assets"`
	CurrentLiabilities *decimal.Decimal `json:"current_liabilities"`
	CurrentRatio       *decimal.Decimal `json:"current_ratio"`
	DebtToEquity       *decimal.Decimal `json:"debt_to_equity"`
}

// CashFlowEntry is one periodic cash-flow report.
type CashFlowEntry struct {
	Symbol             string           `json:"symbol"`
	FiscalDate         time.Time        `json:"fiscal_date"`
	Period             string           `json:"period"`
	OperatingCashflow  *decimal.Decimal `json:"operating_cashflow"`
	CapitalExpenditure *decimal.Decimal `json:"capital_expenditure"`
	FreeCashflow       *decimal.Decimal `json:"free_cashflow"`
	DividendPayout     *decimal.Decimal `json:"dividend_payout"`
}

// Dividend is a single per-share cash dividend event.
type Dividend struct {
	Symbol  string          `json:"symbol"`
	ExDate  time.Time       `json:"ex_date"`
	PayDate time.Time       `json:"pay_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// Holding is a portfolio position. Monthly dividend income is shares times
// the per-share dividend amount, summed across holdings.
type Holding struct {
	Symbol    string          `json:"symbol"`
	Shares    decimal.Decimal `json:"shares"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MonthlyIncome is the portfolio's total dividend income for one calendar
// month, keyed by the first day of that month.
type MonthlyIncome struct {
	Month time.Time `json:"month"`
	Total float64   `json:"total"`
}
