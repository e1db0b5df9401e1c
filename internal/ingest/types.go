package ingest

// Raw response shapes from the Alpha Vantage-style fundamentals API. Every
// numeric field arrives as a string ("None" or "-" when unreported); the
// parser converts them to typed rows.

// OverviewResponse is the raw OVERVIEW payload.
type OverviewResponse struct {
	Symbol            string `json:"Symbol"`
	Name              string `json:"Name"`
	Sector            string `json:"Sector"`
	Industry          string `json:"Industry"`
	MarketCap         string `json:"MarketCapitalization"`
	PERatio           string `json:"PERatio"`
	DividendYield     string `json:"DividendYield"`
	DividendPerShare  string `json:"DividendPerShare"`
	EPS               string `json:"EPS"`
	PayoutRatio       string `json:"PayoutRatio"`
	ReturnOnEquityTTM string `json:"ReturnOnEquityTTM"`
}

// StatementResponse is the raw BALANCE_SHEET or CASH_FLOW payload: one list
// of reports per period granularity, most recent first.
type StatementResponse struct {
	Symbol           string              `json:"symbol"`
	AnnualReports    []map[string]string `json:"annualReports"`
	QuarterlyReports []map[string]string `json:"quarterlyReports"`
}

// DividendsResponse is the raw DIVIDENDS payload.
type DividendsResponse struct {
	Symbol string        `json:"symbol"`
	Data   []DividendRow `json:"data"`
}

// DividendRow is one dividend event as reported.
type DividendRow struct {
	ExDividendDate string `json:"ex_dividend_date"`
	PaymentDate    string `json:"payment_date"`
	Amount         string `json:"amount"`
}

// errorEnvelope catches the provider's in-band error and throttle notes,
// which come back with HTTP 200.
type errorEnvelope struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}
