package ingest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mnordin/dividash/internal/models"
)

// getDecimal safely converts a reported string value to a decimal.
// Returns nil for empty, "None", "-", and unparseable values.
func getDecimal(s string) *decimal.Decimal {
	if s == "" || s == "None" || s == "-" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// getTime parses a reported YYYY-MM-DD date. Returns nil when absent or
// malformed.
func getTime(s string) *time.Time {
	if s == "" || s == "None" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// reportDecimal reads one field of a statement report map.
func reportDecimal(report map[string]string, key string) *decimal.Decimal {
	return getDecimal(report[key])
}

// ParseOverview converts a raw OVERVIEW payload into a company snapshot.
func ParseOverview(resp *OverviewResponse) *models.CompanyOverview {
	return &models.CompanyOverview{
		Symbol:           resp.Symbol,
		Name:             resp.Name,
		Sector:           resp.Sector,
		Industry:         resp.Industry,
		MarketCap:        getDecimal(resp.MarketCap),
		PERatio:          getDecimal(resp.PERatio),
		DividendYield:    getDecimal(resp.DividendYield),
		DividendPerShare: getDecimal(resp.DividendPerShare),
		EPS:              getDecimal(resp.EPS),
		PayoutRatio:      getDecimal(resp.PayoutRatio),
		ReturnOnEquity:   getDecimal(resp.ReturnOnEquityTTM),
		FetchedAt:        time.Now().UTC(),
	}
}

// ParseBalanceSheets converts raw balance-sheet reports into entries,
// preserving the provider's most-recent-first order. period selects annual or
// quarterly reports.
func ParseBalanceSheets(resp *StatementResponse, period string) []models.BalanceSheetEntry {
	reports := resp.AnnualReports
	if period == "quarterly" {
		reports = resp.QuarterlyReports
	}

	entries := make([]models.BalanceSheetEntry, 0, len(reports))
	for _, report := range reports {
		fiscalDate := getTime(report["fiscalDateEnding"])
		if fiscalDate == nil {
			continue
		}
		entries = append(entries, models.BalanceSheetEntry{
			Symbol:             resp.Symbol,
			FiscalDate:         *fiscalDate,
			Period:             period,
			TotalAssets:        reportDecimal(report, "totalAssets"),
			TotalLiabilities:   reportDecimal(report, "totalLiabilities"),
			TotalEquity:        reportDecimal(report, "totalShareholderEquity"),
			TotalDebt:          reportDecimal(report, "shortLongTermDebtTotal"),
			CashAndEquivalents: reportDecimal(report, "cashAndCashEquivalentsAtCarryingValue"),
			CurrentAssets:      reportDecimal(report, "totalCurrentAssets"),
			CurrentLiabilities: reportDecimal(report, "totalCurrentLiabilities"),
		})
	}
	return entries
}

// ParseCashFlows converts raw cash-flow reports into entries. Free cash flow
// is derived as operating cash flow minus capex when both are reported.
func ParseCashFlows(resp *StatementResponse, period string) []models.CashFlowEntry {
	reports := resp.AnnualReports
	if period == "quarterly" {
		reports = resp.QuarterlyReports
	}

	entries := make([]models.CashFlowEntry, 0, len(reports))
	for _, report := range reports {
		fiscalDate := getTime(report["fiscalDateEnding"])
		if fiscalDate == nil {
			continue
		}
		e := models.CashFlowEntry{
			Symbol:             resp.Symbol,
			FiscalDate:         *fiscalDate,
			Period:             period,
			OperatingCashflow:  reportDecimal(report, "operatingCashflow"),
			CapitalExpenditure: reportDecimal(report, "capitalExpenditures"),
			DividendPayout:     reportDecimal(report, "dividendPayout"),
		}
		if e.OperatingCashflow != nil && e.CapitalExpenditure != nil {
			fcf := e.OperatingCashflow.Sub(*e.CapitalExpenditure)
			e.FreeCashflow = &fcf
		}
		entries = append(entries, e)
	}
	return entries
}

// ParseDividends converts raw dividend rows into events, skipping rows
// without an ex-date or amount. The pay date falls back to the ex-date when
// unreported.
func ParseDividends(resp *DividendsResponse) []models.Dividend {
	out := make([]models.Dividend, 0, len(resp.Data))
	for _, row := range resp.Data {
		exDate := getTime(row.ExDividendDate)
		amount := getDecimal(row.Amount)
		if exDate == nil || amount == nil {
			continue
		}
		payDate := getTime(row.PaymentDate)
		if payDate == nil {
			payDate = exDate
		}
		out = append(out, models.Dividend{
			Symbol:  resp.Symbol,
			ExDate:  *exDate,
			PayDate: *payDate,
			Amount:  *amount,
		})
	}
	return out
}
