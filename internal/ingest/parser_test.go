package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{"123.45", strPtr("123.45")},
		{"0", strPtr("0")},
		{"-52000000", strPtr("-52000000")},
		{"", nil},
		{"None", nil},
		{"-", nil},
		{"n/a", nil},
	}
	for _, tt := range tests {
		got := getDecimal(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, *tt.want, got.String())
	}
}

func strPtr(s string) *string { return &s }

func TestGetTime(t *testing.T) {
	got := getTime("2024-09-30")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, getTime(""))
	assert.Nil(t, getTime("None"))
	assert.Nil(t, getTime("09/30/2024"))
}

func TestParseOverview(t *testing.T) {
	resp := &OverviewResponse{
		Symbol:            "KO",
		Name:              "Coca-Cola Co",
		Sector:            "CONSUMER DEFENSIVE",
		Industry:          "Beverages",
		MarketCap:         "268000000000",
		PERatio:           "24.5",
		DividendYield:     "0.031",
		DividendPerShare:  "1.94",
		EPS:               "2.47",
		PayoutRatio:       "0.74",
		ReturnOnEquityTTM: "0.42",
	}

	ov := ParseOverview(resp)

	assert.Equal(t, "KO", ov.Symbol)
	assert.Equal(t, "Coca-Cola Co", ov.Name)
	require.NotNil(t, ov.PayoutRatio)
	assert.True(t, ov.PayoutRatio.Equal(decimal.NewFromFloat(0.74)))
	require.NotNil(t, ov.ReturnOnEquity)
	assert.True(t, ov.ReturnOnEquity.Equal(decimal.NewFromFloat(0.42)))
	assert.False(t, ov.FetchedAt.IsZero())
}

func TestParseOverview_MissingFields(t *testing.T) {
	ov := ParseOverview(&OverviewResponse{Symbol: "NEWCO", PERatio: "None", EPS: "-"})

	assert.Nil(t, ov.PERatio)
	assert.Nil(t, ov.EPS)
	assert.Nil(t, ov.MarketCap)
}

func TestParseBalanceSheets(t *testing.T) {
	resp := &StatementResponse{
		Symbol: "KO",
		AnnualReports: []map[string]string{
			{
				"fiscalDateEnding":                      "2024-12-31",
				"totalAssets":                           "100000",
				"totalShareholderEquity":                "40000",
				"shortLongTermDebtTotal":                "30000",
				"totalCurrentAssets":                    "25000",
				"totalCurrentLiabilities":               "20000",
				"cashAndCashEquivalentsAtCarryingValue": "9000",
			},
			{
				"fiscalDateEnding": "2023-12-31",
				"totalAssets":      "None",
			},
			{
				// No fiscal date, row is dropped.
				"totalAssets": "90000",
			},
		},
		QuarterlyReports: []map[string]string{
			{"fiscalDateEnding": "2025-03-31", "totalAssets": "101000"},
		},
	}

	annual := ParseBalanceSheets(resp, "annual")
	require.Len(t, annual, 2)
	assert.Equal(t, "KO", annual[0].Symbol)
	assert.Equal(t, "annual", annual[0].Period)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), annual[0].FiscalDate)
	require.NotNil(t, annual[0].TotalDebt)
	assert.True(t, annual[0].TotalDebt.Equal(decimal.NewFromInt(30000)))
	require.NotNil(t, annual[0].CurrentLiabilities)
	assert.Nil(t, annual[1].TotalAssets)

	quarterly := ParseBalanceSheets(resp, "quarterly")
	require.Len(t, quarterly, 1)
	assert.Equal(t, "quarterly", quarterly[0].Period)
}

func TestParseCashFlows(t *testing.T) {
	resp := &StatementResponse{
		Symbol: "KO",
		AnnualReports: []map[string]string{
			{
				"fiscalDateEnding":    "2024-12-31",
				"operatingCashflow":   "11000",
				"capitalExpenditures": "2000",
				"dividendPayout":      "8000",
			},
			{
				"fiscalDateEnding":  "2023-12-31",
				"operatingCashflow": "10500",
				// No capex reported: free cash flow stays unset.
			},
		},
	}

	entries := ParseCashFlows(resp, "annual")
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].FreeCashflow)
	assert.True(t, entries[0].FreeCashflow.Equal(decimal.NewFromInt(9000)))
	require.NotNil(t, entries[0].DividendPayout)

	assert.Nil(t, entries[1].FreeCashflow)
	require.NotNil(t, entries[1].OperatingCashflow)
}

func TestParseDividends(t *testing.T) {
	resp := &DividendsResponse{
		Symbol: "KO",
		Data: []DividendRow{
			{ExDividendDate: "2024-11-29", PaymentDate: "2024-12-16", Amount: "0.485"},
			// No pay date: falls back to the ex-date.
			{ExDividendDate: "2024-08-30", PaymentDate: "None", Amount: "0.485"},
			// Unusable rows are skipped.
			{ExDividendDate: "None", PaymentDate: "2024-06-14", Amount: "0.485"},
			{ExDividendDate: "2024-05-31", PaymentDate: "2024-06-14", Amount: "None"},
		},
	}

	divs := ParseDividends(resp)
	require.Len(t, divs, 2)

	assert.Equal(t, "KO", divs[0].Symbol)
	assert.Equal(t, time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC), divs[0].PayDate)
	assert.True(t, divs[0].Amount.Equal(decimal.NewFromFloat(0.485)))

	assert.Equal(t, divs[1].ExDate, divs[1].PayDate)
	assert.Equal(t, time.Date(2024, 8, 30, 0, 0, 0, 0, time.UTC), divs[1].PayDate)
}
