package screener

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnordin/dividash/internal/models"
)

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestExtractRatios_DirectFields(t *testing.T) {
	overview := &models.CompanyOverview{
		Symbol:         "KO",
		PayoutRatio:    dec(0.72),
		ReturnOnEquity: dec(0.42),
		DividendYield:  dec(0.031),
		PERatio:        dec(24.5),
		FetchedAt:      time.Now(),
	}
	balance := &models.BalanceSheetEntry{
		CurrentRatio: dec(1.13),
		DebtToEquity: dec(1.62),
	}

	r := ExtractRatios(overview, balance, nil)

	assert.InDelta(t, 72, r.PayoutRatioPct.Value, 1e-9)
	assert.InDelta(t, 42, r.ROEPct.Value, 1e-9)
	assert.InDelta(t, 3.1, r.DividendYieldPct.Value, 1e-9)
	assert.InDelta(t, 24.5, r.PERatio.Value, 1e-9)
	assert.InDelta(t, 1.13, r.CurrentRatio.Value, 1e-9)
	assert.InDelta(t, 1.62, r.DebtToEquity.Value, 1e-9)
}

func TestExtractRatios_DerivedFromComponents(t *testing.T) {
	overview := &models.CompanyOverview{
		Symbol:           "JNJ",
		DividendPerShare: dec(4.76),
		EPS:              dec(9.52),
	}
	balance := &models.BalanceSheetEntry{
		TotalDebt:          dec(300),
		TotalEquity:        dec(600),
		CurrentAssets:      dec(500),
		CurrentLiabilities: dec(400),
	}

	r := ExtractRatios(overview, balance, nil)

	require.True(t, r.PayoutRatioPct.Known)
	assert.InDelta(t, 50, r.PayoutRatioPct.Value, 1e-9)
	require.True(t, r.DebtToEquity.Known)
	assert.InDelta(t, 0.5, r.DebtToEquity.Value, 1e-9)
	require.True(t, r.CurrentRatio.Known)
	assert.InDelta(t, 1.25, r.CurrentRatio.Value, 1e-9)
}

func TestExtractRatios_ZeroDenominatorUnavailable(t *testing.T) {
	overview := &models.CompanyOverview{
		Symbol:           "X",
		DividendPerShare: dec(2),
		EPS:              dec(0),
	}
	balance := &models.BalanceSheetEntry{
		TotalDebt:   dec(300),
		TotalEquity: dec(0),
	}

	r := ExtractRatios(overview, balance, nil)

	assert.False(t, r.PayoutRatioPct.Known)
	assert.False(t, r.DebtToEquity.Known)
	assert.False(t, r.CurrentRatio.Known)
}

func TestExtractRatios_CashFlowPayoutFallback(t *testing.T) {
	overview := &models.CompanyOverview{Symbol: "X"}
	cashflow := &models.CashFlowEntry{
		DividendPayout: dec(40),
		FreeCashflow:   dec(100),
	}

	r := ExtractRatios(overview, nil, cashflow)

	require.True(t, r.PayoutRatioPct.Known)
	assert.InDelta(t, 40, r.PayoutRatioPct.Value, 1e-9)
}

func TestExtractRatios_NilInputs(t *testing.T) {
	r := ExtractRatios(nil, nil, nil)

	assert.False(t, r.PayoutRatioPct.Known)
	assert.False(t, r.CurrentRatio.Known)
	assert.False(t, r.DebtToEquity.Known)
	assert.False(t, r.ROEPct.Known)
	assert.False(t, r.DividendYieldPct.Known)
	assert.False(t, r.PERatio.Known)
}

func TestRatio_JSONRoundTrip(t *testing.T) {
	// Unavailable marshals as null so the UI can show a placeholder
	// instead of a fake zero.
	data, err := json.Marshal(Ratios{PERatio: Known(18.5)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pe_ratio":18.5`)
	assert.Contains(t, string(data), `"payout_ratio_pct":null`)

	var back Ratios
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Known(18.5), back.PERatio)
	assert.False(t, back.PayoutRatioPct.Known)
}

func TestRatio_Or(t *testing.T) {
	assert.Equal(t, 1.5, Known(1.5).Or(0))
	assert.Equal(t, 0.0, Unavailable.Or(0))
	assert.Equal(t, 7.0, Unavailable.Or(7))
}
