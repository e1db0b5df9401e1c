package screener

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/mnordin/dividash/internal/models"
)

// Ratio is an optional ratio value. Upstream fundamentals are frequently
// incomplete, so "unavailable" is modeled explicitly instead of overloading
// zero. An unavailable ratio marshals as JSON null so the UI can render a
// placeholder.
type Ratio struct {
	Value float64
	Known bool
}

// Known wraps a present ratio value.
func Known(v float64) Ratio {
	return Ratio{Value: v, Known: true}
}

// Unavailable is the absent ratio.
var Unavailable = Ratio{}

// Or returns the ratio value, or def when the ratio is unavailable.
func (r Ratio) Or(def float64) float64 {
	if !r.Known {
		return def
	}
	return r.Value
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Known {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Unavailable
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Known(v)
	return nil
}

// Ratios are the normalized inputs to the risk and investment scorers.
// Percentages are expressed on a 0-100 scale.
type Ratios struct {
	PayoutRatioPct   Ratio `json:"payout_ratio_pct"`
	CurrentRatio     Ratio `json:"current_ratio"`
	DebtToEquity     Ratio `json:"debt_to_equity"`
	ROEPct           Ratio `json:"roe_pct"`
	DividendYieldPct Ratio `json:"dividend_yield_pct"`
	PERatio          Ratio `json:"pe_ratio"`
}

// ExtractRatios normalizes a company snapshot plus its latest statements into
// scorer inputs. Each ratio prefers the directly-reported field, falls back to
// deriving from components when the denominator is positive, and is otherwise
// unavailable. Never divides by zero, never errors.
func ExtractRatios(overview *models.CompanyOverview, balance *models.BalanceSheetEntry, cashflow *models.CashFlowEntry) Ratios {
	var r Ratios

	if overview != nil {
		r.PayoutRatioPct = fractionPct(overview.PayoutRatio)
		r.ROEPct = fractionPct(overview.ReturnOnEquity)
		r.DividendYieldPct = fractionPct(overview.DividendYield)
		r.PERatio = fromDecimal(overview.PERatio)

		// Payout fallback: dividend per share over earnings per share.
		if !r.PayoutRatioPct.Known {
			r.PayoutRatioPct = ratioOf(overview.DividendPerShare, overview.EPS, 100)
		}
	}

	if balance != nil {
		r.CurrentRatio = fromDecimal(balance.CurrentRatio)
		if !r.CurrentRatio.Known {
			r.CurrentRatio = ratioOf(balance.CurrentAssets, balance.CurrentLiabilities, 1)
		}

		r.DebtToEquity = fromDecimal(balance.DebtToEquity)
		if !r.DebtToEquity.Known {
			r.DebtToEquity = ratioOf(balance.TotalDebt, balance.TotalEquity, 1)
		}
	}

	// Payout fallback from the cash-flow statement: dividends paid over free
	// cash flow, the coverage-style payout used when earnings data is missing.
	if !r.PayoutRatioPct.Known && cashflow != nil {
		r.PayoutRatioPct = ratioOf(cashflow.DividendPayout, cashflow.FreeCashflow, 100)
	}

	return r
}

// fromDecimal converts an optional decimal field to a Ratio.
func fromDecimal(d *decimal.Decimal) Ratio {
	if d == nil {
		return Unavailable
	}
	return Known(d.InexactFloat64())
}

// fractionPct converts a provider-reported fraction (0.35) to a percentage
// ratio (35).
func fractionPct(d *decimal.Decimal) Ratio {
	if d == nil {
		return Unavailable
	}
	return Known(d.InexactFloat64() * 100)
}

// ratioOf divides num by den, scaled, guarding the denominator.
func ratioOf(num, den *decimal.Decimal, scale float64) Ratio {
	if num == nil || den == nil {
		return Unavailable
	}
	d := den.InexactFloat64()
	if d <= 0 {
		return Unavailable
	}
	return Known(num.InexactFloat64() / d * scale)
}
