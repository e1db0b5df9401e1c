package screener

// Recommendation is the headline buy/hold/avoid call.
type Recommendation string

const (
	StrongBuy Recommendation = "Strong Buy"
	Buy       Recommendation = "Buy"
	Hold      Recommendation = "Hold"
	WeakHold  Recommendation = "Weak Hold"
	Avoid     Recommendation = "Avoid"
)

// InvestmentSummary is the investment scorer output. Same lifecycle as
// RiskAssessment: derived, recomputed wholesale on input change.
type InvestmentSummary struct {
	Score          float64        `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	Strengths      []string       `json:"strengths"`
	Considerations []string       `json:"considerations"`
}

const maxListed = 3

// ScoreInvestment derives the investment view from the risk score and the
// extracted ratios: 100 minus risk, plus yield and profitability bonuses,
// clamped to [0,100]. Strength and consideration rules are evaluated
// independently in declaration order and the lists truncated to three for
// display.
func ScoreInvestment(risk RiskAssessment, r Ratios) InvestmentSummary {
	score := 100 - risk.Score

	yield := r.DividendYieldPct.Or(0)
	switch {
	case yield >= 4:
		score += 10
	case yield >= 2:
		score += 5
	}

	roe := r.ROEPct.Or(0)
	switch {
	case roe >= 15:
		score += 10
	case roe >= 10:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	strengths := []string{}
	if yield >= 4 {
		strengths = append(strengths, "High dividend yield")
	}
	if roe >= 15 {
		strengths = append(strengths, "Strong profitability")
	}
	if payout := r.PayoutRatioPct.Or(0); payout > 0 && payout <= 60 {
		strengths = append(strengths, "Conservative payout ratio")
	}
	if r.CurrentRatio.Or(0) >= 1.5 {
		strengths = append(strengths, "Strong liquidity")
	}

	considerations := []string{}
	if r.PERatio.Or(0) > 25 {
		considerations = append(considerations, "High valuation")
	}
	if yield > 0 && yield < 2 {
		considerations = append(considerations, "Low dividend yield")
	}
	if r.DebtToEquity.Or(0) > 1 {
		considerations = append(considerations, "High debt levels")
	}

	if len(strengths) > maxListed {
		strengths = strengths[:maxListed]
	}
	if len(considerations) > maxListed {
		considerations = considerations[:maxListed]
	}

	return InvestmentSummary{
		Score:          score,
		Recommendation: recommend(score),
		Strengths:      strengths,
		Considerations: considerations,
	}
}

// recommend buckets the score. Buckets are non-overlapping and cover the
// whole 0-100 range.
func recommend(score float64) Recommendation {
	switch {
	case score >= 80:
		return StrongBuy
	case score >= 70:
		return Buy
	case score >= 60:
		return Hold
	case score >= 50:
		return WeakHold
	default:
		return Avoid
	}
}
