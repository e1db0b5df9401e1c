package screener

// RiskLevel buckets a risk score for display.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskFactors are the per-dimension sub-scores behind an assessment, each on
// a 0-100 scale. Absent when upstream fundamentals are incomplete.
type RiskFactors struct {
	PayoutRisk     float64 `json:"payout_risk"`
	LeverageRisk   float64 `json:"leverage_risk"`
	CoverageRisk   float64 `json:"coverage_risk"`
	YieldRisk      float64 `json:"yield_risk"`
	ValuationRisk  float64 `json:"valuation_risk"`
	VolatilityRisk float64 `json:"volatility_risk"`
}

// RiskSubScores expands the ratios into per-dimension 0-100 sub-scores for
// the factor breakdown chart. Returns nil when every input ratio is
// unavailable. The volatility dimension needs price history the scorer is not
// fed, so it stays at the neutral zero.
func RiskSubScores(r Ratios) *RiskFactors {
	if !r.PayoutRatioPct.Known && !r.DebtToEquity.Known && !r.CurrentRatio.Known &&
		!r.DividendYieldPct.Known && !r.PERatio.Known {
		return nil
	}

	f := &RiskFactors{
		PayoutRisk:    clamp01x100(r.PayoutRatioPct.Or(0) / 100),
		LeverageRisk:  clamp01x100(r.DebtToEquity.Or(0) / 2),
		YieldRisk:     clamp01x100(r.DividendYieldPct.Or(0) / 10),
		ValuationRisk: clamp01x100(r.PERatio.Or(0) / 40),
	}
	// Liquidity coverage: a current ratio of 2 or better scores zero risk,
	// zero scores full risk.
	if cr := r.CurrentRatio.Or(0); cr > 0 {
		f.CoverageRisk = clamp01x100(1 - cr/2)
	}
	return f
}

func clamp01x100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 100
	}
	return v * 100
}

// RiskAssessment is the scorer output. Derived, never persisted; recomputed
// whenever the inputs change.
type RiskAssessment struct {
	Score   float64   `json:"score"`
	Level   RiskLevel `json:"level"`
	Grade   string    `json:"grade,omitempty"`
	Factors []string  `json:"factors"`
}

// AssessRisk applies the additive threshold rules to the extracted ratios.
// Rules are evaluated payout, leverage, liquidity, valuation; each triggered
// rule contributes its points and appends one factor string in that order,
// which is the presentation order of the factor list. An unavailable ratio is
// treated as zero so its rules never trigger. The score is the raw additive
// sum, not clamped.
func AssessRisk(r Ratios) RiskAssessment {
	var score float64
	var factors []string

	switch payout := r.PayoutRatioPct.Or(0); {
	case payout > 80:
		score += 20
		factors = append(factors, "Very high payout ratio")
	case payout > 60:
		score += 10
		factors = append(factors, "Elevated payout ratio")
	}

	switch de := r.DebtToEquity.Or(0); {
	case de > 1.5:
		score += 20
		factors = append(factors, "High debt-to-equity ratio")
	case de > 1.0:
		score += 10
		factors = append(factors, "Elevated debt-to-equity ratio")
	}

	switch cr := r.CurrentRatio.Or(0); {
	case cr > 0 && cr < 1.0:
		score += 15
		factors = append(factors, "Current liabilities exceed current assets")
	case cr > 0 && cr < 1.2:
		score += 8
		factors = append(factors, "Thin liquidity cushion")
	}

	if r.PERatio.Or(0) > 30 {
		score += 10
		factors = append(factors, "High valuation multiple")
	}

	if factors == nil {
		factors = []string{}
	}

	return RiskAssessment{
		Score:   score,
		Level:   riskLevel(score),
		Grade:   riskGrade(score),
		Factors: factors,
	}
}

// riskLevel maps a score to its band. Boundaries are strict: a score of
// exactly 20 is still Low, exactly 40 still Medium.
func riskLevel(score float64) RiskLevel {
	switch {
	case score > 40:
		return RiskHigh
	case score > 20:
		return RiskMedium
	default:
		return RiskLow
	}
}

// riskGrade assigns a letter grade within the level bands.
func riskGrade(score float64) string {
	switch {
	case score <= 10:
		return "A"
	case score <= 20:
		return "B"
	case score <= 40:
		return "C"
	case score <= 55:
		return "D"
	default:
		return "F"
	}
}
