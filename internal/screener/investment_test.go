package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreInvestment_CleanProfile(t *testing.T) {
	// Risk 0 (payout 40, d/e 0.3, current 2.0, pe 18), yield 3.1 and
	// ROE 18 add +5 and +10: 100 - 0 + 15 clamps to 100, Strong Buy.
	r := Ratios{
		PayoutRatioPct:   Known(40),
		DebtToEquity:     Known(0.3),
		CurrentRatio:     Known(2.0),
		PERatio:          Known(18),
		DividendYieldPct: Known(3.1),
		ROEPct:           Known(18),
	}
	risk := AssessRisk(r)
	require.Equal(t, 0.0, risk.Score)

	inv := ScoreInvestment(risk, r)

	assert.Equal(t, 100.0, inv.Score)
	assert.Equal(t, StrongBuy, inv.Recommendation)
	assert.Equal(t, []string{"Strong profitability", "Conservative payout ratio", "Strong liquidity"}, inv.Strengths)
	assert.Empty(t, inv.Considerations)
}

func TestScoreInvestment_RiskyProfile(t *testing.T) {
	r := Ratios{
		PayoutRatioPct:   Known(85),
		DebtToEquity:     Known(1.8),
		CurrentRatio:     Known(0.9),
		PERatio:          Known(32),
		DividendYieldPct: Known(1.5),
	}
	risk := AssessRisk(r)
	require.Equal(t, 65.0, risk.Score)

	inv := ScoreInvestment(risk, r)

	// 100 - 65, no bonuses (yield under 2, ROE unknown).
	assert.Equal(t, 35.0, inv.Score)
	assert.Equal(t, Avoid, inv.Recommendation)
	assert.Empty(t, inv.Strengths)
	assert.Equal(t, []string{"High valuation", "Low dividend yield", "High debt levels"}, inv.Considerations)
}

func TestScoreInvestment_Bonuses(t *testing.T) {
	tests := []struct {
		name  string
		yield float64
		roe   float64
		want  float64
	}{
		{"both top tier", 4.5, 16, 90},
		{"both lower tier", 2.5, 12, 80},
		{"yield only", 4.0, 0, 80},
		{"no bonuses", 1.0, 5, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Ratios{
				DividendYieldPct: Known(tt.yield),
				ROEPct:           Known(tt.roe),
			}
			// A risk score of 30 keeps the base at 70 so bonuses are visible.
			risk := RiskAssessment{Score: 30}
			inv := ScoreInvestment(risk, r)
			assert.Equal(t, tt.want, inv.Score)
		})
	}
}

func TestScoreInvestment_ClampedToHundred(t *testing.T) {
	r := Ratios{
		DividendYieldPct: Known(5),
		ROEPct:           Known(20),
	}
	inv := ScoreInvestment(RiskAssessment{Score: 0}, r)
	assert.Equal(t, 100.0, inv.Score)
}

func TestRecommend_BucketsExhaustive(t *testing.T) {
	tests := []struct {
		score float64
		want  Recommendation
	}{
		{100, StrongBuy},
		{80, StrongBuy},
		{79.9, Buy},
		{70, Buy},
		{69.9, Hold},
		{60, Hold},
		{59.9, WeakHold},
		{50, WeakHold},
		{49.9, Avoid},
		{0, Avoid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, recommend(tt.score), "score %v", tt.score)
	}
}

func TestScoreInvestment_TruncatesLists(t *testing.T) {
	// All four strength rules fire; only the first three are listed.
	r := Ratios{
		PayoutRatioPct:   Known(50),
		CurrentRatio:     Known(2.0),
		DividendYieldPct: Known(4.5),
		ROEPct:           Known(20),
	}
	inv := ScoreInvestment(RiskAssessment{Score: 0}, r)

	assert.Equal(t, []string{"High dividend yield", "Strong profitability", "Conservative payout ratio"}, inv.Strengths)
}

func TestScoreInvestment_Idempotent(t *testing.T) {
	r := Ratios{
		PayoutRatioPct:   Known(70),
		DebtToEquity:     Known(1.2),
		DividendYieldPct: Known(2.5),
	}
	risk := AssessRisk(r)

	first := ScoreInvestment(risk, r)
	second := ScoreInvestment(risk, r)
	assert.Equal(t, first, second)
}
