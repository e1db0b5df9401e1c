package forecast

import (
	"github.com/mnordin/dividash/internal/models"
)

// blendEnsemble averages the member models' predictions per horizon step into
// a single blended forecast. The confidence band is the envelope of the
// members: lowest lower bound to highest upper bound, falling back to a
// member's prediction when it carries no band. Returns nil when there are no
// members.
func blendEnsemble(members []*ForecastResult, history []models.MonthlyIncome) *ForecastResult {
	if len(members) == 0 {
		return nil
	}

	// Blend over the shortest member horizon so every step has full
	// membership.
	horizon := len(members[0].Forecast)
	for _, m := range members[1:] {
		if len(m.Forecast) < horizon {
			horizon = len(m.Forecast)
		}
	}
	if horizon == 0 {
		return nil
	}

	points := make([]ForecastPoint, horizon)
	for h := 0; h < horizon; h++ {
		var sum float64
		lower := memberLower(members[0].Forecast[h])
		upper := memberUpper(members[0].Forecast[h])
		for _, m := range members {
			p := m.Forecast[h]
			sum += p.Predicted
			if l := memberLower(p); l < lower {
				lower = l
			}
			if u := memberUpper(p); u > upper {
				upper = u
			}
		}
		lo, up := lower, upper
		points[h] = ForecastPoint{
			Date:       members[0].Forecast[h].Date,
			Predicted:  sum / float64(len(members)),
			LowerBound: &lo,
			UpperBound: &up,
		}
	}

	return finalize(&ForecastResult{
		ModelName:  ModelEnsemble,
		Forecast:   points,
		Historical: toHistoryPoints(history),
	})
}

func memberLower(p ForecastPoint) float64 {
	if p.LowerBound != nil {
		return *p.LowerBound
	}
	return p.Predicted
}

func memberUpper(p ForecastPoint) float64 {
	if p.UpperBound != nil {
		return *p.UpperBound
	}
	return p.Predicted
}
