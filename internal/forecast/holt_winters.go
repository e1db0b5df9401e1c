package forecast

import (
	"math"

	"github.com/mnordin/dividash/internal/models"
)

// seasonLength is the dividend seasonality period. Payout calendars repeat
// yearly, so the season is twelve months.
const seasonLength = 12

// HoltWinters is additive triple exponential smoothing with a yearly season.
// Needs two full seasons of history to initialize.
type HoltWinters struct {
	Alpha, Beta, Gamma float64
}

func (HoltWinters) Name() string    { return ModelHoltWinters }
func (HoltWinters) MinHistory() int { return MinHistoryMonths[ModelHoltWinters] }

func (hw HoltWinters) Forecast(history []models.MonthlyIncome, months int) (*ForecastResult, error) {
	if err := validateHistory(history, hw.MinHistory()); err != nil {
		return nil, err
	}

	alpha, beta, gamma := hw.Alpha, hw.Beta, hw.Gamma
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.3
	}
	if beta <= 0 || beta >= 1 {
		beta = 0.1
	}
	if gamma <= 0 || gamma >= 1 {
		gamma = 0.2
	}

	values := make([]float64, len(history))
	for i, m := range history {
		values[i] = m.Total
	}

	// Initialize from the first two seasons: level is the first-season mean,
	// trend the per-month change between season means, seasonals the
	// first-season deviations from its mean.
	var mean1, mean2 float64
	for i := 0; i < seasonLength; i++ {
		mean1 += values[i]
		mean2 += values[seasonLength+i]
	}
	mean1 /= seasonLength
	mean2 /= seasonLength

	level := mean1
	trend := (mean2 - mean1) / seasonLength
	seasonal := make([]float64, seasonLength)
	for i := 0; i < seasonLength; i++ {
		seasonal[i] = values[i] - mean1
	}

	var sumSqErr float64
	var nErr int
	for i := seasonLength; i < len(values); i++ {
		s := i % seasonLength
		pred := level + trend + seasonal[s]
		err := values[i] - pred
		sumSqErr += err * err
		nErr++

		prevLevel := level
		level = alpha*(values[i]-seasonal[s]) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		seasonal[s] = gamma*(values[i]-level) + (1-gamma)*seasonal[s]
	}
	sd := math.Sqrt(sumSqErr / float64(nErr))

	start := forecastStart(history)
	points := make([]ForecastPoint, months)
	for h := 0; h < months; h++ {
		s := (len(values) + h) % seasonLength
		pred := level + trend*float64(h+1) + seasonal[s]
		if pred < 0 {
			pred = 0
		}
		spread := 1.96 * sd * math.Sqrt(float64(h+1))
		lower := math.Max(0, pred-spread)
		upper := pred + spread
		points[h] = ForecastPoint{
			Date:       start.AddDate(0, h, 0),
			Predicted:  pred,
			LowerBound: &lower,
			UpperBound: &upper,
		}
	}

	return finalize(&ForecastResult{
		ModelName:  ModelHoltWinters,
		Forecast:   points,
		Historical: toHistoryPoints(history),
	}), nil
}
