package forecast

import (
	"math"

	"github.com/mnordin/dividash/internal/models"
)

// Theta is the classic two-line theta method: the average of a simple
// exponential smoothing of the series and its linear-trend extrapolation.
type Theta struct {
	// Alpha is the SES smoothing factor. Zero means the default (0.3).
	Alpha float64
}

func (Theta) Name() string    { return ModelTheta }
func (Theta) MinHistory() int { return MinHistoryMonths[ModelTheta] }

func (t Theta) Forecast(history []models.MonthlyIncome, months int) (*ForecastResult, error) {
	if err := validateHistory(history, t.MinHistory()); err != nil {
		return nil, err
	}

	alpha := t.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.3
	}

	// SES level over the full history.
	level := history[0].Total
	var sumSqErr float64
	for _, m := range history[1:] {
		sumSqErr += (m.Total - level) * (m.Total - level)
		level = alpha*m.Total + (1-alpha)*level
	}
	sd := math.Sqrt(sumSqErr / float64(len(history)-1))

	// Least-squares slope of value against month index.
	slope := trendSlope(history)

	start := forecastStart(history)
	points := make([]ForecastPoint, months)
	for h := 0; h < months; h++ {
		// Theta blend: the drift enters at half weight.
		pred := level + slope/2*float64(h+1)
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
		ModelName:  ModelTheta,
		Forecast:   points,
		Historical: toHistoryPoints(history),
	}), nil
}

// trendSlope fits value = a + b*t by least squares and returns b, the average
// month-over-month drift.
func trendSlope(history []models.MonthlyIncome) float64 {
	n := float64(len(history))
	var sumT, sumV, sumTV, sumTT float64
	for i, m := range history {
		t := float64(i)
		sumT += t
		sumV += m.Total
		sumTV += t * m.Total
		sumTT += t * t
	}
	den := n*sumTT - sumT*sumT
	if den == 0 {
		return 0
	}
	return (n*sumTV - sumT*sumV) / den
}
