package forecast

import (
	"math"
	"time"

	"github.com/mnordin/dividash/internal/models"
)

// simpleAverageWindow is how many trailing months the flat projection
// averages over.
const simpleAverageWindow = 12

// SimpleAverage projects the trailing-window mean flat across the horizon.
// Always available; it is the floor model when history is too short for
// anything else.
type SimpleAverage struct{}

func (SimpleAverage) Name() string    { return ModelSimpleAverage }
func (SimpleAverage) MinHistory() int { return MinHistoryMonths[ModelSimpleAverage] }

func (SimpleAverage) Forecast(history []models.MonthlyIncome, months int) (*ForecastResult, error) {
	window := history
	if len(window) > simpleAverageWindow {
		window = window[len(window)-simpleAverageWindow:]
	}

	var mean, sd float64
	if len(window) > 0 {
		for _, m := range window {
			mean += m.Total
		}
		mean /= float64(len(window))
		for _, m := range window {
			sd += (m.Total - mean) * (m.Total - mean)
		}
		sd = math.Sqrt(sd / float64(len(window)))
	}

	start := forecastStart(history)
	points := make([]ForecastPoint, months)
	for h := 0; h < months; h++ {
		lower := math.Max(0, mean-1.96*sd)
		upper := mean + 1.96*sd
		points[h] = ForecastPoint{
			Date:       start.AddDate(0, h, 0),
			Predicted:  mean,
			LowerBound: &lower,
			UpperBound: &upper,
		}
	}

	return finalize(&ForecastResult{
		ModelName:  ModelSimpleAverage,
		Forecast:   points,
		Historical: toHistoryPoints(history),
	}), nil
}

// forecastStart is the first forecast month: the month after the last
// observation, or the coming month when there is no history at all.
func forecastStart(history []models.MonthlyIncome) time.Time {
	if len(history) == 0 {
		now := time.Now().UTC()
		return nextMonth(now)
	}
	return nextMonth(history[len(history)-1].Month)
}
