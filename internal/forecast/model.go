package forecast

import (
	"time"

	"github.com/mnordin/dividash/internal/models"
)

// Model name keys as they appear in the API result map.
const (
	ModelEnsemble      = "ensemble"
	ModelSARIMAX       = "sarimax"
	ModelHoltWinters   = "holt_winters"
	ModelProphet       = "prophet"
	ModelTheta         = "theta"
	ModelSimpleAverage = "simple_average"
)

// MinHistoryMonths is the advisory minimum history, in months, each model
// needs before its forecasts are considered usable. The engine omits a model
// that falls short; consumers of the result map never see a gated-out model.
var MinHistoryMonths = map[string]int{
	ModelSARIMAX:       12,
	ModelProphet:       12,
	ModelHoltWinters:   24,
	ModelTheta:         6,
	ModelSimpleAverage: 0,
}

// ForecastPoint is one predicted month, with an optional confidence band.
type ForecastPoint struct {
	Date       time.Time `json:"date"`
	Predicted  float64   `json:"predicted"`
	LowerBound *float64  `json:"lower_bound,omitempty"`
	UpperBound *float64  `json:"upper_bound,omitempty"`
}

// HistoryPoint is one observed month.
type HistoryPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// AnnualProjection is the summed forecast for one calendar year.
type AnnualProjection struct {
	Year  int     `json:"year"`
	Total float64 `json:"total"`
}

// ForecastResult is the standard shape every model provider returns.
type ForecastResult struct {
	ModelName         string             `json:"model_name"`
	Forecast          []ForecastPoint    `json:"forecast"`
	Historical        []HistoryPoint     `json:"historical"`
	TotalProjected    float64            `json:"total_projected"`
	MonthlyAverage    float64            `json:"monthly_average"`
	AnnualProjections []AnnualProjection `json:"annual_projections"`
}

// CurrentPeriodTracking is the in-progress month's partial income, shown
// between history and forecast.
type CurrentPeriodTracking struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	IsPartial bool      `json:"is_partial"`
}

// toHistoryPoints copies the engine input into the result shape.
func toHistoryPoints(history []models.MonthlyIncome) []HistoryPoint {
	pts := make([]HistoryPoint, len(history))
	for i, m := range history {
		pts[i] = HistoryPoint{Date: m.Month, Value: m.Total}
	}
	return pts
}

// finalize fills the derived aggregates of a result from its forecast points.
func finalize(res *ForecastResult) *ForecastResult {
	var total float64
	byYear := map[int]float64{}
	years := []int{}
	for _, p := range res.Forecast {
		total += p.Predicted
		y := p.Date.Year()
		if _, seen := byYear[y]; !seen {
			years = append(years, y)
		}
		byYear[y] += p.Predicted
	}
	res.TotalProjected = total
	if n := len(res.Forecast); n > 0 {
		res.MonthlyAverage = total / float64(n)
	}
	res.AnnualProjections = make([]AnnualProjection, 0, len(years))
	for _, y := range years {
		res.AnnualProjections = append(res.AnnualProjections, AnnualProjection{Year: y, Total: byYear[y]})
	}
	return res
}

// nextMonth returns the first day of the month following t.
func nextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
