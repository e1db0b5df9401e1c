package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnordin/dividash/internal/models"
)

// monthlyHistory builds n months of income ending December 2024, generated
// as base + step*i.
func monthlyHistory(n int, base, step float64) []models.MonthlyIncome {
	end := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, -(n - 1), 0)

	history := make([]models.MonthlyIncome, n)
	for i := 0; i < n; i++ {
		history[i] = models.MonthlyIncome{
			Month: start.AddDate(0, i, 0),
			Total: base + step*float64(i),
		}
	}
	return history
}

func TestEngine_GatesOnMinHistory(t *testing.T) {
	engine := NewDefaultEngine()

	results := engine.Run(monthlyHistory(8, 100, 0), 12)

	assert.Contains(t, results, ModelSimpleAverage)
	assert.Contains(t, results, ModelTheta)
	assert.Contains(t, results, ModelEnsemble)
	// Holt-Winters needs two full seasons.
	assert.NotContains(t, results, ModelHoltWinters)
	// Nothing registers sarimax or prophet in the default engine.
	assert.NotContains(t, results, ModelSARIMAX)
	assert.NotContains(t, results, ModelProphet)
}

func TestEngine_AllModelsWithLongHistory(t *testing.T) {
	engine := NewDefaultEngine()

	results := engine.Run(monthlyHistory(36, 100, 1), 12)

	assert.Contains(t, results, ModelSimpleAverage)
	assert.Contains(t, results, ModelTheta)
	assert.Contains(t, results, ModelHoltWinters)
	assert.Contains(t, results, ModelEnsemble)
}

func TestEngine_EmptyHorizon(t *testing.T) {
	engine := NewDefaultEngine()
	assert.Empty(t, engine.Run(monthlyHistory(12, 100, 0), 0))
}

func TestEngine_NoHistoryStillHasFloorModel(t *testing.T) {
	engine := NewDefaultEngine()

	results := engine.Run(nil, 6)

	require.Contains(t, results, ModelSimpleAverage)
	require.Contains(t, results, ModelEnsemble)
	assert.Len(t, results[ModelSimpleAverage].Forecast, 6)
}

func TestSimpleAverage_FlatHistory(t *testing.T) {
	history := monthlyHistory(12, 250, 0)

	res, err := SimpleAverage{}.Forecast(history, 12)
	require.NoError(t, err)
	require.Len(t, res.Forecast, 12)

	for _, p := range res.Forecast {
		assert.InDelta(t, 250, p.Predicted, 1e-9)
		// Zero variance collapses the confidence band onto the prediction.
		require.NotNil(t, p.LowerBound)
		require.NotNil(t, p.UpperBound)
		assert.InDelta(t, 250, *p.LowerBound, 1e-9)
		assert.InDelta(t, 250, *p.UpperBound, 1e-9)
	}

	assert.InDelta(t, 3000, res.TotalProjected, 1e-9)
	assert.InDelta(t, 250, res.MonthlyAverage, 1e-9)
	assert.Len(t, res.Historical, 12)

	// First forecast month follows the last observation.
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), res.Forecast[0].Date)
}

func TestSimpleAverage_AnnualProjections(t *testing.T) {
	res, err := SimpleAverage{}.Forecast(monthlyHistory(12, 100, 0), 18)
	require.NoError(t, err)

	// Jan 2025 through Jun 2026: 12 months in 2025, 6 in 2026.
	require.Len(t, res.AnnualProjections, 2)
	assert.Equal(t, 2025, res.AnnualProjections[0].Year)
	assert.InDelta(t, 1200, res.AnnualProjections[0].Total, 1e-9)
	assert.Equal(t, 2026, res.AnnualProjections[1].Year)
	assert.InDelta(t, 600, res.AnnualProjections[1].Total, 1e-9)
}

func TestTheta_RejectsShortHistory(t *testing.T) {
	_, err := Theta{}.Forecast(monthlyHistory(3, 100, 0), 12)
	assert.Error(t, err)
}

func TestTheta_FollowsTrend(t *testing.T) {
	// Steadily growing income: the forecast should keep growing.
	res, err := Theta{}.Forecast(monthlyHistory(24, 100, 5), 12)
	require.NoError(t, err)
	require.Len(t, res.Forecast, 12)

	assert.Greater(t, res.Forecast[11].Predicted, res.Forecast[0].Predicted)
	for _, p := range res.Forecast {
		require.NotNil(t, p.LowerBound)
		require.NotNil(t, p.UpperBound)
		assert.LessOrEqual(t, *p.LowerBound, p.Predicted)
		assert.GreaterOrEqual(t, *p.UpperBound, p.Predicted)
		assert.GreaterOrEqual(t, *p.LowerBound, 0.0)
	}
}

func TestHoltWinters_PicksUpSeasonality(t *testing.T) {
	// Quarterly payers: income spikes every third month.
	history := monthlyHistory(36, 50, 0)
	for i := range history {
		if i%3 == 2 {
			history[i].Total = 350
		}
	}

	res, err := HoltWinters{}.Forecast(history, 12)
	require.NoError(t, err)
	require.Len(t, res.Forecast, 12)

	// The spike months should forecast clearly above the quiet months.
	var spikes, quiets []float64
	for h, p := range res.Forecast {
		if (36+h)%3 == 2 {
			spikes = append(spikes, p.Predicted)
		} else {
			quiets = append(quiets, p.Predicted)
		}
	}
	require.NotEmpty(t, spikes)
	require.NotEmpty(t, quiets)
	for _, s := range spikes {
		for _, q := range quiets {
			assert.Greater(t, s, q)
		}
	}
}

func TestEnsemble_BlendsMembers(t *testing.T) {
	engine := NewDefaultEngine()
	results := engine.Run(monthlyHistory(36, 200, 0), 12)

	ens := results[ModelEnsemble]
	require.NotNil(t, ens)
	require.Len(t, ens.Forecast, 12)

	// Flat history: every member predicts ~200, so the blend does too, and
	// the envelope covers every member band.
	for h, p := range ens.Forecast {
		assert.InDelta(t, 200, p.Predicted, 1.0, "step %d", h)
		require.NotNil(t, p.LowerBound)
		require.NotNil(t, p.UpperBound)
		for _, name := range []string{ModelSimpleAverage, ModelTheta, ModelHoltWinters} {
			member := results[name].Forecast[h]
			assert.LessOrEqual(t, *p.LowerBound, memberLower(member))
			assert.GreaterOrEqual(t, *p.UpperBound, memberUpper(member))
		}
	}
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewDefaultEngine()
	history := monthlyHistory(30, 120, 2)

	first := engine.Run(history, 12)
	second := engine.Run(history, 12)
	assert.Equal(t, first, second)
}
