package forecast

import (
	"fmt"
	"log"

	"github.com/mnordin/dividash/internal/models"
)

// Provider is one pluggable forecasting model. Implementations are pure
// functions of the history passed in; the engine handles availability gating.
type Provider interface {
	Name() string
	// MinHistory is the number of monthly observations the model needs to
	// produce a usable forecast.
	MinHistory() int
	Forecast(history []models.MonthlyIncome, months int) (*ForecastResult, error)
}

// Engine runs every registered provider over a monthly income history and
// blends the available results into an ensemble.
type Engine struct {
	providers []Provider
}

// NewEngine creates an engine with the given providers. NewDefaultEngine
// registers the built-in models.
func NewEngine(providers ...Provider) *Engine {
	return &Engine{providers: providers}
}

// NewDefaultEngine registers the models this binary implements natively.
// SARIMAX and Prophet forecasts come from an external provider when one is
// registered; they are simply absent otherwise.
func NewDefaultEngine() *Engine {
	return NewEngine(
		SimpleAverage{},
		Theta{},
		HoltWinters{},
	)
}

// Run produces the per-model result map. A provider that lacks history or
// fails is omitted from the map, never substituted. The ensemble entry is
// present whenever at least one member model produced a forecast.
func (e *Engine) Run(history []models.MonthlyIncome, months int) map[string]*ForecastResult {
	results := make(map[string]*ForecastResult, len(e.providers)+1)
	if months <= 0 {
		return results
	}

	var members []*ForecastResult
	for _, p := range e.providers {
		if len(history) < p.MinHistory() {
			continue
		}
		res, err := p.Forecast(history, months)
		if err != nil {
			log.Printf("forecast model %s failed: %v", p.Name(), err)
			continue
		}
		if res == nil || len(res.Forecast) == 0 {
			continue
		}
		results[p.Name()] = res
		members = append(members, res)
	}

	if ens := blendEnsemble(members, history); ens != nil {
		results[ModelEnsemble] = ens
	}

	return results
}

// validateHistory is shared by providers that cannot work with gaps.
func validateHistory(history []models.MonthlyIncome, min int) error {
	if len(history) < min {
		return fmt.Errorf("need at least %d months of history, have %d", min, len(history))
	}
	return nil
}
