package forecast

// SelectModel returns the result for the requested model key, defaulting to
// the ensemble when the key is empty. Returns nil when the model is absent or
// produced an empty forecast; it never substitutes a different model. The
// caller renders nil as a "no forecast data available" state.
func SelectModel(results map[string]*ForecastResult, key string) *ForecastResult {
	if key == "" {
		key = ModelEnsemble
	}
	res, ok := results[key]
	if !ok || res == nil || len(res.Forecast) == 0 {
		return nil
	}
	return res
}
