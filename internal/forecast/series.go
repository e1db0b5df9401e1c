package forecast

import (
	"sort"
	"time"
)

// SeriesEntry is one point of the assembled display series. Exactly one of
// Actual, Tracking, Forecast is set; Lower/Upper only accompany Forecast.
type SeriesEntry struct {
	Date     time.Time `json:"date"`
	Actual   *float64  `json:"actual,omitempty"`
	Tracking *float64  `json:"tracking,omitempty"`
	Forecast *float64  `json:"forecast,omitempty"`
	Lower    *float64  `json:"lower,omitempty"`
	Upper    *float64  `json:"upper,omitempty"`
}

// AssembleSeries merges a model result's history and forecast with an
// optional current-period tracking point into one chronological series.
// History entries carry only Actual, the tracking entry only Tracking, and
// forecast entries only Forecast plus bounds. With lookback 0 the full series
// is returned; otherwise only the last lookback+horizon entries, preserving
// order.
func AssembleSeries(res *ForecastResult, tracking *CurrentPeriodTracking, lookback, horizon int) []SeriesEntry {
	if res == nil {
		return nil
	}

	entries := make([]SeriesEntry, 0, len(res.Historical)+len(res.Forecast)+1)

	for _, h := range res.Historical {
		v := h.Value
		entries = append(entries, SeriesEntry{Date: h.Date, Actual: &v})
	}

	if tracking != nil {
		v := tracking.Value
		entries = append(entries, SeriesEntry{Date: tracking.Date, Tracking: &v})
	}

	for _, p := range res.Forecast {
		v := p.Predicted
		e := SeriesEntry{Date: p.Date, Forecast: &v}
		if p.LowerBound != nil {
			l := *p.LowerBound
			e.Lower = &l
		}
		if p.UpperBound != nil {
			u := *p.UpperBound
			e.Upper = &u
		}
		entries = append(entries, e)
	}

	// Inputs are already ordered within themselves; the stable sort only has
	// to interleave the tracking point correctly.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	if lookback > 0 {
		keep := lookback + horizon
		if keep < len(entries) {
			entries = entries[len(entries)-keep:]
		}
	}

	return entries
}

// ChartPoint is a plain coordinate for a connected chart line.
type ChartPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ForecastPolyline builds the forecast line's coordinates, anchored to the
// last actual so the rendered line connects to history. This is a rendering
// concern: the anchor is prepended here only and never appears as a logical
// forecast entry in the series.
func ForecastPolyline(series []SeriesEntry) []ChartPoint {
	var line []ChartPoint
	var lastActual *SeriesEntry
	for i := range series {
		if series[i].Actual != nil {
			lastActual = &series[i]
		}
	}
	for _, e := range series {
		if e.Forecast == nil {
			continue
		}
		if len(line) == 0 && lastActual != nil {
			line = append(line, ChartPoint{Date: lastActual.Date, Value: *lastActual.Actual})
		}
		line = append(line, ChartPoint{Date: e.Date, Value: *e.Forecast})
	}
	return line
}
