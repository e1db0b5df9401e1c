package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mnordin/dividash/internal/db"
	"github.com/mnordin/dividash/internal/fi"
	"github.com/mnordin/dividash/internal/forecast"
	"github.com/mnordin/dividash/internal/models"
)

// ForecastHandler serves dividend income forecasts and the FI calculator.
type ForecastHandler struct {
	repo   *db.Repository
	engine *forecast.Engine

	defaultMonths   int
	maxMonths       int
	defaultLookback int
	defaultSWR      float64
}

// ForecastConfig are the handler's tunables, from app config.
type ForecastConfig struct {
	DefaultMonths   int
	MaxMonths       int
	DefaultLookback int
	DefaultSWRPct   float64
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(repo *db.Repository, engine *forecast.Engine, cfg ForecastConfig) *ForecastHandler {
	return &ForecastHandler{
		repo:            repo,
		engine:          engine,
		defaultMonths:   cfg.DefaultMonths,
		maxMonths:       cfg.MaxMonths,
		defaultLookback: cfg.DefaultLookback,
		defaultSWR:      cfg.DefaultSWRPct,
	}
}

// ForecastResponse is the forecast endpoint payload. Models a consumer asked
// for but that are unavailable are simply absent from the map.
type ForecastResponse struct {
	Models               map[string]*forecast.ForecastResult `json:"models"`
	CurrentMonthTracking *forecast.CurrentPeriodTracking     `json:"current_month_tracking,omitempty"`
	Series               []forecast.SeriesEntry              `json:"series,omitempty"`
	Message              string                              `json:"message,omitempty"`
}

type forecastParams struct {
	Months   int    `query:"months" validate:"omitempty,min=1"`
	Lookback int    `query:"lookback" validate:"omitempty,min=0"`
	Model    string `query:"model" validate:"omitempty,oneof=ensemble sarimax holt_winters prophet theta simple_average"`
}

// Forecast handles GET /api/forecast/
// Query params:
// - months: forecast horizon (default from config)
// - lookback: history window for the assembled series, 0 = all
// - model: which model's series to assemble (default ensemble)
func (h *ForecastHandler) Forecast(c echo.Context) error {
	ctx := c.Request().Context()

	params := forecastParams{Months: h.defaultMonths, Lookback: h.defaultLookback}
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
	}
	if err := c.Validate(&params); err != nil {
		return err
	}
	if params.Months > h.maxMonths {
		params.Months = h.maxMonths
	}

	income, err := h.repo.MonthlyDividendIncome(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to load income history: %v", err),
		})
	}

	history, tracking := splitCurrentMonth(income, time.Now().UTC())

	results := h.engine.Run(history, params.Months)

	resp := ForecastResponse{
		Models:               results,
		CurrentMonthTracking: tracking,
	}

	selected := forecast.SelectModel(results, params.Model)
	if selected == nil {
		resp.Message = "no forecast data available"
		return c.JSON(http.StatusOK, resp)
	}

	resp.Series = forecast.AssembleSeries(selected, tracking, params.Lookback, params.Months)
	return c.JSON(http.StatusOK, resp)
}

type fiParams struct {
	MonthlyGoal float64 `query:"monthly_goal" validate:"required,gt=0"`
	SWR         float64 `query:"swr" validate:"omitempty,gt=0,lte=20"`
}

// FICalculator handles GET /api/forecast/fi-calculator
// Query params:
// - monthly_goal: target monthly expenses (required)
// - swr: annual safe withdrawal rate percent (default from config)
func (h *ForecastHandler) FICalculator(c echo.Context) error {
	ctx := c.Request().Context()

	var params fiParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
	}
	if err := c.Validate(&params); err != nil {
		return err
	}
	if params.SWR == 0 {
		params.SWR = h.defaultSWR
	}

	income, err := h.repo.MonthlyDividendIncome(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to load income history: %v", err),
		})
	}

	history, _ := splitCurrentMonth(income, time.Now().UTC())
	avg, growth := incomeStats(history)

	plan := fi.Calculate(fi.Input{
		MonthlyExpenses:       params.MonthlyGoal,
		SafeWithdrawalRatePct: params.SWR,
		CurrentMonthlyAvg:     avg,
		AnnualGrowthRatePct:   growth,
	})

	return c.JSON(http.StatusOK, plan)
}

// splitCurrentMonth separates the in-progress month from the completed
// history. A partial month would bias every model low, so it becomes the
// tracking point instead of a model input.
func splitCurrentMonth(income []models.MonthlyIncome, now time.Time) ([]models.MonthlyIncome, *forecast.CurrentPeriodTracking) {
	if len(income) == 0 {
		return income, nil
	}

	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := income[len(income)-1]
	if !last.Month.Equal(currentMonth) {
		return income, nil
	}

	return income[:len(income)-1], &forecast.CurrentPeriodTracking{
		Date:      last.Month,
		Value:     last.Total,
		IsPartial: true,
	}
}

// incomeStats derives the FI inputs from completed months: the trailing
// twelve-month average and the year-over-year growth of that average.
func incomeStats(history []models.MonthlyIncome) (avg, growthPct float64) {
	if len(history) == 0 {
		return 0, 0
	}

	window := history
	if len(window) > 12 {
		window = window[len(window)-12:]
	}
	for _, m := range window {
		avg += m.Total
	}
	avg /= float64(len(window))

	if len(history) >= 24 {
		prior := history[len(history)-24 : len(history)-12]
		var priorAvg float64
		for _, m := range prior {
			priorAvg += m.Total
		}
		priorAvg /= float64(len(prior))
		if priorAvg > 0 {
			growthPct = (avg/priorAvg - 1) * 100
		}
	}

	return avg, growthPct
}
