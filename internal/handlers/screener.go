package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mnordin/dividash/internal/db"
	"github.com/mnordin/dividash/internal/ingest"
	"github.com/mnordin/dividash/internal/models"
	"github.com/mnordin/dividash/internal/screener"
)

// statementDepth is how many statements of each kind an analysis loads; the
// most recent entry drives the current ratios, the rest feed the statements
// view.
const statementDepth = 8

const dividendDepth = 40

// ScreenerHandler serves per-symbol analysis. Scoring happens here, server
// side, once; clients render the result.
type ScreenerHandler struct {
	client *ingest.Client
	repo   *db.Repository
}

// NewScreenerHandler creates a new screener handler.
func NewScreenerHandler(client *ingest.Client, repo *db.Repository) *ScreenerHandler {
	return &ScreenerHandler{client: client, repo: repo}
}

// ScreenerAnalysis is the analysis response for one symbol.
type ScreenerAnalysis struct {
	Overview          *models.CompanyOverview    `json:"overview"`
	Dividends         []models.Dividend          `json:"dividends"`
	BalanceSheets     []models.BalanceSheetEntry `json:"balance_sheets"`
	CashFlows         []models.CashFlowEntry     `json:"cash_flows"`
	Ratios            screener.Ratios            `json:"ratios"`
	RiskScore         float64                    `json:"risk_score"`
	RiskLevel         screener.RiskLevel         `json:"risk_level"`
	RiskGrade         string                     `json:"risk_grade,omitempty"`
	RiskFactors       []string                   `json:"risk_factors"`
	RiskBreakdown     *screener.RiskFactors      `json:"risk_breakdown,omitempty"`
	InvestmentSummary screener.InvestmentSummary `json:"investment_summary"`
}

type analysisParams struct {
	Period  string `query:"period" validate:"omitempty,oneof=annual quarterly"`
	Refresh bool   `query:"refresh"`
}

// Analysis handles GET /api/screener/analysis/:symbol
// Query params:
// - period: annual (default) or quarterly
// - refresh: if "true", re-fetch from the provider before computing
func (h *ScreenerHandler) Analysis(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: "symbol is required",
		})
	}

	var params analysisParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
	}
	if err := c.Validate(&params); err != nil {
		return err
	}
	if params.Period == "" {
		params.Period = "annual"
	}

	overview, err := h.repo.GetOverview(ctx, symbol)
	if err != nil {
		log.Printf("Error loading overview for %s: %v", symbol, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to load overview: %v", err),
		})
	}

	if overview == nil || params.Refresh {
		if err := h.refresh(c, symbol); err != nil {
			return c.JSON(http.StatusBadGateway, ErrorResponse{
				Success: false,
				Message: fmt.Sprintf("Failed to refresh %s: %v", symbol, err),
			})
		}
		overview, err = h.repo.GetOverview(ctx, symbol)
		if err != nil || overview == nil {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Success: false,
				Message: fmt.Sprintf("Failed to load overview after refresh: %v", err),
			})
		}
	}

	balances, err := h.repo.GetBalanceSheets(ctx, symbol, params.Period, statementDepth)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to load balance sheets: %v", err),
		})
	}
	cashflows, err := h.repo.GetCashFlows(ctx, symbol, params.Period, statementDepth)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to load cash flows: %v", err),
		})
	}
	dividends, err := h.repo.GetDividends(ctx, symbol, dividendDepth)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to load dividends: %v", err),
		})
	}

	// Most recent statement of each kind is authoritative for current ratios.
	var latestBalance *models.BalanceSheetEntry
	if len(balances) > 0 {
		latestBalance = &balances[0]
	}
	var latestCashflow *models.CashFlowEntry
	if len(cashflows) > 0 {
		latestCashflow = &cashflows[0]
	}

	ratios := screener.ExtractRatios(overview, latestBalance, latestCashflow)
	risk := screener.AssessRisk(ratios)
	investment := screener.ScoreInvestment(risk, ratios)

	if dividends == nil {
		dividends = []models.Dividend{}
	}
	if balances == nil {
		balances = []models.BalanceSheetEntry{}
	}
	if cashflows == nil {
		cashflows = []models.CashFlowEntry{}
	}

	return c.JSON(http.StatusOK, ScreenerAnalysis{
		Overview:          overview,
		Dividends:         dividends,
		BalanceSheets:     balances,
		CashFlows:         cashflows,
		Ratios:            ratios,
		RiskScore:         risk.Score,
		RiskLevel:         risk.Level,
		RiskGrade:         risk.Grade,
		RiskFactors:       risk.Factors,
		RiskBreakdown:     screener.RiskSubScores(ratios),
		InvestmentSummary: investment,
	})
}

// refresh pulls the symbol's snapshot, statements, and dividends from the
// provider and stores them.
func (h *ScreenerHandler) refresh(c echo.Context, symbol string) error {
	ctx := c.Request().Context()

	log.Printf("Refreshing %s from provider...", symbol)

	overview, err := h.client.FetchOverview(ctx, symbol)
	if err != nil {
		return err
	}
	if err := h.repo.UpsertOverview(ctx, overview); err != nil {
		return err
	}

	balances, err := h.client.FetchBalanceSheets(ctx, symbol)
	if err != nil {
		return err
	}
	if _, err := h.repo.UpsertBalanceSheets(ctx, balances); err != nil {
		return err
	}

	cashflows, err := h.client.FetchCashFlows(ctx, symbol)
	if err != nil {
		return err
	}
	if _, err := h.repo.UpsertCashFlows(ctx, cashflows); err != nil {
		return err
	}

	dividends, err := h.client.FetchDividends(ctx, symbol)
	if err != nil {
		return err
	}
	if _, err := h.repo.UpsertDividends(ctx, dividends); err != nil {
		return err
	}

	log.Printf("Refreshed %s: %d balance sheets, %d cash flows, %d dividends",
		symbol, len(balances), len(cashflows), len(dividends))
	return nil
}
