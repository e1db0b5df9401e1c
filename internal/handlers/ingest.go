package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/mnordin/dividash/internal/db"
	"github.com/mnordin/dividash/internal/ingest"
	"github.com/mnordin/dividash/internal/models"
)

// IngestHandler handles data ingestion endpoints.
type IngestHandler struct {
	client *ingest.Client
	repo   *db.Repository
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(client *ingest.Client, repo *db.Repository) *IngestHandler {
	return &IngestHandler{
		client: client,
		repo:   repo,
	}
}

// IngestResponse is the JSON response for ingestion endpoints.
type IngestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
	Elapsed string `json:"elapsed,omitempty"`
}

// IngestCompany handles POST /admin/ingest/company
// Fetches and stores the overview, statements, and dividends for a symbol.
// Query params:
// - symbol: ticker symbol (required)
func (h *IngestHandler) IngestCompany(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	symbol := strings.ToUpper(strings.TrimSpace(c.QueryParam("symbol")))
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, IngestResponse{
			Success: false,
			Message: "symbol parameter is required (e.g., ?symbol=KO)",
		})
	}

	log.Printf("Starting company ingestion for %s...", symbol)

	overview, err := h.client.FetchOverview(ctx, symbol)
	if err != nil {
		log.Printf("Error fetching overview: %v", err)
		return c.JSON(http.StatusBadGateway, IngestResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to fetch overview: %v", err),
		})
	}
	if err := h.repo.UpsertOverview(ctx, overview); err != nil {
		return c.JSON(http.StatusInternalServerError, IngestResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to store overview: %v", err),
		})
	}

	total := 0

	balances, err := h.client.FetchBalanceSheets(ctx, symbol)
	if err != nil {
		return c.JSON(http.StatusBadGateway, IngestResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to fetch balance sheets: %v", err),
		})
	}
	count, err := h.repo.UpsertBalanceSheets(ctx, balances)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, IngestResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to store balance sheets: %v", err),
		})
	}
	total += count

	cashflows, err := h.client.FetchCashFlows(ctx, symbol)
	if err != nil {
		return c.JSON(http.StatusBadGateway, IngestResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to fetch cash flows: %v", err),
		})
	}
	count, err = h.repo.UpsertCashFlows(ctx, cashflows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, IngestResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to store cash flows: %v", err),
		})
	}
	total += count

	elapsed := time.Since(start)
	log.Printf("Company ingestion complete for %s: %d statements in %v", symbol, total, elapsed)

	return c.JSON(http.StatusOK, IngestResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully ingested %s", symbol),
		Count:   total,
		Elapsed: elapsed.String(),
	})
}

// IngestDividends handles POST /admin/ingest/dividends
// Query params:
// - symbol: comma-separated symbols (required)
func (h *IngestHandler) IngestDividends(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	symbolParam := c.QueryParam("symbol")
	if symbolParam == "" {
		return c.JSON(http.StatusBadRequest, IngestResponse{
			Success: false,
			Message: "symbol parameter is required (e.g., ?symbol=KO,JNJ)",
		})
	}
	symbols := strings.Split(symbolParam, ",")

	total := 0
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}

		dividends, err := h.client.FetchDividends(ctx, symbol)
		if err != nil {
			log.Printf("Error fetching dividends for %s: %v", symbol, err)
			return c.JSON(http.StatusBadGateway, IngestResponse{
				Success: false,
				Message: fmt.Sprintf("Failed to fetch dividends for %s: %v", symbol, err),
			})
		}

		count, err := h.repo.UpsertDividends(ctx, dividends)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, IngestResponse{
				Success: false,
				Message: fmt.Sprintf("Failed to store dividends for %s: %v", symbol, err),
			})
		}
		total += count
		log.Printf("Upserted %d dividends for %s", count, symbol)
	}

	elapsed := time.Since(start)
	log.Printf("Dividend ingestion complete: %d events in %v", total, elapsed)

	return c.JSON(http.StatusOK, IngestResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully ingested %d dividend events", total),
		Count:   total,
		Elapsed: elapsed.String(),
	})
}

type holdingParams struct {
	Symbol    string `query:"symbol" validate:"required"`
	Shares    string `query:"shares" validate:"required"`
	CostBasis string `query:"cost_basis"`
}

// UpsertHolding handles POST /admin/holdings
// Query params:
// - symbol: ticker symbol (required)
// - shares: shares held (required)
// - cost_basis: total cost basis (optional)
func (h *IngestHandler) UpsertHolding(c echo.Context) error {
	ctx := c.Request().Context()

	var params holdingParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, IngestResponse{Success: false, Message: err.Error()})
	}
	if err := c.Validate(&params); err != nil {
		return err
	}

	shares, err := decimal.NewFromString(params.Shares)
	if err != nil || shares.IsNegative() {
		return c.JSON(http.StatusBadRequest, IngestResponse{
			Success: false,
			Message: "shares must be a non-negative number",
		})
	}

	costBasis := decimal.Zero
	if params.CostBasis != "" {
		costBasis, err = decimal.NewFromString(params.CostBasis)
		if err != nil {
			return c.JSON(http.StatusBadRequest, IngestResponse{
				Success: false,
				Message: "cost_basis must be a number",
			})
		}
	}

	holding := models.Holding{
		Symbol:    strings.ToUpper(strings.TrimSpace(params.Symbol)),
		Shares:    shares,
		CostBasis: costBasis,
	}
	if err := h.repo.UpsertHolding(ctx, holding); err != nil {
		return c.JSON(http.StatusInternalServerError, IngestResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to store holding: %v", err),
		})
	}

	return c.JSON(http.StatusOK, IngestResponse{
		Success: true,
		Message: fmt.Sprintf("Stored holding %s", holding.Symbol),
	})
}

// IngestStatus handles GET /admin/ingest/status
// Returns current ingestion status and counts.
func (h *IngestHandler) IngestStatus(c echo.Context) error {
	ctx := c.Request().Context()

	companyCount, _ := h.repo.GetCompanyCount(ctx)
	dividendCount, _ := h.repo.GetDividendCount(ctx)
	lastFetch, _ := h.repo.GetLastOverviewFetch(ctx)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"companies":  companyCount,
		"dividends":  dividendCount,
		"last_fetch": lastFetch.Format("2006-01-02 15:04:05"),
	})
}
