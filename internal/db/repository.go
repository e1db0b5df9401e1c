package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mnordin/dividash/internal/models"
)

// Repository handles database operations for ingested data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertOverview stores a company snapshot, creating the company row as
// needed. The previous snapshot is replaced wholesale.
func (r *Repository) UpsertOverview(ctx context.Context, o *models.CompanyOverview) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO companies (symbol, name, sector, industry, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			updated_at = NOW()
	`, o.Symbol, o.Name, o.Sector, o.Industry)
	if err != nil {
		return fmt.Errorf("upserting company: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO company_overviews (
			symbol, market_cap, pe_ratio, dividend_yield, dividend_per_share,
			eps, payout_ratio, return_on_equity, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol) DO UPDATE SET
			market_cap = EXCLUDED.market_cap,
			pe_ratio = EXCLUDED.pe_ratio,
			dividend_yield = EXCLUDED.dividend_yield,
			dividend_per_share = EXCLUDED.dividend_per_share,
			eps = EXCLUDED.eps,
			payout_ratio = EXCLUDED.payout_ratio,
			return_on_equity = EXCLUDED.return_on_equity,
			fetched_at = EXCLUDED.fetched_at
	`,
		o.Symbol,
		decimalPtr(o.MarketCap), decimalPtr(o.PERatio), decimalPtr(o.DividendYield),
		decimalPtr(o.DividendPerShare), decimalPtr(o.EPS), decimalPtr(o.PayoutRatio),
		decimalPtr(o.ReturnOnEquity), o.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting overview: %w", err)
	}
	return nil
}

// UpsertBalanceSheets inserts or updates balance-sheet entries.
// Returns the number of rows affected.
func (r *Repository) UpsertBalanceSheets(ctx context.Context, entries []models.BalanceSheetEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO balance_sheets (
				symbol, fiscal_date, period,
				total_assets, total_liabilities, total_equity, total_debt,
				cash_and_equivalents, current_assets, current_liabilities
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (symbol, fiscal_date, period) DO UPDATE SET
				total_assets = EXCLUDED.total_assets,
				total_liabilities = EXCLUDED.total_liabilities,
				total_equity = EXCLUDED.total_equity,
				total_debt = EXCLUDED.total_debt,
				cash_and_equivalents = EXCLUDED.cash_and_equivalents,
				current_assets = EXCLUDED.current_assets,
				current_liabilities = EXCLUDED.current_liabilities
		`,
			e.Symbol, e.FiscalDate, e.Period,
			decimalPtr(e.TotalAssets), decimalPtr(e.TotalLiabilities),
			decimalPtr(e.TotalEquity), decimalPtr(e.TotalDebt),
			decimalPtr(e.CashAndEquivalents), decimalPtr(e.CurrentAssets),
			decimalPtr(e.CurrentLiabilities),
		)
	}

	return r.flushBatch(ctx, batch, len(entries), "balance sheet")
}

// UpsertCashFlows inserts or updates cash-flow entries.
func (r *Repository) UpsertCashFlows(ctx context.Context, entries []models.CashFlowEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO cash_flows (
				symbol, fiscal_date, period,
				operating_cashflow, capital_expenditure, free_cashflow, dividend_payout
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (symbol, fiscal_date, period) DO UPDATE SET
				operating_cashflow = EXCLUDED.operating_cashflow,
				capital_expenditure = EXCLUDED.capital_expenditure,
				free_cashflow = EXCLUDED.free_cashflow,
				dividend_payout = EXCLUDED.dividend_payout
		`,
			e.Symbol, e.FiscalDate, e.Period,
			decimalPtr(e.OperatingCashflow), decimalPtr(e.CapitalExpenditure),
			decimalPtr(e.FreeCashflow), decimalPtr(e.DividendPayout),
		)
	}

	return r.flushBatch(ctx, batch, len(entries), "cash flow")
}

// UpsertDividends inserts or updates dividend events.
func (r *Repository) UpsertDividends(ctx context.Context, dividends []models.Dividend) (int, error) {
	if len(dividends) == 0 {
		return 0, nil
	}

	// Dividends can arrive before the company snapshot does.
	if err := r.ensureCompany(ctx, dividends[0].Symbol); err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, d := range dividends {
		batch.Queue(`
			INSERT INTO dividends (symbol, ex_date, pay_date, amount)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (symbol, ex_date) DO UPDATE SET
				pay_date = EXCLUDED.pay_date,
				amount = EXCLUDED.amount
		`, d.Symbol, d.ExDate, d.PayDate, d.Amount)
	}

	return r.flushBatch(ctx, batch, len(dividends), "dividend")
}

// flushBatch sends a batch and counts executed statements.
func (r *Repository) flushBatch(ctx context.Context, batch *pgx.Batch, n int, what string) (int, error) {
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return count, fmt.Errorf("upserting %s: %w", what, err)
		}
		count++
	}
	return count, nil
}

// GetOverview returns the stored snapshot for a symbol, or nil when none
// exists.
func (r *Repository) GetOverview(ctx context.Context, symbol string) (*models.CompanyOverview, error) {
	var o models.CompanyOverview
	var marketCap, peRatio, divYield, dps, eps, payout, roe decimal.NullDecimal

	err := r.pool.QueryRow(ctx, `
		SELECT c.symbol, c.name, c.sector, c.industry,
			o.market_cap, o.pe_ratio, o.dividend_yield, o.dividend_per_share,
			o.eps, o.payout_ratio, o.return_on_equity, o.fetched_at
		FROM company_overviews o
		JOIN companies c ON c.symbol = o.symbol
		WHERE o.symbol = $1
	`, symbol).Scan(
		&o.Symbol, &o.Name, &o.Sector, &o.Industry,
		&marketCap, &peRatio, &divYield, &dps,
		&eps, &payout, &roe, &o.FetchedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying overview: %w", err)
	}

	o.MarketCap = nullDecimalPtr(marketCap)
	o.PERatio = nullDecimalPtr(peRatio)
	o.DividendYield = nullDecimalPtr(divYield)
	o.DividendPerShare = nullDecimalPtr(dps)
	o.EPS = nullDecimalPtr(eps)
	o.PayoutRatio = nullDecimalPtr(payout)
	o.ReturnOnEquity = nullDecimalPtr(roe)
	return &o, nil
}

// GetBalanceSheets returns up to limit entries for a symbol and period,
// most recent first.
func (r *Repository) GetBalanceSheets(ctx context.Context, symbol, period string, limit int) ([]models.BalanceSheetEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT symbol, fiscal_date, period,
			total_assets, total_liabilities, total_equity, total_debt,
			cash_and_equivalents, current_assets, current_liabilities
		FROM balance_sheets
		WHERE symbol = $1 AND period = $2
		ORDER BY fiscal_date DESC
		LIMIT $3
	`, symbol, period, limit)
	if err != nil {
		return nil, fmt.Errorf("querying balance sheets: %w", err)
	}
	defer rows.Close()

	var entries []models.BalanceSheetEntry
	for rows.Next() {
		var e models.BalanceSheetEntry
		var assets, liabilities, equity, debt, cash, curAssets, curLiabilities decimal.NullDecimal
		if err := rows.Scan(
			&e.Symbol, &e.FiscalDate, &e.Period,
			&assets, &liabilities, &equity, &debt,
			&cash, &curAssets, &curLiabilities,
		); err != nil {
			return nil, fmt.Errorf("scanning balance sheet: %w", err)
		}
		e.TotalAssets = nullDecimalPtr(assets)
		e.TotalLiabilities = nullDecimalPtr(liabilities)
		e.TotalEquity = nullDecimalPtr(equity)
		e.TotalDebt = nullDecimalPtr(debt)
		e.CashAndEquivalents = nullDecimalPtr(cash)
		e.CurrentAssets = nullDecimalPtr(curAssets)
		e.CurrentLiabilities = nullDecimalPtr(curLiabilities)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetCashFlows returns up to limit entries for a symbol and period, most
// recent first.
func (r *Repository) GetCashFlows(ctx context.Context, symbol, period string, limit int) ([]models.CashFlowEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT symbol, fiscal_date, period,
			operating_cashflow, capital_expenditure, free_cashflow, dividend_payout
		FROM cash_flows
		WHERE symbol = $1 AND period = $2
		ORDER BY fiscal_date DESC
		LIMIT $3
	`, symbol, period, limit)
	if err != nil {
		return nil, fmt.Errorf("querying cash flows: %w", err)
	}
	defer rows.Close()

	var entries []models.CashFlowEntry
	for rows.Next() {
		var e models.CashFlowEntry
		var op, capex, fcf, payout decimal.NullDecimal
		if err := rows.Scan(&e.Symbol, &e.FiscalDate, &e.Period, &op, &capex, &fcf, &payout); err != nil {
			return nil, fmt.Errorf("scanning cash flow: %w", err)
		}
		e.OperatingCashflow = nullDecimalPtr(op)
		e.CapitalExpenditure = nullDecimalPtr(capex)
		e.FreeCashflow = nullDecimalPtr(fcf)
		e.DividendPayout = nullDecimalPtr(payout)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetDividends returns up to limit dividend events for a symbol, most recent
// ex-date first.
func (r *Repository) GetDividends(ctx context.Context, symbol string, limit int) ([]models.Dividend, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT symbol, ex_date, pay_date, amount
		FROM dividends
		WHERE symbol = $1
		ORDER BY ex_date DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("querying dividends: %w", err)
	}
	defer rows.Close()

	var dividends []models.Dividend
	for rows.Next() {
		var d models.Dividend
		if err := rows.Scan(&d.Symbol, &d.ExDate, &d.PayDate, &d.Amount); err != nil {
			return nil, fmt.Errorf("scanning dividend: %w", err)
		}
		dividends = append(dividends, d)
	}
	return dividends, rows.Err()
}

// MonthlyDividendIncome returns the portfolio's dividend income per calendar
// month in chronological order: shares held times per-share amount, summed
// over holdings by payment month.
func (r *Repository) MonthlyDividendIncome(ctx context.Context) ([]models.MonthlyIncome, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', d.pay_date)::date AS month,
			SUM(d.amount * h.shares)::float8 AS total
		FROM dividends d
		JOIN holdings h ON h.symbol = d.symbol
		GROUP BY 1
		ORDER BY 1
	`)
	if err != nil {
		return nil, fmt.Errorf("querying monthly income: %w", err)
	}
	defer rows.Close()

	var income []models.MonthlyIncome
	for rows.Next() {
		var m models.MonthlyIncome
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, fmt.Errorf("scanning monthly income: %w", err)
		}
		income = append(income, m)
	}
	return income, rows.Err()
}

// GetHoldingSymbols returns the symbols of all current holdings.
func (r *Repository) GetHoldingSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT symbol FROM holdings ORDER BY symbol")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// ensureCompany creates a bare company row so rows that reference it can be
// stored before the snapshot is ingested.
func (r *Repository) ensureCompany(ctx context.Context, symbol string) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO companies (symbol) VALUES ($1) ON CONFLICT (symbol) DO NOTHING",
		symbol)
	if err != nil {
		return fmt.Errorf("ensuring company: %w", err)
	}
	return nil
}

// UpsertHolding stores a portfolio position.
func (r *Repository) UpsertHolding(ctx context.Context, h models.Holding) error {
	if err := r.ensureCompany(ctx, h.Symbol); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO holdings (symbol, shares, cost_basis, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			shares = EXCLUDED.shares,
			cost_basis = EXCLUDED.cost_basis,
			updated_at = NOW()
	`, h.Symbol, h.Shares, h.CostBasis)
	if err != nil {
		return fmt.Errorf("upserting holding: %w", err)
	}
	return nil
}

// GetCompanyCount returns the number of companies in the database.
func (r *Repository) GetCompanyCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies").Scan(&count)
	return count, err
}

// GetDividendCount returns the number of dividend events in the database.
func (r *Repository) GetDividendCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM dividends").Scan(&count)
	return count, err
}

// GetLastOverviewFetch returns the most recent snapshot fetch time.
func (r *Repository) GetLastOverviewFetch(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(fetched_at), '1970-01-01'::timestamptz) FROM company_overviews",
	).Scan(&t)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying last fetch: %w", err)
	}
	return t, nil
}

// decimalPtr converts a *decimal.Decimal to interface{} for database insertion.
func decimalPtr(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

// nullDecimalPtr converts a scanned NullDecimal back to the model's pointer
// representation.
func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
