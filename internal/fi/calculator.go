// Package fi computes financial-independence planning figures from a target
// monthly expense level and the portfolio's historical dividend income.
package fi

import "math"

// Input are the calculator parameters. MonthlyExpenses must be positive;
// SafeWithdrawalRatePct is an annual percentage, typically 2-6.
type Input struct {
	MonthlyExpenses       float64
	SafeWithdrawalRatePct float64
	CurrentMonthlyAvg     float64
	AnnualGrowthRatePct   float64
}

// Plan is the derived FI plan. YearsToGoal is nil when the goal is already
// reached, and nil when growth is non-positive so no finite solution exists.
type Plan struct {
	MonthlyGoal       float64  `json:"monthly_goal"`
	CurrentMonthlyAvg float64  `json:"current_monthly_avg"`
	AnnualGrowthRate  float64  `json:"annual_growth_rate"`
	TargetPortfolio   float64  `json:"fi_target_portfolio"`
	MonthlyGap        float64  `json:"monthly_gap"`
	CoveragePct       float64  `json:"coverage_pct"`
	YearsToGoal       *float64 `json:"years_to_goal"`
	GoalReached       bool     `json:"goal_reached"`
}

// Calculate derives the plan. Pure; identical inputs give identical plans.
func Calculate(in Input) Plan {
	p := Plan{
		MonthlyGoal:       in.MonthlyExpenses,
		CurrentMonthlyAvg: in.CurrentMonthlyAvg,
		AnnualGrowthRate:  in.AnnualGrowthRatePct,
		GoalReached:       in.CurrentMonthlyAvg >= in.MonthlyExpenses,
	}

	if in.SafeWithdrawalRatePct > 0 {
		p.TargetPortfolio = in.MonthlyExpenses * 12 / (in.SafeWithdrawalRatePct / 100)
	}

	p.MonthlyGap = math.Max(0, in.MonthlyExpenses-in.CurrentMonthlyAvg)

	if in.CurrentMonthlyAvg > 0 && in.MonthlyExpenses > 0 {
		p.CoveragePct = in.CurrentMonthlyAvg / in.MonthlyExpenses * 100
	}

	p.YearsToGoal = yearsToGoal(in)

	return p
}

// yearsToGoal solves goal = avg * (1+g)^t for t. No value when the goal is
// already met, and no value when growth cannot close the gap.
func yearsToGoal(in Input) *float64 {
	if in.CurrentMonthlyAvg >= in.MonthlyExpenses {
		return nil
	}
	if in.AnnualGrowthRatePct <= 0 || in.CurrentMonthlyAvg <= 0 || in.MonthlyExpenses <= 0 {
		return nil
	}
	years := math.Log(in.MonthlyExpenses/in.CurrentMonthlyAvg) / math.Log(1+in.AnnualGrowthRatePct/100)
	return &years
}
