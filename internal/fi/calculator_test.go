package fi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_GoalAlreadyReached(t *testing.T) {
	plan := Calculate(Input{
		MonthlyExpenses:       2000,
		SafeWithdrawalRatePct: 4,
		CurrentMonthlyAvg:     2000,
		AnnualGrowthRatePct:   5,
	})

	assert.True(t, plan.GoalReached)
	assert.Equal(t, 0.0, plan.MonthlyGap)
	assert.Equal(t, 100.0, plan.CoveragePct)
	// Already met: no countdown, not "no solution".
	assert.Nil(t, plan.YearsToGoal)
}

func TestCalculate_TargetPortfolio(t *testing.T) {
	plan := Calculate(Input{
		MonthlyExpenses:       2000,
		SafeWithdrawalRatePct: 4,
		CurrentMonthlyAvg:     500,
		AnnualGrowthRatePct:   8,
	})

	// 2000*12 / 0.04 = 600000
	assert.InDelta(t, 600000, plan.TargetPortfolio, 1e-9)
	assert.Equal(t, 1500.0, plan.MonthlyGap)
	assert.Equal(t, 25.0, plan.CoveragePct)
	assert.False(t, plan.GoalReached)

	require.NotNil(t, plan.YearsToGoal)
	// 500*(1.08)^t = 2000 -> t = ln(4)/ln(1.08)
	want := math.Log(4) / math.Log(1.08)
	assert.InDelta(t, want, *plan.YearsToGoal, 1e-9)
}

func TestCalculate_NonPositiveGrowthHasNoSolution(t *testing.T) {
	for _, growth := range []float64{0, -3} {
		plan := Calculate(Input{
			MonthlyExpenses:       2000,
			SafeWithdrawalRatePct: 4,
			CurrentMonthlyAvg:     500,
			AnnualGrowthRatePct:   growth,
		})
		assert.Nil(t, plan.YearsToGoal, "growth %v", growth)
		assert.False(t, plan.GoalReached)
	}
}

func TestCalculate_ZeroIncome(t *testing.T) {
	plan := Calculate(Input{
		MonthlyExpenses:       2000,
		SafeWithdrawalRatePct: 4,
		CurrentMonthlyAvg:     0,
		AnnualGrowthRatePct:   10,
	})

	assert.Equal(t, 0.0, plan.CoveragePct)
	assert.Equal(t, 2000.0, plan.MonthlyGap)
	// Compounding zero never reaches a positive goal.
	assert.Nil(t, plan.YearsToGoal)
}

func TestCalculate_GapIsNeverNegative(t *testing.T) {
	plan := Calculate(Input{
		MonthlyExpenses:       1000,
		SafeWithdrawalRatePct: 4,
		CurrentMonthlyAvg:     1800,
		AnnualGrowthRatePct:   5,
	})

	assert.Equal(t, 0.0, plan.MonthlyGap)
	assert.True(t, plan.GoalReached)
	assert.InDelta(t, 180, plan.CoveragePct, 1e-9)
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Input{
		MonthlyExpenses:       2500,
		SafeWithdrawalRatePct: 3.5,
		CurrentMonthlyAvg:     900,
		AnnualGrowthRatePct:   6,
	}
	first := Calculate(in)
	second := Calculate(in)

	require.NotNil(t, first.YearsToGoal)
	require.NotNil(t, second.YearsToGoal)
	assert.Equal(t, *first.YearsToGoal, *second.YearsToGoal)
	first.YearsToGoal, second.YearsToGoal = nil, nil
	assert.Equal(t, first, second)
}
