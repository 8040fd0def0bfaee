package tripplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

func singleDayPlan(blocks ...types.Block) *types.TripPlan {
	return &types.TripPlan{
		To:   "Chicago",
		Days: []types.Day{{Day: 1, Date: "2026-05-01", Blocks: blocks}},
	}
}

func TestPostProcessCostsClampsAbsurdAmounts(t *testing.T) {
	plan := singleDayPlan(types.Block{
		Section: "dinner",
		Options: []types.Option{
			{Name: "The Gage", Type: "restaurant", Cost: types.Money{Amount: 1260}},
		},
	})

	PostProcessCosts(plan, types.TripPlanRequest{To: "Chicago"}, PostProcessConfig{})

	got := plan.Days[0].Blocks[0].Options[0].Cost
	assert.Equal(t, 120.0, got.Amount, "comfort-tier dinner caps at the range max")
	assert.Equal(t, "USD", got.Currency)
}

func TestPostProcessCostsFillsMissingFields(t *testing.T) {
	plan := singleDayPlan(types.Block{
		Section: "lunch",
		Options: []types.Option{{Name: "Pho Bo", Type: "restaurant"}},
	})

	PostProcessCosts(plan, types.TripPlanRequest{To: "Hanoi", Currency: "USD"}, PostProcessConfig{})

	opt := plan.Days[0].Blocks[0].Options[0]
	assert.Equal(t, 60, opt.DurationMin)
	assert.Equal(t, "~1 km", opt.DistanceFromPrevious)
	assert.NotEmpty(t, opt.Transport)
	assert.Equal(t, 40.0, opt.Cost.Amount, "restaurant base cost applies when none given")
}

func TestPostProcessCostsTierScalesRanges(t *testing.T) {
	mk := func(travelType string) float64 {
		plan := singleDayPlan(types.Block{
			Section: "dinner",
			Options: []types.Option{{Name: "Somewhere", Type: "restaurant", Cost: types.Money{Amount: 99999}}},
		})
		PostProcessCosts(plan, types.TripPlanRequest{To: "Hanoi", TravelType: travelType}, PostProcessConfig{})
		return plan.Days[0].Blocks[0].Options[0].Cost.Amount
	}

	economy := mk("economy")
	comfort := mk("comfort")
	luxury := mk("luxury")

	assert.Less(t, economy, comfort)
	assert.Less(t, comfort, luxury)
	assert.Equal(t, 420.0, luxury, "luxury cap is 3.5x the base range max")
}

func TestSoftBudgetScalingClampsAtFloor(t *testing.T) {
	// Per-option average is 100 against a target of 10/day; raw scale 0.1
	// must clamp to 0.7.
	plan := singleDayPlan(types.Block{
		Section: "morning",
		Options: []types.Option{
			{Name: "Tour A", Type: "tour", Cost: types.Money{Amount: 100, Currency: "USD"}},
		},
	})
	req := types.TripPlanRequest{To: "Chicago", Budget: 10}
	cfg := DefaultPostProcessConfig()

	applySoftBudgetScaling(plan, req, cfg)

	assert.Equal(t, 70.0, plan.Days[0].Blocks[0].Options[0].Cost.Amount)
}

func TestSoftBudgetScalingClampsAtCeiling(t *testing.T) {
	plan := singleDayPlan(types.Block{
		Section: "morning",
		Options: []types.Option{
			{Name: "Tour A", Type: "tour", Cost: types.Money{Amount: 10, Currency: "USD"}},
		},
	})
	req := types.TripPlanRequest{To: "Chicago", Budget: 100000}
	cfg := DefaultPostProcessConfig()

	applySoftBudgetScaling(plan, req, cfg)

	assert.Equal(t, 16.0, plan.Days[0].Blocks[0].Options[0].Cost.Amount)
}

func TestSoftBudgetScalingSkipsZeroCosts(t *testing.T) {
	plan := singleDayPlan(types.Block{
		Section: "morning",
		Options: []types.Option{
			{Name: "Free Park", Type: "park", Cost: types.Money{Amount: 0}},
			{Name: "Museum", Type: "museum", Cost: types.Money{Amount: 20, Currency: "USD"}},
		},
	})

	applySoftBudgetScaling(plan, types.TripPlanRequest{Budget: 100000}, DefaultPostProcessConfig())

	assert.Equal(t, 0.0, plan.Days[0].Blocks[0].Options[0].Cost.Amount)
	assert.Equal(t, 32.0, plan.Days[0].Blocks[0].Options[1].Cost.Amount)
}

func TestBuildCostSummaryBudgetStatus(t *testing.T) {
	tests := []struct {
		name   string
		budget float64
		status string
	}{
		{"way over", 100, types.BudgetWayOver},
		{"over", 1100, types.BudgetOver},
		{"on track", 1300, types.BudgetOnTrack},
		{"under", 5000, types.BudgetUnder},
		{"no budget", 0, types.BudgetOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := singleDayPlan(types.Block{
				Section: "dinner",
				Options: []types.Option{{Name: "Dinner", Type: "restaurant", Cost: types.Money{Amount: 50}}},
			})
			plan.Flight = &types.Flight{AverageCost: 800}
			plan.Days[0].Hotel = &types.Hotel{Name: "H", NightlyPrice: types.Money{Amount: 150}}

			req := types.TripPlanRequest{Budget: tt.budget, TransportPreference: "walk"}
			summary := buildCostSummary(plan, req, DefaultPostProcessConfig())

			// 800 flight + 150 hotel + 50 food = 1000 total.
			require.Equal(t, 1000.0, summary.TotalEstimatedCost)
			assert.Equal(t, tt.status, summary.BudgetStatus)
		})
	}
}

func TestBuildCostSummarySplitsFoodAndActivities(t *testing.T) {
	plan := singleDayPlan(
		types.Block{Section: "lunch", Options: []types.Option{{Name: "L", Cost: types.Money{Amount: 25}}}},
		types.Block{Section: "dinner", Options: []types.Option{{Name: "D", Cost: types.Money{Amount: 45}}}},
		types.Block{Section: "morning", Options: []types.Option{{Name: "M", Cost: types.Money{Amount: 20}}}},
	)

	summary := buildCostSummary(plan, types.TripPlanRequest{TransportPreference: "metro"}, DefaultPostProcessConfig())

	assert.Equal(t, 70.0, summary.TotalFoodCost)
	assert.Equal(t, 20.0, summary.TotalActivitiesCost)
	assert.Equal(t, 10.0, summary.TotalTransportCost)
}

func TestDeriveTransport(t *testing.T) {
	assert.Contains(t, deriveTransport("0.4 mi"), "Walk 5-10")
	assert.Contains(t, deriveTransport("1.5 km"), "short public transit")
	assert.Contains(t, deriveTransport("12 km"), "Taxi/Uber ~20-30")
	assert.Contains(t, deriveTransport(""), "Walk")
}
