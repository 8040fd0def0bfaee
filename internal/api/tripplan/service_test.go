package tripplan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-ai/wanderly-backend/internal/api/completions"
	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// scriptedClient routes completion calls by prompt content, mirroring how
// the stages address different models.
type scriptedClient struct {
	mu      sync.Mutex
	calls   int
	respond func(prompt string) string
}

func (c *scriptedClient) Complete(_ context.Context, prompt string, _ completions.Params) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.respond == nil {
		return ""
	}
	return c.respond(prompt)
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func testService(client completions.Client) *ServiceImpl {
	cfg := DefaultConfig()
	cfg.MicroFillDelay = time.Millisecond
	cfg.CacheTTL = 0
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(client, cfg, logger)
}

func isSkeletonPrompt(p string) bool  { return strings.Contains(p, "Build a TRIP SKELETON") }
func isFillPrompt(p string) bool      { return strings.Contains(p, "SKELETON TO FILL") }
func isMicroFillPrompt(p string) bool { return strings.Contains(p, "REAL, VERIFIED places") }

// fillResponse builds a real-fill answer covering the given sections for
// every day, three uniquely named options per block.
func fillResponse(t *testing.T, days int, sections ...string) string {
	t.Helper()
	plan := types.TripPlan{Days: make([]types.Day, days)}
	for i := range plan.Days {
		day := &plan.Days[i]
		day.Day = i + 1
		for _, section := range sections {
			optType := "activity"
			if section == types.SectionLunch || section == types.SectionDinner {
				optType = "restaurant"
			}
			var options []types.Option
			for n := 0; n < 3; n++ {
				options = append(options, types.Option{
					Name: fmt.Sprintf("%s place %d day %d", section, n+1, i+1),
					Type: optType,
					Cost: types.Money{Amount: 20, Currency: "USD"},
				})
			}
			day.Blocks = append(day.Blocks, types.Block{Section: section, Options: options})
		}
	}
	raw, err := json.Marshal(plan)
	require.NoError(t, err)
	return string(raw)
}

func TestCreateTripPlanGatewayDownServesMock(t *testing.T) {
	client := &scriptedClient{} // every completion returns ""
	svc := testService(client)

	plan, mock := svc.CreateTripPlan(context.Background(), mockRequest())

	assert.True(t, mock)
	require.NotNil(t, plan)
	require.Len(t, plan.Days, 3)
	for _, day := range plan.Days {
		require.Len(t, day.Blocks, 8)
		for _, block := range day.Blocks {
			assert.GreaterOrEqual(t, len(block.Options), 2)
		}
	}
	require.NotNil(t, plan.CostSummary)
}

func TestCreateTripPlanRepairsMissingDinner(t *testing.T) {
	allButDinner := []string{
		types.SectionMorning, types.SectionMidday, types.SectionLunch,
		types.SectionAfternoon, types.SectionEvening,
		types.SectionNight, types.SectionLateNight,
	}
	client := &scriptedClient{}
	client.respond = func(prompt string) string {
		switch {
		case isFillPrompt(prompt):
			return fillResponse(t, 3, allButDinner...)
		case isMicroFillPrompt(prompt) && strings.Contains(prompt, `"dinner"`):
			return `{"options": [
				{"name": "La Badiane", "type": "restaurant", "estimatedCost": 60},
				{"name": "Duong's Restaurant", "type": "restaurant", "estimatedCost": 35}
			]}`
		default:
			return ""
		}
	}
	svc := testService(client)

	plan, mock := svc.CreateTripPlan(context.Background(), mockRequest())

	assert.False(t, mock)
	for _, day := range plan.Days {
		require.Len(t, day.Blocks, 8, "dinner must be restored by the normalizer")
		dinner := day.Blocks[5]
		require.Equal(t, types.SectionDinner, dinner.Section)
		assert.GreaterOrEqual(t, len(dinner.Options), 2)

		got := names(dinner.Options)
		assert.Contains(t, got, "La Badiane")
		assert.Contains(t, got, "Duong's Restaurant")
	}
}

func TestCreateTripPlanPadsWithAlternativeWhenMicroFillFails(t *testing.T) {
	client := &scriptedClient{}
	client.respond = func(prompt string) string {
		if isFillPrompt(prompt) {
			// Every block gets exactly one option and micro-fill never answers.
			plan := types.TripPlan{Days: make([]types.Day, 3)}
			for i := range plan.Days {
				plan.Days[i].Day = i + 1
				for _, section := range types.BlockOrder {
					plan.Days[i].Blocks = append(plan.Days[i].Blocks, types.Block{
						Section: section,
						Options: []types.Option{{
							Name: fmt.Sprintf("Solo %s %d", section, i+1),
							Type: "activity",
						}},
					})
				}
			}
			raw, _ := json.Marshal(plan)
			return string(raw)
		}
		return ""
	}
	svc := testService(client)

	plan, mock := svc.CreateTripPlan(context.Background(), mockRequest())

	assert.False(t, mock)
	for _, day := range plan.Days {
		for _, block := range day.Blocks {
			require.Len(t, block.Options, 2)
			assert.Equal(t, block.Options[0].Name+" (Alternative)", block.Options[1].Name)
		}
	}
}

func TestCreateTripPlanSkeletonFromModel(t *testing.T) {
	skeleton := types.TripPlan{
		To: "Hanoi, Vietnam",
		Flight: &types.Flight{
			AverageCost: 950, Currency: "USD", Duration: "18h",
			DepartureAirport: "ORD", ArrivalAirport: "HAN",
		},
		Days: []types.Day{
			{Day: 1, Date: "2026-03-01"}, {Day: 2, Date: "2026-03-02"}, {Day: 3, Date: "2026-03-03"},
		},
	}
	skeletonJSON, err := json.Marshal(skeleton)
	require.NoError(t, err)

	client := &scriptedClient{}
	client.respond = func(prompt string) string {
		switch {
		case isSkeletonPrompt(prompt):
			return string(skeletonJSON)
		case isFillPrompt(prompt):
			return fillResponse(t, 3, types.BlockOrder...)
		default:
			return ""
		}
	}
	svc := testService(client)

	plan, mock := svc.CreateTripPlan(context.Background(), mockRequest())

	assert.False(t, mock)
	require.NotNil(t, plan.Flight)
	assert.Equal(t, 950.0, plan.Flight.AverageCost, "model skeleton flight estimate is kept")
	assert.Equal(t, "2026-03-02", plan.Days[1].Date)
}

func TestCreateTripPlanRestaurantUniquenessEndToEnd(t *testing.T) {
	client := &scriptedClient{}
	client.respond = func(prompt string) string {
		if isFillPrompt(prompt) {
			// The model repeats "The Gage" at every meal on every day.
			plan := types.TripPlan{Days: make([]types.Day, 2)}
			for i := range plan.Days {
				plan.Days[i].Day = i + 1
				for _, section := range types.BlockOrder {
					optType := "activity"
					options := []types.Option{
						{Name: fmt.Sprintf("%s a %d", section, i+1), Type: optType},
						{Name: fmt.Sprintf("%s b %d", section, i+1), Type: optType},
						{Name: fmt.Sprintf("%s c %d", section, i+1), Type: optType},
					}
					if section == types.SectionLunch || section == types.SectionDinner {
						options = []types.Option{
							{Name: "The Gage", Type: "restaurant"},
							{Name: fmt.Sprintf("Resto %s %d", section, i+1), Type: "restaurant"},
							{Name: fmt.Sprintf("Resto2 %s %d", section, i+1), Type: "restaurant"},
						}
					}
					plan.Days[i].Blocks = append(plan.Days[i].Blocks, types.Block{Section: section, Options: options})
				}
			}
			raw, _ := json.Marshal(plan)
			return string(raw)
		}
		return ""
	}
	svc := testService(client)

	req := mockRequest()
	req.EndDate = "2026-03-03" // 2 days
	plan, mock := svc.CreateTripPlan(context.Background(), req)

	assert.False(t, mock)
	gageCount := 0
	for _, day := range plan.Days {
		for _, block := range day.Blocks {
			if block.Section != types.SectionLunch && block.Section != types.SectionDinner {
				continue
			}
			assert.GreaterOrEqual(t, len(block.Options), 2)
			for _, opt := range block.Options {
				if opt.NormalizedName() == "the gage" {
					gageCount++
				}
			}
		}
	}
	assert.Equal(t, 1, gageCount, "a restaurant appears once across the whole trip")
}

func TestCreateTripPlanCachesLivePlans(t *testing.T) {
	client := &scriptedClient{}
	client.respond = func(prompt string) string {
		if isFillPrompt(prompt) {
			return fillResponse(t, 3, types.BlockOrder...)
		}
		return ""
	}
	cfg := DefaultConfig()
	cfg.MicroFillDelay = time.Millisecond
	cfg.CacheTTL = time.Minute
	svc := NewServiceImpl(client, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := mockRequest()
	first, mock := svc.CreateTripPlan(context.Background(), req)
	require.False(t, mock)

	callsAfterFirst := client.callCount()
	second, mock := svc.CreateTripPlan(context.Background(), req)
	require.False(t, mock)

	assert.Same(t, first, second)
	assert.Equal(t, callsAfterFirst, client.callCount(), "cache hit must not call the model")
}
