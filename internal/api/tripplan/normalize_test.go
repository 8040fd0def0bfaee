package tripplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

func sectionsOf(day types.Day) []string {
	out := make([]string, 0, len(day.Blocks))
	for _, b := range day.Blocks {
		out = append(out, b.Section)
	}
	return out
}

func TestNormalizeDaysAddsMissingSections(t *testing.T) {
	plan := &types.TripPlan{
		To: "Hanoi",
		Days: []types.Day{
			{
				Day:  1,
				Date: "2026-03-01",
				Blocks: []types.Block{
					{Section: "morning", Time: "09:00 - 11:00", Options: []types.Option{{Name: "Hoan Kiem Lake"}}},
					{Section: "dinner", Options: []types.Option{{Name: "La Badiane"}}},
				},
			},
		},
	}

	NormalizeDays(plan, nil)

	require.Len(t, plan.Days[0].Blocks, 8)
	assert.Equal(t, types.BlockOrder, sectionsOf(plan.Days[0]))

	// Existing blocks keep their time and options.
	assert.Equal(t, "09:00 - 11:00", plan.Days[0].Blocks[0].Time)
	assert.Equal(t, "Hoan Kiem Lake", plan.Days[0].Blocks[0].Options[0].Name)

	// A block without a time gets the default.
	assert.Equal(t, "18:30 - 20:00", plan.Days[0].Blocks[5].Time)
	assert.Equal(t, "La Badiane", plan.Days[0].Blocks[5].Options[0].Name)

	// Created sections start empty, never nil.
	lunch := plan.Days[0].Blocks[2]
	assert.Equal(t, "lunch", lunch.Section)
	assert.NotNil(t, lunch.Options)
	assert.Empty(t, lunch.Options)
}

func TestNormalizeDaysDropsUnknownAndDuplicateSections(t *testing.T) {
	plan := &types.TripPlan{
		Days: []types.Day{
			{
				Day: 1,
				Blocks: []types.Block{
					{Section: "Morning", Options: []types.Option{{Name: "First"}}},
					{Section: "morning", Options: []types.Option{{Name: "Second"}}},
					{Section: "brunch", Options: []types.Option{{Name: "Not a section"}}},
				},
			},
		},
	}

	NormalizeDays(plan, nil)

	require.Len(t, plan.Days[0].Blocks, 8)
	// First occurrence of the section wins; case is normalized.
	assert.Equal(t, "First", plan.Days[0].Blocks[0].Options[0].Name)
}

func TestNormalizeDaysIdempotent(t *testing.T) {
	plan := &types.TripPlan{
		To: "Tokyo",
		Days: []types.Day{
			{Day: 1, Blocks: []types.Block{{Section: "night", Options: []types.Option{{Name: "Golden Gai"}}}}},
			{Day: 2},
		},
	}
	hotels := []types.HotelPerDay{{Name: "Shinjuku Stay", Address: "Shinjuku, Tokyo"}}

	NormalizeDays(plan, hotels)
	snapshot := *plan
	first := make([]types.Day, len(plan.Days))
	copy(first, plan.Days)

	NormalizeDays(plan, hotels)
	assert.Equal(t, snapshot.Days, plan.Days)
	assert.Equal(t, first, plan.Days)
}

func TestNormalizeDaysAttachesHotels(t *testing.T) {
	plan := &types.TripPlan{Days: []types.Day{{Day: 1}, {Day: 2}, {Day: 3}}}
	hotels := []types.HotelPerDay{
		{Name: "Hotel A"},
		{Name: "Hotel B"},
	}

	NormalizeDays(plan, hotels)

	require.NotNil(t, plan.Days[0].Hotel)
	assert.Equal(t, "Hotel A", plan.Days[0].Hotel.Name)
	assert.Equal(t, "Hotel B", plan.Days[1].Hotel.Name)
	// Days beyond the assignment list reuse the first hotel.
	assert.Equal(t, "Hotel A", plan.Days[2].Hotel.Name)
}
