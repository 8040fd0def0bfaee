package tripplan

import (
	"strings"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

var sectionTimes = map[string]string{
	types.SectionMorning:   "08:00 - 10:30",
	types.SectionMidday:    "10:45 - 12:00",
	types.SectionLunch:     "12:00 - 13:30",
	types.SectionAfternoon: "14:00 - 16:30",
	types.SectionEvening:   "16:30 - 18:30",
	types.SectionDinner:    "18:30 - 20:00",
	types.SectionNight:     "20:00 - 23:30",
	types.SectionLateNight: "23:30 - 03:00",
}

func defaultTimeForSection(section string) string {
	if t, ok := sectionTimes[section]; ok {
		return t
	}
	return sectionTimes[types.SectionLateNight]
}

// NormalizeDays rewrites every day so it carries each canonical section
// exactly once, in canonical order. Existing blocks keep their time and
// options; missing sections are created empty; unknown or duplicate
// sections are dropped. The per-day hotel is taken from hotelPerDay when
// provided (index falls back to the first assignment, then whatever the
// day already has). Idempotent: normalizing twice changes nothing.
func NormalizeDays(plan *types.TripPlan, hotelPerDay []types.HotelPerDay) {
	if plan == nil {
		return
	}

	for i := range plan.Days {
		day := &plan.Days[i]

		bySection := make(map[string]*types.Block, len(day.Blocks))
		for j := range day.Blocks {
			key := strings.ToLower(strings.TrimSpace(day.Blocks[j].Section))
			if _, dup := bySection[key]; !dup {
				bySection[key] = &day.Blocks[j]
			}
		}

		fixed := make([]types.Block, 0, len(types.BlockOrder))
		for _, section := range types.BlockOrder {
			blk := types.Block{
				Section: section,
				Time:    defaultTimeForSection(section),
				Options: []types.Option{},
			}
			if existing, ok := bySection[section]; ok {
				if strings.TrimSpace(existing.Time) != "" {
					blk.Time = existing.Time
				}
				if existing.Options != nil {
					blk.Options = existing.Options
				}
			}
			fixed = append(fixed, blk)
		}
		day.Blocks = fixed

		if hotel := hotelForDay(hotelPerDay, i); hotel != nil {
			day.Hotel = hotel
		}
	}
}

func hotelForDay(hotelPerDay []types.HotelPerDay, dayIndex int) *types.Hotel {
	if dayIndex >= 0 && dayIndex < len(hotelPerDay) {
		h := hotelPerDay[dayIndex].Hotel()
		return &h
	}
	if len(hotelPerDay) > 0 {
		h := hotelPerDay[0].Hotel()
		return &h
	}
	return nil
}
