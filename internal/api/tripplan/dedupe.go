package tripplan

import (
	"strings"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// minOptionsPerBlock is the floor the dedupe passes defend: a block may
// keep a duplicate rather than drop below it.
const (
	minOptionsPerBlock = 2
	maxOptionsPerBlock = 4
)

// EnforceUniquePlaces runs the deduplication passes in fixed order:
// within each block, then within each day, then restaurants trip-wide in
// lunch and dinner. First occurrence always wins. The block floor beats
// uniqueness: a duplicate survives when removing it would leave fewer than
// two options. Blocks that still end up empty get a synthetic placeholder
// so the response shape never degrades.
func EnforceUniquePlaces(plan *types.TripPlan) {
	if plan == nil {
		return
	}

	for i := range plan.Days {
		day := &plan.Days[i]
		daySeen := make(map[string]bool)

		for j := range day.Blocks {
			block := &day.Blocks[j]
			blockSeen := make(map[string]bool)
			fresh := make([]types.Option, 0, len(block.Options))
			var dups []types.Option

			for _, opt := range block.Options {
				key := opt.NormalizedName()
				if key == "" || blockSeen[key] {
					continue
				}
				blockSeen[key] = true

				if daySeen[key] {
					dups = append(dups, opt)
					continue
				}
				daySeen[key] = true
				fresh = append(fresh, opt)
			}

			// The floor beats day-level uniqueness: re-admit duplicates
			// in order until the block has two options again.
			for len(fresh) < minOptionsPerBlock && len(dups) > 0 {
				fresh = append(fresh, dups[0])
				dups = dups[1:]
			}
			block.Options = fresh
		}
	}

	dedupeRestaurants(plan)

	for i := range plan.Days {
		day := &plan.Days[i]
		for j := range day.Blocks {
			block := &day.Blocks[j]
			if len(block.Options) > maxOptionsPerBlock {
				block.Options = block.Options[:maxOptionsPerBlock]
			}
			if len(block.Options) == 0 {
				block.Options = []types.Option{syntheticOption(plan, day, block.Section)}
			}
		}
	}
}

// dedupeRestaurants enforces trip-wide uniqueness for lunch and dinner: a
// restaurant used on one day never reappears at any other meal, unless
// dropping it would take the block below the floor.
func dedupeRestaurants(plan *types.TripPlan) {
	seen := make(map[string]bool)

	for i := range plan.Days {
		for j := range plan.Days[i].Blocks {
			block := &plan.Days[i].Blocks[j]
			if block.Section != types.SectionLunch && block.Section != types.SectionDinner {
				continue
			}

			fresh := make([]types.Option, 0, len(block.Options))
			var dups []types.Option
			for _, opt := range block.Options {
				key := opt.NormalizedName()
				if key == "" {
					continue
				}
				if seen[key] {
					dups = append(dups, opt)
					continue
				}
				seen[key] = true
				fresh = append(fresh, opt)
			}
			for len(fresh) < minOptionsPerBlock && len(dups) > 0 {
				fresh = append(fresh, dups[0])
				dups = dups[1:]
			}
			block.Options = fresh
		}
	}
}

// syntheticOption is the last-resort filler for a block that lost every
// option. Its shape is stable so clients can render it like any other
// option.
func syntheticOption(plan *types.TripPlan, day *types.Day, section string) types.Option {
	destination := plan.To
	if destination == "" {
		destination = "city"
	}

	address := destination
	var lat, lng float64
	if day.Hotel != nil {
		if day.Hotel.Address != "" {
			address = day.Hotel.Address
		}
		lat = day.Hotel.Lat
		lng = day.Hotel.Lng
	}

	optType := "activity"
	if section == types.SectionLunch || section == types.SectionDinner {
		optType = "restaurant"
	}

	return types.Option{
		Name:                 strings.ToUpper(section) + " Activity in " + destination,
		Type:                 optType,
		Description:          "Explore " + section + " options in " + destination + ".",
		Address:              address,
		Lat:                  lat,
		Lng:                  lng,
		DistanceFromPrevious: "0.5 km",
		Transport:            "walk",
		Rating:               4.0,
		Label:                "Explore",
		Tags:                 []string{section},
	}
}
