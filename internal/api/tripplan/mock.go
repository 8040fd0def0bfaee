package tripplan

import (
	"fmt"
	"strings"
	"time"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// Seed names for the mock generator, cycled per day so consecutive days
// differ. The output is fully deterministic for a given request.
var mockSeeds = map[string][]string{
	"landmark":   {"Landmark", "Memorial", "Tower", "Gate", "Square"},
	"museum":     {"Museum", "Gallery", "Exhibition Hall", "Heritage Center"},
	"restaurant": {"Bistro", "Grill", "Kitchen", "Noodle House", "Sushi Bar"},
	"cafe":       {"Cafe", "Coffee Roasters", "Tea House", "Bakery"},
	"bar":        {"Bar", "Lounge", "Jazz Club", "Rooftop"},
	"viewpoint":  {"Skydeck", "Viewpoint", "Scenic Point"},
	"market":     {"Night Market", "Old Market", "Riverside Market"},
}

// BuildMockTripPlan is the guaranteed fallback: a complete plan built from
// the request alone, with every canonical block carrying two options. No
// I/O, no randomness, never fails.
func BuildMockTripPlan(req types.TripPlanRequest) *types.TripPlan {
	days := dayCount(req.StartDate, req.EndDate)
	currency := defaultCurrency(req.Currency)
	destination := req.To
	if destination == "" {
		destination = "Destination"
	}

	plan := &types.TripPlan{
		From:      req.From,
		To:        req.To,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Language:  req.Language,
		Flight: &types.Flight{
			AverageCost:      1200,
			Currency:         currency,
			Duration:         "11h 45m",
			DepartureAirport: airportCode(req.From),
			ArrivalAirport:   airportCode(req.To),
			Notes:            "Estimated fare, not a live quote.",
		},
		TravelStyle: &types.TravelStyle{
			Type:    req.TravelType,
			Summary: fmt.Sprintf("A %d-day %s trip to %s.", days, firstNonEmpty(req.TravelType, "comfort"), destination),
		},
		Hotels: uniqueHotels(req.HotelPerDay),
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		start = time.Now().UTC()
	}

	for i := 0; i < days; i++ {
		day := types.Day{
			Day:   i + 1,
			Date:  start.AddDate(0, 0, i).Format(dateLayout),
			Hotel: hotelForDay(req.HotelPerDay, i),
		}
		if day.Hotel == nil {
			day.Hotel = &types.Hotel{
				Name:    destination + " Hotel",
				Address: destination,
			}
		}

		for _, section := range types.BlockOrder {
			day.Blocks = append(day.Blocks, types.Block{
				Section: section,
				Time:    defaultTimeForSection(section),
				Options: mockOptions(destination, section, req.TransportPreference, currency, i, day.Hotel),
			})
		}
		plan.Days = append(plan.Days, day)
	}

	plan.CostSummary = buildCostSummary(plan, req, DefaultPostProcessConfig())
	return plan
}

func mockOptions(destination, section, transport, currency string, dayIdx int, hotel *types.Hotel) []types.Option {
	if transport == "" {
		transport = "walk"
	}

	kindA, kindB := mockKindsForSection(section)
	first := mockOption(destination, section, kindA, transport, currency, dayIdx, 0, hotel)
	second := mockOption(destination, section, kindB, transport, currency, dayIdx, 1, hotel)
	return []types.Option{first, second}
}

// mockKindsForSection keeps meals in restaurants and nights in bars, same
// rules the live prompts impose.
func mockKindsForSection(section string) (string, string) {
	switch section {
	case types.SectionLunch, types.SectionDinner:
		return "restaurant", "restaurant"
	case types.SectionNight, types.SectionLateNight:
		return "bar", "market"
	case types.SectionMidday:
		return "viewpoint", "cafe"
	case types.SectionEvening:
		return "market", "viewpoint"
	default:
		return "landmark", "museum"
	}
}

// mockSeedOffset staggers seed selection so two sections sharing a kind
// within one day pick different names. Lunch and dinner both draw
// restaurants; without the dinner offset they would repeat the pair.
func mockSeedOffset(section string) int {
	switch section {
	case types.SectionDinner:
		return 2
	case types.SectionAfternoon, types.SectionNight:
		return 1
	default:
		return 0
	}
}

func mockOption(destination, section, kind, transport, currency string, dayIdx, slot int, hotel *types.Hotel) types.Option {
	seeds := mockSeeds[kind]
	name := fmt.Sprintf("%s %s D%d", destination, seeds[(dayIdx+slot+mockSeedOffset(section))%len(seeds)], dayIdx+1)

	cost := mockCost(kind, section)
	opt := types.Option{
		Name:                 name,
		Type:                 kind,
		Description:          fmt.Sprintf("Well-rated %s in %s.", kind, destination),
		FamousFor:            "A " + kind + " visitors come back for",
		WhatToDo:             sectionActivity(section),
		Address:              destination,
		DistanceFromPrevious: fmt.Sprintf("%.1f km", 0.3+0.2*float64(slot+1)),
		Transport:            transport,
		Cost:                 types.Money{Amount: cost, Currency: currency},
		Rating:               4.0 + 0.1*float64((dayIdx+slot)%5),
		Label:                mockLabel(slot),
		Tags:                 []string{section},
	}
	if hotel != nil {
		opt.Lat = hotel.Lat
		opt.Lng = hotel.Lng
		if hotel.Address != "" {
			opt.Address = hotel.Address
		}
	}
	if kind == "restaurant" {
		opt.MustTryDish = "Chef special"
	}
	if kind == "cafe" || kind == "bar" {
		opt.RecommendedDrink = "House pick"
	}
	return opt
}

func mockCost(kind, section string) float64 {
	switch kind {
	case "restaurant":
		if section == types.SectionDinner {
			return 45
		}
		return 30
	case "cafe":
		return 8
	case "bar":
		return 20
	case "museum":
		return 15
	default:
		return 0
	}
}

func mockLabel(slot int) string {
	if slot == 0 {
		return "Top Pick"
	}
	return "Relaxed Option"
}

func sectionActivity(section string) string {
	switch section {
	case types.SectionLunch:
		return "Lunch"
	case types.SectionDinner:
		return "Dinner"
	case types.SectionNight, types.SectionLateNight:
		return "Drinks and nightlife"
	default:
		return "Sightseeing and photos"
	}
}

// airportCode keeps only the city part of a "City, Country" input, the
// same display shorthand the mock flight card uses.
func airportCode(place string) string {
	if i := strings.Index(place, ","); i > 0 {
		return strings.TrimSpace(place[:i])
	}
	if place == "" {
		return "N/A"
	}
	return place
}
