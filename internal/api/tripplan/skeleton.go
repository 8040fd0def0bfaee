package tripplan

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/wanderly-ai/wanderly-backend/internal/api/llmjson"
	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

const dateLayout = "2006-01-02"

// dayCount derives the trip length from the date range. Unparseable or
// inverted ranges collapse to a single day rather than failing.
func dayCount(startDate, endDate string) int {
	start, err1 := time.Parse(dateLayout, startDate)
	end, err2 := time.Parse(dateLayout, endDate)
	if err1 != nil || err2 != nil {
		return 1
	}
	diff := int(math.Ceil(end.Sub(start).Hours() / 24))
	if diff < 1 {
		return 1
	}
	return diff
}

// buildSkeleton produces the structural trip document: the right number of
// days with dates and hotels, every block empty. The model attempt exists
// because it sometimes contributes a usable flight estimate and travel
// style summary; the local skeleton is the guaranteed floor.
func (s *ServiceImpl) buildSkeleton(ctx context.Context, req types.TripPlanRequest, days int) *types.TripPlan {
	raw := s.client.Complete(ctx, buildSkeletonPrompt(req), s.cfg.SkeletonParams)
	if raw != "" {
		if doc := llmjson.Recover(ctx, s.client, raw, s.cfg.RepairParams); doc != nil {
			var plan types.TripPlan
			if err := json.Unmarshal(doc, &plan); err == nil && len(plan.Days) == days {
				s.logger.DebugContext(ctx, "Skeleton produced by model", slog.Int("days", days))
				return &plan
			}
		}
	}

	s.logger.InfoContext(ctx, "Falling back to local skeleton", slog.Int("days", days))
	return buildLocalSkeleton(req, days)
}

// buildLocalSkeleton is deterministic and never fails: days with dates
// walked forward from the start date, requested hotels attached, all
// blocks empty. The normalizer fills in the canonical block set.
func buildLocalSkeleton(req types.TripPlanRequest, days int) *types.TripPlan {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		start = time.Now().UTC()
	}

	plan := &types.TripPlan{
		From:      req.From,
		To:        req.To,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Language:  req.Language,
		Flight: &types.Flight{
			Currency: defaultCurrency(req.Currency),
		},
		TravelStyle: &types.TravelStyle{Type: req.TravelType},
		Hotels:      uniqueHotels(req.HotelPerDay),
		Days:        make([]types.Day, 0, days),
	}

	for i := 0; i < days; i++ {
		plan.Days = append(plan.Days, types.Day{
			Day:    i + 1,
			Date:   start.AddDate(0, 0, i).Format(dateLayout),
			Hotel:  hotelForDay(req.HotelPerDay, i),
			Blocks: []types.Block{},
		})
	}

	NormalizeDays(plan, req.HotelPerDay)
	return plan
}

func uniqueHotels(hotelPerDay []types.HotelPerDay) []types.Hotel {
	seen := make(map[string]bool, len(hotelPerDay))
	hotels := make([]types.Hotel, 0, len(hotelPerDay))
	for _, h := range hotelPerDay {
		if h.Name == "" || seen[h.Name] {
			continue
		}
		seen[h.Name] = true
		hotels = append(hotels, h.Hotel())
	}
	return hotels
}

func defaultCurrency(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}
