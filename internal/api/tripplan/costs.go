package tripplan

import (
	"math"
	"strconv"
	"strings"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// PostProcessConfig tunes the cost pass. Zero values fall back to the
// defaults so callers can override thresholds selectively.
type PostProcessConfig struct {
	// Soft budget scaling is clamped to [ScaleMin, ScaleMax] so a tiny or
	// huge budget bends prices without destroying realism.
	ScaleMin float64
	ScaleMax float64

	// Budget status thresholds as percentages of budget used.
	UnderPct   float64
	OnTrackPct float64
	OverPct    float64

	// Per-option amounts are rounded to this step.
	RoundTo float64
}

// DefaultPostProcessConfig returns the thresholds the service ships with:
// under below 50%, on_track to 85%, over to 100%, way_over beyond.
func DefaultPostProcessConfig() PostProcessConfig {
	return PostProcessConfig{
		ScaleMin:   0.7,
		ScaleMax:   1.6,
		UnderPct:   50,
		OnTrackPct: 85,
		OverPct:    100,
		RoundTo:    5,
	}
}

func (c PostProcessConfig) withDefaults() PostProcessConfig {
	d := DefaultPostProcessConfig()
	if c.ScaleMin == 0 {
		c.ScaleMin = d.ScaleMin
	}
	if c.ScaleMax == 0 {
		c.ScaleMax = d.ScaleMax
	}
	if c.UnderPct == 0 {
		c.UnderPct = d.UnderPct
	}
	if c.OnTrackPct == 0 {
		c.OnTrackPct = d.OnTrackPct
	}
	if c.OverPct == 0 {
		c.OverPct = d.OverPct
	}
	if c.RoundTo == 0 {
		c.RoundTo = d.RoundTo
	}
	return c
}

func tierMultiplier(travelType string) float64 {
	switch strings.ToLower(strings.TrimSpace(travelType)) {
	case "economy", "budget", "low":
		return 0.6
	case "premium":
		return 1.8
	case "luxury", "high":
		return 3.5
	default: // comfort / moderate
		return 1.0
	}
}

func baseCostForType(optType, section string) float64 {
	t := strings.ToLower(optType)
	switch {
	case strings.Contains(t, "cafe"), strings.Contains(t, "coffee"), strings.Contains(t, "bakery"):
		return 12
	case strings.Contains(t, "restaurant"), strings.Contains(t, "bistro"), section == types.SectionDinner:
		return 40
	case section == types.SectionLunch:
		return 25
	case strings.Contains(t, "museum"), strings.Contains(t, "gallery"):
		return 25
	case strings.Contains(t, "tour"), strings.Contains(t, "cruise"):
		return 60
	case strings.Contains(t, "bar"), strings.Contains(t, "lounge"), strings.Contains(t, "club"):
		return 30
	case strings.Contains(t, "park"), strings.Contains(t, "street"), strings.Contains(t, "garden"):
		return 0
	default:
		return 20
	}
}

func costRangeForType(optType, section string) (float64, float64) {
	t := strings.ToLower(optType)
	switch {
	case strings.Contains(t, "cafe"), strings.Contains(t, "coffee"), strings.Contains(t, "bakery"):
		return 5, 25
	case strings.Contains(t, "restaurant"), strings.Contains(t, "bistro"), section == types.SectionDinner:
		return 15, 120
	case section == types.SectionLunch:
		return 10, 50
	case strings.Contains(t, "museum"), strings.Contains(t, "gallery"):
		return 10, 40
	case strings.Contains(t, "tour"), strings.Contains(t, "cruise"):
		return 30, 200
	case strings.Contains(t, "bar"), strings.Contains(t, "lounge"), strings.Contains(t, "club"):
		return 15, 80
	case strings.Contains(t, "park"), strings.Contains(t, "street"), strings.Contains(t, "garden"):
		return 0, 20
	default:
		return 10, 80
	}
}

// deriveTransport builds a usable transport hint from a distance string
// like "1.2 km" or "0.4 mi" when the model left transport empty.
func deriveTransport(distance string) string {
	d := parseLeadingNumber(distance)
	if d == 0 {
		return "Walk (same location or very close)"
	}
	if strings.Contains(strings.ToLower(distance), "km") {
		switch {
		case d <= 1:
			return "Walk 10-15 minutes (best option)"
		case d <= 3:
			return "Walk or short public transit ride"
		case d <= 8:
			return "Taxi/Uber or public transit ~10-25 minutes"
		default:
			return "Taxi/Uber ~20-30 minutes"
		}
	}
	switch {
	case d <= 0.6:
		return "Walk 5-10 minutes (best option)"
	case d <= 2:
		return "Walk or short public transit ride"
	case d <= 5:
		return "Taxi/Uber or public transit ~10-20 minutes"
	default:
		return "Taxi/Uber ~20-30 minutes"
	}
}

func parseLeadingNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func defaultDuration(section string) int {
	switch section {
	case types.SectionLunch:
		return 60
	case types.SectionDinner:
		return 90
	case types.SectionMorning, types.SectionAfternoon:
		return 90
	default:
		return 60
	}
}

// PostProcessCosts makes every option's cost realistic and derives the
// trip cost summary. Costs the model supplied are clamped into the
// tier-scaled range for the option's type; missing transport, distance,
// and duration get sane defaults; finally all amounts are softly scaled
// toward the user budget and summed.
func PostProcessCosts(plan *types.TripPlan, req types.TripPlanRequest, cfg PostProcessConfig) {
	if plan == nil {
		return
	}
	cfg = cfg.withDefaults()

	currency := defaultCurrency(req.Currency)
	mult := tierMultiplier(req.TravelType)

	for i := range plan.Days {
		for j := range plan.Days[i].Blocks {
			block := &plan.Days[i].Blocks[j]
			for k := range block.Options {
				opt := &block.Options[k]

				if opt.DurationMin == 0 {
					opt.DurationMin = defaultDuration(block.Section)
				}
				if strings.TrimSpace(opt.DistanceFromPrevious) == "" {
					opt.DistanceFromPrevious = "~1 km"
				}
				if strings.TrimSpace(opt.Transport) == "" {
					opt.Transport = deriveTransport(opt.DistanceFromPrevious)
				}

				base := baseCostForType(opt.Type, block.Section) * mult
				minCost, maxCost := costRangeForType(opt.Type, block.Section)
				minCost *= mult
				maxCost *= mult

				amount := opt.Cost.Amount
				if amount <= 0 && base > 0 {
					amount = base
				}
				amount = math.Max(minCost, math.Min(maxCost, amount))
				amount = roundToStep(amount, cfg.RoundTo)

				opt.Cost = types.Money{Amount: amount, Currency: firstNonEmpty(opt.Cost.Currency, currency)}
			}
		}
	}

	applySoftBudgetScaling(plan, req, cfg)
	plan.CostSummary = buildCostSummary(plan, req, cfg)
}

// applySoftBudgetScaling nudges all non-zero option costs so the implied
// per-day spend approaches budget/days, clamped to [ScaleMin, ScaleMax].
func applySoftBudgetScaling(plan *types.TripPlan, req types.TripPlanRequest, cfg PostProcessConfig) {
	if req.Budget <= 0 || len(plan.Days) == 0 {
		return
	}

	var total float64
	var count int
	for _, day := range plan.Days {
		for _, block := range day.Blocks {
			for _, opt := range block.Options {
				if opt.Cost.Amount > 0 {
					total += opt.Cost.Amount
					count++
				}
			}
		}
	}
	if count == 0 {
		return
	}

	targetPerOption := req.Budget / float64(len(plan.Days))
	basePerOption := total / float64(count)
	if basePerOption <= 0 {
		return
	}

	scale := targetPerOption / basePerOption
	scale = math.Max(cfg.ScaleMin, math.Min(cfg.ScaleMax, scale))

	for i := range plan.Days {
		for j := range plan.Days[i].Blocks {
			for k := range plan.Days[i].Blocks[j].Options {
				opt := &plan.Days[i].Blocks[j].Options[k]
				if opt.Cost.Amount > 0 {
					opt.Cost.Amount = math.Round(opt.Cost.Amount * scale)
				}
			}
		}
	}
}

// buildCostSummary derives totals from the finished itinerary. Each block
// contributes its first option (the top pick); lunch and dinner count as
// food, everything else as activities. Transport is a flat per-day
// estimate keyed on the requested transport preference.
func buildCostSummary(plan *types.TripPlan, req types.TripPlanRequest, cfg PostProcessConfig) *types.CostSummary {
	summary := &types.CostSummary{Budget: req.Budget}

	if plan.Flight != nil {
		summary.TotalFlightCost = plan.Flight.AverageCost
	}

	for _, day := range plan.Days {
		if day.Hotel != nil {
			summary.TotalHotelCost += day.Hotel.NightlyPrice.Amount
		}
		for _, block := range day.Blocks {
			if len(block.Options) == 0 {
				continue
			}
			amount := block.Options[0].Cost.Amount
			if block.Section == types.SectionLunch || block.Section == types.SectionDinner {
				summary.TotalFoodCost += amount
			} else {
				summary.TotalActivitiesCost += amount
			}
		}
	}

	summary.TotalTransportCost = transportCostPerDay(req.TransportPreference) * float64(len(plan.Days))

	summary.TotalEstimatedCost = summary.TotalFlightCost +
		summary.TotalHotelCost +
		summary.TotalTransportCost +
		summary.TotalFoodCost +
		summary.TotalActivitiesCost

	if req.Budget > 0 {
		summary.BudgetUsedPercent = math.Round(summary.TotalEstimatedCost / req.Budget * 100)
	}

	switch {
	case req.Budget <= 0:
		summary.BudgetStatus = types.BudgetOnTrack
	case summary.BudgetUsedPercent < cfg.UnderPct:
		summary.BudgetStatus = types.BudgetUnder
	case summary.BudgetUsedPercent <= cfg.OnTrackPct:
		summary.BudgetStatus = types.BudgetOnTrack
	case summary.BudgetUsedPercent <= cfg.OverPct:
		summary.BudgetStatus = types.BudgetOver
	default:
		summary.BudgetStatus = types.BudgetWayOver
	}

	return summary
}

func transportCostPerDay(preference string) float64 {
	switch strings.ToLower(strings.TrimSpace(preference)) {
	case "walk", "walking":
		return 0
	case "taxi", "taxi/uber", "car", "uber":
		return 25
	case "public", "metro", "subway", "transit", "bus":
		return 10
	default:
		return 15
	}
}

func roundToStep(amount, step float64) float64 {
	if step <= 0 {
		return math.Round(amount)
	}
	return math.Round(amount/step) * step
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
