package tripplan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// Prompt builders are pure functions over the request. The skeleton prompt
// asks a small model for structure only; the real-fill prompt hands the
// normalized skeleton to a larger model and forbids structural edits.

func buildSkeletonPrompt(req types.TripPlanRequest) string {
	hotelJSON, err := json.Marshal(req.HotelPerDay)
	if err != nil {
		hotelJSON = []byte("[]")
	}

	budget := "unknown"
	if req.Budget > 0 {
		budget = fmt.Sprintf("%.0f", req.Budget)
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are a JSON-only planner.

TASK:
- Build a TRIP SKELETON for %s -> %s.
- Do NOT invent any real place names.
- Do NOT add any activity options.
- Your job is ONLY the structure: days, dates, hotels, and empty blocks per day.

RULES:
- Output ONLY valid JSON, no markdown, no comments.
- ALL text fields must be single-line strings.
- Each day MUST have these 8 blocks in this exact order:
  1) morning     ("08:00 - 10:30")
  2) midday      ("10:45 - 12:00")
  3) lunch       ("12:00 - 13:30")
  4) afternoon   ("14:00 - 16:30")
  5) evening     ("16:30 - 18:30")
  6) dinner      ("18:30 - 20:00")
  7) night       ("20:00 - 23:30")
  8) late_night  ("23:30 - 03:00")
- For this skeleton, set "options": [] for every block.
- Use the USER-SELECTED HOTELS exactly as given.

TRIP INFO:
- From: "%s"
- To: "%s"
- Start date: "%s"
- End date: "%s"
- Travel type: "%s"
- Transport preference: "%s"
- Budget: "%s USD"
- Language: "%s"

USER-SELECTED HOTELS (one per day, index 0 = day 1):
%s

REQUIRED JSON SHAPE:
{
  "flight": {
    "averageCost": 0,
    "currency": "USD",
    "duration": "",
    "departureAirport": "",
    "arrivalAirport": "",
    "notes": ""
  },
  "travelStyle": {
    "type": "%s",
    "summary": ""
  },
  "hotels": [ ...copy unique hotels from the list above... ],
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "hotel": { ...hotel for day 1... },
      "blocks": [
        { "time": "08:00 - 10:30", "section": "morning",    "options": [] },
        { "time": "10:45 - 12:00", "section": "midday",     "options": [] },
        { "time": "12:00 - 13:30", "section": "lunch",      "options": [] },
        { "time": "14:00 - 16:30", "section": "afternoon",  "options": [] },
        { "time": "16:30 - 18:30", "section": "evening",    "options": [] },
        { "time": "18:30 - 20:00", "section": "dinner",     "options": [] },
        { "time": "20:00 - 23:30", "section": "night",      "options": [] },
        { "time": "23:30 - 03:00", "section": "late_night", "options": [] }
      ]
    }
  ],
  "costSummary": {
    "totalFlightCost": 0,
    "totalHotelCost": 0,
    "totalTransportCost": 0,
    "totalFoodCost": 0,
    "totalActivitiesCost": 0,
    "totalEstimatedCost": 0,
    "budget": %.0f,
    "budgetUsedPercent": 0,
    "budgetStatus": "on_track"
  }
}

Return ONLY JSON.`,
		req.From, req.To,
		req.From, req.To, req.StartDate, req.EndDate,
		req.TravelType, req.TransportPreference, budget, req.Language,
		string(hotelJSON),
		req.TravelType,
		req.Budget,
	))
}

func buildRealFillPrompt(req types.TripPlanRequest, skeleton *types.TripPlan) string {
	skeletonJSON, err := json.MarshalIndent(skeleton, "", "  ")
	if err != nil {
		skeletonJSON = []byte("{}")
	}

	budget := "unknown"
	if req.Budget > 0 {
		budget = fmt.Sprintf("%.0f", req.Budget)
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are Wanderly AI, a professional travel planner.

You are given a TRIP SKELETON in JSON. Your job is to FILL it with
REAL PLACES and realistic costs.

CRITICAL RULES - PRESERVE SKELETON STRUCTURE:
- KEEP THE EXACT SAME TOP-LEVEL STRUCTURE from the skeleton.
- Do NOT modify "hotels", "flight", "travelStyle", or day hotel objects.
- Do NOT remove or reorder days or blocks.
- ONLY MODIFY: block "options" - fill each block with 3-4 REAL places.
- NO free time, NO placeholders, NO fake names.
- Every option must be a real verified place inside the same city.
- NEVER leave "options": [].

DESTINATION INFO:
- From: "%s"
- To: "%s"
- Start date: "%s"
- End date: "%s"
- Travel type: "%s"
- Transport preference: "%s"
- Budget: "%s USD"
- Language: "%s"

BLOCK RULES:
- MORNING/MIDDAY/AFTERNOON/EVENING: activities, attractions, viewpoints, parks, museums, shopping areas (NOT restaurants).
- LUNCH/DINNER: restaurants only, priced for the travel type:
  * luxury: fine dining and Michelin-level restaurants, 150-400+ USD per person
  * premium: upscale restaurants, 80-200 USD per person
  * comfort: mid-range restaurants, 30-100 USD per person
  * economy: casual restaurants and street food, 10-30 USD per person
- NIGHT/LATE_NIGHT: nightlife - bars, speakeasies, night markets, live music venues (NOT dinner restaurants).

RESTAURANT DEDUPLICATION RULE (CRITICAL):
- NEVER repeat the same restaurant name across ANY day or meal time.
- Each restaurant may appear ONLY ONCE in the entire trip itinerary.
- If a restaurant is in lunch of Day 1, do NOT use it again anywhere.

OPTION FORMAT (for EVERY option):
- name (real place, no emojis)
- type ("restaurant" | "cafe" | "museum" | "bar" | "market" | "activity" | "viewpoint" | "street" | "garden" | "landmark")
- description (1-3 sentences, ONE LINE only)
- famousFor (one line)
- whatToDo (one line)
- address (real-world formatted address)
- lat (number), lng (number)
- distanceFromPrevious (string, like "0.4 mi" or "1.2 km")
- transport (string, like "walk", "metro", "taxi/Uber")
- estimatedCost (number in USD, per person, matching real-world pricing)
- mustTryDish (required for restaurants, else "")
- recommendedDrink (required for cafes and bars, else "")
- tip (one-line practical tip)
- rating (number 1.0-5.0)
- label ("Top Pick" | "Very Popular" | "Relaxed Option" | "Best for Photos" | "Budget Option")
- tags (array of 1-4 short tags)

COST RULES:
- Match prices to the destination's actual cost of living and the travel type.
- Only parks/streets/walks may have estimatedCost = 0.
- Compute costSummary for the whole trip: totalFlightCost, totalHotelCost,
  totalTransportCost, totalFoodCost, totalActivitiesCost, totalEstimatedCost,
  budget, budgetUsedPercent, budgetStatus ("under" | "on_track" | "over" | "way_over").

DUPLICATE RULE (STRICT):
- Do NOT repeat the same place name in different blocks or days.

SKELETON TO FILL (keep structure, fill options and costs):
%s

Return ONLY valid JSON. No markdown, no comments.`,
		req.From, req.To, req.StartDate, req.EndDate,
		req.TravelType, req.TransportPreference, budget, req.Language,
		string(skeletonJSON),
	))
}

// buildMicroFillPrompt asks for a few replacement options for one
// underfilled block and excludes names already present.
func buildMicroFillPrompt(destination, section, travelType string, existing []types.Option, needed int) string {
	names := make([]string, 0, len(existing))
	for _, o := range existing {
		if n := o.NormalizedName(); n != "" {
			names = append(names, n)
		}
	}
	excluded := "none"
	if len(names) > 0 {
		excluded = strings.Join(names, ", ")
	}
	if travelType == "" {
		travelType = "comfort"
	}

	typeGuidance := "restaurants, cafes, museums, parks, viewpoints, bars, activities"
	priceGuidance := ""

	tier := strings.ToLower(travelType)
	luxury := strings.Contains(tier, "luxury") || tier == "high"
	budget := strings.Contains(tier, "economy") || strings.Contains(tier, "budget") || tier == "low"

	switch section {
	case types.SectionEvening:
		typeGuidance = "activities, attractions, viewpoints, parks, shopping areas, cultural sites (NOT restaurants)"
	case types.SectionLunch, types.SectionDinner:
		typeGuidance = "restaurants only"
		switch {
		case luxury:
			priceGuidance = "\nPRICING: fine dining and Michelin-level restaurants only, 150-400+ USD per person. NO casual dining."
		case budget:
			priceGuidance = "\nPRICING: casual restaurants, street food, affordable local spots, 10-30 USD per person."
		default:
			priceGuidance = "\nPRICING: good mid-range restaurants, 30-100 USD per person."
		}
	case types.SectionNight, types.SectionLateNight:
		typeGuidance = "nightlife activities, bars, speakeasies, live music venues (NOT dinner restaurants)"
		if luxury {
			priceGuidance = "\nPRICING: high-end cocktail bars, rooftop lounges, exclusive venues."
		}
	}

	return strings.TrimSpace(fmt.Sprintf(`
Give me %d REAL, VERIFIED places for "%s" in %s.
Travel Type: %s%s
Rules:
- NO placeholders, NO "Suggested Activity", NO fake names.
- Do NOT repeat any of these names: %s.
- Only real %s.

Return STRICT JSON only, exactly in this shape:

{
  "options": [
    {
      "name": "string",
      "type": "string",
      "description": "1 sentence max, no new lines",
      "address": "string",
      "lat": 0,
      "lng": 0,
      "distanceFromPrevious": "0.4 mi",
      "transport": "walk",
      "estimatedCost": 15,
      "famousFor": "string",
      "whatToDo": "string",
      "mustTryDish": "string",
      "recommendedDrink": "string",
      "tip": "string",
      "rating": 4.5,
      "label": "Top Pick",
      "tags": ["string"]
    }
  ]
}

Return ONLY JSON, no explanation.`,
		needed, section, destination, travelType, priceGuidance, excluded, typeGuidance,
	))
}
