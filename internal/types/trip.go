package types

import (
	"encoding/json"
	"strings"
)

// Canonical block sections, in the order the itinerary UI renders them.
const (
	SectionMorning   = "morning"
	SectionMidday    = "midday"
	SectionLunch     = "lunch"
	SectionAfternoon = "afternoon"
	SectionEvening   = "evening"
	SectionDinner    = "dinner"
	SectionNight     = "night"
	SectionLateNight = "late_night"
)

// BlockOrder is the canonical section sequence every day must carry.
var BlockOrder = []string{
	SectionMorning,
	SectionMidday,
	SectionLunch,
	SectionAfternoon,
	SectionEvening,
	SectionDinner,
	SectionNight,
	SectionLateNight,
}

// Money is the single cost representation used across the pipeline.
// Older model outputs carry costs either as a bare number or as an
// {amount, currency} object; both are accepted on input and only the
// tagged form is emitted.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
}

func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*m = Money{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		m.Amount = obj.Amount
		m.Currency = obj.Currency
		return nil
	}
	var amount float64
	if err := json.Unmarshal(data, &amount); err != nil {
		return err
	}
	m.Amount = amount
	return nil
}

func (m Money) IsZero() bool { return m.Amount == 0 && m.Currency == "" }

// Option is a candidate place or activity proposed for a block.
type Option struct {
	Name                 string   `json:"name"`
	Type                 string   `json:"type"`
	Description          string   `json:"description,omitempty"`
	FamousFor            string   `json:"famousFor,omitempty"`
	WhatToDo             string   `json:"whatToDo,omitempty"`
	Address              string   `json:"address,omitempty"`
	Lat                  float64  `json:"lat,omitempty"`
	Lng                  float64  `json:"lng,omitempty"`
	DistanceFromPrevious string   `json:"distanceFromPrevious,omitempty"`
	Transport            string   `json:"transport,omitempty"`
	DurationMin          int      `json:"durationMin,omitempty"`
	Cost                 Money    `json:"cost"`
	MustTryDish          string   `json:"mustTryDish,omitempty"`
	RecommendedDrink     string   `json:"recommendedDrink,omitempty"`
	Tip                  string   `json:"tip,omitempty"`
	Rating               float64  `json:"rating,omitempty"`
	Label                string   `json:"label,omitempty"`
	Tags                 []string `json:"tags,omitempty"`
}

// optionWire mirrors Option but keeps both historical cost keys so either
// shape coming back from a model is reconciled at the decoding boundary.
type optionWire struct {
	Name                 string   `json:"name"`
	Type                 string   `json:"type"`
	Description          string   `json:"description"`
	FamousFor            string   `json:"famousFor"`
	WhatToDo             string   `json:"whatToDo"`
	Address              string   `json:"address"`
	Lat                  float64  `json:"lat"`
	Lng                  float64  `json:"lng"`
	DistanceFromPrevious string   `json:"distanceFromPrevious"`
	Transport            string   `json:"transport"`
	DurationMin          int      `json:"durationMin"`
	EstimatedCost        *Money   `json:"estimatedCost"`
	CostEstimate         *Money   `json:"cost_estimate"`
	Cost                 *Money   `json:"cost"`
	MustTryDish          string   `json:"mustTryDish"`
	RecommendedDrink     string   `json:"recommendedDrink"`
	Tip                  string   `json:"tip"`
	Rating               float64  `json:"rating"`
	Label                string   `json:"label"`
	Tags                 []string `json:"tags"`
}

func (o *Option) UnmarshalJSON(data []byte) error {
	var w optionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*o = Option{
		Name:                 w.Name,
		Type:                 w.Type,
		Description:          w.Description,
		FamousFor:            w.FamousFor,
		WhatToDo:             w.WhatToDo,
		Address:              w.Address,
		Lat:                  w.Lat,
		Lng:                  w.Lng,
		DistanceFromPrevious: w.DistanceFromPrevious,
		Transport:            w.Transport,
		DurationMin:          w.DurationMin,
		MustTryDish:          w.MustTryDish,
		RecommendedDrink:     w.RecommendedDrink,
		Tip:                  w.Tip,
		Rating:               w.Rating,
		Label:                w.Label,
		Tags:                 w.Tags,
	}
	switch {
	case w.Cost != nil && !w.Cost.IsZero():
		o.Cost = *w.Cost
	case w.CostEstimate != nil && !w.CostEstimate.IsZero():
		o.Cost = *w.CostEstimate
	case w.EstimatedCost != nil:
		o.Cost = *w.EstimatedCost
	}
	return nil
}

// NormalizedName is the comparison key for deduplication: two options with
// the same normalized name are the same place regardless of other fields.
func (o Option) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(o.Name))
}

// Block is a named time-of-day slot holding candidate options.
type Block struct {
	Section string   `json:"section"`
	Time    string   `json:"time"`
	Options []Option `json:"options"`
}

// Hotel is owned by the TripPlan and referenced per day.
type Hotel struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	Address      string  `json:"address,omitempty"`
	Area         string  `json:"area,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lng          float64 `json:"lng,omitempty"`
	NightlyPrice Money   `json:"nightlyPrice"`
	Rating       float64 `json:"rating,omitempty"`
	URL          string  `json:"url,omitempty"`
	Description  string  `json:"description,omitempty"`
}

type hotelWire struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Area         string  `json:"area"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	NightlyPrice *Money  `json:"nightlyPrice"`
	Currency     string  `json:"currency"`
	Rating       float64 `json:"rating"`
	URL          string  `json:"url"`
	Description  string  `json:"description"`
}

func (h *Hotel) UnmarshalJSON(data []byte) error {
	var w hotelWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*h = Hotel{
		ID:          w.ID,
		Name:        w.Name,
		Address:     w.Address,
		Area:        w.Area,
		Lat:         w.Lat,
		Lng:         w.Lng,
		Rating:      w.Rating,
		URL:         w.URL,
		Description: w.Description,
	}
	if w.NightlyPrice != nil {
		h.NightlyPrice = *w.NightlyPrice
	}
	if h.NightlyPrice.Currency == "" && w.Currency != "" {
		h.NightlyPrice.Currency = w.Currency
	}
	return nil
}

// Day is one itinerary day; Day numbers are 1-based and match position.
type Day struct {
	Day    int     `json:"day"`
	Date   string  `json:"date"`
	Hotel  *Hotel  `json:"hotel,omitempty"`
	Blocks []Block `json:"blocks"`
}

// Flight carries the trip-level flight estimate.
type Flight struct {
	AverageCost      float64 `json:"averageCost"`
	Currency         string  `json:"currency,omitempty"`
	Duration         string  `json:"duration,omitempty"`
	DepartureAirport string  `json:"departureAirport,omitempty"`
	ArrivalAirport   string  `json:"arrivalAirport,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

type TravelStyle struct {
	Type    string `json:"type"`
	Summary string `json:"summary,omitempty"`
}

// CostSummary is derived by the post-processor, never authored directly.
type CostSummary struct {
	TotalFlightCost     float64 `json:"totalFlightCost"`
	TotalHotelCost      float64 `json:"totalHotelCost"`
	TotalTransportCost  float64 `json:"totalTransportCost"`
	TotalFoodCost       float64 `json:"totalFoodCost"`
	TotalActivitiesCost float64 `json:"totalActivitiesCost"`
	TotalEstimatedCost  float64 `json:"totalEstimatedCost"`
	Budget              float64 `json:"budget"`
	BudgetUsedPercent   float64 `json:"budgetUsedPercent"`
	BudgetStatus        string  `json:"budgetStatus"`
}

// Budget status values emitted in CostSummary.
const (
	BudgetUnder   = "under"
	BudgetOnTrack = "on_track"
	BudgetOver    = "over"
	BudgetWayOver = "way_over"
)

// TripPlan is the root document built once per planning request and
// mutated in place through the pipeline stages.
type TripPlan struct {
	From        string       `json:"from,omitempty"`
	To          string       `json:"to"`
	StartDate   string       `json:"startDate,omitempty"`
	EndDate     string       `json:"endDate,omitempty"`
	Language    string       `json:"language,omitempty"`
	Flight      *Flight      `json:"flight,omitempty"`
	TravelStyle *TravelStyle `json:"travelStyle,omitempty"`
	Hotels      []Hotel      `json:"hotels"`
	Days        []Day        `json:"days"`
	CostSummary *CostSummary `json:"costSummary,omitempty"`
}

// HotelPerDay is the caller-supplied, pre-resolved hotel assignment
// (index 0 = day 1).
type HotelPerDay struct {
	Day          int     `json:"day,omitempty"`
	Date         string  `json:"date,omitempty"`
	Name         string  `json:"name"`
	Address      string  `json:"address,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lng          float64 `json:"lng,omitempty"`
	NightlyPrice float64 `json:"nightlyPrice,omitempty"`
	Currency     string  `json:"currency,omitempty"`
}

// Hotel converts a per-day assignment into the trip-owned representation.
func (h HotelPerDay) Hotel() Hotel {
	return Hotel{
		Name:         h.Name,
		Address:      h.Address,
		Lat:          h.Lat,
		Lng:          h.Lng,
		NightlyPrice: Money{Amount: h.NightlyPrice, Currency: h.Currency},
	}
}

// TripPlanRequest is the request shape consumed by the pipeline.
type TripPlanRequest struct {
	From                string        `json:"from"`
	To                  string        `json:"to"`
	StartDate           string        `json:"startDate"`
	EndDate             string        `json:"endDate"`
	TravelType          string        `json:"travelType"`
	TransportPreference string        `json:"transportPreference"`
	Budget              float64       `json:"budget"`
	Currency            string        `json:"currency"`
	Language            string        `json:"language"`
	HotelPerDay         []HotelPerDay `json:"hotelPerDay"`
}

// TripPlanResponse wraps the plan with the mock flag: mock=true means live
// generation failed somewhere and the deterministic fallback answered.
type TripPlanResponse struct {
	Plan *TripPlan `json:"plan"`
	Mock bool      `json:"mock"`
}
