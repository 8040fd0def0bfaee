// Package hotels suggests destination hotels for a travel tier, asking a
// model for real properties and falling back to a deterministic list
// whenever the model cannot answer.
package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderly-ai/wanderly-backend/internal/api/completions"
	"github.com/wanderly-ai/wanderly-backend/internal/api/llmjson"
	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// SuggestRequest asks for hotel options in a destination for a date range
// and travel tier.
type SuggestRequest struct {
	To         string  `json:"to"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	TravelType string  `json:"travelType"`
	Budget     float64 `json:"budget"`
	Language   string  `json:"language"`
}

// Service returns hotel suggestions; the bool reports whether the
// deterministic mock answered.
type Service interface {
	SuggestHotels(ctx context.Context, req SuggestRequest) ([]types.Hotel, bool)
}

var _ Service = (*ServiceImpl)(nil)

// Config carries the model parameters for the suggestion call and its
// repair re-prompt.
type Config struct {
	SuggestParams completions.Params
	RepairParams  completions.Params
	CacheTTL      time.Duration
	Pricing       PricingStrategy
}

func DefaultConfig() Config {
	return Config{
		SuggestParams: completions.Params{
			Model:       "openai/gpt-oss-20b",
			Temperature: 0.35,
			MaxTokens:   4000,
		},
		RepairParams: completions.Params{
			Model:       "openai/gpt-oss-20b",
			Temperature: 0.2,
			MaxTokens:   4000,
		},
		CacheTTL: 30 * time.Minute,
		Pricing:  TierPricing{},
	}
}

type ServiceImpl struct {
	logger *slog.Logger
	client completions.Client
	cache  *cache.Cache
	cfg    Config
}

func NewServiceImpl(client completions.Client, cfg Config, logger *slog.Logger) *ServiceImpl {
	if cfg.Pricing == nil {
		cfg.Pricing = TierPricing{}
	}
	return &ServiceImpl{
		logger: logger,
		client: client,
		cache:  cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		cfg:    cfg,
	}
}

// SuggestHotels asks the model for 4-10 real hotels matching the tier.
// Anything short of a usable answer degrades to the mock list; the caller
// always gets hotels.
func (s *ServiceImpl) SuggestHotels(ctx context.Context, req SuggestRequest) ([]types.Hotel, bool) {
	ctx, span := otel.Tracer("HotelService").Start(ctx, "SuggestHotels")
	defer span.End()
	span.SetAttributes(
		attribute.String("hotel.destination", req.To),
		attribute.String("hotel.travel_type", req.TravelType),
	)

	l := s.logger.With(slog.String("method", "SuggestHotels"), slog.String("destination", req.To))

	key := cacheKey(req)
	if s.cfg.CacheTTL > 0 {
		if cached, found := s.cache.Get(key); found {
			if hotels, ok := cached.([]types.Hotel); ok {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				span.SetStatus(codes.Ok, "Cache hit")
				return hotels, false
			}
		}
	}

	if s.client == nil {
		l.WarnContext(ctx, "No completion client configured, serving mock hotels")
		span.SetStatus(codes.Ok, "Mock hotels served")
		return BuildMockHotels(req.To, req.TravelType, 5, s.cfg.Pricing), true
	}

	raw := s.client.Complete(ctx, buildHotelPrompt(req), s.cfg.SuggestParams)
	hotels := s.parseHotels(ctx, raw)
	if len(hotels) == 0 {
		l.WarnContext(ctx, "Hotel suggestion unusable, serving mock hotels")
		span.SetStatus(codes.Ok, "Mock hotels served")
		return BuildMockHotels(req.To, req.TravelType, 5, s.cfg.Pricing), true
	}

	normalizePrices(hotels, req.TravelType, s.cfg.Pricing)

	if s.cfg.CacheTTL > 0 {
		s.cache.Set(key, hotels, s.cfg.CacheTTL)
	}
	l.InfoContext(ctx, "Hotel suggestions generated", slog.Int("count", len(hotels)))
	span.SetStatus(codes.Ok, "Hotels returned")
	return hotels, false
}

func (s *ServiceImpl) parseHotels(ctx context.Context, raw string) []types.Hotel {
	if raw == "" {
		return nil
	}
	doc := llmjson.Recover(ctx, s.client, raw, s.cfg.RepairParams)
	if doc == nil {
		return nil
	}
	var wrapped struct {
		Hotels []types.Hotel `json:"hotels"`
	}
	if err := json.Unmarshal(doc, &wrapped); err != nil {
		return nil
	}
	kept := wrapped.Hotels[:0]
	for _, h := range wrapped.Hotels {
		if strings.TrimSpace(h.Name) != "" {
			kept = append(kept, h)
		}
	}
	return kept
}

// normalizePrices clamps model-quoted nightly prices into the tier range
// and rounds to a tens step, so one hallucinated rate does not distort
// the list.
func normalizePrices(hotels []types.Hotel, travelType string, pricing PricingStrategy) {
	min, max := pricing.NightlyRange(travelType)
	for i := range hotels {
		amount := hotels[i].NightlyPrice.Amount
		if amount <= 0 {
			amount = (min + max) / 2
		}
		if amount < min {
			amount = min
		}
		if amount > max {
			amount = max
		}
		amount = float64(int(amount/10+0.5)) * 10
		hotels[i].NightlyPrice.Amount = amount
		if hotels[i].NightlyPrice.Currency == "" {
			hotels[i].NightlyPrice.Currency = "USD"
		}
	}
}

func cacheKey(req SuggestRequest) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		strings.ToLower(strings.TrimSpace(req.To)),
		strings.ToLower(strings.TrimSpace(req.TravelType)),
		req.StartDate, req.EndDate,
	)
}

func buildHotelPrompt(req SuggestRequest) string {
	budget := "unknown"
	if req.Budget > 0 {
		budget = fmt.Sprintf("%.0f", req.Budget)
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are Wanderly AI, a JSON-only hotel recommendation engine.

STRICT RULES:
1. REAL hotels only: real names, real addresses, real areas in or near "%s".
2. JSON-SAFE: single-line strings only, no line breaks, no bullets.
3. Match hotel class and prices to travelType:
   - economy -> 2-3 star, approx 60-180 USD/night
   - comfort -> 3-4 star, approx 140-280 USD/night
   - premium -> 4-5 star, approx 280-700 USD/night
   - luxury -> 5 star, high-end only, approx 800-2500 USD/night
4. Prices must be realistic for "%s" but clearly different between tiers.
5. Output ONLY JSON matching the schema. No explanations.

TASK:
User is visiting "%s" from %s to %s.
Travel type: "%s".
Budget: %s USD.
Language: "%s".

Return 4-10 options.

Each hotel must include: id (unique string like "hotel_1"), name, address,
area (main neighborhood), lat (number), lng (number), nightlyPrice (USD,
number), currency ("USD"), rating (number), url, description (single line).

OUTPUT FORMAT:
{
  "hotels": [
    {
      "id": "hotel_1",
      "name": "Example Hotel",
      "address": "123 Main St, Example City",
      "area": "Downtown",
      "lat": 35.123,
      "lng": 139.456,
      "nightlyPrice": 120,
      "currency": "USD",
      "rating": 4.3,
      "url": "https://example.com",
      "description": "Short single-line description."
    }
  ]
}

ONLY output valid JSON.`,
		req.To, req.To, req.To, req.StartDate, req.EndDate,
		req.TravelType, budget, req.Language,
	))
}
