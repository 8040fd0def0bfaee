// Package placesearch answers free-text "pho near Hoan Kiem" style queries
// with Google Places results, crowd-based wait estimates, and bilingual
// AI summaries.
package placesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderly-ai/wanderly-backend/internal/api/completions"
)

var ErrNoResults = errors.New("no matching places")

const (
	maxSearchResults = 8
	resolveBiasM     = 30000
)

type SearchRequest struct {
	Location string `json:"location"`
	Query    string `json:"query"`
	Lang     string `json:"lang"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PlaceResult struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Rating           *float64    `json:"rating"`
	UserRatingsTotal int         `json:"user_ratings_total"`
	Coordinates      Coordinates `json:"coordinates"`
	PhotoRef         string      `json:"photoRef,omitempty"`
}

type WaitEstimate struct {
	NameEn               string `json:"name_en"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
}

type SearchResponse struct {
	Places      []PlaceResult  `json:"places"`
	AISummaryEn string         `json:"ai_summary_en"`
	AISummaryVi string         `json:"ai_summary_vi"`
	AIDetails   []WaitEstimate `json:"ai_details"`
}

type ResolveRequest struct {
	Query    string
	Location string
	Language string
	Type     string
}

type ResolvedPlace struct {
	PlaceID          string      `json:"place_id"`
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Rating           *float64    `json:"rating"`
	UserRatingsTotal int         `json:"user_ratings_total"`
	PriceLevel       *int        `json:"price_level"`
	Coordinates      Coordinates `json:"coordinates"`
	PhotoRef         string      `json:"photoRef,omitempty"`
	Phone            string      `json:"phone,omitempty"`
	Website          string      `json:"website,omitempty"`
	OpeningHours     []string    `json:"opening_hours,omitempty"`
}

// Config holds model parameters for the two summary passes.
type Config struct {
	SummaryParams   completions.Params
	TranslateParams completions.Params
}

func DefaultConfig() Config {
	return Config{
		SummaryParams: completions.Params{
			Model:       "gpt-4o-mini",
			Temperature: 0.4,
			MaxTokens:   1024,
			System:      "You are a concise travel writer.",
		},
		TranslateParams: completions.Params{
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   1024,
			System:      "Translate the user content into natural Vietnamese. Return only the translated paragraph.",
		},
	}
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Search degrades instead of failing: a Places outage yields an
	// empty result list and a summary outage yields the deterministic
	// fallback paragraph.
	Search(ctx context.Context, req SearchRequest) *SearchResponse

	// Resolve maps a free-text place name to coordinates and contact
	// details. Returns ErrNoResults when nothing matches.
	Resolve(ctx context.Context, req ResolveRequest) (*ResolvedPlace, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	places PlacesAPI
	client completions.Client
	cfg    Config
}

func NewServiceImpl(places PlacesAPI, client completions.Client, cfg Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		places: places,
		client: client,
		cfg:    cfg,
	}
}

func (s *ServiceImpl) Search(ctx context.Context, req SearchRequest) *SearchResponse {
	ctx, span := otel.Tracer("PlaceSearchService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.query", req.Query),
		attribute.String("search.location", req.Location),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Search"), slog.String("query", req.Query))

	var results []PlaceResult
	raw, err := s.places.TextSearch(ctx, req.Query+" in "+req.Location, textSearchOptions{Language: "en"})
	if err != nil {
		l.WarnContext(ctx, "Google Places request failed", slog.Any("error", err))
		span.RecordError(err)
	}
	if len(raw) > maxSearchResults {
		raw = raw[:maxSearchResults]
	}
	for _, gp := range raw {
		results = append(results, PlaceResult{
			ID:               gp.PlaceID,
			Name:             gp.Name,
			Address:          gp.FormattedAddress,
			Rating:           ratingPtr(gp.Rating),
			UserRatingsTotal: gp.UserRatingsTotal,
			Coordinates: Coordinates{
				Latitude:  gp.Geometry.Location.Lat,
				Longitude: gp.Geometry.Location.Lng,
			},
			PhotoRef: gp.photoRef(),
		})
	}

	details := make([]WaitEstimate, 0, len(results))
	for _, p := range results {
		var rating float64
		if p.Rating != nil {
			rating = *p.Rating
		}
		details = append(details, WaitEstimate{
			NameEn:               p.Name,
			EstimatedWaitMinutes: waitEstimate(rating, p.UserRatingsTotal),
		})
	}

	summaryEn, summaryVi := s.buildSummaries(ctx, req, results)

	span.SetStatus(codes.Ok, "Search completed")
	return &SearchResponse{
		Places:      results,
		AISummaryEn: summaryEn,
		AISummaryVi: summaryVi,
		AIDetails:   details,
	}
}

// waitEstimate guesses queue time from rating and review volume. Popular,
// highly rated spots trend toward the 40 minute cap.
func waitEstimate(rating float64, reviews int) int {
	raw := 8 + math.Max(0, rating-3.8)*6 + math.Min(20, math.Floor(float64(reviews)/300)*4)
	minutes := int(math.Round(raw))
	if minutes < 5 {
		minutes = 5
	}
	if minutes > 40 {
		minutes = 40
	}
	return minutes
}

func ratingPtr(r float64) *float64 {
	if r <= 0 {
		return nil
	}
	return &r
}

type compactPlace struct {
	Name    string   `json:"name"`
	Rating  *float64 `json:"rating"`
	Reviews int      `json:"reviews"`
}

func (s *ServiceImpl) buildSummaries(ctx context.Context, req SearchRequest, places []PlaceResult) (string, string) {
	compact := make([]compactPlace, 0, len(places))
	for _, p := range places {
		compact = append(compact, compactPlace{Name: p.Name, Rating: p.Rating, Reviews: p.UserRatingsTotal})
	}
	data, _ := json.MarshalIndent(compact, "", "  ")

	var summaryEn, summaryVi string
	if s.client != nil {
		enPrompt := fmt.Sprintf(`Write ONE English paragraph (70-110 words) describing the best %s options in %s.
Strictly follow this style:
- Mention 3-5 standout places with names in bold, e.g., **PhoLove**.
- Show ratings in parentheses and review counts when available, e.g., (4.7/5 from 120 reviews).
- No lists or bullets. No extra labels. No tips.
Use ONLY the data provided:
%s`, req.Query, req.Location, data)
		summaryEn = strings.TrimSpace(s.client.Complete(ctx, enPrompt, s.cfg.SummaryParams))

		if summaryEn != "" {
			summaryVi = strings.TrimSpace(s.client.Complete(ctx, summaryEn, s.cfg.TranslateParams))
		}

		// Translation came back unusable and the UI wants Vietnamese:
		// ask for a native Vietnamese paragraph directly.
		if len(summaryVi) < 8 && req.Lang == "vi" {
			viPrompt := fmt.Sprintf(`Bạn là biên tập viên du lịch. Viết MỘT đoạn văn tiếng Việt (70-110 từ) giới thiệu các quán %s nổi bật tại %s.
Yêu cầu định dạng:
- Nêu 3-5 quán tiêu biểu, tên in đậm (Markdown) ví dụ **PhoLove**.
- Ghi điểm đánh giá trong ngoặc và số lượt đánh giá nếu có, ví dụ (4.7/5 từ 120 lượt đánh giá).
- Không dùng gạch đầu dòng, không tiêu đề, không mẹo vặt. Chỉ một đoạn văn.
Chỉ dùng dữ liệu sau:
%s`, req.Query, req.Location, data)
			summaryVi = strings.TrimSpace(s.client.Complete(ctx, viPrompt, s.cfg.SummaryParams))
		}
	}

	if summaryEn == "" {
		summaryEn = fallbackSummary(places)
	}
	if summaryVi == "" {
		summaryVi = summaryEn
	}
	return summaryEn, summaryVi
}

func fallbackSummary(places []PlaceResult) string {
	if len(places) == 0 {
		return "No AI summary available."
	}
	top := places
	if len(top) > 4 {
		top = top[:4]
	}
	picks := make([]string, 0, len(top))
	for _, p := range top {
		pick := "**" + p.Name + "**"
		if p.Rating != nil {
			pick += fmt.Sprintf(" (%.1f/5", *p.Rating)
			if p.UserRatingsTotal > 0 {
				pick += fmt.Sprintf(" from %d reviews", p.UserRatingsTotal)
			}
			pick += ")"
		}
		picks = append(picks, pick)
	}
	return "Top picks include " + strings.Join(picks, ", ") + ". These spots are well-rated for consistent flavors and friendly service."
}

// allowedTypes maps client-facing kind names onto Places API types.
var allowedTypes = map[string]string{
	"restaurant": "restaurant",
	"hotel":      "lodging",
	"lodging":    "lodging",
	"cafe":       "cafe",
	"bar":        "bar",
	"park":       "park",
	"museum":     "museum",
	"attraction": "tourist_attraction",
	"activity":   "tourist_attraction",
}

func (s *ServiceImpl) Resolve(ctx context.Context, req ResolveRequest) (*ResolvedPlace, error) {
	ctx, span := otel.Tracer("PlaceSearchService").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("resolve.query", req.Query),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Resolve"), slog.String("query", req.Query))

	opts := textSearchOptions{
		Language:  req.Language,
		PlaceType: allowedTypes[strings.ToLower(req.Type)],
	}

	// Bias toward the destination's center when we can find one.
	query := req.Query
	if req.Location != "" {
		query = req.Query + " in " + req.Location
		if cities, err := s.places.TextSearch(ctx, req.Location, textSearchOptions{Language: req.Language}); err == nil && len(cities) > 0 {
			opts.Lat = cities[0].Geometry.Location.Lat
			opts.Lng = cities[0].Geometry.Location.Lng
			opts.RadiusMeters = resolveBiasM
		}
	}

	results, err := s.places.TextSearch(ctx, query, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Text search failed")
		return nil, fmt.Errorf("error resolving place: %w", err)
	}
	if len(results) == 0 {
		span.SetStatus(codes.Error, "No results")
		return nil, ErrNoResults
	}

	first := results[0]
	resolved := &ResolvedPlace{
		PlaceID:          first.PlaceID,
		Name:             first.Name,
		Address:          first.FormattedAddress,
		Rating:           ratingPtr(first.Rating),
		UserRatingsTotal: first.UserRatingsTotal,
		PriceLevel:       first.PriceLevel,
		Coordinates: Coordinates{
			Latitude:  first.Geometry.Location.Lat,
			Longitude: first.Geometry.Location.Lng,
		},
		PhotoRef: first.photoRef(),
	}

	// Details lookup is best effort.
	if resolved.PlaceID != "" {
		if det, err := s.places.Details(ctx, resolved.PlaceID, req.Language); err != nil {
			l.WarnContext(ctx, "Place details lookup failed", slog.Any("error", err))
		} else {
			resolved.Phone = firstNonEmpty(det.InternationalPhoneNumber, det.FormattedPhoneNumber)
			resolved.Website = det.Website
			if det.PriceLevel != nil {
				resolved.PriceLevel = det.PriceLevel
			}
			resolved.OpeningHours = det.OpeningHours.WeekdayText
		}
	}

	span.SetStatus(codes.Ok, "Place resolved")
	return resolved, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
