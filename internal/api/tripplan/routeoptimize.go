package tripplan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderly-ai/wanderly-backend/internal/api/llmjson"
	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// OptimizeRouteRequest asks for the day's stops to be reordered into a
// walkable loop starting and ending near the hotel.
type OptimizeRouteRequest struct {
	Hotel *types.Hotel  `json:"hotel"`
	Stops []types.Block `json:"stops"`
}

type routeStop struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Section string  `json:"section"`
	Time    string  `json:"time"`
}

// OptimizeRoute reorders stops via the model. Any failure, including an
// order that references unknown stop names, keeps the original order.
func (s *ServiceImpl) OptimizeRoute(ctx context.Context, req OptimizeRouteRequest) []types.Block {
	ctx, span := otel.Tracer("TripPlanService").Start(ctx, "OptimizeRoute", trace.WithAttributes(
		attribute.Int("route.stops", len(req.Stops)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "OptimizeRoute"))

	if s.client == nil || len(req.Stops) == 0 {
		span.SetStatus(codes.Ok, "Nothing to optimize")
		return req.Stops
	}

	flat := make([]routeStop, 0, len(req.Stops))
	for _, b := range req.Stops {
		stop := routeStop{Section: b.Section, Time: b.Time}
		if len(b.Options) > 0 {
			stop.Name = b.Options[0].Name
			stop.Lat = b.Options[0].Lat
			stop.Lng = b.Options[0].Lng
		}
		flat = append(flat, stop)
	}

	raw := s.client.Complete(ctx, buildRoutePrompt(req.Hotel, flat), s.cfg.RouteParams)
	recovered := llmjson.Recover(ctx, s.client, raw, s.cfg.RepairParams)

	var wrapped struct {
		Order []string `json:"order"`
	}
	if recovered == nil || json.Unmarshal(recovered, &wrapped) != nil || len(wrapped.Order) == 0 {
		l.WarnContext(ctx, "Route optimization produced no usable order, keeping original")
		span.SetStatus(codes.Ok, "Original order kept")
		return req.Stops
	}

	byName := make(map[string]types.Block, len(req.Stops))
	for _, b := range req.Stops {
		if len(b.Options) > 0 && b.Options[0].Name != "" {
			byName[strings.ToLower(b.Options[0].Name)] = b
		}
	}

	ordered := make([]types.Block, 0, len(req.Stops))
	for _, name := range wrapped.Order {
		if b, ok := byName[strings.ToLower(name)]; ok {
			ordered = append(ordered, b)
		}
	}
	if len(ordered) == 0 {
		span.SetStatus(codes.Ok, "Original order kept")
		return req.Stops
	}

	span.SetStatus(codes.Ok, "Route optimized")
	return ordered
}

func buildRoutePrompt(hotel *types.Hotel, stops []routeStop) string {
	var anchor struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	}
	if hotel != nil {
		anchor.Name = hotel.Name
		anchor.Lat = hotel.Lat
		anchor.Lng = hotel.Lng
	}
	hotelJSON, _ := json.Marshal(anchor)
	stopsJSON, _ := json.Marshal(stops)

	return fmt.Sprintf(`You are a routing expert. Reorder these stops into the optimal shortest realistic route. Start at the hotel, visit all places once, and end near the hotel. Return ONLY JSON in this exact shape: { "order": [ "stopName1", "stopName2", ... ] }

Hotel: %s

Stops: %s`, hotelJSON, stopsJSON)
}
