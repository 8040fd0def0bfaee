package tripplan

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderly-ai/wanderly-backend/internal/api"
	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewTripPlanHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// CreateTripPlan handles POST /trip-plan. The only client error is a
// missing destination or date range; everything past validation always
// produces a plan, mock or live.
func (h *Handler) CreateTripPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripPlanHandler").Start(r.Context(), "CreateTripPlan")
	defer span.End()

	l := h.logger.With(slog.String("method", "CreateTripPlan"))

	var req types.TripPlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid trip plan request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		l.WarnContext(ctx, "Missing required trip plan fields")
		span.SetStatus(codes.Error, "Missing required fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Fields 'to', 'startDate', and 'endDate' are required.")
		return
	}

	plan, mock := h.service.CreateTripPlan(ctx, req)

	span.SetStatus(codes.Ok, "Trip plan returned")
	api.WriteJSONResponse(w, r, http.StatusOK, types.TripPlanResponse{Plan: plan, Mock: mock})
}

type optimizeRouteResponse struct {
	OptimizedStops []types.Block `json:"optimizedStops"`
}

// OptimizeRoute handles POST /optimize-route.
func (h *Handler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripPlanHandler").Start(r.Context(), "OptimizeRoute")
	defer span.End()

	l := h.logger.With(slog.String("method", "OptimizeRoute"))

	var req OptimizeRouteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid route optimization body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Hotel == nil || req.Stops == nil {
		span.SetStatus(codes.Error, "Missing hotel or stops")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing hotel or stops")
		return
	}

	stops := h.service.OptimizeRoute(ctx, req)

	span.SetStatus(codes.Ok, "Route returned")
	api.WriteJSONResponse(w, r, http.StatusOK, optimizeRouteResponse{OptimizedStops: stops})
}
