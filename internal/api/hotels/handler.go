package hotels

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

func NewHotelHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

type suggestResponse struct {
	Hotels []types.Hotel `json:"hotels"`
	Mock   bool          `json:"mock,omitempty"`
}

// SuggestHotels handles POST /hotels. Destination and both dates are
// required; past validation the response always carries hotels.
func (h *Handler) SuggestHotels(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HotelHandler").Start(r.Context(), "SuggestHotels")
	defer span.End()

	l := h.logger.With(slog.String("method", "SuggestHotels"))

	var req SuggestRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid hotel suggestion request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		l.WarnContext(ctx, "Missing required hotel suggestion fields")
		span.SetStatus(codes.Error, "Missing required fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Fields 'to', 'startDate', and 'endDate' are required.")
		return
	}

	hotels, mock := h.service.SuggestHotels(ctx, req)

	span.SetStatus(codes.Ok, "Hotels returned")
	api.WriteJSONResponse(w, r, http.StatusOK, suggestResponse{Hotels: hotels, Mock: mock})
}
