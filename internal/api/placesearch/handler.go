package placesearch

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderly-ai/wanderly-backend/internal/api"
)

const photoMaxWidth = 480

type Handler struct {
	logger  *slog.Logger
	service Service
	photos  *GoogleClient
}

func NewPlaceSearchHandler(service Service, photos *GoogleClient, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		photos:  photos,
	}
}

// SearchAIPlaces handles POST /ai/search.
func (h *Handler) SearchAIPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceSearchHandler").Start(r.Context(), "SearchAIPlaces")
	defer span.End()

	var req SearchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" || strings.TrimSpace(req.Location) == "" {
		span.SetStatus(codes.Error, "Missing query or location")
		api.ErrorResponse(w, r, http.StatusBadRequest, "query and location are required")
		return
	}

	resp := h.service.Search(ctx, req)
	if resp.Places == nil {
		resp.Places = []PlaceResult{}
	}

	span.SetStatus(codes.Ok, "Search returned")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// PhotoProxy handles GET /ai/photo?ref=... It relays Places photo bytes so
// browser clients never see the API key, and marks them cacheable for a day.
func (h *Handler) PhotoProxy(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceSearchHandler").Start(r.Context(), "PhotoProxy")
	defer span.End()

	l := h.logger.With(slog.String("method", "PhotoProxy"))

	ref := r.URL.Query().Get("ref")
	if ref == "" || h.photos == nil || !h.photos.Configured() {
		span.SetStatus(codes.Error, "Missing parameters")
		api.ErrorResponse(w, r, http.StatusBadRequest, "missing parameters")
		return
	}

	upstream, err := h.photos.Photo(ctx, ref, photoMaxWidth)
	if err != nil {
		l.ErrorContext(ctx, "Photo fetch failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream fetch failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch photo")
		return
	}
	defer upstream.Body.Close()

	contentType := upstream.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(upstream.StatusCode)
	if _, err := io.Copy(w, upstream.Body); err != nil {
		l.WarnContext(ctx, "Photo relay interrupted", slog.Any("error", err))
	}

	span.SetStatus(codes.Ok, "Photo relayed")
}

// ResolvePlace handles GET /resolve?query=...&location=...&lang=...&type=...
func (h *Handler) ResolvePlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceSearchHandler").Start(r.Context(), "ResolvePlace")
	defer span.End()

	l := h.logger.With(slog.String("method", "ResolvePlace"))

	q := r.URL.Query()
	req := ResolveRequest{
		Query:    strings.TrimSpace(q.Get("query")),
		Location: strings.TrimSpace(q.Get("location")),
		Language: q.Get("lang"),
		Type:     q.Get("type"),
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if req.Query == "" {
		span.SetStatus(codes.Error, "Missing query")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing query")
		return
	}

	resolved, err := h.service.Resolve(ctx, req)
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			span.SetStatus(codes.Error, "No results")
			api.ErrorResponse(w, r, http.StatusNotFound, "No results")
			return
		}
		l.ErrorContext(ctx, "Failed to resolve place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resolve place")
		return
	}

	span.SetStatus(codes.Ok, "Place resolved")
	api.WriteJSONResponse(w, r, http.StatusOK, resolved)
}
