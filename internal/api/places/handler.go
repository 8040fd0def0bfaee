package places

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderly-ai/wanderly-backend/internal/api"
	"github.com/wanderly-ai/wanderly-backend/internal/types"

	"github.com/google/uuid"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewPlaceHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GetAllPlaces handles GET /places.
func (h *Handler) GetAllPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "GetAllPlaces")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetAllPlaces"))

	places, err := h.service.ListPlaces(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list places", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch places")
		return
	}
	if places == nil {
		places = []types.Place{}
	}

	span.SetStatus(codes.Ok, "Places returned")
	api.WriteJSONResponse(w, r, http.StatusOK, places)
}

// GetPlace handles GET /places/{id}.
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "GetPlace")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetPlace"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid place ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid place ID")
		return
	}

	place, err := h.service.GetPlace(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			span.SetStatus(codes.Error, "Place not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Place not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch place")
		return
	}

	span.SetStatus(codes.Ok, "Place returned")
	api.WriteJSONResponse(w, r, http.StatusOK, place)
}

// CreatePlace handles POST /places.
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "CreatePlace")
	defer span.End()

	l := h.logger.With(slog.String("method", "CreatePlace"))

	var req types.CreatePlaceRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.NameEn) == "" || req.Latitude == nil || req.Longitude == nil {
		span.SetStatus(codes.Error, "Missing required fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	place, err := h.service.CreatePlace(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create place")
		return
	}

	span.SetStatus(codes.Ok, "Place created")
	api.WriteJSONResponse(w, r, http.StatusCreated, place)
}

// DeletePlace handles DELETE /places/{id}.
func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "DeletePlace")
	defer span.End()

	l := h.logger.With(slog.String("method", "DeletePlace"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid place ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid place ID")
		return
	}

	switch err := h.service.DeletePlace(ctx, id); {
	case err == nil:
		span.SetStatus(codes.Ok, "Place deleted")
		api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Place deleted successfully"})
	case errors.Is(err, ErrPlaceNotFound):
		span.SetStatus(codes.Error, "Place not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Place not found")
	case errors.Is(err, ErrNotUserCreated):
		span.SetStatus(codes.Error, "Place is not user created")
		api.ErrorResponse(w, r, http.StatusForbidden, "Cannot delete non-user-created place")
	default:
		l.ErrorContext(ctx, "Failed to delete place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete place")
	}
}

// GetComments handles GET /comments/{placeId}.
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "GetComments")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetComments"))

	placeID, err := uuid.Parse(chi.URLParam(r, "placeId"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid place ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid place ID")
		return
	}

	comments, err := h.service.ListComments(ctx, placeID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list comments", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}
	if comments == nil {
		comments = []types.Comment{}
	}

	span.SetStatus(codes.Ok, "Comments returned")
	api.WriteJSONResponse(w, r, http.StatusOK, comments)
}

// AddComment handles POST /comments.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "AddComment")
	defer span.End()

	l := h.logger.With(slog.String("method", "AddComment"))

	var req types.CreateCommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.PlaceID == uuid.Nil || strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.Comment) == "" {
		span.SetStatus(codes.Error, "Missing required fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	comment, err := h.service.AddComment(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to add comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	span.SetStatus(codes.Ok, "Comment added")
	api.WriteJSONResponse(w, r, http.StatusCreated, comment)
}

type deleteCommentRequest struct {
	UserName string `json:"userName"`
}

// DeleteComment handles DELETE /comments/{id}. The requester's name
// travels in the body and must match the comment author.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "DeleteComment")
	defer span.End()

	l := h.logger.With(slog.String("method", "DeleteComment"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid comment ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var req deleteCommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	switch err := h.service.DeleteComment(ctx, id, req.UserName); {
	case err == nil:
		span.SetStatus(codes.Ok, "Comment deleted")
		api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
	case errors.Is(err, ErrCommentNotFound):
		span.SetStatus(codes.Error, "Comment not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Comment not found")
	case errors.Is(err, ErrNotCommentAuthor):
		span.SetStatus(codes.Error, "Requester is not the author")
		api.ErrorResponse(w, r, http.StatusForbidden, "You can delete only your own comment")
	default:
		l.ErrorContext(ctx, "Failed to delete comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete comment")
	}
}

type waitTimeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitWaitTime handles POST /wait.
func (h *Handler) SubmitWaitTime(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "SubmitWaitTime")
	defer span.End()

	l := h.logger.With(slog.String("method", "SubmitWaitTime"))

	var req types.WaitTimeSubmission
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.PlaceID) == "" {
		span.SetStatus(codes.Error, "Missing place ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "placeId is required")
		return
	}
	if req.WaitMinutes <= 0 {
		span.SetStatus(codes.Error, "Invalid wait minutes")
		api.ErrorResponse(w, r, http.StatusBadRequest, "waitMinutes must be > 0")
		return
	}

	if err := h.service.SubmitWaitTime(ctx, req); err != nil {
		l.ErrorContext(ctx, "Failed to submit wait time", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to submit wait time")
		return
	}

	span.SetStatus(codes.Ok, "Wait time accepted")
	api.WriteJSONResponse(w, r, http.StatusOK, waitTimeResponse{
		Success: true,
		Message: "Thank you for submitting your wait time!",
	})
}
