// Package places stores community-submitted points of interest along with
// their comments and crowd-sourced wait times.
package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderly-ai/wanderly-backend/internal/types"

	"github.com/google/uuid"
)

var (
	ErrPlaceNotFound    = errors.New("place not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotUserCreated   = errors.New("cannot delete non-user-created place")
	ErrNotCommentAuthor = errors.New("you can delete only your own comment")
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ListPlaces(ctx context.Context) ([]types.Place, error)
	GetPlace(ctx context.Context, id uuid.UUID) (*types.Place, error)
	CreatePlace(ctx context.Context, req types.CreatePlaceRequest) (*types.Place, error)

	// DeletePlace removes a place. Only user-created places can be
	// deleted; seeded places return ErrNotUserCreated.
	DeletePlace(ctx context.Context, id uuid.UUID) error

	ListComments(ctx context.Context, placeID uuid.UUID) ([]types.Comment, error)
	AddComment(ctx context.Context, req types.CreateCommentRequest) (*types.Comment, error)

	// DeleteComment removes a comment when userName matches its author.
	DeleteComment(ctx context.Context, id uuid.UUID, userName string) error

	// SubmitWaitTime records a wait-time report. Persistence is best
	// effort: a storage failure is logged but not surfaced.
	SubmitWaitTime(ctx context.Context, report types.WaitTimeSubmission) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   PlaceRepository
}

func NewServiceImpl(repo PlaceRepository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) ListPlaces(ctx context.Context) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "ListPlaces")
	defer span.End()

	places, err := s.repo.ListPlaces(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list places")
		return nil, fmt.Errorf("error listing places: %w", err)
	}

	span.SetStatus(codes.Ok, "Places listed")
	return places, nil
}

func (s *ServiceImpl) GetPlace(ctx context.Context, id uuid.UUID) (*types.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "GetPlace", trace.WithAttributes(
		attribute.String("place.id", id.String()),
	))
	defer span.End()

	place, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch place")
		return nil, fmt.Errorf("error fetching place: %w", err)
	}
	if place == nil {
		span.SetStatus(codes.Error, "Place not found")
		return nil, ErrPlaceNotFound
	}

	span.SetStatus(codes.Ok, "Place fetched")
	return place, nil
}

func (s *ServiceImpl) CreatePlace(ctx context.Context, req types.CreatePlaceRequest) (*types.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "CreatePlace")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreatePlace"), slog.String("nameEn", req.NameEn))

	place, err := s.repo.CreatePlace(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create place")
		return nil, fmt.Errorf("error creating place: %w", err)
	}

	l.InfoContext(ctx, "Place created", slog.String("id", place.ID.String()))
	span.SetStatus(codes.Ok, "Place created")
	return place, nil
}

func (s *ServiceImpl) DeletePlace(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "DeletePlace", trace.WithAttributes(
		attribute.String("place.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeletePlace"), slog.String("id", id.String()))

	place, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch place")
		return fmt.Errorf("error fetching place: %w", err)
	}
	if place == nil {
		span.SetStatus(codes.Error, "Place not found")
		return ErrPlaceNotFound
	}
	if !place.UserCreated {
		l.WarnContext(ctx, "Refusing to delete seeded place")
		span.SetStatus(codes.Error, "Place is not user created")
		return ErrNotUserCreated
	}

	if err := s.repo.DeletePlace(ctx, id); err != nil {
		l.ErrorContext(ctx, "Failed to delete place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete place")
		return fmt.Errorf("error deleting place: %w", err)
	}

	l.InfoContext(ctx, "Place deleted")
	span.SetStatus(codes.Ok, "Place deleted")
	return nil
}

func (s *ServiceImpl) ListComments(ctx context.Context, placeID uuid.UUID) ([]types.Comment, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "ListComments", trace.WithAttributes(
		attribute.String("place.id", placeID.String()),
	))
	defer span.End()

	comments, err := s.repo.ListComments(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list comments")
		return nil, fmt.Errorf("error listing comments: %w", err)
	}

	span.SetStatus(codes.Ok, "Comments listed")
	return comments, nil
}

func (s *ServiceImpl) AddComment(ctx context.Context, req types.CreateCommentRequest) (*types.Comment, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "AddComment", trace.WithAttributes(
		attribute.String("place.id", req.PlaceID.String()),
	))
	defer span.End()

	comment, err := s.repo.AddComment(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to add comment")
		return nil, fmt.Errorf("error adding comment: %w", err)
	}

	span.SetStatus(codes.Ok, "Comment added")
	return comment, nil
}

func (s *ServiceImpl) DeleteComment(ctx context.Context, id uuid.UUID, userName string) error {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "DeleteComment", trace.WithAttributes(
		attribute.String("comment.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteComment"), slog.String("id", id.String()))

	comment, err := s.repo.GetComment(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch comment")
		return fmt.Errorf("error fetching comment: %w", err)
	}
	if comment == nil {
		span.SetStatus(codes.Error, "Comment not found")
		return ErrCommentNotFound
	}
	if comment.UserName != userName {
		l.WarnContext(ctx, "Refusing to delete another user's comment",
			slog.String("author", comment.UserName), slog.String("requester", userName))
		span.SetStatus(codes.Error, "Requester is not the author")
		return ErrNotCommentAuthor
	}

	if err := s.repo.DeleteComment(ctx, id); err != nil {
		l.ErrorContext(ctx, "Failed to delete comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete comment")
		return fmt.Errorf("error deleting comment: %w", err)
	}

	l.InfoContext(ctx, "Comment deleted")
	span.SetStatus(codes.Ok, "Comment deleted")
	return nil
}

func (s *ServiceImpl) SubmitWaitTime(ctx context.Context, report types.WaitTimeSubmission) error {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "SubmitWaitTime", trace.WithAttributes(
		attribute.String("place.id", report.PlaceID),
		attribute.Int("wait.minutes", report.WaitMinutes),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SubmitWaitTime"),
		slog.String("placeID", report.PlaceID), slog.Int("minutes", report.WaitMinutes))
	l.InfoContext(ctx, "Wait time submitted")

	if err := s.repo.RecordWaitTime(ctx, report.PlaceID, report.WaitMinutes); err != nil {
		// The wait_times table is optional. Reports are accepted even
		// when they cannot be stored.
		l.WarnContext(ctx, "Failed to persist wait time", slog.Any("error", err))
		span.RecordError(err)
	}

	span.SetStatus(codes.Ok, "Wait time accepted")
	return nil
}
