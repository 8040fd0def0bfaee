package places

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-ai/wanderly-backend/internal/types"

	"github.com/google/uuid"
)

type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) ListPlaces(ctx context.Context) ([]types.Place, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceRepository) GetPlace(ctx context.Context, id uuid.UUID) (*types.Place, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Place), args.Error(1)
}

func (m *MockPlaceRepository) CreatePlace(ctx context.Context, req types.CreatePlaceRequest) (*types.Place, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Place), args.Error(1)
}

func (m *MockPlaceRepository) DeletePlace(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlaceRepository) ListComments(ctx context.Context, placeID uuid.UUID) ([]types.Comment, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Comment), args.Error(1)
}

func (m *MockPlaceRepository) AddComment(ctx context.Context, req types.CreateCommentRequest) (*types.Comment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func (m *MockPlaceRepository) GetComment(ctx context.Context, id uuid.UUID) (*types.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func (m *MockPlaceRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlaceRepository) RecordWaitTime(ctx context.Context, placeID string, waitMinutes int) error {
	args := m.Called(ctx, placeID, waitMinutes)
	return args.Error(0)
}

func setupServiceTest() (*ServiceImpl, *MockPlaceRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockPlaceRepository)
	return NewServiceImpl(mockRepo, logger), mockRepo
}

func TestServiceDeletePlace(t *testing.T) {
	ctx := context.Background()

	t.Run("user-created place is deleted", func(t *testing.T) {
		service, mockRepo := setupServiceTest()
		id := uuid.New()
		mockRepo.On("GetPlace", mock.Anything, id).Return(&types.Place{ID: id, UserCreated: true}, nil).Once()
		mockRepo.On("DeletePlace", mock.Anything, id).Return(nil).Once()

		require.NoError(t, service.DeletePlace(ctx, id))
		mockRepo.AssertExpectations(t)
	})

	t.Run("seeded place is refused", func(t *testing.T) {
		service, mockRepo := setupServiceTest()
		id := uuid.New()
		mockRepo.On("GetPlace", mock.Anything, id).Return(&types.Place{ID: id, UserCreated: false}, nil).Once()

		err := service.DeletePlace(ctx, id)
		require.ErrorIs(t, err, ErrNotUserCreated)
		mockRepo.AssertNotCalled(t, "DeletePlace", mock.Anything, mock.Anything)
	})

	t.Run("missing place", func(t *testing.T) {
		service, mockRepo := setupServiceTest()
		id := uuid.New()
		mockRepo.On("GetPlace", mock.Anything, id).Return(nil, nil).Once()

		err := service.DeletePlace(ctx, id)
		require.ErrorIs(t, err, ErrPlaceNotFound)
	})
}

func TestServiceGetPlaceNotFound(t *testing.T) {
	service, mockRepo := setupServiceTest()
	ctx := context.Background()
	id := uuid.New()
	mockRepo.On("GetPlace", mock.Anything, id).Return(nil, nil).Once()

	_, err := service.GetPlace(ctx, id)
	require.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestServiceDeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("author deletes own comment", func(t *testing.T) {
		service, mockRepo := setupServiceTest()
		id := uuid.New()
		mockRepo.On("GetComment", mock.Anything, id).Return(&types.Comment{ID: id, UserName: "minh"}, nil).Once()
		mockRepo.On("DeleteComment", mock.Anything, id).Return(nil).Once()

		require.NoError(t, service.DeleteComment(ctx, id, "minh"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("other users are refused", func(t *testing.T) {
		service, mockRepo := setupServiceTest()
		id := uuid.New()
		mockRepo.On("GetComment", mock.Anything, id).Return(&types.Comment{ID: id, UserName: "minh"}, nil).Once()

		err := service.DeleteComment(ctx, id, "an")
		require.ErrorIs(t, err, ErrNotCommentAuthor)
		mockRepo.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything)
	})

	t.Run("missing comment", func(t *testing.T) {
		service, mockRepo := setupServiceTest()
		id := uuid.New()
		mockRepo.On("GetComment", mock.Anything, id).Return(nil, nil).Once()

		err := service.DeleteComment(ctx, id, "minh")
		require.ErrorIs(t, err, ErrCommentNotFound)
	})
}

func TestServiceSubmitWaitTimeSwallowsStorageFailure(t *testing.T) {
	service, mockRepo := setupServiceTest()
	ctx := context.Background()
	report := types.WaitTimeSubmission{PlaceID: "place_1", WaitMinutes: 20}
	mockRepo.On("RecordWaitTime", mock.Anything, "place_1", 20).Return(assert.AnError).Once()

	require.NoError(t, service.SubmitWaitTime(ctx, report))
	mockRepo.AssertExpectations(t)
}
