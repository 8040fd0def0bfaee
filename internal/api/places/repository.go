package places

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/wanderly-ai/wanderly-backend/internal/types"

	"github.com/google/uuid"
)

var _ PlaceRepository = (*PostgresPlaceRepository)(nil)

// PgxPool is the subset of pgxpool.Pool the repository needs. Tests
// substitute a pgxmock pool.
type PgxPool interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

type PlaceRepository interface {
	ListPlaces(ctx context.Context) ([]types.Place, error)
	GetPlace(ctx context.Context, id uuid.UUID) (*types.Place, error)
	CreatePlace(ctx context.Context, req types.CreatePlaceRequest) (*types.Place, error)
	DeletePlace(ctx context.Context, id uuid.UUID) error
	ListComments(ctx context.Context, placeID uuid.UUID) ([]types.Comment, error)
	AddComment(ctx context.Context, req types.CreateCommentRequest) (*types.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*types.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	RecordWaitTime(ctx context.Context, placeID string, waitMinutes int) error
}

type PostgresPlaceRepository struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPlaceRepository(pgpool PgxPool, logger *slog.Logger) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

const placeColumns = `
        id, name_en, COALESCE(name_vi, ''), COALESCE(category, ''),
        COALESCE(description_en, ''), COALESCE(description_vi, ''),
        latitude, longitude, user_created, COALESCE(created_by, ''), created_at
`

func scanPlace(row pgx.Row) (*types.Place, error) {
	var p types.Place
	err := row.Scan(
		&p.ID, &p.NameEn, &p.NameVi, &p.Category,
		&p.DescriptionEn, &p.DescriptionVi,
		&p.Latitude, &p.Longitude, &p.UserCreated, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPlaceRepository) ListPlaces(ctx context.Context) ([]types.Place, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + placeColumns + ` FROM places ORDER BY created_at DESC`
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate places: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return places, nil
}

func (r *PostgresPlaceRepository) GetPlace(ctx context.Context, id uuid.UUID) (*types.Place, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`
	p, err := scanPlace(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find place: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

func (r *PostgresPlaceRepository) CreatePlace(ctx context.Context, req types.CreatePlaceRequest) (*types.Place, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Submissions through the API are always user_created so they stay
	// deletable later.
	query := `
        INSERT INTO places (
            name_en, name_vi, category, description_en, description_vi,
            latitude, longitude, user_created, created_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)
        RETURNING ` + placeColumns
	p, err := scanPlace(tx.QueryRow(ctx, query,
		req.NameEn, req.NameVi, req.Category, req.DescriptionEn, req.DescriptionVi,
		req.Latitude, req.Longitude, req.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert place: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

func (r *PostgresPlaceRepository) DeletePlace(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM places WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const commentColumns = `
        id, place_id, user_name, comment, rating, created_at
`

func scanComment(row pgx.Row) (*types.Comment, error) {
	var c types.Comment
	err := row.Scan(&c.ID, &c.PlaceID, &c.UserName, &c.Comment, &c.Rating, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresPlaceRepository) ListComments(ctx context.Context, placeID uuid.UUID) ([]types.Comment, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + commentColumns + ` FROM comments WHERE place_id = $1 ORDER BY created_at DESC`
	rows, err := tx.Query(ctx, query, placeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []types.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return comments, nil
}

func (r *PostgresPlaceRepository) AddComment(ctx context.Context, req types.CreateCommentRequest) (*types.Comment, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO comments (place_id, user_name, comment, rating)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + commentColumns
	c, err := scanComment(tx.QueryRow(ctx, query, req.PlaceID, req.UserName, req.Comment, req.Rating))
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return c, nil
}

func (r *PostgresPlaceRepository) GetComment(ctx context.Context, id uuid.UUID) (*types.Comment, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	c, err := scanComment(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return c, nil
}

func (r *PostgresPlaceRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresPlaceRepository) RecordWaitTime(ctx context.Context, placeID string, waitMinutes int) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO wait_times (place_id, wait_minutes, submitted_at) VALUES ($1, $2, NOW())`
	if _, err := tx.Exec(ctx, query, placeID, waitMinutes); err != nil {
		return fmt.Errorf("failed to insert wait time: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
