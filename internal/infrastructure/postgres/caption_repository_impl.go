package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/captionly/captionly/internal/domain/entity"
	"github.com/captionly/captionly/internal/domain/repository"
)

type CaptionRepository struct {
	pool *pgxpool.Pool
}

func NewCaptionRepository(pool *pgxpool.Pool) *CaptionRepository {
	return &CaptionRepository{pool: pool}
}

func (r *CaptionRepository) Create(ctx context.Context, c *entity.Caption) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO captions (user_id, prompt, caption)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.UserID, c.Prompt, c.Caption)

	return row.Scan(&c.ID, &c.CreatedAt)
}

func (r *CaptionRepository) GetOwned(ctx context.Context, userID, id string) (*entity.Caption, error) {
	c := &entity.Caption{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, prompt, caption, created_at
		FROM captions
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	if err := row.Scan(&c.ID, &c.UserID, &c.Prompt, &c.Caption, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

func (r *CaptionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Caption, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, prompt, caption, created_at
		FROM captions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	captions := make([]entity.Caption, 0, limit)
	for rows.Next() {
		var c entity.Caption
		if err := rows.Scan(&c.ID, &c.UserID, &c.Prompt, &c.Caption, &c.CreatedAt); err != nil {
			return nil, err
		}
		captions = append(captions, c)
	}
	return captions, rows.Err()
}

func (r *CaptionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM captions WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}

// DeleteOwned removes a caption only when it belongs to userID. A caption
// owned by someone else yields ErrNotFound, same as a missing one.
func (r *CaptionRepository) DeleteOwned(ctx context.Context, userID, id string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM captions WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CaptionRepository = (*CaptionRepository)(nil)
