package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/model"
)

// ExerciseCategoryRepository handles exercise category persistence operations.
type ExerciseCategoryRepository struct {
	db DBTX
}

func NewExerciseCategoryRepository(db DBTX) *ExerciseCategoryRepository {
	return &ExerciseCategoryRepository{db: db}
}

func (r *ExerciseCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExerciseCategory, error) {
	c := &model.ExerciseCategory{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created, modified FROM exercise_category WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Created, &c.Modified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns every category, newest first.
func (r *ExerciseCategoryRepository) List(ctx context.Context) ([]model.ExerciseCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created, modified FROM exercise_category ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.ExerciseCategory
	for rows.Next() {
		var c model.ExerciseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Created, &c.Modified); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *ExerciseCategoryRepository) Create(ctx context.Context, c *model.ExerciseCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Created.IsZero() {
		c.Created = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exercise_category (id, name, created) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.Created,
	)
	return err
}

func (r *ExerciseCategoryRepository) UpdateName(ctx context.Context, id uuid.UUID, name string, modified time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE exercise_category SET name = $2, modified = $3 WHERE id = $1`,
		id, name, modified,
	)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res.RowsAffected())
}

func (r *ExerciseCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exercise_category WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res.RowsAffected())
}
