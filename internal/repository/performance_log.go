package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/model"
)

const performanceLogColumns = `id, count, weight, exercise_category_id, daily_log_id, created, modified`

// PerformanceLogRepository handles performance log persistence operations.
type PerformanceLogRepository struct {
	db DBTX
}

func NewPerformanceLogRepository(db DBTX) *PerformanceLogRepository {
	return &PerformanceLogRepository{db: db}
}

func (r *PerformanceLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PerformanceLog, error) {
	p := &model.PerformanceLog{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+performanceLogColumns+` FROM performance_log WHERE id = $1`, id,
	).Scan(&p.ID, &p.Count, &p.Weight, &p.ExerciseCategoryID, &p.DailyLogID, &p.Created, &p.Modified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns every performance log, oldest first.
func (r *PerformanceLogRepository) List(ctx context.Context) ([]model.PerformanceLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+performanceLogColumns+` FROM performance_log ORDER BY created ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.PerformanceLog
	for rows.Next() {
		var p model.PerformanceLog
		if err := rows.Scan(&p.ID, &p.Count, &p.Weight, &p.ExerciseCategoryID, &p.DailyLogID, &p.Created, &p.Modified); err != nil {
			return nil, err
		}
		logs = append(logs, p)
	}

	return logs, rows.Err()
}

func (r *PerformanceLogRepository) Create(ctx context.Context, p *model.PerformanceLog) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Created.IsZero() {
		p.Created = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO performance_log (id, count, weight, exercise_category_id, daily_log_id, created)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Count, p.Weight, p.ExerciseCategoryID, p.DailyLogID, p.Created,
	)
	return err
}

// Update overwrites the non-nil fields and stamps modified.
func (r *PerformanceLogRepository) Update(ctx context.Context, id uuid.UUID, count, weight *int, modified time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE performance_log
		 SET count = COALESCE($2, count),
		     weight = COALESCE($3, weight),
		     modified = $4
		 WHERE id = $1`,
		id, count, weight, modified,
	)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res.RowsAffected())
}

func (r *PerformanceLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM performance_log WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res.RowsAffected())
}
