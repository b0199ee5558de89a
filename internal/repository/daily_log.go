package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/model"
)

// DailyLogRepository handles daily log persistence operations.
type DailyLogRepository struct {
	db DBTX
}

func NewDailyLogRepository(db DBTX) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

// FindIDByDate returns the id of the log for date, or nil when there is none.
func (r *DailyLogRepository) FindIDByDate(ctx context.Context, date time.Time) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, `SELECT id FROM daily_log WHERE date = $1`, date).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

// Create inserts a daily log. ID and Created are assigned when unset.
func (r *DailyLogRepository) Create(ctx context.Context, d *model.DailyLog) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Created.IsZero() {
		d.Created = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_log (id, date, created) VALUES ($1, $2, $3)`,
		d.ID, d.Date, d.Created,
	)
	return err
}

// GetByID retrieves a daily log by its ID.
func (r *DailyLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DailyLog, error) {
	d := &model.DailyLog{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, date, created, modified FROM daily_log WHERE id = $1`, id,
	).Scan(&d.ID, &d.Date, &d.Created, &d.Modified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns every daily log ordered by date.
func (r *DailyLogRepository) List(ctx context.Context) ([]model.DailyLog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, created, modified FROM daily_log ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.DailyLog
	for rows.Next() {
		var d model.DailyLog
		if err := rows.Scan(&d.ID, &d.Date, &d.Created, &d.Modified); err != nil {
			return nil, err
		}
		logs = append(logs, d)
	}

	return logs, rows.Err()
}

// Delete removes a daily log.
func (r *DailyLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_log WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res.RowsAffected())
}
