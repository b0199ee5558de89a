package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/model"
)

// AccountLoginRepository stores the append-only login history.
type AccountLoginRepository struct {
	db DBTX
}

func NewAccountLoginRepository(db DBTX) *AccountLoginRepository {
	return &AccountLoginRepository{db: db}
}

// Create records a login. ID and Created are assigned when unset.
func (r *AccountLoginRepository) Create(ctx context.Context, l *model.AccountLogin) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Created.IsZero() {
		l.Created = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_login (id, ipaddr, account_id, created) VALUES ($1, $2, $3, $4)`,
		l.ID, l.IPAddr, l.AccountID, l.Created,
	)
	return err
}

// GetForAccount retrieves a login entry that belongs to accountID.
func (r *AccountLoginRepository) GetForAccount(ctx context.Context, accountID, id uuid.UUID) (*model.AccountLogin, error) {
	l := &model.AccountLogin{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ipaddr, account_id, created, modified FROM account_login
		 WHERE id = $1 AND account_id = $2`,
		id, accountID,
	).Scan(&l.ID, &l.IPAddr, &l.AccountID, &l.Created, &l.Modified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// ListByAccount pages through an account's logins ordered by creation time.
func (r *AccountLoginRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, ascending bool, skip, count int) ([]model.AccountLogin, error) {
	query := `SELECT id, ipaddr, account_id, created, modified FROM account_login
		WHERE account_id = $1 ORDER BY created DESC OFFSET $2 LIMIT $3`
	if ascending {
		query = `SELECT id, ipaddr, account_id, created, modified FROM account_login
		WHERE account_id = $1 ORDER BY created ASC OFFSET $2 LIMIT $3`
	}

	rows, err := r.db.QueryContext(ctx, query, accountID, skip, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logins []model.AccountLogin
	for rows.Next() {
		var l model.AccountLogin
		if err := rows.Scan(&l.ID, &l.IPAddr, &l.AccountID, &l.Created, &l.Modified); err != nil {
			return nil, err
		}
		logins = append(logins, l)
	}

	return logins, rows.Err()
}
