package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/model"
)

const accountColumns = `id, username, password, fullname, introduction, created, modified`

// AccountRepository handles account persistence operations.
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository creates an AccountRepository bound to db.
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// ExistsByUsername reports whether the username is already taken.
func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM account WHERE username = $1)`, username,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new account. ID and Created are assigned when unset.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Created.IsZero() {
		a.Created = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account (id, username, password, fullname, introduction, created)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Username, a.Password, a.Fullname, a.Introduction, a.Created,
	)
	return err
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, id)
}

// GetByUsername retrieves an account by its username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM account WHERE username = $1`, username)
}

// UpdateProfile overwrites the non-nil fields and stamps modified.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullname, introduction *string, modified time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE account
		 SET fullname = COALESCE($2, fullname),
		     introduction = COALESCE($3, introduction),
		     modified = $4
		 WHERE id = $1`,
		id, fullname, introduction, modified,
	)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res.RowsAffected())
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (*model.Account, error) {
	a := &model.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.Password, &a.Fullname, &a.Introduction, &a.Created, &a.Modified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
