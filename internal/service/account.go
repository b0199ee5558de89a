package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/repository"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

// AccountService handles profile reads, profile updates and login history.
type AccountService struct {
	now Clock
}

func NewAccountService() *AccountService {
	return &AccountService{now: time.Now}
}

// Get returns the account with the given id.
func (s *AccountService) Get(ctx context.Context, sc *reqctx.Scope, id uuid.UUID) (model.AccountResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.AccountResponse{}, err
	}

	account, err := repository.NewAccountRepository(conn).GetByID(ctx, id)
	if err != nil {
		return model.AccountResponse{}, notFoundAs(err, "Account", "id")
	}
	return model.NewAccountResponse(account), nil
}

// GetByUsername returns the account registered under username.
func (s *AccountService) GetByUsername(ctx context.Context, sc *reqctx.Scope, username string) (model.AccountResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.AccountResponse{}, err
	}

	account, err := repository.NewAccountRepository(conn).GetByUsername(ctx, username)
	if err != nil {
		return model.AccountResponse{}, notFoundAs(err, "Account", "username")
	}
	return model.NewAccountResponse(account), nil
}

// Patch overwrites the profile fields present in req. A request with no
// field present leaves the row, including its modified time, untouched.
func (s *AccountService) Patch(ctx context.Context, sc *reqctx.Scope, id uuid.UUID, req model.AccountPatchRequest) (model.AccountPatchResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.AccountPatchResponse{}, err
	}

	var fullname, introduction *string
	if v, ok := req.Fullname.Get(); ok {
		fullname = &v
	}
	if v, ok := req.Introduction.Get(); ok {
		introduction = &v
	}

	if fullname == nil && introduction == nil {
		if _, err := repository.NewAccountRepository(conn).GetByID(ctx, id); err != nil {
			return model.AccountPatchResponse{}, notFoundAs(err, "Account", "id")
		}
		return model.AccountPatchResponse{ID: id}, nil
	}

	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		return repository.NewAccountRepository(tx).UpdateProfile(ctx, id, fullname, introduction, s.now().UTC())
	}, nil)
	if err != nil {
		return model.AccountPatchResponse{}, notFoundAs(err, "Account", "id")
	}
	return model.AccountPatchResponse{ID: id}, nil
}

// GetLogin returns one of the account's login entries.
func (s *AccountService) GetLogin(ctx context.Context, sc *reqctx.Scope, accountID, loginID uuid.UUID) (model.AccountLoginResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.AccountLoginResponse{}, err
	}

	login, err := repository.NewAccountLoginRepository(conn).GetForAccount(ctx, accountID, loginID)
	if err != nil {
		return model.AccountLoginResponse{}, notFoundAs(err, "AccountLogin", "id")
	}
	return model.NewAccountLoginResponse(login), nil
}

// ListLogins pages through the account's login history.
func (s *AccountService) ListLogins(ctx context.Context, sc *reqctx.Scope, accountID uuid.UUID, req model.AccountLoginListRequest) ([]model.AccountLoginResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return nil, err
	}

	ascending := req.SortBy == "created"
	logins, err := repository.NewAccountLoginRepository(conn).ListByAccount(ctx, accountID, ascending, req.Skip, req.Count)
	if err != nil {
		return nil, err
	}

	resp := make([]model.AccountLoginResponse, 0, len(logins))
	for i := range logins {
		resp = append(resp, model.NewAccountLoginResponse(&logins[i]))
	}
	return resp, nil
}
