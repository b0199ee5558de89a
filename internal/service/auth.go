package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/crypto"
	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/repository"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

var ErrRevocationDisabled = errors.New("token revocation is not configured")

// Revoker ends a login session before its token expires.
type Revoker interface {
	Revoke(ctx context.Context, accountLoginID uuid.UUID, expireAt time.Time) error
}

// AuthService handles signup, login and logout.
type AuthService struct {
	hasher  *crypto.Hasher
	codec   *crypto.TokenCodec
	revoker Revoker
	now     Clock
}

// NewAuthService creates a new AuthService.
func NewAuthService(hasher *crypto.Hasher, codec *crypto.TokenCodec) *AuthService {
	return &AuthService{hasher: hasher, codec: codec, now: time.Now}
}

// WithRevoker enables Logout.
func (s *AuthService) WithRevoker(r Revoker) *AuthService {
	s.revoker = r
	return s
}

// Signup registers a new account.
func (s *AuthService) Signup(ctx context.Context, sc *reqctx.Scope, req model.SignupRequest) (model.SignupResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.SignupResponse{}, err
	}

	taken, err := repository.NewAccountRepository(conn).ExistsByUsername(ctx, req.Username)
	if err != nil {
		return model.SignupResponse{}, err
	}
	if taken {
		return model.SignupResponse{}, apperr.NewLogicError(apperr.DuplicatedUsername)
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return model.SignupResponse{}, err
	}

	account := &model.Account{
		Username: req.Username,
		Password: hash,
		Fullname: req.Fullname,
		Created:  s.now().UTC(),
	}
	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		return repository.NewAccountRepository(tx).Create(ctx, account)
	}, repository.MapKind(repository.UniqueViolation, apperr.RaceCondition))
	if err != nil {
		return model.SignupResponse{}, err
	}

	sc.Log().Info("account created", zap.String("username", account.Username), zap.Stringer("account_id", account.ID))
	return model.SignupResponse{}, nil
}

// Login checks the password, records the login and issues an access token
// bound to the new login entry.
func (s *AuthService) Login(ctx context.Context, sc *reqctx.Scope, req model.LoginRequest) (model.LoginResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.LoginResponse{}, err
	}

	account, err := repository.NewAccountRepository(conn).GetByUsername(ctx, req.Username)
	if err != nil {
		return model.LoginResponse{}, notFoundAs(err, "Account", "username")
	}

	ok, err := s.hasher.Verify(ctx, req.Password, account.Password)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if !ok {
		return model.LoginResponse{}, apperr.NewLogicError(apperr.WrongPassword)
	}

	login := &model.AccountLogin{
		IPAddr:    req.IPAddr,
		AccountID: account.ID,
		Created:   s.now().UTC(),
	}
	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		return repository.NewAccountLoginRepository(tx).Create(ctx, login)
	}, repository.MapKind(repository.ForeignKeyViolation, apperr.ModelNotFound))
	if err != nil {
		return model.LoginResponse{}, err
	}

	token, err := s.codec.Sign(account.Username, account.ID, login.ID)
	if err != nil {
		return model.LoginResponse{}, err
	}

	sc.Log().Info("account logged in", zap.Stringer("account_id", account.ID), zap.Stringer("account_login_id", login.ID))
	return model.LoginResponse{AccessToken: token}, nil
}

// Logout revokes the caller's login session until its token would have
// expired.
func (s *AuthService) Logout(ctx context.Context, sc *reqctx.Scope, info model.AuthInfo) (model.LogoutResponse, error) {
	if s.revoker == nil {
		return model.LogoutResponse{}, ErrRevocationDisabled
	}
	if err := s.revoker.Revoke(ctx, info.AccountLoginID, info.ExpireAt); err != nil {
		return model.LogoutResponse{}, err
	}

	sc.Log().Info("account logged out", zap.Stringer("account_login_id", info.AccountLoginID))
	return model.LogoutResponse{}, nil
}
