package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/model"
)

var (
	errInvalidAlgorithm = errors.New("unexpected signing algorithm")
	errInvalidPayload   = errors.New("token payload is incomplete")
)

// Claims is the JSON payload of an access token.
type Claims struct {
	jwt.RegisteredClaims
	Username       string `json:"username"`
	AccountID      string `json:"account_id"`
	AccountLoginID string `json:"account_login_id"`
}

// TokenCodec signs and verifies HS256 access tokens for one issuer.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec. ttl is the lifetime of issued tokens.
func NewTokenCodec(secret, issuer string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of the codec that reads time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// Sign issues a token for the given login session.
func (c *TokenCodec) Sign(username string, accountID, accountLoginID uuid.UUID) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username:       username,
		AccountID:      accountID.String(),
		AccountLoginID: accountLoginID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature, algorithm, expiry and issuer. Every failure is an
// *apperr.AuthError whose code names the first failed check.
func (c *TokenCodec) Verify(tokenString string) (model.AuthInfo, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errInvalidAlgorithm
		}
		return c.secret, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if rejectedAlgorithm(token) {
			return model.AuthInfo{}, apperr.NewAuthError(apperr.InvalidAlgorithm, err)
		}
		return model.AuthInfo{}, mapParseError(err)
	}

	info, err := claims.authInfo()
	if err != nil {
		return model.AuthInfo{}, apperr.NewAuthError(apperr.InvalidPayload, err)
	}
	return info, nil
}

// rejectedAlgorithm reports whether the token header decoded but names an
// algorithm other than HS256. Unknown and missing algorithms fail parsing
// before the key func runs, so the header is the only place to see them.
func rejectedAlgorithm(token *jwt.Token) bool {
	return token != nil && token.Header != nil && token.Header["alg"] != jwt.SigningMethodHS256.Alg()
}

func mapParseError(err error) *apperr.AuthError {
	switch {
	case errors.Is(err, errInvalidAlgorithm):
		return apperr.NewAuthError(apperr.InvalidAlgorithm, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperr.NewAuthError(apperr.ExpiredAccessToken, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return apperr.NewAuthError(apperr.InvalidIssuer, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return apperr.NewAuthError(apperr.InvalidPayload, err)
	default:
		return apperr.NewAuthError(apperr.InvalidAccessToken, err)
	}
}

func (c *Claims) authInfo() (model.AuthInfo, error) {
	if c.Username == "" || c.IssuedAt == nil || c.ExpiresAt == nil {
		return model.AuthInfo{}, errInvalidPayload
	}

	accountID, err := uuid.Parse(c.AccountID)
	if err != nil {
		return model.AuthInfo{}, errInvalidPayload
	}
	loginID, err := uuid.Parse(c.AccountLoginID)
	if err != nil {
		return model.AuthInfo{}, errInvalidPayload
	}

	return model.AuthInfo{
		Username:       c.Username,
		AccountID:      accountID,
		AccountLoginID: loginID,
		IssuedAt:       c.IssuedAt.Time,
		ExpireAt:       c.ExpiresAt.Time,
		Issuer:         c.Issuer,
	}, nil
}
