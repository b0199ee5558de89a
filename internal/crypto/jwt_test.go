package crypto

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
)

const (
	testSecret = "test-secret"
	testIssuer = "weight-daily-log-api"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec(testSecret, testIssuer, 7*24*time.Hour)
}

func requireAuthCode(t *testing.T, err error, want apperr.AuthCode) {
	t.Helper()

	var authErr *apperr.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *apperr.AuthError, got %T (%v)", err, err)
	}
	if authErr.Code != want {
		t.Fatalf("AuthError code = %s, want %s", authErr.Code, want)
	}
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return token
}

// signWithHeaderAlg HMAC-signs claims under a header whose alg is replaced
// by alg, or removed when alg is nil.
func signWithHeaderAlg(t *testing.T, alg any, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if alg == nil {
		delete(token.Header, "alg")
	} else {
		token.Header["alg"] = alg
	}

	signingString, err := token.SigningString()
	if err != nil {
		t.Fatalf("SigningString() unexpected error: %v", err)
	}
	sig, err := jwt.SigningMethodHS256.Sign(signingString, []byte(testSecret))
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}
	return signingString + "." + token.EncodeSegment(sig)
}

func validClaims(issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username:       "alice",
		AccountID:      uuid.NewString(),
		AccountLoginID: uuid.NewString(),
	}
}

func TestSignAndVerify(t *testing.T) {
	codec := newTestCodec()
	accountID, loginID := uuid.New(), uuid.New()

	token, err := codec.Sign("alice", accountID, loginID)
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}

	info, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if info.Username != "alice" {
		t.Errorf("Username = %q, want alice", info.Username)
	}
	if info.AccountID != accountID || info.AccountLoginID != loginID {
		t.Errorf("ids = (%s, %s), want (%s, %s)", info.AccountID, info.AccountLoginID, accountID, loginID)
	}
	if info.Issuer != testIssuer {
		t.Errorf("Issuer = %q, want %q", info.Issuer, testIssuer)
	}
	if !info.IssuedAt.Before(info.ExpireAt) {
		t.Errorf("IssuedAt %v should be before ExpireAt %v", info.IssuedAt, info.ExpireAt)
	}
	if got := info.ExpireAt.Sub(info.IssuedAt); got != 7*24*time.Hour {
		t.Errorf("token lifetime = %v, want 168h", got)
	}
}

func TestVerifyTokenMalformed(t *testing.T) {
	_, err := newTestCodec().Verify("not-a-valid-token")
	requireAuthCode(t, err, apperr.InvalidAccessToken)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := NewTokenCodec("correct-secret", testIssuer, time.Hour).Sign("alice", uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}

	_, err = NewTokenCodec("wrong-secret", testIssuer, time.Hour).Verify(token)
	requireAuthCode(t, err, apperr.InvalidAccessToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	codec := newTestCodec().WithClock(func() time.Time { return issuedAt })

	token, err := codec.Sign("alice", uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}

	later := codec.WithClock(func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) })
	_, err = later.Verify(token)
	requireAuthCode(t, err, apperr.ExpiredAccessToken)
}

func TestVerifyTokenWrongIssuer(t *testing.T) {
	token := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("someone-else", time.Now()))

	_, err := newTestCodec().Verify(token)
	requireAuthCode(t, err, apperr.InvalidIssuer)
}

func TestVerifyTokenWrongAlgorithm(t *testing.T) {
	token := signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(testIssuer, time.Now()))

	_, err := newTestCodec().Verify(token)
	requireAuthCode(t, err, apperr.InvalidAlgorithm)
}

func TestVerifyTokenNoneAlgorithm(t *testing.T) {
	token := signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims(testIssuer, time.Now()))

	_, err := newTestCodec().Verify(token)
	requireAuthCode(t, err, apperr.InvalidAlgorithm)
}

func TestVerifyTokenUnknownAlgorithm(t *testing.T) {
	token := signWithHeaderAlg(t, "HS999", validClaims(testIssuer, time.Now()))

	_, err := newTestCodec().Verify(token)
	requireAuthCode(t, err, apperr.InvalidAlgorithm)
}

func TestVerifyTokenMissingAlgorithm(t *testing.T) {
	token := signWithHeaderAlg(t, nil, validClaims(testIssuer, time.Now()))

	_, err := newTestCodec().Verify(token)
	requireAuthCode(t, err, apperr.InvalidAlgorithm)
}

func TestVerifyTokenMalformedClaimsKeepsAccessTokenCode(t *testing.T) {
	token := signWithHeaderAlg(t, "HS256", validClaims(testIssuer, time.Now()))
	parts := strings.Split(token, ".")
	parts[1] = "!!!"

	_, err := newTestCodec().Verify(strings.Join(parts, "."))
	requireAuthCode(t, err, apperr.InvalidAccessToken)
}

func TestVerifyTokenInvalidPayload(t *testing.T) {
	claims := validClaims(testIssuer, time.Now())
	claims.AccountID = "not-a-uuid"
	token := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

	_, err := newTestCodec().Verify(token)
	requireAuthCode(t, err, apperr.InvalidPayload)
}

func TestVerifyTokenMissingExpiry(t *testing.T) {
	claims := validClaims(testIssuer, time.Now())
	claims.ExpiresAt = nil
	token := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

	_, err := newTestCodec().Verify(token)
	requireAuthCode(t, err, apperr.InvalidPayload)
}
