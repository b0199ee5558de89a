// Package apperr defines the closed set of failures that are expected during
// normal operation and have a fixed wire representation. Anything that is not
// one of these types is treated as an unexpected server error.
package apperr

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnauthorized is returned when a request that requires identity carries
// no bearer credential at all.
var ErrUnauthorized = errors.New("not authenticated")

// AuthCode identifies why a presented credential was rejected.
type AuthCode int

const (
	InvalidIssuer AuthCode = iota
	InvalidPayload
	InvalidAccessToken
	ExpiredAccessToken
	InvalidAlgorithm

	numAuthCodes
)

var authCodes = [...]struct{ code, desc string }{
	InvalidIssuer:      {"invalid_issuer", "This token is not issued on this server"},
	InvalidPayload:     {"invalid_payload", "This token's payload is invalid"},
	InvalidAccessToken: {"invalid_access_token", "Failed to decode your access token"},
	ExpiredAccessToken: {"expired_access_token", "Your token has expired"},
	InvalidAlgorithm:   {"invalid_algorithm", "Your token has invalid algorithm"},
}

// Fails to compile unless authCodes has exactly one entry per AuthCode.
var _ = [1]struct{}{}[len(authCodes)-int(numAuthCodes)]

func (c AuthCode) String() string { return authCodes[c].code }

// Desc returns the human readable message sent to clients.
func (c AuthCode) Desc() string { return authCodes[c].desc }

// LogicCode identifies a business-rule or concurrency conflict.
type LogicCode int

const (
	DuplicatedUsername LogicCode = iota
	ModelNotFound
	RaceCondition
	WrongPassword
	AlreadyLogged
	ModelInUse

	numLogicCodes
)

var logicCodes = [...]struct{ code, desc string }{
	DuplicatedUsername: {"duplicated_username", "This username already exist."},
	ModelNotFound:      {"model_not_found", "Failed to find target model. Check specific information in detail."},
	RaceCondition:      {"race_condition", "Race condition occurred. try again."},
	WrongPassword:      {"wrong_password", "Failed to login with incorrect password."},
	AlreadyLogged:      {"already_logged", "Today's daily log already exists."},
	ModelInUse:         {"model_in_use", "Target model is still referenced by other models."},
}

// Fails to compile unless logicCodes has exactly one entry per LogicCode.
var _ = [1]struct{}{}[len(logicCodes)-int(numLogicCodes)]

func (c LogicCode) String() string { return logicCodes[c].code }

// Desc returns the human readable message sent to clients.
func (c LogicCode) Desc() string { return logicCodes[c].desc }

// Detail maps an entity name to the offending field names, e.g.
// {"Account": ["id"]}.
type Detail map[string][]string

// AuthError reports a credential that was present but failed verification.
type AuthError struct {
	Code   AuthCode
	Detail Detail
	Cause  error
}

func NewAuthError(code AuthCode, cause error) *AuthError {
	return &AuthError{Code: code, Cause: cause}
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return "auth error " + e.Code.String() + ": " + e.Cause.Error()
	}
	return "auth error " + e.Code.String()
}

func (e *AuthError) Unwrap() error { return e.Cause }

// LogicError reports an expected conflict raised by a business operation.
type LogicError struct {
	Code   LogicCode
	Detail Detail
	Cause  error
}

func NewLogicError(code LogicCode) *LogicError {
	return &LogicError{Code: code}
}

// NotFound builds a ModelNotFound error naming the entity and fields that did
// not resolve.
func NotFound(entity string, fields ...string) *LogicError {
	return &LogicError{Code: ModelNotFound, Detail: Detail{entity: fields}}
}

// WithCause attaches the underlying error for logging.
func (e *LogicError) WithCause(err error) *LogicError {
	e.Cause = err
	return e
}

func (e *LogicError) Error() string {
	if e.Cause != nil {
		return "logic error " + e.Code.String() + ": " + e.Cause.Error()
	}
	return "logic error " + e.Code.String()
}

func (e *LogicError) Unwrap() error { return e.Cause }

// Violation is a single field-level contract failure.
type Violation struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError reports a request that does not satisfy its contract.
type ValidationError struct {
	Violations []Violation
}

func NewValidationError(v ...Violation) *ValidationError {
	return &ValidationError{Violations: v}
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations)+1)
	if len(e.Violations) == 1 {
		lines = append(lines, "1 validation error for Request")
	} else {
		lines = append(lines, strconv.Itoa(len(e.Violations))+" validation errors for Request")
	}
	for _, v := range e.Violations {
		lines = append(lines, strings.Join(v.Loc, " -> ")+"\n  "+v.Msg+" (type="+v.Type+")")
	}
	return strings.Join(lines, "\n")
}

// Kind is the wire category of an error. It selects the HTTP status and the
// envelope shape.
type Kind int

const (
	KindUnauthorized Kind = iota
	KindAuth
	KindLogic
	KindValidation
	KindServer

	NumKinds
)

// KindOf classifies err. Errors outside the closed set are KindServer.
func KindOf(err error) Kind {
	var (
		authErr       *AuthError
		logicErr      *LogicError
		validationErr *ValidationError
	)
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &logicErr):
		return KindLogic
	case errors.As(err, &validationErr):
		return KindValidation
	default:
		return KindServer
	}
}
