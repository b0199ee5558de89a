package model

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered account in the database.
type Account struct {
	ID           uuid.UUID
	Username     string
	Password     string
	Fullname     string
	Introduction string
	Created      time.Time
	Modified     *time.Time
}

// AccountLogin records one successful login. Rows are append-only.
type AccountLogin struct {
	ID        uuid.UUID
	IPAddr    string
	AccountID uuid.UUID
	Created   time.Time
	Modified  *time.Time
}

// AccountResponse represents account data safe for API responses.
type AccountResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Fullname     string    `json:"fullname"`
	Introduction string    `json:"introduction"`
	Created      time.Time `json:"created"`
}

// AccountPatchRequest only overwrites the fields present in the body.
type AccountPatchRequest struct {
	Fullname     Optional[string] `json:"fullname"`
	Introduction Optional[string] `json:"introduction"`
}

// AccountPatchResponse identifies the patched account.
type AccountPatchResponse struct {
	ID uuid.UUID `json:"id"`
}

// AccountLoginResponse represents one login history entry.
type AccountLoginResponse struct {
	ID      uuid.UUID `json:"id"`
	IPAddr  string    `json:"ipaddr"`
	Created time.Time `json:"created"`
}

// AccountLoginListRequest pages through the caller's login history.
type AccountLoginListRequest struct {
	SortBy string `form:"sort_by" validate:"oneof=created -created"`
	Skip   int    `form:"skip" validate:"gte=0,lte=1000"`
	Count  int    `form:"count" validate:"gte=1,lte=100"`
}

// NewAccountResponse converts an Account row into its response shape.
func NewAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:           a.ID,
		Username:     a.Username,
		Fullname:     a.Fullname,
		Introduction: a.Introduction,
		Created:      a.Created,
	}
}

// NewAccountLoginResponse converts an AccountLogin row into its response shape.
func NewAccountLoginResponse(l *AccountLogin) AccountLoginResponse {
	return AccountLoginResponse{ID: l.ID, IPAddr: l.IPAddr, Created: l.Created}
}
