package model

import (
	"time"

	"github.com/google/uuid"
)

// DailyLog represents one calendar day of training. Dates are unique.
type DailyLog struct {
	ID       uuid.UUID
	Date     time.Time
	Created  time.Time
	Modified *time.Time
}

// DailyLogResponse is returned by the get and list endpoints.
type DailyLogResponse struct {
	ID   uuid.UUID `json:"id"`
	Date string    `json:"date"`
}

// DailyLogTodayResponse has a nil ID when today has not been logged yet.
type DailyLogTodayResponse struct {
	ID *uuid.UUID `json:"id"`
}

// DailyLogCreateResponse identifies the created log.
type DailyLogCreateResponse struct {
	ID uuid.UUID `json:"id"`
}

// DateLayout is the wire and lock-name format of DailyLog.Date.
const DateLayout = "2006-01-02"

// NewDailyLogResponse converts a DailyLog row into its response shape.
func NewDailyLogResponse(d *DailyLog) DailyLogResponse {
	return DailyLogResponse{ID: d.ID, Date: d.Date.Format(DateLayout)}
}
