// Package service holds the business operations behind each endpoint. Every
// operation receives the request scope explicitly and works on the scope's
// leased connection.
package service

import (
	"errors"
	"time"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/repository"
)

// Clock returns the current time.
type Clock func() time.Time

// calendarDate returns t's local calendar date as midnight UTC, the form the
// date column is written and compared in.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// notFoundAs converts repository.ErrNotFound into a model_not_found error
// naming entity and fields. Other errors pass through.
func notFoundAs(err error, entity string, fields ...string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(entity, fields...).WithCause(err)
	}
	return err
}
