package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/lock"
	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/repository"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

// DailyLogService manages the one-per-day training log.
type DailyLogService struct {
	locker *lock.Locker
	now    Clock
}

func NewDailyLogService(locker *lock.Locker) *DailyLogService {
	return &DailyLogService{locker: locker, now: time.Now}
}

// WithClock replaces the clock that decides what "today" is.
func (s *DailyLogService) WithClock(now Clock) *DailyLogService {
	s.now = now
	return s
}

func (s *DailyLogService) today() time.Time {
	return calendarDate(s.now())
}

// List returns every daily log ordered by date.
func (s *DailyLogService) List(ctx context.Context, sc *reqctx.Scope) ([]model.DailyLogResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := repository.NewDailyLogRepository(conn).List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]model.DailyLogResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, model.NewDailyLogResponse(&logs[i]))
	}
	return resp, nil
}

// Today returns today's log id, or a nil id when nothing was logged yet.
func (s *DailyLogService) Today(ctx context.Context, sc *reqctx.Scope) (model.DailyLogTodayResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.DailyLogTodayResponse{}, err
	}

	id, err := repository.NewDailyLogRepository(conn).FindIDByDate(ctx, s.today())
	if err != nil {
		return model.DailyLogTodayResponse{}, err
	}
	return model.DailyLogTodayResponse{ID: id}, nil
}

// Create logs today. Concurrent callers are serialised by an advisory lock
// named after the date; the loser sees already_logged, or race_condition if
// the lock or the unique constraint gave way first.
func (s *DailyLogService) Create(ctx context.Context, sc *reqctx.Scope) (model.DailyLogCreateResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.DailyLogCreateResponse{}, err
	}

	date := s.today()
	lockName := "daily_log:" + date.Format(model.DateLayout)
	created := &model.DailyLog{Date: date, Created: s.now().UTC()}

	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.locker.Acquire(ctx, tx, lockName, 0); err != nil {
			if errors.Is(err, lock.ErrTimeout) {
				return apperr.NewLogicError(apperr.RaceCondition).WithCause(err)
			}
			return err
		}

		logs := repository.NewDailyLogRepository(tx)
		existing, err := logs.FindIDByDate(ctx, date)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.NewLogicError(apperr.AlreadyLogged)
		}
		return logs.Create(ctx, created)
	}, repository.MapKind(repository.UniqueViolation, apperr.RaceCondition))
	if err != nil {
		return model.DailyLogCreateResponse{}, err
	}

	sc.Log().Info("daily log created", zap.String("date", date.Format(model.DateLayout)), zap.Stringer("daily_log_id", created.ID))
	return model.DailyLogCreateResponse{ID: created.ID}, nil
}

// Delete removes a daily log that no performance log references.
func (s *DailyLogService) Delete(ctx context.Context, sc *reqctx.Scope, id uuid.UUID) (model.EmptyResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.EmptyResponse{}, err
	}

	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		return repository.NewDailyLogRepository(tx).Delete(ctx, id)
	}, repository.MapKind(repository.ForeignKeyViolation, apperr.ModelInUse))
	if err != nil {
		return model.EmptyResponse{}, notFoundAs(err, "DailyLog", "id")
	}
	return model.EmptyResponse{}, nil
}
