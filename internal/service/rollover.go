package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

const rolloverJobName = "daily log rollover"

// RolloverService creates each day's DailyLog on a cron schedule.
type RolloverService struct {
	factory   *reqctx.Factory
	dailyLogs *DailyLogService
	log       *zap.Logger
	c         *cron.Cron
}

func NewRolloverService(factory *reqctx.Factory, dailyLogs *DailyLogService, log *zap.Logger) *RolloverService {
	return &RolloverService{
		factory:   factory,
		dailyLogs: dailyLogs,
		log:       log,
		c:         cron.New(),
	}
}

// Start schedules the job with a standard five-field cron spec and starts
// the scheduler.
func (s *RolloverService) Start(schedule string) error {
	_, err := s.c.AddFunc(schedule, func() {
		if err := s.Run(context.Background()); err != nil {
			s.log.Error("scheduled job failed", zap.String("job", rolloverJobName), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", rolloverJobName, err)
	}

	s.c.Start()
	s.log.Info("scheduled job queued", zap.String("job", rolloverJobName), zap.String("schedule", schedule))
	return nil
}

// Stop stops the scheduler. The returned context is done once a running job
// has finished.
func (s *RolloverService) Stop() context.Context {
	return s.c.Stop()
}

// Run creates today's log in its own scope. A log that another process
// already created counts as success.
func (s *RolloverService) Run(ctx context.Context) error {
	sc := s.factory.Bind(ctx)
	defer s.factory.Unbind(sc)

	resp, err := s.dailyLogs.Create(ctx, sc)

	var logicErr *apperr.LogicError
	if errors.As(err, &logicErr) && (logicErr.Code == apperr.AlreadyLogged || logicErr.Code == apperr.RaceCondition) {
		sc.Log().Info("daily log already present", zap.String("job", rolloverJobName), zap.Stringer("outcome", logicErr.Code))
		return nil
	}
	if err != nil {
		return err
	}

	sc.Log().Info("daily log rolled over", zap.String("job", rolloverJobName), zap.Stringer("daily_log_id", resp.ID))
	return nil
}
