package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/repository"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

// PerformanceLogService records sets against a category and a daily log.
type PerformanceLogService struct {
	now Clock
}

func NewPerformanceLogService() *PerformanceLogService {
	return &PerformanceLogService{now: time.Now}
}

func (s *PerformanceLogService) Get(ctx context.Context, sc *reqctx.Scope, id uuid.UUID) (model.PerformanceLogResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.PerformanceLogResponse{}, err
	}

	log, err := repository.NewPerformanceLogRepository(conn).GetByID(ctx, id)
	if err != nil {
		return model.PerformanceLogResponse{}, notFoundAs(err, "PerformanceLog", "id")
	}
	return model.NewPerformanceLogResponse(log), nil
}

// List returns every performance log, oldest first.
func (s *PerformanceLogService) List(ctx context.Context, sc *reqctx.Scope) ([]model.PerformanceLogResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := repository.NewPerformanceLogRepository(conn).List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]model.PerformanceLogResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, model.NewPerformanceLogResponse(&logs[i]))
	}
	return resp, nil
}

// Create checks that the referenced category and daily log exist before
// inserting. A referent deleted in between surfaces as model_not_found too.
func (s *PerformanceLogService) Create(ctx context.Context, sc *reqctx.Scope, req model.PerformanceLogCreateRequest) (model.PerformanceLogCreateResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.PerformanceLogCreateResponse{}, err
	}

	log := &model.PerformanceLog{
		Count:              *req.Count,
		Weight:             *req.Weight,
		ExerciseCategoryID: req.ExerciseCategoryID,
		DailyLogID:         req.DailyLogID,
		Created:            s.now().UTC(),
	}

	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		if _, err := repository.NewExerciseCategoryRepository(tx).GetByID(ctx, req.ExerciseCategoryID); err != nil {
			return notFoundAs(err, "ExerciseCategory", "id")
		}
		if _, err := repository.NewDailyLogRepository(tx).GetByID(ctx, req.DailyLogID); err != nil {
			return notFoundAs(err, "DailyLog", "id")
		}
		return repository.NewPerformanceLogRepository(tx).Create(ctx, log)
	}, repository.MapKind(repository.ForeignKeyViolation, apperr.ModelNotFound))
	if err != nil {
		return model.PerformanceLogCreateResponse{}, err
	}
	return model.PerformanceLogCreateResponse{ID: log.ID}, nil
}

// Patch overwrites the present fields and returns the resulting row.
func (s *PerformanceLogService) Patch(ctx context.Context, sc *reqctx.Scope, id uuid.UUID, req model.PerformanceLogPatchRequest) (model.PerformanceLogResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.PerformanceLogResponse{}, err
	}

	var count, weight *int
	if v, ok := req.Count.Get(); ok {
		count = &v
	}
	if v, ok := req.Weight.Get(); ok {
		weight = &v
	}

	var log *model.PerformanceLog
	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		logs := repository.NewPerformanceLogRepository(tx)
		if count != nil || weight != nil {
			if err := logs.Update(ctx, id, count, weight, s.now().UTC()); err != nil {
				return err
			}
		}
		var err error
		log, err = logs.GetByID(ctx, id)
		return err
	}, nil)
	if err != nil {
		return model.PerformanceLogResponse{}, notFoundAs(err, "PerformanceLog", "id")
	}
	return model.NewPerformanceLogResponse(log), nil
}

func (s *PerformanceLogService) Delete(ctx context.Context, sc *reqctx.Scope, id uuid.UUID) (model.EmptyResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.EmptyResponse{}, err
	}

	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		return repository.NewPerformanceLogRepository(tx).Delete(ctx, id)
	}, nil)
	if err != nil {
		return model.EmptyResponse{}, notFoundAs(err, "PerformanceLog", "id")
	}
	return model.EmptyResponse{}, nil
}
