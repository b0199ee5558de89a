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

// ExerciseCategoryService manages the exercise catalogue.
type ExerciseCategoryService struct {
	now Clock
}

func NewExerciseCategoryService() *ExerciseCategoryService {
	return &ExerciseCategoryService{now: time.Now}
}

func (s *ExerciseCategoryService) Get(ctx context.Context, sc *reqctx.Scope, id uuid.UUID) (model.ExerciseCategoryResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.ExerciseCategoryResponse{}, err
	}

	category, err := repository.NewExerciseCategoryRepository(conn).GetByID(ctx, id)
	if err != nil {
		return model.ExerciseCategoryResponse{}, notFoundAs(err, "ExerciseCategory", "id")
	}
	return model.NewExerciseCategoryResponse(category), nil
}

// List returns every category, newest first.
func (s *ExerciseCategoryService) List(ctx context.Context, sc *reqctx.Scope) ([]model.ExerciseCategoryResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := repository.NewExerciseCategoryRepository(conn).List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]model.ExerciseCategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, model.NewExerciseCategoryResponse(&categories[i]))
	}
	return resp, nil
}

func (s *ExerciseCategoryService) Create(ctx context.Context, sc *reqctx.Scope, req model.ExerciseCategoryCreateRequest) (model.ExerciseCategoryCreateResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.ExerciseCategoryCreateResponse{}, err
	}

	category := &model.ExerciseCategory{Name: req.Name, Created: s.now().UTC()}
	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		return repository.NewExerciseCategoryRepository(tx).Create(ctx, category)
	}, nil)
	if err != nil {
		return model.ExerciseCategoryCreateResponse{}, err
	}
	return model.ExerciseCategoryCreateResponse{ID: category.ID}, nil
}

// Patch renames the category when a name is present and returns the
// resulting row.
func (s *ExerciseCategoryService) Patch(ctx context.Context, sc *reqctx.Scope, id uuid.UUID, req model.ExerciseCategoryPatchRequest) (model.ExerciseCategoryResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.ExerciseCategoryResponse{}, err
	}

	var category *model.ExerciseCategory
	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		categories := repository.NewExerciseCategoryRepository(tx)
		if name, ok := req.Name.Get(); ok {
			if err := categories.UpdateName(ctx, id, name, s.now().UTC()); err != nil {
				return err
			}
		}
		var err error
		category, err = categories.GetByID(ctx, id)
		return err
	}, nil)
	if err != nil {
		return model.ExerciseCategoryResponse{}, notFoundAs(err, "ExerciseCategory", "id")
	}
	return model.NewExerciseCategoryResponse(category), nil
}

// Delete removes a category that no performance log references.
func (s *ExerciseCategoryService) Delete(ctx context.Context, sc *reqctx.Scope, id uuid.UUID) (model.EmptyResponse, error) {
	conn, err := sc.Conn(ctx)
	if err != nil {
		return model.EmptyResponse{}, err
	}

	err = repository.Mutate(ctx, conn, func(ctx context.Context, tx repository.DBTX) error {
		return repository.NewExerciseCategoryRepository(tx).Delete(ctx, id)
	}, repository.MapKind(repository.ForeignKeyViolation, apperr.ModelInUse))
	if err != nil {
		return model.EmptyResponse{}, notFoundAs(err, "ExerciseCategory", "id")
	}
	return model.EmptyResponse{}, nil
}
