package model

import (
	"time"

	"github.com/google/uuid"
)

// PerformanceLog is one set recorded against a category on a given day.
type PerformanceLog struct {
	ID                 uuid.UUID
	Count              int
	Weight             int
	ExerciseCategoryID uuid.UUID
	DailyLogID         uuid.UUID
	Created            time.Time
	Modified           *time.Time
}

type PerformanceLogResponse struct {
	ID                 uuid.UUID `json:"id"`
	Count              int       `json:"count"`
	Weight             int       `json:"weight"`
	ExerciseCategoryID uuid.UUID `json:"exercise_category_id"`
	DailyLogID         uuid.UUID `json:"daily_log_id"`
}

// PerformanceLogCreateRequest requires count and weight to be sent, even
// when zero.
type PerformanceLogCreateRequest struct {
	Count              *int      `json:"count" validate:"required,gte=0"`
	Weight             *int      `json:"weight" validate:"required,gte=0"`
	ExerciseCategoryID uuid.UUID `json:"exercise_category_id" validate:"required"`
	DailyLogID         uuid.UUID `json:"daily_log_id" validate:"required"`
}

type PerformanceLogCreateResponse struct {
	ID uuid.UUID `json:"id"`
}

// PerformanceLogPatchRequest only overwrites the fields present in the body.
type PerformanceLogPatchRequest struct {
	Count  Optional[int] `json:"count"`
	Weight Optional[int] `json:"weight"`
}

func NewPerformanceLogResponse(p *PerformanceLog) PerformanceLogResponse {
	return PerformanceLogResponse{
		ID:                 p.ID,
		Count:              p.Count,
		Weight:             p.Weight,
		ExerciseCategoryID: p.ExerciseCategoryID,
		DailyLogID:         p.DailyLogID,
	}
}
