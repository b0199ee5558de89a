package model

import (
	"time"

	"github.com/google/uuid"
)

type ExerciseCategory struct {
	ID       uuid.UUID
	Name     string
	Created  time.Time
	Modified *time.Time
}

type ExerciseCategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ExerciseCategoryCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

type ExerciseCategoryCreateResponse struct {
	ID uuid.UUID `json:"id"`
}

type ExerciseCategoryPatchRequest struct {
	Name Optional[string] `json:"name"`
}

func NewExerciseCategoryResponse(c *ExerciseCategory) ExerciseCategoryResponse {
	return ExerciseCategoryResponse{ID: c.ID, Name: c.Name}
}
