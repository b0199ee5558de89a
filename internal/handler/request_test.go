package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/model"
)

func requireViolations(t *testing.T, err error) []apperr.Violation {
	t.Helper()
	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
	return validationErr.Violations
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var req model.SignupRequest
	violations := requireViolations(t, decodeJSON(httptest.NewRecorder(), r, &req))

	assert.Equal(t, []string{"body"}, violations[0].Loc)
	assert.Equal(t, "value_error.missing", violations[0].Type)
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var req model.ExerciseCategoryCreateRequest
	violations := requireViolations(t, decodeJSON(httptest.NewRecorder(), r, &req))

	assert.Equal(t, "value_error.body_too_large", violations[0].Type)
}

func TestDecodeJSON_InvalidUUID(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"exercise_category_id":"nope"}`))

	var req model.PerformanceLogCreateRequest
	err := decodeJSON(httptest.NewRecorder(), r, &req)

	requireViolations(t, err)
}

func TestDecodeJSON_ExplicitZeroCountIsPresent(t *testing.T) {
	body := `{"count":0,"weight":0,"exercise_category_id":"1b4e28ba-2fa1-11d2-883f-0016d3cca427",` +
		`"daily_log_id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var req model.PerformanceLogCreateRequest
	require.NoError(t, decodeJSON(httptest.NewRecorder(), r, &req))
	require.NotNil(t, req.Count)
	assert.Equal(t, 0, *req.Count)
}

func TestValidateStruct_UsesWireNames(t *testing.T) {
	err := validateStruct(locQuery, &model.AccountLoginListRequest{SortBy: "created", Skip: -1, Count: 0})

	violations := requireViolations(t, err)
	require.Len(t, violations, 2)
	assert.Equal(t, []string{"query", "skip"}, violations[0].Loc)
	assert.Equal(t, "ensure this value is greater than or equal to 0", violations[0].Msg)
	assert.Equal(t, []string{"query", "count"}, violations[1].Loc)
}

func TestRejectNulls(t *testing.T) {
	var patch model.PerformanceLogPatchRequest
	patch.Count = model.Some(3)
	patch.Weight.Present, patch.Weight.Null = true, true

	violations := requireViolations(t, rejectNulls(
		patchField{"count", patch.Count},
		patchField{"weight", patch.Weight},
	))

	require.Len(t, violations, 1)
	assert.Equal(t, []string{"body", "weight"}, violations[0].Loc)
	assert.NoError(t, rejectNulls(patchField{"count", patch.Count}))
}

func TestDecodeViolation_Unknown(t *testing.T) {
	violations := requireViolations(t, decodeViolation(errors.New("boom")))

	assert.Equal(t, []string{"body"}, violations[0].Loc)
	assert.Equal(t, "boom", violations[0].Msg)
}
