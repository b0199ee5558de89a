package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
)

const maxBodyBytes = 1 << 20 // 1MB

const (
	locBody  = "body"
	locQuery = "query"
	locPath  = "path"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// decodeJSON reads a JSON body of at most 1MB into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return decodeViolation(err)
	}
	return validateStruct(locBody, dst)
}

func decodeViolation(err error) error {
	var (
		maxBytesErr *http.MaxBytesError
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		return apperr.NewValidationError(apperr.Violation{
			Loc:  []string{locBody},
			Msg:  "request body exceeds " + strconv.FormatInt(maxBytesErr.Limit, 10) + " bytes",
			Type: "value_error.body_too_large",
		})
	case errors.Is(err, io.EOF):
		return apperr.NewValidationError(apperr.Violation{
			Loc:  []string{locBody},
			Msg:  "field required",
			Type: "value_error.missing",
		})
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.NewValidationError(apperr.Violation{
			Loc:  []string{locBody},
			Msg:  "Expecting value",
			Type: "value_error.jsondecode",
		})
	case errors.As(err, &typeErr):
		loc := []string{locBody}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return apperr.NewValidationError(apperr.Violation{
			Loc:  loc,
			Msg:  "value is not a valid " + typeErr.Type.String(),
			Type: "type_error." + typeErr.Type.Kind().String(),
		})
	default:
		return apperr.NewValidationError(apperr.Violation{
			Loc:  []string{locBody},
			Msg:  err.Error(),
			Type: "value_error",
		})
	}
}

// validateStruct runs the validate tags on s and reports failures under loc.
func validateStruct(loc string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	violations := make([]apperr.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, typ := describe(fe)
		violations = append(violations, apperr.Violation{
			Loc:  []string{loc, fe.Field()},
			Msg:  msg,
			Type: typ,
		})
	}
	return apperr.NewValidationError(violations...)
}

func describe(fe validator.FieldError) (msg, typ string) {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "field required", "value_error.missing"
	case "min":
		if isString {
			return "ensure this value has at least " + fe.Param() + " characters", "value_error.any_str.min_length"
		}
		return "ensure this value is greater than or equal to " + fe.Param(), "value_error.number.not_ge"
	case "max":
		if isString {
			return "ensure this value has at most " + fe.Param() + " characters", "value_error.any_str.max_length"
		}
		return "ensure this value is less than or equal to " + fe.Param(), "value_error.number.not_le"
	case "gte":
		return "ensure this value is greater than or equal to " + fe.Param(), "value_error.number.not_ge"
	case "lte":
		return "ensure this value is less than or equal to " + fe.Param(), "value_error.number.not_le"
	case "oneof":
		permitted := strings.Fields(fe.Param())
		for i, p := range permitted {
			permitted[i] = "'" + p + "'"
		}
		return "value is not a valid enumeration member; permitted: " + strings.Join(permitted, ", "), "type_error.enum"
	default:
		return fe.Error(), "value_error." + fe.Tag()
	}
}

type nullable interface {
	IsNull() bool
}

// patchField names an optional body field for rejectNulls.
type patchField struct {
	name  string
	value nullable
}

// rejectNulls reports every field that was sent as an explicit null.
func rejectNulls(fields ...patchField) error {
	var violations []apperr.Violation
	for _, f := range fields {
		if f.value.IsNull() {
			violations = append(violations, apperr.Violation{
				Loc:  []string{locBody, f.name},
				Msg:  "none is not an allowed value",
				Type: "type_error.none.not_allowed",
			})
		}
	}
	if len(violations) > 0 {
		return apperr.NewValidationError(violations...)
	}
	return nil
}

func invalidUUID(loc, name string) error {
	return apperr.NewValidationError(apperr.Violation{
		Loc:  []string{loc, name},
		Msg:  "value is not a valid uuid",
		Type: "type_error.uuid",
	})
}

// pathUUID parses a uuid URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, invalidUUID(locPath, name)
	}
	return id, nil
}

// queryUUID parses an optional uuid query parameter. ok is false when the
// parameter is absent.
func queryUUID(r *http.Request, name string) (id uuid.UUID, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return uuid.Nil, false, nil
	}
	id, err = uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, invalidUUID(locQuery, name)
	}
	return id, true, nil
}

// queryInts reads required integer query parameters in order, collecting
// every violation.
func queryInts(r *http.Request, names ...string) ([]int, error) {
	query := r.URL.Query()
	values := make([]int, len(names))

	var violations []apperr.Violation
	for i, name := range names {
		raw := query.Get(name)
		if raw == "" {
			violations = append(violations, apperr.Violation{
				Loc:  []string{locQuery, name},
				Msg:  "field required",
				Type: "value_error.missing",
			})
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, apperr.Violation{
				Loc:  []string{locQuery, name},
				Msg:  "value is not a valid integer",
				Type: "type_error.integer",
			})
			continue
		}
		values[i] = n
	}

	if len(violations) > 0 {
		return nil, apperr.NewValidationError(violations...)
	}
	return values, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
