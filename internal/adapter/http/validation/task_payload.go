package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/domain"
	"taskmanager/pkg/apierrors"
)

// Error is a rejected payload. Violations is empty when the body could not be
// read as a JSON object at all.
type Error struct {
	MessageID  string
	Violations []apierrors.FieldViolation
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field+":"+v.MessageID)
	}
	return fmt.Sprintf("%s [%s]", e.MessageID, strings.Join(fields, ", "))
}

// MaxTitleLength is checked after trimming.
const MaxTitleLength = 255

var registerOnce sync.Once

// registerJSONFieldNames makes validator report JSON names instead of Go
// struct field names.
func registerJSONFieldNames() {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// DecodeTaskPayload decodes body into req, runs the binding rules and returns
// the raw object so callers can tell omitted fields from explicit nulls.
func DecodeTaskPayload(body []byte, req interface{}) (map[string]json.RawMessage, error) {
	registerJSONFieldNames()

	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, &Error{MessageID: apierrors.MsgInvalidTaskPayload}
	}

	if err := json.Unmarshal(body, req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, &Error{
				MessageID: apierrors.MsgInvalidTaskPayload,
				Violations: []apierrors.FieldViolation{
					fieldViolation(typeErr.Field, apierrors.MsgFieldInvalidType, ""),
				},
			}
		}
		return nil, &Error{MessageID: apierrors.MsgInvalidTaskPayload}
	}

	if err := binding.Validator.ValidateStruct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return nil, &Error{MessageID: apierrors.MsgInvalidTaskPayload}
		}
		violations := make([]apierrors.FieldViolation, 0, len(validationErrs))
		for _, fe := range validationErrs {
			violations = append(violations, fieldViolation(fe.Field(), messageIDForTag(fe.Tag()), fe.Param()))
		}
		return nil, &Error{MessageID: apierrors.MsgInvalidTaskPayload, Violations: violations}
	}

	return raw, nil
}

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, &Error{
			MessageID: apierrors.MsgInvalidTaskPayload,
			Violations: []apierrors.FieldViolation{
				fieldViolation("title", apierrors.MsgTitleRequired, ""),
			},
		}
	}
	if v, ok := titleTooLong(title); ok {
		return domain.CreateTaskInput{}, &Error{
			MessageID:  apierrors.MsgInvalidTaskPayload,
			Violations: []apierrors.FieldViolation{v},
		}
	}

	return domain.CreateTaskInput{
		Title:       title,
		Description: req.Description,
	}, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	var violations []apierrors.FieldViolation

	var title *string
	if hasJSONField(raw, "title") {
		if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
			violations = append(violations, fieldViolation("title", apierrors.MsgTitleEmpty, ""))
		} else if v, ok := titleTooLong(strings.TrimSpace(*req.Title)); ok {
			violations = append(violations, v)
		} else {
			value := strings.TrimSpace(*req.Title)
			title = &value
		}
	}

	if hasJSONField(raw, "completed") && req.Completed == nil {
		violations = append(violations, fieldViolation("completed", apierrors.MsgFieldInvalidType, ""))
	}

	descriptionSet := hasJSONField(raw, "description")
	if descriptionSet && !isJSONNull(raw["description"]) && req.Description == nil {
		violations = append(violations, fieldViolation("description", apierrors.MsgFieldInvalidType, ""))
	}

	if len(violations) > 0 {
		return domain.UpdateTaskInput{}, &Error{MessageID: apierrors.MsgInvalidTaskPayload, Violations: violations}
	}

	return domain.UpdateTaskInput{
		Title:          title,
		Description:    req.Description,
		DescriptionSet: descriptionSet,
		Completed:      req.Completed,
	}, nil
}

func titleTooLong(title string) (apierrors.FieldViolation, bool) {
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return apierrors.FieldViolation{}, false
	}
	return fieldViolation("title", apierrors.MsgFieldTooLong, strconv.Itoa(MaxTitleLength)), true
}

func messageIDForTag(tag string) string {
	switch tag {
	case "required":
		return apierrors.MsgFieldRequired
	case "max":
		return apierrors.MsgFieldTooLong
	default:
		return apierrors.MsgFieldInvalid
	}
}

func fieldViolation(field, messageID, param string) apierrors.FieldViolation {
	return apierrors.FieldViolation{
		Field:     field,
		MessageID: messageID,
		Data:      map[string]interface{}{"Field": field, "Param": param},
	}
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
