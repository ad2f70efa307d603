package apierrors

import (
	"fmt"

	"taskmanager/pkg/translator"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code, a message and optional per-field details.
type Err struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldViolation is an untranslated field error.
type FieldViolation struct {
	Field     string
	MessageID string
	Data      map[string]interface{}
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{Code: code, Message: message}}
}

// CreateValidationError generates a JsonErr carrying translated field errors.
func CreateValidationError(code int, msgKey string, lang string, violations []FieldViolation) JsonErr {
	jsonErr := CreateError(code, msgKey, lang)
	for _, v := range violations {
		jsonErr.ErrDetails.Fields = append(jsonErr.ErrDetails.Fields, FieldError{
			Field:   v.Field,
			Message: translator.Localize(lang, v.MessageID, v.Data),
		})
	}
	return jsonErr
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string) string {
	return translator.Localize(lang, msgKey, nil)
}
