package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/imagecapture"
	"github.com/jonathan/resume-form/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNoSession indicates the request reached a form handler without a session.
type ErrNoSession struct {
	Cause error
}

func (e *ErrNoSession) Error() string {
	return fmt.Sprintf("no session: %v", e.Cause)
}

func (e *ErrNoSession) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		indexErr      *form.IndexError
		fieldErr      *form.FieldError
		imageErr      *imagecapture.Error
		schemaErr     *schemas.ValidationError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, form.ErrSubmitFailed):
		return http.StatusBadGateway
	case errors.Is(err, form.ErrSubmitInProgress), errors.Is(err, form.ErrIncompleteItem):
		return http.StatusConflict
	case errors.Is(err, imagecapture.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr),
		errors.As(err, &indexErr),
		errors.As(err, &fieldErr),
		errors.As(err, &imageErr),
		errors.As(err, &schemaErr),
		errors.Is(err, form.ErrUnknownSection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message shown to the user for err. Submission
// failures are reduced to the generic failure text; the cause is only logged.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, form.ErrSubmitFailed):
		return form.SubmitFailureMessage
	case errors.Is(err, form.ErrIncompleteItem):
		return form.IncompleteItemMessage
	case HTTPStatus(err) == http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}

// extractValidationErrors converts validator errors into an ErrValidation for
// the first failing field.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}
