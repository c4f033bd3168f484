// Package response defines the common JSON response envelope shared by
// all API handlers.
package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope returned by every API endpoint.
type Response struct {
	Status  string            `json:"status"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message"`
	Details []validationError `json:"details,omitempty"`
	Data    any               `json:"data,omitempty"`
}

var EmptyRequestBodyResponse = Response{
	Status:  StatusError,
	Error:   "Empty Request Body",
	Message: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:  StatusError,
	Error:   "Bad Request",
	Message: "Failed to process the request. Please check the request body.",
}

var ResourceNotFoundResponse = Response{
	Status:  StatusError,
	Error:   "Resource Not Found",
	Message: "The requested resource was not found.",
}

var ResourceGoneResponse = Response{
	Status:  StatusError,
	Error:   "Resource Gone",
	Message: "The requested resource is no longer available.",
}

var ConflictResponse = Response{
	Status:  StatusError,
	Error:   "Conflict",
	Message: "The resource already exists. Please choose another identifier.",
}

var ServerErrorResponse = Response{
	Status:  StatusError,
	Error:   "Server Error",
	Message: "An internal server error occurred. Please try again later.",
}

// SuccessResponse builds a success envelope with an optional data
// payload. Only the first data value is used.
func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:  StatusSuccess,
		Message: msg,
	}

	if len(data) > 0 && data[0] != nil {
		resp.Data = data[0]
	}

	return resp
}

// ValidationErrorResponse translates validator errors into a structured
// error envelope.
func ValidationErrorResponse(err error) Response {
	return Response{
		Status:  StatusError,
		Error:   "Validation Error",
		Message: "The provided data is invalid. Please check details.",
		Details: getValidationErrors(err),
	}
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

func getValidationErrors(err error) []validationError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	var details []validationError

	for _, e := range validationErrs {
		detail := validationError{
			Field: e.Field(),
			Value: e.Value(),
		}

		switch e.Tag() {
		case "required":
			detail.Issue = "This field is required."
		case "url":
			detail.Issue = "Invalid url."
		case "alphanum":
			detail.Issue = "Must contain only letters and digits."
		case "gt":
			detail.Issue = "Must be greater than " + e.Param() + "."
		case "min":
			detail.Issue = "Must be at least " + e.Param() + " characters long."
		case "max":
			detail.Issue = "Must be at most " + e.Param() + " characters long."
		default:
			detail.Issue = "Invalid value."
		}

		details = append(details, detail)
	}

	return details
}
