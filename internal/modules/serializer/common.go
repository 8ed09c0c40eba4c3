package serializer

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response is the wire envelope. Errors carries per-field validation
// messages; Data carries the resource payload on success.
type Response struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// Err builds an error payload. Outside release mode the underlying error is
// appended to Errors for easier debugging.
func Err(msg string, err error) Response {
	res := Response{Message: msg}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			res.Errors = append(res.Errors, fieldError(fe))
		}
		return res
	}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Errors = append(res.Errors, fmt.Sprintf("%+v", err))
	}
	return res
}

func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "codefilename":
		return fmt.Sprintf("%s must not contain path separators", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "Invalid request parameters"
	}
	return Err(msg, err)
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "Server error"
	}
	return Err(msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "Unauthorized"
	}
	return Err(msg, nil)
}

// ForbiddenErr
func ForbiddenErr(msg string) Response {
	if msg == "" {
		msg = "Access denied"
	}
	return Err(msg, nil)
}

// NotFoundErr
func NotFoundErr(msg string) Response {
	if msg == "" {
		msg = "Not found"
	}
	return Err(msg, nil)
}
