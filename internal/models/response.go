package models

import "github.com/sefazor/eventos-backend/pkg/utils"

type Response struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Data    interface{}        `json:"data,omitempty"`
	Errors  []utils.FieldError `json:"errors,omitempty"`
}

// Success response helper
func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Error response helper
func ErrorResponse(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

func ValidationErrorResponse(message string, fields []utils.FieldError) Response {
	return Response{
		Success: false,
		Message: message,
		Errors:  fields,
	}
}
