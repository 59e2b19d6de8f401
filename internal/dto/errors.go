package dto

import (
	"errors"
)

var (
	ErrNotFound = errors.New("errRecordNotFound")
)

// FieldError describes one rejected payload field.
type FieldError struct {
	Field   string `json:"field" example:"Salary"`
	Message string `json:"message" example:"must be greater than 0"`
}
