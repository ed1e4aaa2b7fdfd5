package api

import "errors"

// Shared sentinels repositories wrap so handlers can map storage outcomes to
// status codes with errors.Is, regardless of which feature produced them.
var (
	ErrNotFound = errors.New("requested item not found")
	ErrConflict = errors.New("item already exists or conflict")
)

// Response is the generic envelope for success and error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}
