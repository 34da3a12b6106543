package errors

const (
	HttpInternalError          = "internal_error"
	HttpInvalidJsonError       = "invalid_json"
	HttpValidationError        = "validation_failed"
	HttpEventNotFoundError     = "event_not_found"
	HttpEventConflictError     = "event_conflict"
	HttpUnsupportedFormatError = "unsupported_format"
)

// ErrorResponse is the error response body shared by every HTTP handler.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
