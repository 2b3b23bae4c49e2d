package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Request errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Session errors
	ErrCodeInvalidInput       = "invalid_input"
	ErrCodeInvalidState       = "invalid_state"
	ErrCodeCategoryNotFound   = "category_not_found"
	ErrCodeDataUnavailable    = "data_unavailable"
	ErrCodeSessionIssueFailed = "session_issue_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError = "internal_error"
	ErrCodeUpstreamError = "upstream_error"
)
