package errors

// ErrorInfo contains detailed error information.
type ErrorInfo struct {
	Code    int    `json:"code"`              // Stable numeric business code, e.g. 2001
	Message string `json:"message"`           // User-friendly error message
	Details string `json:"details,omitempty"` // Detailed error information (optional)
}

// Response defines the unified response envelope used by the error handler.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`    // HTTP status code
	Message string     `json:"message"` // User-friendly message
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}
