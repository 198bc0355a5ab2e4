package errors

import "fmt"

// AppError is an application-specific error type
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// wraps an error with a code and message
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// HasCode reports whether err (or any error it wraps) is an AppError with the given code
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// Error code constants
const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInvalidArg = "INVALID_ARGUMENT"
	CodeExternal   = "EXTERNAL_ERROR"
	CodeConflict   = "CONFLICT" // Resource already exists (UNIQUE violation)
)

// Pipeline error codes
const (
	CodeChannelNotFound     = "CHANNEL_NOT_FOUND"        // Channel does not exist or is inaccessible
	CodeQuotaExceeded       = "QUOTA_EXCEEDED"           // Video platform API quota or auth failure
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"     // Network failure or 5xx from the video platform
	CodeCacheUnavailable    = "CACHE_UNAVAILABLE"        // Transcript cache backend unreachable
	CodeNoVideosFound       = "NO_VIDEOS_FOUND"          // Channel listing returned zero videos
	CodeNoTranscripts       = "NO_TRANSCRIPTS_AVAILABLE" // No video in the channel yielded a transcript
	CodeGatewayUnavailable  = "GATEWAY_UNAVAILABLE"      // Persona inference service not reachable
	CodeGatewayError        = "GATEWAY_ERROR"            // Inference service returned an error response
	CodeGatewayTimeout      = "GATEWAY_TIMEOUT"          // Inference call exceeded its deadline
)
