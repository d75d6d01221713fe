package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidForm     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidNumber   = 1003
	ErrCodeInvalidFilename = 1004

	// Lookup (2xxx)
	ErrCodeNotFound       = 2000
	ErrCodeUnknownKind    = 2001
	ErrCodeUploadNotFound = 2002

	// Internal/system (4xxx)
	ErrCodeInternal         = 4001
	ErrCodeStoreFailure     = 4002
	ErrCodeBlobFailure      = 4003
	ErrCodeStoreUnavailable = 4004
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeNotFound
	case 500:
		return ErrCodeInternal
	case 503:
		return ErrCodeStoreUnavailable
	default:
		return 0
	}
}
