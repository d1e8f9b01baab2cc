package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrUnauthorized ErrCode = "UNAUTHORIZED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidQuestion ErrCode = "INVALID_QUESTION"
	ErrIDsRequired     ErrCode = "IDS_REQUIRED"

	// ─── Ingest ────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrInvalidCSV      ErrCode = "INVALID_CSV"
	ErrMissingColumn   ErrCode = "MISSING_COLUMN"
	ErrInvalidRow      ErrCode = "INVALID_ROW"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrUnauthorized:
		return "Unauthorized"

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidQuestion:
		return "question must be at least 3 characters"
	case ErrIDsRequired:
		return "ids query param required e.g. ids=CS101,CS102"

	case ErrFileRequired:
		return "CSV file is required"
	case ErrUnsupportedFile:
		return "Only .csv files are accepted"
	case ErrFileTooLarge:
		return "File exceeds the upload size limit"
	case ErrInvalidCSV:
		return "CSV file could not be read"
	case ErrMissingColumn:
		return "CSV header is missing a required column"
	case ErrInvalidRow:
		return "CSV contains an invalid row"

	case ErrNotFound:
		return "Resource not found"

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "Internal server error"
	default:
		return "Unexpected error"
	}
}
