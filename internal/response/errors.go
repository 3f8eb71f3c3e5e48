package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrAdminAccessOnly    ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Vault-specific ────────────────────────────────────────────────
	ErrRecordNotFound    ErrCode = "RECORD_NOT_FOUND"
	ErrRecordInvalid     ErrCode = "RECORD_INVALID"
	ErrLookupUnavailable ErrCode = "LOOKUP_UNAVAILABLE"
	ErrExportBusy        ErrCode = "EXPORT_IN_PROGRESS"
	ErrExportFailed      ErrCode = "EXPORT_FAILED"
	ErrExportNotReady    ErrCode = "EXPORT_NOT_READY"
	ErrUnsupportedFormat ErrCode = "UNSUPPORTED_FORMAT"

	// ─── Registration ──────────────────────────────────────────────────
	ErrRegistrationClosed ErrCode = "REGISTRATION_CLOSED"
	ErrEventNotFound      ErrCode = "EVENT_NOT_FOUND"

	// ─── Import ────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Vault-specific ────────────────────────────────────────────────
	case ErrRecordNotFound:
		return "ACCESS DENIED: ID NOT FOUND."
	case ErrRecordInvalid:
		return "The certificate record is incomplete and cannot be issued."
	case ErrLookupUnavailable:
		return "The certificate vault is unreachable. Please try again."
	case ErrExportBusy:
		return "An export for this roll number is already in progress."
	case ErrExportFailed:
		return "Certificate export failed. Please try again."
	case ErrExportNotReady:
		return "The export has not finished yet."
	case ErrUnsupportedFormat:
		return "Unsupported export format. Use jpeg or pdf."

	// ─── Registration ──────────────────────────────────────────────────
	case ErrRegistrationClosed:
		return "Registration for this event is closed."
	case ErrEventNotFound:
		return "Event not found."

	// ─── Import ────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
