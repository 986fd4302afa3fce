package app_errors

// AppError repräsentiert einen Anwendungsfehler mit einem Code, einer Nachricht und optional Details.
type AppError struct {
	Code       int          // HTTP status code
	Type       string       // VALIDATION_ERROR, CACHE_WRITE_ERROR, usw
	MessageKey string       // i18n key
	Details    []FieldError // optional (validation, queue push)
	Err        error        // original error (internal only)
}

const (
	ErrValidation   = "VALIDATION_ERROR"
	ErrInvalidBody  = "INVALID_BODY"
	ErrInvalidParam = "INVALID_PARAM"
	ErrInvalidQuery = "INVALID_QUERY"
	ErrForbidden    = "FORBIDDEN"
	ErrNotFound     = "NOT_FOUND"
	ErrConflict     = "CONFLICT"
	ErrCacheWrite   = "CACHE_WRITE_ERROR"
	ErrQueuePush    = "QUEUE_PUSH_ERROR"
	ErrUnavailable  = "UNAVAILABLE"
	ErrInternal     = "INTERNAL_ERROR"
)

type FieldError struct {
	Field      string         `json:"field"`
	Reason     string         `json:"reason"`
	MessageKey string         `json:"message_key"`
	Params     map[string]any `json:"params,omitempty"`
}

func NewAppError(code int, errType string, messageKey string, err error) *AppError {
	return &AppError{
		Code:       code,
		Type:       errType,
		MessageKey: messageKey,
		Err:        err,
	}
}

func NewValidationError(details []FieldError) *AppError {
	return &AppError{
		Code:       400,
		Type:       ErrValidation,
		MessageKey: "invalid_request",
		Details:    details,
	}
}

// NewCacheWriteError meldet, dass der Einladungsdatensatz nicht gespeichert wurde. Der Aufrufer darf es erneut versuchen.
func NewCacheWriteError(err error) *AppError {
	return &AppError{
		Code:       503,
		Type:       ErrCacheWrite,
		MessageKey: "invitation.cache_write_failed",
		Err:        err,
	}
}

// NewQueuePushError meldet, dass die Einladung existiert, die E-Mail aber nicht in die Warteschlange kam.
// Das Token wird mitgeliefert, damit ein manuelles Resend möglich ist.
func NewQueuePushError(token string, err error) *AppError {
	return &AppError{
		Code:       502,
		Type:       ErrQueuePush,
		MessageKey: "invitation.queue_push_failed",
		Details: []FieldError{{
			Field:      "token",
			Reason:     "queue_push_failed",
			MessageKey: "invitation.resend_required",
			Params:     map[string]any{"token": token},
		}},
		Err: err,
	}
}

func NewNotFoundError(messageKey string) *AppError {
	return &AppError{
		Code:       404,
		Type:       ErrNotFound,
		MessageKey: messageKey,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.MessageKey
}

func (e *AppError) Unwrap() error {
	return e.Err
}
