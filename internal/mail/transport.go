package mail

import (
	"context"
	"errors"
	"fmt"
)

// Envelope ist eine fertig gerenderte ausgehende E-Mail.
type Envelope struct {
	To       string
	Subject  string
	HTMLBody string
	// From überschreibt den konfigurierten Absender, wenn gesetzt.
	From string
}

// Transport liefert eine E-Mail aus. Fehler sind *TransientSendError oder *PermanentSendError.
type Transport interface {
	Send(ctx context.Context, env Envelope) error
}

// TransientSendError: Netzwerkfehler, Timeouts, 408/425/429/5xx. Wird mit Backoff wiederholt.
type TransientSendError struct {
	StatusCode int
	Err        error
}

func (e *TransientSendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient send error: status=%d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient send error: %v", e.Err)
}

func (e *TransientSendError) Unwrap() error { return e.Err }

// PermanentSendError: ungültige Adresse oder vom Provider abgelehnt. Ein neuer Versuch hilft nicht.
type PermanentSendError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *PermanentSendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("permanent send error (%s): status=%d: %v", e.Reason, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("permanent send error (%s): %v", e.Reason, e.Err)
}

func (e *PermanentSendError) Unwrap() error { return e.Err }

// IsPermanent meldet, ob err als endgültiger Fehlschlag eingestuft ist.
func IsPermanent(err error) bool {
	var perm *PermanentSendError
	return errors.As(err, &perm)
}

// FailureReason liefert ein kurzes, metrik-taugliches Label für err.
func FailureReason(err error) string {
	var perm *PermanentSendError
	if errors.As(err, &perm) {
		return perm.Reason
	}
	return "retries_exhausted"
}

// ClassifyStatus ordnet eine HTTP-Antwort des Providers ein. 2xx liefert nil.
func ClassifyStatus(status int, body string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == 408, status == 425, status == 429, status >= 500:
		return &TransientSendError{StatusCode: status, Err: errors.New(body)}
	case status == 400, status == 422:
		return &PermanentSendError{StatusCode: status, Reason: "rejected", Err: errors.New(body)}
	case status == 401, status == 403:
		return &PermanentSendError{StatusCode: status, Reason: "unauthorized", Err: errors.New(body)}
	default:
		return &PermanentSendError{StatusCode: status, Reason: "unexpected_status", Err: errors.New(body)}
	}
}
