package leave

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDateRange = errors.New("leave: end date is before start date")
	ErrPastStartDate    = errors.New("leave: start date is in the past")
	ErrEmptyReason      = errors.New("leave: reason is empty")
	ErrRequestNotFound  = errors.New("leave: request not found")
	ErrNotPending       = errors.New("leave: request is not pending")
	ErrInvalidDecision  = errors.New("leave: decision must be Approved or Rejected")
	ErrForbidden        = errors.New("leave: forbidden")
	ErrInvalidID        = errors.New("leave: invalid id")
	ErrInvalidStatus    = errors.New("leave: invalid status")
	ErrViewerRequired   = errors.New("leave: viewer is required")
	ErrInvalidMonth     = errors.New("leave: invalid calendar month")
)

// Error は失敗の種類に加えて、利用者向けメッセージに必要な文脈を保持します。
// 種類の判定は errors.Is、文脈の取得は errors.As で行います。
type Error struct {
	Op        string
	RequestID string
	Field     string
	Err       error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.RequestID != "" {
		b.WriteString(" ")
		b.WriteString(e.RequestID)
	}
	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fieldError(op, field string, err error) error {
	return &Error{Op: op, Field: field, Err: err}
}

func requestError(op, requestID string, err error) error {
	var existing *Error
	if errors.As(err, &existing) {
		if existing.RequestID != "" || requestID == "" {
			return err
		}
		withID := *existing
		withID.RequestID = requestID
		return &withID
	}
	return &Error{Op: op, RequestID: requestID, Err: err}
}
