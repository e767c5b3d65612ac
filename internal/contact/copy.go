// Package contact implements the click-to-copy email action.
package contact

import (
	"context"
	"log/slog"
)

// Clipboard writes text to wherever the visitor's clipboard lives.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Notifier shows a short, non-blocking message to the visitor.
type Notifier interface {
	Notify(n Notice)
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

type Notice struct {
	Status  Status
	Message string
}

func (n Notice) OK() bool { return n.Status == StatusSuccess }

// ParseStatus reports whether s names a copy outcome.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusSuccess, StatusFailure:
		return st, true
	}
	return "", false
}

const (
	DefaultSuccessMessage = "Email copied to clipboard!"
	DefaultFailureMessage = "Couldn't copy the email. Please copy it manually."
)

// CopyAction copies a fixed string. It is safe for concurrent use.
type CopyAction struct {
	Text           string
	SuccessMessage string
	FailureMessage string
	Logger         *slog.Logger
}

func NewCopyAction(text string, logger *slog.Logger) *CopyAction {
	if logger == nil {
		logger = slog.Default()
	}
	return &CopyAction{
		Text:           text,
		SuccessMessage: DefaultSuccessMessage,
		FailureMessage: DefaultFailureMessage,
		Logger:         logger,
	}
}

// Copy makes one clipboard write and sends exactly one notice. A clipboard
// error is logged and reported through the notice, never returned.
func (a *CopyAction) Copy(ctx context.Context, cb Clipboard, n Notifier) Notice {
	err := cb.WriteText(ctx, a.Text)
	if err != nil {
		a.Logger.WarnContext(ctx, "clipboard write failed", "error", err)
	}
	notice := a.Settle(err == nil)
	n.Notify(notice)
	return notice
}

// Settle returns the notice for a finished clipboard write. It is used
// directly when the write happened elsewhere and only its outcome is known.
func (a *CopyAction) Settle(ok bool) Notice {
	if !ok {
		return Notice{Status: StatusFailure, Message: a.FailureMessage}
	}
	return Notice{Status: StatusSuccess, Message: a.SuccessMessage}
}
