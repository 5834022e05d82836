package ports

import "context"

// Notification carries everything needed to deliver a one-time code to
// a user. The same shape serves both confirmation and reset messages.
type Notification struct {
	Email string
	Name  string
	Token string
}

// Notifier is the outbound channel for confirmation and reset messages.
// Both calls are fire-and-continue from the caller's perspective: a
// delivery failure must never roll back an already-issued token.
type Notifier interface {
	SendConfirmation(ctx context.Context, n Notification) error
	SendPasswordReset(ctx context.Context, n Notification) error
}
