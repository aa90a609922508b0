package notifier

import "context"

//go:generate mockgen -source=notifier.go -destination=mock.go -package=notifier

// Notifier delivers departure notifications to a scheduling backend.
// Schedule returns the backend's identifier for the scheduled
// notification. Cancel is idempotent: cancelling an identifier the
// backend no longer knows is not an error.
type Notifier interface {
	Schedule(ctx context.Context, notification *Notification) (string, error)
	Cancel(ctx context.Context, notificationID string) error
}
