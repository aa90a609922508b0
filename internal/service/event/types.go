package event

import (
	"github.com/soratobu/departure-planner/internal/domain"
)

// SaveResult is the outcome of creating or updating an event: the
// persisted event, the notification plan produced for it, and the one
// confirmation message shown to the user.
type SaveResult struct {
	Event   *domain.Event          `json:"event"`
	Plan    *domain.NotificationPlan `json:"plan,omitempty"`
	Message string                 `json:"message"`
}
