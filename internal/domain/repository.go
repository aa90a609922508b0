package domain

import "context"

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=domain

// EventRepository is the durable keyed-by-user event list. The list is
// read and written as a whole collection; there is no row-level update.
type EventRepository interface {
	GetAll(ctx context.Context, userID string) ([]Event, error)
	SaveAll(ctx context.Context, userID string, events []Event) error
}

// PolicyRepository stores one WeatherAdjustmentPolicy per user. Get
// returns the default policy when none has been saved.
type PolicyRepository interface {
	Get(ctx context.Context, userID string) (*WeatherAdjustmentPolicy, error)
	Save(ctx context.Context, userID string, policy *WeatherAdjustmentPolicy) error
}
