package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/soratobu/departure-planner/internal/domain"
)

const eventsKeyPrefix = "planner:events:"

// eventRepository stores each user's events as a single JSON document.
// Writes replace the whole list, so concurrent saves for the same user
// resolve last-writer-wins.
type eventRepository struct {
	client *redis.Client
}

func NewEventRepository(client *redis.Client) domain.EventRepository {
	return &eventRepository{
		client: client,
	}
}

func (r *eventRepository) GetAll(ctx context.Context, userID string) ([]domain.Event, error) {
	key := eventsKeyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Event{}, nil
		}
		return nil, err
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, ErrInvalidEventData
	}

	return events, nil
}

func (r *eventRepository) SaveAll(ctx context.Context, userID string, events []domain.Event) error {
	key := eventsKeyPrefix + userID

	if events == nil {
		events = []domain.Event{}
	}

	data, err := json.Marshal(events)
	if err != nil {
		return ErrInvalidEventData
	}

	return r.client.Set(ctx, key, data, 0).Err()
}
