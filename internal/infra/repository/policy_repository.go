package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/soratobu/departure-planner/internal/domain"
)

const policyKeyPrefix = "planner:weather_policy:"

type policyRepository struct {
	client *redis.Client
}

func NewPolicyRepository(client *redis.Client) domain.PolicyRepository {
	return &policyRepository{
		client: client,
	}
}

// Get returns the stored weather adjustment policy for a user, or the
// default policy when none has been saved yet.
func (r *policyRepository) Get(ctx context.Context, userID string) (*domain.WeatherAdjustmentPolicy, error) {
	key := policyKeyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			policy := domain.DefaultWeatherAdjustmentPolicy()
			return &policy, nil
		}
		return nil, err
	}

	var policy domain.WeatherAdjustmentPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, ErrInvalidPolicyData
	}

	return &policy, nil
}

func (r *policyRepository) Save(ctx context.Context, userID string, policy *domain.WeatherAdjustmentPolicy) error {
	if policy == nil {
		return ErrInvalidPolicyData
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	key := policyKeyPrefix + userID

	data, err := json.Marshal(policy)
	if err != nil {
		return ErrInvalidPolicyData
	}

	return r.client.Set(ctx, key, data, 0).Err()
}
