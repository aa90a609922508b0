package domain

import (
	"time"
)

// PlanState is the lifecycle state of a planned notification.
//
//	PENDING_DECISION --(fire time within margin)--> REJECTED_TOO_SOON
//	PENDING_DECISION --(schedule succeeds)--------> SCHEDULED
//	PENDING_DECISION --(schedule fails)-----------> REJECTED_ERROR
//	SCHEDULED --------(cancel requested)----------> CANCELLED
//	SCHEDULED --------(delivered by the OS)-------> FIRED (outside this service)
type PlanState string

const (
	PlanPendingDecision PlanState = "pending_decision"
	PlanScheduled       PlanState = "scheduled"
	PlanRejectedTooSoon PlanState = "rejected_too_soon"
	PlanRejectedError   PlanState = "rejected_error"
	PlanCancelled       PlanState = "cancelled"
)

func (s PlanState) String() string {
	return string(s)
}

// NotificationPlan is the transient result of planning a departure
// notification for one event. It is never persisted; only the
// notification identifier survives on the event.
type NotificationPlan struct {
	State                PlanState `json:"state"`
	FireTime             time.Time `json:"fire_time"`
	EffectiveLeadMinutes int       `json:"effective_lead_minutes"`
	WeatherExtraMinutes  int       `json:"weather_extra_minutes"`
	WeatherCategory      string    `json:"weather_category,omitempty"`
	NotificationID       string    `json:"notification_id,omitempty"`
	Explanation          string    `json:"explanation"`
}

func (p *NotificationPlan) Scheduled() bool {
	return p.State == PlanScheduled
}
