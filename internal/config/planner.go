package config

const (
	safetyMarginSecondsEnv    = "PLANNER_SAFETY_MARGIN_SECONDS"
	defaultLeadMinutesEnv     = "PLANNER_DEFAULT_LEAD_MINUTES"
	defaultSafetyMarginSecond = 60
	defaultLeadMinutes        = 15
)

// PlannerConfig tunes the notification planner. The safety margin is the
// minimum number of seconds a fire time must lie in the future for a
// notification to be scheduled at all.
type PlannerConfig struct {
	SafetyMarginSeconds int
	DefaultLeadMinutes  int
}

func LoadPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		SafetyMarginSeconds: envInt(safetyMarginSecondsEnv, defaultSafetyMarginSecond),
		DefaultLeadMinutes:  envInt(defaultLeadMinutesEnv, defaultLeadMinutes),
	}
}
