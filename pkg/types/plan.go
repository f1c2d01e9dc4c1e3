package types

type PlanInterval string

const (
	PlanIntervalMonthly PlanInterval = "monthly"
	PlanIntervalYearly  PlanInterval = "yearly"
)

// Plan describes one billable plan as configured in the gateway.
// The catalog is configuration, not a database table: the gateway owns
// pricing truth and this service only needs ids, intervals and trial
// defaults to build requests.
type Plan struct {
	ID       string       `json:"id" mapstructure:"id"`
	Name     string       `json:"name" mapstructure:"name"`
	Interval PlanInterval `json:"interval" mapstructure:"interval"`
	// PriceCents 计划价格，单位：美分
	PriceCents int64 `json:"price_cents" mapstructure:"price_cents"`
	// TrialDays is the plan's default trial length; 0 means no trial.
	TrialDays int `json:"trial_days" mapstructure:"trial_days"`
}
