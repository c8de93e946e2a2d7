package subscription

import "time"

// Plan tier names as the API reports them.
const (
	PlanFree = "free"
	PlanPro  = "pro"
	PlanTeam = "team"
)

// Plan describes the subscription the user is currently on.
type Plan struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName,omitempty"`
	PeriodEnd   time.Time `json:"periodEnd,omitempty"`
	Cancelled   bool      `json:"cancelled"`
}

// Usage holds quota counters for the current billing period.
type Usage struct {
	PromptsUsed  int `json:"promptsUsed"`
	PromptsLimit int `json:"promptsLimit"` // 0 means unlimited
}

// Remaining reports how many prompts are left in the period, or -1 when the
// plan has no limit.
func (u Usage) Remaining() int {
	if u.PromptsLimit <= 0 {
		return -1
	}
	if u.PromptsUsed >= u.PromptsLimit {
		return 0
	}
	return u.PromptsLimit - u.PromptsUsed
}

// Status is the combined panel payload: plan plus period usage.
type Status struct {
	Plan  Plan  `json:"plan"`
	Usage Usage `json:"usage"`
}
