package entities

import "time"

// Plan lifecycle statuses. A plan starts as a draft and becomes active only
// through an explicit assign action.
const (
	PlanStatusDraft      = "draft"
	PlanStatusActive     = "active"
	PlanStatusInProgress = "in_progress"
	PlanStatusCompleted  = "completed"
	PlanStatusPaused     = "paused"
	PlanStatusCancelled  = "cancelled"
)

type SupportPlan struct {
	PlanID          uint   `gorm:"primaryKey" json:"plan_id"`
	StudentID       uint   `json:"student_id" gorm:"index"`
	SupportGoal     string `json:"support_goal"`
	SupportStrategy string `json:"support_strategy"`
	Status          string `json:"status"`
	// PlanJSON stores the ordered block sequence. Legacy rows may still hold
	// the old keyed-object shape; bootstrap rewrites them to the array form.
	PlanJSON      string     `gorm:"column:plan_json" json:"plan_json"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	AssignedAt    *time.Time `json:"assigned_at,omitempty"`
	ResponsibleID string     `json:"responsible_id" gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GenerationLog records one generation attempt, including failures. The raw
// response of a failed attempt feeds the recovery export.
type GenerationLog struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	StudentID    uint   `json:"student_id" gorm:"index"`
	PlanID       *uint  `json:"plan_id,omitempty"`
	PlanType     string `json:"plan_type"` // emotional|academic
	Status       string `json:"status"`    // ok|error
	ErrorMessage string `json:"error_message,omitempty"`
	RawResponse  string `json:"raw_response,omitempty"`
	RequestedBy  string `json:"requested_by"`
	CreatedAt    time.Time
}
