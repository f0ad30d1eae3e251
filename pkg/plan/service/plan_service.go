package service

import (
	"time"

	"piar/entities"
	"piar/pkg/blocks"
)

// PlanDetails is the write contract of the persistence adapter: plan metadata
// plus the edited block sequence, with the draft-vs-assign intent.
type PlanDetails struct {
	StudentID       uint           `json:"student_id"`
	SupportGoal     string         `json:"support_goal"`
	SupportStrategy string         `json:"support_strategy"`
	Blocks          []blocks.Block `json:"blocks"`
	StartDate       *time.Time     `json:"start_date,omitempty"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	ResponsibleID   string         `json:"responsible_id,omitempty"`
	// Assign maps to status active plus an assignment timestamp; otherwise
	// the plan is written as a draft.
	Assign bool `json:"assign"`
}

// BlockOp is one editor operation applied server-side to a stored plan.
type BlockOp struct {
	Op        string           `json:"op"` // update|delete|move|add_custom
	ID        string           `json:"id,omitempty"`
	Title     string           `json:"title,omitempty"`
	Content   *blocks.Content  `json:"content,omitempty"`
	Index     int              `json:"index,omitempty"`
	Direction blocks.Direction `json:"direction,omitempty"`
}

type PlanService interface {
	Create(d PlanDetails) (*entities.SupportPlan, error)
	Update(id uint, d PlanDetails) (*entities.SupportPlan, error)
	Get(id uint) (*entities.SupportPlan, error)
	ListByStudent(studentID uint) ([]entities.SupportPlan, error)
	ApplyBlockOps(id uint, lang string, ops []BlockOp) (*entities.SupportPlan, error)
	Assign(id uint, responsibleID string) (*entities.SupportPlan, error)
	ForceComplete(id uint, role string) (*entities.SupportPlan, error)
	Delete(id uint) error
}
