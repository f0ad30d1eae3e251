package serviceImp

import (
	"errors"
	"fmt"
	"time"

	"piar/entities"
	"piar/pkg/blocks"
	"piar/pkg/catalog"
	"piar/pkg/logger"
	planrepo "piar/pkg/plan/repository"
	"piar/pkg/plan/service"
)

// ErrNotAuthorized is returned before any repository call when a role-gated
// operation is attempted by an unauthorized role.
var ErrNotAuthorized = errors.New("role not authorized for this action")

// Roles allowed to force-complete a plan outside its normal progression.
var forceCompleteRoles = map[string]bool{
	"psychopedagogue": true,
	"admin":           true,
	"coordinator":     true,
}

type PlanSvc struct {
	repo planrepo.PlanRepository
	cat  *catalog.Catalog
	log  *logger.Logger
	now  func() time.Time
}

func NewPlanService(repo planrepo.PlanRepository, cat *catalog.Catalog, log *logger.Logger) *PlanSvc {
	return &PlanSvc{repo: repo, cat: cat, log: log, now: time.Now}
}

func (s *PlanSvc) Create(d service.PlanDetails) (*entities.SupportPlan, error) {
	planJSON, err := blocks.MarshalCanonical(d.Blocks)
	if err != nil {
		return nil, fmt.Errorf("could not serialize plan blocks: %v", err)
	}
	p := &entities.SupportPlan{
		StudentID:       d.StudentID,
		SupportGoal:     d.SupportGoal,
		SupportStrategy: d.SupportStrategy,
		PlanJSON:        planJSON,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		ResponsibleID:   d.ResponsibleID,
		Status:          entities.PlanStatusDraft,
	}
	if d.Assign {
		now := s.now()
		p.Status = entities.PlanStatusActive
		p.AssignedAt = &now
	}
	if err := s.repo.Create(p); err != nil {
		s.log.Error("create support plan failed", "student_id", d.StudentID, "error", err)
		return nil, fmt.Errorf("could not save support plan")
	}
	return p, nil
}

// Update applies the provided details onto the stored row and returns the
// merged view. Absent fields leave the stored values alone; a nil Blocks
// keeps the stored sequence, an empty non-nil one clears it. Last write wins;
// there is no version check on the row.
func (s *PlanSvc) Update(id uint, d service.PlanDetails) (*entities.SupportPlan, error) {
	p, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("support plan %d not found", id)
	}
	if d.Blocks != nil {
		planJSON, err := blocks.MarshalCanonical(d.Blocks)
		if err != nil {
			return nil, fmt.Errorf("could not serialize plan blocks: %v", err)
		}
		p.PlanJSON = planJSON
	}
	if d.SupportGoal != "" {
		p.SupportGoal = d.SupportGoal
	}
	if d.SupportStrategy != "" {
		p.SupportStrategy = d.SupportStrategy
	}
	if d.StartDate != nil {
		p.StartDate = d.StartDate
	}
	if d.EndDate != nil {
		p.EndDate = d.EndDate
	}
	if d.ResponsibleID != "" {
		p.ResponsibleID = d.ResponsibleID
	}
	if d.Assign && p.AssignedAt == nil {
		now := s.now()
		p.Status = entities.PlanStatusActive
		p.AssignedAt = &now
	}
	if err := s.repo.Save(p); err != nil {
		s.log.Error("update support plan failed", "plan_id", id, "error", err)
		return nil, fmt.Errorf("could not update support plan")
	}
	return p, nil
}

func (s *PlanSvc) Get(id uint) (*entities.SupportPlan, error) {
	p, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("support plan %d not found", id)
	}
	return p, nil
}

func (s *PlanSvc) ListByStudent(studentID uint) ([]entities.SupportPlan, error) {
	return s.repo.ListByStudent(studentID)
}

// ApplyBlockOps loads the stored sequence, replays the editor operations on
// it, and writes the result back in one update.
func (s *PlanSvc) ApplyBlockOps(id uint, lang string, ops []service.BlockOp) (*entities.SupportPlan, error) {
	p, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("support plan %d not found", id)
	}
	doc, err := blocks.ParseDocument([]byte(p.PlanJSON))
	if err != nil {
		return nil, fmt.Errorf("stored plan content is unreadable: %v", err)
	}
	ed := blocks.NewEditor(doc.Normalize(s.cat.TitleFunc(lang)), s.cat.TitleFunc(lang))
	for _, op := range ops {
		switch op.Op {
		case "update":
			if op.Content != nil {
				ed.UpdateContent(op.ID, *op.Content, op.Title)
			} else if b, ok := ed.Get(op.ID); ok {
				// rename only, content stays
				ed.UpdateContent(op.ID, b.Content, op.Title)
			}
		case "delete":
			ed.Delete(op.ID)
		case "move":
			ed.Move(op.Index, op.Direction)
		case "add_custom":
			ed.AddCustom()
		default:
			return nil, fmt.Errorf("unknown block operation %q", op.Op)
		}
	}
	planJSON, err := blocks.MarshalCanonical(ed.Blocks())
	if err != nil {
		return nil, fmt.Errorf("could not serialize plan blocks: %v", err)
	}
	p.PlanJSON = planJSON
	if err := s.repo.Save(p); err != nil {
		s.log.Error("apply block ops failed", "plan_id", id, "error", err)
		return nil, fmt.Errorf("could not update support plan")
	}
	return p, nil
}

// Assign activates an already-persisted draft and stamps the assignment time.
func (s *PlanSvc) Assign(id uint, responsibleID string) (*entities.SupportPlan, error) {
	p, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("support plan %d not found", id)
	}
	now := s.now()
	p.Status = entities.PlanStatusActive
	p.AssignedAt = &now
	if responsibleID != "" {
		p.ResponsibleID = responsibleID
	}
	if err := s.repo.Save(p); err != nil {
		s.log.Error("assign support plan failed", "plan_id", id, "error", err)
		return nil, fmt.Errorf("could not assign support plan")
	}
	return p, nil
}

// ForceComplete bypasses the normal status progression. The role gate runs
// before any repository call.
func (s *PlanSvc) ForceComplete(id uint, role string) (*entities.SupportPlan, error) {
	if !forceCompleteRoles[role] {
		return nil, ErrNotAuthorized
	}
	p, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("support plan %d not found", id)
	}
	p.Status = entities.PlanStatusCompleted
	if err := s.repo.Save(p); err != nil {
		s.log.Error("force-complete failed", "plan_id", id, "error", err)
		return nil, fmt.Errorf("could not complete support plan")
	}
	return p, nil
}

func (s *PlanSvc) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		s.log.Error("delete support plan failed", "plan_id", id, "error", err)
		return fmt.Errorf("could not delete support plan")
	}
	return nil
}
