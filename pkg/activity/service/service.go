package service

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"piar/entities"
	"piar/pkg/blocks"
)

type Service interface {
	Create(a *entities.StudentActivity) error
	MaterializeFromPlan(p *entities.SupportPlan) ([]entities.StudentActivity, error)
	ListByStudent(studentID uint, from, to *time.Time) ([]entities.StudentActivity, error)
	UpdatePartial(id uint, patch ActivityPatch) (*entities.StudentActivity, error)
}

type ActivityPatch struct {
	Status *string `json:"status"`
	Title  *string `json:"title"`
	Notes  *string `json:"notes"`
	Date   *string `json:"date"`
}

type service struct{ db *gorm.DB }

func New(db *gorm.DB) Service { return &service{db} }

func (s *service) Create(a *entities.StudentActivity) error {
	if a == nil {
		return errors.New("nil activity")
	}
	if a.Status == "" {
		a.Status = "pending"
	}
	if a.Date.IsZero() {
		a.Date = time.Now()
	}
	return s.db.Create(a).Error
}

// MaterializeFromPlan turns the plan's activities blocks into scheduled
// student activities, one day apart starting tomorrow.
func (s *service) MaterializeFromPlan(p *entities.SupportPlan) ([]entities.StudentActivity, error) {
	doc, err := blocks.ParseDocument([]byte(p.PlanJSON))
	if err != nil {
		return nil, err
	}
	base := time.Now().AddDate(0, 0, 1)
	var out []entities.StudentActivity
	for _, b := range doc.Normalize(nil) {
		if b.Key != blocks.KeyActivities {
			continue
		}
		for i, item := range activityItems(b) {
			out = append(out, entities.StudentActivity{
				StudentID: p.StudentID,
				PlanID:    p.PlanID,
				BlockID:   b.ID,
				Date:      base.AddDate(0, 0, i),
				Title:     item.Title,
				Notes:     item.Notes,
				Status:    "pending",
			})
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	if err := s.db.Create(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type activityItem struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}

func activityItems(b blocks.Block) []activityItem {
	if b.Content.IsText() {
		title := b.TitleOr("Actividad")
		if b.Content.Empty() {
			return nil
		}
		return []activityItem{{Title: title, Notes: b.Content.Text()}}
	}
	var items []activityItem
	if err := json.Unmarshal(b.Content.Structured(), &items); err != nil {
		return []activityItem{{Title: b.TitleOr("Actividad"), Notes: b.Content.Display()}}
	}
	out := items[:0]
	for _, it := range items {
		if it.Title != "" {
			out = append(out, it)
		}
	}
	return out
}

func (s *service) ListByStudent(studentID uint, from, to *time.Time) ([]entities.StudentActivity, error) {
	q := s.db.Model(&entities.StudentActivity{}).Where("student_id = ?", studentID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	var out []entities.StudentActivity
	if err := q.Order("date asc, activity_id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) UpdatePartial(id uint, patch ActivityPatch) (*entities.StudentActivity, error) {
	var a entities.StudentActivity
	if err := s.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.Date != nil {
		if t, err := time.Parse("2006-01-02", *patch.Date); err == nil {
			a.Date = t
		}
	}
	if err := s.db.Save(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
