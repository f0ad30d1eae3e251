package repositoryImp

import (
	"time"

	"gorm.io/gorm"

	"piar/entities"
	"piar/pkg/observation/repository"
)

type obsRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ObservationRepository { return &obsRepo{db} }

func (r *obsRepo) Create(o *entities.ObservationEntry) error { return r.db.Create(o).Error }

func (r *obsRepo) Recent(studentID uint, days int) ([]entities.ObservationEntry, error) {
	since := time.Now().AddDate(0, 0, -days)
	var out []entities.ObservationEntry
	if err := r.db.Where("student_id = ? AND date >= ?", studentID, since).
		Order("date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
