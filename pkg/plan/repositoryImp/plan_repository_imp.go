package repositoryImp

import (
	"gorm.io/gorm"

	"piar/entities"
	"piar/pkg/plan/repository"
)

type planRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlanRepository { return &planRepo{db} }

func (r *planRepo) Create(p *entities.SupportPlan) error { return r.db.Create(p).Error }

func (r *planRepo) Save(p *entities.SupportPlan) error { return r.db.Save(p).Error }

func (r *planRepo) FindByID(id uint) (*entities.SupportPlan, error) {
	var p entities.SupportPlan
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepo) ListByStudent(studentID uint) ([]entities.SupportPlan, error) {
	var ps []entities.SupportPlan
	if err := r.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *planRepo) Delete(id uint) error {
	return r.db.Delete(&entities.SupportPlan{}, id).Error
}

func (r *planRepo) CreateLog(l *entities.GenerationLog) error { return r.db.Create(l).Error }

func (r *planRepo) FindLog(id uint) (*entities.GenerationLog, error) {
	var l entities.GenerationLog
	if err := r.db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}
