package repository

import "piar/entities"

type PlanRepository interface {
	Create(p *entities.SupportPlan) error
	Save(p *entities.SupportPlan) error
	FindByID(id uint) (*entities.SupportPlan, error)
	ListByStudent(studentID uint) ([]entities.SupportPlan, error)
	Delete(id uint) error

	CreateLog(l *entities.GenerationLog) error
	FindLog(id uint) (*entities.GenerationLog, error)
}
