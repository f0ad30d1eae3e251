package repositoryImp

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"piar/entities"
	"piar/pkg/student/repository"
)

type studentRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.StudentRepository { return &studentRepo{db} }

func (r *studentRepo) Create(s *entities.Student) error { return r.db.Create(s).Error }

func (r *studentRepo) FindByID(id uint) (*entities.Student, error) {
	var s entities.Student
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) List() ([]entities.Student, error) {
	var out []entities.Student
	if err := r.db.Order("full_name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studentRepo) FindProfile(userID string) (*entities.UserProfile, error) {
	var p entities.UserProfile
	if err := r.db.First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *studentRepo) UpsertProfile(p *entities.UserProfile) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(p).Error
}
