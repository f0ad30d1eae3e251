package repository

import "piar/entities"

type StudentRepository interface {
	Create(s *entities.Student) error
	FindByID(id uint) (*entities.Student, error)
	List() ([]entities.Student, error)

	FindProfile(userID string) (*entities.UserProfile, error)
	UpsertProfile(p *entities.UserProfile) error
}
