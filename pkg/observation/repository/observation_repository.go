package repository

import "piar/entities"

type ObservationRepository interface {
	Create(o *entities.ObservationEntry) error
	Recent(studentID uint, days int) ([]entities.ObservationEntry, error)
}
