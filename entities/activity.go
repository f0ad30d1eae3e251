package entities

import "time"

type StudentActivity struct {
	ActivityID uint      `gorm:"primaryKey" json:"activity_id"`
	StudentID  uint      `json:"student_id" gorm:"index"`
	PlanID     uint      `json:"plan_id" gorm:"index"`
	BlockID    string    `json:"block_id,omitempty"`
	Date       time.Time `json:"date"`
	Title      string    `json:"title"`
	Notes      string    `json:"notes,omitempty"`
	Status     string    `json:"status"` // pending|done|skipped

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ObservationEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `json:"student_id" gorm:"index"`
	Date      time.Time `json:"date"`
	Category  string    `json:"category"` // academic|emotional|behavioral|family
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`

	CreatedAt time.Time
}
