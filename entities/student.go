package entities

import "time"

type Student struct {
	StudentID    uint       `gorm:"primaryKey" json:"student_id"`
	FullName     string     `json:"full_name"`
	GradeLevel   string     `json:"grade_level"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	GuardianName string     `json:"guardian_name"`
	// PIARSummary holds the diagnostic profile text used as generation context.
	PIARSummary string `gorm:"column:piar_summary" json:"piar_summary"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserProfile struct {
	UserID   string `gorm:"primaryKey" json:"user_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // teacher|psychopedagogue|admin|coordinator
	Language string `json:"language"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
