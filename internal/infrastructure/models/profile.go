package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the GORM model backing entities.Profile
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	FullName    string    `gorm:"type:varchar(100);not null"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone       string    `gorm:"type:varchar(20);not null"`
	DateOfBirth time.Time `gorm:"type:date"`
	Address     string    `gorm:"type:varchar(255)"`
	City        string    `gorm:"type:varchar(100)"`
	Country     string    `gorm:"type:varchar(100)"`
	Nationality string    `gorm:"type:varchar(100)"`
	Occupation  string    `gorm:"type:varchar(100)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Profile) TableName() string {
	return "profiles"
}
