package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the GORM model backing entities.Account
type Account struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username         string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"`
	Role             string    `gorm:"type:varchar(20);not null;default:'CLIENT'"`
	RefreshTokenHash *string   `gorm:"type:varchar(64)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Profile *Profile   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	KYC     *KYCRecord `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (Account) TableName() string {
	return "accounts"
}
