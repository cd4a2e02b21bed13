package models

import (
	"time"

	"github.com/google/uuid"
)

// KYCRecord is the GORM model backing entities.KYCRecord. The disclosure
// sequences are stored as JSON text; net worth as a decimal string.
type KYCRecord struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID            uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	Incomes              string     `gorm:"type:text;not null"`
	Assets               string     `gorm:"type:text;not null"`
	Liabilities          string     `gorm:"type:text;not null"`
	WealthSources        string     `gorm:"type:text;not null"`
	InvestmentExperience string     `gorm:"type:varchar(30);not null"`
	RiskTolerance        string     `gorm:"type:varchar(20);not null"`
	NetWorth             string     `gorm:"type:decimal(15,2);not null"`
	Status               string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ReviewedAt           *time.Time `gorm:"type:timestamp"`
	ReviewedBy           *uuid.UUID `gorm:"type:uuid"`
	RejectReason         *string    `gorm:"type:text"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Account *Account `gorm:"foreignKey:AccountID"`
}

func (KYCRecord) TableName() string {
	return "kyc_records"
}
