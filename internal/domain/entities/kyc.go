package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// ErrNegativeAmount is returned when a disclosure entry carries a negative
// monetary amount
var ErrNegativeAmount = errors.New("amount must be non-negative")

// KYCStatus represents the review state of a KYC record
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "PENDING"
	KYCStatusApproved KYCStatus = "APPROVED"
	KYCStatusRejected KYCStatus = "REJECTED"
)

// InvestmentExperience buckets
type InvestmentExperience string

const (
	ExperienceLessThan5Years  InvestmentExperience = "LESS_THAN_5_YEARS"
	ExperienceBetween5And10   InvestmentExperience = "BETWEEN_5_AND_10_YEARS"
	ExperienceMoreThan10Years InvestmentExperience = "MORE_THAN_10_YEARS"
)

// RiskTolerance buckets
type RiskTolerance string

const (
	RiskToleranceTenPercent    RiskTolerance = "TEN_PERCENT"
	RiskToleranceThirtyPercent RiskTolerance = "THIRTY_PERCENT"
	RiskToleranceAllIn         RiskTolerance = "ALL_IN"
)

// IncomeEntry is one declared income source
type IncomeEntry struct {
	Type        string          `json:"type" binding:"required,oneof=SALARY INVESTMENT OTHERS"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// AssetEntry is one declared asset
type AssetEntry struct {
	Type        string          `json:"type" binding:"required,oneof=BOND LIQUIDITY REAL_ESTATE OTHERS"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// LiabilityEntry is one declared liability
type LiabilityEntry struct {
	Type        string          `json:"type" binding:"required,oneof=LOAN REAL_ESTATE_LOAN OTHERS"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// WealthSourceEntry is one declared source of wealth
type WealthSourceEntry struct {
	Type        string          `json:"type" binding:"required,oneof=INHERITANCE DONATION"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// KYCRecord is a financial disclosure with its review state
type KYCRecord struct {
	ID                   uuid.UUID            `json:"id"`
	AccountID            uuid.UUID            `json:"accountId"`
	Incomes              []IncomeEntry        `json:"incomes"`
	Assets               []AssetEntry         `json:"assets"`
	Liabilities          []LiabilityEntry     `json:"liabilities"`
	WealthSources        []WealthSourceEntry  `json:"wealthSources"`
	InvestmentExperience InvestmentExperience `json:"investmentExperience"`
	RiskTolerance        RiskTolerance        `json:"riskTolerance"`
	// NetWorth is always recomputed server-side; client-supplied values are
	// ignored.
	NetWorth     decimal.Decimal `json:"netWorth"`
	Status       KYCStatus       `json:"status"`
	ReviewedAt   null.Time       `json:"reviewedAt"`
	ReviewedBy   *uuid.UUID      `json:"reviewedBy"`
	RejectReason null.String     `json:"rejectReason"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	Account *Account `json:"user,omitempty"`
}

// DisclosureInput is the client-submitted disclosure for create and update
type DisclosureInput struct {
	Incomes              []IncomeEntry        `json:"incomes" binding:"required,min=1,dive"`
	Assets               []AssetEntry         `json:"assets" binding:"required,min=1,dive"`
	Liabilities          []LiabilityEntry     `json:"liabilities" binding:"dive"`
	WealthSources        []WealthSourceEntry  `json:"wealthSources" binding:"dive"`
	InvestmentExperience InvestmentExperience `json:"investmentExperience" binding:"required,oneof=LESS_THAN_5_YEARS BETWEEN_5_AND_10_YEARS MORE_THAN_10_YEARS"`
	RiskTolerance        RiskTolerance        `json:"riskTolerance" binding:"required,oneof=TEN_PERCENT THIRTY_PERCENT ALL_IN"`
}

// Validate checks the constraints gin binding cannot express: every declared
// amount must be non-negative.
func (in *DisclosureInput) Validate() error {
	for _, e := range in.Incomes {
		if e.Amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	for _, e := range in.Assets {
		if e.Amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	for _, e := range in.Liabilities {
		if e.Amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	for _, e := range in.WealthSources {
		if e.Amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}

// NetWorth computes sum(assets) - sum(liabilities), rounded to 2 fractional
// digits
func (in *DisclosureInput) NetWorth() decimal.Decimal {
	total := decimal.Zero
	for _, a := range in.Assets {
		total = total.Add(a.Amount)
	}
	for _, l := range in.Liabilities {
		total = total.Sub(l.Amount)
	}
	return total.Round(2)
}

// RejectInput carries the mandatory rejection reason
type RejectInput struct {
	Reason string `json:"reason" binding:"required"`
}
