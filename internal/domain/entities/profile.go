package entities

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds personal identification data, one per account
type Profile struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"accountId"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Nationality string    `json:"nationality"`
	Occupation  string    `json:"occupation"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateProfileInput is a partial profile update. Nil fields are left
// untouched; the merge is a named allow-list so immutable fields (ids,
// timestamps) can never be overwritten by a request body.
type UpdateProfileInput struct {
	FullName    *string `json:"fullName" binding:"omitempty,min=1"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,len=10,numeric"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address" binding:"omitempty"`
	City        *string `json:"city" binding:"omitempty"`
	Country     *string `json:"country" binding:"omitempty"`
	Nationality *string `json:"nationality" binding:"omitempty"`
	Occupation  *string `json:"occupation" binding:"omitempty"`
}

// ApplyTo merges the supplied fields onto an existing profile
func (in *UpdateProfileInput) ApplyTo(p *Profile) error {
	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *in.DateOfBirth)
		if err != nil {
			return err
		}
		p.DateOfBirth = dob
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.Country != nil {
		p.Country = *in.Country
	}
	if in.Nationality != nil {
		p.Nationality = *in.Nationality
	}
	if in.Occupation != nil {
		p.Occupation = *in.Occupation
	}
	return nil
}
