// Package model defines database models
package model

import "time"

type Account struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"` // Always lower-cased
	PasswordHash string `gorm:"not null" json:"-"`

	// Both set on a reset request, both cleared when the token is consumed
	ResetToken     *string    `gorm:"uniqueIndex" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`

	Footprints []FootprintRecord `gorm:"foreignKey:AccountID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// HasActiveReset reports whether the account holds a reset token that is still
// valid at t.
func (a *Account) HasActiveReset(t time.Time) bool {
	return a.ResetToken != nil && a.ResetExpiresAt != nil && a.ResetExpiresAt.After(t)
}
