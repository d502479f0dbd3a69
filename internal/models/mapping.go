package models

import (
	"time"
)

// Mapping links a short key to a target URL.
// The key composes the shortened URL and is the primary lookup handle.
type Mapping struct {
	ID uint `gorm:"primaryKey" json:"-"`

	Key    string `gorm:"uniqueIndex;size:10;not null" json:"key"`
	Target string `gorm:"not null" json:"target"`

	// UserID is nil for guest mappings. Ownership is never reassigned.
	UserID *string `gorm:"index" json:"-"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// Visits only ever grows, and only through MappingStore.IncrementVisits.
	Visits uint `gorm:"default:0" json:"visits"`

	CreatedAt  time.Time  `json:"created_at"`
	ExpiryDate *time.Time `gorm:"index" json:"expiry_date"`
}

func (Mapping) TableName() string {
	return "mapping"
}

// IsActive is computed from the expiry date at evaluation time rather than
// stored, so there is no flag to drift out of sync with the clock.
func (m *Mapping) IsActive(now time.Time) bool {
	return m.ExpiryDate == nil || now.Before(*m.ExpiryDate)
}
