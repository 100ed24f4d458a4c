package models

import "time"

// Invitation statuses. PENDING is the only non-terminal state.
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationExpired  = "EXPIRED"
)

// InvitationMetadata carries the pre-assignments attached at invite time.
// Stored as a JSON column; it never participates in queries.
type InvitationMetadata struct {
	CollaboratorID uint   `json:"collaborator_id"`
	TalentIDs      []uint `json:"talent_ids,omitempty"`
}

// Invitation is a time-boxed, single-use bearer credential granting account
// creation under a given role/agency. Only the token hash is ever stored.
type Invitation struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	AgencyID   uint               `gorm:"index;not null" json:"agency_id"`
	Agency     *Agency            `gorm:"foreignKey:AgencyID" json:"-"`
	Email      string             `gorm:"size:255;not null;index" json:"email"`
	Role       string             `gorm:"size:32;not null" json:"role"`
	TokenHash  string             `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Status     string             `gorm:"size:32;not null;default:PENDING;index" json:"status"`
	ExpiresAt  time.Time          `gorm:"not null" json:"expires_at"`
	InvitedBy  uint               `gorm:"not null" json:"invited_by"`
	Metadata   InvitationMetadata `gorm:"serializer:json" json:"metadata"`
	AcceptedAt *time.Time         `json:"accepted_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// IsExpired reports whether the invitation is past its expiry.
// The EXPIRED transition itself is applied lazily on read.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
