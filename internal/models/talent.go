package models

import "time"

// Talent is an agency-scoped profile managed by assigned users.
type Talent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AgencyID  uint      `gorm:"index;not null" json:"agency_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Pseudo    string    `gorm:"size:255" json:"pseudo,omitempty"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Instagram string    `gorm:"size:255" json:"instagram,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleOnTalent values for TalentAssignment.
const AssignmentManager = "MANAGER"

// TalentAssignment grants a non-admin user visibility over one talent.
// The set for a user is always replaced wholesale, never merged.
type TalentAssignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TalentID     uint      `gorm:"index:idx_assignment_talent_user,unique;not null" json:"talent_id"`
	UserID       uint      `gorm:"index:idx_assignment_talent_user,unique;not null" json:"user_id"`
	AssignedBy   uint      `gorm:"not null" json:"assigned_by"`
	RoleOnTalent string    `gorm:"size:32;not null;default:MANAGER" json:"role_on_talent"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
