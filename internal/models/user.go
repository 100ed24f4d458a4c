package models

import "time"

// User roles. The set is closed; authorization is a flat allow-list per
// user (via TalentAssignment) rather than a permission engine.
const (
	RoleAdmin         = "ADMIN"
	RoleTalentManager = "TALENT_MANAGER"
	RoleTalent        = "TALENT"
)

// User statuses.
const (
	UserInvited  = "INVITED"
	UserActive   = "ACTIVE"
	UserDisabled = "DISABLED"
)

// User represents an authenticated account. Membership in an agency is
// severed by nulling AgencyID, never by deleting the row.
type User struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Email         string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name          string `gorm:"size:255" json:"name"`
	Password      string `gorm:"size:255;not null" json:"-"` // hashé, jamais exposé
	Role          string `gorm:"size:32;not null;default:TALENT" json:"role"`
	Status        string `gorm:"size:32;not null;default:ACTIVE" json:"status"`
	EmailVerified bool   `json:"email_verified"`
	// AgencyID is nil for accounts detached from any agency. An ACTIVE
	// non-admin without an agency cannot reach any talent-scoped resource.
	AgencyID    *uint      `gorm:"index" json:"agency_id,omitempty"`
	Agency      *Agency    `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleTalentManager || s == RoleTalent
}
