package models

import "time"

// Collaborator display statuses and types (libellés français, exposés tels quels).
const (
	CollaboratorPending  = "En attente"
	CollaboratorActive   = "Actif"
	CollaboratorInactive = "Inactif"
)

const (
	CollaboratorInterne     = "Interne"
	CollaboratorFreelance   = "Freelance"
	CollaboratorPrestataire = "Prestataire"
)

// Collaborator is the extended profile of an invited person, carrying the
// fields that do not belong on the account row (phone, display type...).
// UserID is populated when the invitation is accepted; until then the row
// is reachable only through its email.
type Collaborator struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	FirstName   string    `gorm:"size:255" json:"first_name"`
	LastName    string    `gorm:"size:255" json:"last_name"`
	Email       string    `gorm:"size:255;not null;index" json:"email"`
	Phone       string    `gorm:"size:64" json:"phone,omitempty"`
	Role        string    `gorm:"size:255" json:"role"` // libellé d'affichage
	Type        string    `gorm:"size:32;default:Interne" json:"type"`
	Status      string    `gorm:"size:32;default:En attente" json:"status"`
	Permissions string    `gorm:"size:512" json:"permissions,omitempty"`
	AgencyID    uint      `gorm:"index;not null" json:"agency_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
