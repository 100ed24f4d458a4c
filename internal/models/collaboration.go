package models

import "time"

// Collaboration is a brand deal for a talent. The optional preview and
// publication dates each derive one calendar event.
type Collaboration struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TalentID        uint       `gorm:"index;not null" json:"talent_id"`
	Talent          *Talent    `gorm:"foreignKey:TalentID" json:"-"`
	Marque          string     `gorm:"size:255;not null" json:"marque"`
	Description     string     `gorm:"size:2000" json:"description,omitempty"`
	Montant         float64    `json:"montant"`
	Statut          string     `gorm:"size:32;default:En cours" json:"statut"`
	DatePreview     *time.Time `json:"date_preview,omitempty"`
	DatePublication *time.Time `json:"date_publication,omitempty"`
	DisplayOrder    int        `gorm:"default:0" json:"display_order"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
