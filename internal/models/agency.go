package models

import "time"

// Agency is the tenant boundary: it owns users, talents and collaborations.
// Created on owner onboarding, mutated via settings, never hard-deleted.
type Agency struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Logo            string    `gorm:"size:512" json:"logo,omitempty"`
	PrimaryColor    string    `gorm:"size:16" json:"primary_color,omitempty"`
	UseDefaultColor bool      `gorm:"default:true" json:"use_default_colors"`
	OwnerID         uint      `gorm:"index;not null" json:"owner_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
