package models

import "time"

// Calendar event types.
const (
	EventPreview     = "PREVIEW"
	EventPublication = "PUBLICATION"
	EventRDV         = "RDV"
	EventGeneric     = "EVENT"
	EventTournage    = "TOURNAGE"
)

// ValidEventType reports whether s is a known event type.
func ValidEventType(s string) bool {
	switch s {
	case EventPreview, EventPublication, EventRDV, EventGeneric, EventTournage:
		return true
	}
	return false
}

// CalendarEvent is a scheduled entry on a talent's calendar. Events derived
// from a collaboration carry CollaborationID; rows created before that
// reference existed are only identifiable by their title.
type CalendarEvent struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TalentID        uint           `gorm:"index;not null" json:"talent_id"`
	CollaborationID *uint          `gorm:"index" json:"collaboration_id,omitempty"`
	Collaboration   *Collaboration `gorm:"foreignKey:CollaborationID" json:"-"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"size:2000" json:"description,omitempty"`
	Start           time.Time      `gorm:"not null;index" json:"start"`
	End             time.Time      `gorm:"not null" json:"end"`
	Type            string         `gorm:"size:32;not null" json:"type"`
	Location        string         `gorm:"size:255" json:"location,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
