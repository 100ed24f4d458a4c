package models

import "time"

// AuditLog records privileged mutations (invites, status changes,
// removals, assignment replaces). Writes are best-effort.
type AuditLog struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   // qui a fait la modification
	EntityType string `gorm:"size:64"` // ex: "invitation", "user", "talent_assignment"
	EntityID   uint
	Action     string `gorm:"size:32"` // ex: "create", "update", "delete"
	Detail     string `gorm:"size:512"`
	CreatedAt  time.Time
}
