package services

import (
	"log"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/internal/models"
)

// recordAudit traces a privileged mutation. Failures are logged and
// swallowed; auditing never fails a request.
func recordAudit(db *gorm.DB, userID uint, entityType string, entityID uint, action, detail string) {
	entry := models.AuditLog{UserID: userID, EntityType: entityType, EntityID: entityID, Action: action, Detail: detail}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("audit: %v", err)
	}
}
