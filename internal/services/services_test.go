package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appdb "github.com/diewo77/talent-app/internal/db"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := appdb.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// seedAgency creates an agency with its ADMIN owner and returns the owner's
// principal.
func seedAgency(t *testing.T, conn *gorm.DB, name, adminEmail string) *policy.Principal {
	t.Helper()
	admin := models.User{Email: adminEmail, Name: "Admin " + name, Password: "x", Role: models.RoleAdmin, Status: models.UserActive}
	if err := conn.Create(&admin).Error; err != nil {
		t.Fatalf("admin: %v", err)
	}
	agency := models.Agency{Name: name, OwnerID: admin.ID}
	if err := conn.Create(&agency).Error; err != nil {
		t.Fatalf("agency: %v", err)
	}
	if err := conn.Model(&models.User{}).Where("id = ?", admin.ID).Update("agency_id", agency.ID).Error; err != nil {
		t.Fatalf("link admin: %v", err)
	}
	return &policy.Principal{
		ID:       admin.ID,
		Email:    admin.Email,
		Name:     admin.Name,
		Role:     models.RoleAdmin,
		Status:   models.UserActive,
		AgencyID: agency.ID,
	}
}

func seedTalent(t *testing.T, conn *gorm.DB, agencyID uint, name string) models.Talent {
	t.Helper()
	talent := models.Talent{AgencyID: agencyID, Name: name}
	if err := conn.Create(&talent).Error; err != nil {
		t.Fatalf("talent: %v", err)
	}
	return talent
}

// seedManager creates an active TALENT_MANAGER account in the agency.
func seedManager(t *testing.T, conn *gorm.DB, agencyID uint, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Name: "Manager", Password: "x", Role: models.RoleTalentManager, Status: models.UserActive, AgencyID: &agencyID}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("manager: %v", err)
	}
	return user
}

func newTestGate(conn *gorm.DB) *policy.Gate {
	return policy.NewGate(conn, time.Minute)
}
