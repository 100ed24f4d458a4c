package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/internal/models"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func derivedEvents(t *testing.T, conn *gorm.DB, collaborationID uint) []models.CalendarEvent {
	t.Helper()
	var events []models.CalendarEvent
	if err := conn.Where("collaboration_id = ?", collaborationID).Order("start").Find(&events).Error; err != nil {
		t.Fatalf("events: %v", err)
	}
	return events
}

func TestCalendarSyncCreatesDerivedEvents(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	talent := seedTalent(t, conn, admin.AgencyID, "Léa")
	collab := models.Collaboration{TalentID: talent.ID, Marque: "Nocibé",
		DatePreview: day(2026, time.March, 10), DatePublication: day(2026, time.March, 17)}
	if err := conn.Create(&collab).Error; err != nil {
		t.Fatalf("collab: %v", err)
	}
	svc := NewCalendarService(conn)

	if err := svc.Sync(context.Background(), &collab); err != nil {
		t.Fatalf("sync: %v", err)
	}
	events := derivedEvents(t, conn, collab.ID)
	if len(events) != 2 {
		t.Fatalf("expected 2 events got %d", len(events))
	}
	if events[0].Title != "Preview Nocibé" || events[0].Type != models.EventPreview {
		t.Fatalf("unexpected preview event: %+v", events[0])
	}
	if events[1].Title != "Publication Nocibé" || events[1].Type != models.EventPublication {
		t.Fatalf("unexpected publication event: %+v", events[1])
	}
	if events[0].Start.Hour() != 9 || events[0].End.Sub(events[0].Start) != 30*time.Minute {
		t.Fatalf("unexpected slot: %v -> %v", events[0].Start, events[0].End)
	}
}

func TestCalendarSyncIdempotent(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	talent := seedTalent(t, conn, admin.AgencyID, "Léa")
	collab := models.Collaboration{TalentID: talent.ID, Marque: "Nocibé",
		DatePreview: day(2026, time.March, 10), DatePublication: day(2026, time.March, 17)}
	if err := conn.Create(&collab).Error; err != nil {
		t.Fatalf("collab: %v", err)
	}
	svc := NewCalendarService(conn)

	for i := 0; i < 3; i++ {
		if err := svc.Sync(context.Background(), &collab); err != nil {
			t.Fatalf("sync %d: %v", i, err)
		}
	}
	if n := len(derivedEvents(t, conn, collab.ID)); n != 2 {
		t.Fatalf("expected 2 events after repeated sync got %d", n)
	}

	// Dropping a date drops its event.
	collab.DatePublication = nil
	if err := svc.Sync(context.Background(), &collab); err != nil {
		t.Fatalf("sync without publication: %v", err)
	}
	events := derivedEvents(t, conn, collab.ID)
	if len(events) != 1 || events[0].Type != models.EventPreview {
		t.Fatalf("expected lone preview got %+v", events)
	}
}

func TestCalendarSyncAdoptsLegacyRows(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	talent := seedTalent(t, conn, admin.AgencyID, "Léa")
	collab := models.Collaboration{TalentID: talent.ID, Marque: "Nocibé", DatePreview: day(2026, time.March, 10)}
	if err := conn.Create(&collab).Error; err != nil {
		t.Fatalf("collab: %v", err)
	}
	// Rows written before events carried a collaboration reference.
	legacy := models.CalendarEvent{TalentID: talent.ID, Title: "PREVIEW NOCIBÉ", Type: models.EventPreview,
		Start: time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC), End: time.Date(2026, time.March, 9, 9, 30, 0, 0, time.UTC)}
	if err := conn.Create(&legacy).Error; err != nil {
		t.Fatalf("legacy: %v", err)
	}
	svc := NewCalendarService(conn)

	if err := svc.Sync(context.Background(), &collab); err != nil {
		t.Fatalf("sync: %v", err)
	}
	var orphaned int64
	conn.Model(&models.CalendarEvent{}).Where("collaboration_id IS NULL AND talent_id = ?", talent.ID).Count(&orphaned)
	if orphaned != 0 {
		t.Fatalf("legacy row survived: %d", orphaned)
	}
	if n := len(derivedEvents(t, conn, collab.ID)); n != 1 {
		t.Fatalf("expected 1 derived event got %d", n)
	}
}

func TestCalendarSyncLeavesSiblingsAlone(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	talent := seedTalent(t, conn, admin.AgencyID, "Léa")
	// Two collaborations with the same brand on the same talent.
	first := models.Collaboration{TalentID: talent.ID, Marque: "Nocibé", DatePreview: day(2026, time.March, 10)}
	second := models.Collaboration{TalentID: talent.ID, Marque: "Nocibé", DatePreview: day(2026, time.June, 2)}
	if err := conn.Create(&first).Error; err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := conn.Create(&second).Error; err != nil {
		t.Fatalf("second: %v", err)
	}
	svc := NewCalendarService(conn)

	if err := svc.Sync(context.Background(), &first); err != nil {
		t.Fatalf("sync first: %v", err)
	}
	if err := svc.Sync(context.Background(), &second); err != nil {
		t.Fatalf("sync second: %v", err)
	}
	// The reference, not the title, decides ownership.
	if n := len(derivedEvents(t, conn, first.ID)); n != 1 {
		t.Fatalf("first collaboration lost its event: %d", n)
	}
	if n := len(derivedEvents(t, conn, second.ID)); n != 1 {
		t.Fatalf("second collaboration has %d events", n)
	}
}

func TestCalendarUnsyncKeepsDirectEvents(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	talent := seedTalent(t, conn, admin.AgencyID, "Léa")
	collab := models.Collaboration{TalentID: talent.ID, Marque: "Nocibé",
		DatePreview: day(2026, time.March, 10), DatePublication: day(2026, time.March, 17)}
	if err := conn.Create(&collab).Error; err != nil {
		t.Fatalf("collab: %v", err)
	}
	rdv := models.CalendarEvent{TalentID: talent.ID, Title: "Shooting studio", Type: models.EventRDV,
		Start: time.Date(2026, time.March, 12, 14, 0, 0, 0, time.UTC), End: time.Date(2026, time.March, 12, 16, 0, 0, 0, time.UTC)}
	if err := conn.Create(&rdv).Error; err != nil {
		t.Fatalf("rdv: %v", err)
	}
	svc := NewCalendarService(conn)

	if err := svc.Sync(context.Background(), &collab); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if err := svc.Unsync(context.Background(), &collab); err != nil {
		t.Fatalf("unsync: %v", err)
	}
	var events []models.CalendarEvent
	if err := conn.Where("talent_id = ?", talent.ID).Find(&events).Error; err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Shooting studio" {
		t.Fatalf("direct event lost: %+v", events)
	}
}
