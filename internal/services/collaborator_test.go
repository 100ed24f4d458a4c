package services

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
)

func TestAssignTalentsReplacesSet(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	other := seedAgency(t, conn, "Agence B", "admin@b.test")
	t1 := seedTalent(t, conn, admin.AgencyID, "Léa")
	t2 := seedTalent(t, conn, admin.AgencyID, "Hugo")
	t3 := seedTalent(t, conn, admin.AgencyID, "Nina")
	foreign := seedTalent(t, conn, other.AgencyID, "Ailleurs")
	manager := seedManager(t, conn, admin.AgencyID, "tm@a.test")
	svc := NewCollaboratorService(conn, newTestGate(conn))

	count, err := svc.AssignTalents(context.Background(), admin, manager.ID, []uint{t1.ID, t2.ID})
	if err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 assigned got %d", count)
	}

	// Replacement, not accumulation; the foreign id is dropped silently.
	count, err = svc.AssignTalents(context.Background(), admin, manager.ID, []uint{t2.ID, t3.ID, foreign.ID})
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 assigned got %d", count)
	}
	var ids []uint
	if err := conn.Model(&models.TalentAssignment{}).Where("user_id = ?", manager.ID).
		Order("talent_id").Pluck("talent_id", &ids).Error; err != nil {
		t.Fatalf("pluck: %v", err)
	}
	if len(ids) != 2 || ids[0] != t2.ID || ids[1] != t3.ID {
		t.Fatalf("unexpected assignment set: %v", ids)
	}

	// Empty set clears everything.
	if _, err := svc.AssignTalents(context.Background(), admin, manager.ID, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	var remaining int64
	conn.Model(&models.TalentAssignment{}).Where("user_id = ?", manager.ID).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected empty set got %d", remaining)
	}
}

func TestAssignTalentsRefreshesVisibility(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	t1 := seedTalent(t, conn, admin.AgencyID, "Léa")
	manager := seedManager(t, conn, admin.AgencyID, "tm@a.test")
	gate := newTestGate(conn)
	svc := NewCollaboratorService(conn, gate)

	mp := &models.User{}
	if err := conn.First(mp, manager.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	principal := principalFor(mp)

	ids, err := gate.AccessibleTalentIDs(context.Background(), principal)
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no talents before assignment, got %v", ids)
	}
	// The stale cached set must not survive the assignment.
	if _, err := svc.AssignTalents(context.Background(), admin, manager.ID, []uint{t1.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	ids, err = gate.AccessibleTalentIDs(context.Background(), principal)
	if err != nil {
		t.Fatalf("ids after assign: %v", err)
	}
	if len(ids) != 1 || ids[0] != t1.ID {
		t.Fatalf("expected [%d] got %v", t1.ID, ids)
	}
}

func TestUpdateStatusMirrorsProfile(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	manager := seedManager(t, conn, admin.AgencyID, "tm@a.test")
	collab := models.Collaborator{UserID: &manager.ID, Email: manager.Email, Role: models.RoleTalentManager,
		Type: models.CollaboratorInterne, Status: models.CollaboratorActive, AgencyID: admin.AgencyID}
	if err := conn.Create(&collab).Error; err != nil {
		t.Fatalf("collaborator: %v", err)
	}
	svc := NewCollaboratorService(conn, newTestGate(conn))

	if err := svc.UpdateStatus(context.Background(), admin, manager.ID, models.UserDisabled); err != nil {
		t.Fatalf("disable: %v", err)
	}
	var user models.User
	conn.First(&user, manager.ID)
	if user.Status != models.UserDisabled {
		t.Fatalf("user not disabled: %s", user.Status)
	}
	var reloaded models.Collaborator
	conn.First(&reloaded, collab.ID)
	if reloaded.Status != models.CollaboratorInactive {
		t.Fatalf("profile not mirrored: %s", reloaded.Status)
	}

	if err := svc.UpdateStatus(context.Background(), admin, manager.ID, models.UserActive); err != nil {
		t.Fatalf("re-enable: %v", err)
	}
	conn.First(&reloaded, collab.ID)
	if reloaded.Status != models.CollaboratorActive {
		t.Fatalf("profile not re-activated: %s", reloaded.Status)
	}

	if err := svc.UpdateStatus(context.Background(), admin, manager.ID, "SUSPENDED"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus got %v", err)
	}
}

func TestUpdateStatusHidesForeignMembers(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	other := seedAgency(t, conn, "Agence B", "admin@b.test")
	foreign := seedManager(t, conn, other.AgencyID, "tm@b.test")
	svc := NewCollaboratorService(conn, newTestGate(conn))

	// A member of another agency is indistinguishable from a missing one.
	if err := svc.UpdateStatus(context.Background(), admin, foreign.ID, models.UserDisabled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	var user models.User
	conn.First(&user, foreign.ID)
	if user.Status != models.UserActive {
		t.Fatalf("foreign account touched: %s", user.Status)
	}
}

func TestRemoveSelfForbidden(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	svc := NewCollaboratorService(conn, newTestGate(conn))

	if err := svc.Remove(context.Background(), admin, admin.ID); !errors.Is(err, ErrSelfRemoval) {
		t.Fatalf("expected ErrSelfRemoval got %v", err)
	}
	var user models.User
	conn.First(&user, admin.ID)
	if user.AgencyID == nil {
		t.Fatalf("admin detached from own agency")
	}
}

func TestRemoveDetachesAccount(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	t1 := seedTalent(t, conn, admin.AgencyID, "Léa")
	manager := seedManager(t, conn, admin.AgencyID, "tm@a.test")
	collab := models.Collaborator{UserID: &manager.ID, Email: manager.Email, Role: models.RoleTalentManager,
		Type: models.CollaboratorInterne, Status: models.CollaboratorActive, AgencyID: admin.AgencyID}
	if err := conn.Create(&collab).Error; err != nil {
		t.Fatalf("collaborator: %v", err)
	}
	svc := NewCollaboratorService(conn, newTestGate(conn))
	if _, err := svc.AssignTalents(context.Background(), admin, manager.ID, []uint{t1.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := svc.Remove(context.Background(), admin, manager.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	var user models.User
	conn.First(&user, manager.ID)
	if user.AgencyID != nil {
		t.Fatalf("account still attached")
	}
	var profiles int64
	conn.Model(&models.Collaborator{}).Where("email = ?", manager.Email).Count(&profiles)
	if profiles != 0 {
		t.Fatalf("profile survived removal")
	}
	// Assignment history is kept for audit purposes.
	var assignments int64
	conn.Model(&models.TalentAssignment{}).Where("user_id = ?", manager.ID).Count(&assignments)
	if assignments != 1 {
		t.Fatalf("expected assignment history to remain, got %d", assignments)
	}
}

func TestListMergesAccountsAndInvitees(t *testing.T) {
	conn := setupTestDB(t)
	admin := seedAgency(t, conn, "Agence A", "admin@a.test")
	manager := seedManager(t, conn, admin.AgencyID, "tm@a.test")
	linked := models.Collaborator{UserID: &manager.ID, Email: manager.Email, FirstName: "Marie", LastName: "Durand",
		Role: models.RoleTalentManager, Type: models.CollaboratorFreelance, Status: models.CollaboratorActive, AgencyID: admin.AgencyID}
	pending := models.Collaborator{Email: "invitee@a.test", FirstName: "Paul", Role: models.RoleTalentManager,
		Type: models.CollaboratorInterne, Status: models.CollaboratorPending, AgencyID: admin.AgencyID}
	if err := conn.Create(&linked).Error; err != nil {
		t.Fatalf("linked: %v", err)
	}
	if err := conn.Create(&pending).Error; err != nil {
		t.Fatalf("pending: %v", err)
	}
	svc := NewCollaboratorService(conn, newTestGate(conn))

	members, err := svc.List(context.Background(), admin)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Admin + manager + pending invitee.
	if len(members) != 3 {
		t.Fatalf("expected 3 members got %d: %+v", len(members), members)
	}
	byEmail := make(map[string]Member)
	for _, m := range members {
		byEmail[m.Email] = m
	}
	if m := byEmail["tm@a.test"]; m.UserID != manager.ID || m.FirstName != "Marie" || m.Type != models.CollaboratorFreelance {
		t.Fatalf("profile not merged: %+v", m)
	}
	if m := byEmail["invitee@a.test"]; m.UserID != 0 || m.Status != models.CollaboratorPending {
		t.Fatalf("invitee row wrong: %+v", m)
	}
}

// principalFor builds a principal from a stored account, the way the
// middleware would.
func principalFor(u *models.User) *policy.Principal {
	agencyID := uint(0)
	if u.AgencyID != nil {
		agencyID = *u.AgencyID
	}
	return &policy.Principal{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, Status: u.Status, AgencyID: agencyID}
}
