package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
)

var (
	// ErrNotFound covers unknown targets and cross-agency targets alike,
	// so an admin cannot probe for accounts outside their agency.
	ErrNotFound      = errors.New("not_found")
	ErrSelfRemoval   = errors.New("cannot_remove_self")
	ErrInvalidStatus = errors.New("invalid_status")
)

// CollaboratorService covers the admin operations on agency members.
type CollaboratorService struct {
	DB   *gorm.DB
	Gate *policy.Gate
}

func NewCollaboratorService(db *gorm.DB, gate *policy.Gate) *CollaboratorService {
	return &CollaboratorService{DB: db, Gate: gate}
}

// member loads a user of the caller's agency; anything else is ErrNotFound.
func (s *CollaboratorService) member(ctx context.Context, caller *policy.Principal, userID uint) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("id = ? AND agency_id = ?", userID, caller.AgencyID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateStatus enables or disables an agency member and mirrors the change
// into the collaborator profile.
func (s *CollaboratorService) UpdateStatus(ctx context.Context, caller *policy.Principal, userID uint, status string) error {
	if status != models.UserActive && status != models.UserDisabled {
		return ErrInvalidStatus
	}
	user, err := s.member(ctx, caller, userID)
	if err != nil {
		return err
	}
	collabStatus := models.CollaboratorActive
	if status == models.UserDisabled {
		collabStatus = models.CollaboratorInactive
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Model(&models.Collaborator{}).
			Where("user_id = ? OR (email = ? AND agency_id = ?)", user.ID, user.Email, caller.AgencyID).
			Update("status", collabStatus).Error
	})
	if err != nil {
		return err
	}
	s.Gate.Invalidate(user.ID)
	recordAudit(s.DB, caller.ID, "user", user.ID, "update", "status="+status)
	return nil
}

// Remove severs the member from the agency. The account survives with a
// null agency; the collaborator profile is deleted.
func (s *CollaboratorService) Remove(ctx context.Context, caller *policy.Principal, userID uint) error {
	if userID == caller.ID {
		return ErrSelfRemoval
	}
	user, err := s.member(ctx, caller, userID)
	if err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Updates(map[string]any{"agency_id": nil, "status": models.UserActive}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? OR (email = ? AND agency_id = ?)", user.ID, user.Email, caller.AgencyID).
			Delete(&models.Collaborator{}).Error
	})
	if err != nil {
		return err
	}
	s.Gate.Invalidate(user.ID)
	recordAudit(s.DB, caller.ID, "user", user.ID, "delete", "removed from agency")
	return nil
}

// AssignTalents replaces the member's assignment set wholesale:
// delete-all-then-insert, idempotent with respect to the final state.
func (s *CollaboratorService) AssignTalents(ctx context.Context, caller *policy.Principal, userID uint, talentIDs []uint) (int, error) {
	user, err := s.member(ctx, caller, userID)
	if err != nil {
		return 0, err
	}
	// Ignore ids from outside the agency.
	var kept []uint
	if len(talentIDs) > 0 {
		if err := s.DB.WithContext(ctx).Model(&models.Talent{}).
			Where("agency_id = ? AND id IN ?", caller.AgencyID, talentIDs).Pluck("id", &kept).Error; err != nil {
			return 0, err
		}
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.TalentAssignment{}).Error; err != nil {
			return err
		}
		for _, talentID := range kept {
			assignment := models.TalentAssignment{
				TalentID:     talentID,
				UserID:       user.ID,
				AssignedBy:   caller.ID,
				RoleOnTalent: models.AssignmentManager,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.Gate.Invalidate(user.ID)
	recordAudit(s.DB, caller.ID, "talent_assignment", user.ID, "update", fmt.Sprintf("%d talents", len(kept)))
	return len(kept), nil
}

// Member is one row of the admin collaborator listing: the account merged
// with its extended profile. Pending invitees have a zero UserID.
type Member struct {
	UserID    uint   `json:"user_id,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status"`
}

// List returns the agency's members and pending invitees, admins included.
func (s *CollaboratorService) List(ctx context.Context, caller *policy.Principal) ([]Member, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).
		Where("agency_id = ?", caller.AgencyID).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	var collaborators []models.Collaborator
	if err := s.DB.WithContext(ctx).
		Where("agency_id = ?", caller.AgencyID).Order("id").Find(&collaborators).Error; err != nil {
		return nil, err
	}

	byUser := make(map[uint]*models.Collaborator)
	byEmail := make(map[string]*models.Collaborator)
	for i := range collaborators {
		c := &collaborators[i]
		if c.UserID != nil {
			byUser[*c.UserID] = c
		}
		byEmail[c.Email] = c
	}

	members := make([]Member, 0, len(users))
	seen := make(map[uint]bool)
	for _, u := range users {
		m := Member{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, Status: u.Status}
		c := byUser[u.ID]
		if c == nil {
			c = byEmail[u.Email]
		}
		if c != nil {
			seen[c.ID] = true
			m.FirstName, m.LastName, m.Phone, m.Type = c.FirstName, c.LastName, c.Phone, c.Type
		}
		members = append(members, m)
	}
	// Invitees without an account yet.
	for i := range collaborators {
		c := &collaborators[i]
		if seen[c.ID] {
			continue
		}
		members = append(members, Member{
			Email:     c.Email,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Phone:     c.Phone,
			Role:      c.Role,
			Type:      c.Type,
			Status:    c.Status,
		})
	}
	return members, nil
}
