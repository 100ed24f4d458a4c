package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/talent-app/internal/mailer"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
	"github.com/diewo77/talent-app/internal/token"
)

// Business-rule violations of the invitation lifecycle.
var (
	ErrEmailTaken       = errors.New("email_already_used")
	ErrInvitePending    = errors.New("invitation_pending")
	ErrInviteNotFound   = errors.New("invitation_not_found")
	ErrInviteNotPending = errors.New("invitation_not_pending")
	ErrInviteExpired    = errors.New("invitation_expired")
	ErrInvalidRole      = errors.New("invalid_role")
	ErrTalentRequired   = errors.New("talent_required")
)

// InvitationService drives the PENDING → ACCEPTED/EXPIRED lifecycle.
type InvitationService struct {
	DB      *gorm.DB
	Mailer  mailer.Mailer
	Gate    *policy.Gate
	AppURL  string
	TTLDays int
}

func NewInvitationService(db *gorm.DB, m mailer.Mailer, gate *policy.Gate, appURL string, ttlDays int) *InvitationService {
	return &InvitationService{DB: db, Mailer: m, Gate: gate, AppURL: appURL, TTLDays: ttlDays}
}

// CreateInput is the admin-provided invite request.
type CreateInput struct {
	Email     string
	Role      string
	FirstName string
	LastName  string
	Phone     string
	Type      string
	TalentID  *uint  // mandatory for TALENT invitations
	TalentIDs []uint // optional pre-assignments for TALENT_MANAGER
}

// Create validates the request, mints the token, persists the shadow
// collaborator profile and the invitation, and dispatches the invite mail.
// Mail failures are logged, not surfaced: the invitation stands.
func (s *InvitationService) Create(ctx context.Context, caller *policy.Principal, in CreateInput) (*models.Invitation, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	// Un admin ne peut pas inviter un autre admin par ce canal.
	if in.Role != models.RoleTalentManager && in.Role != models.RoleTalent {
		return nil, ErrInvalidRole
	}
	talentIDs := in.TalentIDs
	if in.Role == models.RoleTalent {
		// A TALENT account maps to exactly one talent.
		if in.TalentID == nil {
			return nil, ErrTalentRequired
		}
		talentIDs = []uint{*in.TalentID}
	}
	var err error
	if talentIDs, err = s.agencyTalents(ctx, caller.AgencyID, talentIDs); err != nil {
		return nil, err
	}
	if in.Role == models.RoleTalent && len(talentIDs) != 1 {
		return nil, ErrTalentRequired
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	if err := s.DB.WithContext(ctx).Model(&models.Invitation{}).
		Where("email = ? AND status = ?", in.Email, models.InvitationPending).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrInvitePending
	}

	raw, err := token.Generate()
	if err != nil {
		return nil, err
	}

	collabType := in.Type
	if collabType == "" {
		collabType = models.CollaboratorInterne
	}
	collaborator := models.Collaborator{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      in.Role,
		Type:      collabType,
		Status:    models.CollaboratorPending,
		AgencyID:  caller.AgencyID,
	}
	invitation := models.Invitation{
		AgencyID:  caller.AgencyID,
		Email:     in.Email,
		Role:      in.Role,
		TokenHash: token.Hash(raw),
		Status:    models.InvitationPending,
		ExpiresAt: token.ExpiresIn(s.TTLDays),
		InvitedBy: caller.ID,
		Metadata:  models.InvitationMetadata{TalentIDs: talentIDs},
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&collaborator).Error; err != nil {
			return err
		}
		invitation.Metadata.CollaboratorID = collaborator.ID
		return tx.Create(&invitation).Error
	})
	if err != nil {
		return nil, err
	}
	recordAudit(s.DB, caller.ID, "invitation", invitation.ID, "create", in.Email)

	var agency models.Agency
	agencyName := ""
	if err := s.DB.WithContext(ctx).First(&agency, caller.AgencyID).Error; err == nil {
		agencyName = agency.Name
	}
	mail := mailer.Invitation{
		To:         in.Email,
		AgencyName: agencyName,
		Role:       in.Role,
		Link:       fmt.Sprintf("%s/invite/accept?token=%s", strings.TrimRight(s.AppURL, "/"), raw),
	}
	if err := s.Mailer.SendInvitation(ctx, mail); err != nil {
		log.Printf("invitation %d: envoi du mail échoué: %v", invitation.ID, err)
	}
	return &invitation, nil
}

// agencyTalents keeps only the ids that exist within the agency.
func (s *InvitationService) agencyTalents(ctx context.Context, agencyID uint, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var kept []uint
	if err := s.DB.WithContext(ctx).Model(&models.Talent{}).
		Where("agency_id = ? AND id IN ?", agencyID, ids).Pluck("id", &kept).Error; err != nil {
		return nil, err
	}
	return kept, nil
}

// InviteInfo is the only information disclosed to a token bearer.
type InviteInfo struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	AgencyName string `json:"agency_name"`
}

// Inspect resolves a raw token. A PENDING invitation past its expiry is
// flipped to EXPIRED on the spot; there is no background sweep.
func (s *InvitationService) Inspect(ctx context.Context, rawToken string) (*InviteInfo, error) {
	inv, err := s.lookupPending(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	var agency models.Agency
	agencyName := ""
	if err := s.DB.WithContext(ctx).First(&agency, inv.AgencyID).Error; err == nil {
		agencyName = agency.Name
	}
	return &InviteInfo{Email: inv.Email, Role: inv.Role, AgencyName: agencyName}, nil
}

func (s *InvitationService) lookupPending(ctx context.Context, rawToken string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.DB.WithContext(ctx).Where("token_hash = ?", token.Hash(rawToken)).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if inv.Status != models.InvitationPending {
		return nil, ErrInviteNotPending
	}
	if inv.IsExpired(time.Now()) {
		s.DB.WithContext(ctx).Model(&models.Invitation{}).
			Where("id = ? AND status = ?", inv.ID, models.InvitationPending).
			Update("status", models.InvitationExpired)
		return nil, ErrInviteExpired
	}
	return &inv, nil
}

// Accept materializes the invited account. The whole sequence runs in one
// transaction, and the PENDING→ACCEPTED flip is the concurrency guard: two
// racing accepts cannot both pass it.
func (s *InvitationService) Accept(ctx context.Context, rawToken, name, password string) (*models.User, error) {
	inv, err := s.lookupPending(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	// Race between Inspect and Accept: the account may exist by now.
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", inv.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		Email:         inv.Email,
		Name:          name,
		Password:      string(hash),
		Role:          inv.Role,
		Status:        models.UserActive,
		EmailVerified: true,
		AgencyID:      &inv.AgencyID,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", inv.ID, models.InvitationPending).
			Updates(map[string]any{"status": models.InvitationAccepted, "accepted_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race against a concurrent accept.
			return ErrInviteNotPending
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		for _, talentID := range inv.Metadata.TalentIDs {
			assignment := models.TalentAssignment{
				TalentID:     talentID,
				UserID:       user.ID,
				AssignedBy:   inv.InvitedBy,
				RoleOnTalent: models.AssignmentManager,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		// Activate the shadow profile and link it to the fresh account.
		return tx.Model(&models.Collaborator{}).
			Where("email = ? AND agency_id = ?", inv.Email, inv.AgencyID).
			Updates(map[string]any{"status": models.CollaboratorActive, "user_id": user.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	s.Gate.Invalidate(user.ID)
	recordAudit(s.DB, user.ID, "invitation", inv.ID, "accept", inv.Email)
	return &user, nil
}
