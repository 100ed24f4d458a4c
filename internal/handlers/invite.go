package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
	"github.com/diewo77/talent-app/internal/services"
	"github.com/diewo77/talent-app/validation"
)

// InviteHandler exposes the invitation lifecycle. Create is admin-only;
// Inspect and Accept are reached by the token bearer, without a session.
type InviteHandler struct {
	Svc *services.InvitationService
}

func NewInviteHandler(svc *services.InvitationService) *InviteHandler { return &InviteHandler{Svc: svc} }

type inviteRequest struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Type      string `json:"type"`
	TalentID  *uint  `json:"talentId"`
	TalentIDs []uint `json:"talentIds"`
}

// Create handles POST /api/collaborators/invite.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := policy.RequireRole(p, models.RoleAdmin); err != nil {
		fail(w, r, err)
		return
	}
	var req inviteRequest
	if !decode(w, r, &req) {
		return
	}
	v := make(validation.Violations)
	validation.Required("email", req.Email, v)
	validation.Email("email", req.Email, v)
	validation.Required("role", req.Role, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}

	invitation, err := h.Svc.Create(r.Context(), p, services.CreateInput{
		Email:     req.Email,
		Role:      req.Role,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Type:      req.Type,
		TalentID:  req.TalentID,
		TalentIDs: req.TalentIDs,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"invitation": map[string]any{
			"id":         invitation.ID,
			"email":      invitation.Email,
			"role":       invitation.Role,
			"status":     invitation.Status,
			"expires_at": invitation.ExpiresAt,
		},
	})
}

// Inspect handles GET /api/invites/{token}. Only email, role and the
// agency name are disclosed to the bearer.
func (h *InviteHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	info, err := h.Svc.Inspect(r.Context(), r.PathValue("token"))
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "invitation": info})
}

type acceptRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Accept handles POST /api/invites/{token}/accept.
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if !decode(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	v := make(validation.Violations)
	validation.MinLength("name", req.Name, 2, v)
	validation.MinLength("password", req.Password, 8, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}

	user, err := h.Svc.Accept(r.Context(), r.PathValue("token"), req.Name, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    userPayload(user),
	})
}
