package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/i18n"
	"github.com/diewo77/talent-app/internal/middleware"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
	"github.com/diewo77/talent-app/internal/services"
)

// CollaboratorHandler exposes the admin operations on agency members.
// Every route is ADMIN-only.
type CollaboratorHandler struct {
	Svc *services.CollaboratorService
}

func NewCollaboratorHandler(svc *services.CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{Svc: svc}
}

// admin resolves the principal and enforces the ADMIN role.
func (h *CollaboratorHandler) admin(w http.ResponseWriter, r *http.Request) (*policy.Principal, bool) {
	p, ok := principal(w, r)
	if !ok {
		return nil, false
	}
	if err := policy.RequireRole(p, models.RoleAdmin); err != nil {
		fail(w, r, err)
		return nil, false
	}
	return p, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id64, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(middleware.LangFrom(r), "not_found"), nil)
		return 0, false
	}
	return uint(id64), true
}

// List handles GET /api/collaborators.
func (h *CollaboratorHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.admin(w, r)
	if !ok {
		return
	}
	members, err := h.Svc.List(r.Context(), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "collaborators": members})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/collaborators/{userId}.
func (h *CollaboratorHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.admin(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Svc.UpdateStatus(r.Context(), p, userID, req.Status); err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "statut mis à jour"})
}

// Remove handles DELETE /api/collaborators/{userId}.
func (h *CollaboratorHandler) Remove(w http.ResponseWriter, r *http.Request) {
	p, ok := h.admin(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := h.Svc.Remove(r.Context(), p, userID); err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "collaborateur retiré"})
}

type assignRequest struct {
	TalentIDs []uint `json:"talentIds"`
}

// AssignTalents handles POST /api/collaborators/{userId}/assign-talents.
func (h *CollaboratorHandler) AssignTalents(w http.ResponseWriter, r *http.Request) {
	p, ok := h.admin(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	var req assignRequest
	if !decode(w, r, &req) {
		return
	}
	count, err := h.Svc.AssignTalents(r.Context(), p, userID, req.TalentIDs)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "assignedCount": count})
}
