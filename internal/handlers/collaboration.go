package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/i18n"
	"github.com/diewo77/talent-app/internal/middleware"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
	"github.com/diewo77/talent-app/internal/services"
	"github.com/diewo77/talent-app/validation"
)

// CollaborationHandler manages brand deals. Every mutation resynchronizes
// the derived calendar events.
type CollaborationHandler struct {
	DB       *gorm.DB
	Gate     *policy.Gate
	Calendar *services.CalendarService
}

func NewCollaborationHandler(db *gorm.DB, gate *policy.Gate, cal *services.CalendarService) *CollaborationHandler {
	return &CollaborationHandler{DB: db, Gate: gate, Calendar: cal}
}

type collaborationRequest struct {
	Marque          string  `json:"marque"`
	Description     string  `json:"description"`
	Montant         float64 `json:"montant"`
	Statut          string  `json:"statut"`
	DatePreview     string  `json:"date_preview"`     // "2006-01-02", vide = absent
	DatePublication string  `json:"date_publication"` // idem
	DisplayOrder    int     `json:"display_order"`
}

// parseDay reads a YYYY-MM-DD date; empty means absent.
func parseDay(w http.ResponseWriter, r *http.Request, field, value string) (*time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		v := validation.Violations{field: "invalid_value"}
		failValidation(w, r, v)
		return nil, false
	}
	return &d, true
}

// ListForTalent handles GET /api/talents/{id}/collaborations.
func (h *CollaborationHandler) ListForTalent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	talentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !accessibleTalent(w, r, h.Gate, p, talentID) {
		return
	}
	collaborations := []models.Collaboration{}
	if err := h.DB.Where("talent_id = ?", talentID).
		Order("display_order, id").Find(&collaborations).Error; err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "collaborations": collaborations})
}

// Create handles POST /api/talents/{id}/collaborations.
func (h *CollaborationHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	talentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !accessibleTalent(w, r, h.Gate, p, talentID) {
		return
	}
	var req collaborationRequest
	if !decode(w, r, &req) {
		return
	}
	v := make(validation.Violations)
	validation.Required("marque", req.Marque, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	preview, ok := parseDay(w, r, "date_preview", req.DatePreview)
	if !ok {
		return
	}
	publication, ok := parseDay(w, r, "date_publication", req.DatePublication)
	if !ok {
		return
	}

	statut := req.Statut
	if statut == "" {
		statut = "En cours"
	}
	collab := models.Collaboration{
		TalentID:        talentID,
		Marque:          strings.TrimSpace(req.Marque),
		Description:     req.Description,
		Montant:         req.Montant,
		Statut:          statut,
		DatePreview:     preview,
		DatePublication: publication,
		DisplayOrder:    req.DisplayOrder,
	}
	if err := h.DB.Create(&collab).Error; err != nil {
		fail(w, r, err)
		return
	}
	if err := h.Calendar.Sync(r.Context(), &collab); err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "collaboration": collab})
}

// loadAccessible fetches a collaboration whose talent the caller may see.
func (h *CollaborationHandler) loadAccessible(w http.ResponseWriter, r *http.Request, p *policy.Principal) (*models.Collaboration, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	var collab models.Collaboration
	if err := h.DB.First(&collab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, i18n.T(middleware.LangFrom(r), "not_found"), nil)
		} else {
			fail(w, r, err)
		}
		return nil, false
	}
	if !accessibleTalent(w, r, h.Gate, p, collab.TalentID) {
		return nil, false
	}
	return &collab, true
}

// Update handles PATCH /api/collaborations/{id}.
func (h *CollaborationHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	collab, ok := h.loadAccessible(w, r, p)
	if !ok {
		return
	}
	var req collaborationRequest
	if !decode(w, r, &req) {
		return
	}
	preview, ok := parseDay(w, r, "date_preview", req.DatePreview)
	if !ok {
		return
	}
	publication, ok := parseDay(w, r, "date_publication", req.DatePublication)
	if !ok {
		return
	}
	if s := strings.TrimSpace(req.Marque); s != "" {
		collab.Marque = s
	}
	if req.Description != "" {
		collab.Description = req.Description
	}
	if req.Montant != 0 {
		collab.Montant = req.Montant
	}
	if req.Statut != "" {
		collab.Statut = req.Statut
	}
	collab.DatePreview = preview
	collab.DatePublication = publication
	if req.DisplayOrder != 0 {
		collab.DisplayOrder = req.DisplayOrder
	}
	if err := h.DB.Save(collab).Error; err != nil {
		fail(w, r, err)
		return
	}
	if err := h.Calendar.Sync(r.Context(), collab); err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "collaboration": collab})
}

// Delete handles DELETE /api/collaborations/{id}.
func (h *CollaborationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	collab, ok := h.loadAccessible(w, r, p)
	if !ok {
		return
	}
	if err := h.Calendar.Unsync(r.Context(), collab); err != nil {
		fail(w, r, err)
		return
	}
	if err := h.DB.Delete(&models.Collaboration{}, collab.ID).Error; err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "collaboration supprimée"})
}
