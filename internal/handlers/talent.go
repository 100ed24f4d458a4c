package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/i18n"
	"github.com/diewo77/talent-app/internal/middleware"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
	"github.com/diewo77/talent-app/validation"
)

type TalentHandler struct {
	DB   *gorm.DB
	Gate *policy.Gate
}

func NewTalentHandler(db *gorm.DB, gate *policy.Gate) *TalentHandler {
	return &TalentHandler{DB: db, Gate: gate}
}

// List handles GET /api/talents. Every listing goes through the access
// policy; there is no row-level security below this point.
func (h *TalentHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	ids, err := h.Gate.AccessibleTalentIDs(r.Context(), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	talents := []models.Talent{}
	if len(ids) > 0 {
		if err := h.DB.Where("id IN ?", ids).Order("name").Find(&talents).Error; err != nil {
			fail(w, r, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "talents": talents})
}

type talentRequest struct {
	Name      string `json:"name"`
	Pseudo    string `json:"pseudo"`
	Email     string `json:"email"`
	Instagram string `json:"instagram"`
}

// Create handles POST /api/talents (ADMIN).
func (h *TalentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := policy.RequireRole(p, models.RoleAdmin); err != nil {
		fail(w, r, err)
		return
	}
	var req talentRequest
	if !decode(w, r, &req) {
		return
	}
	v := make(validation.Violations)
	validation.Required("name", strings.TrimSpace(req.Name), v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	talent := models.Talent{
		AgencyID:  p.AgencyID,
		Name:      strings.TrimSpace(req.Name),
		Pseudo:    strings.TrimSpace(req.Pseudo),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Instagram: strings.TrimSpace(req.Instagram),
	}
	if err := h.DB.Create(&talent).Error; err != nil {
		fail(w, r, err)
		return
	}
	// The agency's talent set changed: cached admin views are stale.
	h.Gate.InvalidateAll()
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "talent": talent})
}

// load fetches a talent the principal may access; cross-agency and
// unassigned talents are indistinguishable from missing ones.
func (h *TalentHandler) load(w http.ResponseWriter, r *http.Request, p *policy.Principal) (*models.Talent, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	canAccess, err := h.Gate.CanAccessTalent(r.Context(), p, id)
	if err != nil {
		fail(w, r, err)
		return nil, false
	}
	if !canAccess {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(middleware.LangFrom(r), "not_found"), nil)
		return nil, false
	}
	var talent models.Talent
	if err := h.DB.Where("id = ? AND agency_id = ?", id, p.AgencyID).First(&talent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, i18n.T(middleware.LangFrom(r), "not_found"), nil)
		} else {
			fail(w, r, err)
		}
		return nil, false
	}
	return &talent, true
}

// Get handles GET /api/talents/{id}.
func (h *TalentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	talent, ok := h.load(w, r, p)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "talent": talent})
}

// Update handles PATCH /api/talents/{id}.
func (h *TalentHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	talent, ok := h.load(w, r, p)
	if !ok {
		return
	}
	var req talentRequest
	if !decode(w, r, &req) {
		return
	}
	if s := strings.TrimSpace(req.Name); s != "" {
		talent.Name = s
	}
	if req.Pseudo != "" {
		talent.Pseudo = strings.TrimSpace(req.Pseudo)
	}
	if req.Email != "" {
		talent.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Instagram != "" {
		talent.Instagram = strings.TrimSpace(req.Instagram)
	}
	if err := h.DB.Save(talent).Error; err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "talent": talent})
}

// Delete handles DELETE /api/talents/{id} (ADMIN). Assignments,
// collaborations and events of the talent go with it.
func (h *TalentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := policy.RequireRole(p, models.RoleAdmin); err != nil {
		fail(w, r, err)
		return
	}
	talent, ok := h.load(w, r, p)
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("talent_id = ?", talent.ID).Delete(&models.TalentAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("talent_id = ?", talent.ID).Delete(&models.CalendarEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("talent_id = ?", talent.ID).Delete(&models.Collaboration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Talent{}, talent.ID).Error
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	h.Gate.InvalidateAll()
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "talent supprimé"})
}

// accessibleTalent is shared by the collaboration and calendar handlers.
func accessibleTalent(w http.ResponseWriter, r *http.Request, gate *policy.Gate, p *policy.Principal, talentID uint) bool {
	canAccess, err := gate.CanAccessTalent(r.Context(), p, talentID)
	if err != nil {
		fail(w, r, err)
		return false
	}
	if !canAccess {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(middleware.LangFrom(r), "not_found"), nil)
		return false
	}
	return true
}
