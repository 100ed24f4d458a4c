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
	"github.com/diewo77/talent-app/validation"
)

// CalendarHandler serves a talent's agenda. Derived events are managed by
// the collaboration routes; only direct events are created here.
type CalendarHandler struct {
	DB   *gorm.DB
	Gate *policy.Gate
}

func NewCalendarHandler(db *gorm.DB, gate *policy.Gate) *CalendarHandler {
	return &CalendarHandler{DB: db, Gate: gate}
}

// List handles GET /api/talents/{id}/events?from=&to= (RFC 3339 bounds,
// both optional).
func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
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

	q := h.DB.Where("talent_id = ?", talentID)
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			q = q.Where("start >= ?", t)
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			q = q.Where("start < ?", t)
		}
	}
	events := []models.CalendarEvent{}
	if err := q.Order("start").Find(&events).Error; err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "events": events})
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"` // RFC 3339
	End         string `json:"end"`
	Type        string `json:"type"`
	Location    string `json:"location"`
}

// Create handles POST /api/talents/{id}/events for direct entries
// (RDV, EVENT, TOURNAGE). PREVIEW/PUBLICATION only exist as derivations.
func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	var req eventRequest
	if !decode(w, r, &req) {
		return
	}
	lang := middleware.LangFrom(r)

	v := make(validation.Violations)
	validation.Required("title", req.Title, v)
	validation.Required("start", req.Start, v)
	validation.Required("end", req.End, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	if !models.ValidEventType(req.Type) || req.Type == models.EventPreview || req.Type == models.EventPublication {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "event_type_invalid"), nil)
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "event_dates_invalid"), nil)
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil || !end.After(start) {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "event_dates_invalid"), nil)
		return
	}

	event := models.CalendarEvent{
		TalentID:    talentID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Start:       start,
		End:         end,
		Type:        req.Type,
		Location:    strings.TrimSpace(req.Location),
	}
	if err := h.DB.Create(&event).Error; err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "event": event})
}

// Delete handles DELETE /api/events/{id}.
func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var event models.CalendarEvent
	if err := h.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, i18n.T(middleware.LangFrom(r), "not_found"), nil)
		} else {
			fail(w, r, err)
		}
		return
	}
	if !accessibleTalent(w, r, h.Gate, p, event.TalentID) {
		return
	}
	if err := h.DB.Delete(&models.CalendarEvent{}, event.ID).Error; err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "événement supprimé"})
}
