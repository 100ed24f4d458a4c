package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/internal/policy"
)

type AgencyHandler struct {
	DB *gorm.DB
}

func NewAgencyHandler(db *gorm.DB) *AgencyHandler { return &AgencyHandler{DB: db} }

// Get handles GET /api/agency.
func (h *AgencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var agency models.Agency
	if err := h.DB.First(&agency, p.AgencyID).Error; err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "agency": agency})
}

type agencyRequest struct {
	Name            string `json:"name"`
	Logo            string `json:"logo"`
	PrimaryColor    string `json:"primary_color"`
	UseDefaultColor *bool  `json:"use_default_colors"`
}

// Update handles PATCH /api/agency (ADMIN). Agencies are never deleted.
func (h *AgencyHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := policy.RequireRole(p, models.RoleAdmin); err != nil {
		fail(w, r, err)
		return
	}
	var req agencyRequest
	if !decode(w, r, &req) {
		return
	}
	var agency models.Agency
	if err := h.DB.First(&agency, p.AgencyID).Error; err != nil {
		fail(w, r, err)
		return
	}
	if s := strings.TrimSpace(req.Name); s != "" {
		agency.Name = s
	}
	if req.Logo != "" {
		agency.Logo = req.Logo
	}
	if req.PrimaryColor != "" {
		agency.PrimaryColor = req.PrimaryColor
	}
	if req.UseDefaultColor != nil {
		agency.UseDefaultColor = *req.UseDefaultColor
	}
	if err := h.DB.Save(&agency).Error; err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "agency": agency})
}
