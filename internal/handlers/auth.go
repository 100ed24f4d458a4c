package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/talent-app/auth"
	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/i18n"
	"github.com/diewo77/talent-app/internal/middleware"
	"github.com/diewo77/talent-app/internal/models"
	"github.com/diewo77/talent-app/validation"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

type signupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	AgencyName string `json:"agency_name"`
}

// Signup is the owner onboarding: it creates the account and its agency in
// one step and promotes the owner to ADMIN. Everyone else joins through an
// invitation.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.AgencyName = strings.TrimSpace(req.AgencyName)

	v := make(validation.Violations)
	validation.Required("email", req.Email, v)
	validation.Email("email", req.Email, v)
	validation.MinLength("name", req.Name, 2, v)
	validation.MinLength("password", req.Password, 8, v)
	validation.Required("agency_name", req.AgencyName, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(w, r, err)
		return
	}
	user := models.User{
		Email:         req.Email,
		Name:          req.Name,
		Password:      string(hash),
		Role:          models.RoleAdmin,
		Status:        models.UserActive,
		EmailVerified: true,
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		agency := models.Agency{Name: req.AgencyName, OwnerID: user.ID, UseDefaultColor: true}
		if err := tx.Create(&agency).Error; err != nil {
			return err
		}
		user.AgencyID = &agency.ID
		return tx.Model(&models.User{}).Where("id = ?", user.ID).Update("agency_id", agency.ID).Error
	})
	if err != nil {
		// Almost always the unique index on email.
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(middleware.LangFrom(r), "email_already_used"), nil)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    userPayload(&user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	lang := middleware.LangFrom(r)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "invalid_credentials"), nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "invalid_credentials"), nil)
		return
	}
	if user.Status != models.UserActive {
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "account_disabled"), nil)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userPayload(&user),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me returns the resolved principal of the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "user": p})
}

func userPayload(u *models.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	}
}
