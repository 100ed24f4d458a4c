package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/i18n"
	"github.com/diewo77/talent-app/internal/middleware"
	"github.com/diewo77/talent-app/internal/policy"
	"github.com/diewo77/talent-app/internal/services"
	"github.com/diewo77/talent-app/validation"
)

// decode reads a JSON body into dst; a false return means the 400 response
// has already been written.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(middleware.LangFrom(r), "invalid_payload"), nil)
		return false
	}
	return true
}

// fail converts service/policy errors to the wire envelope. Business-rule
// violations map to 400/404; everything unclassified is logged and becomes
// a generic 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := middleware.LangFrom(r)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "email_already_used"), nil)
	case errors.Is(err, services.ErrInvitePending):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "invitation_pending"), nil)
	case errors.Is(err, services.ErrInviteNotFound):
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang, "invitation_not_found"), nil)
	case errors.Is(err, services.ErrInviteNotPending):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "invitation_not_pending"), nil)
	case errors.Is(err, services.ErrInviteExpired):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "invitation_expired"), nil)
	case errors.Is(err, services.ErrInvalidRole):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "invalid_role"), nil)
	case errors.Is(err, services.ErrTalentRequired):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "talent_required"), nil)
	case errors.Is(err, services.ErrInvalidStatus):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "invalid_status"), nil)
	case errors.Is(err, services.ErrSelfRemoval):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "cannot_remove_self"), nil)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang, "not_found"), nil)
	case errors.Is(err, policy.ErrUnauthenticated),
		errors.Is(err, policy.ErrAccountDisabled),
		errors.Is(err, policy.ErrNoAgency),
		errors.Is(err, policy.ErrForbidden):
		policy.WriteError(w, r, err)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang, "internal_error"), nil)
	}
}

// failValidation writes the field violations with localized messages.
func failValidation(w http.ResponseWriter, r *http.Request, v validation.Violations) {
	lang := middleware.LangFrom(r)
	details := make(map[string]string, len(v))
	for field, code := range v {
		details[field] = i18n.T(lang, code)
	}
	httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "invalid_payload"), details)
}

// principal fetches the principal injected by the policy middleware.
func principal(w http.ResponseWriter, r *http.Request) (*policy.Principal, bool) {
	p, ok := policy.From(r.Context())
	if !ok {
		policy.WriteError(w, r, policy.ErrUnauthenticated)
		return nil, false
	}
	return p, true
}
