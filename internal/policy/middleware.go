package policy

import (
	"errors"
	"net/http"

	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/i18n"
	"github.com/diewo77/talent-app/internal/middleware"
)

// Protect resolves the Principal once and injects it into the request
// context. Unusable accounts never reach the wrapped handler.
func (g *Gate) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Require(r)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// WriteError maps policy errors to HTTP statuses with localized messages.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	lang := middleware.LangFrom(r)
	switch {
	case errors.Is(err, ErrUnauthenticated):
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "unauthorized"), nil)
	case errors.Is(err, ErrAccountDisabled):
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "account_disabled"), nil)
	case errors.Is(err, ErrNoAgency):
		httpx.JSONError(w, http.StatusForbidden, i18n.T(lang, "no_agency"), nil)
	case errors.Is(err, ErrForbidden):
		httpx.JSONError(w, http.StatusForbidden, i18n.T(lang, "forbidden"), nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang, "internal_error"), nil)
	}
}
