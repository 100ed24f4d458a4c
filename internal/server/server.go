package server

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/auth"
	"github.com/diewo77/talent-app/httpx"
	"github.com/diewo77/talent-app/internal/config"
	"github.com/diewo77/talent-app/internal/handlers"
	"github.com/diewo77/talent-app/internal/mailer"
	"github.com/diewo77/talent-app/internal/middleware"
	"github.com/diewo77/talent-app/internal/policy"
	"github.com/diewo77/talent-app/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux  *http.ServeMux
	db   *gorm.DB
	Gate *policy.Gate
	Mail mailer.Mailer
}

// NewApp wires services and handlers and configures every route.
func NewApp(db *gorm.DB, cfg config.Config, mail mailer.Mailer) *App {
	app := &App{
		mux:  http.NewServeMux(),
		db:   db,
		Gate: policy.NewGate(db, 5*time.Minute),
		Mail: mail,
	}
	app.setupRoutes(cfg)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := auth.Middleware(middleware.Prefs(a.mux))
	withRecover(withLogging(handler)).ServeHTTP(w, r)
}

func (a *App) setupRoutes(cfg config.Config) {
	calendarSvc := services.NewCalendarService(a.db)
	inviteSvc := services.NewInvitationService(a.db, a.Mail, a.Gate, cfg.App.AppURL, cfg.App.InviteTTLDays)
	collabSvc := services.NewCollaboratorService(a.db, a.Gate)

	ah := handlers.NewAuthHandler(a.db)
	ivh := handlers.NewInviteHandler(inviteSvc)
	ch := handlers.NewCollaboratorHandler(collabSvc)
	th := handlers.NewTalentHandler(a.db, a.Gate)
	coh := handlers.NewCollaborationHandler(a.db, a.Gate, calendarSvc)
	evh := handlers.NewCalendarHandler(a.db, a.Gate)
	agh := handlers.NewAgencyHandler(a.db)

	// Public routes
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.health)
	a.mux.HandleFunc("POST /api/auth/signup", ah.Signup)
	a.mux.HandleFunc("POST /api/auth/login", ah.Login)
	a.mux.HandleFunc("POST /api/auth/logout", ah.Logout)

	// Invitation acceptance happens before the invitee has an account.
	a.mux.HandleFunc("GET /api/invites/{token}", ivh.Inspect)
	a.mux.HandleFunc("POST /api/invites/{token}/accept", ivh.Accept)

	// Authenticated routes. RequireAuth rejects sessions of deleted accounts
	// (and clears their cookie) before the principal is resolved.
	p := func(next http.Handler) http.Handler {
		return auth.RequireAuth(a.Gate.Protect(next))
	}

	a.mux.Handle("GET /api/me", p(http.HandlerFunc(ah.Me)))

	a.mux.Handle("GET /api/agency", p(http.HandlerFunc(agh.Get)))
	a.mux.Handle("PATCH /api/agency", p(http.HandlerFunc(agh.Update)))

	a.mux.Handle("POST /api/collaborators/invite", p(http.HandlerFunc(ivh.Create)))

	a.mux.Handle("GET /api/collaborators", p(http.HandlerFunc(ch.List)))
	a.mux.Handle("PATCH /api/collaborators/{userId}", p(http.HandlerFunc(ch.UpdateStatus)))
	a.mux.Handle("DELETE /api/collaborators/{userId}", p(http.HandlerFunc(ch.Remove)))
	a.mux.Handle("POST /api/collaborators/{userId}/assign-talents", p(http.HandlerFunc(ch.AssignTalents)))

	a.mux.Handle("GET /api/talents", p(http.HandlerFunc(th.List)))
	a.mux.Handle("POST /api/talents", p(http.HandlerFunc(th.Create)))
	a.mux.Handle("GET /api/talents/{id}", p(http.HandlerFunc(th.Get)))
	a.mux.Handle("PATCH /api/talents/{id}", p(http.HandlerFunc(th.Update)))
	a.mux.Handle("DELETE /api/talents/{id}", p(http.HandlerFunc(th.Delete)))

	a.mux.Handle("GET /api/talents/{id}/collaborations", p(http.HandlerFunc(coh.ListForTalent)))
	a.mux.Handle("POST /api/talents/{id}/collaborations", p(http.HandlerFunc(coh.Create)))
	a.mux.Handle("PATCH /api/collaborations/{id}", p(http.HandlerFunc(coh.Update)))
	a.mux.Handle("DELETE /api/collaborations/{id}", p(http.HandlerFunc(coh.Delete)))

	a.mux.Handle("GET /api/talents/{id}/events", p(http.HandlerFunc(evh.List)))
	a.mux.Handle("POST /api/talents/{id}/events", p(http.HandlerFunc(evh.Create)))
	a.mux.Handle("DELETE /api/events/{id}", p(http.HandlerFunc(evh.Delete)))
}

// health checks that the database answers before reporting OK.
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "database unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRecover turns panics into 500 responses instead of dropped connections.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v\n%s", rec, debug.Stack())
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
