// Package policy is the authorization boundary for talent-scoped access.
// A Principal is resolved once per request by the middleware and threaded
// through the context; handlers never re-derive the session themselves.
package policy

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/auth"
	"github.com/diewo77/talent-app/internal/models"
)

// Sentinel errors surfaced by Require and RequireRole.
var (
	ErrUnauthenticated = errors.New("unauthorized")
	ErrAccountDisabled = errors.New("account_disabled")
	ErrNoAgency        = errors.New("no_agency")
	ErrForbidden       = errors.New("forbidden")
)

// Principal is the normalized identity of the caller.
type Principal struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	AgencyID uint   `json:"agency_id"`
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p *Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

type principalKey struct{}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// From extracts the principal placed by the middleware. The bool is false
// on routes that were not wrapped with Gate.Protect.
func From(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// Gate resolves principals and answers talent-visibility questions, caching
// the accessible-talent set per user with a short TTL.
type Gate struct {
	db *gorm.DB
	*talentCache
}

// NewGate creates a gate over the given database.
// ttl bounds how stale a cached accessible-talent set may be.
func NewGate(db *gorm.DB, ttl time.Duration) *Gate {
	return &Gate{db: db, talentCache: newTalentCache(ttl)}
}

// Require resolves the caller's session into a Principal.
// Fails with ErrUnauthenticated when no valid session is attached,
// ErrAccountDisabled when the account is not ACTIVE, and ErrNoAgency when
// the account has no agency. On success the last_login_at column is
// stamped best-effort.
func (g *Gate) Require(r *http.Request) (*Principal, error) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		if uid, ok = auth.ParseSession(r); !ok {
			return nil, ErrUnauthenticated
		}
	}
	var user models.User
	if err := g.db.WithContext(r.Context()).First(&user, uid).Error; err != nil {
		return nil, ErrUnauthenticated
	}
	if user.Status != models.UserActive {
		return nil, ErrAccountDisabled
	}
	if user.AgencyID == nil {
		return nil, ErrNoAgency
	}
	// Best-effort, deliberately outside any surrounding work.
	now := time.Now()
	g.db.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumn("last_login_at", now)

	return &Principal{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		Status:   user.Status,
		AgencyID: *user.AgencyID,
	}, nil
}

// RequireRole is a pure predicate check against an allow-list of roles.
func RequireRole(p *Principal, allowed ...string) error {
	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// AccessibleTalentIDs computes the set of talents the principal may see.
// Admins see every talent of their agency; everyone else sees exactly the
// talents assigned to them. This is the sole authorization boundary for
// talent-scoped reads.
func (g *Gate) AccessibleTalentIDs(ctx context.Context, p *Principal) ([]uint, error) {
	if ids, ok := g.lookup(p.ID); ok {
		return ids, nil
	}
	var ids []uint
	var err error
	if p.IsAdmin() {
		err = g.db.WithContext(ctx).Model(&models.Talent{}).
			Where("agency_id = ?", p.AgencyID).Order("id").Pluck("id", &ids).Error
	} else {
		err = g.db.WithContext(ctx).Model(&models.TalentAssignment{}).
			Where("user_id = ?", p.ID).Order("talent_id").Pluck("talent_id", &ids).Error
	}
	if err != nil {
		return nil, err
	}
	g.store(p.ID, ids)
	return ids, nil
}

// CanAccessTalent is the single-talent variant of AccessibleTalentIDs.
func (g *Gate) CanAccessTalent(ctx context.Context, p *Principal, talentID uint) (bool, error) {
	ids, err := g.AccessibleTalentIDs(ctx, p)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == talentID {
			return true, nil
		}
	}
	return false, nil
}
