package middleware

import (
	"context"
	"net/http"

	"agrimart/globals"
	"agrimart/session"

	"github.com/julienschmidt/httprouter"
)

// Auth gates routes behind the session resolver. Built once in main with
// the chosen resolver and passed to route registration.
type Auth struct {
	Resolver session.Resolver
}

func NewAuth(resolver session.Resolver) *Auth {
	return &Auth{Resolver: resolver}
}

func (a *Auth) identity(r *http.Request) *session.Identity {
	return a.Resolver.Resolve(session.CredentialFromRequest(r))
}

func withIdentity(r *http.Request, id *session.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), globals.UserIDKey, id.ID)
	ctx = context.WithValue(ctx, globals.RoleKey, id.Role)
	return r.WithContext(ctx)
}

// Authenticate rejects requests without a resolvable identity.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := a.identity(r)
		if id == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, withIdentity(r, id), ps)
	}
}

// OptionalAuth attaches the identity when present and proceeds regardless.
// Read-only catalog routes use this so anonymous browsing keeps working.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if id := a.identity(r); id != nil {
			r = withIdentity(r, id)
		}
		next(w, r, ps)
	}
}

// RequireRole rejects with 403 when the identity is present but carries
// the wrong role, 401 when there is no identity at all.
func (a *Auth) RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := a.identity(r)
		if id == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if id.Role != role {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, withIdentity(r, id), ps)
	}
}
