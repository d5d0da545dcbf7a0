// Package session resolves an opaque credential (bearer token or cookie)
// to the acting user's identity. Issuance and resolution share one JWT
// implementation; middleware and handlers only see the Resolver interface.
package session

import (
	"net/http"
	"time"

	"agrimart/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTTL matches the session cookie lifetime.
	TokenTTL = 7 * 24 * time.Hour

	CookieName = "token"
)

// Identity is the resolved acting user.
type Identity struct {
	ID   string
	Name string
	Role string
}

// Resolver turns a credential into an identity. A nil result means "no
// identity" — malformed, expired, or unsigned credentials never produce
// an error, the caller decides between 401 and anonymous browsing.
type Resolver interface {
	Resolve(credential string) *Identity
}

// Claims is the JWT payload. Subject carries the user id.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret []byte) *JWTResolver {
	return &JWTResolver{secret: secret}
}

func (j *JWTResolver) Resolve(credential string) *Identity {
	if credential == "" {
		return nil
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil
	}
	return &Identity{ID: claims.Subject, Name: claims.Name, Role: claims.Role}
}

// Issue signs a session token for the user.
func (j *JWTResolver) Issue(user models.User) (string, error) {
	claims := &Claims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// CredentialFromRequest prefers the Authorization header, falling back to
// the session cookie.
func CredentialFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && auth[:7] == "Bearer " {
		return auth[7:]
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// SetCookie attaches the session cookie with the standard lifetime.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
