package api

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "auth"

// sessionClaims is the JWT payload carried in the auth cookie.
type sessionClaims struct {
	ID    uint `json:"id"`
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// sessionManager issues and verifies the httpOnly session cookie. Tokens
// expire after ttl; the refresh middleware re-issues them on every
// authenticated request, so sessions slide rather than hard-expire.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
}

func newSessionManager(secret string, ttl time.Duration) sessionManager {
	return sessionManager{secret: []byte(secret), ttl: ttl}
}

func (m sessionManager) issue(identity Identity) (string, error) {
	claims := sessionClaims{
		ID:    identity.UserID,
		Admin: identity.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m sessionManager) verify(token string) (Identity, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.ID, Admin: claims.Admin}, nil
}

func (m sessionManager) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m sessionManager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
