package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	sessions := newSessionManager("test-secret", time.Hour)

	token, err := sessions.issue(Identity{UserID: 42, Admin: true})
	require.NoError(t, err)

	identity, err := sessions.verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, identity.UserID)
	assert.True(t, identity.Admin)
}

func TestSessionVerify_WrongSecret(t *testing.T) {
	token, err := newSessionManager("secret-a", time.Hour).issue(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = newSessionManager("secret-b", time.Hour).verify(token)
	assert.Error(t, err)
}

func TestSessionVerify_Expired(t *testing.T) {
	sessions := newSessionManager("test-secret", -time.Minute)

	token, err := sessions.issue(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = sessions.verify(token)
	assert.Error(t, err)
}

func TestSessionVerify_Garbage(t *testing.T) {
	sessions := newSessionManager("test-secret", time.Hour)

	_, err := sessions.verify("not.a.token")
	assert.Error(t, err)
}

func TestRefreshMiddleware_AttachesIdentityAndSlidesExpiry(t *testing.T) {
	sessions := newSessionManager("test-secret", time.Hour)
	middleware := newAuthMiddleware(sessions)

	token, err := sessions.issue(Identity{UserID: 7})
	require.NoError(t, err)

	var got Identity
	var ok bool
	handler := middleware.refresh(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = identityFromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.True(t, ok)
	assert.EqualValues(t, 7, got.UserID)

	// A fresh cookie goes out with every authenticated request.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRefreshMiddleware_InvalidCookieIsAnonymous(t *testing.T) {
	middleware := newAuthMiddleware(newSessionManager("test-secret", time.Hour))

	var ok bool
	handler := middleware.refresh(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = identityFromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "tampered"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.False(t, ok)
	// The bad cookie is cleared.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestRequireMiddleware_RejectsAnonymous(t *testing.T) {
	middleware := newAuthMiddleware(newSessionManager("test-secret", time.Hour))

	handler := middleware.require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminMiddleware_RejectsNonAdmin(t *testing.T) {
	middleware := newAuthMiddleware(newSessionManager("test-secret", time.Hour))

	handler := middleware.requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ctxWithIdentity(req.Context(), Identity{UserID: 7, Admin: false}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
