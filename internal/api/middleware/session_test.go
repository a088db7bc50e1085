package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/auth"
	"github.com/oornnery/site/internal/domain/accounts"
	"github.com/oornnery/site/internal/session"
	"github.com/stretchr/testify/require"
)

type accountMap map[uuid.UUID]*accounts.Account

func (m accountMap) GetByID(_ context.Context, id uuid.UUID) (*accounts.Account, error) {
	account, ok := m[id]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return account, nil
}

func sessionFixture(t *testing.T, admin bool) (*session.Resolver, *http.Cookie) {
	t.Helper()
	codec := auth.NewTokenCodec("test-secret", time.Hour, "iss", "aud")
	account := &accounts.Account{ID: uuid.New(), Email: "a@example.com", IsAdmin: admin}
	token, err := codec.Mint(account.ID.String())
	require.NoError(t, err)

	resolver := session.NewResolver(codec, accountMap{account.ID: account})
	return resolver, &http.Cookie{Name: auth.SessionCookieName, Value: "Bearer " + token}
}

func whoAmI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := session.AccountFrom(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]bool{"authenticated": account != nil})
	})
}

func TestSessionAttachesAccount(t *testing.T) {
	resolver, cookie := sessionFixture(t, false)
	handler := Session(resolver)(whoAmI())

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Contains(t, rec.Body.String(), `"authenticated":true`)
}

func TestSessionAnonymousPassesThrough(t *testing.T) {
	resolver, _ := sessionFixture(t, false)
	handler := Session(resolver)(whoAmI())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestRequireAdmin(t *testing.T) {
	resolver, adminCookie := sessionFixture(t, true)
	handler := Session(resolver)(RequireAdmin("test")(okHandler()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/admin", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(adminCookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	resolver, userCookie := sessionFixture(t, false)
	handler := Session(resolver)(RequireAdmin("test")(okHandler()))

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(userCookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
