package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/auth"
	"github.com/oornnery/site/internal/domain/accounts"
)

type fakeAccounts struct {
	byID map[uuid.UUID]*accounts.Account
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*accounts.Account, error) {
	if account, ok := f.byID[id]; ok {
		return account, nil
	}
	return nil, accounts.ErrNotFound
}

func newFixture(t *testing.T) (*Resolver, *auth.TokenCodec, *accounts.Account, *fakeAccounts) {
	t.Helper()
	codec := auth.NewTokenCodec("secret", time.Hour, "oornnery-site", "oornnery-web")
	account := &accounts.Account{ID: uuid.New(), Email: "admin@example.com", IsAdmin: true}
	source := &fakeAccounts{byID: map[uuid.UUID]*accounts.Account{account.ID: account}}
	return NewResolver(codec, source), codec, account, source
}

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: value})
	}
	return req
}

func TestResolveValidToken(t *testing.T) {
	resolver, codec, account, _ := newFixture(t)

	token, err := codec.Mint(account.ID.String())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	got, reason := resolver.Resolve(context.Background(), requestWithCookie("Bearer "+token))
	if reason != ReasonOK {
		t.Fatalf("expected ReasonOK, got %s", reason)
	}
	if got.ID != account.ID {
		t.Fatalf("resolved wrong account: %s", got.ID)
	}

	// Same token resolves to the same account again.
	again, reason := resolver.Resolve(context.Background(), requestWithCookie("Bearer "+token))
	if reason != ReasonOK || again.ID != account.ID {
		t.Fatalf("second resolve differs: %v %s", again, reason)
	}
}

func TestResolveNoCookie(t *testing.T) {
	resolver, _, _, _ := newFixture(t)
	if account, reason := resolver.Resolve(context.Background(), requestWithCookie("")); account != nil || reason != ReasonNoCookie {
		t.Fatalf("expected anonymous/no_cookie, got %v %s", account, reason)
	}
}

func TestResolveBadScheme(t *testing.T) {
	resolver, codec, account, _ := newFixture(t)
	token, _ := codec.Mint(account.ID.String())
	if got, reason := resolver.Resolve(context.Background(), requestWithCookie("Token "+token)); got != nil || reason != ReasonBadScheme {
		t.Fatalf("expected anonymous/bad_scheme, got %v %s", got, reason)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	resolver, _, account, _ := newFixture(t)
	expired := auth.NewTokenCodec("secret", -time.Minute, "oornnery-site", "oornnery-web")
	token, _ := expired.Mint(account.ID.String())
	if got, reason := resolver.Resolve(context.Background(), requestWithCookie("Bearer "+token)); got != nil || reason != ReasonInvalidToken {
		t.Fatalf("expected anonymous/invalid_token, got %v %s", got, reason)
	}
}

func TestResolveForeignSecret(t *testing.T) {
	resolver, _, account, _ := newFixture(t)
	foreign := auth.NewTokenCodec("other-secret", time.Hour, "oornnery-site", "oornnery-web")
	token, _ := foreign.Mint(account.ID.String())
	if got, reason := resolver.Resolve(context.Background(), requestWithCookie("Bearer "+token)); got != nil || reason != ReasonInvalidToken {
		t.Fatalf("expected anonymous/invalid_token, got %v %s", got, reason)
	}
}

func TestResolveUnknownAccount(t *testing.T) {
	resolver, codec, _, _ := newFixture(t)
	token, _ := codec.Mint(uuid.NewString())
	if got, reason := resolver.Resolve(context.Background(), requestWithCookie("Bearer "+token)); got != nil || reason != ReasonUnknownAccount {
		t.Fatalf("expected anonymous/unknown_account, got %v %s", got, reason)
	}
}

func TestResolveBannedAccount(t *testing.T) {
	resolver, codec, account, source := newFixture(t)
	token, _ := codec.Mint(account.ID.String())

	if _, reason := resolver.Resolve(context.Background(), requestWithCookie("Bearer "+token)); reason != ReasonOK {
		t.Fatalf("expected ok before ban, got %s", reason)
	}

	// Banning takes effect on the next request even though the token is
	// still cryptographically valid.
	source.byID[account.ID].IsBanned = true
	if got, reason := resolver.Resolve(context.Background(), requestWithCookie("Bearer "+token)); got != nil || reason != ReasonBanned {
		t.Fatalf("expected anonymous/banned, got %v %s", got, reason)
	}
}

func TestAccountContext(t *testing.T) {
	if AccountFrom(context.Background()) != nil {
		t.Fatal("empty context should be anonymous")
	}
	account := &accounts.Account{ID: uuid.New()}
	ctx := WithAccount(context.Background(), account)
	if got := AccountFrom(ctx); got == nil || got.ID != account.ID {
		t.Fatalf("expected stored account, got %v", got)
	}
}
