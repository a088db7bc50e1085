package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/auth"
	"github.com/oornnery/site/internal/domain/accounts"
	"github.com/rs/zerolog"
)

// Reason records why a request resolved (or failed to resolve) to an
// account. Optional-auth routes collapse every non-OK reason into
// "anonymous" on purpose; the enum exists so logs can still tell a missing
// cookie from a banned account.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonNoCookie
	ReasonBadScheme
	ReasonInvalidToken
	ReasonUnknownAccount
	ReasonBanned
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonNoCookie:
		return "no_cookie"
	case ReasonBadScheme:
		return "bad_scheme"
	case ReasonInvalidToken:
		return "invalid_token"
	case ReasonUnknownAccount:
		return "unknown_account"
	case ReasonBanned:
		return "banned"
	default:
		return "unknown"
	}
}

// AccountSource loads the account a verified token refers to.
type AccountSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
}

type Resolver struct {
	codec    *auth.TokenCodec
	accounts AccountSource
}

func NewResolver(codec *auth.TokenCodec, source AccountSource) *Resolver {
	return &Resolver{codec: codec, accounts: source}
}

// Resolve turns the inbound request's session cookie into an account.
// Resolving the same valid token twice yields the same account; after
// expiry it always fails. A nil account with ReasonOK never happens.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*accounts.Account, Reason) {
	cookie, err := req.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ReasonNoCookie
	}

	token, err := auth.TokenFromCookie(cookie.Value)
	if err != nil {
		return nil, ReasonBadScheme
	}

	claims, err := r.codec.Verify(token)
	if err != nil {
		return nil, ReasonInvalidToken
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ReasonInvalidToken
	}

	account, err := r.accounts.GetByID(ctx, accountID)
	if err != nil || account == nil {
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("reason", ReasonUnknownAccount.String()).Msg("session did not resolve")
		}
		return nil, ReasonUnknownAccount
	}
	if account.IsBanned {
		return nil, ReasonBanned
	}

	return account, ReasonOK
}

type contextKey string

const accountKey contextKey = "sessionAccount"

// WithAccount stores the resolved account in the request context.
func WithAccount(ctx context.Context, account *accounts.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFrom returns the resolved account, or nil for anonymous requests.
func AccountFrom(ctx context.Context) *accounts.Account {
	if account, ok := ctx.Value(accountKey).(*accounts.Account); ok {
		return account
	}
	return nil
}
