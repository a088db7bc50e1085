package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/auth"
	"github.com/oornnery/site/internal/domain/accounts"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/metrics"
	"github.com/oornnery/site/internal/session"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	Accounts *accounts.Service
	Codec    *auth.TokenCodec
	Audit    *audit.Logger
	Env      string
	Secure   bool
}

func NewAuthHandler(accountsSvc *accounts.Service, codec *auth.TokenCodec, auditLog *audit.Logger, env string, secure bool) *AuthHandler {
	return &AuthHandler{Accounts: accountsSvc, Codec: codec, Audit: auditLog, Env: env, Secure: secure}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	IsAdmin   bool       `json:"is_admin"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func toAccountResponse(account *accounts.Account) accountResponse {
	resp := accountResponse{
		ID:        account.ID.String(),
		Email:     account.Email,
		Name:      account.Name,
		AvatarURL: account.AvatarURL,
		IsAdmin:   account.IsAdmin,
	}
	if !account.LastLogin.IsZero() {
		lastLogin := account.LastLogin
		resp.LastLogin = &lastLogin
	}
	return resp
}

// Login checks credentials and sets the session cookie. Unknown email
// and wrong password are indistinguishable in the response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds loginRequest
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
			return
		}
	} else {
		creds.Email = r.FormValue("email")
		creds.Password = r.FormValue("password")
	}

	account, err := h.Accounts.Authenticate(r.Context(), creds.Email, creds.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		problem.Write(w, r, http.StatusUnauthorized, problemAuth, "Invalid credentials", problem.ErrUnauthorized, h.Env)
		return
	}
	if account.IsBanned {
		metrics.LoginAttempts.WithLabelValues("banned").Inc()
		problem.Write(w, r, http.StatusUnauthorized, problemAuth, "Invalid credentials", problem.ErrUnauthorized, h.Env)
		return
	}

	token, err := h.Codec.Mint(account.ID.String())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}
	auth.SetSessionCookie(w, token, h.Codec.TTL(), h.Secure)

	if err := h.Accounts.RecordLogin(r.Context(), account.ID); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("last_login not updated")
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.Audit.Record(r.Context(), audit.Params{
		ActorID:  &account.ID,
		Actor:    account.Email,
		Action:   "auth.login",
		Entity:   "account",
		EntityID: account.ID.String(),
		IP:       contact.ClientIP(r),
	})

	if !wantsJSON(r) && !isPartial(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; there is no revocation list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if account := session.AccountFrom(r.Context()); account != nil {
		h.Audit.Record(r.Context(), audit.Params{
			ActorID:  &account.ID,
			Actor:    account.Email,
			Action:   "auth.logout",
			Entity:   "account",
			EntityID: account.ID.String(),
			IP:       contact.ClientIP(r),
		})
	}
	auth.ClearSessionCookie(w, h.Secure)

	if !wantsJSON(r) && !isPartial(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := session.AccountFrom(r.Context())
	if account == nil {
		problem.Write(w, r, http.StatusUnauthorized, problemAuth, "Authentication required", problem.ErrUnauthorized, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}
