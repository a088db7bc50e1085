package handlers

import (
	"net/http"
	"time"

	"github.com/oornnery/site/internal/api/render"
	"github.com/oornnery/site/internal/domain/analytics"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/session"
)

// DashboardHandler serves the admin HTML landing page.
type DashboardHandler struct {
	Pages     *PagesHandler
	Analytics *analytics.Service
	Contact   *contact.Service
	Env       string
}

func NewDashboardHandler(pages *PagesHandler, analyticsSvc *analytics.Service, contactSvc *contact.Service, env string) *DashboardHandler {
	return &DashboardHandler{Pages: pages, Analytics: analyticsSvc, Contact: contactSvc, Env: env}
}

// Show renders the dashboard, bouncing anonymous visitors to /login.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	account := session.AccountFrom(r.Context())
	if account == nil || !account.IsAdmin {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	site := h.Pages.site(r)
	summary, err := h.Analytics.Summarize(r.Context(), time.Now().UTC())
	if err != nil {
		h.Pages.errorPage(w, r, site, err)
		return
	}
	unread, err := h.Contact.CountUnread(r.Context())
	if err != nil {
		h.Pages.errorPage(w, r, site, err)
		return
	}

	writeHTML(w, http.StatusOK, render.DashboardPage(site, summary, unread))
}
