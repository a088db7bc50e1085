package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/oornnery/site/internal/domain/analytics"
)

// DashboardPage renders the admin landing page: a 30-day pageview
// summary plus the unread contact count. The table refreshes itself
// from the SSE stream via htmx.
func DashboardPage(site Site, summary *analytics.Summary, unread int) string {
	var body strings.Builder

	fmt.Fprintf(&body, `    <p class="meta">%d pageviews since %s · <a href="/api/contact-messages">%d unread messages</a></p>`+"\n",
		summary.Total, html.EscapeString(summary.Since.Format("2006-01-02")), unread)

	body.WriteString(`    <table class="stats"><thead><tr><th>App</th><th>Views</th></tr></thead><tbody>` + "\n")
	for _, c := range summary.ByApp {
		fmt.Fprintf(&body, `      <tr><td>%s</td><td>%d</td></tr>`+"\n", html.EscapeString(c.App), c.Count)
	}
	body.WriteString("    </tbody></table>\n")

	body.WriteString(`    <table class="stats"><thead><tr><th>Path</th><th>Views</th></tr></thead><tbody>` + "\n")
	for _, p := range summary.TopPaths {
		fmt.Fprintf(&body, `      <tr><td>%s</td><td>%d</td></tr>`+"\n", html.EscapeString(p.Path), p.Count)
	}
	body.WriteString("    </tbody></table>\n")

	body.WriteString(`    <nav class="admin-links">
      <a href="/api/posts?include_drafts=true">Posts</a>
      <a href="/api/projects?include_drafts=true">Projects</a>
      <a href="/api/comments/recent">Comments</a>
      <a href="/api/audit">Audit log</a>
      <a href="/api/settings">Settings</a>
    </nav>
    <form method="post" action="/api/auth/logout"><button type="submit">Sign out</button></form>
`)

	return buildHTML(site, "Dashboard", body.String(), "")
}
