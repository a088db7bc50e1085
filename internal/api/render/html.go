// Package render builds the public HTML pages. Pages are assembled as
// strings with every dynamic value escaped; post and project bodies are
// stored pre-sanitized HTML and are inlined as-is.
package render

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/comments"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/domain/projects"
	"github.com/oornnery/site/internal/jsonld"
)

// Site carries the per-request page chrome.
type Site struct {
	Title   string
	BaseURL string
}

// PostPage renders a blog post with its comments, reactions, and an
// embedded JSON-LD BlogPosting document.
func PostPage(site Site, post *blog.Post, commentList []comments.Comment, reactions map[string]int) string {
	var body strings.Builder

	fmt.Fprintf(&body, `    <div class="meta">%s · %d min read · %d views</div>`+"\n",
		html.EscapeString(post.PublishedAt.Format("January 2, 2006")), post.ReadingTime, post.Views)
	if post.Category != "" {
		fmt.Fprintf(&body, `    <div class="meta"><a href="/blog?category=%s">%s</a></div>`+"\n",
			html.EscapeString(post.Category), html.EscapeString(post.Category))
	}
	body.WriteString(`    <article class="content">` + "\n")
	body.WriteString(post.ContentHTML)
	body.WriteString("\n    </article>\n")

	if len(post.Tags) > 0 {
		body.WriteString(`    <div class="tags">`)
		for _, tag := range post.Tags {
			fmt.Fprintf(&body, `<a class="tag" href="/blog?tag=%s">#%s</a> `,
				html.EscapeString(tag), html.EscapeString(tag))
		}
		body.WriteString("</div>\n")
	}

	body.WriteString(reactionsSection(post.Slug, reactions))
	body.WriteString(commentsSection(post.Slug, commentList))

	doc := jsonld.Marshal(jsonld.BlogPosting(post, site.BaseURL))
	return buildHTML(site, post.Title, body.String(), doc)
}

// PostListPage renders the blog index.
func PostListPage(site Site, posts []blog.Post, categories []blog.CategoryCount, tags []blog.TagCount) string {
	var body strings.Builder

	body.WriteString(`    <ul class="post-list">` + "\n")
	for i := range posts {
		post := &posts[i]
		fmt.Fprintf(&body, `      <li><a href="/blog/%s">%s</a> <span class="meta">%s · %d min</span>`,
			html.EscapeString(post.Slug), html.EscapeString(post.Title),
			html.EscapeString(post.PublishedAt.Format("2006-01-02")), post.ReadingTime)
		if post.Description != "" {
			fmt.Fprintf(&body, `<p>%s</p>`, html.EscapeString(post.Description))
		}
		body.WriteString("</li>\n")
	}
	body.WriteString("    </ul>\n")

	if len(categories) > 0 {
		body.WriteString(`    <nav class="categories">`)
		for _, c := range categories {
			fmt.Fprintf(&body, `<a href="/blog?category=%s">%s (%d)</a> `,
				html.EscapeString(c.Category), html.EscapeString(c.Category), c.Count)
		}
		body.WriteString("</nav>\n")
	}
	if len(tags) > 0 {
		body.WriteString(`    <nav class="tags">`)
		for _, t := range tags {
			fmt.Fprintf(&body, `<a class="tag" href="/blog?tag=%s">#%s (%d)</a> `,
				html.EscapeString(t.Tag), html.EscapeString(t.Tag), t.Count)
		}
		body.WriteString("</nav>\n")
	}

	doc := jsonld.Marshal(jsonld.WebSite(site.Title, "Blog", site.BaseURL))
	return buildHTML(site, "Blog", body.String(), doc)
}

// ProjectPage renders one portfolio project.
func ProjectPage(site Site, project *projects.Project) string {
	var body strings.Builder

	if project.Description != "" {
		fmt.Fprintf(&body, `    <p class="meta">%s</p>`+"\n", html.EscapeString(project.Description))
	}
	if len(project.Tech) > 0 {
		fmt.Fprintf(&body, `    <div class="meta">%s</div>`+"\n", html.EscapeString(strings.Join(project.Tech, " · ")))
	}
	if project.RepoURL != "" {
		fmt.Fprintf(&body, `    <p><a href="%s" rel="noopener">Source</a></p>`+"\n", html.EscapeString(project.RepoURL))
	}
	if project.DemoURL != "" {
		fmt.Fprintf(&body, `    <p><a href="%s" rel="noopener">Live demo</a></p>`+"\n", html.EscapeString(project.DemoURL))
	}
	body.WriteString(`    <article class="content">` + "\n")
	body.WriteString(project.ContentHTML)
	body.WriteString("\n    </article>\n")

	doc := jsonld.Marshal(jsonld.SoftwareSourceCode(project, site.BaseURL))
	return buildHTML(site, project.Title, body.String(), doc)
}

// ProjectListPage renders the portfolio project index.
func ProjectListPage(site Site, list []projects.Project) string {
	var body strings.Builder

	body.WriteString(`    <ul class="project-list">` + "\n")
	for i := range list {
		project := &list[i]
		fmt.Fprintf(&body, `      <li><a href="/projects/%s">%s</a>`,
			html.EscapeString(project.Slug), html.EscapeString(project.Title))
		if project.Featured {
			body.WriteString(` <span class="badge">featured</span>`)
		}
		if project.Description != "" {
			fmt.Fprintf(&body, `<p>%s</p>`, html.EscapeString(project.Description))
		}
		body.WriteString("</li>\n")
	}
	body.WriteString("    </ul>\n")

	doc := jsonld.Marshal(jsonld.WebSite(site.Title, "Projects", site.BaseURL))
	return buildHTML(site, "Projects", body.String(), doc)
}

// HomePage renders the portfolio landing page with the owner profile and
// featured projects, carrying a JSON-LD Person document.
func HomePage(site Site, profile *profiles.Profile, featured []projects.Project) string {
	var body strings.Builder

	if profile.Headline != "" {
		fmt.Fprintf(&body, `    <p class="headline">%s</p>`+"\n", html.EscapeString(profile.Headline))
	}
	if profile.BioHTML != "" {
		body.WriteString(`    <section class="content">` + "\n")
		body.WriteString(profile.BioHTML)
		body.WriteString("\n    </section>\n")
	}
	if len(profile.Skills) > 0 {
		fmt.Fprintf(&body, `    <div class="meta">%s</div>`+"\n", html.EscapeString(strings.Join(profile.Skills, " · ")))
	}
	if len(profile.Socials) > 0 {
		body.WriteString(`    <nav class="socials">`)
		for _, social := range sortedSocials(profile.Socials) {
			fmt.Fprintf(&body, `<a href="%s" rel="me noopener">%s</a> `,
				html.EscapeString(social.url), html.EscapeString(social.name))
		}
		body.WriteString("</nav>\n")
	}
	if len(featured) > 0 {
		body.WriteString(`    <h2>Featured work</h2>` + "\n" + `    <ul class="project-list">` + "\n")
		for i := range featured {
			fmt.Fprintf(&body, `      <li><a href="/projects/%s">%s</a></li>`+"\n",
				html.EscapeString(featured[i].Slug), html.EscapeString(featured[i].Title))
		}
		body.WriteString("    </ul>\n")
	}

	doc := jsonld.Marshal(jsonld.Person(profile, site.BaseURL))
	return buildHTML(site, profile.Name, body.String(), doc)
}

// ContactPage renders the contact form. Submission is a plain form POST
// progressively enhanced by htmx.
func ContactPage(site Site) string {
	body := `    <form method="post" action="/api/contact" hx-post="/api/contact" hx-swap="outerHTML">
      <label>Name <input name="name" required maxlength="100"></label>
      <label>Email <input name="email" type="email" required></label>
      <label>Subject <input name="subject" maxlength="200"></label>
      <label>Message <textarea name="message" required maxlength="5000"></textarea></label>
      <button type="submit">Send</button>
    </form>
`
	doc := jsonld.Marshal(jsonld.WebSite(site.Title, "Contact", site.BaseURL))
	return buildHTML(site, "Contact", body, doc)
}

// LoginPage renders the admin login form. The CSRF field comes from the
// gorilla/csrf middleware and is inlined unescaped.
func LoginPage(site Site, csrfField string) string {
	body := fmt.Sprintf(`    <form method="post" action="/login">
      %s
      <label>Email <input name="email" type="email" required autocomplete="username"></label>
      <label>Password <input name="password" type="password" required autocomplete="current-password"></label>
      <button type="submit">Sign in</button>
    </form>
`, csrfField)
	return buildHTML(site, "Sign in", body, "")
}

// ErrorPage renders a minimal error page for HTML routes.
func ErrorPage(site Site, status int, message string) string {
	body := fmt.Sprintf(`    <p class="meta">%d</p>
    <p>%s</p>
`, status, html.EscapeString(message))
	return buildHTML(site, "Something went wrong", body, "")
}

func reactionsSection(slug string, reactions map[string]int) string {
	var b strings.Builder
	b.WriteString(`    <div class="reactions" id="reactions">`)
	for _, kind := range []string{"like", "heart", "rocket"} {
		fmt.Fprintf(&b, `<button hx-post="/api/posts/%s/reactions" hx-vals='{"type":"%s"}' hx-target="#reactions" hx-swap="outerHTML">%s %d</button> `,
			html.EscapeString(slug), kind, reactionEmoji(kind), reactions[kind])
	}
	b.WriteString("</div>\n")
	return b.String()
}

// ReactionsFragment is the htmx swap target returned by the reaction
// endpoint when the request came from the page buttons.
func ReactionsFragment(slug string, reactions map[string]int) string {
	return reactionsSection(slug, reactions)
}

func commentsSection(slug string, list []comments.Comment) string {
	var b strings.Builder
	b.WriteString(`    <section class="comments" id="comments">` + "\n")
	fmt.Fprintf(&b, `      <h2>Comments (%d)</h2>`+"\n", len(list))
	for i := range list {
		b.WriteString(CommentFragment(&list[i]))
	}
	fmt.Fprintf(&b, `      <form hx-post="/api/comments/%s" hx-target="#comments" hx-swap="beforeend">
        <label>Name <input name="author_name" maxlength="100"></label>
        <label>Email <input name="author_email" type="email"></label>
        <label>Comment <textarea name="content" required maxlength="2000"></textarea></label>
        <button type="submit">Post</button>
      </form>
`, html.EscapeString(slug))
	b.WriteString("    </section>\n")
	return b.String()
}

// CommentFragment renders one comment, returned standalone for htmx
// appends after a successful POST.
func CommentFragment(comment *comments.Comment) string {
	return fmt.Sprintf(`      <div class="comment">
        <img class="avatar" src="%s" alt="" width="32" height="32">
        <span class="author">%s</span>
        <span class="meta">%s</span>
        <p>%s</p>
      </div>
`,
		html.EscapeString(comment.AvatarURL),
		html.EscapeString(comment.AuthorName),
		html.EscapeString(comment.CreatedAt.Format(time.RFC822)),
		html.EscapeString(comment.Content))
}

type social struct {
	name string
	url  string
}

func sortedSocials(socials map[string]string) []social {
	list := make([]social, 0, len(socials))
	for name, url := range socials {
		if url != "" {
			list = append(list, social{name: name, url: url})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].name < list[j].name })
	return list
}

func reactionEmoji(kind string) string {
	switch kind {
	case "heart":
		return "❤️"
	case "rocket":
		return "🚀"
	default:
		return "👍"
	}
}

// buildHTML assembles the full document. The jsonld block is trusted
// output of json.Marshal; everything else is escaped by the callers.
func buildHTML(site Site, title, bodyContent, jsonldDoc string) string {
	script := ""
	if jsonldDoc != "" {
		script = fmt.Sprintf("  <script type=\"application/ld+json\">\n%s\n  </script>\n", jsonldDoc)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s - %s</title>
  <link rel="stylesheet" href="/static/site.css">
  <script src="https://unpkg.com/htmx.org@1.9.12" defer></script>
%s</head>
<body>
  <header>
    <nav>
      <a href="/">Home</a>
      <a href="/projects">Projects</a>
      <a href="/blog">Blog</a>
      <a href="/contact">Contact</a>
    </nav>
  </header>
  <h1>%s</h1>
  <main>
%s
  </main>
  <footer>
    <p>%s</p>
  </footer>
</body>
</html>`,
		html.EscapeString(title), html.EscapeString(site.Title),
		script,
		html.EscapeString(title),
		bodyContent,
		html.EscapeString(site.Title))
}
