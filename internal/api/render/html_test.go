package render

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/comments"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/domain/projects"
	"github.com/stretchr/testify/require"
)

var testSite = Site{Title: "oornnery", BaseURL: "https://example.com"}

func TestPostPageEmbedsJSONLD(t *testing.T) {
	post := &blog.Post{
		ID:          uuid.New(),
		Title:       "Hello <World>",
		Slug:        "hello-world",
		ContentHTML: "<p>rendered body</p>",
		Tags:        []string{"go"},
		Lang:        "en",
		ReadingTime: 3,
		PublishedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	page := PostPage(testSite, post, nil, map[string]int{"like": 2})

	require.Contains(t, page, `<script type="application/ld+json">`)
	require.Contains(t, page, `"@type": "BlogPosting"`)
	require.Contains(t, page, "<p>rendered body</p>")
	require.Contains(t, page, "Hello &lt;World&gt;")
	require.NotContains(t, page, "Hello <World>")
	require.Contains(t, page, "👍 2")
}

func TestPostPageEscapesCommentAuthors(t *testing.T) {
	post := &blog.Post{Title: "t", Slug: "t", PublishedAt: time.Now(), UpdatedAt: time.Now()}
	list := []comments.Comment{{
		AuthorName: `<img onerror=x>`,
		Content:    "fine",
		CreatedAt:  time.Now(),
	}}

	page := PostPage(testSite, post, list, nil)
	require.NotContains(t, page, "<img onerror")
	require.Contains(t, page, "&lt;img onerror=x&gt;")
}

func TestHomePageCarriesPersonDocument(t *testing.T) {
	profile := &profiles.Profile{
		Name:     "Ada",
		Headline: "Engineer",
		BioHTML:  "<p>bio</p>",
		Socials:  map[string]string{"github": "https://github.com/ada"},
		Skills:   []string{"Go", "SQL"},
	}

	page := HomePage(testSite, profile, []projects.Project{{Title: "sitegen", Slug: "sitegen"}})
	require.Contains(t, page, `"@type": "Person"`)
	require.Contains(t, page, "https://github.com/ada")
	require.Contains(t, page, "Featured work")
}

func TestProjectPageLinksRepo(t *testing.T) {
	project := &projects.Project{
		Title:       "sitegen",
		Slug:        "sitegen",
		ContentHTML: "<p>about</p>",
		RepoURL:     "https://github.com/oornnery/sitegen",
	}

	page := ProjectPage(testSite, project)
	require.Contains(t, page, `"@type": "SoftwareSourceCode"`)
	require.Contains(t, page, `href="https://github.com/oornnery/sitegen"`)
}

func TestLoginPageInlinesCSRFField(t *testing.T) {
	page := LoginPage(testSite, `<input type="hidden" name="gorilla.csrf.Token" value="abc">`)
	require.Contains(t, page, `name="gorilla.csrf.Token"`)
	require.Equal(t, 1, strings.Count(page, "<form"))
}

func TestErrorPageEscapesMessage(t *testing.T) {
	page := ErrorPage(testSite, 404, "<nope>")
	require.Contains(t, page, "&lt;nope&gt;")
}
