package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/comments"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/domain/projects"
	"github.com/oornnery/site/internal/domain/settings"
	"github.com/stretchr/testify/require"
)

type fakeProfilesRepo struct {
	mu      sync.Mutex
	profile *profiles.Profile
}

func (f *fakeProfilesRepo) GetMain(context.Context) (*profiles.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return nil, profiles.ErrNotFound
	}
	copied := *f.profile
	return &copied, nil
}

func (f *fakeProfilesRepo) Create(_ context.Context, profile *profiles.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *profile
	f.profile = &copied
	return nil
}

func (f *fakeProfilesRepo) Update(_ context.Context, profile *profiles.Profile) error {
	return f.Create(context.Background(), profile)
}

type fakeProjectsRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*projects.Project
}

func newFakeProjectsRepo() *fakeProjectsRepo {
	return &fakeProjectsRepo{byID: make(map[uuid.UUID]*projects.Project)}
}

func (f *fakeProjectsRepo) add(project *projects.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[project.ID] = project
}

func (f *fakeProjectsRepo) List(_ context.Context, filters projects.Filters) ([]projects.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []projects.Project
	for _, project := range f.byID {
		if project.Draft && !filters.IncludeDrafts {
			continue
		}
		if filters.FeaturedOnly && !project.Featured {
			continue
		}
		out = append(out, *project)
	}
	return out, nil
}

func (f *fakeProjectsRepo) GetBySlug(_ context.Context, slug string) (*projects.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, project := range f.byID {
		if project.Slug == slug {
			copied := *project
			return &copied, nil
		}
	}
	return nil, projects.ErrNotFound
}

func (f *fakeProjectsRepo) GetByID(_ context.Context, id uuid.UUID) (*projects.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project, ok := f.byID[id]; ok {
		copied := *project
		return &copied, nil
	}
	return nil, projects.ErrNotFound
}

func (f *fakeProjectsRepo) Create(_ context.Context, project *projects.Project) error {
	f.add(project)
	return nil
}

func (f *fakeProjectsRepo) Update(_ context.Context, project *projects.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[project.ID]; !ok {
		return projects.ErrNotFound
	}
	copied := *project
	f.byID[project.ID] = &copied
	return nil
}

func (f *fakeProjectsRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return projects.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func pagesFixture(t *testing.T) (*PagesHandler, *fakePostsRepo, *fakeProjectsRepo, *fakeProfilesRepo) {
	t.Helper()
	postsRepo := newFakePostsRepo()
	projectsRepo := newFakeProjectsRepo()
	profilesRepo := &fakeProfilesRepo{}
	handler := NewPagesHandler(
		blog.NewService(postsRepo),
		projects.NewService(projectsRepo),
		comments.NewService(newFakeCommentsRepo()),
		profiles.NewService(profilesRepo),
		settings.NewService(&fakeSettingsRepo{}),
		"test",
	)
	return handler, postsRepo, projectsRepo, profilesRepo
}

func TestHomePage(t *testing.T) {
	handler, _, projectsRepo, profilesRepo := pagesFixture(t)
	profilesRepo.profile = &profiles.Profile{
		ID:       uuid.New(),
		Name:     "Ada",
		Headline: "Engineer",
		BioHTML:  "<p>bio</p>",
		Skills:   []string{"Go"},
		Socials:  map[string]string{"github": "https://github.com/ada"},
	}
	projectsRepo.add(&projects.Project{
		ID:       uuid.New(),
		Title:    "Featured thing",
		Slug:     "featured-thing",
		Featured: true,
	})

	rec := httptest.NewRecorder()
	handler.Home(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	require.Contains(t, body, "Ada")
	require.Contains(t, body, "Featured thing")
	require.Contains(t, body, `"@type": "Person"`)
}

func TestBlogPostPage(t *testing.T) {
	handler, postsRepo, _, _ := pagesFixture(t)
	post := publishedPost("rendered")
	post.Title = "A rendered post"
	postsRepo.add(post)

	req := httptest.NewRequest("GET", "/blog/rendered", nil)
	req.SetPathValue("slug", "rendered")
	rec := httptest.NewRecorder()
	handler.BlogPost(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "A rendered post")
	require.Contains(t, body, `"@type": "BlogPosting"`)

	// The page view bumped the counter.
	stored, err := postsRepo.GetBySlug(context.Background(), "rendered")
	require.NoError(t, err)
	require.Equal(t, 1, stored.Views)
}

func TestBlogPostPageDraftHidden(t *testing.T) {
	handler, postsRepo, _, _ := pagesFixture(t)
	draft := publishedPost("secret-page")
	draft.Draft = true
	postsRepo.add(draft)

	req := httptest.NewRequest("GET", "/blog/secret-page", nil)
	req.SetPathValue("slug", "secret-page")
	rec := httptest.NewRecorder()
	handler.BlogPost(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	req = asAdmin(httptest.NewRequest("GET", "/blog/secret-page", nil))
	req.SetPathValue("slug", "secret-page")
	rec = httptest.NewRecorder()
	handler.BlogPost(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBlogIndexFiltersByTag(t *testing.T) {
	handler, postsRepo, _, _ := pagesFixture(t)
	goPost := publishedPost("go-post")
	goPost.Tags = []string{"go"}
	postsRepo.add(goPost)
	otherPost := publishedPost("other-post")
	otherPost.Tags = []string{"misc"}
	postsRepo.add(otherPost)

	rec := httptest.NewRecorder()
	handler.BlogIndex(rec, httptest.NewRequest("GET", "/blog?tag=go", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "go-post")
	require.NotContains(t, body, "other-post")
}

func TestProjectShowNotFound(t *testing.T) {
	handler, _, _, _ := pagesFixture(t)

	req := httptest.NewRequest("GET", "/projects/missing", nil)
	req.SetPathValue("slug", "missing")
	rec := httptest.NewRecorder()
	handler.ProjectShow(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactPageHasForm(t *testing.T) {
	handler, _, _, _ := pagesFixture(t)

	rec := httptest.NewRecorder()
	handler.Contact(rec, httptest.NewRequest("GET", "/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/api/contact")
}
