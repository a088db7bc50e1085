package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/oornnery/site/internal/api/render"
	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/comments"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/domain/projects"
	"github.com/oornnery/site/internal/domain/settings"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PagesHandler serves the HTML routes of the public apps. Pages are
// built by the render package with JSON-LD embedded for crawlers.
type PagesHandler struct {
	Posts    *blog.Service
	Projects *projects.Service
	Comments *comments.Service
	Profiles *profiles.Service
	Settings *settings.Service
	Env      string
}

func NewPagesHandler(posts *blog.Service, projectsSvc *projects.Service, commentsSvc *comments.Service, profilesSvc *profiles.Service, settingsSvc *settings.Service, env string) *PagesHandler {
	return &PagesHandler{
		Posts:    posts,
		Projects: projectsSvc,
		Comments: commentsSvc,
		Profiles: profilesSvc,
		Settings: settingsSvc,
		Env:      env,
	}
}

func (h *PagesHandler) site(r *http.Request) render.Site {
	stored, err := h.Settings.Get(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("settings unavailable, using defaults")
		stored = settings.Defaults()
	}
	return render.Site{Title: stored.SiteTitle, BaseURL: stored.BaseURL}
}

// Home renders the portfolio landing page.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	site := h.site(r)

	profile, err := h.Profiles.GetMain(r.Context())
	if err != nil {
		h.errorPage(w, r, site, err)
		return
	}
	featured, err := h.Projects.List(r.Context(), projects.Filters{FeaturedOnly: true, Limit: 6})
	if err != nil {
		h.errorPage(w, r, site, err)
		return
	}

	writeHTML(w, http.StatusOK, render.HomePage(site, profile, featured))
}

// ProjectIndex renders the portfolio project list.
func (h *PagesHandler) ProjectIndex(w http.ResponseWriter, r *http.Request) {
	site := h.site(r)

	list, err := h.Projects.List(r.Context(), projects.Filters{Tech: r.URL.Query().Get("tech")})
	if err != nil {
		h.errorPage(w, r, site, err)
		return
	}
	writeHTML(w, http.StatusOK, render.ProjectListPage(site, list))
}

// ProjectShow renders one project page.
func (h *PagesHandler) ProjectShow(w http.ResponseWriter, r *http.Request) {
	site := h.site(r)

	project, err := h.Projects.GetBySlug(r.Context(), pathParam(r, "slug"))
	if err != nil || (project.Draft && !isAdmin(r)) {
		if err == nil || errors.Is(err, projects.ErrNotFound) {
			h.notFoundPage(w, site)
			return
		}
		h.errorPage(w, r, site, err)
		return
	}
	writeHTML(w, http.StatusOK, render.ProjectPage(site, project))
}

// Contact renders the contact form page.
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, render.ContactPage(h.site(r)))
}

// BlogIndex renders the post listing with category and tag navigation.
// The three queries are independent, so they run concurrently.
func (h *PagesHandler) BlogIndex(w http.ResponseWriter, r *http.Request) {
	site := h.site(r)

	var (
		posts      []blog.Post
		categories []blog.CategoryCount
		tags       []blog.TagCount
	)
	group, ctx := errgroup.WithContext(r.Context())
	group.Go(func() error {
		var err error
		posts, err = h.Posts.List(ctx, blog.Filters{
			Category: r.URL.Query().Get("category"),
			Tag:      r.URL.Query().Get("tag"),
			Query:    r.URL.Query().Get("q"),
		})
		return err
	})
	group.Go(func() error {
		var err error
		categories, err = h.Posts.CategoriesWithCount(ctx)
		return err
	})
	group.Go(func() error {
		var err error
		tags, err = h.Posts.TagsWithCount(ctx)
		return err
	})
	if err := group.Wait(); err != nil {
		h.errorPage(w, r, site, err)
		return
	}

	writeHTML(w, http.StatusOK, render.PostListPage(site, posts, categories, tags))
}

// BlogPost renders one post with comments and reactions, bumping the
// view counter.
func (h *PagesHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	site := h.site(r)

	post, err := h.Posts.GetBySlug(r.Context(), pathParam(r, "slug"))
	if err != nil || (post.Draft && !isAdmin(r)) {
		if err == nil || errors.Is(err, blog.ErrNotFound) {
			h.notFoundPage(w, site)
			return
		}
		h.errorPage(w, r, site, err)
		return
	}

	if err := h.Posts.IncrementViews(r.Context(), post.ID); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("slug", post.Slug).Msg("view counter not bumped")
	} else {
		post.Views++
	}

	commentList, err := h.Comments.ListForPost(r.Context(), post.ID)
	if err != nil {
		h.errorPage(w, r, site, err)
		return
	}
	reactions, err := h.Posts.ReactionCounts(r.Context(), post.ID)
	if err != nil {
		h.errorPage(w, r, site, err)
		return
	}

	writeHTML(w, http.StatusOK, render.PostPage(site, post, commentList, reactions))
}

// Login renders the admin sign-in form with its CSRF field.
func (h *PagesHandler) Login(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, render.LoginPage(h.site(r), string(csrf.TemplateField(r))))
}

func (h *PagesHandler) notFoundPage(w http.ResponseWriter, site render.Site) {
	writeHTML(w, http.StatusNotFound, render.ErrorPage(site, http.StatusNotFound, "That page does not exist."))
}

func (h *PagesHandler) errorPage(w http.ResponseWriter, r *http.Request, site render.Site, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("page render failed")
	writeHTML(w, http.StatusInternalServerError, render.ErrorPage(site, http.StatusInternalServerError, "Something went wrong."))
}
