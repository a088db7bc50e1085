// Package api assembles the HTTP surface: one router per application,
// sharing the middleware pipeline and the /api handlers.
package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oornnery/site/internal/api/handlers"
	"github.com/oornnery/site/internal/api/middleware"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/auth"
	"github.com/oornnery/site/internal/config"
	"github.com/oornnery/site/internal/domain/accounts"
	"github.com/oornnery/site/internal/domain/analytics"
	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/comments"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/domain/projects"
	"github.com/oornnery/site/internal/domain/settings"
	"github.com/oornnery/site/internal/metrics"
	"github.com/oornnery/site/internal/session"
	"github.com/oornnery/site/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Services groups the domain services the handlers depend on.
type Services struct {
	Accounts  *accounts.Service
	Posts     *blog.Service
	Projects  *projects.Service
	Comments  *comments.Service
	Profiles  *profiles.Service
	Contact   *contact.Service
	Settings  *settings.Service
	Analytics *analytics.Service
}

// RouterParams carries everything NewRouter needs to build one app.
type RouterParams struct {
	Config    config.Config
	Logger    zerolog.Logger
	Services  Services
	Audit     *audit.Logger
	Codec     *auth.TokenCodec
	Resolver  *session.Resolver
	Recorder  *analytics.Recorder
	Pool      *pgxpool.Pool
	Version   string
	GitCommit string
}

// NewRouter builds the handler tree for the configured application and
// wraps it in the shared middleware pipeline.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	env := cfg.Environment

	authHandler := handlers.NewAuthHandler(p.Services.Accounts, p.Codec, p.Audit, env, cfg.Auth.CookieSecure)
	postsHandler := handlers.NewPostsHandler(p.Services.Posts, p.Audit, env)
	projectsHandler := handlers.NewProjectsHandler(p.Services.Projects, p.Audit, env)
	commentsHandler := handlers.NewCommentsHandler(p.Services.Comments, p.Services.Posts, p.Services.Settings, p.Audit, env)
	contactHandler := handlers.NewContactHandler(p.Services.Contact, p.Audit, env)
	profileHandler := handlers.NewProfileHandler(p.Services.Profiles, p.Audit, env)
	settingsHandler := handlers.NewSettingsHandler(p.Services.Settings, p.Audit, env)
	analyticsHandler := handlers.NewAnalyticsHandler(p.Services.Analytics, env)
	auditHandler := handlers.NewAuditHandler(p.Audit, env)
	pagesHandler := handlers.NewPagesHandler(p.Services.Posts, p.Services.Projects, p.Services.Comments, p.Services.Profiles, p.Services.Settings, env)
	health := handlers.NewHealthChecker(p.Pool, p.Version, p.GitCommit, string(cfg.App))

	mux := http.NewServeMux()
	registerShared(mux, health)

	switch cfg.App {
	case config.AppBlog:
		registerBlog(mux, postsHandler, commentsHandler, pagesHandler)
	case config.AppAdmin:
		registerAdmin(mux, p, authHandler, postsHandler, projectsHandler, commentsHandler,
			contactHandler, profileHandler, settingsHandler, analyticsHandler, auditHandler, pagesHandler)
	default:
		registerPortfolio(mux, projectsHandler, profileHandler, contactHandler, pagesHandler)
	}

	return pipeline(p, mux)
}

func registerShared(mux *http.ServeMux, health *handlers.HealthChecker) {
	mux.Handle("GET /healthz", health.Livez())
	mux.Handle("GET /readyz", health.Readyz())
	mux.Handle("GET /api/healthz", health.Health())
	mux.Handle("GET /status", health.Status())
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /static/", web.StaticHandler())
	mux.Handle("GET /robots.txt", web.RobotsTxtHandler())
}

func registerPortfolio(mux *http.ServeMux, projectsHandler *handlers.ProjectsHandler, profileHandler *handlers.ProfileHandler, contactHandler *handlers.ContactHandler, pages *handlers.PagesHandler) {
	mux.HandleFunc("GET /{$}", pages.Home)
	mux.HandleFunc("GET /projects", pages.ProjectIndex)
	mux.HandleFunc("GET /projects/{slug}", pages.ProjectShow)
	mux.HandleFunc("GET /contact", pages.Contact)

	mux.HandleFunc("GET /api/projects", projectsHandler.List)
	mux.HandleFunc("GET /api/projects/{slug}", projectsHandler.Get)
	mux.HandleFunc("GET /api/profile", profileHandler.Get)
	mux.HandleFunc("POST /api/contact", contactHandler.Create)
}

func registerBlog(mux *http.ServeMux, postsHandler *handlers.PostsHandler, commentsHandler *handlers.CommentsHandler, pages *handlers.PagesHandler) {
	mux.Handle("GET /{$}", http.RedirectHandler("/blog", http.StatusMovedPermanently))
	mux.HandleFunc("GET /blog", pages.BlogIndex)
	mux.HandleFunc("GET /blog/{slug}", pages.BlogPost)

	mux.HandleFunc("GET /api/posts", postsHandler.List)
	mux.HandleFunc("GET /api/posts/{slug}", postsHandler.Get)
	mux.HandleFunc("GET /api/categories", postsHandler.Categories)
	mux.HandleFunc("GET /api/tags", postsHandler.Tags)
	mux.HandleFunc("GET /api/posts/{slug}/reactions", postsHandler.Reactions)
	mux.HandleFunc("POST /api/posts/{slug}/reactions", postsHandler.React)
	mux.HandleFunc("GET /api/comments/{post_slug}", commentsHandler.ListForPost)
	mux.HandleFunc("POST /api/comments/{post_slug}", commentsHandler.Create)
}

func registerAdmin(mux *http.ServeMux, p RouterParams,
	authHandler *handlers.AuthHandler,
	postsHandler *handlers.PostsHandler,
	projectsHandler *handlers.ProjectsHandler,
	commentsHandler *handlers.CommentsHandler,
	contactHandler *handlers.ContactHandler,
	profileHandler *handlers.ProfileHandler,
	settingsHandler *handlers.SettingsHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	auditHandler *handlers.AuditHandler,
	pages *handlers.PagesHandler,
) {
	cfg := p.Config
	env := cfg.Environment
	requireAdmin := middleware.RequireAdmin(env)
	csrfProtect := middleware.CSRFProtection([]byte(cfg.Auth.CSRFKey), cfg.Auth.CookieSecure)

	// Login routes carry their own limiter marked with the login tier;
	// the pipeline limiter only sees the public tier since routing
	// happens after it runs.
	loginLimit := middleware.RateLimit(cfg.RateLimit)
	loginTier := func(h http.Handler) http.Handler {
		return middleware.WithRateLimitTier(middleware.TierLogin)(loginLimit(h))
	}

	dashboard := handlers.NewDashboardHandler(pages, p.Services.Analytics, p.Services.Contact, env)
	mux.HandleFunc("GET /{$}", dashboard.Show)

	// HTML login flow: CSRF-protected form, login-tier rate limit on the POST.
	mux.Handle("GET /login", csrfProtect(http.HandlerFunc(pages.Login)))
	mux.Handle("POST /login", csrfProtect(loginTier(http.HandlerFunc(authHandler.Login))))

	// JSON auth flow for API clients.
	mux.Handle("POST /api/auth/login", loginTier(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)

	admin := func(h http.HandlerFunc) http.Handler { return requireAdmin(h) }

	mux.Handle("GET /api/posts", admin(postsHandler.List))
	mux.Handle("POST /api/posts", admin(postsHandler.Create))
	mux.Handle("GET /api/posts/{slug}", admin(postsHandler.Get))
	mux.Handle("PUT /api/posts/{id}", admin(postsHandler.Update))
	mux.Handle("DELETE /api/posts/{id}", admin(postsHandler.Delete))

	mux.Handle("GET /api/projects", admin(projectsHandler.List))
	mux.Handle("POST /api/projects", admin(projectsHandler.Create))
	mux.Handle("GET /api/projects/{slug}", admin(projectsHandler.Get))
	mux.Handle("PUT /api/projects/{id}", admin(projectsHandler.Update))
	mux.Handle("DELETE /api/projects/{id}", admin(projectsHandler.Delete))

	mux.Handle("GET /api/comments/recent", admin(commentsHandler.ListRecent))
	mux.Handle("DELETE /api/comments/{id}", admin(commentsHandler.Delete))
	mux.Handle("POST /api/comments/{id}/restore", admin(commentsHandler.Restore))

	mux.Handle("GET /api/contact-messages", admin(contactHandler.List))
	mux.Handle("POST /api/contact-messages/{id}/read", admin(contactHandler.MarkRead))

	mux.Handle("GET /api/profile", admin(profileHandler.Get))
	mux.Handle("PUT /api/profile", admin(profileHandler.Update))

	mux.Handle("GET /api/settings", admin(settingsHandler.Get))
	mux.Handle("PUT /api/settings", admin(settingsHandler.Update))

	mux.Handle("GET /api/analytics/pageviews", admin(analyticsHandler.Summary))
	mux.Handle("GET /api/analytics/stream", admin(analyticsHandler.Stream))
	mux.Handle("GET /api/audit", admin(auditHandler.List))
}

// pipeline wraps the mux in the shared middleware chain. Order matters:
// correlation first so every later stage logs with a request ID, rate
// limiting before session resolution, pageview capture closest to the
// mux so it sees the final status code.
func pipeline(p RouterParams, mux *http.ServeMux) http.Handler {
	cfg := p.Config

	var handler http.Handler = mux
	handler = middleware.PageViews(p.Recorder, string(cfg.App))(handler)
	handler = middleware.PartialGuard(cfg.Environment, cfg.IsDevelopment())(handler)
	handler = middleware.Session(p.Resolver)(handler)
	handler = middleware.RateLimit(cfg.RateLimit)(handler)
	handler = middleware.RequestLogging(p.Logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.SecurityHeaders(cfg.IsProduction())(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.CorrelationID(p.Logger)(handler)
	return handler
}
