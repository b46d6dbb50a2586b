// Package portfolio is a personal portfolio site built with Go, Echo, and templ.
// It serves public pages for projects and blog posts, a JSON API for the
// admin panel, an RSS feed and a sitemap.
//
// Page templates are supplied through the ViewFuncs struct; portfolio owns the
// handlers, middleware, sessions and database access.
package portfolio

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/memstore"
	"github.com/eringen/portfolio/models"
	"github.com/eringen/portfolio/notify"
)

// ViewFuncs holds the templ components rendered by the public and admin
// pages. Form views receive the CSRF token to embed in their forms.
type ViewFuncs struct {
	Home             func(site models.Site, featured []models.Project, recent []models.Blog) templ.Component
	Projects         func(site models.Site, projects []models.Project) templ.Component
	BlogIndex        func(site models.Site, posts []models.Blog) templ.Component
	BlogPost         func(site models.Site, post models.Blog) templ.Component
	Contact          func(site models.Site, form models.ContactForm, csrfToken string) templ.Component
	AdminLogin       func(site models.Site, form models.LoginForm, csrfToken string) templ.Component
	AdminDashboard   func(site models.Site, dash models.Dashboard, csrfToken string) templ.Component
	AdminProjectForm func(site models.Site, form models.ProjectForm, csrfToken string) templ.Component
	AdminBlogForm    func(site models.Site, form models.BlogForm, csrfToken string) templ.Component
	AdminMessages    func(site models.Site, msgs []models.Message, notice string, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App wires together the store, sessions, cache, handlers and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    Records
	Cache    *ListCache
	Sessions *memstore.Store
	Notifier notify.Notifier
	Views    ViewFuncs

	loginLimiter   *RateLimiter
	contactLimiter *RateLimiter
	stopPruner     func()
	customRoutes   []func(*App)
	staticDir      string
	initialized    bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, seeds the admin credential and registers middleware
// and routes. Start calls it; tests call it directly and serve a.Echo.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabaseDriver, a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("portfolio: init store: %w", err)
		}
		a.Store = store
	}

	if err := a.seedAdmin(context.Background()); err != nil {
		return fmt.Errorf("portfolio: seed admin: %w", err)
	}

	secret := []byte(a.Config.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("portfolio: generate session secret: %w", err)
		}
		a.Echo.Logger.Warn("SessionSecret is empty; using a random key, sessions end on restart")
	}
	a.Sessions = a.newSessionStore(secret)
	a.stopPruner = a.Sessions.StartPruner(a.Config.SessionPruneInterval)

	if a.Notifier == nil {
		a.Notifier = notify.Nop{}
	}

	a.Cache = NewListCache(a.Store, a.Config.ListCacheTTL)
	a.loginLimiter = NewRateLimiter(a.Config.LoginAttempts, a.Config.LoginWindow)
	a.contactLimiter = NewRateLimiter(a.Config.ContactAttempts, a.Config.ContactWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.initialized = true
	return nil
}

// Start initializes the App and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Pages
	e.GET("/", a.handleHome)
	e.GET("/projects/", a.handleProjectsPage)
	e.GET("/blog/", a.handleBlogIndex)
	e.GET("/blog/:id/", a.handleBlogPage)
	e.GET("/contact/", a.handleContactPage)
	e.POST("/contact/", a.handleContactSubmit)

	// Admin pages
	page := a.requireAdminPage
	e.GET("/admin/", a.handleAdminPage)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)
	e.GET("/admin/projects/new/", a.handleAdminNewProject, page)
	e.GET("/admin/projects/:id/", a.handleAdminEditProject, page)
	e.POST("/admin/projects/", a.handleAdminSaveProject, page)
	e.POST("/admin/projects/:id/delete/", a.handleAdminDeleteProject, page)
	e.GET("/admin/blogs/new/", a.handleAdminNewBlog, page)
	e.GET("/admin/blogs/:id/", a.handleAdminEditBlog, page)
	e.POST("/admin/blogs/", a.handleAdminSaveBlog, page)
	e.POST("/admin/blogs/:id/delete/", a.handleAdminDeleteBlog, page)
	e.GET("/admin/messages/", a.handleAdminMessages, page)
	e.POST("/admin/messages/:id/read/", a.handleAdminMarkRead, page)
	e.POST("/admin/messages/:id/delete/", a.handleAdminDeleteMessage, page)

	api := e.Group("/api")
	admin := a.requireAdmin

	// Auth
	api.POST("/admin/login", a.handleLogin)
	api.POST("/admin/logout", a.handleLogout)
	api.GET("/admin/check", a.handleCheck)
	api.GET("/admin/stats", a.handleStats, admin)

	// Images
	api.GET("/admin/images", a.handleImageList, admin)
	api.POST("/admin/images", a.handleImageUpload, admin)
	api.DELETE("/admin/images/:filename", a.handleImageDelete, admin)

	// Projects
	api.GET("/projects", a.handleListProjects)
	api.GET("/projects/featured", a.handleFeaturedProjects)
	api.GET("/projects/:id", a.handleGetProject)
	api.POST("/projects", a.handleCreateProject, admin)
	api.PUT("/projects/:id", a.handleUpdateProject, admin)
	api.DELETE("/projects/:id", a.handleDeleteProject, admin)

	// Blogs
	api.GET("/blogs", a.handleListPublishedBlogs)
	api.GET("/blogs/all", a.handleListAllBlogs, admin)
	api.GET("/blogs/:id", a.handleGetBlog)
	api.POST("/blogs", a.handleCreateBlog, admin)
	api.PUT("/blogs/:id", a.handleUpdateBlog, admin)
	api.DELETE("/blogs/:id", a.handleDeleteBlog, admin)

	// Messages
	api.POST("/messages", a.handleCreateMessage)
	api.GET("/messages", a.handleListMessages, admin)
	api.GET("/messages/:id", a.handleGetMessage, admin)
	api.PUT("/messages/:id/read", a.handleMarkMessageRead, admin)
	api.DELETE("/messages/:id", a.handleDeleteMessage, admin)
}

// Close releases the store, notifier and session pruner. Call it when the app
// is shutting down.
func (a *App) Close() error {
	if a.stopPruner != nil {
		a.stopPruner()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Notifier != nil {
		a.Notifier.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) site() models.Site {
	return models.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}
