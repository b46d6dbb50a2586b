package portfolio

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/models"
)

const homeRecentPosts = 3

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	featured, err := a.Cache.FeaturedProjects(ctx)
	if err != nil {
		return err
	}
	posts, err := a.Cache.PublishedBlogs(ctx)
	if err != nil {
		return err
	}
	if len(posts) > homeRecentPosts {
		posts = posts[:homeRecentPosts]
	}
	return Render(c, a.Views.Home(a.site(), featured, posts))
}

func (a *App) handleProjectsPage(c echo.Context) error {
	projects, err := a.Cache.Projects(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Projects(a.site(), projects))
}

func (a *App) handleBlogIndex(c echo.Context) error {
	posts, err := a.Cache.PublishedBlogs(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogIndex(a.site(), posts))
}

// handleBlogPage only renders published posts; drafts are reachable through
// the API alone.
func (a *App) handleBlogPage(c echo.Context) error {
	post, err := a.Cache.PublishedBlog(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.BlogPost(a.site(), post))
}

func (a *App) handleContactPage(c echo.Context) error {
	return Render(c, a.Views.Contact(a.site(), models.ContactForm{}, CsrfToken(c)))
}

// handleContactSubmit stores a contact-form post. On failure the form is shown
// again with what the visitor typed.
func (a *App) handleContactSubmit(c echo.Context) error {
	form := models.ContactForm{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Subject: c.FormValue("subject"),
		Message: c.FormValue("message"),
	}

	code := http.StatusTooManyRequests
	if a.contactLimiter.Allow(c.RealIP()) {
		_, errs, err := a.submitMessage(c.Request().Context(), messageInput{
			Name:    form.Name,
			Email:   form.Email,
			Subject: form.Subject,
			Message: form.Message,
		})
		switch {
		case len(errs) > 0:
			code = http.StatusBadRequest
			form.Errors = formErrors(errs)
		case err != nil:
			c.Logger().Errorf("contact: %v", err)
			code = http.StatusInternalServerError
		default:
			return Render(c, a.Views.Contact(a.site(), models.ContactForm{Sent: true}, CsrfToken(c)))
		}
	}
	form.Failed = true
	return RenderStatus(c, code, a.Views.Contact(a.site(), form, CsrfToken(c)))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.PublishedBlogs(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.PublishedBlogs(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nDisallow: /api/\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	he, ok := err.(*echo.HTTPError)
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		msg := http.StatusText(code)
		if ok && code < 500 {
			if m, isString := he.Message.(string); isString {
				msg = m
			}
		}
		_ = c.JSON(code, messageResponse{Message: msg})
		return
	}

	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	case code >= 500:
		_ = RenderStatus(c, code, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
