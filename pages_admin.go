package portfolio

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/portfolio/models"
)

var adminNotices = map[string]string{
	"saved":   "Saved.",
	"deleted": "Deleted.",
	"read":    "Marked as read.",
}

// CsrfToken returns the CSRF token for the current request.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

// requireAdminPage sends visitors without a session to the login page.
func (a *App) requireAdminPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		return next(c)
	}
}

func formErrors(errs []FieldError) models.FormErrors {
	out := make(models.FormErrors, len(errs))
	for _, e := range errs {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

func (a *App) handleAdminPage(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.site(), models.LoginForm{}, CsrfToken(c)))
	}
	return a.renderDashboard(c, http.StatusOK, adminNotices[c.QueryParam("msg")])
}

func (a *App) renderDashboard(c echo.Context, code int, notice string) error {
	ctx := c.Request().Context()
	stats, err := GetStats(ctx, a.Store)
	if err != nil {
		return err
	}
	projects, err := a.Store.ListProjects(ctx, false)
	if err != nil {
		return err
	}
	blogs, err := a.Store.ListBlogs(ctx, false)
	if err != nil {
		return err
	}
	dash := models.Dashboard{Stats: stats, Projects: projects, Blogs: blogs, Notice: notice}
	return RenderStatus(c, code, a.Views.AdminDashboard(a.site(), dash, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	form := models.LoginForm{Username: strings.TrimSpace(c.FormValue("username"))}
	status, err := a.login(c, form.Username, c.FormValue("password"))
	if status == http.StatusOK {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err != nil {
		c.Logger().Errorf("login: %v", err)
	}
	form.Failed = true
	return RenderStatus(c, status, a.Views.AdminLogin(a.site(), form, CsrfToken(c)))
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// Projects

func projectForm(p models.Project) models.ProjectForm {
	return models.ProjectForm{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Technologies: strings.Join(p.Technologies, ", "),
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
		Featured:     p.Featured,
	}
}

func readProjectForm(c echo.Context) models.ProjectForm {
	return models.ProjectForm{
		ID:           c.FormValue("id"),
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		ImageURL:     c.FormValue("imageUrl"),
		Technologies: c.FormValue("technologies"),
		GithubURL:    c.FormValue("githubUrl"),
		LiveURL:      c.FormValue("liveUrl"),
		Featured:     c.FormValue("featured") != "",
	}
}

func projectFormPatch(f models.ProjectForm) projectPatch {
	techs := TagList(FilterEmpty(strings.Split(f.Technologies, ",")))
	return projectPatch{
		Title:        &f.Title,
		Description:  &f.Description,
		ImageURL:     &f.ImageURL,
		Technologies: &techs,
		GithubURL:    &f.GithubURL,
		LiveURL:      &f.LiveURL,
		Featured:     &f.Featured,
	}
}

func (a *App) handleAdminNewProject(c echo.Context) error {
	return Render(c, a.Views.AdminProjectForm(a.site(), models.ProjectForm{}, CsrfToken(c)))
}

func (a *App) handleAdminEditProject(c echo.Context) error {
	p, err := a.Store.GetProject(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminProjectForm(a.site(), projectForm(p), CsrfToken(c)))
}

// handleAdminSaveProject creates or updates a project from the editor. Any
// failure shows the editor again with the submitted values.
func (a *App) handleAdminSaveProject(c echo.Context) error {
	form := readProjectForm(c)
	_, errs, err := a.saveProject(c.Request().Context(), form.ID, projectFormPatch(form))
	if len(errs) == 0 && err == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=saved")
	}

	code := http.StatusBadRequest
	switch {
	case len(errs) > 0:
		form.Errors = formErrors(errs)
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	default:
		c.Logger().Errorf("save project: %v", err)
		code = http.StatusInternalServerError
	}
	form.Failed = true
	return RenderStatus(c, code, a.Views.AdminProjectForm(a.site(), form, CsrfToken(c)))
}

func (a *App) handleAdminDeleteProject(c echo.Context) error {
	if err := a.Store.DeleteProject(c.Request().Context(), c.Param("id")); err != nil {
		c.Logger().Errorf("delete project: %v", err)
		return a.renderDashboard(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=deleted")
}

// Blogs

func blogForm(b models.Blog) models.BlogForm {
	return models.BlogForm{
		ID:        b.ID,
		Title:     b.Title,
		Excerpt:   b.Excerpt,
		Content:   b.Content,
		ImageURL:  b.ImageURL,
		Tags:      strings.Join(b.Tags, ", "),
		ReadTime:  strconv.Itoa(b.ReadTime),
		Published: b.Published,
	}
}

func readBlogForm(c echo.Context) models.BlogForm {
	return models.BlogForm{
		ID:        c.FormValue("id"),
		Title:     c.FormValue("title"),
		Excerpt:   c.FormValue("excerpt"),
		Content:   c.FormValue("content"),
		ImageURL:  c.FormValue("imageUrl"),
		Tags:      c.FormValue("tags"),
		ReadTime:  c.FormValue("readTime"),
		Published: c.FormValue("published") != "",
	}
}

// blogFormPatch converts the editor fields. An empty read time leaves the
// stored one, or lets a new post get an estimate.
func blogFormPatch(f models.BlogForm) (blogPatch, []FieldError) {
	tags := TagList(FilterEmpty(strings.Split(f.Tags, ",")))
	patch := blogPatch{
		Title:     &f.Title,
		Excerpt:   &f.Excerpt,
		Content:   &f.Content,
		ImageURL:  &f.ImageURL,
		Tags:      &tags,
		Published: &f.Published,
	}
	if rt := strings.TrimSpace(f.ReadTime); rt != "" {
		n, err := strconv.Atoi(rt)
		if err != nil {
			return blogPatch{}, []FieldError{{Field: "readTime", Message: "readTime is invalid"}}
		}
		patch.ReadTime = &n
	}
	return patch, nil
}

func (a *App) handleAdminNewBlog(c echo.Context) error {
	return Render(c, a.Views.AdminBlogForm(a.site(), models.BlogForm{}, CsrfToken(c)))
}

func (a *App) handleAdminEditBlog(c echo.Context) error {
	b, err := a.Store.GetBlog(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminBlogForm(a.site(), blogForm(b), CsrfToken(c)))
}

func (a *App) handleAdminSaveBlog(c echo.Context) error {
	form := readBlogForm(c)
	patch, errs := blogFormPatch(form)
	var err error
	if len(errs) == 0 {
		_, errs, err = a.saveBlog(c.Request().Context(), form.ID, patch)
	}
	if len(errs) == 0 && err == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=saved")
	}

	code := http.StatusBadRequest
	switch {
	case len(errs) > 0:
		form.Errors = formErrors(errs)
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	default:
		c.Logger().Errorf("save blog: %v", err)
		code = http.StatusInternalServerError
	}
	form.Failed = true
	return RenderStatus(c, code, a.Views.AdminBlogForm(a.site(), form, CsrfToken(c)))
}

func (a *App) handleAdminDeleteBlog(c echo.Context) error {
	if err := a.Store.DeleteBlog(c.Request().Context(), c.Param("id")); err != nil {
		c.Logger().Errorf("delete blog: %v", err)
		return a.renderDashboard(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=deleted")
}

// Messages

func (a *App) renderMessages(c echo.Context, code int, notice string) error {
	msgs, err := a.Store.ListMessages(c.Request().Context())
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminMessages(a.site(), msgs, notice, CsrfToken(c)))
}

func (a *App) handleAdminMessages(c echo.Context) error {
	return a.renderMessages(c, http.StatusOK, adminNotices[c.QueryParam("msg")])
}

func (a *App) handleAdminMarkRead(c echo.Context) error {
	err := a.Store.MarkMessageRead(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		return a.renderMessages(c, http.StatusNotFound, "That message no longer exists.")
	case err != nil:
		c.Logger().Errorf("mark message read: %v", err)
		return a.renderMessages(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/messages/?msg=read")
}

func (a *App) handleAdminDeleteMessage(c echo.Context) error {
	if err := a.Store.DeleteMessage(c.Request().Context(), c.Param("id")); err != nil {
		c.Logger().Errorf("delete message: %v", err)
		return a.renderMessages(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/messages/?msg=deleted")
}
