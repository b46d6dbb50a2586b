package portfolio

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/models"
)

func (a *App) handleListPublishedBlogs(c echo.Context) error {
	blogs, err := a.Cache.PublishedBlogs(c.Request().Context())
	if err != nil {
		return storageError(c, "Failed to fetch blogs", err)
	}
	return c.JSON(http.StatusOK, blogs)
}

func (a *App) handleListAllBlogs(c echo.Context) error {
	blogs, err := a.Store.ListBlogs(c.Request().Context(), false)
	if err != nil {
		return storageError(c, "Failed to fetch blogs", err)
	}
	return c.JSON(http.StatusOK, blogs)
}

// handleGetBlog serves any post by id, drafts included.
func (a *App) handleGetBlog(c echo.Context) error {
	blog, err := a.Store.GetBlog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return lookupError(c, err, "Blog not found", "Failed to fetch blog")
	}
	return c.JSON(http.StatusOK, blog)
}

// saveBlog is saveProject for posts. A new post without a read time gets
// one estimated from its content.
func (a *App) saveBlog(ctx context.Context, id string, patch blogPatch) (models.Blog, []FieldError, error) {
	blog := models.Blog{Tags: []string{}}
	if id != "" {
		var err error
		if blog, err = a.Store.GetBlog(ctx, id); err != nil {
			return models.Blog{}, nil, err
		}
	}
	patch.apply(&blog)
	if id == "" && patch.ReadTime == nil {
		blog.ReadTime = EstimateReadTime(blog.Content)
	}
	if errs := ValidateBlog(blog); len(errs) > 0 {
		return models.Blog{}, errs, nil
	}

	var saved models.Blog
	var err error
	if id == "" {
		saved, err = a.Store.CreateBlog(ctx, blog)
	} else {
		saved, err = a.Store.UpdateBlog(ctx, blog)
	}
	if err != nil {
		return models.Blog{}, nil, err
	}
	a.Cache.Invalidate()
	return saved, nil, nil
}

func (a *App) handleCreateBlog(c echo.Context) error {
	var patch blogPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c, "Invalid blog data", err)
	}
	created, errs, err := a.saveBlog(c.Request().Context(), "", patch)
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: "Invalid blog data", Errors: errs})
	}
	if err != nil {
		return storageError(c, "Failed to create blog", err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (a *App) handleUpdateBlog(c echo.Context) error {
	var patch blogPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c, "Invalid blog data", err)
	}
	updated, errs, err := a.saveBlog(c.Request().Context(), c.Param("id"), patch)
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: "Invalid blog data", Errors: errs})
	}
	if err != nil {
		return lookupError(c, err, "Blog not found", "Failed to update blog")
	}
	return c.JSON(http.StatusOK, updated)
}

func (a *App) handleDeleteBlog(c echo.Context) error {
	if err := a.Store.DeleteBlog(c.Request().Context(), c.Param("id")); err != nil {
		return storageError(c, "Failed to delete blog", err)
	}
	a.Cache.Invalidate()
	return jsonSuccess(c, "Blog deleted successfully")
}
