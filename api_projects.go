package portfolio

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/models"
)

func (a *App) handleListProjects(c echo.Context) error {
	projects, err := a.Cache.Projects(c.Request().Context())
	if err != nil {
		return storageError(c, "Failed to fetch projects", err)
	}
	return c.JSON(http.StatusOK, projects)
}

func (a *App) handleFeaturedProjects(c echo.Context) error {
	projects, err := a.Cache.FeaturedProjects(c.Request().Context())
	if err != nil {
		return storageError(c, "Failed to fetch featured projects", err)
	}
	return c.JSON(http.StatusOK, projects)
}

func (a *App) handleGetProject(c echo.Context) error {
	project, err := a.Store.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return lookupError(c, err, "Project not found", "Failed to fetch project")
	}
	return c.JSON(http.StatusOK, project)
}

// saveProject merges patch over the project with id, or over a new project
// when id is empty, validates the result and stores it. Validation failures
// are returned as field errors and nothing is written.
func (a *App) saveProject(ctx context.Context, id string, patch projectPatch) (models.Project, []FieldError, error) {
	project := models.Project{Technologies: []string{}}
	if id != "" {
		var err error
		if project, err = a.Store.GetProject(ctx, id); err != nil {
			return models.Project{}, nil, err
		}
	}
	patch.apply(&project)
	if errs := ValidateProject(project); len(errs) > 0 {
		return models.Project{}, errs, nil
	}

	var saved models.Project
	var err error
	if id == "" {
		saved, err = a.Store.CreateProject(ctx, project)
	} else {
		saved, err = a.Store.UpdateProject(ctx, project)
	}
	if err != nil {
		return models.Project{}, nil, err
	}
	a.Cache.Invalidate()
	return saved, nil, nil
}

func (a *App) handleCreateProject(c echo.Context) error {
	var patch projectPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c, "Invalid project data", err)
	}
	created, errs, err := a.saveProject(c.Request().Context(), "", patch)
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: "Invalid project data", Errors: errs})
	}
	if err != nil {
		return storageError(c, "Failed to create project", err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (a *App) handleUpdateProject(c echo.Context) error {
	var patch projectPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c, "Invalid project data", err)
	}
	updated, errs, err := a.saveProject(c.Request().Context(), c.Param("id"), patch)
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: "Invalid project data", Errors: errs})
	}
	if err != nil {
		return lookupError(c, err, "Project not found", "Failed to update project")
	}
	return c.JSON(http.StatusOK, updated)
}

func (a *App) handleDeleteProject(c echo.Context) error {
	if err := a.Store.DeleteProject(c.Request().Context(), c.Param("id")); err != nil {
		return storageError(c, "Failed to delete project", err)
	}
	a.Cache.Invalidate()
	return jsonSuccess(c, "Project deleted successfully")
}
