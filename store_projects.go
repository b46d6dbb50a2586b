package portfolio

import (
	"context"
	"fmt"

	"github.com/eringen/portfolio/models"
)

type projectRow struct {
	ID           string   `db:"id"`
	Title        string   `db:"title"`
	Description  string   `db:"description"`
	ImageURL     string   `db:"image_url"`
	Technologies jsonList `db:"technologies"`
	GithubURL    string   `db:"github_url"`
	LiveURL      string   `db:"live_url"`
	Featured     bool     `db:"featured"`
	CreatedAt    int64    `db:"created_at"`
	UpdatedAt    int64    `db:"updated_at"`
}

func (r projectRow) model() models.Project {
	techs := []string(r.Technologies)
	if techs == nil {
		techs = []string{}
	}
	return models.Project{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		Technologies: techs,
		GithubURL:    r.GithubURL,
		LiveURL:      r.LiveURL,
		Featured:     r.Featured,
		CreatedAt:    fromMicros(r.CreatedAt),
		UpdatedAt:    fromMicros(r.UpdatedAt),
	}
}

const projectColumns = `id, title, description, image_url, technologies, github_url, live_url, featured, created_at, updated_at`

// ListProjects returns projects newest first. With featuredOnly set only
// featured projects are returned.
func (s *Store) ListProjects(ctx context.Context, featuredOnly bool) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if featuredOnly {
		query += ` WHERE featured = ?`
		args = append(args, true)
	}
	query += s.newestFirst()

	var rows []projectRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]models.Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

// GetProject returns the project with id or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	var row projectRow
	if err := s.getOne(ctx, &row, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id); err != nil {
		return models.Project{}, fmt.Errorf("get project %s: %w", id, err)
	}
	return row.model(), nil
}

// CreateProject inserts p with a fresh id and timestamps and returns the stored record.
func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	now := s.timestamp()
	p.ID = newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.Title, p.Description, p.ImageURL, jsonList(p.Technologies), p.GithubURL, p.LiveURL, p.Featured,
		toMicros(p.CreatedAt), toMicros(p.UpdatedAt))
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// UpdateProject overwrites every mutable field of the project identified by
// p.ID and refreshes UpdatedAt. CreatedAt is preserved.
func (s *Store) UpdateProject(ctx context.Context, p models.Project) (models.Project, error) {
	p.UpdatedAt = s.timestamp()
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	err := s.execOne(ctx, `UPDATE projects SET title = ?, description = ?, image_url = ?, technologies = ?, github_url = ?, live_url = ?, featured = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Description, p.ImageURL, jsonList(p.Technologies), p.GithubURL, p.LiveURL, p.Featured,
		toMicros(p.UpdatedAt), p.ID)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project %s: %w", p.ID, err)
	}
	return s.GetProject(ctx, p.ID)
}

// DeleteProject removes the project with id. Deleting a missing project is not an error.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM projects WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

// CountProjects returns the number of stored projects.
func (s *Store) CountProjects(ctx context.Context) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM projects`)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}
