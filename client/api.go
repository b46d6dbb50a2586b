package client

import (
	"context"
	"net/http"

	"github.com/eringen/portfolio/models"
)

// ProjectInput is the body of project create and update. Nil fields are
// omitted, which leaves them unchanged on update.
type ProjectInput struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
	GithubURL    *string   `json:"githubUrl,omitempty"`
	LiveURL      *string   `json:"liveUrl,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
}

// BlogInput is the body of blog create and update.
type BlogInput struct {
	Title     *string   `json:"title,omitempty"`
	Excerpt   *string   `json:"excerpt,omitempty"`
	Content   *string   `json:"content,omitempty"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Published *bool     `json:"published,omitempty"`
	ReadTime  *int      `json:"readTime,omitempty"`
}

// MessageInput is a contact-form submission.
type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login starts an admin session. On success the whole cache is dropped.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if _, err := c.send(ctx, http.MethodPost, PathLogin, loginRequest{Username: username, Password: password}); err != nil {
		return err
	}
	c.InvalidateAll()
	return nil
}

// Logout ends the admin session and drops the whole cache.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.send(ctx, http.MethodPost, PathLogout, nil); err != nil {
		return err
	}
	c.InvalidateAll()
	return nil
}

// IsAuthenticated asks the server whether the session is an admin session.
// The answer is never cached.
func (c *Client) IsAuthenticated(ctx context.Context) (bool, error) {
	data, err := c.send(ctx, http.MethodGet, PathCheck, nil)
	if err != nil {
		return false, err
	}
	var out struct {
		IsAuthenticated bool `json:"isAuthenticated"`
	}
	if err := decode(data, &out); err != nil {
		return false, err
	}
	return out.IsAuthenticated, nil
}

// Stats returns the admin dashboard counts.
func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var out models.Stats
	err := c.get(ctx, PathStats, &out)
	return out, err
}

func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := c.get(ctx, PathProjects, &out)
	return out, err
}

func (c *Client) FeaturedProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := c.get(ctx, PathFeaturedProjects, &out)
	return out, err
}

func (c *Client) Project(ctx context.Context, id string) (models.Project, error) {
	var out models.Project
	err := c.get(ctx, projectPath(id), &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (models.Project, error) {
	var out models.Project
	if err := c.create(ctx, PathProjects, in, &out); err != nil {
		return out, err
	}
	c.Invalidate(Invalidations.Project(out.ID)...)
	return out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, in ProjectInput) (models.Project, error) {
	var out models.Project
	err := c.mutate(ctx, http.MethodPut, projectPath(id), in, &out, Invalidations.Project(id))
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, projectPath(id), nil, nil, Invalidations.Project(id))
}

// PublishedBlogs returns the public blog list.
func (c *Client) PublishedBlogs(ctx context.Context) ([]models.Blog, error) {
	var out []models.Blog
	err := c.get(ctx, PathBlogs, &out)
	return out, err
}

// AllBlogs returns every post, drafts included. Requires an admin session.
func (c *Client) AllBlogs(ctx context.Context) ([]models.Blog, error) {
	var out []models.Blog
	err := c.get(ctx, PathAllBlogs, &out)
	return out, err
}

func (c *Client) Blog(ctx context.Context, id string) (models.Blog, error) {
	var out models.Blog
	err := c.get(ctx, blogPath(id), &out)
	return out, err
}

func (c *Client) CreateBlog(ctx context.Context, in BlogInput) (models.Blog, error) {
	var out models.Blog
	if err := c.create(ctx, PathBlogs, in, &out); err != nil {
		return out, err
	}
	c.Invalidate(Invalidations.Blog(out.ID)...)
	return out, nil
}

func (c *Client) UpdateBlog(ctx context.Context, id string, in BlogInput) (models.Blog, error) {
	var out models.Blog
	err := c.mutate(ctx, http.MethodPut, blogPath(id), in, &out, Invalidations.Blog(id))
	return out, err
}

func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, blogPath(id), nil, nil, Invalidations.Blog(id))
}

// SendMessage submits the public contact form.
func (c *Client) SendMessage(ctx context.Context, in MessageInput) (models.Message, error) {
	var out models.Message
	err := c.mutate(ctx, http.MethodPost, PathMessages, in, &out, Invalidations.Message())
	return out, err
}

func (c *Client) Messages(ctx context.Context) ([]models.Message, error) {
	var out []models.Message
	err := c.get(ctx, PathMessages, &out)
	return out, err
}

func (c *Client) MarkMessageRead(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodPut, messagePath(id)+"/read", nil, nil, Invalidations.Message())
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, messagePath(id), nil, nil, Invalidations.Message())
}

// create posts body to path and decodes the created record. The caller
// invalidates afterwards because the new id is only known from the response.
func (c *Client) create(ctx context.Context, path string, body, out any) error {
	data, err := c.send(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}
