package portfolio

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/eringen/portfolio/models"
)

type ProjectStore interface {
	ListProjects(ctx context.Context, featuredOnly bool) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, p models.Project) (models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CountProjects(ctx context.Context) (int, error)
}

type BlogStore interface {
	ListBlogs(ctx context.Context, publishedOnly bool) ([]models.Blog, error)
	GetBlog(ctx context.Context, id string) (models.Blog, error)
	CreateBlog(ctx context.Context, b models.Blog) (models.Blog, error)
	UpdateBlog(ctx context.Context, b models.Blog) (models.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
	CountBlogs(ctx context.Context) (int, error)
}

type MessageStore interface {
	ListMessages(ctx context.Context) ([]models.Message, error)
	GetMessage(ctx context.Context, id string) (models.Message, error)
	CreateMessage(ctx context.Context, msg models.Message) (models.Message, error)
	MarkMessageRead(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) error
	CountMessages(ctx context.Context) (total, unread int, err error)
}

type AdminStore interface {
	GetAdminByUsername(ctx context.Context, username string) (models.AdminCredential, error)
	CreateAdmin(ctx context.Context, username, passwordHash string) (models.AdminCredential, error)
	SetAdminPassword(ctx context.Context, username, passwordHash string) error
	CountAdmins(ctx context.Context) (int, error)
}

type ImageStore interface {
	SaveImage(ctx context.Context, img models.Image) (models.Image, error)
	ListImages(ctx context.Context) ([]models.Image, error)
	ImageExists(ctx context.Context, filename string) (bool, error)
	DeleteImage(ctx context.Context, filename string) error
}

// Records is everything the HTTP layer needs from persistence. *Store
// implements it.
type Records interface {
	ProjectStore
	BlogStore
	MessageStore
	AdminStore
	ImageStore
	Close() error
}

var _ Records = (*Store)(nil)
