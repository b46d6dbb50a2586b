package portfolio

import (
	"context"
	"fmt"

	"github.com/eringen/portfolio/models"
)

type blogRow struct {
	ID        string   `db:"id"`
	Title     string   `db:"title"`
	Excerpt   string   `db:"excerpt"`
	Content   string   `db:"content"`
	ImageURL  string   `db:"image_url"`
	Tags      jsonList `db:"tags"`
	Published bool     `db:"published"`
	ReadTime  int      `db:"read_time"`
	CreatedAt int64    `db:"created_at"`
	UpdatedAt int64    `db:"updated_at"`
}

func (r blogRow) model() models.Blog {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return models.Blog{
		ID:        r.ID,
		Title:     r.Title,
		Excerpt:   r.Excerpt,
		Content:   r.Content,
		ImageURL:  r.ImageURL,
		Tags:      tags,
		Published: r.Published,
		ReadTime:  r.ReadTime,
		CreatedAt: fromMicros(r.CreatedAt),
		UpdatedAt: fromMicros(r.UpdatedAt),
	}
}

const blogColumns = `id, title, excerpt, content, image_url, tags, published, read_time, created_at, updated_at`

// ListBlogs returns blog posts newest first. With publishedOnly set drafts are
// excluded.
func (s *Store) ListBlogs(ctx context.Context, publishedOnly bool) ([]models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs`
	var args []any
	if publishedOnly {
		query += ` WHERE published = ?`
		args = append(args, true)
	}
	query += s.newestFirst()

	var rows []blogRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	out := make([]models.Blog, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

// GetBlog returns the post with id regardless of its published state.
func (s *Store) GetBlog(ctx context.Context, id string) (models.Blog, error) {
	var row blogRow
	if err := s.getOne(ctx, &row, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id); err != nil {
		return models.Blog{}, fmt.Errorf("get blog %s: %w", id, err)
	}
	return row.model(), nil
}

// CreateBlog inserts b with a fresh id and timestamps.
func (s *Store) CreateBlog(ctx context.Context, b models.Blog) (models.Blog, error) {
	now := s.timestamp()
	b.ID = newID()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Tags == nil {
		b.Tags = []string{}
	}
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO blogs (`+blogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		b.ID, b.Title, b.Excerpt, b.Content, b.ImageURL, jsonList(b.Tags), b.Published, b.ReadTime,
		toMicros(b.CreatedAt), toMicros(b.UpdatedAt))
	if err != nil {
		return models.Blog{}, fmt.Errorf("create blog: %w", err)
	}
	return b, nil
}

// UpdateBlog overwrites the mutable fields of the post identified by b.ID.
func (s *Store) UpdateBlog(ctx context.Context, b models.Blog) (models.Blog, error) {
	b.UpdatedAt = s.timestamp()
	if b.Tags == nil {
		b.Tags = []string{}
	}
	err := s.execOne(ctx, `UPDATE blogs SET title = ?, excerpt = ?, content = ?, image_url = ?, tags = ?, published = ?, read_time = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Excerpt, b.Content, b.ImageURL, jsonList(b.Tags), b.Published, b.ReadTime,
		toMicros(b.UpdatedAt), b.ID)
	if err != nil {
		return models.Blog{}, fmt.Errorf("update blog %s: %w", b.ID, err)
	}
	return s.GetBlog(ctx, b.ID)
}

// DeleteBlog removes the post with id. Missing posts are ignored.
func (s *Store) DeleteBlog(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM blogs WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete blog %s: %w", id, err)
	}
	return nil
}

// CountBlogs returns the number of posts, drafts included.
func (s *Store) CountBlogs(ctx context.Context) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM blogs`)
	if err != nil {
		return 0, fmt.Errorf("count blogs: %w", err)
	}
	return n, nil
}
