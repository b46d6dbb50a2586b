package portfolio

import (
	"context"
	"fmt"

	"github.com/eringen/portfolio/models"
)

type imageRow struct {
	Filename     string `db:"filename"`
	OriginalName string `db:"original_name"`
	Width        int    `db:"width"`
	Height       int    `db:"height"`
	Size         int    `db:"size"`
	UploadedAt   int64  `db:"uploaded_at"`
}

// SaveImage records metadata for an uploaded image. UploadedAt is set when zero.
func (s *Store) SaveImage(ctx context.Context, img models.Image) (models.Image, error) {
	if img.UploadedAt.IsZero() {
		img.UploadedAt = s.timestamp()
	}
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`),
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, toMicros(img.UploadedAt))
	if err != nil {
		return models.Image{}, fmt.Errorf("save image %s: %w", img.Filename, err)
	}
	return img, nil
}

// ListImages returns image metadata, most recent upload first.
func (s *Store) ListImages(ctx context.Context) ([]models.Image, error) {
	var rows []imageRow
	err := s.db.SelectContext(ctx, &rows, s.q(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC, filename`))
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	out := make([]models.Image, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Image{
			Filename:     r.Filename,
			OriginalName: r.OriginalName,
			Width:        r.Width,
			Height:       r.Height,
			Size:         r.Size,
			UploadedAt:   fromMicros(r.UploadedAt),
		})
	}
	return out, nil
}

// ImageExists reports whether metadata for filename is stored.
func (s *Store) ImageExists(ctx context.Context, filename string) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM images WHERE filename = ?`, filename)
	if err != nil {
		return false, fmt.Errorf("lookup image %s: %w", filename, err)
	}
	return n > 0, nil
}

// DeleteImage removes the metadata for filename.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM images WHERE filename = ?`), filename); err != nil {
		return fmt.Errorf("delete image %s: %w", filename, err)
	}
	return nil
}
