package portfolio

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/eringen/portfolio/models"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &buf
}

func TestProcessImageScalesWideImages(t *testing.T) {
	img, data, err := processImage(encodePNG(t, 2400, 600), "My Photo.PNG")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != maxImageWidth || img.Height != 300 {
		t.Errorf("size = %dx%d, want %dx300", img.Width, img.Height, maxImageWidth)
	}
	if img.Filename != "my-photo.jpg" {
		t.Errorf("Filename = %q", img.Filename)
	}
	if img.Size != len(data) {
		t.Errorf("Size = %d, want %d", img.Size, len(data))
	}
}

func TestProcessImageKeepsSmallImages(t *testing.T) {
	img, _, err := processImage(encodePNG(t, 300, 200), "___.png")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != 300 || img.Height != 200 {
		t.Errorf("size = %dx%d, want 300x200", img.Width, img.Height)
	}
	if img.Filename != "image.jpg" {
		t.Errorf("Filename = %q, want image.jpg", img.Filename)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, err := processImage(bytes.NewReader([]byte("not an image")), "x.png"); err == nil {
		t.Error("expected decode error")
	}
}

func TestUniqueFilename(t *testing.T) {
	s := setupTestStore(t)
	a := &App{Store: s, staticDir: t.TempDir()}
	ctx := context.Background()

	if err := os.MkdirAll(a.uploadsDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(a.uploadsDir(), "photo.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveImage(ctx, models.Image{Filename: "photo-2.jpg", OriginalName: "photo.jpg"}); err != nil {
		t.Fatal(err)
	}

	got, err := a.uniqueFilename(ctx, "photo.jpg")
	if err != nil {
		t.Fatalf("uniqueFilename failed: %v", err)
	}
	if got != "photo-3.jpg" {
		t.Errorf("got %q, want photo-3.jpg", got)
	}

	got, _ = a.uniqueFilename(ctx, "other.jpg")
	if got != "other.jpg" {
		t.Errorf("got %q, want other.jpg", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":     "hello-world",
		"  Go & templ!  ": "go-templ",
		"already-slug":    "already-slug",
		"***":             "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
