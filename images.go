package portfolio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/portfolio/models"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
	maxPixels     = 40_000_000
	uploadsSubdir = "uploads"
)

var errImageTooLarge = errors.New("image dimensions too large")

// processImage decodes src, scales it down to maxImageWidth when wider and
// re-encodes it as JPEG. The header is checked first so that declared
// dimensions above maxPixels are refused before any pixel buffer is allocated.
func processImage(src io.Reader, originalName string) (models.Image, []byte, error) {
	raw, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return models.Image{}, nil, fmt.Errorf("read image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return models.Image{}, nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return models.Image{}, nil, fmt.Errorf("%w: %dx%d", errImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return models.Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxImageWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return models.Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	base := Slugify(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	if base == "" {
		base = "image"
	}
	return models.Image{
		Filename:     base + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
	}, buf.Bytes(), nil
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.staticDir, uploadsSubdir)
}

// uniqueFilename appends a counter until the name is free both on disk and in the store.
func (a *App) uniqueFilename(ctx context.Context, filename string) (string, error) {
	base := strings.TrimSuffix(filename, ".jpg")
	candidate := filename
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(a.uploadsDir(), candidate))
		exists, err := a.Store.ImageExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if statErr != nil && !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
}

func (a *App) handleImageUpload(c echo.Context) error {
	ctx := c.Request().Context()
	file, err := c.FormFile("image")
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return jsonMessage(c, http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if errors.Is(err, errImageTooLarge) {
		return jsonMessage(c, http.StatusBadRequest, "Image dimensions too large")
	}
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "Invalid image")
	}

	if img.Filename, err = a.uniqueFilename(ctx, img.Filename); err != nil {
		return storageError(c, "Failed to upload image", err)
	}
	if err := os.MkdirAll(a.uploadsDir(), 0o755); err != nil {
		return storageError(c, "Failed to upload image", err)
	}
	path := filepath.Join(a.uploadsDir(), img.Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return storageError(c, "Failed to upload image", err)
	}

	saved, err := a.Store.SaveImage(ctx, img)
	if err != nil {
		os.Remove(path)
		return storageError(c, "Failed to upload image", err)
	}
	return c.JSON(http.StatusCreated, imageResponse{Image: saved, URL: "/public/" + uploadsSubdir + "/" + saved.Filename})
}

type imageResponse struct {
	models.Image
	URL string `json:"url"`
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Store.ListImages(c.Request().Context())
	if err != nil {
		return storageError(c, "Failed to fetch images", err)
	}
	out := make([]imageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, imageResponse{Image: img, URL: "/public/" + uploadsSubdir + "/" + img.Filename})
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := c.Param("filename")
	if !validUploadName(filename) {
		return jsonMessage(c, http.StatusBadRequest, "Invalid filename")
	}

	// the file may already be gone
	_ = os.Remove(filepath.Join(a.uploadsDir(), filename))

	if err := a.Store.DeleteImage(c.Request().Context(), filename); err != nil {
		return storageError(c, "Failed to delete image", err)
	}
	return jsonSuccess(c, "Image deleted successfully")
}

// validUploadName accepts a plain file name inside the uploads directory.
func validUploadName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
