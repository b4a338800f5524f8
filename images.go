package littlehouse

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/littlehouse/content"
	"github.com/eringen/littlehouse/i18n"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// processImage decodes an image from src, downscales it to maxImageWidth
// and encodes it as JPEG.
func processImage(src io.Reader) (width, height int, data []byte, err error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return 0, 0, nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return w, h, buf.Bytes(), nil
}

// imageFilename turns an upload name into a slug with a .jpg extension.
// Names with no usable characters become "image".
func imageFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	slug := content.Slugify(strings.TrimSpace(base))
	if slug == "untitled" {
		slug = "image"
	}
	return slug + ".jpg"
}

// uniqueFilename appends a counter until the name is free in dir.
func uniqueFilename(dir, filename string) string {
	base := strings.TrimSuffix(filename, ".jpg")
	candidate := filename
	for counter := 2; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.Config.StaticDir, uploadsSubdir)
}

// listImages reads the uploads directory, newest first. A missing
// directory is an empty list.
func (a *App) listImages() ([]Image, error) {
	dir := a.uploadsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Image{}, nil
		}
		return nil, fmt.Errorf("list images: %w", err)
	}
	images := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		img := Image{
			Filename: e.Name(),
			URL:      "/public/" + uploadsSubdir + "/" + e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC().Format(time.RFC3339),
		}
		if f, err := os.Open(filepath.Join(dir, e.Name())); err == nil {
			if cfg, _, err := image.DecodeConfig(f); err == nil {
				img.Width, img.Height = cfg.Width, cfg.Height
			}
			f.Close()
		}
		images = append(images, img)
	}
	slices.SortFunc(images, func(x, y Image) int {
		return strings.Compare(y.Modified, x.Modified)
	})
	return images, nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: "No image file provided"})
	}
	if file.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: "File too large (max 10MB)"})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	w, h, data, err := processImage(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: "Invalid image: " + err.Error()})
	}

	dir := a.uploadsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	name := uniqueFilename(dir, imageFilename(file.Filename))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	return c.JSON(http.StatusCreated, apiResponse{Success: true, Data: Image{
		Filename: name,
		URL:      "/public/" + uploadsSubdir + "/" + name,
		Width:    w,
		Height:   h,
		Size:     int64(len(data)),
		Modified: a.now().UTC().Format(time.RFC3339),
	}})
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return jsonError(c, http.StatusBadRequest, i18n.MsgMissingName)
	}
	if err := os.Remove(filepath.Join(a.uploadsDir(), filename)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return jsonError(c, http.StatusNotFound, i18n.MsgNotFound)
		}
		return jsonStoreError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Success: true, FileName: filename})
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.listImages()
	if err != nil {
		return jsonStoreError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: images})
}
