// Package source locates and decodes the base image for a session.
package source

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrImageNotFound is returned when neither the default path nor the
	// fallback directory yields an image.
	ErrImageNotFound = errors.New("no image found")
	// ErrImageDecode is returned when a resolved file cannot be decoded.
	ErrImageDecode = errors.New("failed to decode image")
)

// DefaultExtensions lists the raster extensions scanned in the fallback
// directory, in priority order.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// NotFoundError reports every location that was tried.
type NotFoundError struct {
	DefaultPath string
	FallbackDir string
	Extensions  []string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	b.WriteString("no image found\nTried:\n")
	fmt.Fprintf(&b, " - %s\n", e.DefaultPath)
	fmt.Fprintf(&b, " - searching in %s for %s\n", e.FallbackDir, strings.Join(e.Extensions, ", "))
	b.WriteString("Place an image at the default path or set IMAGE_PATH / FALLBACK_DIR.")
	return b.String()
}

func (e *NotFoundError) Unwrap() error {
	return ErrImageNotFound
}

// Resolver picks the base image path.
type Resolver struct {
	DefaultPath string
	FallbackDir string
	Extensions  []string
}

// NewResolver creates a Resolver scanning DefaultExtensions.
func NewResolver(defaultPath, fallbackDir string) *Resolver {
	return &Resolver{
		DefaultPath: defaultPath,
		FallbackDir: fallbackDir,
		Extensions:  DefaultExtensions,
	}
}

// Resolve returns DefaultPath if it is a regular file. Otherwise it returns
// the first file in FallbackDir whose extension is listed, ordered by
// extension priority and then by name.
func (r *Resolver) Resolve() (string, error) {
	if r.DefaultPath != "" && isRegularFile(r.DefaultPath) {
		return r.DefaultPath, nil
	}

	if r.FallbackDir != "" {
		if path, ok := r.scanFallback(); ok {
			return path, nil
		}
	}

	return "", &NotFoundError{
		DefaultPath: r.DefaultPath,
		FallbackDir: r.FallbackDir,
		Extensions:  r.Extensions,
	}
}

func (r *Resolver) scanFallback() (string, bool) {
	entries, err := os.ReadDir(r.FallbackDir)
	if err != nil {
		return "", false
	}

	byExt := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		byExt[ext] = append(byExt[ext], entry.Name())
	}

	for _, ext := range r.Extensions {
		names := byExt[strings.ToLower(ext)]
		if len(names) == 0 {
			continue
		}
		slices.Sort(names)
		for _, name := range names {
			path := filepath.Join(r.FallbackDir, name)
			if isRegularFile(path) {
				return path, true
			}
		}
	}
	return "", false
}

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %v", ErrImageDecode, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %v", ErrImageDecode, path, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w at %s: image is empty", ErrImageDecode, path)
	}
	return img, nil
}

// ResolveAndLoad resolves the base image path and decodes it.
func (r *Resolver) ResolveAndLoad() (string, image.Image, error) {
	path, err := r.Resolve()
	if err != nil {
		return "", nil, err
	}

	img, err := Load(path)
	if err != nil {
		return path, nil, err
	}
	return path, img, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
