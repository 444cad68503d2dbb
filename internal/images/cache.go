package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"samecast/internal/logging"
	"samecast/internal/services"
)

// Kind selects the image family, which fixes the CDN size and cache subdirectory.
type Kind string

const (
	KindPoster  Kind = "poster"
	KindProfile Kind = "profile"
)

// Size returns the CDN rendition used for the kind.
func (k Kind) Size() string {
	if k == KindProfile {
		return "w185"
	}
	return "w500"
}

func (k Kind) dir() string {
	if k == KindProfile {
		return "profiles"
	}
	return "posters"
}

// Fetcher downloads images from the CDN.
type Fetcher interface {
	FetchImage(ctx context.Context, size, path string) ([]byte, error)
	ImageURL(size, path string) string
}

// Marker records that an image now exists on disk.
type Marker interface {
	MarkPosterCached(ctx context.Context, posterPath string) error
	MarkProfileCached(ctx context.Context, profilePath string) error
}

// Cache keeps downloaded poster and profile images on local disk.
type Cache struct {
	root    string
	fetcher Fetcher
	marker  Marker
	logger  *slog.Logger
	group   singleflight.Group
}

// New builds a Cache rooted at dir. marker may be nil.
func New(dir string, fetcher Fetcher, marker Marker, logger *slog.Logger) *Cache {
	return &Cache{
		root:    dir,
		fetcher: fetcher,
		marker:  marker,
		logger:  logging.NewComponentLogger(logger, "images"),
	}
}

// SanitizeName validates a requested file name. Only a single path segment
// that does not start with a dot is accepted.
func SanitizeName(name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	switch {
	case name == "",
		strings.HasPrefix(name, "."),
		strings.ContainsAny(name, `/\`),
		strings.ContainsRune(name, 0),
		filepath.Base(name) != name:
		return "", services.Wrap(services.ErrInvalidInput, "images", "sanitize", fmt.Sprintf("invalid image name %q", name), nil)
	}
	return name, nil
}

// LocalPath returns where an image of the given kind is stored.
func (c *Cache) LocalPath(kind Kind, name string) string {
	return filepath.Join(c.root, kind.dir(), name)
}

// Ensure makes sure the image is on disk, downloading it when necessary, and
// returns its local path.
func (c *Cache) Ensure(ctx context.Context, kind Kind, name string) (string, error) {
	name, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	local := c.LocalPath(kind, name)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	_, err, _ = c.group.Do(string(kind)+"/"+name, func() (any, error) {
		if _, err := os.Stat(local); err == nil {
			return nil, nil
		}
		data, err := c.fetcher.FetchImage(ctx, kind.Size(), "/"+name)
		if err != nil {
			return nil, err
		}
		if err := writeAtomic(local, data); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "images", "write", local, err)
		}
		c.markCached(ctx, kind, "/"+name)
		c.logger.Debug("image cached", logging.String("kind", string(kind)), logging.String("file", name), logging.Int("bytes", len(data)))
		return nil, nil
	})
	if err != nil {
		return "", err
	}
	return local, nil
}

// Serve writes the image to w. When it cannot be materialized locally the
// client is redirected to the CDN instead.
func (c *Cache) Serve(w http.ResponseWriter, r *http.Request, kind Kind, name string) {
	clean, err := SanitizeName(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	local, err := c.Ensure(r.Context(), kind, clean)
	if err != nil {
		logging.WithContext(r.Context(), c.logger).Warn("image download failed; redirecting to CDN",
			logging.String("file", clean),
			logging.Error(err),
		)
		http.Redirect(w, r, c.fetcher.ImageURL(kind.Size(), "/"+clean), http.StatusFound)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=604800")
	http.ServeFile(w, r, local)
}

func (c *Cache) markCached(ctx context.Context, kind Kind, path string) {
	if c.marker == nil {
		return
	}
	var err error
	switch kind {
	case KindProfile:
		err = c.marker.MarkProfileCached(ctx, path)
	default:
		err = c.marker.MarkPosterCached(ctx, path)
	}
	if err != nil {
		c.logger.Warn("mark image cached failed", logging.String("path", path), logging.Error(err))
	}
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
