package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores assets on the filesystem under a configured root, one
// subdirectory per content area. URLs are built from a public base URL that
// the static file server exposes the root under.
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}
	for _, area := range []Area{AreaOriginal, AreaThumb} {
		if err := os.MkdirAll(filepath.Join(root, string(area)), 0755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", area, err)
		}
	}
	return &Local{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (l *Local) Put(ctx context.Context, area Area, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := l.path(area, key)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write asset file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close asset file: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", l.baseURL, area, key), nil
}

func (l *Local) Delete(ctx context.Context, area Area, key string) error {
	if err := os.Remove(l.path(area, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete asset file: %w", err)
	}
	return nil
}

func (l *Local) path(area Area, key string) string {
	return filepath.Join(l.root, string(area), filepath.Base(key))
}
