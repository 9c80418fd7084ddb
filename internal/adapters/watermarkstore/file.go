package watermarkstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File stores each record as a file at root/container/key. Writes go to a
// temporary file in the same directory and are renamed into place, so a
// reader never observes a partially written watermark.
type File struct {
	root string
}

// NewFile creates a store rooted at dir. The directory is created on the
// first write.
func NewFile(dir string) *File {
	return &File{root: dir}
}

// Root returns the base directory.
func (f *File) Root() string {
	return f.root
}

func (f *File) path(container, key string) string {
	return filepath.Join(f.root, container, filepath.FromSlash(key))
}

func (f *File) Exists(ctx context.Context, container, key string) (bool, error) {
	if err := validateRef(container, key); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fi, err := os.Stat(f.path(container, key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat watermark %s/%s: %w", container, key, err)
	}
	return fi.Mode().IsRegular(), nil
}

func (f *File) Read(ctx context.Context, container, key string) (string, error) {
	if err := validateRef(container, key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.path(container, key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", notFound(container, key)
	}
	if err != nil {
		return "", fmt.Errorf("reading watermark %s/%s: %w", container, key, err)
	}
	return string(data), nil
}

func (f *File) Write(ctx context.Context, container, key, contents string) error {
	if err := validateRef(container, key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := f.path(container, key)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory for %s/%s: %w", container, key, err)
	}

	tmp, err := os.CreateTemp(dir, ".watermark-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s/%s: %w", container, key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(contents); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing watermark %s/%s: %w", container, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing watermark %s/%s: %w", container, key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("replacing watermark %s/%s: %w", container, key, err)
	}
	return nil
}
