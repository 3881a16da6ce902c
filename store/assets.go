package store

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DirAssets stores assets as files below a root directory.
type DirAssets struct {
	root    string
	baseURL string
}

// NewDirAssets returns assets stored under root. When baseURL is empty,
// public URLs are file:// URLs, otherwise they are baseURL/<path>.
func NewDirAssets(root, baseURL string) *DirAssets {
	return &DirAssets{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// CleanAssetPath validates a slash separated asset path and returns its
// canonical form.
func CleanAssetPath(p string) (string, error) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", ErrInvalidPath
	}

	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") ||
		strings.Contains(p, `\`) {
		return "", ErrInvalidPath
	}

	return cleaned, nil
}

func (d *DirAssets) file(p string) (string, error) {
	cleaned, err := CleanAssetPath(p)
	if err != nil {
		return "", err
	}

	return filepath.Join(d.root, filepath.FromSlash(cleaned)), nil
}

// Upload writes r to path. Without opts.Upsert an existing asset is a
// conflict.
func (d *DirAssets) Upload(
	ctx context.Context,
	p string,
	r io.Reader,
	opts UploadOptions,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := d.file(p)
	if err != nil {
		return err
	}

	if !opts.Upsert {
		if _, err = os.Stat(dst); err == nil {
			return ErrConflict
		}
	}

	err = os.MkdirAll(filepath.Dir(dst), 0o750)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return err
	}

	err = tmp.Close()
	if err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dst)
}

// Open returns a reader for the asset at path.
func (d *DirAssets) Open(p string) (*os.File, error) {
	src, err := d.file(p)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}

	return f, err
}

// PublicURL returns the URL at which the asset can be read.
func (d *DirAssets) PublicURL(p string) string {
	cleaned, err := CleanAssetPath(p)
	if err != nil {
		cleaned = strings.TrimPrefix(p, "/")
	}

	if d.baseURL != "" {
		return d.baseURL + "/" + cleaned
	}

	return "file://" + filepath.ToSlash(filepath.Join(d.root, cleaned))
}

// PathFromURL maps a URL returned by PublicURL back to its asset path.
func (d *DirAssets) PathFromURL(u string) (string, bool) {
	prefix := d.baseURL + "/"
	if d.baseURL == "" {
		prefix = "file://" + filepath.ToSlash(d.root) + "/"
	}

	p, ok := strings.CutPrefix(u, prefix)
	if !ok || p == "" {
		return "", false
	}

	return p, true
}

// Remove deletes the assets at paths, ignoring ones that do not exist.
func (d *DirAssets) Remove(ctx context.Context, paths []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error

	for _, p := range paths {
		f, err := d.file(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = os.Remove(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
