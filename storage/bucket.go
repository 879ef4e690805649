// Package storage keeps uploaded files in named buckets on the local
// filesystem and hands out public URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid object key")

// Bucket stores objects under a key such as "profile-pics/7.png"
type Bucket interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	PublicURL(key string) string
}

// FSBucket is a Bucket backed by a directory
type FSBucket struct {
	name    string
	root    string
	baseURL string
}

// NewFSBucket creates <root>/<name> and serves it under <baseURL>/<name>
func NewFSBucket(root, name, baseURL string) (*FSBucket, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return &FSBucket{name: name, root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory holding the bucket's objects
func (b *FSBucket) Dir() string {
	return filepath.Join(b.root, b.name)
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != key {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// Upload writes r to key, replacing any existing object
func (b *FSBucket) Upload(ctx context.Context, key string, r io.Reader) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := filepath.Join(b.Dir(), filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// rename gives upsert semantics without exposing half-written files
	return os.Rename(tmp.Name(), dst)
}

// PublicURL returns the URL the object is served from
func (b *FSBucket) PublicURL(key string) string {
	return b.baseURL + "/" + b.name + "/" + (&url.URL{Path: key}).EscapedPath()
}
