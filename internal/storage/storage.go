// Package storage moves packaged repositories to and from a blob store.
// Every repository lives under its own top-level prefix as <repo>/repo.zip.
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoBucket is returned when no bucket name is configured
	ErrNoBucket = errors.New("bucket name is not configured (set bucket.name or GIT_BUCKET_NAME)")
	// ErrNotFound is returned when a key does not exist
	ErrNotFound = errors.New("object not found")
)

// ArchiveName is the object name of a packaged repository
const ArchiveName = "repo.zip"

// Store is a remote blob store holding packaged repositories
type Store interface {
	// ListRepos returns the names of the top-level prefixes
	ListRepos(ctx context.Context) ([]string, error)
	Upload(ctx context.Context, key string, r io.Reader) error
	Download(ctx context.Context, key string, w io.Writer) error
}

// ArchiveKey returns the key of repo's packaged archive
func ArchiveKey(repo string) string {
	return repo + "/" + ArchiveName
}
