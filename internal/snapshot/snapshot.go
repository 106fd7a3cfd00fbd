// Package snapshot enumerates the files of one snapshot, either a git commit
// or a zip archive of a repository.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsafePath is returned for paths that could escape the site directory
var ErrUnsafePath = errors.New("unsafe path")

// Blob is one file of a snapshot. Read may be called from several
// goroutines at once.
type Blob struct {
	Path string
	Read func() ([]byte, error)
}

// Source enumerates the blobs of a snapshot
type Source interface {
	Name() string
	Blobs(ctx context.Context) ([]Blob, error)
}

// Committer is implemented by sources that resolve to a commit
type Committer interface {
	Commit() string
}

// CheckPath rejects absolute paths, backslashes and dot segments
func CheckPath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "." {
			return fmt.Errorf("%w: %q", ErrUnsafePath, p)
		}
	}
	return nil
}
