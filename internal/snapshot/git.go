package snapshot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pders01/git-pages/internal/git"
)

// GitSource reads the tracked files of a commit in a local repository
type GitSource struct {
	Dir  string
	Rev  string
	name string

	commit string
}

// NewGitSource returns a source for rev in the repository at dir. An empty
// rev means HEAD; an empty name means the base name of dir.
func NewGitSource(dir, rev, name string) *GitSource {
	if rev == "" {
		rev = "HEAD"
	}
	if name == "" {
		if abs, err := filepath.Abs(dir); err == nil {
			name = filepath.Base(abs)
		} else {
			name = filepath.Base(dir)
		}
	}
	return &GitSource{Dir: dir, Rev: rev, name: name}
}

func (s *GitSource) Name() string { return s.name }

// Commit returns the resolved commit hash, empty before Blobs is called
func (s *GitSource) Commit() string { return s.commit }

// Blobs lists every blob of the commit. Submodule entries are skipped.
func (s *GitSource) Blobs(ctx context.Context) ([]Blob, error) {
	if !git.IsGitRepo(s.Dir) {
		return nil, fmt.Errorf("not a git repository: %s", s.Dir)
	}

	commit, err := git.ResolveCommit(ctx, s.Dir, s.Rev)
	if err != nil {
		return nil, err
	}
	s.commit = commit

	entries, err := git.ListTree(ctx, s.Dir, commit)
	if err != nil {
		return nil, err
	}

	var blobs []Blob
	for _, entry := range entries {
		if !entry.IsBlob() {
			continue
		}
		if err := CheckPath(entry.Path); err != nil {
			return nil, err
		}
		hash := entry.Hash
		blobs = append(blobs, Blob{
			Path: entry.Path,
			Read: func() ([]byte, error) {
				return git.ReadBlob(ctx, s.Dir, hash)
			},
		})
	}
	return blobs, nil
}
