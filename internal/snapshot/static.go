package snapshot

import (
	"context"
	"sort"
)

// Static is an in-memory source keyed by path
type Static struct {
	SourceName string
	Files      map[string]string
}

func (s *Static) Name() string { return s.SourceName }

// Blobs returns the files in path order
func (s *Static) Blobs(ctx context.Context) ([]Blob, error) {
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		if err := CheckPath(p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	blobs := make([]Blob, len(paths))
	for i, p := range paths {
		content := s.Files[p]
		blobs[i] = Blob{Path: p, Read: func() ([]byte, error) { return []byte(content), nil }}
	}
	return blobs, nil
}
