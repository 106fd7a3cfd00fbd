package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pders01/git-pages/internal/models"
)

var (
	// ErrConflictingPath is returned when a path is both a file and a
	// folder prefix of another path, or appears twice.
	ErrConflictingPath = errors.New("path is both a file and a folder")
	// ErrUnsortedInput is returned when a closed folder would have to be
	// reopened. Records must be sorted by path before building.
	ErrUnsortedInput = errors.New("records are not sorted by path")
	// ErrInvalidPath is returned for empty paths and empty segments
	ErrInvalidPath = errors.New("invalid path")
)

type kind uint8

const (
	kindNone kind = iota
	kindFolder
	kindLeaf
)

// frame is an open folder together with the names already used by its
// children.
type frame struct {
	folder *Folder
	names  map[string]kind
}

func newFrame(f *Folder) *frame {
	return &frame{folder: f, names: make(map[string]kind)}
}

// State is the accumulator of the fold: the tree built so far and the stack
// of currently open folder names. Always continue from the State returned by
// the previous Step.
type State struct {
	root   *Folder
	open   []string
	frames []*frame
}

// NewState returns the state before the first record: an empty root, no
// open folders.
func NewState() State {
	root := &Folder{}
	return State{root: root, frames: []*frame{newFrame(root)}}
}

// Root returns the tree built so far
func (s State) Root() *Folder {
	return s.root
}

// Open returns a copy of the open folder stack, outermost first
func (s State) Open() []string {
	return append([]string(nil), s.open...)
}

// Depth is the number of open folders
func (s State) Depth() int {
	return len(s.open)
}

// Close pops every open folder. Children are append-only, so closing only
// touches the stack.
func (s State) Close() State {
	return State{root: s.root, frames: s.frames[:1:1]}
}

// Step folds one record into the state. The record's folder segments are
// matched against the open stack; folders past the common prefix are closed,
// the missing ones are opened, and the leaf is appended to the innermost
// folder.
func Step(s State, rec models.PathRecord) (State, error) {
	segments, err := splitPath(rec.Path)
	if err != nil {
		return s, err
	}
	dirs, name := segments[:len(segments)-1], segments[len(segments)-1]

	k := commonPrefix(s.open, dirs)
	open := s.open[:k:k]
	frames := s.frames[: k+1 : k+1]

	for i := k; i < len(dirs); i++ {
		parent := frames[len(frames)-1]
		switch parent.names[dirs[i]] {
		case kindLeaf:
			return s, fmt.Errorf("%w: %s", ErrConflictingPath, rec.Path)
		case kindFolder:
			return s, fmt.Errorf("%w: folder %s reopened by %s", ErrUnsortedInput, strings.Join(dirs[:i+1], "/"), rec.Path)
		}

		folder := &Folder{
			Name:  dirs[i],
			Path:  strings.Join(dirs[:i+1], "/"),
			Depth: i,
		}
		parent.folder.Children = append(parent.folder.Children, folder)
		parent.names[dirs[i]] = kindFolder

		frames = append(frames, newFrame(folder))
		open = append(open, dirs[i])
	}

	parent := frames[len(frames)-1]
	if parent.names[name] != kindNone {
		return s, fmt.Errorf("%w: %s", ErrConflictingPath, rec.Path)
	}
	parent.folder.Children = append(parent.folder.Children, &Leaf{
		Name:     name,
		FullPath: rec.Path,
		Category: rec.Category,
		Depth:    len(open),
	})
	parent.names[name] = kindLeaf

	return State{root: s.root, open: open, frames: frames}, nil
}

// Build folds records into a tree. Records must be sorted ascending by path
// using byte order; Build does not sort them.
func Build(records []models.PathRecord) (*Folder, error) {
	s := NewState()
	for _, rec := range records {
		var err error
		if s, err = Step(s, rec); err != nil {
			return nil, err
		}
	}
	return s.Close().Root(), nil
}

// commonPrefix returns the number of leading segments shared by open and dirs
func commonPrefix(open, dirs []string) int {
	k := 0
	for k < len(open) && k < len(dirs) && open[k] == dirs[k] {
		k++
	}
	return k
}

func splitPath(p string) ([]string, error) {
	if p == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segments := strings.Split(p, "/")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, p)
		}
	}
	return segments, nil
}
