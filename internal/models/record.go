package models

import (
	"path"
	"strings"
)

// PathRecord is one blob of a snapshot as seen by the tree builder
type PathRecord struct {
	Path     string   `json:"path"`
	Category Category `json:"category"`
}

// NewPathRecord classifies p and wraps it in a record
func NewPathRecord(p string) PathRecord {
	return PathRecord{Path: p, Category: Classify(p)}
}

// Name returns the final path segment
func (r PathRecord) Name() string {
	return path.Base(r.Path)
}

// Language returns the highlighting hint for the record: the lowercase
// extension without the dot, or "" when there is none.
func (r PathRecord) Language() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(r.Path), "."))
}
