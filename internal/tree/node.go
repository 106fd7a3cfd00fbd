// Package tree folds a sorted list of slash-delimited paths into a nested
// folder tree and renders that tree as collapsible HTML.
package tree

import "github.com/pders01/git-pages/internal/models"

// Node is either a *Folder or a *Leaf
type Node interface {
	NodeName() string
	NodeDepth() int
}

// Folder is a directory in the tree. The root folder has an empty name and
// is never rendered as a node itself.
type Folder struct {
	Name     string
	Path     string
	Depth    int
	Children []Node
}

// Leaf is a file in the tree
type Leaf struct {
	Name     string
	FullPath string
	Category models.Category
	Depth    int
}

func (f *Folder) NodeName() string { return f.Name }
func (f *Folder) NodeDepth() int   { return f.Depth }
func (l *Leaf) NodeName() string   { return l.Name }
func (l *Leaf) NodeDepth() int     { return l.Depth }

// IsRoot reports whether f is the implicit top-level container
func (f *Folder) IsRoot() bool {
	return f.Path == ""
}

// Walk visits every node below root in pre-order, children in array order
func Walk(root *Folder, fn func(Node) error) error {
	for _, child := range root.Children {
		if err := fn(child); err != nil {
			return err
		}
		if f, ok := child.(*Folder); ok {
			if err := Walk(f, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Leaves returns every leaf below root in tree order
func Leaves(root *Folder) []*Leaf {
	var leaves []*Leaf
	Walk(root, func(n Node) error {
		if l, ok := n.(*Leaf); ok {
			leaves = append(leaves, l)
		}
		return nil
	})
	return leaves
}

// Folders returns every folder below root in tree order
func Folders(root *Folder) []*Folder {
	var folders []*Folder
	Walk(root, func(n Node) error {
		if f, ok := n.(*Folder); ok {
			folders = append(folders, f)
		}
		return nil
	})
	return folders
}
