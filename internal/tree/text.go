package tree

import (
	"fmt"
	"io"
	"strings"
)

// WriteText prints the tree as an indented listing, folders suffixed with a
// slash.
func WriteText(w io.Writer, root *Folder) error {
	return Walk(root, func(n Node) error {
		indent := strings.Repeat("  ", n.NodeDepth())
		var err error
		switch v := n.(type) {
		case *Folder:
			_, err = fmt.Fprintf(w, "%s%s/\n", indent, v.Name)
		case *Leaf:
			_, err = fmt.Fprintf(w, "%s%s\n", indent, v.Name)
		}
		return err
	})
}
