package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/git-pages/internal/git"
	"github.com/pders01/git-pages/internal/mirror"
	"github.com/pders01/git-pages/internal/snapshot"
	"github.com/pders01/git-pages/internal/tree"
	"github.com/spf13/cobra"
)

var (
	treeRepo   string
	treeCommit string
	treeZip    string
	treeJSON   bool
	treeTOON   bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the directory tree of a snapshot",
	Long: `Build the directory tree the index page is rendered from and print it.

Examples:
  git-pages tree
  git-pages tree --commit main~3
  git-pages tree --zip repo.zip --json
  git-pages tree --toon`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringVar(&treeRepo, "repo", ".", "Repository directory")
	treeCmd.Flags().StringVar(&treeCommit, "commit", "", "Revision to read (default: HEAD)")
	treeCmd.Flags().StringVar(&treeZip, "zip", "", "Read a repo.zip archive instead of a repository")
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Output as JSON")
	treeCmd.Flags().BoolVar(&treeTOON, "toon", false, "Output in LLM-friendly toon format")
}

// treeNode is the serialized form of a tree node
type treeNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Type     string     `json:"type"`
	Depth    int        `json:"depth"`
	Category string     `json:"category,omitempty"`
	Children []treeNode `json:"children,omitempty"`
}

func runTree(cmd *cobra.Command, args []string) error {
	if treeJSON && treeTOON {
		return fmt.Errorf("--json and --toon are mutually exclusive")
	}

	var src snapshot.Source
	if treeZip != "" {
		name := strings.TrimSuffix(filepath.Base(treeZip), filepath.Ext(treeZip))
		zipSrc, err := snapshot.OpenZip(name, treeZip)
		if err != nil {
			return err
		}
		defer zipSrc.Close()
		src = zipSrc
	} else {
		if !git.IsGitRepo(treeRepo) {
			return fmt.Errorf("not a git repository: %s", treeRepo)
		}
		src = snapshot.NewGitSource(treeRepo, treeCommit, "")
	}

	root, err := mirror.BuildTree(commandContext(cmd), src)
	if err != nil {
		return err
	}

	switch {
	case treeJSON:
		data, err := json.MarshalIndent(toTreeNodes(root.Children), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tree: %w", err)
		}
		fmt.Println(string(data))
	case treeTOON:
		encoded, err := gotoon.Encode(toTreeNodes(root.Children))
		if err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		fmt.Println(encoded)
	default:
		return tree.WriteText(os.Stdout, root)
	}
	return nil
}

func toTreeNodes(children []tree.Node) []treeNode {
	nodes := make([]treeNode, 0, len(children))
	for _, child := range children {
		switch n := child.(type) {
		case *tree.Folder:
			nodes = append(nodes, treeNode{
				Name:     n.Name,
				Path:     n.Path,
				Type:     "folder",
				Depth:    n.Depth,
				Children: toTreeNodes(n.Children),
			})
		case *tree.Leaf:
			nodes = append(nodes, treeNode{
				Name:     n.Name,
				Path:     n.FullPath,
				Type:     "file",
				Depth:    n.Depth,
				Category: n.Category.String(),
			})
		}
	}
	return nodes
}
