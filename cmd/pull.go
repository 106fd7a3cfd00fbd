package cmd

import (
	"fmt"
	"os"

	"github.com/pders01/git-pages/internal/archive"
	"github.com/pders01/git-pages/internal/storage"
	"github.com/spf13/cobra"
)

var (
	pullDir  string
	pullName string
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download repo.zip from the bucket and extract it",
	Long: `Download <name>/repo.zip from the configured bucket and extract it
into the directory, overwriting existing files. The name defaults to the
directory name.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().StringVar(&pullDir, "dir", ".", "Directory to extract into")
	pullCmd.Flags().StringVar(&pullName, "name", "", "Repository name in the bucket (default: directory name)")
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	printer := newPrinter()

	name, err := repoName(pullDir, pullName)
	if err != nil {
		return err
	}

	store, err := newStore(ctx)
	if err != nil {
		return err
	}

	key := storage.ArchiveKey(name)
	printer.Printf("Downloading %s\n", key)
	zipPath, err := downloadArchive(ctx, store, name)
	if err != nil {
		return err
	}
	defer os.Remove(zipPath)

	if err := os.MkdirAll(pullDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", pullDir, err)
	}
	if err := archive.Extract(zipPath, pullDir); err != nil {
		return err
	}

	printer.Success("Pulled %s into %s\n", key, pullDir)
	return nil
}
