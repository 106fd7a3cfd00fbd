package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/git-pages/internal/archive"
	"github.com/pders01/git-pages/internal/config"
	"github.com/pders01/git-pages/internal/storage"
	"github.com/spf13/cobra"
)

var (
	pushDir     string
	pushName    string
	pushExclude []string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload a repository to the bucket as repo.zip",
	Long: `Zip the repository directory, including .git, and upload it to
<name>/repo.zip in the configured bucket. The name defaults to the
directory name.

Examples:
  git-pages push
  git-pages push --dir ~/src/project --name project
  git-pages push --exclude node_modules --exclude gen`,
	Args: cobra.NoArgs,
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().StringVar(&pushDir, "dir", ".", "Directory to upload")
	pushCmd.Flags().StringVar(&pushName, "name", "", "Repository name in the bucket (default: directory name)")
	pushCmd.Flags().StringSliceVar(&pushExclude, "exclude", []string{}, "Relative paths to leave out of the archive")
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	printer := newPrinter()

	name, err := repoName(pushDir, pushName)
	if err != nil {
		return err
	}

	store, err := newStore(ctx)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "git-pages-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	zipPath := tmp.Name()
	tmp.Close()
	defer os.Remove(zipPath)

	printer.Printf("Archiving %s\n", pushDir)
	exclude := append([]string{config.GetOutputDir()}, pushExclude...)
	if err := archive.ZipDir(pushDir, zipPath, exclude...); err != nil {
		return err
	}

	f, err := os.Open(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	key := storage.ArchiveKey(name)
	printer.Printf("Uploading %s\n", key)
	if err := store.Upload(ctx, key, f); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	printer.Success("Pushed %s\n", key)
	return nil
}

// repoName returns name, or the base name of dir when name is empty
func repoName(dir, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return filepath.Base(abs), nil
}
