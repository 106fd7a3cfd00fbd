package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pders01/git-pages/internal/config"
	"github.com/pders01/git-pages/internal/output"
	"github.com/pders01/git-pages/internal/snapshot"
	"github.com/pders01/git-pages/internal/storage"
	"github.com/spf13/cobra"
)

var (
	generateAllOutput  string
	generateAllFlat    bool
	generateAllWorkers int
)

// newStore opens the archive store; tests replace it
var newStore = func(ctx context.Context) (storage.Store, error) {
	return storage.NewS3Store(ctx, config.GetBucket())
}

var generateAllCmd = &cobra.Command{
	Use:   "generate-all",
	Short: "Generate sites for every repository in the bucket",
	Long: `Download <repo>/repo.zip for every repository in the bucket and
render it into <output>/<repo>.

A repository that fails is reported and the remaining ones are still
generated. The command fails if any repository failed.`,
	Args: cobra.NoArgs,
	RunE: runGenerateAll,
}

func init() {
	rootCmd.AddCommand(generateAllCmd)

	generateAllCmd.Flags().StringVar(&generateAllOutput, "output", "", "Parent output directory (default: output.all_dir)")
	generateAllCmd.Flags().BoolVar(&generateAllFlat, "flat", false, "Render each index as a flat file list")
	generateAllCmd.Flags().IntVar(&generateAllWorkers, "workers", 0, "Parallel page jobs (default: generate.workers)")
}

func runGenerateAll(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	printer := newPrinter()

	store, err := newStore(ctx)
	if err != nil {
		return err
	}

	repos, err := store.ListRepos(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}
	if len(repos) == 0 {
		printer.Printf("No repositories found\n")
		return nil
	}

	outDir := generateAllOutput
	if outDir == "" {
		outDir = config.GetAllOutputDir()
	}

	printer.Printf("Generating %d repositories into %s\n\n", len(repos), outDir)

	opts := siteOptions{Flat: generateAllFlat, Workers: generateAllWorkers}
	var failed []string
	for i, repo := range repos {
		printer.Printf("[%d/%d] %s\n", i+1, len(repos), repo)
		if !validRepoName(repo) {
			printer.Warn("skipping %q: not a valid directory name\n", repo)
			failed = append(failed, repo)
			continue
		}
		pages, err := generateArchived(ctx, store, repo, filepath.Join(outDir, repo), opts, printer)
		if err != nil {
			printer.Error("failed to generate %s: %v\n", repo, err)
			failed = append(failed, repo)
			continue
		}
		printer.Success("%s: %d page(s)\n", repo, pages)
	}

	printer.Printf("\n")
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d repositories failed: %v", len(failed), len(repos), failed)
	}
	printer.Success("Generated %d repositories\n", len(repos))
	return nil
}

// generateArchived downloads the archive of repo and renders it into dir.
// The downloaded archive is always removed.
func generateArchived(ctx context.Context, store storage.Store, repo, dir string, opts siteOptions, printer *output.Printer) (int, error) {
	zipPath, err := downloadArchive(ctx, store, repo)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := os.Remove(zipPath); err != nil {
			printer.Warn("failed to remove %s: %v\n", zipPath, err)
		}
	}()

	src, err := snapshot.OpenZip(repo, zipPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	result, err := generateSite(ctx, src, dir, opts, printer)
	if err != nil {
		return 0, err
	}
	return result.Pages, nil
}

// validRepoName reports whether a bucket prefix names a single directory
// below the output directory
func validRepoName(repo string) bool {
	return repo != "." && !strings.ContainsAny(repo, `/\`) && filepath.IsLocal(repo)
}

// downloadArchive copies <repo>/repo.zip into a temporary file and returns
// its path
func downloadArchive(ctx context.Context, store storage.Store, repo string) (string, error) {
	tmp, err := os.CreateTemp("", "git-pages-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := store.Download(ctx, storage.ArchiveKey(repo), tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download %s: %w", storage.ArchiveKey(repo), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}
