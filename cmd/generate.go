package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/git-pages/internal/config"
	"github.com/pders01/git-pages/internal/git"
	"github.com/pders01/git-pages/internal/mirror"
	"github.com/pders01/git-pages/internal/output"
	"github.com/pders01/git-pages/internal/snapshot"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	generateRepo    string
	generateCommit  string
	generateOutput  string
	generateName    string
	generateFlat    bool
	generateWorkers int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the site for a local repository",
	Long: `Render every file tracked at a commit into a static site.

Each file gets <path>.html with highlighted source, and index.html shows
the directory tree. Every page is rewritten on every run.

Examples:
  git-pages generate                      # HEAD of the current repo into gen/
  git-pages generate --commit v1.2.0      # a tag or any other revision
  git-pages generate --repo ../other --output site
  git-pages generate --flat               # plain file list instead of a tree`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateRepo, "repo", ".", "Repository directory")
	generateCmd.Flags().StringVar(&generateCommit, "commit", "", "Revision to render (default: HEAD)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "", "Output directory (default: output.dir)")
	generateCmd.Flags().StringVar(&generateName, "name", "", "Repository name shown on the pages (default: directory name)")
	generateCmd.Flags().BoolVar(&generateFlat, "flat", false, "Render the index as a flat file list")
	generateCmd.Flags().IntVar(&generateWorkers, "workers", 0, "Parallel page jobs (default: generate.workers)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo(generateRepo) {
		return fmt.Errorf("not a git repository: %s", generateRepo)
	}

	name := generateName
	if name == "" {
		top, err := git.TopLevel(generateRepo)
		if err != nil {
			return err
		}
		name = filepath.Base(top)
	}

	outDir := generateOutput
	if outDir == "" {
		outDir = config.GetOutputDir()
	}

	printer := newPrinter()
	src := snapshot.NewGitSource(generateRepo, generateCommit, name)
	opts := siteOptions{Flat: generateFlat, Workers: generateWorkers}
	result, err := generateSite(commandContext(cmd), src, outDir, opts, printer)
	if err != nil {
		return err
	}

	printer.Success("Generated %d page(s) for %s\n", result.Pages, result.Name)
	printer.Printf("  Commit: %s\n", result.Commit)
	printer.Printf("  Output: %s\n", filepath.Join(outDir, "index.html"))
	if result.Excluded > 0 {
		printer.Printf("  Excluded: %d file(s)\n", result.Excluded)
	}
	return nil
}

// siteOptions carries the command-line overrides of the generate settings
type siteOptions struct {
	Flat    bool
	Workers int
}

// generateSite writes every page of src into outDir, overwriting pages of
// earlier runs
func generateSite(ctx context.Context, src snapshot.Source, outDir string, opts siteOptions, printer *output.Printer) (*mirror.Result, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	gen := &mirror.Generator{
		Fs:          afero.NewBasePathFs(afero.NewOsFs(), outDir),
		Style:       config.GetHighlightStyle(),
		LineNumbers: config.GetLineNumbers(),
		Workers:     config.GetWorkers(),
		Flat:        config.GetFlat() || opts.Flat,
		Printer:     printer,
	}
	if opts.Workers > 0 {
		gen.Workers = opts.Workers
	}
	return gen.Generate(ctx, src)
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
