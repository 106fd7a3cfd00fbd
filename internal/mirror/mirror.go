// Package mirror turns a snapshot into a static site: one page per file
// and an index page holding the directory tree.
package mirror

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pders01/git-pages/internal/config"
	"github.com/pders01/git-pages/internal/models"
	"github.com/pders01/git-pages/internal/output"
	"github.com/pders01/git-pages/internal/page"
	"github.com/pders01/git-pages/internal/snapshot"
	"github.com/pders01/git-pages/internal/tree"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Pipeline step names reported in StepError
const (
	StepEnumerate = "enumerate"
	StepEmitPages = "emit pages"
	StepBuildTree = "build tree"
	StepWriteIdx  = "write index"
)

// StepError reports which pipeline step failed
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(step string, err error) error {
	return &StepError{Step: step, Err: err}
}

// Generator writes sites into Fs
type Generator struct {
	Fs          afero.Fs
	Style       string
	LineNumbers bool
	// Workers bounds parallel page jobs; zero means one per CPU
	Workers int
	Flat    bool
	Printer *output.Printer
	// Now stamps the metadata; nil means time.Now
	Now func() time.Time
}

// Result summarizes one generated site
type Result struct {
	Name     string
	Title    string
	Commit   string
	Pages    int
	Excluded int
	Reserved []string
	Root     *tree.Folder
}

// Snapshot is the filtered content of a source with its site settings
type Snapshot struct {
	Name     string
	Commit   string
	Site     config.Site
	Blobs    []snapshot.Blob
	Excluded int
	// Reserved lists files whose page would replace a site document
	Reserved []string
}

// Records returns the ordinal-sorted path records of the snapshot
func (s *Snapshot) Records() []models.PathRecord {
	records := make([]models.PathRecord, len(s.Blobs))
	for i, b := range s.Blobs {
		records[i] = models.NewPathRecord(b.Path)
	}
	slices.SortFunc(records, func(a, b models.PathRecord) int {
		return strings.Compare(a.Path, b.Path)
	})
	return records
}

// Load enumerates src and applies the site settings found in it. The
// settings file itself is not part of the result.
func Load(ctx context.Context, src snapshot.Source) (*Snapshot, error) {
	blobs, err := src.Blobs(ctx)
	if err != nil {
		return nil, stepErr(StepEnumerate, err)
	}

	snap := &Snapshot{Name: src.Name()}
	if c, ok := src.(snapshot.Committer); ok {
		snap.Commit = c.Commit()
	}

	for _, b := range blobs {
		if b.Path != config.SiteFile {
			continue
		}
		data, err := b.Read()
		if err != nil {
			return nil, stepErr(StepEnumerate, fmt.Errorf("failed to read %s: %w", config.SiteFile, err))
		}
		site, err := config.ParseSite(data)
		if err != nil {
			return nil, stepErr(StepEnumerate, err)
		}
		snap.Site = site
	}

	for _, b := range blobs {
		if b.Path == config.SiteFile {
			continue
		}
		if snap.Site.Excluded(b.Path) {
			snap.Excluded++
			continue
		}
		if isReserved(b.Path) {
			snap.Reserved = append(snap.Reserved, b.Path)
			continue
		}
		snap.Blobs = append(snap.Blobs, b)
	}
	return snap, nil
}

// BuildTree loads src and folds its paths into a tree without writing
// anything
func BuildTree(ctx context.Context, src snapshot.Source) (*tree.Folder, error) {
	snap, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	root, err := tree.Build(snap.Records())
	if err != nil {
		return nil, stepErr(StepBuildTree, err)
	}
	return root, nil
}

// Generate writes the complete site for src. Every run rewrites all pages.
func (g *Generator) Generate(ctx context.Context, src snapshot.Source) (*Result, error) {
	printer := g.Printer
	if printer == nil {
		printer = output.Discard()
	}

	snap, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	printer.Printf("Generating %s (%d files)\n", snap.Name, len(snap.Blobs))
	for _, p := range snap.Reserved {
		printer.Warn("skipping %s: its page would replace %s\n", p, models.PagePath(p))
	}

	emitter, err := page.NewEmitter(g.Fs, page.Options{
		RepoName:    snap.Name,
		Style:       g.Style,
		LineNumbers: g.LineNumbers,
	})
	if err != nil {
		return nil, stepErr(StepEmitPages, err)
	}

	pages, err := g.emitPages(ctx, emitter, snap.Blobs, printer)
	if err != nil {
		return nil, stepErr(StepEmitPages, err)
	}

	root, err := tree.Build(snap.Records())
	if err != nil {
		return nil, stepErr(StepBuildTree, err)
	}

	title := snap.Name
	if snap.Site.Title != "" {
		title = snap.Site.Title
	}

	fragment := tree.Render(root)
	if g.Flat {
		fragment = tree.RenderFlat(root)
	}

	readme, err := readReadme(snap.Blobs)
	if err != nil {
		return nil, stepErr(StepWriteIdx, err)
	}

	if err := emitter.WriteIndex(page.IndexData{
		Title:  title,
		Commit: snap.Commit,
		Tree:   fragment,
		Flat:   g.Flat,
		Readme: readme,
	}); err != nil {
		return nil, stepErr(StepWriteIdx, err)
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	meta := models.Snapshot{
		Name:        snap.Name,
		Source:      sourceKind(src),
		Commit:      snap.Commit,
		GeneratedAt: now().UTC(),
		Files:       pages,
		Flat:        g.Flat,
	}
	if err := emitter.WriteMetadata(meta); err != nil {
		return nil, stepErr(StepWriteIdx, err)
	}

	return &Result{
		Name:     snap.Name,
		Title:    title,
		Commit:   snap.Commit,
		Pages:    pages,
		Excluded: snap.Excluded,
		Reserved: snap.Reserved,
		Root:     root,
	}, nil
}

func (g *Generator) emitPages(ctx context.Context, emitter *page.Emitter, blobs []snapshot.Blob, printer *output.Printer) (int, error) {
	workers := g.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var written atomic.Int64
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError().WithMaxGoroutines(workers)
	for _, b := range blobs {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := b.Read()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", b.Path, err)
			}
			if err := emitter.WriteFile(b.Path, content); err != nil {
				return err
			}
			written.Add(1)
			printer.Detail("  %s\n", models.PagePath(b.Path))
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return int(written.Load()), err
	}
	return int(written.Load()), nil
}

// isReserved reports whether the page of p collides with the index or the
// metadata document
func isReserved(p string) bool {
	name := models.PagePath(p)
	return name == models.IndexFile || name == models.MetadataFile
}

// readReadme returns the content of the top-level README.md, matched
// case-insensitively
func readReadme(blobs []snapshot.Blob) ([]byte, error) {
	for _, b := range blobs {
		if strings.Contains(b.Path, "/") || !strings.EqualFold(b.Path, "README.md") {
			continue
		}
		data, err := b.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", b.Path, err)
		}
		return data, nil
	}
	return nil, nil
}

func sourceKind(src snapshot.Source) string {
	switch src.(type) {
	case *snapshot.GitSource:
		return "git"
	case *snapshot.ZipSource:
		return "zip"
	default:
		return "static"
	}
}
