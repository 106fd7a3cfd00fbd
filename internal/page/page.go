// Package page writes the documents of a generated site: one highlighted
// page per file, the index page and the snapshot metadata.
package page

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pders01/git-pages/internal/models"
	"github.com/pders01/git-pages/internal/tree"
	"github.com/spf13/afero"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Options configures an Emitter
type Options struct {
	// RepoName labels the link back to the index on every file page
	RepoName    string
	Style       string
	LineNumbers bool
}

// Emitter writes site documents into a filesystem rooted at the site
// directory. WriteFile may be called concurrently.
type Emitter struct {
	fs        afero.Fs
	name      string
	style     *chroma.Style
	formatter *chromahtml.Formatter
	css       template.CSS
}

// NewEmitter prepares the highlighter for opts.Style. Unknown styles fall
// back to chroma's default.
func NewEmitter(fs afero.Fs, opts Options) (*Emitter, error) {
	style := styles.Get(opts.Style)
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(opts.LineNumbers),
	)

	var css bytes.Buffer
	if err := formatter.WriteCSS(&css, style); err != nil {
		return nil, fmt.Errorf("failed to generate stylesheet: %w", err)
	}

	return &Emitter{
		fs:        fs,
		name:      opts.RepoName,
		style:     style,
		formatter: formatter,
		css:       template.CSS(css.String()),
	}, nil
}

type filePage struct {
	Path      string
	RepoName  string
	IndexHref string
	Language  string
	CSS       template.CSS
	Code      template.HTML
	Binary    bool
	Size      int
}

// WriteFile writes the page for one file to <p>.html
func (e *Emitter) WriteFile(p string, content []byte) error {
	rec := models.NewPathRecord(p)
	data := filePage{
		Path:      p,
		RepoName:  e.name,
		IndexHref: indexHref(p),
		Language:  rec.Language(),
		CSS:       e.css,
		Size:      len(content),
	}

	if isBinary(content) {
		data.Binary = true
	} else {
		code, err := e.Highlight(p, content)
		if err != nil {
			return fmt.Errorf("failed to highlight %s: %w", p, err)
		}
		data.Code = code
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "file.html", data); err != nil {
		return fmt.Errorf("failed to render page for %s: %w", p, err)
	}
	return e.write(models.PagePath(p), buf.Bytes())
}

// Highlight renders content as escaped, highlighted HTML. The lexer is
// picked by extension, then by file name, then plain text.
func (e *Emitter) Highlight(p string, content []byte) (template.HTML, error) {
	lexer := lexerFor(p)

	iterator, err := lexer.Tokenise(nil, string(content))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.formatter.Format(&buf, e.style, iterator); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func lexerFor(p string) chroma.Lexer {
	var lexer chroma.Lexer
	if ext := models.NewPathRecord(p).Language(); ext != "" {
		lexer = lexers.Get(ext)
	}
	if lexer == nil {
		lexer = lexers.Match(path.Base(p))
	}
	if lexer == nil {
		lexer = lexers.Get("plaintext")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// IndexData is the content of the index page
type IndexData struct {
	Title  string
	Commit string
	// Tree is the fragment produced by tree.Render or tree.RenderFlat
	Tree   string
	Flat   bool
	Readme []byte
}

type indexPage struct {
	Title  string
	Commit string
	Tree   template.HTML
	Flat   bool
	Readme template.HTML
	Script template.JS
}

// WriteIndex writes index.html
func (e *Emitter) WriteIndex(data IndexData) error {
	page := indexPage{
		Title:  data.Title,
		Commit: data.Commit,
		Tree:   template.HTML(data.Tree),
		Flat:   data.Flat,
		Script: template.JS(tree.ToggleScript),
	}
	if len(data.Readme) > 0 {
		page.Readme = RenderMarkdown(data.Readme)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	return e.write(models.IndexFile, buf.Bytes())
}

// WriteMetadata writes meta.json next to the index
func (e *Emitter) WriteMetadata(snapshot models.Snapshot) error {
	metaBytes, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return e.write(models.MetadataFile, metaBytes)
}

// RenderMarkdown converts markdown to sanitized HTML
func RenderMarkdown(md []byte) template.HTML {
	unsafe := markdown.ToHTML(md, nil, nil)
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(unsafe))
}

func (e *Emitter) write(name string, data []byte) error {
	name = filepath.FromSlash(name)
	if dir := filepath.Dir(name); dir != "." {
		if err := e.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(e.fs, name, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// indexHref returns the relative link from the page of p to index.html
func indexHref(p string) string {
	return strings.Repeat("../", strings.Count(p, "/")) + models.IndexFile
}

func isBinary(content []byte) bool {
	return bytes.IndexByte(content, 0) >= 0 || !utf8.Valid(content)
}
