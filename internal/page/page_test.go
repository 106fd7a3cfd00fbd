package page

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pders01/git-pages/internal/models"
	"github.com/pders01/git-pages/internal/tree"
	"github.com/spf13/afero"
)

func newTestEmitter(t *testing.T) (*Emitter, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	e, err := NewEmitter(fs, Options{RepoName: "demo", Style: "github", LineNumbers: true})
	if err != nil {
		t.Fatalf("NewEmitter failed: %v", err)
	}
	return e, fs
}

func readFile(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

func TestWriteFileEscapesContent(t *testing.T) {
	e, fs := newTestEmitter(t)

	if err := e.WriteFile("src/notes.txt", []byte("<script>alert(1)</script> & more\n")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	page := readFile(t, fs, "src/notes.txt.html")
	if strings.Contains(page, "<script>alert(1)") {
		t.Error("file content was not escaped")
	}
	wants := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"<title>src/notes.txt</title>",
		`href="../index.html"`,
		">demo</a>",
		"language-txt",
	}
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestWriteFileHighlightsCode(t *testing.T) {
	e, fs := newTestEmitter(t)

	if err := e.WriteFile("app.js", []byte("const answer = 42;\n")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	page := readFile(t, fs, "app.js.html")
	if !strings.Contains(page, `class="chroma"`) {
		t.Error("expected chroma markup")
	}
	if !strings.Contains(page, "answer") || !strings.Contains(page, "42") {
		t.Error("expected code content in page")
	}
	if !strings.Contains(page, `href="index.html"`) {
		t.Error("expected top-level page to link to index.html")
	}
	if !strings.Contains(page, ".chroma") {
		t.Error("expected stylesheet for the highlight classes")
	}
}

func TestWriteFileBinary(t *testing.T) {
	e, fs := newTestEmitter(t)

	if err := e.WriteFile("img/logo.png", []byte("\x89PNG\r\n\x1a\n\x00\x00")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	page := readFile(t, fs, "img/logo.png.html")
	if !strings.Contains(page, "Binary file (10 bytes) not shown.") {
		t.Errorf("expected binary placeholder, got:\n%s", page)
	}
}

func TestLexerFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "Go"},
		{"web/app.JS", "JavaScript"},
		{"LICENSE", "plaintext"},
		{"data/blob.unknownext", "plaintext"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := lexerFor(tt.path).Config().Name; got != tt.want {
				t.Errorf("lexerFor(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestWriteIndex(t *testing.T) {
	e, fs := newTestEmitter(t)

	root, err := tree.Build([]models.PathRecord{
		models.NewPathRecord("README.md"),
		models.NewPathRecord("src/app.js"),
	})
	if err != nil {
		t.Fatal(err)
	}
	fragment := tree.Render(root)

	err = e.WriteIndex(IndexData{
		Title:  "demo",
		Commit: "0123456789abcdef",
		Tree:   fragment,
		Readme: []byte("# Hello\n\nSome *text*.\n\n<script>alert(2)</script>\n"),
	})
	if err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	index := readFile(t, fs, "index.html")
	wants := []string{
		"<title>demo</title>",
		fragment,
		"document.getElementById(folder.dataset.target)",
		"lucide.createIcons();",
		"0123456789abcdef",
		"Hello</h1>",
		"<em>text</em>",
	}
	for _, want := range wants {
		if !strings.Contains(index, want) {
			t.Errorf("expected index to contain %q", want)
		}
	}
	if strings.Contains(index, "alert(2)") {
		t.Error("README script was not sanitized")
	}
}

func TestWriteIndexFlat(t *testing.T) {
	e, fs := newTestEmitter(t)

	root, err := tree.Build([]models.PathRecord{models.NewPathRecord("a/b.md")})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.WriteIndex(IndexData{Title: "flat", Tree: tree.RenderFlat(root), Flat: true}); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	index := readFile(t, fs, "index.html")
	if strings.Contains(index, "folder.dataset.target") {
		t.Error("flat index does not need the folder toggle script")
	}
	if !strings.Contains(index, `href="a/b.md.html"`) {
		t.Error("expected flat entry in index")
	}
	if strings.Contains(index, "<article") {
		t.Error("expected no README section")
	}
}

func TestWriteIndexEscapesTitle(t *testing.T) {
	e, fs := newTestEmitter(t)
	if err := e.WriteIndex(IndexData{Title: "<b>repo</b>", Tree: `<ul class="space-y-1"></ul>`}); err != nil {
		t.Fatal(err)
	}
	index := readFile(t, fs, "index.html")
	if strings.Contains(index, "<b>repo</b>") {
		t.Error("title was not escaped")
	}
}

func TestWriteMetadata(t *testing.T) {
	e, fs := newTestEmitter(t)

	snap := models.Snapshot{
		Name:        "demo",
		Source:      "git",
		Commit:      "abc123",
		GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Files:       3,
	}
	if err := e.WriteMetadata(snap); err != nil {
		t.Fatalf("WriteMetadata failed: %v", err)
	}

	var got models.Snapshot
	if err := json.Unmarshal([]byte(readFile(t, fs, "meta.json")), &got); err != nil {
		t.Fatalf("invalid metadata: %v", err)
	}
	if got.Name != snap.Name || got.Commit != snap.Commit || got.Files != snap.Files {
		t.Errorf("metadata mismatch: got %+v, want %+v", got, snap)
	}
	if !got.GeneratedAt.Equal(snap.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, snap.GeneratedAt)
	}
}

func TestUnknownStyleFallsBack(t *testing.T) {
	if _, err := NewEmitter(afero.NewMemMapFs(), Options{Style: "no-such-style"}); err != nil {
		t.Errorf("unknown style should fall back, got %v", err)
	}
}

func TestIndexHref(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.js", "index.html"},
		{"src/a.js", "../index.html"},
		{"a/b/c/d.md", "../../../index.html"},
	}
	for _, tt := range tests {
		if got := indexHref(tt.path); got != tt.want {
			t.Errorf("indexHref(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
