package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func zipNames(t *testing.T, path string) map[string]bool {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer r.Close()

	names := make(map[string]bool)
	for _, f := range r.File {
		names[f.Name] = true
	}
	return names
}

func TestZipDirAndExtract(t *testing.T) {
	src := t.TempDir()
	files := map[string]string{
		"README.md":       "# Project\n",
		"src/app.js":      "console.log(1)\n",
		"src/lib/util.js": "export {}\n",
		".git/HEAD":       "ref: refs/heads/main\n",
		"docs/guide/a.md": "guide\n",
	}
	writeFiles(t, src, files)

	dest := filepath.Join(src, "repo.zip")
	if err := ZipDir(src, dest); err != nil {
		t.Fatalf("ZipDir failed: %v", err)
	}

	names := zipNames(t, dest)
	if names["repo.zip"] {
		t.Error("archive must not contain itself")
	}
	for name := range files {
		if !names[name] {
			t.Errorf("expected %s in archive", name)
		}
	}
	if !names["src/"] || !names["src/lib/"] {
		t.Errorf("expected directory entries, got %v", names)
	}

	out := t.TempDir()
	writeFiles(t, out, map[string]string{"README.md": "stale\n"})

	if err := Extract(dest, out); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(name)))
		if err != nil {
			t.Errorf("missing %s after extract: %v", name, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
}

func TestZipDirExclude(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"keep.txt":         "keep\n",
		"gen/index.html":   "<html></html>\n",
		"gen/a/b.txt.html": "x\n",
		"notes/skip.txt":   "skip\n",
		"notes/keep.txt":   "keep\n",
	})

	dest := filepath.Join(t.TempDir(), "out.zip")
	if err := ZipDir(src, dest, "gen", "notes/skip.txt"); err != nil {
		t.Fatalf("ZipDir failed: %v", err)
	}

	names := zipNames(t, dest)
	for _, excluded := range []string{"gen/", "gen/index.html", "gen/a/b.txt.html", "notes/skip.txt"} {
		if names[excluded] {
			t.Errorf("expected %s to be excluded", excluded)
		}
	}
	for _, kept := range []string{"keep.txt", "notes/keep.txt"} {
		if !names[kept] {
			t.Errorf("expected %s in archive", kept)
		}
	}
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"parent traversal", "../evil.txt"},
		{"nested traversal", "a/../../evil.txt"},
		{"absolute", "/tmp/evil.txt"},
		{"backslash", `a\..\..\evil.txt`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zipPath := filepath.Join(t.TempDir(), "evil.zip")
			f, err := os.Create(zipPath)
			if err != nil {
				t.Fatal(err)
			}
			zw := zip.NewWriter(f)
			w, err := zw.Create(tt.entry)
			if err != nil {
				t.Fatal(err)
			}
			w.Write([]byte("owned\n"))
			zw.Close()
			f.Close()

			out := t.TempDir()
			err = Extract(zipPath, out)
			if err == nil {
				t.Fatal("expected error for escaping entry")
			}
			if !errors.Is(err, ErrUnsafeEntry) && !errors.Is(err, zip.ErrInsecurePath) {
				t.Errorf("unexpected error: %v", err)
			}
			if _, statErr := os.Stat(filepath.Join(filepath.Dir(out), "evil.txt")); statErr == nil {
				t.Error("entry was written outside the target directory")
			}
		})
	}
}

func TestExtractMissingArchive(t *testing.T) {
	if err := Extract(filepath.Join(t.TempDir(), "nope.zip"), t.TempDir()); err == nil {
		t.Error("expected error for missing archive")
	}
}
