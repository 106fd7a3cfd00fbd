package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// TempGitRepo is a throwaway git repository for tests
type TempGitRepo struct {
	Path string
	T    *testing.T
}

// NewTempGitRepo creates a git repository with one committed README.md
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "git-pages-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	repo := &TempGitRepo{Path: tmpDir, T: t}

	setup := [][]string{
		{"init"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
	}
	for _, args := range setup {
		if err := repo.git(args...); err != nil {
			os.RemoveAll(tmpDir)
			t.Fatalf("failed to run git %s: %v", strings.Join(args, " "), err)
		}
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("# Test Repository\n"), 0644); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := repo.git("add", "."); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to add files: %v", err)
	}
	if err := repo.git("commit", "-m", "Initial commit"); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create initial commit: %v", err)
	}

	return repo
}

func (r *TempGitRepo) git(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	return cmd.Run()
}

// Cleanup removes the temporary git repository
func (r *TempGitRepo) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp repo: %v", err)
	}
}

// CreateFile creates a file in the working tree, including parent folders
func (r *TempGitRepo) CreateFile(name, content string) {
	r.T.Helper()
	path := filepath.Join(r.Path, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// CreateFiles creates every file in files, keyed by slash path
func (r *TempGitRepo) CreateFiles(files map[string]string) {
	r.T.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.CreateFile(name, files[name])
	}
}

// Commit stages and commits all changes
func (r *TempGitRepo) Commit(message string) {
	r.T.Helper()
	if err := r.git("add", "."); err != nil {
		r.T.Fatalf("failed to stage files: %v", err)
	}
	if err := r.git("commit", "-m", message); err != nil {
		r.T.Fatalf("failed to commit: %v", err)
	}
}

// HeadCommit returns the hash of HEAD
func (r *TempGitRepo) HeadCommit() string {
	r.T.Helper()
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = r.Path
	output, err := cmd.Output()
	if err != nil {
		r.T.Fatalf("failed to read HEAD: %v", err)
	}
	return strings.TrimSpace(string(output))
}

// ReadFile returns a file from the working tree
func (r *TempGitRepo) ReadFile(name string) string {
	r.T.Helper()
	content, err := os.ReadFile(filepath.Join(r.Path, filepath.FromSlash(name)))
	if err != nil {
		r.T.Fatalf("failed to read %s: %v", name, err)
	}
	return string(content)
}
