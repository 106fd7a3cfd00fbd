package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TreeEntry is one line of `git ls-tree -r`
type TreeEntry struct {
	Mode string
	Type string
	Hash string
	Path string
}

// IsBlob reports whether the entry is a file
func (e TreeEntry) IsBlob() bool {
	return e.Type == "blob"
}

func command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	return cmd
}

// IsGitRepo checks if dir is inside a git repository
func IsGitRepo(dir string) bool {
	cmd := command(context.Background(), dir, "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// TopLevel returns the root directory of the working tree containing dir
func TopLevel(dir string) (string, error) {
	cmd := command(context.Background(), dir, "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get repository root: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ResolveCommit resolves a revision to a full commit hash
func ResolveCommit(ctx context.Context, dir, rev string) (string, error) {
	cmd := command(ctx, dir, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve commit %s: %w", rev, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ListTree returns every entry reachable from the commit's tree
func ListTree(ctx context.Context, dir, commit string) ([]TreeEntry, error) {
	cmd := command(ctx, dir, "ls-tree", "-r", "-z", "--full-tree", commit)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list tree of %s: %w", commit, err)
	}
	return parseTree(output)
}

// ReadBlob returns the content of a blob object
func ReadBlob(ctx context.Context, dir, hash string) ([]byte, error) {
	cmd := command(ctx, dir, "cat-file", "blob", hash)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %s: %w", hash, strings.TrimSpace(stderr.String()), err)
	}
	return output, nil
}

// parseTree parses NUL-terminated `ls-tree -z` output. Each record is
// "<mode> SP <type> SP <hash> TAB <path>".
func parseTree(output []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	for _, record := range bytes.Split(output, []byte{0}) {
		if len(record) == 0 {
			continue
		}
		meta, path, ok := bytes.Cut(record, []byte{'\t'})
		if !ok {
			return nil, fmt.Errorf("malformed ls-tree record: %q", record)
		}
		fields := strings.Fields(string(meta))
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed ls-tree record: %q", record)
		}
		entries = append(entries, TreeEntry{
			Mode: fields[0],
			Type: fields[1],
			Hash: fields[2],
			Path: string(path),
		})
	}
	return entries, nil
}
