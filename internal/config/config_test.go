package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestParseSite(t *testing.T) {
	site, err := ParseSite([]byte(`
title = "My Project"
exclude = ["vendor", "*.min.js", "docs/drafts"]
`))
	if err != nil {
		t.Fatalf("ParseSite failed: %v", err)
	}
	if site.Title != "My Project" {
		t.Errorf("unexpected title %q", site.Title)
	}
	if len(site.Exclude) != 3 {
		t.Fatalf("expected 3 patterns, got %v", site.Exclude)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"vendor/lib/a.go", true},
		{"vendor", true},
		{"app.min.js", true},
		{"web/app.min.js", false},
		{"docs/drafts/wip.md", true},
		{"docs/final.md", false},
		{"src/vendor.go", false},
	}
	for _, tt := range tests {
		if got := site.Excluded(tt.path); got != tt.want {
			t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseSiteErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", `title = `},
		{"bad pattern", `exclude = ["[a-"]`},
		{"unknown key", `titel = "typo"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSite([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEmptySiteExcludesNothing(t *testing.T) {
	if (Site{}).Excluded("anything/at/all") {
		t.Error("empty site must not exclude paths")
	}
}

func TestDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults(viper.GetViper())

	if GetOutputDir() != "gen" {
		t.Errorf("unexpected output dir %q", GetOutputDir())
	}
	if GetAllOutputDir() != "generated_html" {
		t.Errorf("unexpected all output dir %q", GetAllOutputDir())
	}
	if GetWorkers() < 1 {
		t.Errorf("expected at least one worker, got %d", GetWorkers())
	}
	if GetFlat() {
		t.Error("expected tree index by default")
	}
	if GetHighlightStyle() != "github" || !GetLineNumbers() {
		t.Errorf("unexpected highlight defaults %q %v", GetHighlightStyle(), GetLineNumbers())
	}

	viper.Set("generate.workers", 0)
	if GetWorkers() != 1 {
		t.Errorf("expected workers to fall back to 1, got %d", GetWorkers())
	}
}

func TestBucketFromEnvironment(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	t.Setenv("GIT_BUCKET_NAME", "mirror-bucket")
	SetDefaults(viper.GetViper())

	if got := GetBucket().Bucket; got != "mirror-bucket" {
		t.Errorf("expected bucket from environment, got %q", got)
	}
}
