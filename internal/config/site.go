package config

import (
	"fmt"
	"path"

	"github.com/BurntSushi/toml"
)

// SiteFile is the per-repository settings file, read from the snapshot root
const SiteFile = ".pages.toml"

// Site holds per-repository generation settings
type Site struct {
	// Title replaces the repository name in the index header
	Title string `toml:"title"`
	// Exclude lists path.Match patterns; a file is skipped when the pattern
	// matches its full path or any of its parent folders.
	Exclude []string `toml:"exclude"`
}

// ParseSite decodes site settings from TOML text
func ParseSite(data []byte) (Site, error) {
	var site Site
	md, err := toml.Decode(string(data), &site)
	if err != nil {
		return Site{}, fmt.Errorf("failed to parse %s: %w", SiteFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Site{}, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), SiteFile)
	}
	for _, pattern := range site.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return Site{}, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return site, nil
}

// Excluded reports whether p or one of its parent folders matches an
// exclude pattern
func (s Site) Excluded(p string) bool {
	for cur := p; cur != "." && cur != "/" && cur != ""; cur = path.Dir(cur) {
		for _, pattern := range s.Exclude {
			if ok, _ := path.Match(pattern, cur); ok {
				return true
			}
		}
	}
	return false
}
