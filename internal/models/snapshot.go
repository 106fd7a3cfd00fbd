package models

import "time"

// Snapshot describes one generated site
// Written next to index.html as meta.json
type Snapshot struct {
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Commit      string    `json:"commit,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Files       int       `json:"files"`
	Flat        bool      `json:"flat,omitempty"`
}

// MetadataFile is the name of the snapshot metadata document in a site
const MetadataFile = "meta.json"

// IndexFile is the name of the index document in a site
const IndexFile = "index.html"

// PagePath returns the site-relative path of the page generated for p
func PagePath(p string) string {
	return p + ".html"
}
