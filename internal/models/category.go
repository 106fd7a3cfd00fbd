package models

import (
	"path"
	"strings"
)

// Category is the display kind of a file, used to pick its tree icon
type Category int

const (
	CategoryGeneric Category = iota
	CategoryCode
	CategoryMarkup
	CategoryData
	CategoryText
	CategoryImage
)

var categoryNames = map[Category]string{
	CategoryGeneric: "generic",
	CategoryCode:    "code",
	CategoryMarkup:  "markup",
	CategoryData:    "data",
	CategoryText:    "text",
	CategoryImage:   "image",
}

// String returns the lowercase category name
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryGeneric]
}

// MarshalText encodes the category by name so JSON output stays readable
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Icon returns the lucide icon name for the category
func (c Category) Icon() string {
	switch c {
	case CategoryCode, CategoryMarkup:
		return "file-code"
	case CategoryData:
		return "file-json"
	case CategoryText:
		return "file-text"
	case CategoryImage:
		return "image"
	default:
		return "file"
	}
}

// Classify derives the display category of a path from the extension of
// its final segment. Extensions are compared case-insensitively.
func Classify(p string) Category {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	switch ext {
	case "js", "ts":
		return CategoryCode
	case "html":
		return CategoryCode
	case "css":
		return CategoryCode
	case "json":
		return CategoryData
	case "md":
		return CategoryText
	case "jpg", "jpeg", "png", "gif":
		return CategoryImage
	default:
		return CategoryGeneric
	}
}
