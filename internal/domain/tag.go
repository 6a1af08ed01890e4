// Package domain contains the core data types for the tagged calendar:
// tags, periods, per-day mark sequences, display settings and the persisted
// record that bundles them. It has no knowledge of storage or HTTP.
package domain

import "regexp"

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#3498db"

var hexColorRE = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsHexColor reports whether s is a "#RRGGBB" color string.
func IsHexColor(s string) bool {
	return hexColorRE.MatchString(s)
}

// Tag is a named, colored label a user applies to dates.
// ID is stable for the lifetime of the tag; Name and Color are edited in
// place and every snapshot of them (periods, day marks) follows the edit.
type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}
