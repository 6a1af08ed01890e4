package state

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkordes/tagcal/internal/domain"
)

// AddTag creates a tag. An empty color selects domain.DefaultTagColor.
func (s *Store) AddTag(name, color string) (domain.Tag, error) {
	name, color, err := validateTag(name, color)
	if err != nil {
		return domain.Tag{}, err
	}
	tag := domain.Tag{ID: s.newID("tag"), Name: name, Color: color}
	s.tags = append(s.tags, tag)
	return tag, nil
}

// EditTag renames and/or recolors a tag and propagates the new values to
// every period and day-mark entry that snapshots it.
func (s *Store) EditTag(id, name, color string) (domain.Tag, error) {
	i := s.tagIndex(id)
	if i < 0 {
		return domain.Tag{}, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	name, color, err := validateTag(name, color)
	if err != nil {
		return domain.Tag{}, err
	}

	s.tags[i].Name = name
	s.tags[i].Color = color

	for _, entries := range s.marks {
		for j := range entries {
			if entries[j].TagID == id {
				entries[j].Name = name
				entries[j].Color = color
			}
		}
	}
	for j := range s.periods {
		if s.periods[j].TagID == id {
			s.periods[j].TagName = name
			s.periods[j].TagColor = color
		}
	}
	return s.tags[i], nil
}

// DeleteTag removes a tag together with its periods and every day-mark
// entry that references it, manual or not.
func (s *Store) DeleteTag(id string) error {
	i := s.tagIndex(id)
	if i < 0 {
		return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	s.tags = slices.Delete(s.tags, i, i+1)
	s.periods = slices.DeleteFunc(s.periods, func(p domain.Period) bool { return p.TagID == id })
	s.stripEntries(func(e domain.MarkEntry) bool { return e.TagID == id })
	return nil
}

// validateTag trims the name and applies the default color.
func validateTag(name, color string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = domain.DefaultTagColor
	}
	if !domain.IsHexColor(color) {
		return "", "", fmt.Errorf("%w: tag color must be a #RRGGBB value", domain.ErrValidation)
	}
	return name, strings.ToLower(color), nil
}
