package state

import (
	"fmt"
	"slices"

	"github.com/pkordes/tagcal/internal/domain"
)

// The projector keeps DayMarks equal to the union, per date, of every
// period range plus the manually marked days, with at most one entry per
// tag per date. Periods and marks are only ever changed together here.

// CreatePeriod marks every date in [start, end] with tagID.
// A date that already carries the tag (from a manual mark or another
// period) keeps its existing entry and is not duplicated.
func (s *Store) CreatePeriod(tagID string, start, end domain.Date) (domain.Period, error) {
	if err := validateRange(start, end); err != nil {
		return domain.Period{}, err
	}
	tag, ok := s.Tag(tagID)
	if !ok {
		return domain.Period{}, fmt.Errorf("%w: a valid tag must be selected", domain.ErrValidation)
	}

	p := domain.Period{
		ID:        s.newID("period"),
		TagID:     tag.ID,
		StartDate: start,
		EndDate:   end,
		TagName:   tag.Name,
		TagColor:  tag.Color,
	}
	s.periods = append(s.periods, p)
	s.project(p)
	return p, nil
}

// EditPeriod moves a period to a new tag and/or range. All entries the
// period produced are removed first, wherever they are, and the new range
// is then projected; the old and new ranges need not overlap.
func (s *Store) EditPeriod(id, tagID string, start, end domain.Date) (domain.Period, error) {
	i := s.periodIndex(id)
	if i < 0 {
		return domain.Period{}, fmt.Errorf("period %s: %w", id, domain.ErrNotFound)
	}
	tag, ok := s.Tag(tagID)
	if !ok {
		return domain.Period{}, fmt.Errorf("tag %s: %w", tagID, domain.ErrNotFound)
	}
	if err := validateRange(start, end); err != nil {
		return domain.Period{}, err
	}

	oldTagID := s.periods[i].TagID
	s.stripEntries(func(e domain.MarkEntry) bool { return e.PeriodID == id })

	s.periods[i].TagID = tag.ID
	s.periods[i].TagName = tag.Name
	s.periods[i].TagColor = tag.Color
	s.periods[i].StartDate = start
	s.periods[i].EndDate = end

	s.reproject(oldTagID, tag.ID)
	return s.periods[i], nil
}

// DeletePeriod removes a period and every entry it produced.
func (s *Store) DeletePeriod(id string) error {
	i := s.periodIndex(id)
	if i < 0 {
		return fmt.Errorf("period %s: %w", id, domain.ErrNotFound)
	}
	tagID := s.periods[i].TagID
	s.periods = slices.Delete(s.periods, i, i+1)
	s.stripEntries(func(e domain.MarkEntry) bool { return e.PeriodID == id })
	s.reproject(tagID)
	return nil
}

// MarkDay marks a single date with tagID outside of any period.
// Marking a date that already carries the tag is a no-op.
// It returns the entries of the date after the change.
func (s *Store) MarkDay(tagID string, d domain.Date) ([]domain.MarkEntry, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	tag, ok := s.Tag(tagID)
	if !ok {
		return nil, fmt.Errorf("%w: a valid tag must be selected", domain.ErrValidation)
	}
	s.appendEntry(d.String(), domain.MarkEntry{TagID: tag.ID, Color: tag.Color, Name: tag.Name})
	return s.MarksOn(d), nil
}

// UnmarkDay removes a manual mark of tagID from d. Entries produced by a
// period cannot be removed one day at a time; edit or delete the period.
func (s *Store) UnmarkDay(tagID string, d domain.Date) error {
	key := d.String()
	i := slices.IndexFunc(s.marks[key], func(e domain.MarkEntry) bool { return e.TagID == tagID })
	if i < 0 {
		return fmt.Errorf("mark %s on %s: %w", tagID, key, domain.ErrNotFound)
	}
	if pid := s.marks[key][i].PeriodID; pid != "" {
		return fmt.Errorf("%w: %s is marked by period %s", domain.ErrValidation, key, pid)
	}
	s.stripEntries(func(e domain.MarkEntry) bool { return e.TagID == tagID && e.PeriodID == "" }, key)
	return nil
}

// ClearAll removes every day mark and period. Tags and settings stay.
func (s *Store) ClearAll() {
	s.marks = domain.DayMarks{}
	s.periods = []domain.Period{}
}

// project writes p's entries into every date of its range.
func (s *Store) project(p domain.Period) {
	domain.EachDay(p.StartDate, p.EndDate, func(d domain.Date) {
		s.appendEntry(d.String(), domain.MarkEntry{
			TagID:    p.TagID,
			Color:    p.TagColor,
			Name:     p.TagName,
			PeriodID: p.ID,
		})
	})
}

// reproject projects, in creation order, every period of the given tags.
// Projection is idempotent, so only dates left uncovered by a removal are
// written: a date still inside another period of the same tag regains an
// entry attributed to that period.
func (s *Store) reproject(tagIDs ...string) {
	for _, p := range s.periods {
		if slices.Contains(tagIDs, p.TagID) {
			s.project(p)
		}
	}
}

// appendEntry adds e to date unless the date already carries e's tag.
func (s *Store) appendEntry(date string, e domain.MarkEntry) {
	if s.marks.HasTag(date, e.TagID) {
		return
	}
	s.marks[date] = append(s.marks[date], e)
}

// stripEntries removes every entry matching drop, limited to the given
// dates when any are passed. Dates left empty are deleted from the map.
func (s *Store) stripEntries(drop func(domain.MarkEntry) bool, dates ...string) {
	keys := dates
	if len(keys) == 0 {
		keys = make([]string, 0, len(s.marks))
		for d := range s.marks {
			keys = append(keys, d)
		}
	}
	for _, d := range keys {
		kept := slices.DeleteFunc(s.marks[d], drop)
		if len(kept) == 0 {
			delete(s.marks, d)
			continue
		}
		s.marks[d] = kept
	}
}

func validateRange(start, end domain.Date) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrValidation)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start date must not be after end date", domain.ErrValidation)
	}
	if end.After(start.AddDays(domain.MaxPeriodDays - 1)) {
		return fmt.Errorf("%w: period must not span more than %d days", domain.ErrValidation, domain.MaxPeriodDays)
	}
	return nil
}
