package domain

// MaxPeriodDays bounds how many days a single period may cover.
const MaxPeriodDays = 5 * 366

// Period is a user-created inclusive date range marked with one tag.
// TagName and TagColor are a snapshot of the tag taken when the period was
// created or last edited, kept in sync by tag edits.
type Period struct {
	ID        string `json:"id" yaml:"id"`
	TagID     string `json:"tagId" yaml:"tagId"`
	StartDate Date   `json:"startDate" yaml:"startDate"`
	EndDate   Date   `json:"endDate" yaml:"endDate"`
	TagName   string `json:"tagName" yaml:"tagName"`
	TagColor  string `json:"tagColor" yaml:"tagColor"`
}

// Covers reports whether d lies within [StartDate, EndDate].
func (p Period) Covers(d Date) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Len returns the number of days in the period.
func (p Period) Len() int {
	if p.EndDate.Before(p.StartDate) {
		return 0
	}
	return int(p.EndDate.Time().Sub(p.StartDate.Time()).Hours()/24) + 1
}
