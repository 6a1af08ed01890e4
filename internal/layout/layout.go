// Package layout turns display settings and day marks into a
// renderer-agnostic description of the calendar: month grids, their
// positions, and the colored stripes of each day. RenderSVG is one
// consumer of that description; any charting layer can be another.
package layout

import (
	"math"

	"github.com/pkordes/tagcal/internal/domain"
)

// Geometry of the month grid, in pixels unless noted.
const (
	MaxColumns            = 3
	TopOffset             = 120.0
	GapY                  = 90.0
	CellHeight            = 26.0
	CalendarPad           = 30.0
	MinCellWidth          = 18.0
	DefaultContainerWidth = 800.0

	titleLift     = 56.0
	columnGutter  = 3.0 // percent of the container left between columns
	leftMargin    = 2.0 // percent
	bottomMargin  = 40.0
	fallbackColor = domain.DefaultTagColor
	fallbackName  = "Tag"
)

// Options tunes layout for a target surface.
type Options struct {
	// ContainerWidth is the drawable width. Zero selects DefaultContainerWidth.
	ContainerWidth float64
}

// Layout is the full calendar description.
type Layout struct {
	Columns        int          `json:"columns"`
	ContainerWidth float64      `json:"containerWidth"`
	CellWidth      float64      `json:"cellWidth"`
	CellHeight     float64      `json:"cellHeight"`
	TotalHeight    float64      `json:"totalHeight"`
	Months         []Month      `json:"months"`
	Legend         []LegendItem `json:"legend"`
}

// Month is one month grid. Rows are weeks (Monday first), columns weekdays.
type Month struct {
	Month        string  `json:"month"`
	Row          int     `json:"row"`
	Column       int     `json:"column"`
	Weeks        int     `json:"weeks"`
	Top          float64 `json:"top"`
	TitleTop     float64 `json:"titleTop"`
	Height       float64 `json:"height"`
	LeftPercent  float64 `json:"leftPercent"`
	WidthPercent float64 `json:"widthPercent"`
	Left         float64 `json:"left"`
	Width        float64 `json:"width"`
	Days         []Day   `json:"days"`
}

// Day is one cell of a month grid.
type Day struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	Weekday int    `json:"weekday"` // 0 = Monday
	Week    int    `json:"week"`    // row within the month grid
	Weekend bool   `json:"weekend"`
	// Highlight is set when the weekend overlay paints this unmarked day.
	Highlight  bool     `json:"highlight,omitempty"`
	Background string   `json:"background,omitempty"`
	TextColor  string   `json:"textColor"`
	Stripes    []Stripe `json:"stripes,omitempty"`
}

// Stripe is the band drawn for one tag on one day. Stripes of a day share
// the cell height evenly; OffsetY is measured from the cell center.
type Stripe struct {
	TagID   string  `json:"tagId"`
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetY float64 `json:"offsetY"`
	Z       int     `json:"z"`
}

// LegendItem is one swatch of the printable legend.
type LegendItem struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Weekend bool   `json:"weekend,omitempty"`
}

// Build lays out the months selected by snap's display settings.
func Build(snap domain.Snapshot, opts Options) Layout {
	width := opts.ContainerWidth
	if width <= 0 {
		width = DefaultContainerWidth
	}
	settings := snap.DisplaySettings
	count := min(max(settings.MonthsCount, domain.MinMonthsCount), domain.MaxMonthsCount)
	columns := min(MaxColumns, count)
	widthPercent := 100.0 / float64(columns)
	calendarWidth := width * (widthPercent - columnGutter) / 100
	cellWidth := math.Max(MinCellWidth, calendarWidth/7-2)

	l := Layout{
		Columns:        columns,
		ContainerWidth: width,
		CellWidth:      cellWidth,
		CellHeight:     CellHeight,
		Months:         make([]Month, 0, count),
		Legend:         legend(snap),
	}

	top, rowMax := TopOffset, 0.0
	for i := 0; i < count; i++ {
		ym := settings.StartMonth.AddMonths(i)
		row, col := i/columns, i%columns
		weeks := WeeksInMonth(ym.Year, ym.Month)
		height := float64(weeks)*CellHeight + CalendarPad

		if col == 0 && i != 0 {
			top += rowMax + GapY
			rowMax = 0
		}
		rowMax = math.Max(rowMax, height)

		leftPercent := float64(col)*widthPercent + leftMargin
		l.Months = append(l.Months, Month{
			Month:        ym.String(),
			Row:          row,
			Column:       col,
			Weeks:        weeks,
			Top:          top,
			TitleTop:     math.Max(0, top-titleLift),
			Height:       height,
			LeftPercent:  leftPercent,
			WidthPercent: widthPercent - columnGutter,
			Left:         width * leftPercent / 100,
			Width:        calendarWidth,
			Days:         days(ym, snap.MarkedDays, settings, cellWidth),
		})
	}
	l.TotalHeight = top + rowMax + GapY + bottomMargin
	return l
}

func days(ym domain.YearMonth, marks domain.DayMarks, settings domain.DisplaySettings, cellWidth float64) []Day {
	first := ym.FirstDay()
	offset := mondayIndex(first.Weekday())
	out := make([]Day, 0, ym.Days())
	for n := 1; n <= ym.Days(); n++ {
		date := first.AddDays(n - 1)
		key := date.String()
		entries := marks[key]

		day := Day{
			Date:    key,
			Day:     n,
			Weekday: mondayIndex(date.Weekday()),
			Week:    (offset + n - 1) / 7,
			Weekend: date.IsWeekend(),
			Stripes: stripes(entries, cellWidth),
		}
		switch {
		case len(entries) > 0:
			day.Background = entries[0].Color
		case settings.HighlightWeekends && day.Weekend:
			day.Highlight = true
			day.Background = settings.WeekendColor
		}
		day.TextColor = TextNeutral
		if day.Background != "" {
			day.TextColor = ContrastColor(day.Background)
		}
		out = append(out, day)
	}
	return out
}

// stripes stacks one band per entry, first entry on top.
func stripes(entries []domain.MarkEntry, cellWidth float64) []Stripe {
	if len(entries) == 0 {
		return nil
	}
	n := float64(len(entries))
	h := (CellHeight - 2) / n
	out := make([]Stripe, 0, len(entries))
	for i, e := range entries {
		color, name := e.Color, e.Name
		if color == "" {
			color = fallbackColor
		}
		if name == "" {
			name = fallbackName
		}
		out = append(out, Stripe{
			TagID:   e.TagID,
			Name:    name,
			Color:   color,
			Width:   cellWidth - 4,
			Height:  h,
			OffsetY: (float64(i) - (n-1)/2) * h,
			Z:       10 + i,
		})
	}
	return out
}

func legend(snap domain.Snapshot) []LegendItem {
	items := make([]LegendItem, 0, len(snap.Tags)+1)
	for _, t := range snap.Tags {
		items = append(items, LegendItem{Name: t.Name, Color: t.Color})
	}
	if snap.HighlightWeekends {
		items = append(items, LegendItem{Name: "Weekend", Color: snap.WeekendColor, Weekend: true})
	}
	return items
}
