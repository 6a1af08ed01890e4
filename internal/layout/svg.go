package layout

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const (
	cellFill     = "#f0f0f0"
	cellStroke   = "#cccccc"
	fontFamily   = "sans-serif"
	legendSwatch = 14.0
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// RenderSVG draws l as a standalone SVG document. Each day cell carries
// data-date so the output can be inspected or scripted.
func RenderSVG(l Layout, title string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`+"\n",
		num(l.ContainerWidth), num(l.TotalHeight), num(l.ContainerWidth), num(l.TotalHeight))
	fmt.Fprintf(&sb, `  <style>.title{font-family:%s;font-size:24px;fill:#333;font-weight:bold}.month{font-family:%s;font-size:14px;fill:#333;font-weight:bold}.label{font-family:%s;font-size:10px;fill:#666}.day{font-family:%s;font-size:11px}</style>`+"\n",
		fontFamily, fontFamily, fontFamily, fontFamily)
	sb.WriteString(`  <rect width="100%" height="100%" fill="#ffffff"/>` + "\n")

	if title != "" {
		fmt.Fprintf(&sb, `  <text x="%s" y="34" text-anchor="middle" class="title">%s</text>`+"\n",
			num(l.ContainerWidth/2), html.EscapeString(title))
	}

	for _, m := range l.Months {
		writeMonth(&sb, l, m)
	}
	writeLegend(&sb, l)

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeMonth(sb *strings.Builder, l Layout, m Month) {
	fmt.Fprintf(sb, `  <g class="calendar" data-month="%s">`+"\n", attr(m.Month))
	fmt.Fprintf(sb, `    <text x="%s" y="%s" text-anchor="middle" class="month">%s</text>`+"\n",
		num(m.Left+m.Width/2), num(m.TitleTop+l.CellHeight), monthTitle(m.Month))

	for i, label := range weekdayLabels {
		x := m.Left + float64(i)*l.CellWidth + l.CellWidth/2
		fmt.Fprintf(sb, `    <text x="%s" y="%s" text-anchor="middle" class="label">%s</text>`+"\n",
			num(x), num(m.Top+CalendarPad/2), label)
	}

	for _, d := range m.Days {
		x := m.Left + float64(d.Weekday)*l.CellWidth
		y := m.Top + CalendarPad + float64(d.Week)*l.CellHeight
		fmt.Fprintf(sb, `    <rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" data-date="%s"/>`+"\n",
			num(x), num(y), num(l.CellWidth), num(l.CellHeight), cellFill, cellStroke, attr(d.Date))

		if d.Highlight {
			fmt.Fprintf(sb, `    <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				num(x+1), num(y+1), num(l.CellWidth-2), num(l.CellHeight-2), attr(d.Background))
		}

		centerY := y + l.CellHeight/2
		for _, s := range d.Stripes {
			fmt.Fprintf(sb, `    <rect x="%s" y="%s" width="%s" height="%s" fill="%s" data-tag="%s"><title>%s: %s</title></rect>`+"\n",
				num(x+2), num(centerY+s.OffsetY-s.Height/2), num(s.Width), num(s.Height), attr(s.Color),
				attr(s.TagID), attr(d.Date), html.EscapeString(s.Name))
		}

		fmt.Fprintf(sb, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" class="day" fill="%s">%d</text>`+"\n",
			num(x+l.CellWidth/2), num(centerY), attr(d.TextColor), d.Day)
	}
	sb.WriteString("  </g>\n")
}

func writeLegend(sb *strings.Builder, l Layout) {
	if len(l.Legend) == 0 {
		return
	}
	y := l.TotalHeight - bottomMargin
	x := l.ContainerWidth * leftMargin / 100
	sb.WriteString(`  <g class="legend">` + "\n")
	for _, item := range l.Legend {
		fmt.Fprintf(sb, `    <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(x), num(y), num(legendSwatch), num(legendSwatch), attr(item.Color))
		fmt.Fprintf(sb, `    <text x="%s" y="%s" dominant-baseline="central" class="label">%s</text>`+"\n",
			num(x+legendSwatch+4), num(y+legendSwatch/2), html.EscapeString(item.Name))
		x += legendSwatch + 12 + 7*float64(len([]rune(item.Name)))
	}
	sb.WriteString("  </g>\n")
}

// attr escapes a value placed inside a double-quoted attribute.
func attr(v string) string { return html.EscapeString(v) }

func monthTitle(ym string) string {
	t, err := time.Parse("2006-01", ym)
	if err != nil {
		return ym
	}
	return t.Format("January 2006")
}

// num prints coordinates with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
