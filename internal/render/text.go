package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/roach88/gantry/internal/layout"
	"github.com/roach88/gantry/internal/model"
)

const (
	defaultCellWidth     = 12
	defaultWeekCellWidth = 18
	defaultLabelWidth    = 24
)

// TextOptions controls terminal rendering.
type TextOptions struct {
	// CellWidth is the number of characters per column (default 12, or 18
	// at week zoom so "Mmm dd - Mmm dd" labels fit).
	CellWidth int

	// LabelWidth is the width of the work center name column (default 24).
	LabelWidth int

	// NoColor renders plain ASCII without escape sequences.
	NoColor bool
}

var glyphs = map[model.Status]rune{
	model.StatusOpen:       '=',
	model.StatusInProgress: '>',
	model.StatusComplete:   '#',
	model.StatusBlocked:    '!',
}

var statusColors = map[model.Status]lipgloss.Color{
	model.StatusOpen:       lipgloss.Color("#3E63DD"),
	model.StatusInProgress: lipgloss.Color("#8E4EC6"),
	model.StatusComplete:   lipgloss.Color("#30A46C"),
	model.StatusBlocked:    lipgloss.Color("#F76B15"),
}

func glyph(s model.Status) rune {
	if g, ok := glyphs[s]; ok {
		return g
	}
	return '?'
}

// theme applies styles, or nothing at all for plain output.
type theme struct {
	plain   bool
	header  lipgloss.Style
	current lipgloss.Style
	today   lipgloss.Style
	muted   lipgloss.Style
	bars    map[model.Status]lipgloss.Style
}

func newTheme(w io.Writer, noColor bool) theme {
	if noColor {
		return theme{plain: true}
	}
	// The profile is forced: lipgloss would otherwise re-detect from the
	// environment and drop colors when w is not a TTY.
	r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
	r.SetColorProfile(termenv.ANSI256)

	t := theme{
		header:  r.NewStyle().Bold(true),
		current: r.NewStyle().Bold(true).Underline(true),
		today:   r.NewStyle().Foreground(lipgloss.Color("#E5484D")).Bold(true),
		muted:   r.NewStyle().Faint(true),
		bars:    make(map[model.Status]lipgloss.Style, len(statusColors)),
	}
	for st, c := range statusColors {
		t.bars[st] = r.NewStyle().Foreground(c)
	}
	return t
}

func (t theme) apply(s lipgloss.Style, text string) string {
	if t.plain || text == "" {
		return text
	}
	return s.Render(text)
}

func (t theme) bar(st model.Status, text string) string {
	if t.plain {
		return text
	}
	s, ok := t.bars[st]
	if !ok {
		return text
	}
	return s.Render(text)
}

// Text draws in as a character grid: a title, a header of column labels
// (the current period marked with '*'), a today marker, one row per work
// center with its bars, and a legend. Each bar is drawn with its status
// glyph and as much of its name as fits.
func Text(w io.Writer, in Input, opts TextOptions) error {
	v := in.View
	cellWidth := opts.CellWidth
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth(v.Zoom)
	}
	labelWidth := opts.LabelWidth
	if labelWidth <= 0 {
		labelWidth = defaultLabelWidth
	}
	th := newTheme(w, opts.NoColor)

	// pixels to characters
	scale := float64(cellWidth) / v.ColumnWidth
	gridWidth := len(v.Columns) * cellWidth

	var lines []string
	lines = append(lines, th.apply(th.header, fmt.Sprintf("%s view  %s to %s  (today %s)",
		v.Zoom.Label(), v.Start, v.End, in.Today)))

	var header strings.Builder
	header.WriteString(pad("Work center", labelWidth))
	for i := range v.Columns {
		if v.IsCurrent(i, in.Today) {
			label := strings.TrimRight(truncate(v.Label(i), cellWidth-2), " ") + "*"
			header.WriteString(th.apply(th.current, label))
			header.WriteString(strings.Repeat(" ", max(0, cellWidth-lipgloss.Width(label))))
			continue
		}
		header.WriteString(pad(truncate(v.Label(i), cellWidth-1), cellWidth))
	}
	lines = append(lines, header.String())

	if v.TodayInView(in.Today) {
		pos := int(math.Round(v.TodayOffset(in.Today) * scale))
		lines = append(lines, strings.Repeat(" ", labelWidth+pos)+th.apply(th.today, "^ today"))
	}

	for i, orders := range in.rows() {
		label := pad(truncate(in.Centers[i].Name, labelWidth-1), labelWidth)
		lines = append(lines, label+drawRow(th, v.BarRect, orders, scale, gridWidth))
	}

	var legend []string
	for _, st := range model.Statuses {
		legend = append(legend, th.bar(st, string(glyph(st)))+" "+st.Label())
	}
	lines = append(lines, "", th.apply(th.muted, strings.Join(legend, "  ")))

	for _, line := range lines {
		if _, err := io.WriteString(w, strings.TrimRight(line, " ")+"\n"); err != nil {
			return fmt.Errorf("write timeline: %w", err)
		}
	}
	return nil
}

// DefaultCellWidth is the characters per column used when TextOptions
// leaves CellWidth unset.
func DefaultCellWidth(zoom layout.Zoom) int {
	if zoom == layout.ZoomWeek {
		return defaultWeekCellWidth
	}
	return defaultCellWidth
}

type cell struct {
	r      rune
	status model.Status
	filled bool
}

// drawRow paints orders onto a row of gridWidth cells. Later orders
// overwrite earlier ones where they collide.
func drawRow(th theme, rect func(model.WorkOrder) layout.Rect, orders []model.WorkOrder, scale float64, gridWidth int) string {
	cells := make([]cell, gridWidth)
	for _, o := range orders {
		r := rect(o)
		start := int(math.Round(r.Left * scale))
		width := max(1, int(math.Round(r.Width*scale)))

		text := barText(o, width)
		for k, ch := range text {
			x := start + k
			if x < 0 || x >= gridWidth {
				continue
			}
			cells[x] = cell{r: ch, status: o.Status, filled: true}
		}
	}

	// Emit runs of equally styled cells.
	var b strings.Builder
	for x := 0; x < gridWidth; {
		c := cells[x]
		end := x + 1
		for end < gridWidth && cells[end].filled == c.filled && cells[end].status == c.status {
			end++
		}
		var run strings.Builder
		for _, rc := range cells[x:end] {
			if rc.filled {
				run.WriteRune(rc.r)
			} else {
				run.WriteByte(' ')
			}
		}
		if c.filled {
			b.WriteString(th.bar(c.status, run.String()))
		} else {
			b.WriteString(run.String())
		}
		x = end
	}
	return b.String()
}

// barText is the glyph, then the name cut to fit, then glyph padding.
func barText(o model.WorkOrder, width int) []rune {
	g := glyph(o.Status)
	out := make([]rune, width)
	for i := range out {
		out[i] = g
	}
	name := []rune(o.Name)
	if room := width - 2; room > 0 {
		copy(out[1:], name[:min(len(name), room)])
	}
	return out
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) > width {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
