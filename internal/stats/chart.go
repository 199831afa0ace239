package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	defaultChartHeight = 10
	minChartWidth      = 10
	fallbackTermWidth  = 80
	axisHigh           = "max"
	axisLow            = "min"
	axisRule           = " ┤ "
	ansiReset          = "\x1b[0m"
)

// Range is a fixed vertical range for a series.
type Range struct {
	Lo, Hi float64
}

// PercentRange pins a series to 0..100.
var PercentRange = &Range{Lo: 0, Hi: 100}

// Series is a named line on a Chart. Without Fixed the series is scaled
// to its own minimum and maximum.
type Series struct {
	Name   string
	Values []float64
	Fixed  *Range
}

// Chart draws one or more series as braille lines, one terminal cell per
// 2x4 dots.
type Chart struct {
	Title  string
	Series []Series
	// Width is the plot area in cells. Zero fits the terminal.
	Width  int
	Height int
	// Color forces ANSI colors. NO_COLOR always disables them.
	Color bool
}

type stroke struct {
	name  string
	every int
	draw  int
}

func (s stroke) draws(x int) bool {
	if s.every <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%s.every < s.draw
}

var strokes = []stroke{
	{name: "solid", every: 1, draw: 1},
	{name: "dashed", every: 6, draw: 3},
	{name: "dotted", every: 4, draw: 1},
	{name: "dash-dot", every: 8, draw: 3},
}

var palette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// ChartWidth is the plot area that fits a chart, axis included, into total
// columns.
func ChartWidth(total int) int {
	axis := utf8.RuneCountInString(axisHigh) + utf8.RuneCountInString(axisRule)
	return max(total-axis, minChartWidth)
}

// Render writes the chart followed by a blank line. Series without values
// are skipped and nothing is written when none remain.
func (c Chart) Render(w io.Writer) error {
	series := make([]Series, 0, len(c.Series))
	for _, s := range c.Series {
		if len(s.Values) > 0 {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return nil
	}
	width := c.Width
	if width <= 0 {
		width = ChartWidth(terminalWidth())
	}
	width = max(width, minChartWidth)
	height := c.Height
	if height <= 0 {
		height = defaultChartHeight
	}

	layers := make([]*canvas, len(series))
	ranges := make([]Range, len(series))
	for i, s := range series {
		values := fit(s.Values, width)
		ranges[i] = s.scale(values)
		layers[i] = newCanvas(width, height)
		layers[i].trace(values, ranges[i], strokes[i%len(strokes)])
	}

	color := colorEnabled(w, c.Color)
	var b strings.Builder
	if c.Title != "" {
		b.WriteString(c.Title + "\n")
	}
	for i, s := range series {
		fmt.Fprintf(&b, "%s: %.2f to %.2f\n", s.Name, ranges[i].Lo, ranges[i].Hi)
	}
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = axisHigh
		case height - 1:
			label = axisLow
		}
		fmt.Fprintf(&b, "%*s%s", len(axisHigh), label, axisRule)
		for col := 0; col < width; col++ {
			var mask uint8
			owner := -1
			for i, layer := range layers {
				if m := layer.cell(col, row); m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			if color && owner >= 0 {
				b.WriteString(palette[owner%len(palette)])
				b.WriteRune(braille(mask))
				b.WriteString(ansiReset)
				continue
			}
			b.WriteRune(braille(mask))
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(series, color) + "\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (s Series) scale(values []float64) Range {
	if s.Fixed != nil && s.Fixed.Hi > s.Fixed.Lo {
		return *s.Fixed
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return Range{Lo: lo, Hi: hi}
}

// row maps v onto dots rows, top row for Hi. Values outside the range are
// clamped.
func (r Range) row(v float64, dots int) int {
	if dots <= 1 {
		return 0
	}
	pos := (v - r.Lo) / (r.Hi - r.Lo)
	pos = math.Max(0, math.Min(1, pos))
	return int(math.Round((1 - pos) * float64(dots-1)))
}

func legend(series []Series, color bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", braille(0x01), s.Name, strokes[i%len(strokes)].name)
		if color {
			label = palette[i%len(palette)] + label + ansiReset
		}
		parts[i] = label
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// fit resamples values to n points: averaging buckets when shrinking and
// interpolating linearly when stretching.
func fit(values []float64, n int) []float64 {
	switch {
	case n <= 0 || len(values) == 0:
		return nil
	case len(values) > n:
		out := make([]float64, n)
		for i := range out {
			start, end := i*len(values)/n, (i+1)*len(values)/n
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	out := make([]float64, n)
	if n == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	last := len(values) - 1
	for i := range out {
		pos := float64(i) * float64(last) / float64(n-1)
		lo := int(pos)
		if lo >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(lo)
		out[i] = values[lo] + (values[lo+1]-values[lo])*frac
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func colorEnabled(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// chartWidth sizes a chart for totalWidth columns, or for the terminal when
// totalWidth is unknown.
func chartWidth(totalWidth int) int {
	if totalWidth <= 0 {
		return 0
	}
	return ChartWidth(totalWidth)
}
