package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Series is a named sequence of values drawn on a shared scale.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls chart size and decoration.
type PlotOptions struct {
	Title string
	// Width is the number of braille columns. Zero fits the terminal.
	Width  int
	Height int
	// From and To label the first and last column.
	From, To string
	// Color forces ANSI colors even when w is not a terminal.
	Color bool
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelWidth      = 6
	axisSeparator       = " ┤"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// Dot patterns cycled per series.
var dashPeriods = []struct {
	name   string
	period int
	on     int
}{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var palette = []string{"\x1b[36m", "\x1b[33m", "\x1b[35m", "\x1b[32m"}

// PlotSeries draws series as a braille line chart. All series share one
// vertical scale starting at zero (or the minimum value when negative).
func PlotSeries(w io.Writer, opts PlotOptions, series ...Series) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	lo, hi := valueRange(series)
	grid := newBrailleGrid(len(series), width, height)
	for si, s := range series {
		dash := dashPeriods[si%len(dashPeriods)]
		points := resample(s.Values, width)
		prevX, prevY := -1, -1
		for i, v := range points {
			x, y := i*2, scaleRow(v, lo, hi, height*4)
			plot := func(dx, dy int) {
				if dash.period <= 1 || dx%dash.period < dash.on {
					grid.set(si, dx, dy)
				}
			}
			if prevX < 0 {
				plot(x, y)
			} else {
				bresenham(prevX, prevY, x, y, plot)
			}
			prevX, prevY = x, y
		}
	}

	useColor := colorEnabled(w, opts.Color)
	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(opts.Title)
		b.WriteByte('\n')
	}
	labels := axisLabels(lo, hi, height)
	for row := 0; row < height; row++ {
		fmt.Fprintf(&b, "%*s%s", axisLabelWidth, labels[row], axisSeparator)
		for col := 0; col < width; col++ {
			mask, owner := grid.cell(col, row)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				b.WriteString(palette[owner%len(palette)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	if footer := dateFooter(opts.From, opts.To, width); footer != "" {
		b.WriteString(strings.Repeat(" ", axisLabelWidth+displayWidth(axisSeparator)))
		b.WriteString(footer)
		b.WriteByte('\n')
	}
	b.WriteString(legend(series, useColor))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor returns the number of chart columns that fit into totalWidth.
func PlotWidthFor(totalWidth int) int {
	width := totalWidth - axisLabelWidth - displayWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
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
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func valueRange(series []Series) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	return lo, hi
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	labels[0] = formatAxisValue(hi)
	if height > 2 {
		labels[height/2] = formatAxisValue(lo + (hi-lo)/2)
	}
	if height > 1 {
		labels[height-1] = formatAxisValue(lo)
	}
	return labels
}

func formatAxisValue(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func dateFooter(from, to string, width int) string {
	if from == "" && to == "" {
		return ""
	}
	gap := width - displayWidth(from) - displayWidth(to)
	if gap < 1 {
		return from + " " + to
	}
	return from + strings.Repeat(" ", gap) + to
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashPeriods[i%len(dashPeriods)].name)
		if useColor {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// scaleRow maps v onto dot rows, row 0 being the top.
func scaleRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	row := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(rows-1)))
	return max(0, min(rows-1, row))
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// brailleGrid holds one dot mask layer per series.
type brailleGrid struct {
	width, height int
	layers        [][]uint8
}

func newBrailleGrid(layers, width, height int) *brailleGrid {
	g := &brailleGrid{width: width, height: height, layers: make([][]uint8, layers)}
	for i := range g.layers {
		g.layers[i] = make([]uint8, width*height)
	}
	return g
}

// Dot bits in braille order, indexed by [dotY][dotX].
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (g *brailleGrid) set(layer, x, y int) {
	col, row := x/2, y/4
	if x < 0 || y < 0 || col >= g.width || row >= g.height {
		return
	}
	g.layers[layer][row*g.width+col] |= brailleBits[y%4][x%2]
}

// cell merges all layers and reports the first layer that drew in it.
func (g *brailleGrid) cell(col, row int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, layer := range g.layers {
		m := layer[row*g.width+col]
		if m != 0 && owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}
