package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

const yAxisWidth = 10

// DataSeries represents a single line in a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart displays a simple line chart
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // X-axis labels
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
	YFormat    func(float64) string
}

// NewASCIIChart creates a new ASCII chart whose Y axis shows compact rupee amounts
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      60,
		Height:     12,
		ShowLegend: true,
		YFormat: func(v float64) string {
			return money.Compact(decimal.NewFromFloat(v))
		},
	}
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// AddDecimalSeries adds a series of decimal amounts
func (c *ASCIIChart) AddDecimalSeries(name string, points []decimal.Decimal, color lipgloss.Color) *ASCIIChart {
	floats := make([]float64, len(points))
	for i, p := range points {
		floats[i] = p.InexactFloat64()
	}
	return c.AddSeries(name, floats, color)
}

// WithLabels sets the X-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// WithXAxisLabel sets the X axis caption
func (c *ASCIIChart) WithXAxisLabel(label string) *ASCIIChart {
	c.XAxisLabel = label
	return c
}

func (c *ASCIIChart) hasData() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if !c.hasData() {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n\n")
	}

	lo, hi := c.bounds()
	content.WriteString(c.renderGrid(lo, hi))

	if c.XAxisLabel != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(c.XAxisLabel))
	}

	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n")
		content.WriteString(c.renderLegend())
	}

	return content.String()
}

// bounds returns the padded value range across all series
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, p := range s.Points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if hi == lo {
		// flat series: open a band around the value so it plots mid-height
		pad := math.Max(math.Abs(hi)*0.1, 1)
		return lo - pad, hi + pad
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func (c *ASCIIChart) plotWidth() int {
	return max(c.Width-yAxisWidth-3, 2)
}

func (c *ASCIIChart) position(i, n int, v, lo, hi float64) (int, int) {
	w := c.plotWidth()
	x := 0
	if n > 1 {
		x = int(math.Round(float64(i) / float64(n-1) * float64(w-1)))
	}
	y := c.Height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(c.Height-1)))
	return x, y
}

func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	w := c.plotWidth()
	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", w))
	}

	for idx, s := range c.Series {
		char := seriesChar(idx)
		for i, v := range s.Points {
			x, y := c.position(i, len(s.Points), v, lo, hi)
			if i > 0 {
				px, py := c.position(i-1, len(s.Points), s.Points[i-1], lo, hi)
				drawLine(grid, px, py, x, y, '·')
			}
			if y >= 0 && y < c.Height && x >= 0 && x < w {
				grid[y][x] = char
			}
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	var out strings.Builder
	for i, row := range grid {
		label := ""
		if i == 0 || i == c.Height-1 || i == c.Height/2 {
			v := hi - float64(i)/float64(c.Height-1)*(hi-lo)
			label = c.YFormat(v)
		}
		out.WriteString(axisStyle.Render(label))
		out.WriteString(" │")
		out.WriteString(c.colourRow(string(row)))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", w))

	if len(c.Labels) > 0 {
		out.WriteString("\n")
		out.WriteString(c.renderXAxisLabels(w))
	}
	return out.String()
}

// colourRow paints each series marker in its series colour
func (c *ASCIIChart) colourRow(row string) string {
	var b strings.Builder
	for _, r := range row {
		painted := false
		for idx, s := range c.Series {
			if r == seriesChar(idx) && s.Color != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(string(r)))
				painted = true
				break
			}
		}
		if !painted {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

// drawLine fills empty cells between two points using Bresenham's algorithm
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for x, y := x0, y0; ; {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == ' ' {
			grid[y][x] = char
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXAxisLabels places up to five labels at their data positions
func (c *ASCIIChart) renderXAxisLabels(w int) string {
	n := len(c.Labels)
	step := max(1, (n+4)/5)

	line := []rune(strings.Repeat(" ", w+8))
	for i := 0; i < n; i += step {
		x := 0
		if n > 1 {
			x = int(math.Round(float64(i) / float64(n-1) * float64(w-1)))
		}
		for j, r := range c.Labels[i] {
			if x+j < len(line) {
				line[x+j] = r
			}
		}
	}
	labels := strings.TrimRight(string(line), " ")
	return strings.Repeat(" ", yAxisWidth+2) + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(labels)
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, s := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesChar(i)))
		items = append(items, symbol+" "+s.Name)
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Legend: " + strings.Join(items, " • "))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
