package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// ShareBar shows a fraction of a whole, optionally against a limit marker.
// The goal scene uses it for contribution as a share of income against the
// investable cap; the loan scene for interest as a share of total payment.
type ShareBar struct {
	Label string
	Share decimal.Decimal  // 0..1, values above 1 render as a full bar
	Limit *decimal.Decimal // optional marker, e.g. 0.40
	Width int
}

// NewShareBar creates a new share bar
func NewShareBar(label string, share decimal.Decimal) *ShareBar {
	return &ShareBar{Label: label, Share: share, Width: 40}
}

// WithLimit places a marker at limit and colours the bar red when the share exceeds it
func (b *ShareBar) WithLimit(limit decimal.Decimal) *ShareBar {
	b.Limit = &limit
	return b
}

// WithWidth sets the bar width
func (b *ShareBar) WithWidth(width int) *ShareBar {
	b.Width = width
	return b
}

// OverLimit reports whether the share exceeds the limit
func (b *ShareBar) OverLimit() bool {
	return b.Limit != nil && b.Share.GreaterThan(*b.Limit)
}

func (b *ShareBar) cells(fraction decimal.Decimal) int {
	n := int(fraction.Mul(decimal.NewFromInt(int64(b.Width))).Round(0).IntPart())
	return max(0, min(n, b.Width))
}

// Render returns the styled bar
func (b *ShareBar) Render() string {
	var content strings.Builder

	if b.Label != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Bold(true).Render(b.Label))
		content.WriteString("\n")
	}

	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	if b.OverLimit() {
		barStyle = barStyle.Foreground(tuistyles.ColorDanger)
	}
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)
	markerStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorAccent)

	filled := b.cells(b.Share)
	marker := -1
	if b.Limit != nil {
		marker = b.cells(*b.Limit)
	}

	content.WriteString("[")
	for i := 0; i < b.Width; i++ {
		switch {
		case i == marker:
			content.WriteString(markerStyle.Render("│"))
		case i < filled:
			content.WriteString(barStyle.Render("█"))
		default:
			content.WriteString(emptyStyle.Render("░"))
		}
	}
	content.WriteString("] ")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(money.Percent(b.Share)))
	if b.Limit != nil {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(" (limit " + money.Percent(*b.Limit) + ")"))
	}

	return content.String()
}

// Spinner represents an animated spinner for loading states
type Spinner struct {
	Frame   int
	Message string
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{}
}

// WithMessage sets the spinner message
func (s *Spinner) WithMessage(message string) *Spinner {
	s.Message = message
	return s
}

// Next advances the spinner to the next frame
func (s *Spinner) Next() {
	s.Frame++
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Render returns the current spinner frame
func (s *Spinner) Render() string {
	frame := spinnerFrames[s.Frame%len(spinnerFrames)]
	rendered := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(frame)
	if s.Message != "" {
		rendered += " " + lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Render(s.Message)
	}
	return rendered
}
