package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
)

// EntryCard displays a compact overview of one plan entry or regime outcome
type EntryCard struct {
	Name       string
	Kind       string // "SIP", "Goal", "Loan", "Tax", or a regime title
	Highlights []string
	IsSelected bool
	Width      int
}

// NewEntryCard creates a new entry card
func NewEntryCard(name, kind string) *EntryCard {
	return &EntryCard{
		Name:  name,
		Kind:  kind,
		Width: 40,
	}
}

// AddHighlight adds a key figure
func (c *EntryCard) AddHighlight(highlight string) *EntryCard {
	c.Highlights = append(c.Highlights, highlight)
	return c
}

// SetSelected marks the card as selected
func (c *EntryCard) SetSelected(selected bool) *EntryCard {
	c.IsSelected = selected
	return c
}

// WithWidth sets the card width
func (c *EntryCard) WithWidth(width int) *EntryCard {
	c.Width = width
	return c
}

// Render returns the styled card
func (c *EntryCard) Render() string {
	var content strings.Builder

	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Name))
	if c.Kind != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render("  " + c.Kind))
	}
	content.WriteString("\n")

	highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
	for _, h := range c.Highlights {
		content.WriteString(highlightStyle.Render("• " + h))
		content.WriteString("\n")
	}

	border := tuistyles.ColorBorder
	if c.IsSelected {
		border = tuistyles.ColorPrimary
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(c.Width)

	return cardStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a single-line version
func (c *EntryCard) RenderCompact() string {
	parts := []string{lipgloss.NewStyle().Bold(true).Render(c.Name)}
	muted := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	if c.Kind != "" {
		parts = append(parts, muted.Render("("+c.Kind+")"))
	}
	if len(c.Highlights) > 0 {
		parts = append(parts, muted.Render("• "+c.Highlights[0]))
	}
	return strings.Join(parts, " ")
}

// EntryListCompact renders a selection list with a cursor on selectedIndex
func EntryListCompact(cards []*EntryCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No entries")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix, style := "  ", tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix, style = "▸ ", tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix + card.RenderCompact())
	}
	return strings.Join(rendered, "\n")
}
