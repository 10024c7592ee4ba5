package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// ValueFormatter renders a slider value for display
type ValueFormatter func(decimal.Decimal) string

// RupeeFormat shows whole rupees with Indian grouping
func RupeeFormat(d decimal.Decimal) string { return money.Format(d) }

// PercentFormat shows an annual percentage with two decimals
func PercentFormat(d decimal.Decimal) string { return d.StringFixed(2) + "%" }

// YearsFormat shows a whole number of years
func YearsFormat(d decimal.Decimal) string {
	if d.Equal(decimal.NewFromInt(1)) {
		return "1 year"
	}
	return d.StringFixed(0) + " years"
}

// JumpSteps is how many steps PageUp/PageDown move a slider
const JumpSteps = 10

// ParameterSlider displays an adjustable parameter with a visual slider.
// Values are decimals so that repeated steps never drift.
type ParameterSlider struct {
	Key         string // field the value maps to, e.g. "contribution"
	Label       string
	Value       decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	Step        decimal.Decimal
	Format      ValueFormatter
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a new parameter slider
func NewParameterSlider(key, label string, value, min, max, step decimal.Decimal) *ParameterSlider {
	p := &ParameterSlider{
		Key:    key,
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: func(d decimal.Decimal) string { return d.String() },
		Width:  30,
	}
	p.SetValue(value)
	return p
}

// WithFormat sets the value formatter
func (p *ParameterSlider) WithFormat(f ValueFormatter) *ParameterSlider {
	p.Format = f
	return p
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// WithDescription adds a description/help text
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// Increment increases the value by one step, stopping at Max
func (p *ParameterSlider) Increment() { p.Jump(1) }

// Decrement decreases the value by one step, stopping at Min
func (p *ParameterSlider) Decrement() { p.Jump(-1) }

// Jump moves the value by n steps, clamping to the range
func (p *ParameterSlider) Jump(n int) {
	p.SetValue(p.Value.Add(p.Step.Mul(decimal.NewFromInt(int64(n)))))
}

// SetValue sets the value directly, clamping to min/max
func (p *ParameterSlider) SetValue(value decimal.Decimal) {
	switch {
	case value.LessThan(p.Min):
		p.Value = p.Min
	case value.GreaterThan(p.Max):
		p.Value = p.Max
	default:
		p.Value = value
	}
}

// Percentage returns the value's position within the range as a fraction
func (p *ParameterSlider) Percentage() float64 {
	span := p.Max.Sub(p.Min)
	if span.IsZero() {
		return 0
	}
	return p.Value.Sub(p.Min).Div(span).InexactFloat64()
}

// Render returns the styled parameter slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.Format(p.Value)))
	content.WriteString("\n")
	content.WriteString(p.renderSliderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString(" ")
	content.WriteString(rangeStyle.Render(p.Format(p.Min) + " ─ " + p.Format(p.Max)))

	if p.IsFocused && p.Description != "" {
		content.WriteString("\n")
		descStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		content.WriteString(descStyle.Render(p.Description))
	}

	return content.String()
}

func (p *ParameterSlider) renderSliderBar() string {
	filled := int(math.Round(float64(p.Width) * p.Percentage()))
	filled = max(0, min(filled, p.Width))
	empty := p.Width - filled

	trackStyle := tuistyles.SliderTrackStyle
	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if empty > 1 {
		bar.WriteString(trackStyle.Render(strings.Repeat("─", empty-1)))
	}
	bar.WriteString("]")
	return bar.String()
}

// RenderCompact returns a single-line version
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	return labelStyle.Render(p.Label+":") + " " + valueStyle.Render(p.Format(p.Value))
}
