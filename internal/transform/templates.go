package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// TemplateRegistry manages built-in loan offer templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []LoanTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a registry with common loan what-ifs
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, years := range []int{-5, -2, 2, 5} {
		name := fmt.Sprintf("tenure_plus_%dy", years)
		if years < 0 {
			name = fmt.Sprintf("tenure_minus_%dy", -years)
		}
		ct := &ChangeTenure{Years: years}
		registry.Register(Template{Name: name, Description: ct.Description(), Transforms: []LoanTransform{ct}})
	}

	for _, bps := range []int64{-100, -50, 50, 100} {
		name := fmt.Sprintf("rate_plus_%dbp", bps)
		if bps < 0 {
			name = fmt.Sprintf("rate_minus_%dbp", -bps)
		}
		ar := &AdjustRate{DeltaPercent: decimal.New(bps, -2)}
		registry.Register(Template{Name: name, Description: ar.Description(), Transforms: []LoanTransform{ar}})
	}

	for _, pct := range []int64{10, 20} {
		p := &Prepay{Share: decimal.New(pct, -2)}
		registry.Register(Template{
			Name:        fmt.Sprintf("prepay_%dpct", pct),
			Description: p.Description(),
			Transforms:  []LoanTransform{p},
		})
	}

	registry.Register(Template{
		Name:        "refinance",
		Description: "Refinance 50 bps lower and keep the remaining tenure",
		Transforms: []LoanTransform{
			&AdjustRate{DeltaPercent: decimal.New(-50, -2)},
		},
	})

	registry.Register(Template{
		Name:        "aggressive_payoff",
		Description: "Prepay 10% and shorten tenure by 2 years",
		Transforms: []LoanTransform{
			&Prepay{Share: decimal.New(10, -2)},
			&ChangeTenure{Years: -2},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base request
func ApplyTemplate(base domain.LoanRequest, template Template) (domain.LoanRequest, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{
		"Tenure":       {},
		"Rate":         {},
		"Prepayment":   {},
		"Combinations": {},
	}
	for _, name := range registry.List() {
		t := registry.templates[name]
		switch {
		case strings.HasPrefix(name, "tenure_"):
			categories["Tenure"] = append(categories["Tenure"], t)
		case strings.HasPrefix(name, "rate_"):
			categories["Rate"] = append(categories["Rate"], t)
		case strings.HasPrefix(name, "prepay_"):
			categories["Prepayment"] = append(categories["Prepayment"], t)
		default:
			categories["Combinations"] = append(categories["Combinations"], t)
		}
	}

	for _, category := range []string{"Tenure", "Rate", "Prepayment", "Combinations"} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  finplan compare-loans --principal 500000 --years 5 --rate 10 --with rate_minus_50bp,prepay_10pct\n")

	return sb.String()
}
