package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultRulesVersion is the built-in rule table used when none is requested
const DefaultRulesVersion = "fy2023-24"

//go:embed rules/*.yaml rules/*.hcl
var builtinRules embed.FS

// RuleLoader reads versioned tax rule tables from YAML or HCL
type RuleLoader struct{}

// NewRuleLoader creates a new rule loader
func NewRuleLoader() *RuleLoader {
	return &RuleLoader{}
}

// Resolve returns the rule table named by ref: empty selects DefaultRulesVersion, a
// built-in version name selects that table, anything else is read as a file path.
func (rl *RuleLoader) Resolve(ref string) (*domain.TaxRuleTable, error) {
	if ref == "" {
		ref = DefaultRulesVersion
	}
	if name, ok := builtinFile(ref); ok {
		return rl.loadBuiltin(name)
	}
	return rl.LoadFromFile(ref)
}

// LoadFromFile loads and validates a rule table from a .yaml, .yml or .hcl file
func (rl *RuleLoader) LoadFromFile(filename string) (*domain.TaxRuleTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", filename, err)
	}
	return rl.Parse(data, filename)
}

// Parse decodes rule data, choosing the syntax from the filename extension
func (rl *RuleLoader) Parse(data []byte, filename string) (*domain.TaxRuleTable, error) {
	var (
		table *domain.TaxRuleTable
		err   error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml", ".json":
		table, err = rl.parseYAML(data)
	case ".hcl":
		table, err = rl.parseHCL(data, filename)
	default:
		return nil, fmt.Errorf("unsupported rule file type %q (expected .yaml, .yml, .json or .hcl)", filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if err := ValidateRules(table); err != nil {
		return nil, fmt.Errorf("rule table validation failed: %w", err)
	}
	return table, nil
}

// BuiltinVersions lists the embedded rule table versions
func BuiltinVersions() []string {
	entries, err := builtinRules.ReadDir("rules")
	if err != nil {
		return nil
	}
	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		versions = append(versions, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(versions)
	return versions
}

// BuiltinSource returns the raw text of an embedded rule table
func BuiltinSource(version string) ([]byte, error) {
	name, ok := builtinFile(version)
	if !ok {
		return nil, fmt.Errorf("unknown built-in rule table %q", version)
	}
	return builtinRules.ReadFile(name)
}

func builtinFile(version string) (string, bool) {
	for _, ext := range []string{".yaml", ".hcl"} {
		name := "rules/" + version + ext
		if _, err := fs.Stat(builtinRules, name); err == nil {
			return name, true
		}
	}
	return "", false
}

func (rl *RuleLoader) loadBuiltin(name string) (*domain.TaxRuleTable, error) {
	data, err := builtinRules.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in rules %s: %w", name, err)
	}
	return rl.Parse(data, name)
}

func (rl *RuleLoader) parseYAML(data []byte) (*domain.TaxRuleTable, error) {
	var table domain.TaxRuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// HCL rule files use labelled regime blocks and repeated slab blocks. Amounts are
// decoded as strings so they reach decimal without passing through float64.
type hclRuleFile struct {
	Metadata   hclMetadata   `hcl:"metadata,block"`
	Deductions hclDeductions `hcl:"deductions,block"`
	HRA        hclHRA        `hcl:"hra,block"`
	Regimes    []hclRegime   `hcl:"regime,block"`
}

type hclMetadata struct {
	Version       string `hcl:"version"`
	FinancialYear string `hcl:"financial_year,optional"`
	LastUpdated   string `hcl:"last_updated,optional"`
	Description   string `hcl:"description,optional"`
}

type hclDeductions struct {
	Section80C string `hcl:"section_80c"`
	Section80D string `hcl:"section_80d"`
}

type hclHRA struct {
	BasicSalaryShare string `hcl:"basic_salary_share"`
	RentExcessShare  string `hcl:"rent_excess_share"`
}

type hclRegime struct {
	Name              string    `hcl:"name,label"`
	AllowsExemptions  bool      `hcl:"allows_exemptions,optional"`
	StandardDeduction string    `hcl:"standard_deduction,optional"`
	RebateThreshold   string    `hcl:"rebate_threshold,optional"`
	CessRate          string    `hcl:"cess_rate,optional"`
	Slabs             []hclSlab `hcl:"slab,block"`
}

type hclSlab struct {
	Lower string  `hcl:"lower"`
	Upper *string `hcl:"upper,optional"`
	Rate  string  `hcl:"rate"`
}

func (rl *RuleLoader) parseHCL(data []byte, filename string) (*domain.TaxRuleTable, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(diags)
	}

	var raw hclRuleFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diagnosticsError(diags)
	}

	a := amountParser{}
	table := &domain.TaxRuleTable{
		Metadata: domain.RuleMetadata{
			Version:       raw.Metadata.Version,
			FinancialYear: raw.Metadata.FinancialYear,
			LastUpdated:   raw.Metadata.LastUpdated,
			Description:   raw.Metadata.Description,
		},
		Deductions: domain.DeductionCaps{
			Section80C: a.parse("deductions.section_80c", raw.Deductions.Section80C),
			Section80D: a.parse("deductions.section_80d", raw.Deductions.Section80D),
		},
		HRA: domain.HRARules{
			BasicSalaryShare: a.parse("hra.basic_salary_share", raw.HRA.BasicSalaryShare),
			RentExcessShare:  a.parse("hra.rent_excess_share", raw.HRA.RentExcessShare),
		},
		Regimes: make(map[domain.Regime]domain.RegimeRules, len(raw.Regimes)),
	}

	for _, r := range raw.Regimes {
		regime := domain.Regime(r.Name)
		if _, dup := table.Regimes[regime]; dup {
			return nil, fmt.Errorf("regime %q declared more than once", r.Name)
		}
		prefix := "regime." + r.Name
		rules := domain.RegimeRules{
			AllowsExemptions:  r.AllowsExemptions,
			StandardDeduction: a.parse(prefix+".standard_deduction", r.StandardDeduction),
			RebateThreshold:   a.parse(prefix+".rebate_threshold", r.RebateThreshold),
			CessRate:          a.parse(prefix+".cess_rate", r.CessRate),
		}
		for i, s := range r.Slabs {
			field := fmt.Sprintf("%s.slab[%d]", prefix, i)
			slab := domain.TaxSlab{
				Lower: a.parse(field+".lower", s.Lower),
				Rate:  a.parse(field+".rate", s.Rate),
			}
			if s.Upper != nil {
				upper := a.parse(field+".upper", *s.Upper)
				slab.Upper = &upper
			}
			rules.Slabs = append(rules.Slabs, slab)
		}
		table.Regimes[regime] = rules
	}

	if a.err != nil {
		return nil, a.err
	}
	return table, nil
}

// amountParser keeps the first decimal parse failure so decoding reads linearly
type amountParser struct {
	err error
}

func (a *amountParser) parse(field, s string) decimal.Decimal {
	if s == "" || a.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		a.err = fmt.Errorf("%s: invalid number %q: %w", field, s, err)
		return decimal.Zero
	}
	return d
}

func diagnosticsError(diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		if diag.Subject != nil {
			msg = fmt.Sprintf("line %d: %s", diag.Subject.Start.Line, msg)
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// ValidateRules checks a rule table for structural consistency
func ValidateRules(t *domain.TaxRuleTable) error {
	if t == nil {
		return fmt.Errorf("rule table is nil")
	}
	if t.Metadata.Version == "" {
		return fmt.Errorf("metadata.version is required")
	}
	if t.Deductions.Section80C.IsNegative() || t.Deductions.Section80D.IsNegative() {
		return fmt.Errorf("deduction caps must not be negative")
	}
	if err := validateShare("hra.basic_salary_share", t.HRA.BasicSalaryShare); err != nil {
		return err
	}
	if err := validateShare("hra.rent_excess_share", t.HRA.RentExcessShare); err != nil {
		return err
	}

	for regime := range t.Regimes {
		if regime != domain.RegimeOld && regime != domain.RegimeNew {
			return fmt.Errorf("unknown regime %q", regime)
		}
	}
	for _, regime := range []domain.Regime{domain.RegimeOld, domain.RegimeNew} {
		rules, ok := t.Regimes[regime]
		if !ok {
			return fmt.Errorf("%s regime is missing", regime)
		}
		if err := validateRegime(rules); err != nil {
			return fmt.Errorf("%s regime: %w", regime, err)
		}
	}
	return nil
}

func validateRegime(r domain.RegimeRules) error {
	if r.StandardDeduction.IsNegative() {
		return fmt.Errorf("standard_deduction must not be negative")
	}
	if r.RebateThreshold.IsNegative() {
		return fmt.Errorf("rebate_threshold must not be negative")
	}
	if err := validateShare("cess_rate", r.CessRate); err != nil {
		return err
	}
	if len(r.Slabs) == 0 {
		return fmt.Errorf("at least one slab is required")
	}
	if !r.Slabs[0].Lower.IsZero() {
		return fmt.Errorf("first slab must start at 0, got %s", r.Slabs[0].Lower)
	}

	for i, s := range r.Slabs {
		if err := validateShare(fmt.Sprintf("slab %d rate", i+1), s.Rate); err != nil {
			return err
		}
		if s.Upper == nil {
			if i != len(r.Slabs)-1 {
				return fmt.Errorf("slab %d is unbounded but is not the last slab", i+1)
			}
			continue
		}
		if !s.Upper.GreaterThan(s.Lower) {
			return fmt.Errorf("slab %d upper bound %s must exceed lower bound %s", i+1, s.Upper, s.Lower)
		}
		if i+1 < len(r.Slabs) && !r.Slabs[i+1].Lower.Equal(*s.Upper) {
			return fmt.Errorf("slab %d starts at %s but slab %d ends at %s", i+2, r.Slabs[i+1].Lower, i+1, s.Upper)
		}
	}
	return nil
}

func validateShare(field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be between 0 and 1, got %s", field, v)
	}
	return nil
}
