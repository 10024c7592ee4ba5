package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinVersions(t *testing.T) {
	assert.Equal(t, []string{"fy2023-24", "fy2023-24-full"}, BuiltinVersions())
}

func TestRuleLoader_ResolveDefault(t *testing.T) {
	table, err := NewRuleLoader().Resolve("")
	require.NoError(t, err)

	assert.Equal(t, DefaultRulesVersion, table.Metadata.Version)
	assert.True(t, table.Deductions.Section80C.Equal(decimal.NewFromInt(150000)))
	assert.True(t, table.Deductions.Section80D.Equal(decimal.NewFromInt(25000)))
	assert.True(t, table.HRA.BasicSalaryShare.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, table.HRA.RentExcessShare.Equal(decimal.NewFromFloat(0.1)))

	old, ok := table.Regime(domain.RegimeOld)
	require.True(t, ok)
	assert.True(t, old.AllowsExemptions)
	assert.True(t, old.StandardDeduction.IsZero())
	require.Len(t, old.Slabs, 4)
	assert.Nil(t, old.Slabs[3].Upper)
	assert.True(t, old.Slabs[2].Rate.Equal(decimal.NewFromFloat(0.2)))

	nw, ok := table.Regime(domain.RegimeNew)
	require.True(t, ok)
	assert.False(t, nw.AllowsExemptions)
	require.Len(t, nw.Slabs, 6)
	assert.True(t, nw.Slabs[1].Upper.Equal(decimal.NewFromInt(600000)))
}

func TestRuleLoader_ResolveBuiltinHCL(t *testing.T) {
	table, err := NewRuleLoader().Resolve("fy2023-24-full")
	require.NoError(t, err)

	assert.Equal(t, "fy2023-24-full", table.Metadata.Version)
	assert.Equal(t, "2023-24", table.Metadata.FinancialYear)

	old := table.Regimes[domain.RegimeOld]
	assert.True(t, old.StandardDeduction.Equal(decimal.NewFromInt(50000)))
	assert.True(t, old.RebateThreshold.Equal(decimal.NewFromInt(500000)))
	assert.True(t, old.CessRate.Equal(decimal.NewFromFloat(0.04)))
	require.Len(t, old.Slabs, 4)
	assert.True(t, old.Slabs[1].Rate.Equal(decimal.NewFromFloat(0.05)))

	nw := table.Regimes[domain.RegimeNew]
	assert.True(t, nw.RebateThreshold.Equal(decimal.NewFromInt(700000)))
	require.Len(t, nw.Slabs, 6)
	assert.Nil(t, nw.Slabs[5].Upper)
}

func TestBuiltinTables_AgreeOnSlabs(t *testing.T) {
	loader := NewRuleLoader()
	yamlTable, err := loader.Resolve("fy2023-24")
	require.NoError(t, err)
	hclTable, err := loader.Resolve("fy2023-24-full")
	require.NoError(t, err)

	for _, regime := range []domain.Regime{domain.RegimeOld, domain.RegimeNew} {
		a, b := yamlTable.Regimes[regime].Slabs, hclTable.Regimes[regime].Slabs
		require.Len(t, b, len(a))
		for i := range a {
			assert.True(t, a[i].Lower.Equal(b[i].Lower), "%s slab %d lower", regime, i)
			assert.True(t, a[i].Rate.Equal(b[i].Rate), "%s slab %d rate", regime, i)
			assert.Equal(t, a[i].Upper == nil, b[i].Upper == nil)
		}
	}
}

func TestRuleLoader_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	src, err := BuiltinSource("fy2023-24")
	require.NoError(t, err)

	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	table, err := NewRuleLoader().Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "fy2023-24", table.Metadata.Version)

	_, err = NewRuleLoader().LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read rule file")

	txt := filepath.Join(dir, "rules.txt")
	require.NoError(t, os.WriteFile(txt, src, 0o644))
	_, err = NewRuleLoader().LoadFromFile(txt)
	assert.ErrorContains(t, err, "unsupported rule file type")

	_, err = BuiltinSource("fy1999")
	assert.Error(t, err)
}

func TestRuleLoader_ParseHCLErrors(t *testing.T) {
	loader := NewRuleLoader()

	_, err := loader.Parse([]byte(`metadata {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse broken.hcl")

	_, err = loader.Parse([]byte(`
metadata { version = "x" }
deductions {
  section_80c = "lots"
  section_80d = 25000
}
hra {
  basic_salary_share = 0.5
  rent_excess_share  = 0.1
}
`), "bad-number.hcl")
	assert.ErrorContains(t, err, "deductions.section_80c")

	_, err = loader.Parse([]byte(`
metadata { version = "x" }
deductions {
  section_80c = 150000
  section_80d = 25000
}
hra {
  basic_salary_share = 0.5
  rent_excess_share  = 0.1
}
regime "old" {
  slab {
    lower = 0
    rate  = 0.1
  }
}
`), "one-regime.hcl")
	assert.ErrorContains(t, err, "new regime is missing")
}

func TestValidateRules(t *testing.T) {
	valid := func() *domain.TaxRuleTable {
		table, err := NewRuleLoader().Resolve("fy2023-24")
		require.NoError(t, err)
		return table
	}
	amount := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}

	tests := []struct {
		name    string
		mutate  func(*domain.TaxRuleTable)
		wantErr string
	}{
		{"missing version", func(t *domain.TaxRuleTable) { t.Metadata.Version = "" }, "metadata.version"},
		{"negative cap", func(t *domain.TaxRuleTable) { t.Deductions.Section80C = decimal.NewFromInt(-1) }, "deduction caps"},
		{"share above one", func(t *domain.TaxRuleTable) { t.HRA.BasicSalaryShare = decimal.NewFromFloat(1.5) }, "hra.basic_salary_share"},
		{"unknown regime", func(t *domain.TaxRuleTable) { t.Regimes["flat"] = t.Regimes[domain.RegimeOld] }, "unknown regime"},
		{"gap between slabs", func(t *domain.TaxRuleTable) {
			r := t.Regimes[domain.RegimeOld]
			r.Slabs[1].Lower = decimal.NewFromInt(260000)
			t.Regimes[domain.RegimeOld] = r
		}, "slab 2 starts at 260000"},
		{"unbounded middle slab", func(t *domain.TaxRuleTable) {
			r := t.Regimes[domain.RegimeNew]
			r.Slabs[2].Upper = nil
			t.Regimes[domain.RegimeNew] = r
		}, "not the last slab"},
		{"inverted slab", func(t *domain.TaxRuleTable) {
			r := t.Regimes[domain.RegimeOld]
			r.Slabs[0].Upper = amount(0)
			t.Regimes[domain.RegimeOld] = r
		}, "must exceed lower bound"},
		{"rate above one", func(t *domain.TaxRuleTable) {
			r := t.Regimes[domain.RegimeOld]
			r.Slabs[3].Rate = decimal.NewFromInt(2)
			t.Regimes[domain.RegimeOld] = r
		}, "slab 4 rate"},
		{"first slab not at zero", func(t *domain.TaxRuleTable) {
			r := t.Regimes[domain.RegimeNew]
			r.Slabs = r.Slabs[1:]
			t.Regimes[domain.RegimeNew] = r
		}, "first slab must start at 0"},
		{"no slabs", func(t *domain.TaxRuleTable) {
			r := t.Regimes[domain.RegimeNew]
			r.Slabs = nil
			t.Regimes[domain.RegimeNew] = r
		}, "at least one slab"},
		{"negative cess", func(t *domain.TaxRuleTable) {
			r := t.Regimes[domain.RegimeNew]
			r.CessRate = decimal.NewFromFloat(-0.04)
			t.Regimes[domain.RegimeNew] = r
		}, "cess_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := valid()
			tt.mutate(table)
			assert.ErrorContains(t, ValidateRules(table), tt.wantErr)
		})
	}

	assert.NoError(t, ValidateRules(valid()))
	assert.Error(t, ValidateRules(nil))
}
