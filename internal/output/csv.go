package output

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
)

// CSVFormatter writes the report in long form: one row per section, name, period and metric.
// Summary rows leave the period empty.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

type csvRow struct {
	section, name, period, metric string
	value                         decimal.Decimal
}

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	var rows []csvRow
	add := func(section, name, period, metric string, v decimal.Decimal) {
		rows = append(rows, csvRow{section, name, period, metric, v})
	}

	for _, s := range r.SIPs {
		add("sip", s.Name, "", "final_value", s.FinalValue)
		add("sip", s.Name, "", "total_contributed", s.TotalContributed)
		add("sip", s.Name, "", "total_gain", s.TotalGain)
		for _, p := range s.Series {
			period := intToString(p.PeriodIndex)
			add("sip", s.Name, period, "value", p.AccumulatedValue)
			add("sip", s.Name, period, "contributed", p.TotalContributed)
		}
	}
	for _, g := range r.Goals {
		add("goal", g.Name, "", "required_contribution", g.RequiredContribution)
		add("goal", g.Name, "", "total_contributed", g.TotalContributed)
		if a := g.Affordability; a != nil {
			add("goal", g.Name, "", "share_of_income", a.ShareOfIncome)
			add("goal", g.Name, "", "max_contribution", a.MaxContribution)
		}
		for _, p := range g.Series {
			add("goal", g.Name, intToString(p.PeriodIndex), "value", p.AccumulatedValue)
		}
	}
	for _, l := range r.Loans {
		add("loan", l.Name, "", "installment", l.Installment)
		add("loan", l.Name, "", "total_payment", l.TotalPayment)
		add("loan", l.Name, "", "total_interest", l.TotalInterest)
		for _, e := range l.Schedule {
			period := intToString(e.PeriodIndex)
			add("loan", l.Name, period, "interest", e.InterestPortion)
			add("loan", l.Name, period, "principal", e.PrincipalPortion)
			add("loan", l.Name, period, "balance", e.RemainingBalance)
		}
	}
	for _, t := range r.Taxes {
		for _, o := range []struct {
			prefix  string
			outcome domain.RegimeOutcome
		}{
			{"old", t.OldRegime},
			{"new", t.NewRegime},
		} {
			add("tax", t.Name, "", o.prefix+"_taxable_income", o.outcome.TaxableIncome)
			add("tax", t.Name, "", o.prefix+"_tax_payable", o.outcome.TaxPayable)
			add("tax", t.Name, "", o.prefix+"_marginal_rate", o.outcome.MarginalRate)
		}
		add("tax", t.Name, "", "savings", t.Savings)
		if t.SwitchSavings != nil {
			add("tax", t.Name, "", "switch_savings_from_"+string(t.CurrentRegime), *t.SwitchSavings)
		}
	}
	for _, b := range r.Budgets {
		add("budget", b.Name, "", "income", b.MonthlyIncome)
		add("budget", b.Name, "", "total_expenses", b.TotalExpenses)
		add("budget", b.Name, "", "savings", b.Savings)
		add("budget", b.Name, "", "savings_percent", b.SavingsPercent)
		for _, a := range b.Allocations {
			add("budget", b.Name, "", string(a.Category), a.Amount)
		}
	}
	if a := r.Sensitivity; a != nil {
		for _, p := range a.Points {
			add("sensitivity", string(a.Target), p.AnnualRatePercent.String(), "value", p.Value)
		}
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"section", "name", "period", "metric", "value"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.section, row.name, row.period, row.metric, row.value.StringFixed(2)}); err != nil {
			return nil, err
		}
	}
	if r.Comparison != nil {
		// comparison rows follow in their own table
		w.Flush()
		buf.WriteString("\n")
		table, err := (&compare.CSVFormatter{}).Format(r.Comparison)
		if err != nil {
			return nil, err
		}
		buf.WriteString(table)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
