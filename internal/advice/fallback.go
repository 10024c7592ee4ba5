package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// FallbackAdvisor writes short rule-based commentary from the figures alone
type FallbackAdvisor struct{}

// Advise implements Advisor
func (FallbackAdvisor) Advise(_ context.Context, req Request) (Summary, error) {
	var lines []string
	switch f := req.Figures.(type) {
	case *domain.SIPResponse:
		lines = sipAdvice(f)
	case *domain.GoalResponse:
		lines = goalAdvice(f)
	case *domain.LoanResponse:
		lines = loanAdvice(f)
	case *domain.TaxResponse:
		lines = taxAdvice(f)
	case *domain.BudgetAnalysis:
		lines = budgetAdvice(f)
	case *domain.SensitivityAnalysis:
		lines = sensitivityAdvice(f)
	case *domain.PlanResult:
		lines = planAdvice(f)
	default:
		return nil, fmt.Errorf("no fallback advice for %T", req.Figures)
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return TextSummary{Text: b.String()}, nil
}

func sipAdvice(r *domain.SIPResponse) []string {
	lines := []string{
		fmt.Sprintf("Your contributions of %s grow to %s.", money.Format(r.TotalContributed), money.Format(r.FinalValue)),
	}
	if r.TotalContributed.IsPositive() {
		multiple := r.FinalValue.DivRound(r.TotalContributed, 2)
		lines = append(lines, fmt.Sprintf("Compounding adds %s, %sx what you put in.", money.Format(r.TotalGain), multiple.StringFixed(2)))
	}
	lines = append(lines, "Staying invested for the full term matters more than the entry date.")
	return lines
}

func goalAdvice(r *domain.GoalResponse) []string {
	lines := []string{
		fmt.Sprintf("Invest %s every month to reach your goal.", money.Format(r.RequiredContribution)),
	}
	if a := r.Affordability; a != nil {
		if a.Affordable {
			lines = append(lines, fmt.Sprintf("That is %s of your income, within the recommended %s.",
				money.Percent(a.ShareOfIncome), money.Format(a.MaxContribution)))
		} else {
			lines = append(lines, fmt.Sprintf("That is %s of your income; consider a longer horizon or a smaller target to stay under %s.",
				money.Percent(a.ShareOfIncome), money.Format(a.MaxContribution)))
		}
	}
	return lines
}

func loanAdvice(r *domain.LoanResponse) []string {
	lines := []string{
		fmt.Sprintf("Your EMI is %s and you will pay %s in interest.", money.Format(r.Installment), money.Format(r.TotalInterest)),
	}
	if r.TotalPayment.IsPositive() {
		share := r.TotalInterest.DivRound(r.TotalPayment, 4)
		lines = append(lines, fmt.Sprintf("Interest is %s of everything you repay; prepayments early in the term cut it fastest.", money.Percent(share)))
	}
	return lines
}

func taxAdvice(r *domain.TaxResponse) []string {
	lines := []string{
		fmt.Sprintf("The %s saves you %s this year.", r.RecommendedRegime.Title(), money.Format(r.Savings)),
	}
	if r.SwitchSavings != nil && r.SwitchSavings.IsPositive() {
		lines = append(lines, fmt.Sprintf("You are on the %s; switching at the next filing saves %s.",
			r.CurrentRegime.Title(), money.Format(*r.SwitchSavings)))
	}
	return append(lines, r.Suggestions...)
}

func budgetAdvice(b *domain.BudgetAnalysis) []string {
	lines := []string{
		fmt.Sprintf("You save %s of %s each month (%s%%).", money.Format(b.Savings), money.Format(b.MonthlyIncome), b.SavingsPercent.StringFixed(1)),
	}
	var largest *domain.BudgetAllocation
	for i := range b.Allocations {
		a := &b.Allocations[i]
		if a.Category == domain.ExpenseSavings || !a.Amount.IsPositive() {
			continue
		}
		if largest == nil || a.Amount.GreaterThan(largest.Amount) {
			largest = a
		}
	}
	if largest != nil {
		lines = append(lines, fmt.Sprintf("Your largest expense is %s at %s of income.", largest.Category, money.Percent(largest.ShareOfIncome)))
	}
	return append(lines, b.Verdict)
}

func sensitivityAdvice(a *domain.SensitivityAnalysis) []string {
	lines := []string{
		fmt.Sprintf("Across the swept rates the result ranges from %s to %s.", money.Format(a.Summary.MinValue), money.Format(a.Summary.MaxValue)),
	}
	switch a.Summary.Sensitivity {
	case "HIGH":
		lines = append(lines, "The outcome is highly rate dependent; plan around the pessimistic end of the range.")
	case "LOW":
		lines = append(lines, "The outcome barely moves with the rate.")
	}
	return lines
}

func planAdvice(p *domain.PlanResult) []string {
	var lines []string
	for i := range p.SIPs {
		lines = append(lines, sipAdvice(&p.SIPs[i])[0])
	}
	for i := range p.Goals {
		lines = append(lines, goalAdvice(&p.Goals[i])...)
	}
	for i := range p.Loans {
		lines = append(lines, loanAdvice(&p.Loans[i])[0])
	}
	for i := range p.Taxes {
		lines = append(lines, taxAdvice(&p.Taxes[i])[0])
	}
	for i := range p.Budgets {
		lines = append(lines, budgetAdvice(&p.Budgets[i])[0])
	}
	return lines
}
