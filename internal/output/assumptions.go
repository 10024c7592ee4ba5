package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Contributions are credited at the start of each period, before that period's growth",
	"Annual rates are converted to monthly rates by dividing by 12 (no effective-rate conversion)",
	"Loan installments are fixed; the final installment absorbs rounding so the balance ends at zero",
	"Tax figures follow the loaded rule table; surcharge and marginal relief are not modeled",
	"Returns are nominal; inflation is not modeled",
}
