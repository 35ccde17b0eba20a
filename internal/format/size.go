package format

import "github.com/ledgerlens/ledgerlens/internal/finance"

// SizeEstimates are per-item output sizes in bytes, one per
// verbosity level. They are deliberately rough; the chooser only
// needs relative magnitudes.
type SizeEstimates struct {
	Brief    int
	Summary  int
	Detailed int
}

var estimatesByKind = map[finance.Kind]SizeEstimates{
	finance.KindTransactions: {Brief: 1, Summary: 80, Detailed: 140},
	finance.KindAccounts:     {Brief: 1, Summary: 60, Detailed: 110},
	finance.KindBudgets:      {Brief: 1, Summary: 55, Detailed: 100},
	finance.KindCategories:   {Brief: 1, Summary: 35, Detailed: 60},
}

// EstimatesFor returns the built-in per-item estimates for a kind.
func EstimatesFor(kind finance.Kind) SizeEstimates {
	if e, ok := estimatesByKind[kind]; ok {
		return e
	}
	return estimatesByKind[finance.KindTransactions]
}

// ChooseVerbosity picks the highest verbosity whose estimated total
// (per-item estimate × count) fits within maxBytes: Detailed first,
// then Summary, else Brief unconditionally — Brief never fails to
// fit.
func ChooseVerbosity(est SizeEstimates, count, maxBytes int) Verbosity {
	if count*est.Detailed <= maxBytes {
		return Detailed
	}
	if count*est.Summary <= maxBytes {
		return Summary
	}
	return Brief
}

// ChooseVerbosityFor is ChooseVerbosity with the built-in estimate
// table for the kind.
func ChooseVerbosityFor(kind finance.Kind, count, maxBytes int) Verbosity {
	return ChooseVerbosity(EstimatesFor(kind), count, maxBytes)
}
