// Package report renders the ranked candidate architectures the enumerator
// and ranking packages produce (spec.md §6). It keeps the teacher's
// format-switch Reporter/NewReporter pattern, pointed at architecture
// candidates instead of bin-packing recommendations.
package report

import (
	"io"

	"github.com/guimove/clusterfit/internal/enumerator"
)

// Reporter writes a ranked candidate list to its destination.
type Reporter interface {
	Report(candidates []enumerator.Candidate, meta Meta) error
}

// Meta carries the run-level context a report header displays: the
// workload that was solved for and the display preferences the CLI was
// invoked with.
type Meta struct {
	DatasetGiB         float64
	TransactionsPerSec float64
	UpdateRatio        float64
	PriceUnit          string
	Delimiter          string // CSVReporter field delimiter; "" means comma

	HideCosts   bool
	HideLookups bool
	HideUpdates bool
	Terse       bool
}

// NewReporter creates a reporter for the given output mode writing to w.
// csv selects the machine-readable format; otherwise an interactive,
// color-coded table is produced.
func NewReporter(csv bool, w io.Writer) Reporter {
	if csv {
		return &CSVReporter{w: w}
	}
	return &TableReporter{w: w}
}

// priceUnitFactor converts an hourly USD figure into the requested display
// unit (spec.md §6, `--priceunit`).
func priceUnitFactor(unit string) float64 {
	switch unit {
	case "second":
		return 1.0 / 3600.0
	case "minute":
		return 1.0 / 60.0
	case "day":
		return 24.0
	case "month":
		return 24.0 * 30.0
	case "year":
		return 24.0 * 365.0
	default: // "hour"
		return 1.0
	}
}
