package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/guimove/clusterfit/internal/enumerator"
)

// CSVReporter writes the ranked candidates as delimited rows, uncolored,
// for scripted consumption (spec.md §6, `--csv`).
type CSVReporter struct {
	w io.Writer
}

func (r *CSVReporter) Report(candidates []enumerator.Candidate, meta Meta) error {
	cw := csv.NewWriter(r.w)
	if meta.Delimiter != "" {
		cw.Comma = rune(meta.Delimiter[0])
	}
	defer cw.Flush()

	if err := cw.Write(header(meta)); err != nil {
		return fmt.Errorf("report: writing csv header: %w", err)
	}

	unit := priceUnitFactor(meta.PriceUnit)
	for i, c := range candidates {
		a := c.Architecture
		row := []string{
			fmt.Sprintf("%d", i+1),
			a.Type.String(),
			c.Node.Name,
		}
		if !meta.HideCosts {
			row = append(row, fmt.Sprintf("%.4f", a.TotalPrice().Value*unit))
		}
		if !meta.HideUpdates {
			row = append(row, fmt.Sprintf("%.1f", a.Updates.PerSecond()))
		}
		if !meta.HideLookups {
			row = append(row, fmt.Sprintf("%.1f", a.RandomLookupTx().PerSecond()))
		}
		if !meta.Terse {
			row = append(row,
				fmt.Sprintf("%.2f", a.OpLatency.AvgNS/1e6),
				fmt.Sprintf("%.6f", a.DurabilityVal.Probability),
				fmt.Sprintf("%.1f", a.FailoverTimeVal.Seconds),
			)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: writing csv row: %w", err)
		}
	}
	return nil
}
