package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/guimove/clusterfit/internal/enumerator"
)

// TableReporter renders an interactive, color-coded ASCII table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(candidates []enumerator.Candidate, meta Meta) error {
	fmt.Fprintf(r.w, "\nworkload: %.0f GiB, %.0f tx/s (%.0f%% updates)\n\n",
		meta.DatasetGiB, meta.TransactionsPerSec, meta.UpdateRatio*100)

	if len(candidates) == 0 {
		fmt.Fprintln(r.w, "no feasible architecture found")
		return nil
	}

	table := tablewriter.NewWriter(r.w)
	table.SetHeader(header(meta))

	unit := priceUnitFactor(meta.PriceUnit)
	requiredUpdates := candidates[0].Architecture.Parameter.RequiredUpdateOps
	requiredLookups := candidates[0].Architecture.Parameter.RequiredLookupOps

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
			row = append(row, colorIfMeets(a.Updates.PerSecond(), requiredUpdates.PerSecond()))
		}
		if !meta.HideLookups {
			row = append(row, colorIfMeets(a.RandomLookupTx().PerSecond(), requiredLookups.PerSecond()))
		}
		if !meta.Terse {
			row = append(row,
				fmt.Sprintf("%.2f", a.OpLatency.AvgNS/1e6),
				fmt.Sprintf("%.6f", a.DurabilityVal.Probability),
				fmt.Sprintf("%.1f", a.FailoverTimeVal.Seconds),
			)
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

func header(meta Meta) []string {
	h := []string{"#", "family", "node"}
	if !meta.HideCosts {
		h = append(h, "price/"+orDefault(meta.PriceUnit, "hour"))
	}
	if !meta.HideUpdates {
		h = append(h, "updates/s")
	}
	if !meta.HideLookups {
		h = append(h, "lookups/s")
	}
	if !meta.Terse {
		h = append(h, "latency(ms)", "durability", "failover(s)")
	}
	return h
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// colorIfMeets green-codes an achieved rate that meets its required floor.
// Coloring is interactive-only; CSVReporter never calls this.
func colorIfMeets(achieved, required float64) string {
	s := fmt.Sprintf("%.1f", achieved)
	if required > 0 && achieved >= required {
		return color.GreenString(s)
	}
	return s
}
