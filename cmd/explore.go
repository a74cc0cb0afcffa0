package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guimove/clusterfit/internal/architecture"
	"github.com/guimove/clusterfit/internal/catalog"
	"github.com/guimove/clusterfit/internal/config"
	"github.com/guimove/clusterfit/internal/enumerator"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/ranking"
	"github.com/guimove/clusterfit/internal/report"
	"github.com/guimove/clusterfit/internal/resource"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Enumerate and rank feasible architectures for the configured workload",
	RunE:  runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

var familyByName = map[string]architecture.Type{
	"classic":  architecture.Classic,
	"hadr":     architecture.HADR,
	"rbd":      architecture.RemoteBlockDevice,
	"inmem":    architecture.InMemory,
	"aurora":   architecture.AuroraLike,
	"socrates": architecture.SocratesLike,
	"dynamic":  architecture.Dynamic,
}

// resolveFamilies turns the --architectures/--excludes name lists into the
// concrete family set the enumerator should search. An empty "include" list
// means every family; unrecognized names are rejected rather than silently
// dropped, since the caller picked them explicitly.
func resolveFamilies(include, exclude []string) ([]architecture.Type, error) {
	excluded := make(map[architecture.Type]bool, len(exclude))
	for _, name := range exclude {
		t, ok := familyByName[name]
		if !ok {
			return nil, fmt.Errorf("unknown architecture family %q", name)
		}
		excluded[t] = true
	}

	base := enumerator.Families
	if len(include) > 0 {
		base = nil
		for _, name := range include {
			t, ok := familyByName[name]
			if !ok {
				return nil, fmt.Errorf("unknown architecture family %q", name)
			}
			base = append(base, t)
		}
	}

	var out []architecture.Type
	for _, t := range base {
		if !excluded[t] {
			out = append(out, t)
		}
	}
	return out, nil
}

func loadCatalog() ([]resource.Node, error) {
	f, err := os.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("opening instance catalog: %w", err)
	}
	defer f.Close()

	delim := ','
	if len(cfg.Catalog.Delimiter) > 0 {
		delim = rune(cfg.Catalog.Delimiter[0])
	}
	entries, err := catalog.Parse(f, delim)
	if err != nil {
		return nil, err
	}

	var overrides map[string]config.InstanceOverride
	if cfg.Catalog.OverridesPath != "" {
		overrides, err = config.LoadInstanceOverrides(cfg.Catalog.OverridesPath)
		if err != nil {
			return nil, err
		}
	}

	allow := make(map[string]bool, len(cfg.Catalog.InstanceNames))
	for _, n := range cfg.Catalog.InstanceNames {
		allow[n] = true
	}

	var nodes []resource.Node
	for _, e := range entries {
		if o, ok := overrides[e.Node.Name]; ok {
			if o.Price != nil {
				e.Node.Price = quantity.Hourly(*o.Price, e.Node.Price.Category)
			}
			if o.Consider != nil {
				e.Consider = *o.Consider
			}
		}
		if !e.Consider && !cfg.Catalog.ShowHidden {
			continue
		}
		if len(allow) > 0 && !allow[e.Node.Name] {
			continue
		}
		nodes = append(nodes, e.Node)
	}
	return nodes, nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	families, err := resolveFamilies(cfg.Search.Architectures, cfg.Search.Excludes)
	if err != nil {
		return err
	}

	nodes, err := loadCatalog()
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("no usable instance catalog rows after filtering")
	}

	p := cfg.Parameter()
	candidates := enumerator.Run(p, nodes, families)
	sorted := ranking.Sort(candidates, cfg.Output.Sort)
	sorted = ranking.Truncate(sorted, cfg.Output.Truncate, 1)

	r := report.NewReporter(cfg.Output.CSV, os.Stdout)
	return r.Report(sorted, report.Meta{
		DatasetGiB:         cfg.Workload.DatasetGiB,
		TransactionsPerSec: cfg.Workload.TransactionsPerSec,
		UpdateRatio:        cfg.Workload.UpdateRatio,
		PriceUnit:          cfg.Output.PriceUnit,
		Delimiter:          cfg.Output.Delimiter,
		HideCosts:          cfg.Output.HideCosts,
		HideLookups:        cfg.Output.HideLookups,
		HideUpdates:        cfg.Output.HideUpdates,
		Terse:              cfg.Output.Terse,
	})
}
