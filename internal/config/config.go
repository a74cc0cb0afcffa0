// Package config holds the workload and output defaults the cobra
// command tree binds its flags onto (SPEC_FULL.md §2, "Config"),
// mirroring the teacher's Default()/Validate() pattern.
package config

import (
	"fmt"

	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/workload"
)

// Config is the top-level configuration for the explorer: the workload
// a candidate architecture must sustain, the replica/device search
// space, and how results are rendered.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Workload WorkloadConfig `yaml:"workload"`
	Search   SearchConfig   `yaml:"search"`
	Output   OutputConfig   `yaml:"output"`
}

// CatalogConfig selects and filters the instance-catalog file.
type CatalogConfig struct {
	Path          string   `yaml:"path"`
	Delimiter     string   `yaml:"delimiter"`
	InstanceNames []string `yaml:"instance_names"` // empty = no allowlist filter
	ShowHidden    bool     `yaml:"show_hidden"`    // include consider=false rows
	EC2Discount   float64  `yaml:"ec2_discount"`
	OverridesPath string   `yaml:"overrides_path"` // optional per-name price/consider patch file
}

// WorkloadConfig carries the dataset/transaction-mix knobs that become a
// workload.Parameter.
type WorkloadConfig struct {
	DatasetGiB        float64 `yaml:"datasize_gib"`
	TransactionsPerSec float64 `yaml:"transactions"`
	UpdateRatio       float64 `yaml:"update_ratio"`
	LookupZipf        float64 `yaml:"lookup_zipf"`
	PageSizeBytes     uint64  `yaml:"pagesize"`
	TupleSizeBytes    uint64  `yaml:"tuplesize"`
	CPUCostCycles     uint64  `yaml:"cpu_cost"`
	LatencyNS         float64 `yaml:"latency_ns"`
	DurabilityNines   int     `yaml:"durability_nines"`
	GroupCommit       bool    `yaml:"group_commit"`
	InterAZ           bool    `yaml:"inter_az"`
	IndexOnlyTables   bool    `yaml:"index_only_tables"`
	IntraAZLatencyNS  float64 `yaml:"intra_az_latency_ns"`
	InterAZLatencyNS  float64 `yaml:"inter_az_latency_ns"`
}

// SearchConfig bounds the enumerator's replica search and family
// selection.
type SearchConfig struct {
	MinReplicas   uint     `yaml:"min_replicas"`
	MaxReplicas   uint     `yaml:"max_replicas"`
	Architectures []string `yaml:"architectures"` // empty = all families
	Excludes      []string `yaml:"excludes"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Sort       string `yaml:"sort"`
	Truncate   int    `yaml:"trunc"`
	CSV        bool   `yaml:"csv"`
	Delimiter  string `yaml:"delimiter"`
	PriceUnit  string `yaml:"priceunit"`
	HideCosts  bool   `yaml:"hide_costs"`
	HideLookups bool  `yaml:"hide_lookups"`
	HideUpdates bool  `yaml:"hide_updates"`
	Terse      bool   `yaml:"terse"`
}

// Default returns a Config with the spec's documented defaults.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Path:      "instances.csv",
			Delimiter: ",",
		},
		Workload: WorkloadConfig{
			DatasetGiB:         100,
			TransactionsPerSec: 10000,
			UpdateRatio:        0.2,
			LookupZipf:         0,
			PageSizeBytes:      8192,
			TupleSizeBytes:     100,
			CPUCostCycles:      4000,
			LatencyNS:          5_000_000,
			DurabilityNines:    6,
			GroupCommit:        true,
			InterAZ:            true,
			IndexOnlyTables:    true,
			IntraAZLatencyNS:   500_000,
			InterAZLatencyNS:   2_000_000,
		},
		Search: SearchConfig{
			MinReplicas: 0,
			MaxReplicas: 5,
		},
		Output: OutputConfig{
			Sort:      "price",
			Truncate:  0,
			Delimiter: ",",
			PriceUnit: "hour",
		},
	}
}

// Validate checks the config for consistency, matching the invalid
// combinations spec.md §6 calls out as an exit-1 input violation.
func (c *Config) Validate() error {
	if c.Workload.UpdateRatio < 0 || c.Workload.UpdateRatio > 1 {
		return fmt.Errorf("update-ratio must be between 0 and 1, got %v", c.Workload.UpdateRatio)
	}
	if c.Workload.LookupZipf > 0 && c.Workload.UpdateRatio != 0 {
		return fmt.Errorf("lookup-zipf requires update-ratio=0, got update-ratio=%v", c.Workload.UpdateRatio)
	}
	if c.Search.MinReplicas > c.Search.MaxReplicas {
		return fmt.Errorf("min-replicas (%d) must not exceed max-replicas (%d)", c.Search.MinReplicas, c.Search.MaxReplicas)
	}
	if c.Workload.DatasetGiB <= 0 {
		return fmt.Errorf("datasize must be positive, got %v", c.Workload.DatasetGiB)
	}
	if c.Workload.DurabilityNines < 0 {
		return fmt.Errorf("durability nines must be non-negative, got %d", c.Workload.DurabilityNines)
	}
	validUnits := map[string]bool{"second": true, "minute": true, "hour": true, "day": true, "month": true, "year": true}
	if !validUnits[c.Output.PriceUnit] {
		return fmt.Errorf("priceunit must be one of second/minute/hour/day/month/year, got %q", c.Output.PriceUnit)
	}
	return nil
}

// Parameter converts the validated config into the workload.Parameter the
// core solves against, layering the config's knobs over workload.Default()
// for every ambient field the CLI does not expose directly.
func (c Config) Parameter() workload.Parameter {
	p := workload.Default()

	p.DatasetSizeBytes = uint64(c.Workload.DatasetGiB * float64(1<<30))
	total := c.Workload.TransactionsPerSec
	updates := total * c.Workload.UpdateRatio
	lookups := total - updates
	p.RequiredUpdateOps = quantity.Secondly(updates)
	p.RequiredLookupOps = quantity.Secondly(lookups)
	p.LookupZipf = c.Workload.LookupZipf

	if c.Workload.PageSizeBytes > 0 {
		p.PageSize = c.Workload.PageSizeBytes
	}
	if c.Workload.TupleSizeBytes > 0 {
		p.TupleSize = c.Workload.TupleSizeBytes
	}
	if c.Workload.CPUCostCycles > 0 {
		p.CPUCost = c.Workload.CPUCostCycles
	}

	p.GroupCommit = c.Workload.GroupCommit
	p.DeployAcrossAZ = c.Workload.InterAZ
	p.IndexOnlyTables = c.Workload.IndexOnlyTables
	if c.Workload.IntraAZLatencyNS > 0 {
		p.IntraAZLatencyNS = c.Workload.IntraAZLatencyNS
	}
	if c.Workload.InterAZLatencyNS > 0 {
		p.InterAZLatencyNS = c.Workload.InterAZLatencyNS
	}
	p.EC2Discount = c.Catalog.EC2Discount
	p.RequiredDurability = quantity.FromNines(c.Workload.DurabilityNines)
	if c.Workload.LatencyNS > 0 {
		p.RequiredOpLatency = quantity.Flat(c.Workload.LatencyNS)
	}

	p.MinSecondaries = c.Search.MinReplicas
	p.MaxSecondaries = c.Search.MaxReplicas

	return p
}
