package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/clusterfit/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "clusterfit",
	Short: "Cost-and-feasibility explorer for cloud database architectures",
	Long: `ClusterFit takes an EC2-like instance catalog and a workload
description and enumerates every feasible way to deploy it across seven
abstract architecture families (classic, HADR, remote block device,
in-memory, Aurora-like, Socrates-like, dynamic), ranking the survivors by
cost, throughput, latency, and durability.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute runs the root command, recovering any panic that escapes a
// subcommand (an internal invariant violation, not a user input error) and
// reporting it the same way a normal command failure would be reported.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "clusterfit: internal error: %v\n", r)
			os.Exit(1)
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: clusterfit.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	f := rootCmd.PersistentFlags()
	f.String("instances-csv", "instances.csv", "path to the instance catalog file")
	f.String("catalog-delimiter", ",", "field delimiter used by the instance catalog file")
	f.StringSlice("instance-names", nil, "restrict the catalog to these instance names (default: no restriction)")
	f.Bool("show-hidden", false, "consider catalog rows marked consider=false")
	f.Float64("ec2-discount", 0, "flat fractional discount applied to the primary node's hourly price")
	f.String("catalog-overrides", "", "optional YAML file patching per-instance price/consider after the catalog is parsed")

	f.Float64("datasize", 100, "dataset size in GiB")
	f.Float64("transactions", 10000, "required total transactions per second")
	f.Float64("update-ratio", 0.2, "fraction of transactions that are updates (0-1)")
	f.Float64("lookup-zipf", 0, "Zipf skew for lookup keys (0 disables, requires update-ratio=0)")
	f.Uint64("pagesize", 8192, "page size in bytes")
	f.Uint64("tuplesize", 100, "average tuple size in bytes")
	f.Uint64("cpu-cost", 4000, "CPU cycles charged per operation")
	f.Float64("latency", 5_000_000, "required operation latency in nanoseconds")
	f.Int("durability", 6, "required durability, expressed in nines")
	f.Bool("group-commit", true, "allow group commit when computing commit latency")
	f.Bool("inter-az", true, "deploy secondaries across availability zones")
	f.Bool("index-only-tables", true, "dataset is index-organized rather than heap+index")
	f.Float64("intra-az-latency", 500_000, "intra-AZ network latency in nanoseconds")
	f.Float64("inter-az-latency", 2_000_000, "inter-AZ network latency in nanoseconds")

	f.Uint("min-replicas", 0, "minimum number of secondary replicas to search")
	f.Uint("max-replicas", 5, "maximum number of secondary replicas to search")
	f.StringSlice("architectures", nil, "restrict the search to these architecture families (default: all)")
	f.StringSlice("excludes", nil, "exclude these architecture families from the search")

	f.String("sort", "price", "comma-separated sort keys (price,updates,lookups,latency,durability,failover), prefix with - for descending")
	f.Int("trunc", 0, "maximum rows to display (0 = unlimited)")
	f.Bool("csv", false, "emit machine-readable CSV instead of an interactive table")
	f.String("delimiter", ",", "field delimiter for --csv output")
	f.String("priceunit", "hour", "price display unit: second, minute, hour, day, month, year")
	f.Bool("hide-costs", false, "omit the price column")
	f.Bool("hide-lookups", false, "omit the lookups column")
	f.Bool("hide-updates", false, "omit the updates column")
	f.Bool("terse", false, "omit latency/durability/failover columns")

	bindings := map[string]string{
		"instances-csv":      "catalog.path",
		"catalog-delimiter":  "catalog.delimiter",
		"instance-names":     "catalog.instance_names",
		"show-hidden":        "catalog.show_hidden",
		"ec2-discount":       "catalog.ec2_discount",
		"catalog-overrides":  "catalog.overrides_path",
		"datasize":           "workload.datasize_gib",
		"transactions":       "workload.transactions",
		"update-ratio":       "workload.update_ratio",
		"lookup-zipf":        "workload.lookup_zipf",
		"pagesize":           "workload.pagesize",
		"tuplesize":          "workload.tuplesize",
		"cpu-cost":           "workload.cpu_cost",
		"latency":            "workload.latency_ns",
		"durability":         "workload.durability_nines",
		"group-commit":       "workload.group_commit",
		"inter-az":           "workload.inter_az",
		"index-only-tables":  "workload.index_only_tables",
		"intra-az-latency":   "workload.intra_az_latency_ns",
		"inter-az-latency":   "workload.inter_az_latency_ns",
		"min-replicas":       "search.min_replicas",
		"max-replicas":       "search.max_replicas",
		"architectures":      "search.architectures",
		"excludes":           "search.excludes",
		"sort":               "output.sort",
		"trunc":              "output.trunc",
		"csv":                "output.csv",
		"delimiter":          "output.delimiter",
		"priceunit":          "output.priceunit",
		"hide-costs":         "output.hide_costs",
		"hide-lookups":       "output.hide_lookups",
		"hide-updates":       "output.hide_updates",
		"terse":              "output.terse",
	}
	for flag, key := range bindings {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}
}

func loadConfig() error {
	cfg = config.Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("clusterfit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.clusterfit")
	}

	viper.SetEnvPrefix("CLUSTERFIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return cfg.Validate()
}
