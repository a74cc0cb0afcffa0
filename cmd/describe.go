package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the parsed instance catalog without running the explorer",
	RunE:  runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	nodes, err := loadCatalog()
	if err != nil {
		return err
	}

	fmt.Printf("%d instance(s) in %s\n\n", len(nodes), cfg.Catalog.Path)
	for _, n := range nodes {
		fmt.Printf("%-20s %4d vCPU  %8.1f GiB mem  $%.4f/hr  %d Gbps x%d devices\n",
			n.Name, n.CPU.Count, float64(n.Memory.Bytes)/float64(1<<30), n.Price.Value,
			n.Network.SpeedGbps, n.Network.Devices)
	}
	return nil
}
