package enumerator

import (
	"testing"

	"github.com/guimove/clusterfit/internal/architecture"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

func smallNode() resource.Node {
	return resource.Node{
		Name:            "small.xlarge",
		CPU:             resource.CPU{Count: 4, SpeedHz: 2.2e9},
		Memory:          resource.MemoryGiB(16),
		Network:         resource.Network{SpeedGbps: 10, Devices: 1},
		Price:           quantity.Hourly(0.3, quantity.CategoryCompute),
		InstanceStorage: resource.InstanceStorage{Type: resource.StorageNVMe, SizePerDevice: 200 * resource.GiB, Devices: 1, ReadOps: 100000, WriteOps: 50000},
		MachineEBS:      resource.MachineEBSLimits{BaseIOPS: quantity.Secondly(16000), BaseThroughput: 1000 * 1024 * 1024},
	}
}

func midNode() resource.Node {
	n := smallNode()
	n.Name = "mid.2xlarge"
	n.CPU.Count = 8
	n.Memory = resource.MemoryGiB(64)
	n.InstanceStorage.SizePerDevice = 1000 * resource.GiB
	n.InstanceStorage.ReadOps = 200000
	n.InstanceStorage.WriteOps = 100000
	n.Price = quantity.Hourly(0.8, quantity.CategoryCompute)
	return n
}

func storageHeavyNode() resource.Node {
	n := smallNode()
	n.Name = "storage.4xlarge"
	n.CPU.Count = 16
	n.Memory = resource.MemoryGiB(128)
	n.InstanceStorage.Devices = 4
	n.InstanceStorage.SizePerDevice = 2000 * resource.GiB
	n.InstanceStorage.ReadOps = 400000
	n.InstanceStorage.WriteOps = 200000
	n.Network.SpeedGbps = 25
	n.Price = quantity.Hourly(2.5, quantity.CategoryCompute)
	return n
}

func baseParameter() workload.Parameter {
	p := workload.Default()
	p.DatasetSizeBytes = 10 * resource.GiB
	p.DataBloat = 1.0
	p.RequiredLookupOps = quantity.Secondly(10000)
	p.RequiredUpdateOps = quantity.Zero
	p.RequiredDurability = quantity.FromNines(3)
	p.MinSecondaries = 0
	p.MaxSecondaries = 2
	return p
}

// S1: small dataset entirely cacheable, no updates — Classic and InMemory
// both assemble (spec.md §8, S1).
func TestRun_ClassicAndInMemorySurviveSmallDataset(t *testing.T) {
	p := baseParameter()
	// Single-node families reach only NodeAvailability^12 (~0.94).
	p.RequiredDurability = quantity.FromNines(1)
	nodes := []resource.Node{smallNode(), midNode(), storageHeavyNode()}

	candidates := Run(p, nodes, []architecture.Type{architecture.Classic, architecture.InMemory})

	var sawClassic, sawInMemory bool
	for _, c := range candidates {
		switch c.Architecture.Type {
		case architecture.Classic:
			sawClassic = true
		case architecture.InMemory:
			sawInMemory = true
		}
	}
	if !sawClassic {
		t.Error("expected at least one Classic survivor")
	}
	if !sawInMemory {
		t.Error("expected at least one InMemory survivor")
	}
}

// Every survivor must clear the configured durability floor.
func TestRun_SurvivorsMeetDurabilityFloor(t *testing.T) {
	p := baseParameter()
	p.RequiredDurability = quantity.FromNines(9)
	nodes := []resource.Node{smallNode(), midNode()}

	candidates := Run(p, nodes, nil)

	for _, c := range candidates {
		if !c.Architecture.DurabilityVal.GreaterOrEqual(p.RequiredDurability) {
			t.Errorf("candidate %s/%s durability %v below floor %v", c.Architecture.Type, c.Node.Name, c.Architecture.DurabilityVal, p.RequiredDurability)
		}
	}
}

// HADR and AuroraLike require at least one secondary even when
// MinSecondaries is 0 (spec.md §8, boundary behaviors).
func TestRun_HADRNeverTriesZeroSecondaries(t *testing.T) {
	p := baseParameter()
	p.MinSecondaries = 0
	p.MaxSecondaries = 2
	nodes := []resource.Node{smallNode()}

	candidates := Run(p, nodes, []architecture.Type{architecture.HADR})

	for _, c := range candidates {
		if c.Architecture.Secondaries.Count < 1 {
			t.Errorf("HADR candidate has %d secondaries, want >= 1", c.Architecture.Secondaries.Count)
		}
	}
}

func TestParetoStorageNodes_DropsDominatedClass(t *testing.T) {
	dominant := storageHeavyNode()
	dominated := midNode()
	dominated.Name = "dominated.xlarge"
	dominated.InstanceStorage.ReadOps = 1
	dominated.InstanceStorage.WriteOps = 1
	dominated.InstanceStorage.SizePerDevice = 1
	dominated.Network.SpeedGbps = 1
	dominated.Price = quantity.Hourly(100, quantity.CategoryCompute)

	kept := paretoStorageNodes([]resource.Node{dominant, dominated})

	for _, n := range kept {
		if n.Name == dominated.Name {
			t.Errorf("expected %s to be dominated and dropped, got kept set %v", dominated.Name, names(kept))
		}
	}
}

func names(nodes []resource.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestLogNodeCandidates_ShortCircuitsOnZeroUpdateRate(t *testing.T) {
	p := baseParameter()
	p.RequiredUpdateOps = quantity.Zero
	nodes := []resource.Node{midNode(), storageHeavyNode()}

	got := logNodeCandidates(p, nodes)

	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1 (cheapest only)", len(got))
	}
	if got[0].Name != midNode().Name {
		t.Errorf("got %s, want cheapest node %s", got[0].Name, midNode().Name)
	}
}
