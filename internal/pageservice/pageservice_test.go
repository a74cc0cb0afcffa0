package pageservice

import (
	"testing"

	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

func storageNode() resource.Node {
	return resource.Node{
		Name:    "i3en.24xlarge",
		CPU:     resource.CPU{Count: 96, SpeedHz: 2.5e9},
		Memory:  resource.MemoryGiB(768),
		Network: resource.Network{SpeedGbps: 100, Devices: 1},
		Price:   quantity.Hourly(10.0, quantity.CategoryCompute),
		InstanceStorage: resource.InstanceStorage{
			Type: resource.StorageNVMe, SizePerDevice: 7500 * resource.GiB, Devices: 8,
			ReadOps: 100000, WriteOps: 50000,
		},
		MachineEBS: resource.MachineEBSLimits{BaseIOPS: quantity.Secondly(80000), BaseThroughput: 4 * float64(resource.GiB)},
	}
}

func smallParameter() workload.Parameter {
	p := workload.Default()
	p.DatasetSizeBytes = 100 * resource.GiB
	p.DataBloat = 1.0
	p.RequiredLookupOps = quantity.Secondly(50000)
	p.RequiredUpdateOps = quantity.Secondly(5000)
	return p
}

func TestAssembleInMemory_FailsWhenDatasetExceedsMemory(t *testing.T) {
	p := smallParameter()
	tiny := resource.Node{Memory: resource.MemoryGiB(1)}
	if _, ok := AssembleInMemory(p, tiny); ok {
		t.Error("expected in-memory assembly to fail when dataset exceeds node memory")
	}

	big := storageNode()
	if _, ok := AssembleInMemory(p, big); !ok {
		t.Error("expected in-memory assembly to succeed when dataset fits in node memory")
	}
}

func TestAssembleInstanceStorage_SucceedsWithinCapacity(t *testing.T) {
	p := smallParameter()
	pr := primary.New(p, storageNode(), false)
	caps, ok := AssembleInstanceStorage(p, pr)
	if !ok {
		t.Fatal("expected instance-storage page service to fit on an ample node")
	}
	if caps.TotalSize != p.DataSize() {
		t.Errorf("TotalSize = %d, want %d", caps.TotalSize, p.DataSize())
	}
}

func TestAssembleEBS_ReturnsFamilyDescription(t *testing.T) {
	p := smallParameter()
	pr := primary.New(p, storageNode(), false)
	caps, ok := AssembleEBS(p, pr, resource.FamilyGP3)
	if !ok {
		t.Fatal("expected gp3 page-service EBS volume to be synthesizable")
	}
	if caps.Description != "gp3-pages" {
		t.Errorf("Description = %q, want %q", caps.Description, "gp3-pages")
	}
}

func TestAssembleEc2_FractionYieldsPlausibleCapabilities(t *testing.T) {
	p := smallParameter()
	pr := primary.New(p, storageNode(), false)
	caps, ok := AssembleEc2(p, pr, storageNode(), quantity.Flat(1_000_000), 2, false)
	if !ok {
		t.Fatal("expected Ec2 page service assembly to succeed")
	}
	if caps.Price.Value <= 0 {
		t.Errorf("Price.Value = %v, want > 0", caps.Price.Value)
	}
	if caps.PageReadOpsAvailable.PerSecond() <= 0 {
		t.Errorf("PageReadOpsAvailable = %v, want > 0", caps.PageReadOpsAvailable.PerSecond())
	}
}

func TestAssembleCombined_DurabilityAndLogViewAreConsistent(t *testing.T) {
	p := smallParameter()
	pr := primary.New(p, storageNode(), false)
	caps, ok := AssembleCombined(p, pr, storageNode(), quantity.Flat(1_000_000))
	if !ok {
		t.Fatal("expected combined page+log service assembly to succeed")
	}
	if caps.ServiceDurability.Probability <= 0 || caps.ServiceDurability.Probability > 1 {
		t.Errorf("ServiceDurability = %v, want in (0,1]", caps.ServiceDurability.Probability)
	}

	logView := caps.AsLogView()
	if logView.Price.Value != 0 {
		t.Errorf("AsLogView().Price.Value = %v, want 0 (priced via the page side)", logView.Price.Value)
	}
	if logView.ServiceDurability != caps.ServiceDurability {
		t.Error("AsLogView() should preserve ServiceDurability")
	}
	if logView.UpdateOpsAvailable != caps.UpdateOpsAvailable {
		t.Error("AsLogView() should preserve UpdateOpsAvailable")
	}
}
