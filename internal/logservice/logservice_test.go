package logservice

import (
	"testing"

	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

func logNode() resource.Node {
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

func parameterWithUpdates() workload.Parameter {
	p := workload.Default()
	p.DatasetSizeBytes = 50 * resource.GiB
	p.DataBloat = 1.0
	p.RequiredUpdateOps = quantity.Secondly(2000)
	return p
}

func TestAssembleNoop(t *testing.T) {
	caps := AssembleNoop()
	if caps.Description != "no-log" {
		t.Errorf("Description = %q, want %q", caps.Description, "no-log")
	}
}

func TestAssembleInstanceStorage_Log(t *testing.T) {
	p := parameterWithUpdates()
	pr := primary.New(p, logNode(), false)
	caps, ok := AssembleInstanceStorage(p, pr)
	if !ok {
		t.Fatal("expected local-storage log service to fit on an ample node")
	}
	if caps.UpdateOpsAvailable.PerSecond() <= 0 {
		t.Errorf("UpdateOpsAvailable = %v, want > 0", caps.UpdateOpsAvailable.PerSecond())
	}
}

func TestAssembleEBS_Log(t *testing.T) {
	p := parameterWithUpdates()
	pr := primary.New(p, logNode(), false)
	caps, ok := AssembleEBS(p, pr, resource.FamilyIO2)
	if !ok {
		t.Fatal("expected io2 log volume to be synthesizable")
	}
	if caps.Description != "io2-log" {
		t.Errorf("Description = %q, want %q", caps.Description, "io2-log")
	}
}

func TestComputeScale_ZeroUpdatesReturnsZero(t *testing.T) {
	p := workload.Default()
	p.RequiredUpdateOps = quantity.Zero
	if got := computeScale(p, logNode(), 3); got != 0 {
		t.Errorf("computeScale() with no updates = %v, want 0", got)
	}
}

func TestAssembleEc2_Log(t *testing.T) {
	p := parameterWithUpdates()
	pr := primary.New(p, logNode(), false)
	caps, ok := AssembleEc2(p, pr, logNode(), 1)
	if !ok {
		t.Fatal("expected Ec2 log service assembly to succeed on an ample node")
	}
	if caps.UpdateOpsAvailable.PerSecond() <= 0 {
		t.Errorf("UpdateOpsAvailable = %v, want > 0", caps.UpdateOpsAvailable.PerSecond())
	}
}
