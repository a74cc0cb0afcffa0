package resource

import "testing"

func TestCreateVolume_GP3FreeTiers(t *testing.T) {
	v := CreateVolume("m5.large", FamilyGP3, 100*GiB, 3000, 125*MiB, 256*KiB)
	if v.PerDeviceIOPS != 3000 {
		t.Errorf("PerDeviceIOPS = %d, want 3000", v.PerDeviceIOPS)
	}
	price := v.Price()
	wantMonthly := 100.0 * gp3StoragePerGB
	gotMonthly := price.Value * 730.0
	if diff := gotMonthly - wantMonthly; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("gp3 free-tier price = %v/month, want %v/month (storage only)", gotMonthly, wantMonthly)
	}
}

func TestCreateVolume_InvariantBounds(t *testing.T) {
	cases := []struct {
		family BlockDeviceFamily
		cap, iops, tp uint64
	}{
		{FamilyGP3, 10 * GiB, 100, 10 * MiB},
		{FamilyIO2, 5 * GiB, 50000, 500 * MiB},
		{FamilyGP2, 2 * GiB, 200, 50 * MiB},
	}
	for _, c := range cases {
		v := CreateVolume("m5.large", c.family, c.cap, c.iops, c.tp, 16*KiB)
		lim := constraints[v.Family]
		if v.PerDeviceCapacity < lim.minCapacity || v.PerDeviceCapacity > lim.maxCapacity {
			t.Errorf("%v: capacity %d out of [%d,%d]", c.family, v.PerDeviceCapacity, lim.minCapacity, lim.maxCapacity)
		}
		if v.PerDeviceIOPS < lim.minIops || v.PerDeviceIOPS > lim.maxIops {
			t.Errorf("%v: iops %d out of [%d,%d]", c.family, v.PerDeviceIOPS, lim.minIops, lim.maxIops)
		}
		maxAllowedByDensity := lim.minIops
		byDensity := v.PerDeviceCapacity / GiB * lim.maxIopsPerGB
		if byDensity > maxAllowedByDensity {
			maxAllowedByDensity = byDensity
		}
		if v.PerDeviceIOPS > maxAllowedByDensity {
			t.Errorf("%v: iops %d exceeds max(minIops, capacity*iopsPerGB)=%d", c.family, v.PerDeviceIOPS, maxAllowedByDensity)
		}
	}
}

func TestCreateVolume_R5BPromotesIO2ToIO2X(t *testing.T) {
	v := CreateVolume("r5b.xlarge", FamilyIO2, 10*GiB, 1000, 100*MiB, 16*KiB)
	if v.Family != FamilyIO2X {
		t.Errorf("Family = %v, want io2x promotion on r5b", v.Family)
	}
}

func TestInstanceStorage_UsableSize(t *testing.T) {
	nvme := InstanceStorage{Type: StorageNVMe, SizePerDevice: 1000, Devices: 2}
	if got, want := nvme.UsableSize(), uint64(1800); got != want {
		t.Errorf("NVMe UsableSize() = %d, want %d", got, want)
	}
	hdd := InstanceStorage{Type: StorageHDD, SizePerDevice: 1000, Devices: 2}
	if got, want := hdd.UsableSize(), uint64(2000); got != want {
		t.Errorf("HDD UsableSize() = %d, want %d", got, want)
	}
}

func TestInstanceStorage_IsParetoBetter(t *testing.T) {
	big := InstanceStorage{Type: StorageNVMe, SizePerDevice: 2000, Devices: 1, ReadOps: 200000, WriteOps: 100000}
	small := InstanceStorage{Type: StorageNVMe, SizePerDevice: 1000, Devices: 1, ReadOps: 100000, WriteOps: 50000}
	if !big.IsParetoBetter(small) {
		t.Error("expected big to dominate small on all three axes")
	}
	if small.IsParetoBetter(big) {
		t.Error("did not expect small to dominate big")
	}
}

func TestNode_MaxEBSDevicesMetalBug(t *testing.T) {
	// "metal" at a nonzero index (the realistic case) gets the HIGHER
	// limit, same as a non-metal name; only a literal "metal"-prefixed
	// name gets the lower one. See DESIGN.md.
	metal := Node{Name: "m5.metal"}
	metalPrefixed := Node{Name: "metal.xlarge"}
	regular := Node{Name: "m5.xlarge"}
	if got := metal.MaxEBSDevices(); got != 31 {
		t.Errorf("metal MaxEBSDevices() = %d, want 31 (preserved source behavior, see DESIGN.md)", got)
	}
	if got := metalPrefixed.MaxEBSDevices(); got != 28 {
		t.Errorf("metal-prefixed MaxEBSDevices() = %d, want 28 (preserved source behavior, see DESIGN.md)", got)
	}
	if got := regular.MaxEBSDevices(); got != 31 {
		t.Errorf("non-metal MaxEBSDevices() = %d, want 31 (preserved source behavior, see DESIGN.md)", got)
	}
}
