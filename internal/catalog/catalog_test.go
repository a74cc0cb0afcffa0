package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `name,category,consider,vcpu,cpu_vendor,clock_speed_ghz,memory,price,network_speed,network_speed_burst,network_devices,network_upto,instance_storage_type,storage_devices,storage_size_per_device,storage_readops,storage_writeops,ebs_base_iops,ebs_burst_iops,ebs_base_throughput,ebs_burst_throughput
m5.xlarge,general,true,4,intel,3.1,16384,0.192,10,10,1,false,,0,0,0,0,3000,3000,125,250
i3en.xlarge,storage,true,4,intel,3.1,32768,0.452,25,25,1,false,nvme,1,2500,100000,50000,3000,3000,125,250
`

func TestParse_HappyPath(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleCSV), ',')
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Node.Name != "m5.xlarge" {
		t.Errorf("entries[0].Node.Name = %q, want m5.xlarge", entries[0].Node.Name)
	}
	if !entries[0].Consider {
		t.Error("entries[0].Consider = false, want true")
	}
	if entries[1].Node.InstanceStorage.Type != "nvme" {
		t.Errorf("entries[1].Node.InstanceStorage.Type = %q, want nvme", entries[1].Node.InstanceStorage.Type)
	}
	if entries[1].Node.Memory.Bytes == 0 {
		t.Error("entries[1].Node.Memory.Bytes = 0, want nonzero")
	}
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("name,category\nm5.xlarge,general\n"), ',')
	if err == nil {
		t.Fatal("Parse() error = nil, want error for missing required column")
	}
}
