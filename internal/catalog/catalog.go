// Package catalog parses the delimited instance-catalog table that drives
// the enumerator (spec.md §6): one row per candidate node shape. It adapts
// the teacher's internal/aws package — which queried EC2 live — into a
// pure file reader: the column-driven conversion into a resource.Node and
// the "unknown columns ignored, declared columns missing is fatal" parsing
// discipline both carry over from convertInstanceType's field-by-field
// mapping style.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
)

// Entry is one catalog row: the assembled Node plus the columns the
// enumerator and renderer need but that don't belong on Node itself.
type Entry struct {
	Node     resource.Node
	Category string
	Consider bool
}

// requiredColumns are the columns a catalog file must declare; their
// absence is a fatal parse error (spec.md §6, "declared columns missing
// from the file are a fatal error"). Unknown columns are ignored.
var requiredColumns = []string{
	"name", "category", "consider", "vcpu", "memory", "price",
	"network_speed", "network_devices",
}

// Parse reads a delimited catalog table (header row required) and returns
// one Entry per data row, in file order.
func Parse(r io.Reader, delimiter rune) ([]Entry, error) {
	cr := csv.NewReader(r)
	if delimiter != 0 {
		cr.Comma = delimiter
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("catalog: missing required column %q", name)
		}
	}

	var entries []Entry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: reading row: %w", err)
		}
		e, err := parseRow(col, row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func field(col map[string]int, row []string, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(col map[string]int, row []string, name string) (float64, error) {
	s := field(col, row, name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("catalog: column %q: %w", name, err)
	}
	return v, nil
}

func parseUint(col map[string]int, row []string, name string) (uint64, error) {
	v, err := parseFloat(col, row, name)
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

func parseBool(col map[string]int, row []string, name string) bool {
	s := strings.ToLower(field(col, row, name))
	return s == "true" || s == "1" || s == "yes"
}

func parseRow(col map[string]int, row []string) (Entry, error) {
	name := field(col, row, "name")

	memoryMiB, err := parseUint(col, row, "memory")
	if err != nil {
		return Entry{}, err
	}
	price, err := parseFloat(col, row, "price")
	if err != nil {
		return Entry{}, err
	}
	speedGbps, err := parseUint(col, row, "network_speed")
	if err != nil {
		return Entry{}, err
	}
	burstSpeedGbps, err := parseUint(col, row, "network_speed_burst")
	if err != nil {
		return Entry{}, err
	}
	devices, err := parseUint(col, row, "network_devices")
	if err != nil {
		return Entry{}, err
	}

	storageDevices, err := parseFloat(col, row, "storage_devices")
	if err != nil {
		return Entry{}, err
	}
	storageSizePerDevice, err := parseUint(col, row, "storage_size_per_device")
	if err != nil {
		return Entry{}, err
	}
	readOps, err := parseUint(col, row, "storage_readops")
	if err != nil {
		return Entry{}, err
	}
	writeOps, err := parseUint(col, row, "storage_writeops")
	if err != nil {
		return Entry{}, err
	}

	baseIOPS, err := parseFloat(col, row, "ebs_base_iops")
	if err != nil {
		return Entry{}, err
	}
	burstIOPS, err := parseFloat(col, row, "ebs_burst_iops")
	if err != nil {
		return Entry{}, err
	}
	baseThroughput, err := parseFloat(col, row, "ebs_base_throughput")
	if err != nil {
		return Entry{}, err
	}
	burstThroughput, err := parseFloat(col, row, "ebs_burst_throughput")
	if err != nil {
		return Entry{}, err
	}

	vcpu, err := parseUint(col, row, "vcpu")
	if err != nil {
		return Entry{}, err
	}
	clockGHz, err := parseFloat(col, row, "clock_speed_ghz")
	if err != nil {
		return Entry{}, err
	}
	if clockGHz == 0 {
		clockGHz = 2.5
	}

	node := resource.Node{
		Name: name,
		CPU: resource.CPU{
			Count:   vcpu,
			SpeedHz: clockGHz * 1e9,
			Vendor:  field(col, row, "cpu_vendor"),
		},
		Memory: resource.Memory{
			Bytes: memoryMiB * resource.MiB,
		},
		Network: resource.Network{
			SpeedGbps:      speedGbps,
			BurstSpeedGbps: burstSpeedGbps,
			Devices:        devices,
			UpTo:           parseBool(col, row, "network_upto"),
		},
		Price: quantity.Hourly(price, quantity.CategoryCompute),
		InstanceStorage: resource.InstanceStorage{
			Type:          storageType(field(col, row, "instance_storage_type")),
			Devices:       storageDevices,
			SizePerDevice: storageSizePerDevice * resource.GiB,
			ReadOps:       readOps,
			WriteOps:      writeOps,
		},
		MachineEBS: resource.MachineEBSLimits{
			BaseIOPS:        quantity.Secondly(baseIOPS),
			BurstIOPS:       quantity.Secondly(burstIOPS),
			BaseThroughput:  baseThroughput * float64(resource.MiB),
			BurstThroughput: burstThroughput * float64(resource.MiB),
		},
	}

	return Entry{
		Node:     node,
		Category: field(col, row, "category"),
		Consider: parseBool(col, row, "consider"),
	}, nil
}

func storageType(s string) resource.StorageType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nvme":
		return resource.StorageNVMe
	case "ssd":
		return resource.StorageSSD
	case "hdd":
		return resource.StorageHDD
	default:
		return resource.StorageNone
	}
}
