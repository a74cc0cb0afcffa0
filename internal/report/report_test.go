package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/guimove/clusterfit/internal/architecture"
	"github.com/guimove/clusterfit/internal/enumerator"
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

func sampleCandidate() enumerator.Candidate {
	node := resource.Node{Name: "m5.xlarge"}
	p := workload.Default()
	p.RequiredUpdateOps = quantity.Secondly(100)
	p.RequiredLookupOps = quantity.Secondly(900)
	a := &architecture.Architecture{
		Type:      architecture.Classic,
		Parameter: p,
		Primary:   primary.New(p, node, false),
		Updates:   quantity.Secondly(150),
		Lookups:   quantity.Secondly(950),
		OpLatency: quantity.Flat(2_000_000),
		DurabilityVal:   quantity.FromNines(6),
		FailoverTimeVal: quantity.FailoverTime{Seconds: 30},
	}
	return enumerator.Candidate{Architecture: a, Node: node}
}

func TestCSVReporter_WritesHeaderAndRow(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(true, &buf)
	err := r.Report([]enumerator.Candidate{sampleCandidate()}, Meta{PriceUnit: "hour"})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "family") || !strings.Contains(out, "classic") {
		t.Errorf("csv output missing expected columns: %q", out)
	}
}

func TestCSVReporter_HonorsHideFlags(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(true, &buf)
	err := r.Report([]enumerator.Candidate{sampleCandidate()}, Meta{HideCosts: true, HideUpdates: true, HideLookups: true, Terse: true})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "price/") || strings.Contains(out, "updates/s") || strings.Contains(out, "lookups/s") || strings.Contains(out, "durability") {
		t.Errorf("expected hidden columns to be absent, got %q", out)
	}
}

func TestTableReporter_EmptyCandidates(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(false, &buf)
	if err := r.Report(nil, Meta{}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !strings.Contains(buf.String(), "no feasible architecture") {
		t.Errorf("expected no-candidates message, got %q", buf.String())
	}
}

func TestPriceUnitFactor_HourIsIdentity(t *testing.T) {
	if f := priceUnitFactor("hour"); f != 1.0 {
		t.Errorf("priceUnitFactor(hour) = %v, want 1.0", f)
	}
	if f := priceUnitFactor("day"); f != 24.0 {
		t.Errorf("priceUnitFactor(day) = %v, want 24.0", f)
	}
}
