package ranking

import (
	"testing"

	"github.com/guimove/clusterfit/internal/architecture"
	"github.com/guimove/clusterfit/internal/enumerator"
	"github.com/guimove/clusterfit/internal/quantity"
)

func withUpdates(typ architecture.Type, updatesPerSec float64) enumerator.Candidate {
	a := &architecture.Architecture{Type: typ, Updates: quantity.Secondly(updatesPerSec)}
	return enumerator.Candidate{Architecture: a}
}

func TestSort_AscendingThenDescendingInverts(t *testing.T) {
	candidates := []enumerator.Candidate{
		withUpdates(architecture.Classic, 300),
		withUpdates(architecture.Classic, 100),
		withUpdates(architecture.Classic, 200),
	}

	asc := Sort(candidates, "updates")
	desc := Sort(candidates, "-updates")

	for i := range asc {
		gotAsc := asc[i].Architecture.Updates.PerSecond()
		gotDesc := desc[len(desc)-1-i].Architecture.Updates.PerSecond()
		if gotAsc != gotDesc {
			t.Errorf("asc[%d]=%v, desc[reverse]=%v, want equal (direction inversion)", i, gotAsc, gotDesc)
		}
	}
	if asc[0].Architecture.Updates.PerSecond() != 100 {
		t.Errorf("asc[0].Updates = %v, want 100 (smallest first)", asc[0].Architecture.Updates.PerSecond())
	}
	if desc[0].Architecture.Updates.PerSecond() != 300 {
		t.Errorf("desc[0].Updates = %v, want 300 (largest first)", desc[0].Architecture.Updates.PerSecond())
	}
}

func TestSort_IdempotentOnRepeatedSort(t *testing.T) {
	candidates := []enumerator.Candidate{
		withUpdates(architecture.Classic, 50),
		withUpdates(architecture.HADR, 10),
		withUpdates(architecture.InMemory, 80),
	}

	once := Sort(candidates, "updates")
	twice := Sort(once, "updates")

	for i := range once {
		if once[i].Architecture.Updates.PerSecond() != twice[i].Architecture.Updates.PerSecond() {
			t.Errorf("sort is not idempotent at index %d", i)
		}
	}
}

func TestTruncate_GuaranteesPerFamilyFloorBeforeCut(t *testing.T) {
	var candidates []enumerator.Candidate
	// Classic dominates by update rate; HADR and InMemory trail.
	for i := 0; i < 8; i++ {
		candidates = append(candidates, withUpdates(architecture.Classic, float64(100+i)))
	}
	candidates = append(candidates, withUpdates(architecture.HADR, 5))
	candidates = append(candidates, withUpdates(architecture.InMemory, 3))

	sorted := Sort(candidates, "-updates")
	result := Truncate(sorted, 5, 1)

	families := map[string]int{}
	for _, c := range result {
		families[c.Architecture.Type.String()]++
	}
	if families["hadr"] == 0 {
		t.Error("HADR should retain at least 1 survivor under the per-family floor")
	}
	if families["inmem"] == 0 {
		t.Error("InMemory should retain at least 1 survivor under the per-family floor")
	}
}

func TestTruncate_NoopWhenUnderMax(t *testing.T) {
	candidates := []enumerator.Candidate{
		withUpdates(architecture.Classic, 10),
		withUpdates(architecture.HADR, 20),
	}
	result := Truncate(candidates, 10, 1)
	if len(result) != len(candidates) {
		t.Errorf("len(result) = %d, want %d (no truncation needed)", len(result), len(candidates))
	}
}

func TestParseSortSpec_IgnoresUnknownMetric(t *testing.T) {
	got := ParseSortSpec("price,-bogus,latency")
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 (bogus dropped)", len(got))
	}
	if got[0] != MetricPrice || got[1] != MetricLatency {
		t.Errorf("got %v, want [price latency]", got)
	}
}
