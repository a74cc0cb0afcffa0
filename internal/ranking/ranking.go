// Package ranking applies the exclusion, sort, and per-family truncation
// rules the driver's `--sort`/`--trunc` flags describe (spec.md §6, §8
// property 5) to a set of surviving architecture candidates.
package ranking

import (
	"sort"
	"strings"

	"github.com/guimove/clusterfit/internal/enumerator"
)

// Metric names one comparable figure a candidate can be sorted on.
type Metric string

const (
	MetricPrice      Metric = "price"
	MetricUpdates    Metric = "updates"
	MetricLookups    Metric = "lookups"
	MetricLatency    Metric = "latency"
	MetricDurability Metric = "durability"
	MetricFailover   Metric = "failover"
)

// value extracts the raw comparable figure for a metric from a
// candidate. Figures are not reoriented: ascending order puts the better
// candidate first for price/latency/failover (smaller is better) and last
// for updates/lookups/durability (larger is better) — callers ask for
// descending order with the sort spec's `-` prefix instead of flipping the
// figures here.
func value(c enumerator.Candidate, m Metric) float64 {
	a := c.Architecture
	switch m {
	case MetricPrice:
		return a.TotalPrice().Value
	case MetricUpdates:
		return a.Updates.PerSecond()
	case MetricLookups:
		return a.RandomLookupTx().PerSecond()
	case MetricLatency:
		return a.OpLatency.AvgNS
	case MetricDurability:
		return a.DurabilityVal.Probability
	case MetricFailover:
		return a.FailoverTimeVal.Seconds
	default:
		return 0
	}
}

// key is one parsed `--sort` term: a metric plus its sort direction.
type key struct {
	metric     Metric
	descending bool
}

// ParseSortSpec parses a comma-separated metric list with an optional
// `-` prefix per term for descending order (spec.md §6, `--sort`).
// Unknown metric names are ignored so a later ranking.Metric constant
// addition never breaks an existing `--sort` value.
func ParseSortSpec(spec string) []Metric {
	keys := parseKeys(spec)
	out := make([]Metric, len(keys))
	for i, k := range keys {
		out[i] = k.metric
	}
	return out
}

func parseKeys(spec string) []key {
	var keys []key
	for _, term := range strings.Split(spec, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		descending := false
		if strings.HasPrefix(term, "-") {
			descending = true
			term = term[1:]
		}
		m := Metric(term)
		if !validMetric(m) {
			continue
		}
		keys = append(keys, key{metric: m, descending: descending})
	}
	return keys
}

func validMetric(m Metric) bool {
	switch m {
	case MetricPrice, MetricUpdates, MetricLookups, MetricLatency, MetricDurability, MetricFailover:
		return true
	default:
		return false
	}
}

// Sort orders candidates by the comma-separated `--sort` spec, applying
// keys left to right as tie-breakers. The sort is stable: sorting twice
// by the same spec reproduces the same order, and reversing every key's
// direction inverts the order of candidates whose keys differ (candidates
// tied on every key keep their input order either way) (spec.md §8
// property 5).
func Sort(candidates []enumerator.Candidate, spec string) []enumerator.Candidate {
	keys := parseKeys(spec)
	out := make([]enumerator.Candidate, len(candidates))
	copy(out, candidates)
	if len(keys) == 0 {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			vi, vj := value(out[i], k.metric), value(out[j], k.metric)
			if vi == vj {
				continue
			}
			if k.descending {
				return vi > vj
			}
			return vi < vj
		}
		return false
	})
	return out
}

// Truncate keeps every family's own top minPerFamily candidates (in the
// order Sort already produced) intact, then fills the rest of a max-sized
// result with whatever candidates from any family come next in rank
// order. max <= 0 means no overall cap — only the per-family floor
// applies, which is then a no-op. This is the "minimum survivors per
// family before global cut" rule (spec.md §6, `--trunc`): a single
// dominant family's top results for the table do not starve other
// families the way a plain top-N would.
func Truncate(sorted []enumerator.Candidate, max int, minPerFamily int) []enumerator.Candidate {
	if max <= 0 || max >= len(sorted) {
		return sorted
	}

	kept := make([]bool, len(sorted))
	seen := map[string]int{}
	count := 0

	if minPerFamily > 0 {
		for i, c := range sorted {
			fam := c.Architecture.Type.String()
			if seen[fam] < minPerFamily {
				kept[i] = true
				seen[fam]++
				count++
			}
		}
	}

	for i := range sorted {
		if count >= max {
			break
		}
		if kept[i] {
			continue
		}
		kept[i] = true
		count++
	}

	out := make([]enumerator.Candidate, 0, count)
	for i, k := range kept {
		if k {
			out = append(out, sorted[i])
		}
	}
	return out
}
