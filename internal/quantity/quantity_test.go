package quantity

import (
	"math"
	"testing"
)

func TestRate_SecondlyDuration(t *testing.T) {
	r := Secondly(4)
	if got := r.Duration(); got != 0.25 {
		t.Errorf("Duration() = %v, want 0.25", got)
	}
}

func TestRate_SubSaturates(t *testing.T) {
	a := Secondly(5)
	b := Secondly(5.0000001)
	got := a.Sub(b)
	if got.PerSecond() != 0 {
		t.Errorf("Sub() = %v, want 0 (saturated)", got.PerSecond())
	}
}

func TestRate_SubPanicsBeyondTolerance(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-tolerance negative subtraction")
		}
	}()
	Secondly(5).Sub(Secondly(6))
}

func TestRate_UnlimitedComparesGreater(t *testing.T) {
	if !Secondly(1e9).Less(Unlimited) {
		t.Error("expected any finite rate to be less than Unlimited")
	}
	if Unlimited.Less(Secondly(1e9)) {
		t.Error("expected Unlimited to never be less than a finite rate")
	}
}

func TestRate_Min(t *testing.T) {
	got := Min(Secondly(5), Unlimited, Secondly(3))
	if got.PerSecond() != 3 {
		t.Errorf("Min() = %v, want 3", got.PerSecond())
	}
}

func TestLatency_CombineSingleTermIsIdentity(t *testing.T) {
	l := NewLatency(1, 2, 3)
	got := Combine(WeightedLatency{Weight: 1, Latency: l})
	if got != l {
		t.Errorf("Combine single term = %+v, want %+v", got, l)
	}
}

func TestLatency_CombinePanicsOnBadWeights(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when weights do not sum to 1")
		}
	}()
	Combine(WeightedLatency{Weight: 0.5, Latency: Flat(1)})
}

func TestLatency_DeduceEmptyPartialsReturnsTarget(t *testing.T) {
	target := Flat(42)
	got := Deduce(target, 1.0)
	if got.AvgNS != target.AvgNS {
		t.Errorf("Deduce() = %+v, want %+v", got, target)
	}
}

func TestLatency_DeduceZeroWeightReturnsInfinite(t *testing.T) {
	got := Deduce(Flat(42), 0)
	if !math.IsInf(got.AvgNS, 1) {
		t.Errorf("Deduce() with zero remaining weight = %+v, want Infinite", got)
	}
}

func TestLatency_GetRatioSaturates(t *testing.T) {
	lower := Flat(10)
	higher := Flat(20)
	if got := GetRatio(Flat(5), lower, higher); got != 1 {
		t.Errorf("GetRatio() below range = %v, want 1", got)
	}
	if got := GetRatio(Flat(25), lower, higher); got != 0 {
		t.Errorf("GetRatio() above range = %v, want 0", got)
	}
	if got := GetRatio(Flat(15), lower, higher); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("GetRatio() midpoint = %v, want 0.5", got)
	}
}

func TestPrice_AddPanicsOnMismatchedUnit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on mismatched price units")
		}
	}()
	Hourly(1, CategoryCompute).Add(PerRequestPrice(1, CategoryCompute))
}

func TestPrice_TimesRate(t *testing.T) {
	p := PerRequestPrice(0.0000004, CategoryS3)
	got := p.TimesRate(Secondly(100))
	want := 3600 * 100 * 0.0000004
	if math.Abs(got.Value-want) > 1e-9 {
		t.Errorf("TimesRate() = %v, want %v", got.Value, want)
	}
	if got.Unit != PerHour {
		t.Errorf("TimesRate() unit = %v, want PerHour", got.Unit)
	}
}

func TestDurability_FromNines(t *testing.T) {
	got := FromNines(3).Probability
	if math.Abs(got-0.999) > 1e-9 {
		t.Errorf("FromNines(3) = %v, want 0.999", got)
	}
}

func TestDurability_CalculateFromMTTRMonotonicInNodes(t *testing.T) {
	const availability = 0.995
	const mttr = 3600.0 * 4
	d2 := CalculateFromMTTR(2, availability, mttr, 1)
	d3 := CalculateFromMTTR(3, availability, mttr, 1)
	if !d3.GreaterOrEqual(d2) {
		t.Errorf("durability did not increase with more replicas: d2=%v d3=%v", d2.Probability, d3.Probability)
	}
}

func TestFailoverTime_LessIsSmallerIsBetter(t *testing.T) {
	fast := FailoverTime{Seconds: 5}
	slow := FailoverTime{Seconds: 60}
	if !fast.Less(slow) {
		t.Error("expected smaller failover time to be Less")
	}
}
