package config

import "testing"

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidate_ZipfRequiresNoUpdates(t *testing.T) {
	cfg := Default()
	cfg.Workload.LookupZipf = 1.0
	cfg.Workload.UpdateRatio = 0.3
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zipf with nonzero update ratio")
	}

	cfg.Workload.UpdateRatio = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zipf with update-ratio=0 should be valid, got %v", err)
	}
}

func TestValidate_ReplicaBounds(t *testing.T) {
	cfg := Default()
	cfg.Search.MinReplicas = 3
	cfg.Search.MaxReplicas = 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for min-replicas > max-replicas")
	}
}

func TestValidate_InvalidUpdateRatio(t *testing.T) {
	cfg := Default()
	cfg.Workload.UpdateRatio = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for update-ratio > 1")
	}
}

func TestValidate_InvalidPriceUnit(t *testing.T) {
	cfg := Default()
	cfg.Output.PriceUnit = "fortnight"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unrecognized priceunit")
	}
}

func TestParameter_SplitsTransactionsByUpdateRatio(t *testing.T) {
	cfg := Default()
	cfg.Workload.TransactionsPerSec = 1000
	cfg.Workload.UpdateRatio = 0.25

	p := cfg.Parameter()

	if got := p.RequiredUpdateOps.PerSecond(); got != 250 {
		t.Errorf("RequiredUpdateOps = %v, want 250", got)
	}
	if got := p.RequiredLookupOps.PerSecond(); got != 750 {
		t.Errorf("RequiredLookupOps = %v, want 750", got)
	}
}

func TestParameter_ReplicaBoundsCarryThrough(t *testing.T) {
	cfg := Default()
	cfg.Search.MinReplicas = 1
	cfg.Search.MaxReplicas = 3

	p := cfg.Parameter()

	if p.MinSecondaries != 1 || p.MaxSecondaries != 3 {
		t.Errorf("MinSecondaries/MaxSecondaries = %d/%d, want 1/3", p.MinSecondaries, p.MaxSecondaries)
	}
}
