package cmd

import (
	"testing"

	"github.com/guimove/clusterfit/internal/architecture"
)

func TestResolveFamilies_EmptyIncludeMeansAll(t *testing.T) {
	got, err := resolveFamilies(nil, nil)
	if err != nil {
		t.Fatalf("resolveFamilies: %v", err)
	}
	if len(got) != 7 {
		t.Errorf("len(got) = %d, want 7 (all families)", len(got))
	}
}

func TestResolveFamilies_ExcludeWinsOverInclude(t *testing.T) {
	got, err := resolveFamilies([]string{"classic", "hadr"}, []string{"hadr"})
	if err != nil {
		t.Fatalf("resolveFamilies: %v", err)
	}
	if len(got) != 1 || got[0] != architecture.Classic {
		t.Errorf("got %v, want [classic]", got)
	}
}

func TestResolveFamilies_UnknownNameErrors(t *testing.T) {
	if _, err := resolveFamilies([]string{"bogus"}, nil); err == nil {
		t.Error("expected error for unknown architecture family name")
	}
	if _, err := resolveFamilies(nil, []string{"bogus"}); err == nil {
		t.Error("expected error for unknown excluded family name")
	}
}
