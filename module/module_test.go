package module

import (
	"strings"
	"testing"

	"github.com/kbukum/nucleus/errors"
)

func names(mods []Module) string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Name
	}
	return strings.Join(out, ",")
}

func testCatalog() *Catalog {
	return NewCatalog(
		Module{Name: "DAS"},
		Module{Name: "DafEar.base", Requires: []string{"DAS"}},
		Module{Name: "DPS", Requires: []string{"DAS"}},
		Module{Name: "DCS", Requires: []string{"DPS", "DafEar.base"}},
	)
}

func TestResolve(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name      string
		requested []string
		want      string
	}{
		{"single", []string{"DAS"}, "DAS"},
		{"requirement first", []string{"DafEar.base"}, "DAS,DafEar.base"},
		{"already ordered", []string{"DAS", "DafEar.base"}, "DAS,DafEar.base"},
		{"reversed", []string{"DafEar.base", "DAS"}, "DAS,DafEar.base"},
		{"transitive", []string{"DCS"}, "DAS,DPS,DafEar.base,DCS"},
		{"duplicates", []string{"DAS", "DAS", "DPS"}, "DAS,DPS"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve(tt.requested)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if names(got) != tt.want {
				t.Errorf("got %q, want %q", names(got), tt.want)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	c := testCatalog()
	_, err := c.Resolve([]string{"DAS", "Nope"})
	if !errors.HasCode(err, errors.ErrCodeUnknownModule) {
		t.Fatalf("expected UNKNOWN_MODULE, got %v", err)
	}

	c.Add(Module{Name: "Broken", Requires: []string{"Missing"}})
	_, err = c.Resolve([]string{"Broken"})
	if !errors.HasCode(err, errors.ErrCodeUnknownModule) {
		t.Fatalf("expected UNKNOWN_MODULE for a missing requirement, got %v", err)
	}
}

func TestResolveCycle(t *testing.T) {
	c := NewCatalog(
		Module{Name: "A", Requires: []string{"B"}},
		Module{Name: "B", Requires: []string{"C"}},
		Module{Name: "C", Requires: []string{"B"}},
	)
	_, err := c.Resolve([]string{"A"})
	if !errors.HasCode(err, errors.ErrCodeModuleCycle) {
		t.Fatalf("expected MODULE_CYCLE, got %v", err)
	}
	if !strings.Contains(err.Error(), "B -> C -> B") {
		t.Errorf("expected cycle chain in error, got %q", err.Error())
	}
}

func TestAdd(t *testing.T) {
	c := NewCatalog()
	if err := c.Add(Module{Name: "DAS"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Add(Module{Name: "DAS"}); !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
	if err := c.Add(Module{}); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if _, ok := c.Get("DAS"); !ok {
		t.Error("expected Get to find DAS")
	}
	if _, ok := c.Get("DPS"); ok {
		t.Error("expected Get miss")
	}
}

func TestNames(t *testing.T) {
	got := strings.Join(testCatalog().Names(), ",")
	if got != "DAS,DCS,DPS,DafEar.base" {
		t.Errorf("unexpected names %q", got)
	}
}
