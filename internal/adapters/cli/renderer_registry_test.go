package cli

import (
	"strings"
	"testing"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

type fakeRenderer struct{ format string }

func (f *fakeRenderer) Format() string { return f.format }

func (f *fakeRenderer) Render(sg *entities.SubGraph, layout *entities.Layout) ([]byte, error) {
	return []byte(f.format), nil
}

func TestRendererRegistry_Get_ReturnsMatchingRenderer(t *testing.T) {
	reg := NewRendererRegistry(&fakeRenderer{format: "json"}, &fakeRenderer{format: "dot"})

	r, err := reg.Get("dot")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if r.Format() != "dot" {
		t.Errorf("Get() returned Format() = %q, want dot", r.Format())
	}
}

func TestRendererRegistry_Get_UnknownFormatListsKnownOnes(t *testing.T) {
	reg := NewRendererRegistry(&fakeRenderer{format: "json"}, &fakeRenderer{format: "ascii"})

	_, err := reg.Get("yaml")
	if err == nil {
		t.Fatal("Get() expected an error for an unregistered format")
	}
	if !strings.Contains(err.Error(), "ascii") || !strings.Contains(err.Error(), "json") {
		t.Errorf("Get() error = %v, want it to list known formats", err)
	}
}

func TestRendererRegistry_Formats_IsSorted(t *testing.T) {
	reg := NewRendererRegistry(
		&fakeRenderer{format: "svg"},
		&fakeRenderer{format: "ascii"},
		&fakeRenderer{format: "json"},
	)

	got := reg.Formats()
	want := []string{"ascii", "json", "svg"}
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
