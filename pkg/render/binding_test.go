package render_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-novaform/pkg/render"
)

func TestFixed_CopiesValues(t *testing.T) {
	values := map[string]any{
		"test":   "hello",
		"nested": map[string]any{"tags": []any{"a", "b"}},
	}
	binding := render.Fixed(values)

	values["test"] = "changed"
	values["nested"].(map[string]any)["tags"].([]any)[0] = "z"

	if got, _ := binding.Value("test"); got != "hello" {
		t.Fatalf("expected snapshot to keep hello, got %v", got)
	}
	want := map[string]any{"test": "hello", "nested": map[string]any{"tags": []any{"a", "b"}}}
	if diff := cmp.Diff(want, binding.Values()); diff != "" {
		t.Fatalf("snapshot mutated (-want +got):\n%s", diff)
	}
	if !binding.ReadOnly() || binding.Mode() != render.ModeFixed {
		t.Fatalf("expected fixed read-only binding, got %s", binding.Mode())
	}
}

func TestEditingAfterSnapshotLeavesSnapshotIntact(t *testing.T) {
	state := render.NewFormState(map[string]any{"test": ""})
	editable := render.Editable(state)

	state.Set("test", "hello")
	submitted := state.Snapshot()

	state.Set("test", "edited after submit")
	state.Set("extra.note", "added later")

	if got, _ := submitted.Value("test"); got != "hello" {
		t.Fatalf("submitted snapshot changed to %v", got)
	}
	if _, ok := submitted.Value("extra.note"); ok {
		t.Fatalf("submitted snapshot picked up a later field")
	}
	if got, _ := editable.Value("test"); got != "edited after submit" {
		t.Fatalf("editable binding should follow state, got %v", got)
	}
	if editable.ReadOnly() {
		t.Fatalf("editable binding must not be read-only")
	}
	if state.Version() != 3 {
		t.Fatalf("expected version 3, got %d", state.Version())
	}
}

func TestFormState_ValuesAreCopies(t *testing.T) {
	state := render.NewFormState(nil)
	state.Set("profile.name", "Ada")

	values := state.Values()
	values["profile"].(map[string]any)["name"] = "Grace"

	if got, _ := state.Get("profile.name"); got != "Ada" {
		t.Fatalf("state mutated through Values copy: %v", got)
	}
	if _, ok := state.Get("profile.missing"); ok {
		t.Fatalf("expected missing path lookup to fail")
	}
}

func TestFormState_ConcurrentAccess(t *testing.T) {
	state := render.NewFormState(nil)
	binding := render.Editable(state)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			state.Set("test", i)
		}(i)
		go func() {
			defer wg.Done()
			_ = binding.Values()
			_ = state.Snapshot()
		}()
	}
	wg.Wait()

	if state.Version() != 8 {
		t.Fatalf("expected 8 writes, got %d", state.Version())
	}
}

func TestZeroBinding(t *testing.T) {
	var binding render.Binding
	if binding.Mode() != render.ModeNone {
		t.Fatalf("expected zero mode, got %s", binding.Mode())
	}
	if _, ok := binding.Value("test"); ok {
		t.Fatalf("zero binding should not resolve values")
	}
	if _, ok := render.Editable(nil).State(); ok {
		t.Fatalf("Editable(nil) should not expose state")
	}
}
