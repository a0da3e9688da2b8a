package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-novaform/pkg/render"
)

func TestMergeAndSortMeta(t *testing.T) {
	merged := render.MergeMeta(map[string]string{" locale ": "en", "": "dropped"},
		render.Meta("base_url", "http://localhost:8080"),
		render.Meta("locale", "de"),
		render.Meta("  ", "skip"),
	)

	want := map[string]string{"locale": "de", "base_url": "http://localhost:8080"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged meta mismatch (-want +got):\n%s", diff)
	}

	wantSorted := []render.MetaField{
		{Name: "base_url", Value: "http://localhost:8080"},
		{Name: "locale", Value: "de"},
	}
	if diff := cmp.Diff(wantSorted, render.SortedMeta(merged)); diff != "" {
		t.Fatalf("sorted meta mismatch (-want +got):\n%s", diff)
	}
	if render.MergeMeta(nil) != nil {
		t.Fatalf("expected nil for empty merge")
	}
}
