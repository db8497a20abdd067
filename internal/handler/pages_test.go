package handler

import (
	"testing"

	"epicsnap/internal/model"
)

func testViews(n int) []model.ScreenshotView {
	views := make([]model.ScreenshotView, n)
	for i := range views {
		views[i].Title = string(rune('a' + i))
	}
	return views
}

func TestBuildViewerClosed(t *testing.T) {
	items := testViews(3)
	for _, raw := range []string{"", "x", "-1", "3", "10"} {
		if v := buildViewer(items, raw); v.Open {
			t.Errorf("buildViewer(%q) should leave the viewer closed", raw)
		}
	}
}

func TestBuildViewerBoundaries(t *testing.T) {
	items := testViews(3)

	first := buildViewer(items, "0")
	if !first.Open || !first.AtStart || first.AtEnd {
		t.Fatalf("unexpected state at index 0: %+v", first)
	}
	if first.PrevURL != "" || first.NextURL != "/screenshots?view=1" {
		t.Fatalf("unexpected nav URLs at index 0: %+v", first)
	}
	if first.Position != 1 || first.Count != 3 {
		t.Fatalf("unexpected position: %d/%d", first.Position, first.Count)
	}

	last := buildViewer(items, "2")
	if !last.Open || last.AtStart || !last.AtEnd {
		t.Fatalf("unexpected state at index 2: %+v", last)
	}
	if last.PrevURL != "/screenshots?view=1" || last.NextURL != "" {
		t.Fatalf("unexpected nav URLs at index 2: %+v", last)
	}
	if last.CloseURL != "/screenshots" {
		t.Fatalf("unexpected close URL: %q", last.CloseURL)
	}
}

func TestBuildViewerSingleItem(t *testing.T) {
	only := buildViewer(testViews(1), "0")
	if !only.Open || !only.AtStart || !only.AtEnd {
		t.Fatalf("a single item should disable both directions: %+v", only)
	}
}
