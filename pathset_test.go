package relhist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewPathSet(t *testing.T) {
	got := NewPathSet("src/a.txt", "old/a.txt", "src/a.txt")

	want := PathSet{"src/a.txt": empty{}, "old/a.txt": empty{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected set (-want +got):\n%s", diff)
	}
}

func TestUnionPathSets(t *testing.T) {
	got := UnionPathSets(
		NewPathSet("a", "b"),
		NewPathSet("b", "c"),
		NewPathSet(),
	)

	want := NewPathSet("a", "b", "c")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected union (-want +got):\n%s", diff)
	}
}

func TestSortedPaths(t *testing.T) {
	got := SortedPaths(NewPathSet("src/a.txt", "old/a.txt", "docs/readme.md"))

	want := []string{"docs/readme.md", "old/a.txt", "src/a.txt"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}
