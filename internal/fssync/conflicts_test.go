package fssync

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vault-md/scriptvault/internal/script"
)

func TestDetectConflicts(t *testing.T) {
	items := []script.Item{
		{ID: "1", Name: "Report", Language: script.SQL},
		{ID: "2", Name: "report", Language: script.SQL},
		{ID: "3", Name: "report", Language: script.Python},
		{ID: "4", Name: "metadata", Language: script.JSON},
		{ID: "5", Name: "a/b", Language: script.JavaScript},
		{ID: "6", Name: "a?b", Language: script.JavaScript},
	}

	want := []NameConflict{
		{Filename: "a_b.js", IDs: []string{"5", "6"}},
		{Filename: "metadata.json", IDs: []string{"4"}, Reserved: true},
		{Filename: "Report.sql", IDs: []string{"1", "2"}},
	}
	if diff := cmp.Diff(want, DetectConflicts(items)); diff != "" {
		t.Fatalf("unexpected conflicts (-want +got):\n%s", diff)
	}
}

func TestDetectConflictsIgnoresSameID(t *testing.T) {
	items := []script.Item{
		{ID: "1", Name: "x", Language: script.Go},
		{ID: "1", Name: "x", Language: script.Go},
	}
	if got := DetectConflicts(items); len(got) != 0 {
		t.Fatalf("expected no conflicts, got %+v", got)
	}
}
