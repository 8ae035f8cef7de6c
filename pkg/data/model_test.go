package data

import (
	"slices"
	"testing"
)

func TestChapterDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		chapter Chapter
		want    string
	}{
		{"titled", Chapter{Title: "The Beginning", Number: "1"}, "The Beginning"},
		{"volume", Chapter{Volume: "2", Number: "10"}, "Vol. 2 Ch. 10"},
		{"number only", Chapter{Number: "10.5"}, "Ch. 10.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.chapter.DisplayName(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCompareChapters(t *testing.T) {
	chapters := []*Chapter{
		{ID: "extra", Number: "11"},
		{ID: "v2", Volume: "2", Number: "10"},
		{ID: "v1c2", Volume: "1", Number: "2"},
		{ID: "v1c1.5", Volume: "1", Number: "1.5"},
	}
	slices.SortFunc(chapters, CompareChapters)

	want := []string{"v1c1.5", "v1c2", "v2", "extra"}
	for i, id := range want {
		if chapters[i].ID != id {
			t.Errorf("Expected chapter %d to be %s, got %s", i, id, chapters[i].ID)
		}
	}
}
