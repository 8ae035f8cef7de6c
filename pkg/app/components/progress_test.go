package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/kerbaras/mangashelf/pkg/services"
)

func chapterProgress(chapter, status string, current, total int) services.DownloadProgress {
	return services.DownloadProgress{
		MangaID:       "m1",
		ChapterID:     "c" + chapter,
		ChapterNumber: chapter,
		Status:        status,
		CurrentPage:   current,
		TotalPages:    total,
	}
}

func TestProgressTrackerLifecycle(t *testing.T) {
	tracker := NewProgressTracker(40)
	if tracker.HasActive() || tracker.View() != "" {
		t.Fatal("new tracker should be empty")
	}

	tracker.Update(chapterProgress("1", services.ProgressDownloading, 1, 4))
	tracker.Update(chapterProgress("1", services.ProgressDownloading, 2, 4))
	if len(tracker.order) != 1 {
		t.Errorf("repeated updates should track one chapter, got %d", len(tracker.order))
	}

	tracker.Update(chapterProgress("1", services.ProgressComplete, 4, 4))
	if tracker.HasActive() {
		t.Error("completed chapter should be dropped")
	}

	// A manga level update has no chapter and stays until cleared.
	tracker.Update(services.DownloadProgress{MangaID: "m1", Status: services.ProgressComplete})
	if !tracker.HasActive() {
		t.Error("manga level update should be kept")
	}
	if !strings.Contains(tracker.View(), "Processing manga") {
		t.Errorf("manga level update should render as processing:\n%s", tracker.View())
	}

	tracker.Clear()
	if tracker.HasActive() || len(tracker.order) != 0 {
		t.Error("Clear should drop everything")
	}
}

func TestProgressTrackerViewKeepsArrivalOrder(t *testing.T) {
	tracker := NewProgressTracker(40)
	for _, chapter := range []string{"3", "1", "2"} {
		tracker.Update(chapterProgress(chapter, services.ProgressDownloading, 0, 0))
	}
	tracker.Update(chapterProgress("3", services.ProgressDownloading, 1, 2))

	view := tracker.View()
	i3 := strings.Index(view, "Chapter 3")
	i1 := strings.Index(view, "Chapter 1")
	i2 := strings.Index(view, "Chapter 2")
	if i3 < 0 || i1 < 0 || i2 < 0 || !(i3 < i1 && i1 < i2) {
		t.Errorf("chapters out of arrival order:\n%s", view)
	}
}

func TestProgressTrackerViewDetails(t *testing.T) {
	tracker := NewProgressTracker(24)
	tracker.Update(chapterProgress("7", services.ProgressDownloading, 3, 4))

	failed := chapterProgress("8", services.ProgressError, 0, 0)
	failed.Error = errors.New("connection reset")
	tracker.Update(failed)

	view := tracker.View()
	for _, want := range []string{
		"Active downloads",
		"Chapter 7",
		"(3/4 pages - 75%)",
		"Error: connection reset",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	tracker.SetWidth(44)
	if got := strings.Count(tracker.View(), "█"); got != 30 {
		t.Errorf("bar after resize fills %d cells, want 30", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		current, total, width int
		filled, empty         int
	}{
		{5, 10, 20, 10, 10},
		{10, 10, 8, 8, 0},
		{12, 10, 8, 8, 0},
		{0, 10, 6, 0, 6},
	}
	for _, tt := range tests {
		bar := SimpleProgress(tt.current, tt.total, tt.width)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("SimpleProgress(%d, %d, %d) filled %d, want %d", tt.current, tt.total, tt.width, got, tt.filled)
		}
		if got := strings.Count(bar, "░"); got != tt.empty {
			t.Errorf("SimpleProgress(%d, %d, %d) empty %d, want %d", tt.current, tt.total, tt.width, got, tt.empty)
		}
	}

	if bar := renderProgressBar(1, 0, 10); bar != "" {
		t.Errorf("zero total should render nothing, got %q", bar)
	}
	if bar := renderProgressBar(1, 2, 0); bar != "" {
		t.Errorf("zero width should render nothing, got %q", bar)
	}
}
