package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/reader"
)

func newPanel() *SettingsPanel {
	return NewSettingsPanel(&data.ReaderSettings{
		Settings:  reader.DefaultSettings(),
		IsDefault: map[string]bool{reader.FieldReadingDirection: true},
	})
}

func TestSettingsPanelCursorWraps(t *testing.T) {
	panel := newPanel()

	panel.Prev()
	if panel.Field() != reader.FieldStaticNav {
		t.Errorf("Expected cursor to wrap to %s, got %s", reader.FieldStaticNav, panel.Field())
	}
	panel.Next()
	if panel.Field() != reader.FieldReadingMode {
		t.Errorf("Expected cursor back on %s, got %s", reader.FieldReadingMode, panel.Field())
	}
}

func TestSettingsPanelCycle(t *testing.T) {
	panel := newPanel()

	if got := panel.Cycle(1); got != "double-page" {
		t.Errorf("Cycle(1) = %q, want double-page", got)
	}
	if got := panel.Cycle(-1); got != "webtoon" {
		t.Errorf("Cycle(-1) = %q, want webtoon", got)
	}

	panel.Selected = 4
	if got := panel.Cycle(1); got != "95" {
		t.Errorf("Cycle(1) on scroll amount = %q, want 95", got)
	}

	// Every option must be accepted by the settings.
	for field, options := range settingOptions {
		for _, option := range options {
			s := reader.DefaultSettings()
			if err := s.Set(field, option); err != nil {
				t.Errorf("Set(%s, %s) error = %v", field, option, err)
			}
		}
	}
}

func TestSettingsPanelView(t *testing.T) {
	view := newPanel().View()

	for _, want := range []string{"Reader settings", "Single page", "Left to right (default)", "75%", "Off"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}

func TestSettingLabel(t *testing.T) {
	tests := []struct {
		field, value, want string
	}{
		{reader.FieldTapZoneLayout, "right-left", "Right and left"},
		{reader.FieldReadingDirection, "rtl", "Right to left"},
		{reader.FieldStaticNav, "true", "On"},
		{reader.FieldScrollAmount, "25", "25%"},
	}
	for _, tt := range tests {
		if got := SettingLabel(tt.field, tt.value); got != tt.want {
			t.Errorf("SettingLabel(%s, %s) = %q, want %q", tt.field, tt.value, got, tt.want)
		}
	}
}

func TestTapZonePreviewSize(t *testing.T) {
	preview := TapZonePreview(reader.NewTapZones(reader.LayoutEdge, reader.InvertNone), 9, 3)

	lines := strings.Split(preview, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w != 9 {
			t.Errorf("Expected width 9, got %d", w)
		}
	}
}
