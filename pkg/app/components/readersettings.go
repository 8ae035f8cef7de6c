package components

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/i18n"
	"github.com/kerbaras/mangashelf/pkg/reader"
)

// settingOptions are the values each field cycles through.
var settingOptions = map[string][]string{
	reader.FieldReadingMode: {
		reader.SinglePage.String(),
		reader.DoublePage.String(),
		reader.ContinuousVertical.String(),
		reader.ContinuousHorizontal.String(),
		reader.Webtoon.String(),
	},
	reader.FieldReadingDirection: {reader.LTR.String(), reader.RTL.String()},
	reader.FieldTapZoneLayout: {
		reader.LayoutLShaped.String(),
		reader.LayoutKindle.String(),
		reader.LayoutEdge.String(),
		reader.LayoutRightLeft.String(),
		reader.LayoutDisabled.String(),
	},
	reader.FieldTapZoneInvert: {
		reader.InvertNone.String(),
		reader.InvertHorizontal.String(),
		reader.InvertVertical.String(),
		reader.InvertBoth.String(),
	},
	reader.FieldScrollAmount: {
		strconv.Itoa(reader.ScrollAmountSmall),
		strconv.Itoa(reader.ScrollAmountMedium),
		strconv.Itoa(reader.ScrollAmountLarge),
		strconv.Itoa(reader.ScrollAmountFull),
	},
	reader.FieldStaticNav: {"false", "true"},
}

// SettingsPanel is the reader quick settings overlay. It only tracks the
// cursor; changes are applied by the owner.
type SettingsPanel struct {
	Settings *data.ReaderSettings
	Selected int
}

func NewSettingsPanel(settings *data.ReaderSettings) *SettingsPanel {
	return &SettingsPanel{Settings: settings}
}

func (p *SettingsPanel) Field() string {
	return reader.SettingFields[p.Selected]
}

func (p *SettingsPanel) Next() {
	p.Selected = (p.Selected + 1) % len(reader.SettingFields)
}

func (p *SettingsPanel) Prev() {
	p.Selected = (p.Selected + len(reader.SettingFields) - 1) % len(reader.SettingFields)
}

// Cycle returns the value delta steps away from the current value of the
// selected field.
func (p *SettingsPanel) Cycle(delta int) string {
	field := p.Field()
	options := settingOptions[field]
	current, _ := p.Settings.Value(field)
	i := slices.Index(options, current)
	if i < 0 {
		i = 0
		if delta > 0 {
			delta--
		}
	}
	n := len(options)
	return options[((i+delta)%n+n)%n]
}

func (p *SettingsPanel) View() string {
	var rows []string
	for i, field := range reader.SettingFields {
		label := i18n.T("reader.settings.label." + field)
		value, _ := p.Settings.Value(field)
		text := SettingLabel(field, value)
		if p.Settings.IsDefault[field] {
			text = styles.DefaultValueStyle.Render(
				i18n.Tf("reader.settings.label.default", i18n.Args{"setting": text}),
			)
		}

		line := label + ": " + text
		if i == p.Selected {
			line = styles.ActiveTabStyle.Render("‹ " + line + " ›")
		} else {
			line = styles.TextStyle.Render("  " + line)
		}
		rows = append(rows, line)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(i18n.T("reader.settings.title")),
		strings.Join(rows, "\n"),
		styles.HelpStyle.Render(i18n.T("reader.settings.help")),
	)
	return styles.SettingsPanelStyle.Render(content)
}

// SettingLabel translates a setting value for display.
func SettingLabel(field, value string) string {
	switch field {
	case reader.FieldScrollAmount:
		return value + "%"
	case reader.FieldStaticNav:
		if value == "true" {
			return i18n.T("global.label.on")
		}
		return i18n.T("global.label.off")
	default:
		return i18n.T("reader.settings." + field + "." + strings.ReplaceAll(value, "-", "_"))
	}
}

// TapZonePreview paints the tap zone layout over a width x height area.
func TapZonePreview(zones reader.TapZones, width, height int) string {
	lines := make([]string, height)
	for y := range lines {
		var b strings.Builder
		for x := 0; x < width; x++ {
			region := zones.Resolve(x, y, width, height)
			b.WriteString(styles.TapZoneStyle(region).Render(" "))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
