package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsSetAndValue(t *testing.T) {
	values := map[string]string{
		FieldReadingMode:      "webtoon",
		FieldReadingDirection: "rtl",
		FieldTapZoneLayout:    "kindle",
		FieldTapZoneInvert:    "both",
		FieldScrollAmount:     "50",
		FieldStaticNav:        "true",
	}

	settings := DefaultSettings()
	for _, field := range SettingFields {
		require.NoError(t, settings.Set(field, values[field]), field)
	}

	assert.Equal(t, Webtoon, settings.ReadingMode)
	assert.Equal(t, RTL, settings.ReadingDirection)
	assert.Equal(t, NewTapZones(LayoutKindle, InvertBoth), settings.TapZones)
	assert.Equal(t, ScrollAmountMedium, settings.ScrollAmount)
	assert.True(t, settings.StaticNav)

	for _, field := range SettingFields {
		value, err := settings.Value(field)
		require.NoError(t, err)
		assert.Equal(t, values[field], value, field)
	}
}

func TestSettingsSetRejectsInvalidValues(t *testing.T) {
	settings := DefaultSettings()

	assert.Error(t, settings.Set(FieldScrollAmount, "0"))
	assert.Error(t, settings.Set(FieldScrollAmount, "101"))
	assert.Error(t, settings.Set(FieldStaticNav, "maybe"))
	assert.Error(t, settings.Set("zoom", "1"))
	assert.Equal(t, DefaultSettings(), settings)

	_, err := settings.Value("zoom")
	assert.Error(t, err)
}
