package reader

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting fields, as stored and accepted on the command line.
const (
	FieldReadingMode      = "reading_mode"
	FieldReadingDirection = "reading_direction"
	FieldTapZoneLayout    = "tap_zone_layout"
	FieldTapZoneInvert    = "tap_zone_invert"
	FieldScrollAmount     = "scroll_amount"
	FieldStaticNav        = "static_nav"
)

// SettingFields lists every field in display order.
var SettingFields = []string{
	FieldReadingMode,
	FieldReadingDirection,
	FieldTapZoneLayout,
	FieldTapZoneInvert,
	FieldScrollAmount,
	FieldStaticNav,
}

// Set parses value into field.
func (s *Settings) Set(field, value string) error {
	switch field {
	case FieldReadingMode:
		mode, err := ParseReadingMode(value)
		if err != nil {
			return err
		}
		s.ReadingMode = mode
	case FieldReadingDirection:
		direction, err := ParseReadingDirection(value)
		if err != nil {
			return err
		}
		s.ReadingDirection = direction
	case FieldTapZoneLayout:
		layout, err := ParseTapZoneLayout(value)
		if err != nil {
			return err
		}
		s.TapZones.Layout = layout
	case FieldTapZoneInvert:
		invert, err := ParseTapZoneInvert(value)
		if err != nil {
			return err
		}
		s.TapZones.Invert = invert
	case FieldScrollAmount:
		amount, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid scroll amount %q", value)
		}
		if amount <= 0 || amount > 100 {
			return fmt.Errorf("scroll amount %d out of range", amount)
		}
		s.ScrollAmount = amount
	case FieldStaticNav:
		static, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid static navigation value %q", value)
		}
		s.StaticNav = static
	default:
		return fmt.Errorf("unknown reader setting %q", field)
	}
	return nil
}

// Value formats field the way Set accepts it.
func (s Settings) Value(field string) (string, error) {
	switch field {
	case FieldReadingMode:
		return s.ReadingMode.String(), nil
	case FieldReadingDirection:
		return s.ReadingDirection.String(), nil
	case FieldTapZoneLayout:
		return s.TapZones.Layout.String(), nil
	case FieldTapZoneInvert:
		return s.TapZones.Invert.String(), nil
	case FieldScrollAmount:
		return strconv.Itoa(s.ScrollAmount), nil
	case FieldStaticNav:
		return strconv.FormatBool(s.StaticNav), nil
	default:
		return "", fmt.Errorf("unknown reader setting %q", field)
	}
}
