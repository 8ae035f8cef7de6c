package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// localeEnv is checked in order, the way POSIX resolves message locales.
var localeEnv = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

var envLookup = os.Getenv

var (
	supported []language.Tag
	matcher   language.Matcher
)

func init() {
	// The fallback goes first so that unmatched languages resolve to it.
	supported = append(supported, parseTag(FallbackLanguage))
	for _, code := range Resources {
		if code != FallbackLanguage {
			supported = append(supported, parseTag(code))
		}
	}
	matcher = language.NewMatcher(supported)
}

// parseTag parses a resource code. Resource codes use underscores for
// scripts (zh_Hans) which BCP 47 spells with a hyphen.
func parseTag(code string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.English
	}
	return tag
}

// Match returns the resource code closest to lng.
func Match(lng string) string {
	if lng == "" {
		return FallbackLanguage
	}
	for _, code := range Resources {
		if code == lng {
			return code
		}
	}
	_, index, confidence := matcher.Match(parseTag(lng))
	if confidence == language.No {
		return FallbackLanguage
	}
	if index == 0 {
		return FallbackLanguage
	}
	return resourceAt(index)
}

// resourceAt maps a matcher index back to a resource code.
func resourceAt(index int) string {
	i := 0
	for _, code := range Resources {
		if code == FallbackLanguage {
			continue
		}
		i++
		if i == index {
			return code
		}
	}
	return FallbackLanguage
}

// Detect picks the language code to use. An explicit preference wins,
// then the locale environment, then the fallback.
func Detect(preferred string, getenv func(string) string) string {
	if preferred != "" {
		return Match(preferred)
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range localeEnv {
		if locale := normalizeLocale(getenv(key)); locale != "" {
			return Match(locale)
		}
	}
	return FallbackLanguage
}

// normalizeLocale turns a POSIX locale such as pt_BR.UTF-8@euro into pt-BR.
func normalizeLocale(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}
