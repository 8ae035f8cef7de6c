// Package i18n loads translated UI strings and resolves the user's language.
package i18n

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Resources lists the available translations. Codes double as the file
// names under locales/.
var Resources = []string{
	"ar",
	"bn",
	"da",
	"de",
	"en",
	"es",
	"fr",
	"id",
	"it",
	"ja",
	"ko",
	"nb-NO",
	"nl",
	"pt",
	"ru",
	"sv",
	"th",
	"tr",
	"uk",
	"vi",
	"zh_Hans",
	"zh_Hant",
}

const FallbackLanguage = "en"

// Args are interpolation values, referenced as {{name}} in translations.
type Args map[string]any

type Bundle struct {
	backend Backend
	logger  *zap.Logger
	debug   bool

	mu           sync.RWMutex
	language     string
	tag          language.Tag
	translations map[string]map[string]string
}

func New(backend Backend, logger *zap.Logger, debug bool) *Bundle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bundle{
		backend:      backend,
		logger:       logger,
		debug:        debug,
		language:     FallbackLanguage,
		tag:          language.English,
		translations: make(map[string]map[string]string),
	}
}

// Init detects the language from preferred and the environment and loads it
// together with the fallback. A language that fails to load leaves the
// fallback active.
func (b *Bundle) Init(ctx context.Context, preferred string) error {
	lng := Detect(preferred, envLookup)
	err := b.ChangeLanguage(ctx, lng)
	if err == nil || lng == FallbackLanguage {
		return err
	}
	b.logger.Warn("failed to load language, using fallback",
		zap.String("language", lng),
		zap.Error(err),
	)
	return b.ChangeLanguage(ctx, FallbackLanguage)
}

// ChangeLanguage loads lng, if needed, and makes it active. Unknown codes
// resolve to the closest available translation.
func (b *Bundle) ChangeLanguage(ctx context.Context, lng string) error {
	lng = Match(lng)
	if err := b.load(ctx, lng, FallbackLanguage); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.language = lng
	b.tag = parseTag(lng)
	if b.debug {
		b.logger.Debug("i18n language changed", zap.String("language", lng))
	}
	return nil
}

// load fetches every language not loaded yet, concurrently.
func (b *Bundle) load(ctx context.Context, languages ...string) error {
	b.mu.RLock()
	var missing []string
	for _, lng := range languages {
		if _, ok := b.translations[lng]; !ok && !contains(missing, lng) {
			missing = append(missing, lng)
		}
	}
	b.mu.RUnlock()

	loaded := make([]map[string]string, len(missing))
	g, ctx := errgroup.WithContext(ctx)
	for i, lng := range missing {
		g.Go(func() error {
			resources, err := b.backend.Load(ctx, lng)
			if err != nil {
				return err
			}
			flat := make(map[string]string)
			flatten("", resources, flat)
			loaded[i] = flat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("i18n: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, lng := range missing {
		b.translations[lng] = loaded[i]
	}
	return nil
}

func (b *Bundle) Language() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.language
}

// Tag is the language tag of the active language.
func (b *Bundle) Tag() language.Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tag
}

// T translates key in the active language.
func (b *Bundle) T(key string) string {
	return b.Translate(key, nil)
}

// Translate looks key up in the active language, then the fallback, and
// interpolates args. A missing key translates to itself.
func (b *Bundle) Translate(key string, args Args) string {
	b.mu.RLock()
	value, ok := b.translations[b.language][key]
	if !ok {
		value, ok = b.translations[FallbackLanguage][key]
	}
	tag := b.tag
	lng := b.language
	b.mu.RUnlock()

	if !ok {
		if b.debug {
			b.logger.Debug("i18n missing key", zap.String("language", lng), zap.String("key", key))
		}
		return key
	}
	return interpolate(value, args, tag)
}

var placeholder = regexp.MustCompile(`\{\{\s*([^,}\s]+)\s*(?:,\s*([^}\s]+)\s*)?\}\}`)

func interpolate(value string, args Args, tag language.Tag) string {
	if len(args) == 0 {
		return value
	}
	return placeholder.ReplaceAllStringFunc(value, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		arg, ok := args[groups[1]]
		if !ok {
			return match
		}
		return format(fmt.Sprint(arg), groups[2], tag)
	})
}

func format(value, name string, tag language.Tag) string {
	switch name {
	case "lowercase":
		return cases.Lower(tag).String(value)
	default:
		return value
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

var (
	defaultMu     sync.RWMutex
	defaultBundle = New(EmbeddedBackend(), nil, false)
)

func init() {
	if err := defaultBundle.load(context.Background(), FallbackLanguage); err != nil {
		panic(err)
	}
}

// SetDefault replaces the bundle used by the package level functions.
func SetDefault(b *Bundle) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultBundle = b
}

func Default() *Bundle {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultBundle
}

// T translates key with the default bundle.
func T(key string) string {
	return Default().T(key)
}

// Tf translates key with the default bundle and interpolates args.
func Tf(key string, args Args) string {
	return Default().Translate(key, args)
}
