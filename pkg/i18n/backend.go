package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/kerbaras/mangashelf/pkg/utils"
)

// LoadPath is where a language's resources live, relative to the backend.
const LoadPath = "locales/{{lng}}.json"

//go:embed locales/*.json
var embedded embed.FS

// Backend loads the nested JSON resources of one language.
type Backend interface {
	Load(ctx context.Context, lng string) (map[string]any, error)
}

func resourcePath(lng string) string {
	return strings.ReplaceAll(LoadPath, "{{lng}}", lng)
}

// FSBackend reads resources from a filesystem.
type FSBackend struct {
	FS fs.FS
}

// EmbeddedBackend serves the locales bundled into the binary.
func EmbeddedBackend() FSBackend {
	return FSBackend{FS: embedded}
}

// EmbeddedLanguages lists the languages bundled into the binary. The rest
// of Resources are only served by an HTTP backend.
func EmbeddedLanguages() []string {
	files, _ := fs.Glob(embedded, resourcePath("*"))
	languages := make([]string, len(files))
	for i, file := range files {
		languages[i] = strings.TrimSuffix(path.Base(file), ".json")
	}
	return languages
}

func (b FSBackend) Load(_ context.Context, lng string) (map[string]any, error) {
	data, err := fs.ReadFile(b.FS, resourcePath(lng))
	if err != nil {
		return nil, fmt.Errorf("failed to read locale %s: %w", lng, err)
	}
	var resources map[string]any
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, fmt.Errorf("failed to parse locale %s: %w", lng, err)
	}
	return resources, nil
}

// HTTPBackend fetches resources from a server serving /locales/{lng}.json.
type HTTPBackend struct {
	api *utils.API
}

func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{api: utils.NewAPI(strings.TrimRight(baseURL, "/"))}
}

func (b *HTTPBackend) Load(ctx context.Context, lng string) (map[string]any, error) {
	var resources map[string]any
	if err := b.api.Get(ctx, "/"+resourcePath(lng), nil, &resources); err != nil {
		return nil, fmt.Errorf("failed to fetch locale %s: %w", lng, err)
	}
	return resources, nil
}

// ChainBackend tries each backend in order until one has the language.
type ChainBackend []Backend

func (c ChainBackend) Load(ctx context.Context, lng string) (map[string]any, error) {
	var lastErr error
	for _, backend := range c {
		resources, err := backend.Load(ctx, lng)
		if err == nil {
			return resources, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no backend for locale %s", lng)
	}
	return nil, lastErr
}

// flatten turns nested resources into dotted keys.
func flatten(prefix string, resources map[string]any, out map[string]string) {
	for key, value := range resources {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(key, v, out)
		case string:
			out[key] = v
		case nil:
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}
