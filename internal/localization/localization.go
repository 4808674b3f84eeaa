// Package localization loads translated message templates from JSON files
// named after their language code, e.g. "en.json".
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

// DefaultLanguage is used when a key is missing in the requested language.
const DefaultLanguage = "en"

//go:embed *.json
var bundled embed.FS

// Localizer holds translations per language.
type Localizer struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
}

// NewLocalizer loads the bundled translations and then any JSON files in
// dir, which override bundled keys. dir may be empty.
func NewLocalizer(dir string) (*Localizer, error) {
	l := &Localizer{translations: make(map[string]map[string]string)}
	if err := l.load(bundled); err != nil {
		return nil, err
	}
	if dir != "" {
		if err := l.load(os.DirFS(dir)); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Localizer) load(fsys fs.FS) error {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read localization directory: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, file := range files {
		if file.IsDir() || path.Ext(file.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, file.Name())
		if err != nil {
			return fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}
		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		if l.translations[lang] == nil {
			l.translations[lang] = make(map[string]string, len(messages))
		}
		for k, v := range messages {
			l.translations[lang][k] = v
		}
	}
	return nil
}

// GetString returns the message for key in lang, falling back to the
// default language and then to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if value, ok := l.translations[lang][key]; ok {
		return value
	}
	if value, ok := l.translations[DefaultLanguage][key]; ok {
		return value
	}
	return key
}

// Format is GetString followed by fmt.Sprintf.
func (l *Localizer) Format(lang, key string, args ...any) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}

// Languages returns the loaded language codes, sorted.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.translations))
	for lang := range l.translations {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
