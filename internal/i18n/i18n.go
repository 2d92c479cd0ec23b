package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

const (
	LangEN = "en"
	LangRU = "ru"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

type Manager struct {
	defaultLanguage string
	supported       []string
	// merged holds each locale with missing or blank keys filled from the
	// default locale. The maps are shared and must not be modified.
	merged map[string]map[string]string
}

// NewManager loads locales from localesDir, or from the copies embedded in
// the binary when localesDir is empty.
func NewManager(defaultLanguage string, localesDir string) (*Manager, error) {
	if strings.TrimSpace(localesDir) == "" {
		sub, err := fs.Sub(embeddedLocales, "locales")
		if err != nil {
			return nil, fmt.Errorf("open embedded locales: %w", err)
		}
		return NewManagerFS(defaultLanguage, sub)
	}
	return NewManagerFS(defaultLanguage, os.DirFS(localesDir))
}

// NewManagerFS reads every <lang>.json file in files. An English locale is
// required; an unsupported defaultLanguage falls back to English.
func NewManagerFS(defaultLanguage string, files fs.FS) (*Manager, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	locales := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}

		language := normalizeLanguageTag(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
		content, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}
		locales[language] = messages
	}

	if _, ok := locales[LangEN]; !ok {
		return nil, fmt.Errorf("required locale %q missing", LangEN)
	}

	manager := &Manager{
		defaultLanguage: LangEN,
		supported:       make([]string, 0, len(locales)),
		merged:          make(map[string]map[string]string, len(locales)),
	}
	for language := range locales {
		manager.supported = append(manager.supported, language)
	}
	sort.Strings(manager.supported)
	if language := normalizeLanguageTag(defaultLanguage); locales[language] != nil {
		manager.defaultLanguage = language
	}

	base := locales[manager.defaultLanguage]
	for language, messages := range locales {
		merged := make(map[string]string, len(base)+len(messages))
		for key, value := range base {
			merged[key] = value
		}
		for key, value := range messages {
			if strings.TrimSpace(value) != "" {
				merged[key] = value
			}
		}
		manager.merged[language] = merged
	}
	return manager, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.supported...)
}

func (manager *Manager) NormalizeLanguage(raw string) string {
	if normalized := normalizeLanguageTag(raw); manager.merged[normalized] != nil {
		return normalized
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the supported language with the highest
// q-value. Equal weights keep header order.
func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	best := ""
	bestWeight := 0.0
	for _, part := range strings.Split(raw, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		language := normalizeLanguageTag(tag)
		if manager.merged[language] == nil {
			continue
		}
		if weight := qualityWeight(params); weight > bestWeight {
			best = language
			bestWeight = weight
		}
	}
	if best == "" {
		return manager.defaultLanguage
	}
	return best
}

// Messages returns the merged message map for language. Callers must treat
// it as read-only.
func (manager *Manager) Messages(language string) map[string]string {
	return manager.merged[manager.NormalizeLanguage(language)]
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.Messages(language)[key]; ok {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

func qualityWeight(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || strings.TrimSpace(name) != "q" {
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || weight < 0 {
			return 0
		}
		return weight
	}
	return 1
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	if separator := strings.Index(language, "-"); separator >= 0 {
		language = language[:separator]
	}
	return language
}
