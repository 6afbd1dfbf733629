package localize

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed lang/*.json
var bundled embed.FS

// Store maps a key to its per-locale templates. It is never mutated after
// construction, so it can be shared freely.
type Store struct {
	entries map[string]map[string]string
}

func NewStore() *Store {
	return &Store{entries: map[string]map[string]string{}}
}

// LoadBundled reads the language files compiled into the binary.
func LoadBundled() (*Store, error) {
	return Load(bundled, "lang")
}

// Load reads every *.json, *.yaml and *.yml file in dir. The file name
// without extension is the locale (en-US.json, fr.yaml).
func Load(fsys fs.FS, dir string) (*Store, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch path.Ext(entry.Name()) {
		case ".json", ".yaml", ".yml":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	store := NewStore()
	for _, file := range files {
		locale, err := CanonicalLocale(strings.TrimSuffix(file, path.Ext(file)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, file))
		if err != nil {
			return nil, err
		}
		var strs map[string]string
		if err := yaml.Unmarshal(content, &strs); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		for key, value := range strs {
			store.set(key, locale, value)
		}
	}
	return store, nil
}

func (s *Store) set(key, locale, value string) {
	byLocale, ok := s.entries[key]
	if !ok {
		byLocale = map[string]string{}
		s.entries[key] = byLocale
	}
	byLocale[locale] = value
}

// Merge returns a new store holding s overlaid with other.
func (s *Store) Merge(other *Store) *Store {
	out := NewStore()
	for _, src := range []*Store{s, other} {
		if src == nil {
			continue
		}
		for key, byLocale := range src.entries {
			for locale, value := range byLocale {
				out.set(key, locale, value)
			}
		}
	}
	return out
}

// Get returns a copy of the templates registered for key.
func (s *Store) Get(key string) (map[string]string, bool) {
	byLocale, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(byLocale))
	for locale, value := range byLocale {
		out[locale] = value
	}
	return out, true
}

func (s *Store) lookup(key, locale string) (string, bool, bool) {
	byLocale, ok := s.entries[key]
	if !ok {
		return "", false, false
	}
	value, ok := byLocale[locale]
	return value, true, ok
}

func (s *Store) Len() int {
	return len(s.entries)
}

// CanonicalLocale normalizes a locale code to its BCP 47 form (en_us -> en-US).
func CanonicalLocale(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}
