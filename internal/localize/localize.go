package localize

import (
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

type Localizer struct {
	store *Store
}

func New(store *Store) *Localizer {
	if store == nil {
		store = NewStore()
	}
	return &Localizer{store: store}
}

// Get resolves key for locale. A missing key, or a key without an entry for
// that exact locale, falls back to def; other locales are never consulted.
func (l *Localizer) Get(def, locale, key string, placeholders map[string]string) string {
	if canonical, err := CanonicalLocale(locale); err == nil {
		locale = canonical
	}
	template := def
	if value, _, ok := l.store.lookup(key, locale); ok {
		template = value
	}
	return Format(template, placeholders)
}

// Format substitutes {name} placeholders. Unknown placeholders are kept as is.
func Format(template string, placeholders map[string]string) string {
	if !strings.Contains(template, "{") {
		return template
	}
	out, err := fasttemplate.ExecuteFuncStringWithErr(template, "{", "}", func(w io.Writer, tag string) (int, error) {
		if value, ok := placeholders[tag]; ok {
			return w.Write([]byte(value))
		}
		return w.Write([]byte("{" + tag + "}"))
	})
	if err != nil {
		return template
	}
	return out
}
