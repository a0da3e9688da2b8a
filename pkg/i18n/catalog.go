// Package i18n holds translation catalogs for form chrome and labels. The
// Catalog satisfies render.Translator.
package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrMissingKey is returned when neither the requested locale nor the
// fallback define a key.
var ErrMissingKey = errors.New("i18n: missing translation")

// Catalog maps locales to flattened message keys. Nested YAML maps become
// dotted keys ("toolbar.submit").
type Catalog struct {
	mu       sync.RWMutex
	fallback string
	messages map[string]map[string]string
	matcher  language.Matcher
	tags     []language.Tag
}

// NewCatalog creates an empty catalog falling back to fallback.
func NewCatalog(fallback string) *Catalog {
	return &Catalog{
		fallback: canonical(fallback),
		messages: make(map[string]map[string]string),
	}
}

// LoadFS builds a catalog from every <locale>.yaml/.yml file in fsys.
func LoadFS(fsys fs.FS, fallback string) (*Catalog, error) {
	catalog := NewCatalog(fallback)
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("i18n: read catalog dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		ext := path.Ext(name)
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		if err := catalog.AddYAML(strings.TrimSuffix(name, ext), data); err != nil {
			return nil, err
		}
	}
	if !catalog.Has(catalog.fallback) {
		return nil, fmt.Errorf("i18n: fallback locale %q has no catalog", catalog.fallback)
	}
	return catalog, nil
}

// AddYAML merges the YAML document into locale's messages.
func (c *Catalog) AddYAML(locale string, data []byte) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("i18n: invalid locale %q: %w", locale, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("i18n: parse %s catalog: %w", locale, err)
	}
	flat := make(map[string]string)
	flatten("", raw, flat)
	c.Add(tag.String(), flat)
	return nil
}

// Add merges messages into locale.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = canonical(locale)
	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok := c.messages[locale]
	if !ok {
		target = make(map[string]string, len(messages))
		c.messages[locale] = target
		c.rebuildMatcherLocked()
	}
	for key, msg := range messages {
		target[key] = msg
	}
}

// Translate resolves key for locale, falling back to the base language and
// then to the catalog fallback. Args are applied with fmt.Sprintf.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range c.candidatesLocked(locale) {
		if msg, ok := c.messages[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingKey, locale, key)
}

// Has reports whether locale has a catalog.
func (c *Catalog) Has(locale string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.messages[canonical(locale)]
	return ok
}

// Locales lists the loaded locales, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Fallback returns the fallback locale.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// Negotiate picks the best supported locale. Each preference may be a single
// tag ("de") or an Accept-Language header value; the first preference that
// matches a loaded catalog wins, otherwise the fallback is returned.
func (c *Catalog) Negotiate(preferences ...string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.matcher == nil {
		return c.fallback
	}
	for _, pref := range preferences {
		pref = strings.TrimSpace(pref)
		if pref == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, index, confidence := c.matcher.Match(tags...)
		if confidence >= language.High {
			return c.tags[index].String()
		}
	}
	return c.fallback
}

func (c *Catalog) rebuildMatcherLocked() {
	locales := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		locales = append(locales, locale)
	}
	sort.Slice(locales, func(i, j int) bool {
		// the fallback leads so it wins ties
		if locales[i] == c.fallback || locales[j] == c.fallback {
			return locales[i] == c.fallback
		}
		return locales[i] < locales[j]
	})
	c.tags = make([]language.Tag, 0, len(locales))
	for _, locale := range locales {
		c.tags = append(c.tags, language.Make(locale))
	}
	c.matcher = language.NewMatcher(c.tags)
}

func (c *Catalog) candidatesLocked(locale string) []string {
	locale = canonical(locale)
	out := []string{locale}
	if base, _ := language.Make(locale).Base(); base.String() != locale {
		out = append(out, base.String())
	}
	return append(out, c.fallback)
}

func canonical(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return strings.TrimSpace(locale)
	}
	return tag.String()
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for key, value := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case nil:
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
