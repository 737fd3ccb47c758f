// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"maps"
	"slices"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is the fallback locale for every lookup.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog holds the parsed message templates for one locale.
type Catalog struct {
	locale    string
	templates map[Code]*template.Template
	raw       map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{
		BaseLocale: NewCatalog(BaseLocale, enUSMessages),
		"pt-BR":    NewCatalog("pt-BR", ptBRMessages),
	}
)

// GetCatalog returns the catalog for the given locale.
// Falls back to en-US if the locale is not found.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}
	if c, ok := lookupCatalog(requested); ok {
		return c
	}
	if c, ok := lookupCatalog(matchLocale(requested)); ok {
		return c
	}
	c, _ := lookupCatalog(BaseLocale)
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata. An unknown code
// renders as itself; a template that fails renders unexpanded.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.templates[code]
	if !ok {
		if raw, ok := c.raw[code]; ok {
			return raw
		}
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return c.raw[code]
	}
	return buf.String()
}

// RegisterCatalog makes cat available to GetCatalog under locale.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog parses messages into a catalog for locale. Messages that fail
// to parse are kept as plain text.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		templates: make(map[Code]*template.Template, len(messages)),
		raw:       maps.Clone(messages),
	}
	for code, text := range messages {
		tmpl, err := template.New(code).Parse(text)
		if err != nil {
			continue
		}
		c.templates[code] = tmpl
	}
	return c
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

// matchLocale resolves a requested tag (e.g. "en-GB") to the closest
// registered catalog locale.
func matchLocale(requested string) string {
	catalogsMu.RLock()
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	catalogsMu.RUnlock()
	// The base locale leads so it is the matcher's default.
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case a == BaseLocale:
			return -1
		case b == BaseLocale:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})

	supported := make([]language.Tag, 0, len(names))
	matched := make([]string, 0, len(names))
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		matched = append(matched, name)
	}
	if len(supported) == 0 {
		return BaseLocale
	}

	_, index, confidence := language.NewMatcher(supported).Match(language.Make(requested))
	if confidence == language.No {
		return BaseLocale
	}
	return matched[index]
}
