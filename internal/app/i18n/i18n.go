// Package i18n holds the dashboard's message catalogs.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when no supported language can be detected
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var locales embed.FS

// Catalog maps language -> flattened dotted key -> message
type Catalog struct {
	messages map[string]map[string]string
}

// New loads the built-in catalogs
func New() (*Catalog, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}

	c := &Catalog{messages: make(map[string]map[string]string)}
	for _, e := range entries {
		data, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		lang := strings.TrimSuffix(e.Name(), ".yaml")
		if err := c.Load(lang, data); err != nil {
			return nil, fmt.Errorf("locale %s: %w", lang, err)
		}
	}
	return c, nil
}

// MustNew is New for package initialisation and tests
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Load merges a YAML document of nested keys into lang
func (c *Catalog) Load(lang string, data []byte) error {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	flat, ok := c.messages[lang]
	if !ok {
		flat = make(map[string]string)
		c.messages[lang] = flat
	}
	flatten("", tree, flat)
	return nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// T translates key into lang, falling back to the default language and
// finally to the key itself. Args are applied with fmt.Sprintf.
func (c *Catalog) T(lang, key string, args ...interface{}) string {
	msg, ok := c.messages[lang][key]
	if !ok {
		msg, ok = c.messages[DefaultLanguage][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether lang defines key
func (c *Catalog) Has(lang, key string) bool {
	_, ok := c.messages[lang][key]
	return ok
}

// Languages returns the loaded languages, sorted
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.messages))
	for l := range c.messages {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Keys returns every key defined for lang, sorted
func (c *Catalog) Keys(lang string) []string {
	keys := make([]string, 0, len(c.messages[lang]))
	for k := range c.messages[lang] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Supported reports whether lang is one of the shipped languages
func Supported(lang string) bool {
	return lang == "en" || lang == "ru"
}

// Detect picks a supported language from a POSIX locale such as "ru_RU.UTF-8"
// or a browser tag such as "ru-RU"
func Detect(locale string) string {
	l := strings.ToLower(locale)
	if i := strings.IndexAny(l, "_-."); i >= 0 {
		l = l[:i]
	}
	if Supported(l) {
		return l
	}
	return DefaultLanguage
}
