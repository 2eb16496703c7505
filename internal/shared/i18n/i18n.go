// Package i18n renders diagnostic messages in the configured language.
package i18n

import (
	"embed"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/engine/check"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

// Fallback is used for keys a language does not translate.
const Fallback = "en"

//go:embed messages/*.toml
var messages embed.FS

// Catalog holds message templates per language. Templates reference
// parameters as {name}.
type Catalog struct {
	templates map[string]map[string]string
}

// Load reads the built-in catalogs.
func Load() (*Catalog, error) {
	entries, err := messages.ReadDir("messages")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "read message catalogs")
	}
	c := &Catalog{templates: make(map[string]map[string]string)}
	for _, e := range entries {
		name := e.Name()
		data, err := messages.ReadFile(path.Join("messages", name))
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "read message catalog")
		}
		var tmpl map[string]string
		if _, err := toml.Decode(string(data), &tmpl); err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeInternal, "decode message catalog"),
				errors.CtxPath, name,
			)
		}
		c.Add(strings.TrimSuffix(name, path.Ext(name)), tmpl)
	}
	return c, nil
}

// Default is the built-in catalog. It panics if the embedded files are broken.
func Default() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Add merges templates for lang, replacing existing keys.
func (c *Catalog) Add(lang string, templates map[string]string) {
	if c.templates == nil {
		c.templates = make(map[string]map[string]string)
	}
	if c.templates[lang] == nil {
		c.templates[lang] = make(map[string]string, len(templates))
	}
	for k, v := range templates {
		c.templates[lang][k] = v
	}
}

// Supports reports whether lang has a catalog.
func (c *Catalog) Supports(lang string) bool {
	_, ok := c.templates[lang]
	return ok
}

// Translate renders msg in lang. Missing templates fall back to the
// Fallback language and then to the bare key.
func (c *Catalog) Translate(lang string, msg check.Message) string {
	tmpl, ok := c.templates[lang][msg.Key]
	if !ok {
		tmpl, ok = c.templates[Fallback][msg.Key]
	}
	if !ok {
		tmpl = msg.Key
	}
	return expand(tmpl, msg.Params)
}

// expand replaces {name} with params[name]. Unknown placeholders stay as
// written.
func expand(tmpl string, params map[string]string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			break
		}
		end += open
		b.WriteString(tmpl[:open])
		if v, ok := params[tmpl[open+1:end]]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(tmpl[open : end+1])
		}
		tmpl = tmpl[end+1:]
	}
	b.WriteString(tmpl)
	return b.String()
}
