// Package i18n localizes the labels shown in the terminal UI and in reports.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Supported lists the bundled languages. The first is the fallback.
var Supported = []language.Tag{language.English, language.Spanish}

var (
	bundleOnce sync.Once
	bundle     *goi18n.Bundle
	bundleErr  error
	matcher    = language.NewMatcher(Supported)
)

func loadBundle() (*goi18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := goi18n.NewBundle(Supported[0])
		b.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			bundleErr = fmt.Errorf("read locales: %w", err)
			return
		}
		for _, e := range entries {
			data, err := localeFS.ReadFile("locales/" + e.Name())
			if err != nil {
				bundleErr = fmt.Errorf("read locale %s: %w", e.Name(), err)
				return
			}
			if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
				bundleErr = fmt.Errorf("parse locale %s: %w", e.Name(), err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Translator renders messages in one language.
type Translator struct {
	loc  *goi18n.Localizer
	lang language.Tag
}

// New returns a Translator for lang, a BCP 47 tag such as "es" or "en-GB".
// Unsupported languages fall back to the closest bundled one.
func New(lang string) (*Translator, error) {
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}

	tag := Supported[0]
	if lang != "" {
		parsed, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", lang, err)
		}
		_, idx, _ := matcher.Match(parsed)
		tag = Supported[idx]
	}
	return &Translator{loc: goi18n.NewLocalizer(b, tag.String()), lang: tag}, nil
}

// Default returns the English translator. It panics only if the embedded
// locales are broken.
func Default() *Translator {
	t, err := New("")
	if err != nil {
		panic(err)
	}
	return t
}

// Lang is the language messages are rendered in.
func (t *Translator) Lang() language.Tag { return t.lang }

// T renders message id. A missing message renders as its id.
func (t *Translator) T(id string) string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: id})
}

// Td renders message id with template data.
func (t *Translator) Td(id string, data map[string]any) string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
}

// Tp renders the plural form of id for count. Count is available to the
// template as {{.Count}}.
func (t *Translator) Tp(id string, count int) string {
	return t.localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

func (t *Translator) localize(cfg *goi18n.LocalizeConfig) string {
	s, err := t.loc.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "lang", t.lang.String(), "error", err)
		return cfg.MessageID
	}
	return s
}
