package i18n

import (
	"embed"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"checkin/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var catalogs = []string{"active.he.toml", "active.en.toml"}

var _ output.T = (*Translator)(nil)

// Translator renders envelope messages in the language negotiated from an
// Accept-Language header.
type Translator struct {
	bundle    *i18n.Bundle
	supported []language.Tag
	matcher   language.Matcher

	mu         sync.Mutex
	localizers map[language.Tag]*i18n.Localizer
}

// NewTranslator loads the embedded catalogs. defaultLocale (e.g. "he") answers
// requests whose languages have no catalog; an unparsable value means Hebrew.
func NewTranslator(defaultLocale string) *Translator {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		def = language.Hebrew
	}
	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range catalogs {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			slog.Error("i18n: failed to load catalog", "file", file, "err", err)
		}
	}

	// The matcher falls back to its first tag, so the default leads.
	supported := []language.Tag{def}
	for _, tag := range bundle.LanguageTags() {
		if tag != def {
			supported = append(supported, tag)
		}
	}
	return &Translator{
		bundle:     bundle,
		supported:  supported,
		matcher:    language.NewMatcher(supported),
		localizers: make(map[language.Tag]*i18n.Localizer, len(supported)),
	}
}

// Locales lists the default language followed by every loaded catalog.
func (t *Translator) Locales() []language.Tag {
	return append([]language.Tag(nil), t.supported...)
}

// negotiate picks the supported language for a raw Accept-Language value.
func (t *Translator) negotiate(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return t.supported[0]
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.supported[0]
	}
	_, idx, conf := t.matcher.Match(prefs...)
	if conf == language.No {
		return t.supported[0]
	}
	return t.supported[idx]
}

func (t *Translator) localizer(tag language.Tag) *i18n.Localizer {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.localizers[tag]
	if !ok {
		l = i18n.NewLocalizer(t.bundle, tag.String(), t.supported[0].String())
		t.localizers[tag] = l
	}
	return l
}

// T renders key for locale, a raw Accept-Language value. A key missing from
// the negotiated catalog falls back to the default one, then to the key.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	tag := t.negotiate(locale)
	msg, err := t.localizer(tag).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("i18n: localize failed", "key", key, "locale", tag.String(), "err", err)
		return key
	}
	return msg
}
