// Package i18n resolves the language of a request and localizes the
// messages shown to template authors when a filter fails. Catalogs are TOML
// files embedded in the binary and loaded into a go-i18n bundle once.
package i18n

import (
	"embed"
	"net/http"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"liquidfilters/logger"
)

const (
	// QueryParamLang is the URL query parameter selecting the language.
	QueryParamLang = "lang"
	// HeaderAcceptLanguage is the HTTP header used for language negotiation.
	HeaderAcceptLanguage = "Accept-Language"
	// DefaultLang is the fallback language when none is specified.
	DefaultLang = "en"
)

//go:embed locales/*.toml
var catalogs embed.FS

var (
	initOnce sync.Once
	bundle   *i18n.Bundle

	supportedTags  = []language.Tag{language.English, language.French}
	supportedCodes = map[string]struct{}{"en": {}, "fr": {}}
	matcher        = language.NewMatcher(supportedTags)
)

// Init loads the embedded catalogs. It is called lazily by the other
// functions and may be called explicitly at startup.
func Init() {
	initOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		for _, name := range []string{"locales/active.en.toml", "locales/active.fr.toml"} {
			if _, err := bundle.LoadMessageFileFS(catalogs, name); err != nil {
				logger.Get().Error().Err(err).Str("file", name).Msg("Failed to load translation file")
				continue
			}
			logger.Get().Debug().Str("file", name).Msg("Translation file loaded")
		}
	})
}

// Supported reports whether code names a language with a catalog.
func Supported(code string) bool {
	_, ok := supportedCodes[code]
	return ok
}

// Normalize reduces a language code to a supported base language, falling
// back to DefaultLang.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if base, _, ok := strings.Cut(code, "-"); ok {
		code = base
	}
	if base, _, ok := strings.Cut(code, "_"); ok {
		code = base
	}
	if Supported(code) {
		return code
	}
	return DefaultLang
}

// GetLanguage extracts the catalog language from the request: query
// parameter, then Accept-Language, then the default.
func GetLanguage(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get(QueryParamLang)); lang != "" {
		return Normalize(lang)
	}

	if accept := strings.TrimSpace(r.Header.Get(HeaderAcceptLanguage)); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			tag, _, _ := matcher.Match(tags...)
			base, _ := tag.Base()
			return Normalize(base.String())
		}
	}

	return DefaultLang
}

// ParseTag parses a BCP 47 tag such as "fr-CA". Filters accept any valid
// tag, not only the languages that have a catalog.
func ParseTag(s string) (language.Tag, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return language.English, nil
	}
	return language.Parse(s)
}

// NewLocalizer returns a localizer for lang that falls back to English for
// missing messages.
func NewLocalizer(lang string) *i18n.Localizer {
	Init()
	if lang == "" {
		lang = DefaultLang
	}
	return i18n.NewLocalizer(bundle, lang, DefaultLang)
}

// GetLocalizer returns the localizer for the language of the request.
func GetLocalizer(r *http.Request) *i18n.Localizer {
	return NewLocalizer(GetLanguage(r))
}

// Localize translates messageID, filling the message template with data.
// When the message is missing it returns messageID and logs a warning.
func Localize(localizer *i18n.Localizer, messageID string, data map[string]any) string {
	if localizer == nil || messageID == "" {
		return messageID
	}

	localized, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		logger.Get().Warn().Err(err).Str("message_id", messageID).Msg("Translation not found")
		return messageID
	}
	return localized
}
