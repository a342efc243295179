// Package i18n loads embedded locale bundles and translates user-facing
// strings: notification text, calendar event summaries, and the titles of
// system-defined contact groups.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/malotru/jourj/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator wraps a go-i18n localizer for one active language.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer

	// SupportedLanguages lists the language codes detected in the embedded
	// locale directory.
	SupportedLanguages []string
}

// New builds a Translator for the given language, falling back to English
// for messages the language does not cover.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return t.activate(lang)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		t.SupportedLanguages = append(t.SupportedLanguages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	return t.activate(lang)
}

func (t *Translator) activate(lang string) *Translator {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.localizer = i18n.NewLocalizer(t.bundle, lang, config.DefaultLanguage)
	return t
}

// T translates a key, returning the key itself when no translation exists.
func (t *Translator) T(key string) string {
	return t.TData(key, nil)
}

// TData translates a key with template data.
func (t *Translator) TData(key string, data map[string]interface{}) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Resolve looks up the localized title of a system-defined group by its
// owning package and system id. It satisfies the group resolver contract of
// the contact extractor.
func (t *Translator) Resolve(resPackage, systemID string) (string, bool) {
	key := fmt.Sprintf(config.FormatGroupMsgID, resPackage, systemID)
	if t.localizer == nil {
		return "", false
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil || msg == "" {
		return "", false
	}
	return msg, true
}

// NotifTitle renders the reminder notification title.
func (t *Translator) NotifTitle(name string) string {
	return t.TData(config.TKeyNotifTitle, map[string]interface{}{"Name": name})
}

// NotifBody renders the reminder body for a birthday remaining in `days`.
func (t *Translator) NotifBody(name string, days, age int) string {
	data := map[string]interface{}{"Name": name, "Days": days, "Age": age}
	if days == 0 {
		return t.TData(config.TKeyNotifBodyToday, data)
	}
	return t.TData(config.TKeyNotifBodyAhead, data)
}

// EventSummary renders a calendar event summary, with the turning age when
// the birth year is known (age > 0).
func (t *Translator) EventSummary(name string, age int) string {
	if age > 0 {
		return t.TData(config.TKeyEvtSummaryAge, map[string]interface{}{"Name": name, "Age": age})
	}
	return t.TData(config.TKeyEvtSummary, map[string]interface{}{"Name": name})
}
