// Package i18n localizes the few human-readable strings the API produces:
// the "days until" labels of the dashboard and the event titles of the
// calendar feed. Translations live in locales/active.<lang>.json and are
// compiled into the binary.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Message ids. English defaults below are used when a locale lacks a key.
const (
	KeyDaysUntilToday    = "days_until_today"
	KeyDaysUntil         = "days_until"
	KeyEventSummary      = "event_summary"
	KeyEventSummaryAge   = "event_summary_age"
	KeyEventSummaryBirth = "event_summary_birth"
	KeyCalendarName      = "calendar_name"
)

var defaults = map[string]*goi18n.Message{
	KeyDaysUntilToday:    {ID: KeyDaysUntilToday, Other: "Today!"},
	KeyDaysUntil:         {ID: KeyDaysUntil, One: "{{.Count}} day", Other: "{{.Count}} days"},
	KeyEventSummary:      {ID: KeyEventSummary, Other: "{{.Name}}'s birthday"},
	KeyEventSummaryAge:   {ID: KeyEventSummaryAge, Other: "{{.Name}}'s birthday ({{.Age}})"},
	KeyEventSummaryBirth: {ID: KeyEventSummaryBirth, Other: "{{.Name}} was born"},
	KeyCalendarName:      {ID: KeyCalendarName, Other: "Birthdays"},
}

// Translator renders messages in one language.
type Translator struct {
	lang      string
	languages []string
	localizer *goi18n.Localizer
}

// New loads every embedded locale and returns a Translator for lang.
// Unknown but well-formed languages fall back to English.
func New(lang string) (*Translator, error) {
	if _, err := language.Parse(lang); err != nil {
		return nil, fmt.Errorf("i18n: invalid locale %q: %w", lang, err)
	}

	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}

	var languages []string
	for _, entry := range entries {
		name := entry.Name()
		code := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if code == "" || code == name {
			slog.Debug("skipping locale file", slog.String("file", name))
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", name, err)
		}
		languages = append(languages, code)
	}

	return &Translator{
		lang:      lang,
		languages: languages,
		localizer: goi18n.NewLocalizer(bundle, lang),
	}, nil
}

// Must is New for locales known to be valid, such as fixed test or
// fallback languages. It panics on a malformed locale.
func Must(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Lang is the language the Translator was built for.
func (t *Translator) Lang() string { return t.lang }

// Languages lists the embedded locale codes.
func (t *Translator) Languages() []string { return t.languages }

func (t *Translator) localize(cfg *goi18n.LocalizeConfig) string {
	cfg.DefaultMessage = defaults[cfg.MessageID]
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		slog.Debug("translation missing",
			slog.String("key", cfg.MessageID),
			slog.String("lang", t.lang),
			slog.String("error", err.Error()))
		if msg == "" {
			return cfg.MessageID
		}
	}
	return msg
}

// DaysUntil labels the distance to a birthday: "Today!", "1 day", "N days".
func (t *Translator) DaysUntil(days int) string {
	if days == 0 {
		return t.localize(&goi18n.LocalizeConfig{MessageID: KeyDaysUntilToday})
	}
	return t.localize(&goi18n.LocalizeConfig{
		MessageID:    KeyDaysUntil,
		PluralCount:  days,
		TemplateData: map[string]any{"Count": days},
	})
}

// EventSummary titles a calendar event. age is the age reached on that
// occurrence; 0 marks the birth itself.
func (t *Translator) EventSummary(name string, age int) string {
	switch {
	case age == 0:
		return t.localize(&goi18n.LocalizeConfig{
			MessageID:    KeyEventSummaryBirth,
			TemplateData: map[string]any{"Name": name},
		})
	case age > 0:
		return t.localize(&goi18n.LocalizeConfig{
			MessageID:    KeyEventSummaryAge,
			TemplateData: map[string]any{"Name": name, "Age": age},
		})
	default:
		return t.localize(&goi18n.LocalizeConfig{
			MessageID:    KeyEventSummary,
			TemplateData: map[string]any{"Name": name},
		})
	}
}

// CalendarName is the display name of the iCalendar feed.
func (t *Translator) CalendarName() string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: KeyCalendarName})
}
