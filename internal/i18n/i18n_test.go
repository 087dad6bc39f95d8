package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		lang string
		days int
		want string
	}{
		{"en", 0, "Today!"},
		{"en", 1, "1 day"},
		{"en", 3, "3 days"},
		{"fr", 0, "Aujourd'hui !"},
		{"fr", 1, "1 jour"},
		{"fr", 5, "5 jours"},
		{"de", 2, "2 days"}, // no German locale: English fallback
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.want, func(t *testing.T) {
			tr, err := New(tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.DaysUntil(tt.days))
		})
	}
}

func TestEventSummary(t *testing.T) {
	en := Must("en")
	assert.Equal(t, "Ada's birthday (36)", en.EventSummary("Ada", 36))
	assert.Equal(t, "Ada was born", en.EventSummary("Ada", 0))
	assert.Equal(t, "Ada's birthday", en.EventSummary("Ada", -1))

	fr := Must("fr")
	assert.Equal(t, "Anniversaire de Ada (36 ans)", fr.EventSummary("Ada", 36))
	assert.Equal(t, "Anniversaires", fr.CalendarName())
}

func TestNew_RejectsMalformedLocale(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("not a language tag")
	assert.Error(t, err)
}

func TestMust(t *testing.T) {
	assert.Equal(t, "fr", Must("fr").Lang())
	assert.Panics(t, func() { Must("not a language tag") })
}

func TestLanguages(t *testing.T) {
	tr := Must("en")
	assert.Equal(t, "en", tr.Lang())
	assert.ElementsMatch(t, []string{"en", "fr"}, tr.Languages())
}

// TestLocaleIntegrity checks every embedded locale defines every key.
func TestLocaleIntegrity(t *testing.T) {
	entries, err := localeFS.ReadDir("locales")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		raw, err := localeFS.ReadFile("locales/" + entry.Name())
		require.NoError(t, err)

		var messages map[string]any
		require.NoError(t, json.Unmarshal(raw, &messages), entry.Name())

		for key := range defaults {
			assert.Contains(t, messages, key, "%s is missing %q", entry.Name(), key)
		}
	}
}
