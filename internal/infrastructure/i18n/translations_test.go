package i18n

import "testing"

func TestTranslatorLocales(t *testing.T) {
	tr := NewTranslator("he")

	tests := []struct {
		name   string
		locale string
		key    string
		data   map[string]any
		want   string
	}{
		{"default hebrew", "", "error.event_not_found", nil, "אירוע לא נמצא"},
		{"english", "en", "error.event_not_found", nil, "Event not found"},
		{"accept-language header", "en-US,en;q=0.9", "success.entry_created", nil, "Entry recorded"},
		{"weighted preference", "de, en;q=0.5", "error.forbidden", nil, "You are not allowed to perform this action"},
		{"regional hebrew", "he-IL", "error.event_not_found", nil, "אירוע לא נמצא"},
		{"malformed header", ";;;", "error.event_not_found", nil, "אירוע לא נמצא"},
		{"unknown locale falls back", "fr", "error.forbidden", nil, "אין לך הרשאה לבצע פעולה זו"},
		{"template data", "en", "error.field_required", map[string]any{"Field": "name"}, "name is required"},
		{"missing key", "en", "error.nope", nil, "error.nope"},
		{"empty key", "en", "", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.T(tt.locale, tt.key, tt.data); got != tt.want {
				t.Fatalf("T(%q, %q) = %q, want %q", tt.locale, tt.key, got, tt.want)
			}
		})
	}
}

func TestTranslatorCatalogsLoaded(t *testing.T) {
	tr := NewTranslator("en")
	locales := tr.Locales()
	if len(locales) != 2 {
		t.Fatalf("loaded %d catalogs, want 2", len(locales))
	}
	if locales[0].String() != "en" {
		t.Fatalf("first locale = %s, want the default en", locales[0])
	}
}
