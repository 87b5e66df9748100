package i18n

import (
	"encoding/json"
	"testing"

	"golang.org/x/text/language"
)

func mustNew(t *testing.T, lang string) *Translator {
	t.Helper()
	tr, err := New(lang)
	if err != nil {
		t.Fatalf("New(%q): %v", lang, err)
	}
	return tr
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		lang string
		id   string
		want string
	}{
		{"en", "band.normal", "Normal Cognition"},
		{"en", "band.mildImpairmentLikely", "Mild Neurocognitive Disorder Likely"},
		{"en", "band.likelyImpaired", "Dementia is Likely"},
		{"es", "band.normal", "Cognición normal"},
		{"es", "ExamComplete", "Prueba completada"},
		{"es-MX", "Yes", "Sí"},
		{"fr", "ExamComplete", "Exam Complete"},
		{"", "AppTitle", "CogniQuest"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.id, func(t *testing.T) {
			if got := mustNew(t, tt.lang).T(tt.id); got != tt.want {
				t.Errorf("T(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestLanguageMatching(t *testing.T) {
	if got := mustNew(t, "es-AR").Lang(); got != language.Spanish {
		t.Errorf("es-AR matched %v", got)
	}
	if got := mustNew(t, "de").Lang(); got != language.English {
		t.Errorf("de matched %v", got)
	}
	if _, err := New("not a tag!"); err == nil {
		t.Error("expected parse error")
	}
}

func TestTemplateAndPlural(t *testing.T) {
	en := mustNew(t, "en")
	if got := en.Td("ScoreOutOf", map[string]any{"Total": 24, "Max": 30}); got != "24 / 30" {
		t.Errorf("ScoreOutOf = %q", got)
	}
	if got := en.Tp("AnimalsNamed", 1); got != "Named 1 animal" {
		t.Errorf("AnimalsNamed(1) = %q", got)
	}
	if got := en.Tp("AnimalsNamed", 12); got != "Named 12 animals" {
		t.Errorf("AnimalsNamed(12) = %q", got)
	}
	if got := mustNew(t, "es").Tp("AnswerChanges", 2); got != "cambiada 2 veces" {
		t.Errorf("es AnswerChanges(2) = %q", got)
	}
}

func TestMissingMessageRendersID(t *testing.T) {
	if got := Default().T("NoSuchMessage"); got != "NoSuchMessage" {
		t.Errorf("got %q", got)
	}
}

func TestLocalesDefineSameMessages(t *testing.T) {
	keys := func(name string) map[string]bool {
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		out := make(map[string]bool, len(m))
		for k := range m {
			out[k] = true
		}
		return out
	}

	en, es := keys("en.json"), keys("es.json")
	for k := range en {
		if !es[k] {
			t.Errorf("es.json is missing %q", k)
		}
	}
	for k := range es {
		if !en[k] {
			t.Errorf("en.json has no %q", k)
		}
	}
}
