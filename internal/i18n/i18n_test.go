package i18n

import "testing"

func TestNew_English(t *testing.T) {
	i := New("en")
	if i.Locale() != "en" {
		t.Fatalf("Locale()=%q, want en", i.Locale())
	}
	got := i.T("queue.title")
	if got != "Build queue" {
		t.Fatalf("T(queue.title)=%q, want Build queue", got)
	}
}

func TestNew_French(t *testing.T) {
	i := New("fr")
	if i.Locale() != "fr" {
		t.Fatalf("Locale()=%q, want fr", i.Locale())
	}
	got := i.T("status.COMPLETED")
	if got != "Terminé" {
		t.Fatalf("T(status.COMPLETED)=%q, want Terminé", got)
	}
	// 未翻译的键回退到英文 / Untranslated keys fall back to English
	if got := i.T("app.title"); got != "BrickTrack" {
		t.Fatalf("T(app.title)=%q, want BrickTrack", got)
	}
}

func TestNew_FrenchFromLang(t *testing.T) {
	i := New("fr_CA.UTF-8")
	if i.Locale() != "fr" {
		t.Fatalf("Locale()=%q, want fr", i.Locale())
	}
}

func TestSetLocale(t *testing.T) {
	i := New("en")
	i.SetLocale("fr")
	if i.Locale() != "fr" || i.T("view.gallery") != "Galerie" {
		t.Fatalf("after SetLocale(fr): locale=%q gallery=%q", i.Locale(), i.T("view.gallery"))
	}
	i.SetLocale("en")
	if i.T("view.gallery") != "Gallery" {
		t.Fatalf("after SetLocale(en): gallery=%q", i.T("view.gallery"))
	}
}

func TestT_WithArgs(t *testing.T) {
	i := New("en")
	got := i.T("gallery.summary", 2, 1500)
	if got != "2 sets completed · 1500 pieces" {
		t.Fatalf("T with args=%q", got)
	}
}

func TestT_MissingKey(t *testing.T) {
	i := New("en")
	got := i.T("nonexistent.key")
	if got != "nonexistent.key" {
		t.Fatalf("T missing key=%q, want key itself", got)
	}
}

func TestCatalogsMatch(t *testing.T) {
	for k := range FrMessages {
		if _, ok := EnMessages[k]; !ok {
			t.Errorf("fr key %q has no English fallback", k)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en_US.UTF-8", "en"},
		{"fr_FR.UTF-8", "fr"},
		{"FR", "fr"},
		{"en", "en"},
		{"", DefaultLocale},
		{"de_DE", DefaultLocale},
	}
	for _, tt := range tests {
		got := Normalize(tt.input)
		if got != tt.expected {
			t.Errorf("Normalize(%q)=%q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNext(t *testing.T) {
	if Next("en") != "fr" || Next("fr") != "en" {
		t.Fatalf("Next toggle broken: en→%s fr→%s", Next("en"), Next("fr"))
	}
}

func TestDetectLocale(t *testing.T) {
	t.Setenv("BRICKTRACK_LANG", "en")
	if got := DetectLocale(); got != "en" {
		t.Fatalf("DetectLocale()=%q, want en", got)
	}
	t.Setenv("BRICKTRACK_LANG", "")
	t.Setenv("LANG", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	if got := DetectLocale(); got != DefaultLocale {
		t.Fatalf("DetectLocale()=%q, want %q", got, DefaultLocale)
	}
}
