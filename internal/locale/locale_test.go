package locale

import (
	"fmt"
	"strings"
	"testing"
)

func TestFor_KnownLanguages(t *testing.T) {
	if For("en").NoResults == "" {
		t.Error("expected English messages")
	}
	if For("ru").NoResults == For("en").NoResults {
		t.Error("expected distinct Russian messages")
	}
}

func TestSummaryUnavailable_CarriesCount(t *testing.T) {
	for _, lang := range []string{"en", "ru"} {
		got := fmt.Sprintf(For(lang).SummaryUnavailable, 7)
		if !strings.Contains(got, "7") {
			t.Errorf("%s fallback should carry the result count, got %q", lang, got)
		}
		if strings.Contains(got, "%") {
			t.Errorf("%s fallback left a stray verb: %q", lang, got)
		}
	}
}

func TestFor_FallsBackToEnglish(t *testing.T) {
	for _, lang := range []string{"", "de", "EN"} {
		if For(lang) != For("en") {
			t.Errorf("expected English fallback for %q", lang)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported("en") || !Supported("ru") {
		t.Error("expected en and ru to be supported")
	}
	if Supported("de") {
		t.Error("de should not be supported")
	}
}
