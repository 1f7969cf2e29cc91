package htmlsanitize_test

import (
	"testing"

	"github.com/am1456/hostelhub/internal/app/system/htmlsanitize"
)

func TestText_Empty(t *testing.T) {
	if got := htmlsanitize.Text(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestText_PlainText(t *testing.T) {
	if got := htmlsanitize.Text("The tap in room 101 leaks."); got != "The tap in room 101 leaks." {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestText_StripsMarkup(t *testing.T) {
	if got := htmlsanitize.Text("<b>leaking</b> tap"); got != "leaking tap" {
		t.Errorf("expected markup stripped, got %q", got)
	}
}

func TestText_RemovesScript(t *testing.T) {
	got := htmlsanitize.Text(`broken light<script>alert("x")</script>`)
	if got != "broken light" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestText_UnescapesEntities(t *testing.T) {
	// "AC & heater" must survive round-tripping through the sanitizer
	if got := htmlsanitize.Text("AC & heater broken"); got != "AC & heater broken" {
		t.Errorf("expected entities unescaped, got %q", got)
	}
}

func TestText_TrimsWhitespace(t *testing.T) {
	if got := htmlsanitize.Text("  blocked drain  "); got != "blocked drain" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}
