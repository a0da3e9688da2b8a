package uischema

import (
	"strings"
	"testing"
)

func TestSanitizeIconMarkup(t *testing.T) {
	input := `  <svg viewBox="0 0 24 24" onload="steal()"><script>alert('x')</script><path d="M0 0h24v24H0z" /></svg>`
	got := sanitizeIconMarkup(input)

	if strings.Contains(got, "script") || strings.Contains(got, "onload") {
		t.Fatalf("expected script content to be removed, got %q", got)
	}
	if !strings.Contains(got, "<svg") || !strings.Contains(got, "<path") {
		t.Fatalf("expected svg/path elements to remain, got %q", got)
	}
	if sanitizeIconMarkup("   ") != "" {
		t.Fatalf("expected blank markup to stay empty")
	}
}
