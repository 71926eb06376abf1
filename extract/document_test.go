package extract

import "testing"

func TestDocument_Resolve(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`, "https://example.com/games/page.html")

	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"other.html", "https://example.com/games/other.html"},
		{"/root.html", "https://example.com/root.html"},
		{"//cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"https://mega.nz/file/ABC", "https://mega.nz/file/ABC"},
		{"?s=x", "https://example.com/games/page.html?s=x"},
	}
	for _, tt := range tests {
		if got := doc.Resolve(tt.ref); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestDocument_BaseHref(t *testing.T) {
	doc := mustDoc(t, `<html><head><base href="https://mirror.example.net/site/"></head><body></body></html>`, "https://example.com/page")

	if got := doc.Resolve("a.html"); got != "https://mirror.example.net/site/a.html" {
		t.Errorf("Resolve with <base> = %q", got)
	}
}

func TestNewDocument_BadURL(t *testing.T) {
	if _, err := NewDocument("<p></p>", "http://[::1"); err == nil {
		t.Error("expected an error for an unparsable page URL")
	}
}
