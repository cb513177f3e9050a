package utils

import (
	"strings"
	"testing"
	"time"
)

func TestContentHashNormalizes(t *testing.T) {
	a := ContentHash("  Hola Mundo  ")
	b := ContentHash("hola mundo")
	if a != b {
		t.Error("hash must ignore case and surrounding whitespace")
	}
	if ContentHash("hola mundo") == ContentHash("hola mundos") {
		t.Error("different content must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256, got %d chars", len(a))
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html := string(RenderMarkdown("**hola** <script>alert(1)</script>"))
	if !strings.Contains(html, "<strong>hola</strong>") {
		t.Errorf("markdown not rendered: %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("script tag survived sanitization: %s", html)
	}
}

func TestExcerpt(t *testing.T) {
	got := Excerpt("# Título\n\nUn párrafo **corto**.", 300)
	if strings.Contains(got, "#") || strings.Contains(got, "*") {
		t.Errorf("markdown syntax leaked into excerpt: %q", got)
	}
	if !strings.Contains(got, "Un párrafo corto.") {
		t.Errorf("excerpt lost content: %q", got)
	}

	long := strings.Repeat("palabra ", 100)
	cut := Excerpt(long, 50)
	if len([]rune(cut)) > 52 {
		t.Errorf("excerpt too long: %d runes", len([]rune(cut)))
	}
	if !strings.HasSuffix(cut, "…") {
		t.Errorf("truncated excerpt missing ellipsis: %q", cut)
	}
}

func TestCacheTTL(t *testing.T) {
	cache, err := NewCache(8)
	if err != nil {
		t.Fatal(err)
	}

	cache.Set("k", "v", time.Minute)
	if cache.Get("k") != "v" {
		t.Error("fresh key should hit")
	}

	cache.Set("expired", "v", -time.Second)
	if cache.Get("expired") != nil {
		t.Error("expired key should miss")
	}

	cache.Delete("k")
	if cache.Get("k") != nil {
		t.Error("deleted key should miss")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("contraseña-segura")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPasswordHash("contraseña-segura", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("otra-cosa", hash) {
		t.Error("wrong password accepted")
	}
}
