package services

import (
	"strings"
	"testing"
)

func testSpamService() *SpamService {
	return NewSpamService([]string{
		"viagra", "casino", "poker", "loan", "mortgage", "credit",
		"click here", "buy now", "limited time", "act now",
	})
}

func TestScoreContentCleanComment(t *testing.T) {
	s := testSpamService()
	result := s.ScoreContent("Me pareció un artículo muy interesante, gracias por compartirlo.")
	if result.IsSpam {
		t.Errorf("clean comment flagged as spam: score=%d reasons=%v", result.Score, result.Reasons)
	}
	if result.Score != 0 {
		t.Errorf("expected score 0, got %d", result.Score)
	}
}

func TestScoreContentTooShort(t *testing.T) {
	s := testSpamService()
	result := s.ScoreContent("hola")
	if result.Score != 10 {
		t.Errorf("expected score 10 for short comment, got %d", result.Score)
	}
	if result.IsSpam {
		t.Error("short comment alone should not cross the threshold")
	}
}

func TestScoreContentTooManyLinks(t *testing.T) {
	s := testSpamService()
	content := "mira esto http://a.com http://b.com http://c.com http://d.com"
	result := s.ScoreContent(content)
	if result.Score != 15 {
		t.Errorf("expected score 15 for 4 links, got %d", result.Score)
	}

	// Exactly three links is still fine.
	result = s.ScoreContent("mira esto http://a.com http://b.com http://c.com")
	if result.Score != 0 {
		t.Errorf("expected score 0 for 3 links, got %d", result.Score)
	}
}

func TestScoreContentBlockedWordsCountOncePerCategory(t *testing.T) {
	s := testSpamService()

	// The same word repeated is one hit.
	result := s.ScoreContent("viagra viagra viagra y algo más de texto")
	if result.Score != 10 {
		t.Errorf("expected 10 for one repeated category, got %d", result.Score)
	}

	// Two distinct categories cross the threshold on their own.
	result = s.ScoreContent("compra viagra en nuestro casino online ahora mismo")
	if result.Score != 20 {
		t.Errorf("expected 20 for two categories, got %d", result.Score)
	}
	if !result.IsSpam {
		t.Error("two blocked categories should be spam")
	}
}

func TestScoreContentRepeatedCharacters(t *testing.T) {
	s := testSpamService()
	result := s.ScoreContent("holaaaaaa qué buen artículo este")
	if result.Score != 10 {
		t.Errorf("expected 10 for repeated run, got %d", result.Score)
	}

	// Five in a row stays under the run length.
	result = s.ScoreContent("holaaaaa qué buen artículo este")
	if result.Score != 0 {
		t.Errorf("expected 0 for a run of five, got %d", result.Score)
	}
}

func TestScoreContentAllCaps(t *testing.T) {
	s := testSpamService()
	result := s.ScoreContent("ESTO ES INCREIBLE LEELO YA MISMO AMIGO")
	found := false
	for _, r := range result.Reasons {
		if r == "too many capital letters" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected caps reason, got %v", result.Reasons)
	}

	// Short shouting is tolerated.
	result = s.ScoreContent("WOW QUE BUENO")
	for _, r := range result.Reasons {
		if r == "too many capital letters" {
			t.Error("caps rule should not fire under the minimum length")
		}
	}
}

func TestScoreContentAdditive(t *testing.T) {
	s := testSpamService()
	// Short + blocked word: 10 + 10 crosses the threshold.
	result := s.ScoreContent("viagra ya")
	if result.Score != 20 {
		t.Errorf("expected additive score 20, got %d", result.Score)
	}
	if !result.IsSpam {
		t.Error("score at the threshold must be spam")
	}
	if len(result.Reasons) != 2 {
		t.Errorf("expected two reasons, got %v", result.Reasons)
	}
}

func TestScoreContentLongComment(t *testing.T) {
	s := testSpamService()
	result := s.ScoreContent(strings.Repeat("palabra ", 700))
	if result.Score != 5 {
		t.Errorf("expected 5 for overlong comment, got %d", result.Score)
	}
}
