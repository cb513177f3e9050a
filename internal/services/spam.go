package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Spam scoring rules. Additive: every rule that fires contributes its penalty
// independently, and a comment is spam once the total crosses SpamThreshold.
const (
	SpamThreshold = 20

	spamMinLength = 10
	spamMaxLength = 5000
	spamMaxLinks  = 3

	penaltyTooShort      = 10
	penaltyTooLong       = 5
	penaltyTooManyLinks  = 15
	penaltyBlockedWord   = 10
	penaltyRepeatedChars = 10
	penaltyAllCaps       = 5

	capsRatioLimit  = 0.7
	capsMinLength   = 20
	repeatRunLength = 6
)

var linkRegex = regexp.MustCompile(`https?://\S+`)

// SpamCheckResult is what the moderation queue stores and shows: the numeric
// score plus the human-readable reasons that produced it.
type SpamCheckResult struct {
	IsSpam  bool     `json:"is_spam"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// SpamService scores comment content. Pure: no I/O, deterministic.
type SpamService struct {
	blocklist []string
}

func NewSpamService(blocklist []string) *SpamService {
	lowered := make([]string, len(blocklist))
	for i, w := range blocklist {
		lowered[i] = strings.ToLower(w)
	}
	return &SpamService{blocklist: lowered}
}

// ScoreContent applies every heuristic to content and returns the additive score.
func (s *SpamService) ScoreContent(content string) SpamCheckResult {
	score := 0
	var reasons []string

	length := len([]rune(content))
	if length < spamMinLength {
		score += penaltyTooShort
		reasons = append(reasons, "comment too short")
	}
	if length > spamMaxLength {
		score += penaltyTooLong
		reasons = append(reasons, "comment too long")
	}

	links := linkRegex.FindAllString(content, -1)
	if len(links) > spamMaxLinks {
		score += penaltyTooManyLinks
		reasons = append(reasons, fmt.Sprintf("too many links (%d)", len(links)))
	}

	// One hit per blocklist category, however many times the word repeats.
	lowerContent := strings.ToLower(content)
	matched := 0
	for _, word := range s.blocklist {
		if strings.Contains(lowerContent, word) {
			matched++
		}
	}
	if matched > 0 {
		score += matched * penaltyBlockedWord
		reasons = append(reasons, "suspicious words detected")
	}

	if hasRepeatedRun(content, repeatRunLength) {
		score += penaltyRepeatedChars
		reasons = append(reasons, "repeated characters")
	}

	if length > capsMinLength && capsRatio(content) > capsRatioLimit {
		score += penaltyAllCaps
		reasons = append(reasons, "too many capital letters")
	}

	return SpamCheckResult{
		IsSpam:  score >= SpamThreshold,
		Score:   score,
		Reasons: reasons,
	}
}

// hasRepeatedRun reports whether any character repeats n or more times in a row.
func hasRepeatedRun(content string, n int) bool {
	var prev rune
	run := 0
	for _, r := range content {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// capsRatio is uppercase letters over total characters, matching the
// moderation tuning: the denominator is the whole content, not just letters.
func capsRatio(content string) float64 {
	runes := []rune(content)
	if len(runes) == 0 {
		return 0
	}
	upper := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(len(runes))
}
