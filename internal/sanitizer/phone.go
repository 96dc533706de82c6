package sanitizer

import "regexp"

// Только номера с кодом страны или явной меткой: оценки и цены в отзывах
// не должны попадать под фильтр.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+\d{1,3}[\s-]?\(?\d{2,4}\)?[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2,4}`),
	regexp.MustCompile(`\b8\s?\(\d{3}\)\s?\d{3}[-\s]?\d{2}[-\s]?\d{2}`),
	regexp.MustCompile(`(?i)(phone|телефон|тел\.?)\s*[:=]\s*["']?[+\d\s\-()]{7,}\d["']?`),
}

type PhoneSanitizer struct{}

func (s *PhoneSanitizer) Sanitize(text string) string {
	for _, pattern := range phonePatterns {
		text = pattern.ReplaceAllString(text, `[FILTERED_PHONE]`)
	}
	return text
}
