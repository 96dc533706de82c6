// Package cleaner нормализует текст отзывов перед суммаризацией.
package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"reviewAnalyzer/internal/models"
)

var markupRe = regexp.MustCompile(`<.*?>`)

// isSpace повторяет str.isspace: кроме пробелов Unicode сюда входят
// разделители \x1c-\x1f.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// keepLetters оставляет латинские буквы в нижнем регистре и пробельные символы.
func keepLetters(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	case isSpace(r):
		return r
	default:
		return -1
	}
}

// Cleaner не хранит состояния, кроме набора стоп-слов, и безопасен
// для конкурентного использования.
type Cleaner struct {
	stopwords map[string]struct{}
}

func New(stopwords []string) *Cleaner {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &Cleaner{stopwords: set}
}

// NewEnglish использует встроенный список NLTK.
func NewEnglish() *Cleaner {
	return New(EnglishStopwords)
}

// Clean удаляет разметку и все символы, кроме латинских букв и пробелов,
// приводит к нижнему регистру и выбрасывает стоп-слова.
func (c *Cleaner) Clean(text string) string {
	text = markupRe.ReplaceAllString(text, "")
	text = strings.Map(keepLetters, text)

	words := strings.FieldsFunc(text, isSpace)
	kept := words[:0]
	for _, w := range words {
		if _, stop := c.stopwords[w]; !stop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// CleanRecords заполняет CleanedReview у каждой записи.
func (c *Cleaner) CleanRecords(records []models.ReviewRecord) {
	for i := range records {
		records[i].CleanedReview = c.Clean(records[i].Review)
	}
}

func (c *Cleaner) Len() int {
	return len(c.stopwords)
}
