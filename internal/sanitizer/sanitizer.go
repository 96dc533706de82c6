// Package sanitizer вырезает персональные данные и секреты из текста
// перед записью в архив запросов к модели.
package sanitizer

type DataSanitizer struct {
	rules []Rule
}

type Rule interface {
	Sanitize(text string) string
}

func New() *DataSanitizer {
	return &DataSanitizer{
		rules: []Rule{
			&SecretSanitizer{},
			&CardSanitizer{},
			&EmailSanitizer{},
			&PhoneSanitizer{},
		},
	}
}

// NewWithRules нужен для своих наборов правил.
func NewWithRules(rules ...Rule) *DataSanitizer {
	return &DataSanitizer{rules: rules}
}

func (s *DataSanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}

	return result
}
