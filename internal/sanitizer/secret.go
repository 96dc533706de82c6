package sanitizer

import "regexp"

// secretPatterns сохраняют имя поля в первой группе.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)((?:api|secret|access)[_-]?(?:key|secret|token)\s*[:=]\s*["']?)[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)((?:token|токен|password|пароль)\s*[:=]\s*["']?)\S{6,}`),
	regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9._-]{20,}`),
	regexp.MustCompile(`()\bAIza[0-9A-Za-z_-]{35}`),
	regexp.MustCompile(`()\bsk-[a-zA-Z0-9]{32,}`),
}

// SecretSanitizer убирает ключи API и токены, например из текста ошибок клиента.
type SecretSanitizer struct{}

func (s *SecretSanitizer) Sanitize(text string) string {
	for _, pattern := range secretPatterns {
		text = pattern.ReplaceAllString(text, `${1}[FILTERED]`)
	}
	return text
}
