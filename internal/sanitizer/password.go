package sanitizer

import "regexp"

var passwordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|пароль)\s*[:=]\s*["']?([^"'\s]{3,})["']?`),
	regexp.MustCompile(`(?i)(passwd|pwd)\s*[:=]\s*["']?([^"'\s]{3,})["']?`),
}

// Поле пароля в разметке: value может стоять до или после type.
var passwordMarkup = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(<input[^>]*type=["']?password["']?[^>]*value=["'])[^"']*(["'])`),
	regexp.MustCompile(`(?i)(<input[^>]*value=["'])[^"']*(["'][^>]*type=["']?password)`),
}

type PasswordSanitizer struct{}

func (s *PasswordSanitizer) Sanitize(text string) string {
	for _, pattern := range passwordMarkup {
		text = pattern.ReplaceAllString(text, `${1}[FILTERED]${2}`)
	}
	for _, pattern := range passwordPatterns {
		text = pattern.ReplaceAllString(text, `${1}: [FILTERED]`)
	}
	return text
}
