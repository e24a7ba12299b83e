// Package sanitizer скрывает чувствительные данные в разметке и подписях элементов.
package sanitizer

import (
	"regexp"
	"strings"
)

type DataSanitizer struct {
	rules []SanitizerRule
}

type SanitizerRule interface {
	Sanitize(text string) string
}

func New() *DataSanitizer {
	return &DataSanitizer{
		rules: []SanitizerRule{
			&LabelSanitizer{},
			&PasswordSanitizer{},
			&TokenSanitizer{},
			&CookieSanitizer{},
			&CardSanitizer{},
			&APIKeySanitizer{},
			&EmailSanitizer{},
			&PhoneSanitizer{},
			&AddressSanitizer{},
		},
	}
}

// NewWithRules собирает санитайзер из произвольного набора правил.
func NewWithRules(rules ...SanitizerRule) *DataSanitizer {
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

// Redact реализует browser.Redactor.
func (s *DataSanitizer) Redact(text string) string {
	return s.Sanitize(text)
}

// SanitizeValue маскирует вводимый текст для логов.
func (s *DataSanitizer) SanitizeValue(value string) string {
	if value == "" {
		return value
	}
	if looksLikeSecret(value) {
		return "[FILTERED]"
	}
	return s.Sanitize(value)
}

var opaquePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var sensitiveKeywords = []string{
	"password", "пароль", "token", "secret", "api_key", "api-key",
	"cvv", "cvc", "session",
}

func looksLikeSecret(value string) bool {
	lower := strings.ToLower(value)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return len(value) > 20 && opaquePattern.MatchString(value)
}
