package sanitizer

import "regexp"

const secretWords = `(?:\bpassword|\bpasswd|пароль|\bpin\b|\bcvv|\bcvc|\bsecret)`

// Подписи элементов вида "[Label: Пароль] значение [Placeholder: ...]".
var labelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\[Label: [^\]]*` + secretWords + `[^\]]*\] )[^\[]+?( \[Placeholder: [^\]]*\])?$`),
	regexp.MustCompile(`(?i)^[^\[]+?( \[Placeholder: [^\]]*` + secretWords + `[^\]]*\])$`),
}

// LabelSanitizer скрывает значение поля, если label или placeholder указывает на секрет.
type LabelSanitizer struct{}

func (s *LabelSanitizer) Sanitize(text string) string {
	text = labelPatterns[0].ReplaceAllString(text, `${1}[FILTERED]${2}`)
	return labelPatterns[1].ReplaceAllString(text, `[FILTERED]${1}`)
}
