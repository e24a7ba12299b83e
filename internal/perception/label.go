package perception

import (
	"strings"

	"pagePerception/internal/dom"
)

const (
	NoTextLabel       = "[No text]"
	DefaultLabelLimit = 100
	ellipsis          = "..."
)

// LabelStrategy - один источник текста для элемента. Пустая строка значит
// "не сработало", цепочка переходит к следующей стратегии.
type LabelStrategy interface {
	Name() string
	Resolve(e dom.Element) string
}

type strategyFunc struct {
	name    string
	resolve func(e dom.Element) string
}

func (s strategyFunc) Name() string                 { return s.name }
func (s strategyFunc) Resolve(e dom.Element) string { return s.resolve(e) }

// NewLabelStrategy оборачивает функцию в LabelStrategy.
func NewLabelStrategy(name string, fn func(e dom.Element) string) LabelStrategy {
	return strategyFunc{name: name, resolve: fn}
}

var (
	ValueStrategy       = NewLabelStrategy("has-value", valueLabel)
	InnerTextStrategy   = NewLabelStrategy("has-inner-text", innerTextLabel)
	AltStrategy         = NewLabelStrategy("has-alt", attrLabel("alt"))
	TitleStrategy       = NewLabelStrategy("has-title", attrLabel("title"))
	PlaceholderStrategy = NewLabelStrategy("has-placeholder", placeholderLabel)
	TypeStrategy        = NewLabelStrategy("has-type", typeLabel)
)

// DefaultStrategies возвращает цепочку в порядке приоритета.
func DefaultStrategies() []LabelStrategy {
	return []LabelStrategy{
		ValueStrategy,
		InnerTextStrategy,
		AltStrategy,
		TitleStrategy,
		PlaceholderStrategy,
		TypeStrategy,
	}
}

type Labeler struct {
	strategies []LabelStrategy
	limit      int
}

func NewLabeler(limit int, strategies ...LabelStrategy) *Labeler {
	if limit <= 0 {
		limit = DefaultLabelLimit
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Labeler{strategies: strategies, limit: limit}
}

// Label перебирает стратегии до первой непустой, затем обрезает результат.
// Никогда не возвращает пустую строку.
func (l *Labeler) Label(e dom.Element) string {
	text := NoTextLabel
	for _, s := range l.strategies {
		if v := s.Resolve(e); v != "" {
			text = v
			break
		}
	}
	return Truncate(text, l.limit)
}

// Truncate обрезает строку до limit символов, заменяя хвост на "...".
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= len(ellipsis) {
		return string(runes[:limit])
	}
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

func isValueControl(e dom.Element) bool {
	switch e.Tag() {
	case "INPUT", "TEXTAREA", "SELECT":
		return true
	}
	return false
}

func valueLabel(e dom.Element) string {
	value := e.Value()
	if value == "" || !isValueControl(e) {
		return ""
	}
	if e.Tag() != "INPUT" {
		return value
	}
	return decorateInput(e, value, value)
}

func innerTextLabel(e dom.Element) string {
	return collapseSpaces(e.InnerText())
}

func attrLabel(name string) func(e dom.Element) string {
	return func(e dom.Element) string {
		return e.Attr(name)
	}
}

func placeholderLabel(e dom.Element) string {
	if p := e.Attr("placeholder"); p != "" {
		return "[Placeholder: " + p + "]"
	}
	return ""
}

// typeLabel берет свойство type у контролов формы и атрибут type у остальных,
// поэтому кнопка без атрибута остается без подписи.
func typeLabel(e dom.Element) string {
	typ := e.ControlType()
	if !isValueControl(e) {
		typ = e.Attr("type")
	}
	if typ == "" {
		return ""
	}
	text := "[" + typ + "]"
	if e.Tag() != "INPUT" {
		return text
	}
	return decorateInput(e, text, "")
}

// decorateInput добавляет к тексту поля его label и placeholder.
// strip - значение, которое вырезается из текста родительского label.
func decorateInput(e dom.Element, text, strip string) string {
	if label := inputLabel(e, strip); label != "" {
		text = "[Label: " + label + "] " + text
	}
	if p := e.Attr("placeholder"); p != "" {
		text = text + " [Placeholder: " + p + "]"
	}
	return text
}

// inputLabel ищет сначала label[for=id], затем объемлющий label.
func inputLabel(e dom.Element, strip string) string {
	if label, ok := e.Document().LabelFor(e.ID()); ok {
		if text := strings.TrimSpace(label.InnerText()); text != "" {
			return text
		}
	}

	parent, ok := e.Closest("label")
	if !ok {
		return ""
	}
	text := strings.TrimSpace(parent.InnerText())
	if strip != "" {
		text = strings.TrimSpace(strings.Replace(text, strip, "", 1))
	}
	return text
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
