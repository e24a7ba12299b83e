// Package perception строит компактную модель страницы для агента, который не видит экран:
// видимый контент в виде разметки и список интерактивных элементов с селекторами.
package perception

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"

	"pagePerception/internal/dom"
)

// ActionableSelector - набор узлов, которые считаются действиями.
const ActionableSelector = `button, a, input, textarea, select, [role="button"], [tabindex]:not([tabindex="-1"])`

var actionable = cascadia.MustCompile(ActionableSelector)

// ElementRecord - интерактивный элемент одного прохода. Selector действителен
// только до следующего прохода или до изменения DOM скриптами страницы.
type ElementRecord struct {
	Index    int    `json:"index"`
	Tag      string `json:"tag"`
	Text     string `json:"text"`
	Selector string `json:"selector"`
}

// Perception - оба результата, снятые с одного снимка страницы.
type Perception struct {
	Content  string          `json:"content"`
	Elements []ElementRecord `json:"elements"`
}

type Collector struct {
	labeler *Labeler
	tagger  *Tagger
}

type Option func(*options)

type options struct {
	labelLimit   int
	strategies   []LabelStrategy
	tagAttribute string
	tagPrefix    string
}

func WithLabelLimit(limit int) Option {
	return func(o *options) {
		o.labelLimit = limit
	}
}

func WithStrategies(strategies ...LabelStrategy) Option {
	return func(o *options) {
		o.strategies = strategies
	}
}

func WithTag(attribute, prefix string) Option {
	return func(o *options) {
		o.tagAttribute = attribute
		o.tagPrefix = prefix
	}
}

func NewCollector(opts ...Option) (*Collector, error) {
	o := options{
		labelLimit:   DefaultLabelLimit,
		tagAttribute: DefaultTagAttribute,
		tagPrefix:    DefaultTagPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}

	tagger, err := NewTagger(o.tagAttribute, o.tagPrefix)
	if err != nil {
		return nil, err
	}

	return &Collector{
		labeler: NewLabeler(o.labelLimit, o.strategies...),
		tagger:  tagger,
	}, nil
}

func (c *Collector) Tagger() *Tagger {
	return c.tagger
}

// meaningful - элементы, которые несут смысл даже без текста (иконки-кнопки, картинки, поля).
func meaningful(e dom.Element) bool {
	if e.InnerText() != "" {
		return true
	}
	switch e.Tag() {
	case "IMG", "INPUT", "BUTTON":
		return true
	}
	return false
}

// VisibleContent собирает outerHTML всех видимых элементов с содержимым,
// склеивает через пробел и оборачивает в div. Документ не изменяется.
func (c *Collector) VisibleContent(doc *dom.Document) (string, error) {
	var parts []string
	for e := range doc.Elements() {
		if !IsVisible(e) || !meaningful(e) {
			continue
		}
		markup, err := e.OuterHTML()
		if err != nil {
			return "", fmt.Errorf("ошибка сериализации <%s>: %w", strings.ToLower(e.Tag()), err)
		}
		parts = append(parts, markup)
	}
	return "<div>" + strings.Join(parts, " ") + "</div>", nil
}

// InteractiveElements отбирает видимые интерактивные элементы, подбирает им подписи
// и помечает атрибутом. Индексы начинаются с нуля на каждом вызове; скрытые узлы
// индекс не занимают.
func (c *Collector) InteractiveElements(doc *dom.Document) []ElementRecord {
	pass := c.tagger.Begin(doc)
	records := make([]ElementRecord, 0)
	for e := range doc.Matching(actionable) {
		if !IsVisible(e) {
			continue
		}
		text := c.labeler.Label(e)
		index, selector := pass.Tag(e)
		records = append(records, ElementRecord{
			Index:    index,
			Tag:      strings.ToLower(e.Tag()),
			Text:     text,
			Selector: selector,
		})
	}
	return records
}

// Perceive снимает видимый контент до разметки, чтобы новые метки не попали в разметку.
func (c *Collector) Perceive(doc *dom.Document) (*Perception, error) {
	content, err := c.VisibleContent(doc)
	if err != nil {
		return nil, err
	}
	return &Perception{
		Content:  content,
		Elements: c.InteractiveElements(doc),
	}, nil
}
