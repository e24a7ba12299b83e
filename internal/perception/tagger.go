package perception

import (
	"fmt"
	"regexp"
	"strconv"

	"pagePerception/internal/dom"
)

const (
	DefaultTagAttribute = "data-manus-id"
	DefaultTagPrefix    = "manus-element-"
)

var (
	attributeName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	tagPrefix     = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)
)

// Tagger - единственный владелец меток идентичности на странице.
// Каждый проход Begin снимает все ранее выставленные метки, поэтому на странице
// существует не больше одного действующего набора. Селекторы прошлых проходов
// после этого считаются просроченными.
type Tagger struct {
	attribute string
	prefix    string
}

func NewTagger(attribute, prefix string) (*Tagger, error) {
	if !attributeName.MatchString(attribute) {
		return nil, fmt.Errorf("недопустимое имя атрибута метки: %q", attribute)
	}
	if !tagPrefix.MatchString(prefix) {
		return nil, fmt.Errorf("недопустимый префикс метки: %q", prefix)
	}
	return &Tagger{attribute: attribute, prefix: prefix}, nil
}

func (t *Tagger) Attribute() string {
	return t.attribute
}

func (t *Tagger) Value(index int) string {
	return t.prefix + strconv.Itoa(index)
}

// Selector строит CSS-селектор, который ищет только по паре атрибут/значение.
func (t *Tagger) Selector(index int) string {
	return fmt.Sprintf(`[%s="%s"]`, t.attribute, t.Value(index))
}

// TagPass - один проход разметки. Индексы выдаются подряд с нуля.
type TagPass struct {
	tagger *Tagger
	doc    *dom.Document
	next   int
}

// Begin открывает новый проход, снимая метки всех предыдущих.
func (t *Tagger) Begin(doc *dom.Document) *TagPass {
	doc.RemoveAttributeEverywhere(t.attribute)
	return &TagPass{tagger: t, doc: doc}
}

// Tag помечает элемент следующим индексом и возвращает индекс и селектор.
func (p *TagPass) Tag(e dom.Element) (int, string) {
	index := p.next
	p.next++
	p.doc.SetAttribute(e, p.tagger.attribute, p.tagger.Value(index))
	return index, p.tagger.Selector(index)
}

func (p *TagPass) Len() int {
	return p.next
}
