package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Element - элемент документа вместе с тем, что о нем знает браузер.
type Element struct {
	Node *html.Node
	doc  *Document
}

func (e Element) Document() *Document {
	return e.doc
}

// Tag возвращает имя тега в верхнем регистре, как Element.tagName.
func (e Element) Tag() string {
	return strings.ToUpper(e.Node.Data)
}

func (e Element) LookupAttr(name string) (string, bool) {
	for _, a := range e.Node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

func (e Element) ID() string {
	return e.Attr("id")
}

func (e Element) render() Render {
	if e.doc == nil {
		return Render{}
	}
	return e.doc.render[e.Node]
}

func (e Element) Rect() Rect {
	return e.render().Rect
}

func (e Element) Style() Style {
	return e.render().Style
}

// InnerText - отрисованный текст элемента (innerText), без обработки.
func (e Element) InnerText() string {
	return e.render().InnerText
}

// Value - текущее значение контрола (element.value), а не атрибут value.
func (e Element) Value() string {
	return e.render().Value
}

// ControlType - свойство type контрола формы, пусто для остальных элементов.
func (e Element) ControlType() string {
	return e.render().Type
}

// Handle - номер элемента в реестре живой страницы, NoHandle для статических документов.
func (e Element) Handle() int {
	if e.doc == nil {
		return NoHandle
	}
	return e.doc.handleOf(e.Node)
}

func (e Element) Parent() (Element, bool) {
	p := e.Node.Parent
	if p == nil || p.Type != html.ElementNode {
		return Element{}, false
	}
	return Element{Node: p, doc: e.doc}, true
}

// Closest ищет ближайшего предка (или сам элемент), подходящего под селектор.
func (e Element) Closest(selector string) (Element, bool) {
	found := e.Selection().Closest(selector)
	if found.Length() == 0 {
		return Element{}, false
	}
	return Element{Node: found.Nodes[0], doc: e.doc}, true
}

func (e Element) Selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.Node).Selection
}

// OuterHTML сериализует элемент вместе с потомками.
func (e Element) OuterHTML() (string, error) {
	return goquery.OuterHtml(e.Selection())
}
