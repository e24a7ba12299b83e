// Package dom хранит снимок отрисованной страницы: дерево golang.org/x/net/html,
// обернутое goquery, и таблицу того, что браузер вычислил для каждого элемента
// (геометрия, computed style, innerText, value).
package dom

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNoBody = errors.New("документ не содержит body")

type Document struct {
	doc      *goquery.Document
	body     *html.Node
	viewport Viewport
	render   map[*html.Node]Render
	handles  map[*html.Node]int
	journal  []Mutation
}

// New оборачивает уже построенное дерево. root может быть DocumentNode или любым узлом,
// под которым есть body.
func New(root *html.Node, viewport Viewport) (*Document, error) {
	if root == nil {
		return nil, ErrNoBody
	}
	body := findBody(root)
	if body == nil {
		return nil, ErrNoBody
	}

	return &Document{
		doc:      goquery.NewDocumentFromNode(root),
		body:     body,
		viewport: viewport,
		render:   make(map[*html.Node]Render),
		handles:  make(map[*html.Node]int),
	}, nil
}

// Parse разбирает HTML. Render для элементов не заполняется - его задает вызывающий.
func Parse(r io.Reader, viewport Viewport) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора html: %w", err)
	}
	return New(root, viewport)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func (d *Document) Viewport() Viewport {
	return d.viewport
}

func (d *Document) Body() Element {
	return Element{Node: d.body, doc: d}
}

// Wrap возвращает Element для узла этого документа.
func (d *Document) Wrap(n *html.Node) Element {
	return Element{Node: n, doc: d}
}

// SetRender задает вычисленные браузером данные для узла.
func (d *Document) SetRender(n *html.Node, r Render) {
	d.render[n] = r
}

func (d *Document) RenderOf(n *html.Node) Render {
	return d.render[n]
}

// Layout задает Render всем элементам под body (включая сам body).
func (d *Document) Layout(fn func(Element) Render) {
	d.SetRender(d.body, fn(d.Body()))
	for e := range d.Elements() {
		d.SetRender(e.Node, fn(e))
	}
}

// SetHandle связывает узел с его номером в реестре живой страницы.
func (d *Document) SetHandle(n *html.Node, handle int) {
	d.handles[n] = handle
}

// Elements - все элементы под body в порядке документа (аналог "body *").
// Последовательность ленивая и может проходиться повторно.
func (d *Document) Elements() iter.Seq[Element] {
	return d.walk(d.body, nil)
}

// Matching - элементы всего документа, подходящие под matcher, в порядке документа
// (аналог querySelectorAll).
func (d *Document) Matching(m cascadia.Matcher) iter.Seq[Element] {
	return d.walk(d.doc.Nodes[0], m)
}

func (d *Document) walk(root *html.Node, m cascadia.Matcher) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		var visit func(n *html.Node) bool
		visit = func(n *html.Node) bool {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode {
					continue
				}
				if m == nil || m.Match(c) {
					if !yield(Element{Node: c, doc: d}) {
						return false
					}
				}
				if !visit(c) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// Find выполняет CSS-запрос по всему документу.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// LabelFor возвращает первый label, привязанный к контролу через for=id.
func (d *Document) LabelFor(id string) (Element, bool) {
	if id == "" {
		return Element{}, false
	}
	label := d.doc.Find("label").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr("for")
		return ok && v == id
	}).First()
	if label.Length() == 0 {
		return Element{}, false
	}
	return Element{Node: label.Nodes[0], doc: d}, true
}

// SetAttribute пишет атрибут в дерево и фиксирует запись в журнале.
func (d *Document) SetAttribute(e Element, name, value string) {
	e.Selection().SetAttr(name, value)
	d.journal = append(d.journal, Mutation{
		Op:     OpSet,
		Handle: d.handleOf(e.Node),
		Name:   name,
		Value:  value,
	})
}

// RemoveAttributeEverywhere снимает атрибут со всех элементов документа.
// Возвращает число затронутых элементов.
func (d *Document) RemoveAttributeEverywhere(name string) int {
	matched := d.doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, ok := s.Attr(name)
		return ok
	})
	matched.RemoveAttr(name)
	d.journal = append(d.journal, Mutation{Op: OpRemoveAll, Handle: NoHandle, Name: name})
	return matched.Length()
}

func (d *Document) handleOf(n *html.Node) int {
	if h, ok := d.handles[n]; ok {
		return h
	}
	return NoHandle
}

// Journal возвращает изменения, внесенные в документ, в порядке их применения.
func (d *Document) Journal() []Mutation {
	out := make([]Mutation, len(d.journal))
	copy(out, d.journal)
	return out
}
