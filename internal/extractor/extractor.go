package extractor

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pagePerception/internal/dom"
)

var ErrBadPayload = errors.New("некорректный ответ probe-скрипта")

// Evaluator - часть playwright.Page, которой достаточно для снятия снимка.
type Evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// Snapshot - страница на момент одного вызова probe.
type Snapshot struct {
	URL      string
	Title    string
	Document *dom.Document
}

type payload struct {
	URL      string       `json:"url"`
	Title    string       `json:"title"`
	Viewport dom.Viewport `json:"viewport"`
	Nodes    []probeNode  `json:"nodes"`
}

type probeNode struct {
	Kind      string      `json:"kind"`
	Handle    int         `json:"handle"`
	Parent    int         `json:"parent"`
	Tag       string      `json:"tag"`
	Namespace string      `json:"ns"`
	Attrs     [][2]string `json:"attrs"`
	Rect      dom.Rect    `json:"rect"`
	Style     dom.Style   `json:"style"`
	InnerText string      `json:"innerText"`
	Value     string      `json:"value"`
	Type      string      `json:"type"`
	Data      string      `json:"data"`
}

const (
	kindElement = "element"
	kindText    = "text"
)

var namespaces = map[string]string{
	"":                                   "",
	"http://www.w3.org/1999/xhtml":       "",
	"http://www.w3.org/2000/svg":         "svg",
	"http://www.w3.org/1998/Math/MathML": "math",
}

// Probe выполняет probe-скрипт на странице и строит из ответа документ.
// Реестр элементов остается на странице до Release.
func Probe(page Evaluator) (*Snapshot, error) {
	result, err := page.Evaluate(probeScript)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения probe: %w", err)
	}

	raw, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("%w: ожидалась строка, получено %T", ErrBadPayload, result)
	}
	return Decode([]byte(raw))
}

// Decode собирает дерево x/net/html из плоского списка узлов probe.
// Узлы должны идти в порядке документа: родитель раньше потомков, первым - body.
func Decode(data []byte) (*Snapshot, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(p.Nodes) == 0 {
		return nil, fmt.Errorf("%w: страница без body", ErrBadPayload)
	}
	if first := p.Nodes[0]; first.Kind != kindElement || first.Tag != "body" {
		return nil, fmt.Errorf("%w: первым узлом должен быть body, получен %q", ErrBadPayload, first.Tag)
	}

	root := &html.Node{Type: html.DocumentNode}
	htmlNode := newElement("html", "", nil)
	htmlNode.AppendChild(newElement("head", "", nil))
	root.AppendChild(htmlNode)

	byHandle := make(map[int]*html.Node, len(p.Nodes))
	type rendered struct {
		node   *html.Node
		handle int
		render dom.Render
	}
	elements := make([]rendered, 0, len(p.Nodes))

	for i, n := range p.Nodes {
		parent := htmlNode
		if i > 0 {
			var ok bool
			parent, ok = byHandle[n.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: узел %d ссылается на неизвестного родителя %d", ErrBadPayload, i, n.Parent)
			}
		}

		switch n.Kind {
		case kindText:
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: n.Data})
		case kindElement:
			if n.Tag == "" {
				return nil, fmt.Errorf("%w: узел %d без тега", ErrBadPayload, i)
			}
			if _, dup := byHandle[n.Handle]; dup {
				return nil, fmt.Errorf("%w: повторный handle %d", ErrBadPayload, n.Handle)
			}
			ns, ok := namespaces[n.Namespace]
			if !ok {
				ns = n.Namespace
			}
			node := newElement(n.Tag, ns, n.Attrs)
			parent.AppendChild(node)
			byHandle[n.Handle] = node
			elements = append(elements, rendered{
				node:   node,
				handle: n.Handle,
				render: dom.Render{
					Rect:      n.Rect,
					Style:     n.Style,
					InnerText: n.InnerText,
					Value:     n.Value,
					Type:      n.Type,
				},
			})
		default:
			return nil, fmt.Errorf("%w: неизвестный тип узла %q", ErrBadPayload, n.Kind)
		}
	}

	doc, err := dom.New(root, p.Viewport)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	for _, e := range elements {
		doc.SetRender(e.node, e.render)
		doc.SetHandle(e.node, e.handle)
	}

	return &Snapshot{URL: p.URL, Title: p.Title, Document: doc}, nil
}

func newElement(tag, namespace string, attrs [][2]string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, Namespace: namespace}
	if namespace == "" {
		n.DataAtom = atom.Lookup([]byte(tag))
	}
	for _, a := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a[0], Val: a[1]})
	}
	return n
}

// Apply переносит журнал документа на живую страницу. Возвращает handle-ы
// элементов, до которых не удалось дотянуться: страница успела их удалить.
func Apply(page Evaluator, journal []dom.Mutation) ([]int, error) {
	if len(journal) == 0 {
		return nil, nil
	}

	encoded, err := json.Marshal(journal)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации журнала: %w", err)
	}

	result, err := page.Evaluate(applyScript, string(encoded))
	if err != nil {
		return nil, fmt.Errorf("ошибка применения журнала: %w", err)
	}

	list, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: ожидался список, получено %T", ErrBadPayload, result)
	}

	missing := make([]int, 0, len(list))
	for _, v := range list {
		switch h := v.(type) {
		case float64:
			missing = append(missing, int(h))
		case int:
			missing = append(missing, h)
		}
	}
	return missing, nil
}

// Release удаляет реестр элементов со страницы.
func Release(page Evaluator) error {
	if _, err := page.Evaluate(releaseScript); err != nil {
		return fmt.Errorf("ошибка очистки реестра: %w", err)
	}
	return nil
}
