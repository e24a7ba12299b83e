package perception

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pagePerception/internal/dom"
)

var testViewport = dom.Viewport{Width: 1280, Height: 720}

// page разбирает разметку и раскладывает все элементы в один видимый прямоугольник.
func page(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(markup), testViewport)
	require.NoError(t, err)
	doc.Layout(func(e dom.Element) dom.Render {
		r := dom.Intrinsic(e)
		r.Rect = dom.NewRect(10, 10, 100, 20)
		return r
	})
	return doc
}

func element(t *testing.T, doc *dom.Document, selector string) dom.Element {
	t.Helper()
	nodes := doc.Find(selector).Nodes
	require.NotEmpty(t, nodes, selector)
	return doc.Wrap(nodes[0])
}

func override(t *testing.T, doc *dom.Document, selector string, fn func(r *dom.Render)) {
	t.Helper()
	e := element(t, doc, selector)
	r := doc.RenderOf(e.Node)
	fn(&r)
	doc.SetRender(e.Node, r)
}
