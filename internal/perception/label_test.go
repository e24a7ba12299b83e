package perception

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pagePerception/internal/dom"
)

func TestLabel(t *testing.T) {
	doc := page(t, `<body>
		<label for="email">Email</label>
		<input id="email" value="a@b.com" placeholder="you@example.com">

		<label>Name <input id="nested" value="Bob"></label>
		<label>Agree yes <input id="strip" value="yes"></label>

		<label><input id="remember" type="checkbox"> Remember me</label>
		<label for="when">When</label><input id="when" type="date">

		<input id="search" placeholder="Search">
		<textarea id="note">draft</textarea>
		<select id="size"><option value="s">S</option><option value="m" selected>M</option></select>

		<label for="query">Query</label><input id="query">
		<input id="untyped" placeholder="">
		<textarea id="empty"></textarea>
		<select id="nothing"></select>
		<select id="many" multiple></select>

		<button id="alt" alt="Submit"></button>
		<button id="titled" title="Close"></button>
		<button id="bare"></button>
		<button id="typed" type="submit"></button>
		<a id="link" href="/x">  Go
			home </a>
		<div id="spaces" tabindex="0" title="Card"></div>
	</body>`)

	override(t, doc, "#spaces", func(r *dom.Render) { r.InnerText = "   " })

	labeler := NewLabeler(DefaultLabelLimit)
	tests := map[string]string{
		"#email":    "[Label: Email] a@b.com [Placeholder: you@example.com]",
		"#nested":   "[Label: Name] Bob",
		"#strip":    "[Label: Agree] yes",
		"#remember": "[Label: Remember me] on",
		"#when":     "[Label: When] [date]",
		"#search":   "[Placeholder: Search]",
		"#note":     "draft",
		"#size":     "m",
		"#query":    "[Label: Query] [text]",
		"#untyped":  "[text]",
		"#empty":    "[textarea]",
		"#nothing":  "[select-one]",
		"#many":     "[select-multiple]",
		"#alt":      "Submit",
		"#titled":   "Close",
		"#bare":     NoTextLabel,
		"#typed":    "[submit]",
		"#link":     "Go home",
		"#spaces":   "Card",
	}
	for selector, want := range tests {
		t.Run(selector, func(t *testing.T) {
			assert.Equal(t, want, labeler.Label(element(t, doc, selector)))
		})
	}
}

func TestLabelTypeFallbackWhenValueIsEmpty(t *testing.T) {
	doc := page(t, `<body><label><input id="r" type="checkbox"> Remember me</label></body>`)
	override(t, doc, "#r", func(r *dom.Render) { r.Value = "" })

	assert.Equal(t, "[Label: Remember me] [checkbox]", NewLabeler(0).Label(element(t, doc, "#r")))
}

func TestLabelTruncation(t *testing.T) {
	long := strings.Repeat("a", 150)
	doc := page(t, `<body><button id="b">`+long+`</button></body>`)

	got := NewLabeler(DefaultLabelLimit).Label(element(t, doc, "#b"))
	assert.Equal(t, strings.Repeat("a", 97)+"...", got)
	assert.Len(t, got, 100)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijk", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	// обрезка идет по символам, а не по байтам
	assert.Equal(t, "привет...", Truncate("приветствие", 9))
}

func TestCustomStrategies(t *testing.T) {
	doc := page(t, `<body><button id="b" aria-label="Close dialog">x</button><button id="c"></button></body>`)
	aria := NewLabelStrategy("has-aria-label", func(e dom.Element) string {
		return e.Attr("aria-label")
	})
	labeler := NewLabeler(0, aria, InnerTextStrategy)

	assert.Equal(t, "has-aria-label", aria.Name())
	assert.Equal(t, "Close dialog", labeler.Label(element(t, doc, "#b")))
	assert.Equal(t, NoTextLabel, labeler.Label(element(t, doc, "#c")))
}

func TestDefaultStrategiesOrder(t *testing.T) {
	var names []string
	for _, s := range DefaultStrategies() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"has-value", "has-inner-text", "has-alt", "has-title", "has-placeholder", "has-type",
	}, names)
}
