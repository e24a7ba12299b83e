package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rect повторяет DOMRect из getBoundingClientRect.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// NewRect строит прямоугольник по позиции и размеру, вычисляя края.
func NewRect(x, y, width, height float64) Rect {
	return Rect{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Top:    y,
		Right:  x + width,
		Bottom: y + height,
		Left:   x,
	}
}

// Style содержит сериализованные значения computed style, которые нужны фильтру видимости.
type Style struct {
	Display    string `json:"display"`
	Visibility string `json:"visibility"`
	Opacity    string `json:"opacity"`
}

// DefaultStyle соответствует элементу без каких-либо скрывающих правил.
var DefaultStyle = Style{Display: "block", Visibility: "visible", Opacity: "1"}

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Render - то, что движок браузера вычислил для элемента на момент снимка.
type Render struct {
	Rect      Rect
	Style     Style
	InnerText string
	Value     string
	// Type - свойство type у input, textarea и select.
	Type string
}

// Intrinsic выводит Render из разметки: inline-стиль, текст и текущее значение контрола.
// Геометрию разметка не задает, поэтому Rect остается нулевым.
func Intrinsic(e Element) Render {
	style := inlineStyle(e.Attr("style"))
	if style.Visibility == "" {
		style.Visibility = inheritedVisibility(e)
	}
	if style.Display == "" {
		style.Display = DefaultStyle.Display
	}
	if style.Opacity == "" {
		style.Opacity = DefaultStyle.Opacity
	}

	return Render{
		Style:     style,
		InnerText: intrinsicText(e),
		Value:     intrinsicValue(e),
		Type:      intrinsicType(e),
	}
}

func inlineStyle(decl string) Style {
	var s Style
	for _, part := range strings.Split(decl, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "display":
			s.Display = value
		case "visibility":
			s.Visibility = value
		case "opacity":
			s.Opacity = value
		}
	}
	return s
}

func inheritedVisibility(e Element) string {
	for p, ok := e.Parent(); ok; p, ok = p.Parent() {
		if v := inlineStyle(p.Attr("style")).Visibility; v != "" {
			return v
		}
	}
	return DefaultStyle.Visibility
}

func intrinsicText(e Element) string {
	switch e.Tag() {
	case "INPUT", "SCRIPT", "STYLE", "TEMPLATE":
		return ""
	}
	sel := e.Selection().Clone()
	sel.Find("script, style, template").Remove()
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// intrinsicType повторяет свойство type: у input без атрибута это "text".
func intrinsicType(e Element) string {
	switch e.Tag() {
	case "INPUT":
		if t := strings.ToLower(strings.TrimSpace(e.Attr("type"))); t != "" {
			return t
		}
		return "text"
	case "TEXTAREA":
		return "textarea"
	case "SELECT":
		if _, ok := e.LookupAttr("multiple"); ok {
			return "select-multiple"
		}
		return "select-one"
	}
	return ""
}

func intrinsicValue(e Element) string {
	switch e.Tag() {
	case "INPUT":
		if v, ok := e.LookupAttr("value"); ok {
			return v
		}
		switch strings.ToLower(e.Attr("type")) {
		case "checkbox", "radio":
			return "on"
		}
		return ""
	case "TEXTAREA":
		return e.Selection().Text()
	case "SELECT":
		options := e.Selection().Find("option")
		chosen := options.FilterFunction(func(_ int, o *goquery.Selection) bool {
			_, selected := o.Attr("selected")
			return selected
		}).First()
		if chosen.Length() == 0 {
			chosen = options.First()
		}
		if chosen.Length() == 0 {
			return ""
		}
		if v, ok := chosen.Attr("value"); ok {
			return v
		}
		return strings.TrimSpace(chosen.Text())
	}
	return ""
}
