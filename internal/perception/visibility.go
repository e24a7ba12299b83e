package perception

import "pagePerception/internal/dom"

// Decision - результат фильтра видимости. Скрытые варианты перечислены в порядке проверки.
type Decision int

const (
	Visible Decision = iota
	HiddenZeroArea
	HiddenOutsideViewport
	HiddenByStyle
)

func (d Decision) Visible() bool {
	return d == Visible
}

func (d Decision) String() string {
	switch d {
	case Visible:
		return "visible"
	case HiddenZeroArea:
		return "zero-area"
	case HiddenOutsideViewport:
		return "outside-viewport"
	case HiddenByStyle:
		return "style-hidden"
	default:
		return "unknown"
	}
}

// Decide проверяет правила по порядку и останавливается на первом сработавшем.
// Частичное пересечение с viewport считается видимостью.
func Decide(rect dom.Rect, style dom.Style, viewport dom.Viewport) Decision {
	if rect.Height == 0 || rect.Width == 0 {
		return HiddenZeroArea
	}

	if rect.Bottom < 0 ||
		rect.Top > viewport.Height ||
		rect.Right < 0 ||
		rect.Left > viewport.Width {
		return HiddenOutsideViewport
	}

	if style.Display == "none" ||
		style.Visibility == "hidden" ||
		style.Opacity == "0" {
		return HiddenByStyle
	}

	return Visible
}

func IsVisible(e dom.Element) bool {
	return Decide(e.Rect(), e.Style(), e.Document().Viewport()).Visible()
}
