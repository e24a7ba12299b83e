package ui

import "fmt"

// FormatKind возвращает иконку, цвет и текст для вида прохода восприятия
func FormatKind(kind string) (icon, color, text string) {
	switch kind {
	case "view":
		return IconEye, ColorCyan, "контент и элементы"
	case "visible":
		return IconDocument, ColorGreen, "видимый контент"
	case "interactive":
		return IconPointer, ColorYellow, "элементы"
	default:
		return IconClock, ColorGray, kind
	}
}

// ClearScreen очищает терминал
func ClearScreen() {
	fmt.Print("\033[H\033[2J")
}
