package ui

import (
	"fmt"
	"io"
)

// PrintWelcome выводит приветствие
func PrintWelcome(w io.Writer) {
	fmt.Fprintln(w, ColorBold+IconEye+" Page Perception v0.1.0"+ColorReset)
	fmt.Fprintln(w, ColorGray+"Восприятие веб-страниц: видимый контент и интерактивные элементы"+ColorReset)
	fmt.Fprintln(w)
	PrintHelp(w)
	fmt.Fprintln(w, ColorCyan+IconBulb+" Совет:"+ColorReset+" после "+ColorYellow+"elements"+ColorReset+" используйте индексы в "+ColorYellow+"click"+ColorReset+" и "+ColorYellow+"type"+ColorReset)
	fmt.Fprintln(w)
}

// PrintHelp выводит список доступных команд
func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, ColorYellow+IconList+" Доступные команды:"+ColorReset)
	fmt.Fprintln(w, "  "+ColorGreen+"open"+ColorReset+" <url>               - Открыть страницу")
	fmt.Fprintln(w, "  "+ColorGreen+"restart"+ColorReset+" [url]            - Перезапустить браузер")
	fmt.Fprintln(w, "  "+ColorGreen+"view"+ColorReset+"                     - Видимый контент и элементы")
	fmt.Fprintln(w, "  "+ColorGreen+"visible"+ColorReset+"                  - Только видимый контент")
	fmt.Fprintln(w, "  "+ColorGreen+"elements"+ColorReset+"                 - Только интерактивные элементы")
	fmt.Fprintln(w, "  "+ColorGreen+"click"+ColorReset+" <index> | <x> <y>  - Клик по элементу или точке")
	fmt.Fprintln(w, "  "+ColorGreen+"type"+ColorReset+" <index> <текст>     - Ввести текст")
	fmt.Fprintln(w, "  "+ColorGreen+"submit"+ColorReset+" <index> <текст>   - Ввести текст и нажать Enter")
	fmt.Fprintln(w, "  "+ColorGreen+"select"+ColorReset+" <index> <номер>   - Выбрать опцию списка")
	fmt.Fprintln(w, "  "+ColorGreen+"scroll"+ColorReset+" up|down [end]     - Прокрутить страницу")
	fmt.Fprintln(w, "  "+ColorGreen+"key"+ColorReset+" <клавиша>            - Нажать клавишу")
	fmt.Fprintln(w, "  "+ColorGreen+"screenshot"+ColorReset+" <файл> [full] - Сохранить скриншот")
	fmt.Fprintln(w, "  "+ColorGreen+"js"+ColorReset+" <выражение>           - Выполнить JavaScript")
	fmt.Fprintln(w, "  "+ColorGreen+"console"+ColorReset+" [n]              - Сообщения консоли")
	fmt.Fprintln(w, "  "+ColorGreen+"history"+ColorReset+" [n]              - Последние снимки")
	fmt.Fprintln(w, "  "+ColorGreen+"show"+ColorReset+" <id>                - Снимок целиком")
	fmt.Fprintln(w, "  "+ColorGreen+"clear"+ColorReset+"                    - Очистить экран")
	fmt.Fprintln(w, "  "+ColorGreen+"exit"+ColorReset+"                     - Выход")
	fmt.Fprintln(w)
}
