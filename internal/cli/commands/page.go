package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pagePerception/internal/browser"
	"pagePerception/internal/cli/ui"
)

// PageHandler обрабатывает команды страницы: навигацию, восприятие и действия.
type PageHandler struct {
	browser browser.Browser
	out     io.Writer
}

func NewPageHandler(br browser.Browser, out io.Writer) *PageHandler {
	return &PageHandler{
		browser: br,
		out:     out,
	}
}

func (h *PageHandler) fail(msg string, err error) {
	fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" %s:"+ui.ColorReset+" %v\n", msg, err)
}

func (h *PageHandler) ok(msg string) {
	fmt.Fprintln(h.out, ui.ColorGreen+ui.IconCheckmark+" "+msg+ui.ColorReset)
}

func (h *PageHandler) usage(text string) {
	fmt.Fprintln(h.out, ui.ColorYellow+"Использование: "+text+ui.ColorReset)
}

// Open открывает URL в текущей вкладке
func (h *PageHandler) Open(ctx context.Context, url string) {
	if url == "" {
		h.usage("open <url>")
		return
	}
	url = normalizeURL(url)

	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconArrow+" Открытие %s..."+ui.ColorReset+"\n", url)
	if err := h.browser.Navigate(ctx, url); err != nil {
		h.fail("Ошибка навигации", err)
		return
	}
	h.ok("Страница открыта")
}

// Restart перезапускает браузер и, если задан адрес, открывает его
func (h *PageHandler) Restart(ctx context.Context, url string) {
	if url != "" {
		url = normalizeURL(url)
	}
	fmt.Fprintln(h.out, ui.ColorCyan+ui.IconLoop+" Перезапуск браузера..."+ui.ColorReset)
	if err := h.browser.Restart(ctx, url); err != nil {
		h.fail("Ошибка перезапуска", err)
		return
	}
	h.ok("Браузер перезапущен")
}

// Perceive выводит результат прохода восприятия: view, visible или interactive
func (h *PageHandler) Perceive(ctx context.Context, kind string) {
	var (
		view *browser.PageView
		err  error
	)
	switch kind {
	case browser.KindVisible:
		view, err = h.browser.VisibleContent(ctx)
	case browser.KindInteractive:
		view, err = h.browser.InteractiveElements(ctx)
	default:
		view, err = h.browser.View(ctx)
	}
	if err != nil {
		h.fail("Ошибка восприятия страницы", err)
		return
	}
	h.printView(view)
}

func (h *PageHandler) printView(view *browser.PageView) {
	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== %s ==="+ui.ColorReset+"\n", view.Title)
	fmt.Fprintf(h.out, ui.ColorGray+"%s"+ui.ColorReset+"\n", view.URL)

	if view.Content != "" {
		fmt.Fprintf(h.out, "\n"+ui.ColorCyan+ui.IconDocument+" Видимый контент:"+ui.ColorReset+"\n%s\n", view.Content)
	}
	if len(view.Elements) > 0 {
		fmt.Fprintf(h.out, "\n"+ui.ColorYellow+ui.IconList+" Элементы (%d):"+ui.ColorReset+"\n", len(view.Elements))
		for _, e := range view.Elements {
			fmt.Fprintf(h.out, "  "+ui.ColorGreen+"[%d]"+ui.ColorReset+" <%s> %s\n", e.Index, strings.ToLower(e.Tag), e.Text)
		}
	}
	fmt.Fprintln(h.out)
}

// Click: click <index> или click <x> <y>
func (h *PageHandler) Click(ctx context.Context, args []string) {
	var err error
	switch len(args) {
	case 1:
		var i int
		if i, err = parseIndex(args[0]); err == nil {
			err = h.browser.ClickIndex(ctx, i)
		}
	case 2:
		var x, y float64
		if x, y, err = parsePoint(args[0], args[1]); err == nil {
			err = h.browser.ClickAt(ctx, x, y)
		}
	default:
		h.usage("click <index> | click <x> <y>")
		return
	}
	if err != nil {
		h.fail("Ошибка клика", err)
		return
	}
	h.ok("Клик выполнен")
}

// Type вводит текст в элемент по индексу; submit дополнительно жмет Enter
func (h *PageHandler) Type(ctx context.Context, args []string, submit bool) {
	if len(args) < 2 {
		h.usage("type <index> <текст>")
		return
	}
	i, err := parseIndex(args[0])
	if err != nil {
		h.fail("Ошибка ввода", err)
		return
	}
	if err := h.browser.InputIndex(ctx, i, strings.Join(args[1:], " "), submit); err != nil {
		h.fail("Ошибка ввода", err)
		return
	}
	h.ok("Текст введен")
}

func (h *PageHandler) Select(ctx context.Context, args []string) {
	if len(args) != 2 {
		h.usage("select <index> <номер опции>")
		return
	}
	i, err := parseIndex(args[0])
	if err != nil {
		h.fail("Ошибка выбора", err)
		return
	}
	option, err := strconv.Atoi(args[1])
	if err != nil {
		h.fail("Ошибка выбора", fmt.Errorf("неверный номер опции %q", args[1]))
		return
	}
	if err := h.browser.SelectOption(ctx, i, option); err != nil {
		h.fail("Ошибка выбора", err)
		return
	}
	h.ok("Опция выбрана")
}

// Scroll: scroll up|down [end]
func (h *PageHandler) Scroll(ctx context.Context, args []string) {
	if len(args) == 0 || len(args) > 2 || (len(args) == 2 && args[1] != "end") {
		h.usage("scroll up|down [end]")
		return
	}
	toEnd := len(args) == 2

	var err error
	switch args[0] {
	case "up":
		err = h.browser.ScrollUp(ctx, toEnd)
	case "down":
		err = h.browser.ScrollDown(ctx, toEnd)
	default:
		h.usage("scroll up|down [end]")
		return
	}
	if err != nil {
		h.fail("Ошибка прокрутки", err)
		return
	}
	h.ok("Страница прокручена")
}

func (h *PageHandler) Key(ctx context.Context, key string) {
	if key == "" {
		h.usage("key <клавиша>")
		return
	}
	if err := h.browser.PressKey(ctx, key); err != nil {
		h.fail("Ошибка нажатия", err)
		return
	}
	h.ok("Клавиша нажата")
}

// Screenshot: screenshot <файл> [full]
func (h *PageHandler) Screenshot(ctx context.Context, args []string) {
	if len(args) == 0 || len(args) > 2 {
		h.usage("screenshot <файл.png> [full]")
		return
	}
	data, err := h.browser.Screenshot(ctx, len(args) == 2 && args[1] == "full")
	if err != nil {
		h.fail("Ошибка скриншота", err)
		return
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		h.fail("Ошибка записи файла", err)
		return
	}
	h.ok("Скриншот сохранен в " + args[0])
}

// Console выполняет JavaScript на странице
func (h *PageHandler) Console(ctx context.Context, script string) {
	if script == "" {
		h.usage("js <выражение>")
		return
	}
	result, err := h.browser.ConsoleExec(ctx, script)
	if err != nil {
		h.fail("Ошибка выполнения", err)
		return
	}
	fmt.Fprintf(h.out, ui.ColorCyan+"=>"+ui.ColorReset+" %v\n", result)
}

// ConsoleLog выводит последние сообщения консоли страницы
func (h *PageHandler) ConsoleLog(ctx context.Context, args []string) {
	lines := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			h.usage("console [число строк]")
			return
		}
		lines = n
	}
	messages, err := h.browser.ConsoleView(ctx, lines)
	if err != nil {
		h.fail("Ошибка чтения консоли", err)
		return
	}
	if len(messages) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Консоль пуста"+ui.ColorReset)
		return
	}
	for _, m := range messages {
		fmt.Fprintf(h.out, ui.ColorGray+"[%s]"+ui.ColorReset+" %s: %s\n", m.At.Format("15:04:05"), m.Type, m.Text)
	}
}
