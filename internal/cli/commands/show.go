package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"pagePerception/internal/cli/ui"
	"pagePerception/internal/database"
)

// Show выводит снимок целиком: разметку и элементы
func (h *HistoryHandler) Show(ctx context.Context, idStr string) {
	if !h.enabled() {
		return
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Неверный ID снимка"+ui.ColorReset)
		return
	}
	s, err := h.store.GetByID(ctx, uint(id))
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Снимок не найден"+ui.ColorReset)
		return
	}
	if err != nil {
		h.log.Error("Ошибка получения снимка", zap.Uint64("id", id), zap.Error(err))
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Ошибка получения снимка"+ui.ColorReset)
		return
	}

	_, _, kindText := ui.FormatKind(s.Kind)

	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== Снимок #%d ==="+ui.ColorReset+"\n", s.ID)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconGlobe+" Адрес:"+ui.ColorReset+" %s\n", s.URL)
	if s.Title != "" {
		fmt.Fprintf(h.out, ui.ColorCyan+ui.IconDocument+" Заголовок:"+ui.ColorReset+" %s\n", s.Title)
	}
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconChart+" Тип:"+ui.ColorReset+" %s\n", kindText)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconTime+" Снят:"+ui.ColorReset+" %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))

	if s.Content != "" {
		fmt.Fprintf(h.out, "\n"+ui.ColorYellow+"Видимый контент:"+ui.ColorReset+"\n%s\n", s.Content)
	}

	if len(s.Elements) > 0 {
		fmt.Fprintf(h.out, "\n"+ui.ColorYellow+ui.IconList+" Элементы (%d):"+ui.ColorReset+"\n", len(s.Elements))
		for _, e := range s.Elements {
			fmt.Fprintf(h.out, "  "+ui.ColorGreen+"[%d]"+ui.ColorReset+" <%s> %s\n", e.Position, strings.ToLower(e.Tag), e.Text)
			fmt.Fprintf(h.out, "      "+ui.ColorGray+"%s"+ui.ColorReset+"\n", e.Selector)
		}
	} else if s.Kind != "visible" {
		fmt.Fprintln(h.out, "\n"+ui.ColorGray+"Элементы не найдены"+ui.ColorReset)
	}
	fmt.Fprintln(h.out)
}
