package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"pagePerception/internal/cli/ui"
	"pagePerception/internal/database"
)

const defaultHistoryLimit = 20

type SnapshotStore interface {
	List(ctx context.Context, limit, offset int) ([]database.Snapshot, error)
	GetByID(ctx context.Context, id uint) (*database.Snapshot, error)
}

// HistoryHandler показывает сохраненные проходы восприятия
type HistoryHandler struct {
	store SnapshotStore
	log   *zap.Logger
	out   io.Writer
}

func NewHistoryHandler(store SnapshotStore, log *zap.Logger, out io.Writer) *HistoryHandler {
	return &HistoryHandler{
		store: store,
		log:   log,
		out:   out,
	}
}

func (h *HistoryHandler) enabled() bool {
	if h.store == nil {
		fmt.Fprintln(h.out, ui.ColorYellow+"История отключена: не задан DB_HOST"+ui.ColorReset)
		return false
	}
	return true
}

// List выводит последние снимки: history [количество]
func (h *HistoryHandler) List(ctx context.Context, args []string) {
	if !h.enabled() {
		return
	}

	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintln(h.out, ui.ColorYellow+"Использование: history [количество]"+ui.ColorReset)
			return
		}
		limit = n
	}

	snapshots, err := h.store.List(ctx, limit, 0)
	if err != nil {
		h.log.Error("Ошибка получения истории", zap.Error(err))
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Ошибка получения истории"+ui.ColorReset)
		return
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"История пуста"+ui.ColorReset)
		return
	}

	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== "+ui.IconList+" История (%d) ==="+ui.ColorReset+"\n", len(snapshots))
	for _, s := range snapshots {
		icon, color, text := ui.FormatKind(s.Kind)
		fmt.Fprintf(h.out, ui.ColorGray+"#%d [%s]"+ui.ColorReset+" %s%s %s"+ui.ColorReset+" %s",
			s.ID, s.CreatedAt.Format("15:04:05"), color, icon, text, s.URL)
		if s.ElementCount > 0 {
			fmt.Fprintf(h.out, ui.ColorGray+" (%d эл.)"+ui.ColorReset, s.ElementCount)
		}
		fmt.Fprintln(h.out)
	}
	fmt.Fprintln(h.out)
}
