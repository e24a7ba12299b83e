// Package cli - интерактивная консоль над браузером и историей снимков.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"pagePerception/internal/browser"
	"pagePerception/internal/cli/commands"
	"pagePerception/internal/cli/ui"
	"pagePerception/internal/logger"
)

const historyFile = ".page-perception-history"

type CLI struct {
	log     *logger.Zap
	rl      *readline.Instance
	input   *lineReader
	out     io.Writer
	page    *commands.PageHandler
	history *commands.HistoryHandler
}

// New собирает консоль. store может быть nil, тогда история недоступна.
func New(log *logger.Zap, br browser.Browser, store commands.SnapshotStore) *CLI {
	cli := newCLI(log, br, store, os.Stdin, os.Stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.ColorCyan + "> " + ui.ColorReset,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Warn("Не удалось инициализировать readline, будет использован fallback режим")
	} else {
		cli.rl = rl
	}

	return cli
}

func newCLI(log *logger.Zap, br browser.Browser, store commands.SnapshotStore, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		log:     log,
		input:   newLineReader(in, out),
		out:     out,
		page:    commands.NewPageHandler(br, out),
		history: commands.NewHistoryHandler(store, log.Logger, out),
	}
}

func (c *CLI) readLine() (string, error) {
	if c.rl != nil {
		return c.rl.Readline()
	}
	return c.input.ReadLine()
}

func (c *CLI) closeReadline() {
	if c.rl != nil {
		c.rl.Close()
	}
}

// Run читает команды до exit, EOF или отмены ctx.
func (c *CLI) Run(ctx context.Context) {
	ui.PrintWelcome(c.out)
	defer c.closeReadline()

	for {
		select {
		case <-ctx.Done():
			io.WriteString(c.out, "\n"+ui.ColorCyan+ui.IconWave+" Получен сигнал завершения..."+ui.ColorReset+"\n")
			return
		default:
		}

		line, err := c.readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return
			}
			continue
		}
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !c.handleCommand(ctx, line) {
			return
		}
	}
}

// handleCommand выполняет одну команду; false - пора выходить.
func (c *CLI) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(line, name))

	switch name {
	case "exit", "quit":
		io.WriteString(c.out, ui.ColorCyan+ui.IconWave+" До свидания!"+ui.ColorReset+"\n")
		return false

	case "clear":
		ui.ClearScreen()

	case "open":
		c.page.Open(ctx, rest)

	case "restart":
		c.page.Restart(ctx, rest)

	case "view":
		c.page.Perceive(ctx, browser.KindView)

	case "visible":
		c.page.Perceive(ctx, browser.KindVisible)

	case "elements":
		c.page.Perceive(ctx, browser.KindInteractive)

	case "click":
		c.page.Click(ctx, args)

	case "type":
		c.page.Type(ctx, args, false)

	case "submit":
		c.page.Type(ctx, args, true)

	case "select":
		c.page.Select(ctx, args)

	case "scroll":
		c.page.Scroll(ctx, args)

	case "key":
		c.page.Key(ctx, rest)

	case "screenshot":
		c.page.Screenshot(ctx, args)

	case "js":
		c.page.Console(ctx, rest)

	case "console":
		c.page.ConsoleLog(ctx, args)

	case "history":
		c.history.List(ctx, args)

	case "show":
		c.history.Show(ctx, rest)

	default:
		ui.PrintHelp(c.out)
	}
	return true
}
