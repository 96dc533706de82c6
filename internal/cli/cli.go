package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"reviewAnalyzer/internal/cli/commands"
	"reviewAnalyzer/internal/cli/ui"
	"reviewAnalyzer/internal/llm"
	"reviewAnalyzer/internal/logger"
)

const historyFile = ".review-analyzer-history"

type CLI struct {
	log   *logger.Zap
	model string
	out   io.Writer
	rl    *readline.Instance
	in    *bufio.Reader

	analyzeHandler *commands.AnalyzeHandler
	runsHandler    *commands.RunsHandler
	showHandler    *commands.ShowHandler
	logsHandler    *commands.LogsHandler
	llmHandler     *commands.LLMHandler
}

// Deps - зависимости консоли. Archive может быть nil, тогда команды архива
// сообщают, что он не настроен.
type Deps struct {
	Analyzer   commands.Analyzer
	Archive    commands.Archive
	Summarizer llm.Summarizer
	Clean      func(string) string
	Model      string
}

func New(deps Deps, log *logger.Zap) *CLI {
	cli := &CLI{
		log:   log,
		model: deps.Model,
		out:   os.Stdout,
	}

	// Инициализация readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Warn("Не удалось инициализировать readline, будет использован fallback режим")
		cli.in = bufio.NewReader(os.Stdin)
	} else {
		cli.rl = rl
		cli.out = rl.Stdout()
	}

	// Инициализация handlers
	cli.analyzeHandler = commands.NewAnalyzeHandler(deps.Analyzer, cli.out, log.Logger)
	cli.runsHandler = commands.NewRunsHandler(deps.Archive, cli.out, log.Logger)
	cli.showHandler = commands.NewShowHandler(deps.Archive, cli.out, log.Logger)
	cli.logsHandler = commands.NewLogsHandler(deps.Archive, cli.out, log.Logger)
	cli.llmHandler = commands.NewLLMHandler(deps.Summarizer, deps.Clean, cli.out)

	return cli
}

func (c *CLI) readLine() (string, error) {
	if c.rl != nil {
		return c.rl.Readline()
	}
	// Fallback для работы без readline
	fmt.Fprint(c.out, ui.ColorCyan+"> "+ui.ColorReset)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *CLI) closeReadline() {
	if c.rl != nil {
		c.rl.Close()
	}
}

func (c *CLI) Run(ctx context.Context) {
	ui.PrintWelcome(c.out, c.model)
	defer c.closeReadline()

	for {
		// Проверка отмены контекста
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out, "\n"+ui.ColorCyan+ui.IconWave+" Получен сигнал завершения..."+ui.ColorReset)
			return
		default:
		}

		line, err := c.readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return
			}
			continue
		} else if err != nil {
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

// handleCommand выполняет команду и возвращает false, если нужно выйти.
func (c *CLI) handleCommand(ctx context.Context, line string) bool {
	cmd, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch {
	case cmd == "exit" || cmd == "quit":
		fmt.Fprintln(c.out, ui.ColorCyan+ui.IconWave+" До свидания!"+ui.ColorReset)
		return false

	case cmd == "clear":
		ui.ClearScreen(c.out)

	case cmd == "help":
		ui.PrintHelp(c.out)

	case cmd == "analyze":
		c.analyzeHandler.Run(ctx, args)

	case commands.IsURL(cmd):
		c.analyzeHandler.Run(ctx, line)

	case cmd == "runs":
		c.runsHandler.List()

	case cmd == "show" && args != "":
		c.showHandler.Show(args)

	case cmd == "logs" && args != "":
		c.logsHandler.Show(args)

	case cmd == "summarize" && args != "":
		c.llmHandler.Summarize(ctx, args)

	default:
		ui.PrintHelp(c.out)
	}
	return true
}
