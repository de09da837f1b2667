package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatstat/internal/config"
	"github.com/Zuo-Peng/chatstat/internal/index"
	"github.com/Zuo-Peng/chatstat/internal/logging"
	"github.com/Zuo-Peng/chatstat/internal/parse"
	"github.com/Zuo-Peng/chatstat/internal/present"
)

var version = "dev"

var errNoSender = errors.New("no sender selected: pass --sender")

// app carries the global flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	format     string
	logLevel   string

	cfg *config.Config
	log *slog.Logger
	out present.Formatter
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "chatstat",
		Short:         "Chat transcript statistics - who talks, when and how much",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default ~/.config/chatstat/config.toml)")
	pf.StringVar(&a.format, "format", "", "Output format: "+strings.Join(present.Formats, ", ")+" (default text on a terminal, tsv otherwise)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(summaryCmd(a))
	rootCmd.AddCommand(historyCmd(a))
	rootCmd.AddCommand(dailyCmd(a))
	rootCmd.AddCommand(topCmd(a))
	rootCmd.AddCommand(chartCmd(a))
	rootCmd.AddCommand(menuCmd(a))
	rootCmd.AddCommand(indexCmd(a))
	rootCmd.AddCommand(searchCmd(a))
	rootCmd.AddCommand(previewCmd(a))
	rootCmd.AddCommand(openCmd(a))
	rootCmd.AddCommand(doctorCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.log = logging.New(level, cfg.LogJSON, cmd.ErrOrStderr())
	slog.SetDefault(a.log)

	name := a.format
	if name == "" {
		name = cfg.Format
	}
	if name == "" {
		name = "tsv"
		if isTerminal(cmd.OutOrStdout()) {
			name = "text"
		}
	}
	a.out, err = present.NewFormatter(name)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or 80 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// loadTranscript reads a transcript file, or an indexed transcript when arg
// is an index key such as "txt:family".
func (a *app) loadTranscript(arg string) (*parse.Transcript, error) {
	var (
		t   *parse.Transcript
		err error
	)
	if strings.HasPrefix(arg, "txt:") {
		t, err = a.indexedTranscript(arg)
	} else {
		t, err = parse.LoadFile(arg, parse.WithLogger(a.log))
	}
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	a.log.Debug("transcript ready", "source", t.Source(), "records", t.Len(), "dropped", t.Dropped())
	return t, nil
}

func (a *app) indexedTranscript(key string) (*parse.Transcript, error) {
	db, err := index.OpenDB(a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Transcript(key)
}
