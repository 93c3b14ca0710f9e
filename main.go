package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nconklindev/copyrows/internal/config"
	"github.com/nconklindev/copyrows/internal/converter"
	"github.com/nconklindev/copyrows/internal/preview"
	"github.com/nconklindev/copyrows/internal/types"
	"github.com/nconklindev/copyrows/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errNotTerminal = errors.New("interactive mode needs a terminal")

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorLine(os.Stderr, err))
		os.Exit(1)
	}
}

// run builds the command and executes it. Errors are returned rather than
// printed so main decides the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := &cli.Command{
		Name:      "copy_rows",
		Usage:     "copy the first, last or a random sample of rows into a new CSV or spreadsheet",
		ArgsUsage: "INPUT_FILE OUTPUT_FILE N MODE [SHEET_NAME] [SEED]",
		Description: "MODE is one of head, tail or random. Formats are picked by extension:\n" +
			".csv, .xls and .xlsx. SHEET_NAME only applies to spreadsheet input and\n" +
			"SEED only to random mode.\nFlags must come before INPUT_FILE.",
		Version:         fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date),
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level on stderr: debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:    "preview",
				Aliases: []string{"p"},
				Usage:   "print the copied rows as a table",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "choose the file and options in a terminal UI",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := setupLogging(stderr, cmd.String("log-level")); err != nil {
				return err
			}

			positional := cmd.Args().Slice()
			warnMisplacedFlags(positional, cmd.Flags)
			if cmd.Bool("interactive") {
				return runInteractive(positional)
			}
			return copyRows(stdout, positional, cmd.Bool("preview"))
		},
	}

	return cmd.Run(ctx, withArgsTerminator(args))
}

// withArgsTerminator inserts "--" before the first positional value so that
// values such as a negative SEED are never read as flags.
func withArgsTerminator(args []string) []string {
	if len(args) == 0 {
		return args
	}

	out := []string{args[0]}
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--":
			return append(out, rest[i:]...)
		case arg == "--log-level" || arg == "-log-level":
			out = append(out, arg)
			if i+1 < len(rest) {
				i++
				out = append(out, rest[i])
			}
		case strings.HasPrefix(arg, "-") && arg != "-":
			out = append(out, arg)
		default:
			out = append(out, "--")
			return append(out, rest[i:]...)
		}
	}
	return out
}

// warnMisplacedFlags logs SHEET_NAME or SEED values that spell a flag name.
// Anything after INPUT_FILE is positional, so such a flag has no effect.
func warnMisplacedFlags(positional []string, flags []cli.Flag) {
	if len(positional) <= 4 {
		return
	}

	known := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			known["-"+name] = true
			known["--"+name] = true
		}
	}

	for _, arg := range positional[4:] {
		if known[arg] {
			slog.Warn("Flag after INPUT_FILE is read as a positional value, put flags first.", "arg", arg)
		}
	}
}

func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log-level %q: must be debug, info, warn or error", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})))
	return nil
}

func copyRows(stdout io.Writer, args []string, showPreview bool) error {
	cfg, err := config.Parse(args)
	if err != nil {
		return err
	}

	result, err := converter.CopyRows(cfg, nil)
	if err != nil {
		return err
	}

	slog.Info("Rows copied.",
		"input", result.InputFile,
		"output", result.OutputFile,
		"mode", result.Mode,
		"rows", result.RowsWritten,
		"of", result.RowsRead,
		"size", humanize.Bytes(uint64(result.OutputBytes)),
	)

	if showPreview {
		return renderPreview(stdout, result)
	}
	return nil
}

// renderPreview reads the written file back so the preview shows exactly
// what landed on disk.
func renderPreview(w io.Writer, result *types.CopyResult) error {
	table, err := converter.ReadTable(result.OutputFile, "")
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return preview.Render(w, table, preview.DefaultLimit)
}

func runInteractive(args []string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return errNotTerminal
	}

	var input string
	if len(args) > 0 {
		input = args[0]
	}

	p := tea.NewProgram(ui.InitialModel(input), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ui.Model); ok {
		return m.Err()
	}
	return nil
}
