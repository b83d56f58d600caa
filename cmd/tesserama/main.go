package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/five82/tesserama/internal/app"
	"github.com/five82/tesserama/internal/config"
	"github.com/five82/tesserama/internal/records"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tesserama: %v\n", err)
		return 1
	}
	return 0
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "tesserama",
		Usage:     "Manage the membership cards kept in a CSV file",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default ~/.config/tesserama/config.toml)",
				Sources: cli.EnvVars("TESSERAMA_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "prefs",
				Usage:   "Path to preferences file (default ~/.config/tesserama/prefs.toml)",
				Sources: cli.EnvVars("TESSERAMA_PREFS"),
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Print the cards matching NEEDLE as CSV",
				ArgsUsage: "FILE NEEDLE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "columns",
						Usage: "Comma-separated columns to print, e.g. number,people (default all)",
					},
				},
				Action: runSearch,
			},
			{
				Name:      "insert",
				Usage:     "Append a numbered card dated today and save",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "people", Aliases: []string{"p"}, Usage: "Card holders, e.g. \"Smith John, Robert\"", Required: true},
					&cli.StringFlag{Name: "signature", Aliases: []string{"s"}, Usage: "Signature status"},
					&cli.StringFlag{Name: "flags", Usage: "Free-form flags"},
					&cli.StringFlag{Name: "id", Usage: "Card identifier"},
				},
				Action: runInsert,
			},
			{
				Name:      "export",
				Usage:     "Export the cards to JSON or SQLite",
				ArgsUsage: "FILE OUT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "json or sqlite",
						Value:   app.FormatJSON,
					},
				},
				Action: runExport,
			},
			{
				Name:  "log",
				Usage: "Print the end of the log file",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "lines", Aliases: []string{"n"}, Usage: "Number of lines", Value: 50},
					&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "Minimum level: debug, info, warn or error"},
				},
				Action: runLog,
			},
		},
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 1 {
		return fmt.Errorf("expected at most one FILE, got %d arguments", cmd.Args().Len())
	}
	return app.Run(ctx, app.Options{
		ConfigPath: cmd.String("config"),
		PrefsPath:  cmd.String("prefs"),
		File:       cmd.Args().First(),
	})
}

// headless loads the config for commands that print to the terminal and log
// to stderr.
func headless(cmd *cli.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, app.NewLogger(os.Stderr, max(cfg.SlogLevel(), slog.LevelWarn)), nil
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: tesserama search FILE NEEDLE")
	}
	cols, err := app.ParseColumns(cmd.String("columns"))
	if err != nil {
		return err
	}
	cfg, logger, err := headless(cmd)
	if err != nil {
		return err
	}
	_, err = app.Search(cfg, logger, cmd.Args().Get(0), cmd.Args().Get(1), cols, os.Stdout)
	return err
}

func runInsert(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: tesserama insert --people NAMES FILE")
	}
	cfg, logger, err := headless(cmd)
	if err != nil {
		return err
	}
	rec, err := app.Insert(cfg, logger, cmd.Args().First(), app.NewCard{
		People:    cmd.String("people"),
		Signature: cmd.String("signature"),
		Flags:     cmd.String("flags"),
		ID:        cmd.String("id"),
	})
	if err != nil {
		return err
	}
	fmt.Println(rec.Get(records.Number))
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: tesserama export --format json|sqlite FILE OUT")
	}
	cfg, logger, err := headless(cmd)
	if err != nil {
		return err
	}
	n, err := app.Export(cfg, logger, cmd.Args().Get(0), cmd.String("format"), cmd.Args().Get(1))
	if err != nil {
		return err
	}
	if out := cmd.Args().Get(1); out != "-" {
		fmt.Fprintf(os.Stderr, "exported %d cards to %s\n", n, out)
	}
	return nil
}

func runLog(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	_, err = app.ShowLog(cfg, int(cmd.Int("lines")), cmd.String("level"), os.Stdout)
	return err
}
