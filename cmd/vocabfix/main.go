package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/vocabfix/internal"
	"github.com/starford/vocabfix/internal/apperr"
	pkgconfig "github.com/starford/vocabfix/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.LoadIfExists[internal.Config]
	if cmd.IsSet("config") {
		load = pkgconfig.Load[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func fix(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("dry-run") {
		cfg.DryRun = true
	}
	if cmd.Bool("verbose") {
		cfg.Report.Verbose = true
	}

	return internal.Run(ctx, internal.WithConfig(cfg))
}

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Check(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("check error: %w", err)
	}
	return nil
}

func importWords(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Import(ctx, cmd.String("from"), internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("import error: %w", err)
	}
	return nil
}

func history(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.History(ctx, int(cmd.Int("limit")), internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("history error: %w", err)
	}
	return nil
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func fixFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Correct and report without saving",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Print every corrected and unmatched word",
		},
	}
}

// writeTrace prints err followed by every error it wraps, outermost first.
func writeTrace(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for depth := 1; ; depth++ {
		err = errors.Unwrap(err)
		if err == nil {
			return
		}
		fmt.Fprintf(w, "%*scaused by: %v\n", depth*2, "", err)
	}
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n%s", r, debug.Stack())
			code = 1
		}
	}()

	cmd := &cli.Command{
		Name:   "vocabfix",
		Usage:  "Reassign vocabulary words stuck in the placeholder category using the curated reference table",
		Action: fix,
		Flags:  fixFlags(),
		Commands: []*cli.Command{
			{
				Name:   "fix",
				Usage:  "Correct placeholder categories and save the result (default)",
				Action: fix,
				Flags:  fixFlags(),
			},
			{
				Name:   "check",
				Usage:  "Show category counts and pending placeholder words without writing",
				Action: check,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "import",
				Usage:  "Append the words of a JSON file to the SQLite store",
				Action: importWords,
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Path to the JSON word file",
						Required: true,
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List correction passes recorded in the SQLite store",
				Action: history,
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of runs to show",
						Value: 10,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), args); err != nil {
		if errors.Is(err, apperr.ErrUnmatched) {
			slog.Warn("run finished with unmatched words", slog.String("error", err.Error()))
			return 1
		}
		slog.Error("application error", slog.String("error", err.Error()))
		writeTrace(os.Stderr, err)
		return 1
	}
	return 0
}
