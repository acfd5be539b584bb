package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/halcyonix/inkpdf/internal/browser"
	"github.com/halcyonix/inkpdf/internal/command"
	"github.com/halcyonix/inkpdf/internal/core/config"
	"github.com/halcyonix/inkpdf/internal/discover"
	"github.com/halcyonix/inkpdf/internal/document"
	"github.com/halcyonix/inkpdf/internal/document/fitzrender"
	"github.com/halcyonix/inkpdf/internal/input"
	"github.com/halcyonix/inkpdf/internal/term"
	"github.com/halcyonix/inkpdf/internal/watch"
	"github.com/halcyonix/inkpdf/pkg/executil"
	"github.com/halcyonix/inkpdf/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set so
	// version remains "dev". Fall back to runtime/debug.BuildInfo which Go
	// populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

type flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		cfg       *config.Config
	)

	f := &flags{}

	app := &cli.Command{
		Name:      "inkpdf",
		Usage:     "Browse PDFs as inline images in the terminal",
		UsageText: "inkpdf [global options] [path...]",
		Description: `inkpdf renders PDF pages directly in terminals that support the
iTerm2 inline image protocol (iTerm2, WezTerm, and compatible emulators).

With no arguments it browses every *.pdf in the current directory.

Keys: j/down next page, k/up previous page, l/right next document,
h/left previous document, gg first page, G last page, r reload,
o open in external viewer, q quit.

Documents reload automatically when they change on disk.`,
		Version:   build(),
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("INKPDF_LOG_LEVEL"),
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <user-cache>/inkpdf/inkpdf.log)",
				Sources:     cli.EnvVars("INKPDF_LOG_FILE"),
				Destination: &f.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("INKPDF_CONFIG"),
				Value:       config.DefaultPath(),
				Destination: &f.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			cfg, err = config.Load(f.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			level := cfg.LogLevel
			if f.LogLevel != "" {
				level = f.LogLevel
			}
			logFile := f.LogFile
			if logFile == "" {
				logFile = logutils.DefaultPath()
			}

			logger, closer, err := logutils.New(level, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(cfg, c.Args().Slice())
		},
	}

	err := app.Run(ctx, os.Args)
	if logCloser != nil {
		logCloser()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "inkpdf: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, args []string) error {
	paths, err := discover.Documents(args)
	if err != nil {
		return err
	}
	list, err := document.NewList(paths)
	if err != nil {
		return err
	}

	rast := fitzrender.New()
	openSession := func(path string, startPage int) (*document.Session, error) {
		return document.OpenSession(rast, path, startPage, cfg.RenderHeight)
	}

	// The first document must open; anything after startup is contained.
	session, err := openSession(list.Current(), 0)
	if err != nil {
		return err
	}

	cmds := command.NewQueue()

	// Watch failures degrade to no auto-refresh rather than aborting.
	watcher, err := watch.New(list.Current(), cmds, cfg.Debounce(), log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("file watch unavailable, auto-refresh disabled")
		watcher = nil
	} else {
		go watcher.Run()
		defer func() { _ = watcher.Close() }()
	}

	// The open function handed to the coordinator re-arms the watch, so
	// watch targeting stays out of the coordinator itself.
	open := browser.OpenFunc(func(path string, startPage int) (*document.Session, error) {
		s, err := openSession(path, startPage)
		if err == nil && watcher != nil {
			if werr := watcher.Retarget(path); werr != nil {
				log.Warn().Err(werr).Str("path", path).Msg("could not re-arm file watch")
			}
		}
		return s, err
	})

	guard, err := term.Acquire(os.Stdin, os.Stdout)
	if err != nil {
		_ = session.Close()
		return err
	}
	defer guard.Restore()

	go input.NewReader(os.Stdin, cmds, log.Logger).Run()

	display := browser.NewTermDisplay(os.Stdout, func() (int, int, error) {
		return term.Size(os.Stdout)
	})

	coord := browser.New(list, session, open, display, &executil.RealExecutor{}, cfg.Viewer, cmds.C(), log.Logger)
	last := coord.Run()
	_ = coord.Session().Close()

	guard.Restore()
	fmt.Println(last)
	return nil
}
