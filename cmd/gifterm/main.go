package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/lixenwraith/gifterm/config"
	"github.com/lixenwraith/gifterm/frame"
	"github.com/lixenwraith/gifterm/player"
	"github.com/lixenwraith/gifterm/render"
	"github.com/lixenwraith/gifterm/terminal"
)

// Exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitInterrupt = 130
)

// cliFlags holds command-line values; only flags set explicitly override the config
type cliFlags struct {
	config          string
	color           string
	backend         string
	delay           time.Duration
	debug           bool
	allowInterlaced bool
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	cf := &cliFlags{}
	fs.StringVar(&cf.config, "config", "", "Path to TOML config file")
	fs.StringVar(&cf.color, "color", "", "Color mode: auto, truecolor, 256 (default truecolor)")
	fs.StringVar(&cf.backend, "backend", "", "Output backend: ansi, tcell (default ansi)")
	fs.DurationVar(&cf.delay, "delay", 0, "Pause after each frame (default 75ms)")
	fs.BoolVar(&cf.debug, "debug", false, "Write debug log to logs/gifterm.log")
	fs.BoolVar(&cf.allowInterlaced, "allow-interlaced", false, "Play interlaced frames instead of failing")
	return cf
}

func main() {
	// Panic Recovery: leave the terminal usable even if rendering crashes
	defer func() {
		if r := recover(); r != nil {
			if stdoutIsTerminal() {
				terminal.EmergencyReset(os.Stdout)
			}
			fmt.Fprintf(os.Stderr, "\ngifterm crashed: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(exitFailure)
		}
	}()

	cf := registerFlags(flag.CommandLine)
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(exitUsage)
	}

	cfg, err := loadConfig(flag.CommandLine, cf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gifterm: %v\n", err)
		os.Exit(exitFailure)
	}

	logFile := setupLogging(cfg.Log)
	code := run(cfg, flag.Arg(0))
	if logFile != nil {
		logFile.Close()
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: gifterm [options] <file.gif>")
	fmt.Fprintln(os.Stderr, "\nPlays an animated GIF in a 24-bit color terminal.")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

// loadConfig layers defaults, the optional config file and the flags set on fs
func loadConfig(fs *flag.FlagSet, cf *cliFlags) (*config.Config, error) {
	cfg := config.Default()
	if cf.config != "" {
		loaded, err := config.Load(cf.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			cfg.Color = cf.color
		case "backend":
			cfg.Backend = cf.backend
		case "delay":
			cfg.Delay.Duration = cf.delay
		case "debug":
			cfg.Log.Debug = cf.debug
		case "allow-interlaced":
			cfg.AllowInterlaced = cf.allowInterlaced
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stdoutIsTerminal reports whether the current os.Stdout is a TTY
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// resolveColorMode picks the palette; "auto" only probes the environment on a TTY,
// piped output always gets the 24-bit form
func resolveColorMode(cfg *config.Config, tty bool) terminal.ColorMode {
	if cfg.Color == "auto" && !tty {
		return terminal.ColorModeTrueColor
	}
	return cfg.ColorMode()
}

// run plays path and returns the process exit code
func run(cfg *config.Config, path string) int {
	tty := stdoutIsTerminal()
	if cfg.Backend == config.BackendTcell && !tty {
		fmt.Fprintf(os.Stderr, "gifterm: %s backend needs a terminal on stdout\n", config.BackendTcell)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := frame.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gifterm: %v\n", err)
		return exitFailure
	}
	defer src.Close()

	w, h := src.Canvas()
	colorMode := resolveColorMode(cfg, tty)
	log.Printf("playing %s: %d frames, canvas %dx%d, delay %v, color %s, backend %s",
		path, src.Len(), w, h, cfg.Delay.Duration, colorMode, cfg.Backend)

	var renderer render.Renderer
	finish := func() {}
	switch cfg.Backend {
	case config.BackendTcell:
		screen, err := tcell.NewScreen()
		if err != nil {
			fmt.Fprintf(os.Stderr, "gifterm: screen: %v\n", err)
			return exitFailure
		}
		if err := screen.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "gifterm: screen init: %v\n", err)
			return exitFailure
		}
		finish = screen.Fini

		sr := render.NewScreenRenderer(screen, colorMode)
		sr.WatchInterrupt(stop)
		renderer = sr

	default:
		if !tty {
			log.Printf("stdout is not a terminal, writing bare protocol without reset")
		}
		renderer = render.NewANSIRenderer(os.Stdout, colorMode)
	}

	p := player.New(src, renderer, player.Options{
		Delay:           cfg.Delay.Duration,
		AllowInterlaced: cfg.AllowInterlaced,
	})
	err = p.Run(ctx)
	finish()
	log.Printf("stats: %+v", p.Stats())

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		resetOutput(cfg, tty)
		return exitInterrupt
	default:
		resetOutput(cfg, tty)
		log.Printf("playback failed: %v", err)
		fmt.Fprintf(os.Stderr, "gifterm: %v\n", err)
		return exitFailure
	}
}

// resetOutput drops the active background color so the shell prompt is not painted
// Only a terminal needs it; the tcell screen has already restored itself in Fini
func resetOutput(cfg *config.Config, tty bool) {
	if tty && cfg.Backend == config.BackendANSI {
		terminal.EmergencyReset(os.Stdout)
	}
}
