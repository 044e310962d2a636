// ABOUTME: Entry point for obsctl
// ABOUTME: Connects to OBS, prints its version and runs the playlist swap demo
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/obsctl/internal/control"
	"github.com/Resonate-Protocol/obsctl/internal/demo"
	"github.com/Resonate-Protocol/obsctl/internal/logging"
	"github.com/Resonate-Protocol/obsctl/internal/scenario"
	"github.com/Resonate-Protocol/obsctl/internal/ui"
	"github.com/Resonate-Protocol/obsctl/internal/version"
	"github.com/Resonate-Protocol/obsctl/pkg/obsws"
	"go.uber.org/zap"
)

var (
	host         = flag.String("host", "localhost", "OBS host")
	port         = flag.Int("port", 4445, "obs-websocket port")
	password     = flag.String("password", "123456", "obs-websocket password (OBS_PASSWORD overrides the default)")
	scenarioFile = flag.String("scenario", "", "Scenario YAML file (default: built-in three clip demo)")
	listInputs   = flag.Bool("list-inputs", false, "List inputs and exit")
	showPlaylist = flag.Bool("show-playlist", false, "Print the scenario input's current playlist and exit")
	defaultsKind = flag.String("defaults", "", "Print the default settings of an input kind and exit")
	showStatus   = flag.Bool("status", false, "Print stream status and exit")
	toggle       = flag.Bool("toggle", false, "Toggle the stream output and exit")
	useTUI       = flag.Bool("tui", false, "Show demo progress in a terminal UI")
	logFile      = flag.String("log-file", "", "Log file path (rotated)")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	os.Exit(run())
}

func run() int {
	logger := logging.New(logging.Config{
		File:    *logFile,
		Console: !*useTUI,
		Debug:   *debug,
	})
	defer logger.Sync()
	log := logger.Named("main")

	sc := scenario.Default()
	if *scenarioFile != "" {
		var err error
		sc, err = scenario.Load(*scenarioFile)
		if err != nil {
			log.Error("invalid scenario", zap.String("path", *scenarioFile), zap.Error(err))
			return 2
		}
	}

	client := obsws.New(obsws.Config{
		Host:     *host,
		Port:     *port,
		Password: resolvePassword(),
		Logger:   logger.Named("obsws"),
	})
	if err := client.Connect(); err != nil {
		log.Error("connection failed", zap.String("addr", client.Addr()), zap.Error(err))
		return 1
	}
	defer client.Close()

	ctrl := control.New(client, logger.Named("control"))

	v, err := ctrl.GetVersion()
	if err != nil {
		log.Error("version query failed", zap.Error(err))
		return 1
	}
	fmt.Printf("OBS Version: %s\n", v.ObsVersion)

	switch {
	case *listInputs:
		return printInputs(ctrl, log)
	case *showPlaylist:
		return printPlaylist(ctrl, sc.Input, log)
	case *defaultsKind != "":
		return printDefaults(ctrl, *defaultsKind, log)
	case *showStatus:
		return printStatus(ctrl, log)
	case *toggle:
		return toggleStream(ctrl, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := demo.Config{
		Scenario: sc,
		Logger:   logger.Named("demo"),
	}

	if *useTUI {
		err = runWithTUI(ctx, stop, ctrl, config, client.Addr(), log)
	} else {
		err = demo.New(ctrl, config).Run(ctx)
	}

	return exitCode(err, log)
}

// exitCode maps the demo outcome to a process exit code.
// Errors joined after the driver reported its failure, such as a failed
// stop, are only visible here.
func exitCode(err error, log *zap.Logger) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		log.Info("interrupted", zap.Error(err))
		return 130
	default:
		log.Error("demo failed", zap.Error(err))
		return 1
	}
}

// resolvePassword prefers an explicit flag, then OBS_PASSWORD, then the flag default
func resolvePassword() string {
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "password" {
			explicit = true
		}
	})
	if env := os.Getenv("OBS_PASSWORD"); !explicit && env != "" {
		return env
	}
	return *password
}

// runWithTUI runs the demo in the background while the TUI owns the terminal.
// Quitting the TUI cancels ctx, which stops the stream and ends the demo.
func runWithTUI(ctx context.Context, cancel context.CancelFunc, ctrl *control.Controller, config demo.Config, addr string, log *zap.Logger) error {
	prog := ui.Run(ui.NewModel(addr, config.Scenario.Input, cancel))

	config.Out = ui.NewWriter(prog)
	config.OnStateChange = func(s demo.State) {
		prog.Send(ui.StateMsg{State: s})
	}

	errCh := make(chan error, 1)
	go func() {
		err := demo.New(ctrl, config).Run(ctx)
		prog.Send(ui.DoneMsg{Err: err})
		errCh <- err
	}()

	if _, err := prog.Run(); err != nil {
		log.Error("TUI failed", zap.Error(err))
		cancel()
	}

	return <-errCh
}
