// ABOUTME: Entry point for the OBS emulator
// ABOUTME: Serves obs-websocket v5 from memory so obsctl can run without OBS
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/obsctl/internal/logging"
	"github.com/Resonate-Protocol/obsctl/pkg/obsmock"
	"go.uber.org/zap"
)

var (
	port      = flag.Int("port", 4445, "WebSocket server port")
	password  = flag.String("password", "123456", "Password clients must authenticate with (empty disables auth)")
	inputName = flag.String("input", "mySource", "Name of the seeded VLC playlist input")
	logFile   = flag.String("log-file", "", "Log file path")
	debug     = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logger := logging.New(logging.Config{File: *logFile, Console: true, Debug: *debug})
	defer logger.Sync()

	mock := obsmock.New(obsmock.Config{
		Password: *password,
		Logger:   logger.Named("obsmock"),
	})
	mock.AddInput(*inputName, obsmock.KindVLCSource, map[string]any{
		"playlist": []any{
			map[string]any{"hidden": false, "selected": true, "value": "intro.mp4"},
		},
	})

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutting down", zap.Stringer("signal", sig))
		mock.Stop()
	}()

	logger.Info("press Ctrl-C to stop", zap.Int("port", *port), zap.String("input", *inputName))

	if err := mock.Start(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
