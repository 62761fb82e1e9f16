package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fcurrie/ledmatrix-golang/internal/board"
	"github.com/fcurrie/ledmatrix-golang/internal/config"
	"github.com/fcurrie/ledmatrix-golang/internal/display"
	"github.com/fcurrie/ledmatrix-golang/internal/logging"
	"github.com/fcurrie/ledmatrix-golang/internal/remote"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to dotenv file")
	layout := flag.String("layout", "", "Matrix layout (3x9 or 5x5)")
	driver := flag.String("driver", "", "GPIO driver (cdev, sysfs, periph, fake)")
	listen := flag.String("listen", "", "Control server address")
	message := flag.String("message", "", "Marquee message")
	logLevel := flag.String("log-level", "", "Log level")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	override(&cfg.Display.Layout, *layout)
	override(&cfg.GPIO.Driver, *driver)
	override(&cfg.Remote.Listen, *listen)
	override(&cfg.Display.Message, *message)
	override(&cfg.Log.Level, *logLevel)
	if *dev {
		cfg.Log.Development = true
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Open the display
	b, err := board.Open(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to open display", "error", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Errorw("Failed to close display", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer := display.NewRenderer(b.Matrix, cfg.Display, logger.Named("renderer"))
	server := remote.NewServer(b.Matrix, renderer, logger.Named("remote"))

	done := make(chan struct{}, 2)
	go func() {
		renderer.Run(ctx)
		done <- struct{}{}
	}()
	go func() {
		if err := server.ListenAndServe(ctx, cfg.Remote.Listen); err != nil {
			logger.Errorw("Control server stopped", "error", err)
			cancel()
		}
		done <- struct{}{}
	}()

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	logger.Info("Shutting down...")
	cancel()
	<-done
	<-done
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
