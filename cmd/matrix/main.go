package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fcurrie/ledmatrix-golang/internal/board"
	"github.com/fcurrie/ledmatrix-golang/internal/config"
	"github.com/fcurrie/ledmatrix-golang/internal/icon"
	"github.com/fcurrie/ledmatrix-golang/internal/logging"
	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	layout := flag.String("layout", "", "matrix layout (3x9 or 5x5)")
	driver := flag.String("driver", "", "gpio driver")
	pause := flag.Duration("pause", time.Second, "time to hold each pattern")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath, ".env")
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}
	if *layout != "" {
		cfg.Display.Layout = *layout
	}
	if *driver != "" {
		cfg.GPIO.Driver = *driver
	}

	logger, err := logging.New(cfg.Log.Level, true)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	b, err := board.Open(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open matrix: %v", err)
	}
	defer b.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, b.Matrix, *pause); err != nil {
		log.Printf("Test interrupted: %v", err)
		return
	}
	st := b.Matrix.Status()
	fmt.Fprintf(os.Stdout, "Test completed successfully: %d refreshes, %d faults\n", st.Refreshes, st.Faults)
}

func run(ctx context.Context, m *matrix.Matrix, pause time.Duration) error {
	hold := func(what string) error {
		log.Println(what)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
			return nil
		}
	}

	// Test pattern 1: All on
	var all [matrix.Pixels]byte
	for i := range all {
		all[i] = 1
	}
	m.SetRaw(all)
	if err := hold("All pixels on"); err != nil {
		return err
	}

	// Test pattern 2: One row at a time
	for r := 0; r < matrix.Height; r++ {
		m.Clear()
		for c := 0; c < matrix.Width; c++ {
			m.PixelOn(r, c)
		}
		if err := hold(fmt.Sprintf("Row %d", r)); err != nil {
			return err
		}
	}

	// Test pattern 3: One column at a time
	for c := 0; c < matrix.Width; c++ {
		m.Clear()
		for r := 0; r < matrix.Height; r++ {
			m.PixelOn(r, c)
		}
		if err := hold(fmt.Sprintf("Column %d", c)); err != nil {
			return err
		}
	}

	// Test pattern 4: Checkerboard
	var checker [matrix.Pixels]byte
	for i := range checker {
		checker[i] = byte(i % 2)
	}
	m.SetRaw(checker)
	if err := hold("Checkerboard"); err != nil {
		return err
	}

	// Test pattern 5: Icons
	for _, name := range icon.Names() {
		frame, err := icon.Get(name)
		if err != nil {
			return err
		}
		m.SetRaw(frame)
		if err := hold("Icon " + name); err != nil {
			return err
		}
	}

	// Test pattern 6: Scroll
	log.Println("Scrolling")
	if err := m.ShiftString(ctx, "RIOT", pause/8); err != nil {
		return err
	}

	log.Println("Clearing matrix")
	m.Clear()
	return nil
}
