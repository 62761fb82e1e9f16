package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fcurrie/ledmatrix-golang/internal/logging"
	"github.com/fcurrie/ledmatrix-golang/pkg/gpio"
)

func main() {
	driver := flag.String("driver", gpio.DriverCdev, "GPIO driver (cdev, sysfs, periph, fake)")
	chip := flag.String("chip", "gpiochip0", "GPIO chip for cdev")
	pin := flag.String("pin", "5", "Line offset, sysfs number or periph name")
	interval := flag.Duration("interval", time.Second, "Toggle interval")
	flag.Parse()

	logger, err := logging.New("debug", true)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Set up signal handler for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Starting GPIO test...")

	lines, err := gpio.Open(*driver, []string{*pin}, gpio.Options{Chip: *chip, Log: logger})
	if err != nil && *driver == gpio.DriverCdev {
		log.Printf("Failed to request line: %v", err)

		// On a Raspberry Pi 5 the header lines sit on gpiochip11 with base 512
		n, _ := strconv.Atoi(*pin)
		log.Println("Trying with gpiochip11...")
		lines, err = gpio.Open(*driver, []string{strconv.Itoa(512 + n)}, gpio.Options{Chip: "gpiochip11", Log: logger})
	}
	if err != nil {
		log.Fatalf("Failed to request line: %v", err)
	}
	line := lines[0]
	defer line.Close()

	log.Println("Successfully requested GPIO line")

	// Toggle the line until terminated
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	level := false
	for {
		select {
		case <-sigChan:
			log.Println("Shutting down...")
			if err := line.Set(false); err != nil {
				log.Printf("Failed to reset line: %v", err)
			}
			return
		case <-ticker.C:
			level = !level
			if err := line.Set(level); err != nil {
				log.Printf("Failed to set value: %v", err)
				continue
			}
			log.Printf("Set GPIO value to %v", level)
		}
	}
}
