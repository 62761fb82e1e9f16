package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/shlex"

	"github.com/fcurrie/ledmatrix-golang/internal/discovery"
	"github.com/fcurrie/ledmatrix-golang/internal/logging"
	"github.com/fcurrie/ledmatrix-golang/internal/remote"
	"github.com/fcurrie/ledmatrix-golang/internal/types"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "Daemon address")
	timeout := flag.Duration("timeout", time.Minute, "Per command timeout")
	verbose := flag.Bool("v", false, "Verbose logging")
	scan := flag.Bool("scan", false, "Scan the local network for daemons and exit")
	scanPort := flag.Int("scan-port", 8080, "Port probed by -scan")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *scan {
		scanner := discovery.NewScanner(types.DiscoveryConfig{Port: *scanPort})
		results, err := scanner.ScanNetwork(ctx)
		if err != nil {
			log.Fatalf("Failed to scan: %v", err)
		}
		for _, r := range results {
			fmt.Printf("%s\t%s\t%q\n", r.Address, r.Status.Matrix.Layout, r.Status.Message)
		}
		if len(results) == 0 {
			fmt.Println("No displays found")
		}
		return
	}

	client := remote.NewClient(*addr, logger)
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	sh := &shell{client: client, out: os.Stdout, timeout: *timeout}

	// One-shot mode
	if flag.NArg() > 0 {
		if err := sh.exec(ctx, flag.Args()); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if err := sh.repl(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%v", err)
	}
}

// repl reads one command per line until EOF or quit.
func (sh *shell) repl(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(sh.out, "> ")
	for scanner.Scan() {
		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		} else if len(args) > 0 {
			if args[0] == "quit" || args[0] == "exit" {
				return nil
			}
			if err := sh.exec(ctx, args); err != nil {
				fmt.Fprintf(sh.out, "error: %v\n", err)
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(sh.out, "> ")
	}
	return scanner.Err()
}
