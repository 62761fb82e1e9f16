package gpio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const defaultSysfsRoot = "/sys/class/gpio"

var (
	levelHigh = []byte("1")
	levelLow  = []byte("0")
)

// SysfsOptions tunes NewSysfsPin.
type SysfsOptions struct {
	// Root defaults to /sys/class/gpio.
	Root string
	// ExportDelay gives udev time to create the pin directory. Defaults to 100ms;
	// negative disables the wait.
	ExportDelay time.Duration
	Log         *zap.SugaredLogger
}

// SysfsPin is a GPIO pin using the sysfs interface.
type SysfsPin struct {
	number int
	root   string
	log    *zap.SugaredLogger

	mu    sync.Mutex
	value *os.File
}

// NewSysfsPin exports number and sets it as an output.
func NewSysfsPin(number int, opts SysfsOptions) (*SysfsPin, error) {
	if opts.Root == "" {
		opts.Root = defaultSysfsRoot
	}
	if opts.ExportDelay == 0 {
		opts.ExportDelay = 100 * time.Millisecond
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	p := &SysfsPin{number: number, root: opts.Root, log: opts.Log}

	exported := true
	if err := p.writeControl("export"); err != nil {
		// An already exported pin reports EBUSY.
		if !os.IsExist(err) && !errors.Is(err, syscall.EBUSY) {
			return nil, fmt.Errorf("failed to export pin %d: %w", number, err)
		}
		p.log.Debugw("pin may already be exported, continuing", "pin", number)
		exported = false
	}
	if opts.ExportDelay > 0 {
		time.Sleep(opts.ExportDelay)
	}

	if err := p.setDirection("out"); err != nil {
		return nil, p.abandon(exported, err)
	}
	f, err := os.OpenFile(p.path("value"), os.O_WRONLY, 0644)
	if err != nil {
		return nil, p.abandon(exported, fmt.Errorf("failed to open value of pin %d: %w", number, err))
	}
	p.value = f
	return p, nil
}

// abandon unexports a pin this process exported and returns err.
func (p *SysfsPin) abandon(exported bool, err error) error {
	if !exported {
		return err
	}
	if uerr := p.writeControl("unexport"); uerr != nil {
		p.log.Warnw("failed to unexport pin", "pin", p.number, "error", uerr)
	}
	return err
}

func (p *SysfsPin) ConfigureOutput(initial bool) error {
	// "high"/"low" set direction and level atomically.
	dir := "low"
	if initial {
		dir = "high"
	}
	return p.setDirection(dir)
}

func (p *SysfsPin) Set(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.value == nil {
		return ErrClosed
	}
	b := levelLow
	if level {
		b = levelHigh
	}
	_, err := p.value.WriteAt(b, 0)
	return err
}

// Close releases the value file and unexports the pin.
func (p *SysfsPin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.value == nil {
		return nil
	}
	err := p.value.Close()
	p.value = nil
	if uerr := p.writeControl("unexport"); uerr != nil {
		// The pin might already have been cleaned up.
		p.log.Warnw("failed to unexport pin", "pin", p.number, "error", uerr)
	}
	return err
}

func (p *SysfsPin) path(attr string) string {
	return filepath.Join(p.root, "gpio"+strconv.Itoa(p.number), attr)
}

func (p *SysfsPin) writeControl(name string) error {
	f, err := os.OpenFile(filepath.Join(p.root, name), os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strconv.Itoa(p.number))
	return err
}

func (p *SysfsPin) setDirection(direction string) error {
	filePath := p.path("direction")
	f, err := os.OpenFile(filePath, os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	if _, err := f.WriteString(direction); err != nil {
		return fmt.Errorf("failed to write direction to %s: %w", filePath, err)
	}
	return nil
}
