package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fcurrie/ledmatrix-golang/internal/types"
	"github.com/fcurrie/ledmatrix-golang/pkg/gpio"
	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

// Environment keys that override the file configuration.
const (
	EnvLayout      = "LEDMATRIX_LAYOUT"
	EnvFont        = "LEDMATRIX_FONT"
	EnvDriver      = "LEDMATRIX_GPIO_DRIVER"
	EnvChip        = "LEDMATRIX_GPIO_CHIP"
	EnvRows        = "LEDMATRIX_ROWS"
	EnvCols        = "LEDMATRIX_COLS"
	EnvRefreshUS   = "LEDMATRIX_REFRESH_US"
	EnvScrollDelay = "LEDMATRIX_SCROLL_DELAY_MS"
	EnvListen      = "LEDMATRIX_LISTEN"
	EnvMessage     = "LEDMATRIX_MESSAGE"
	EnvLogLevel    = "LEDMATRIX_LOG_LEVEL"
	EnvLogDev      = "LEDMATRIX_LOG_DEV"
)

// Fonts accepted in DisplayConfig.Font.
const (
	FontBuiltin  = "builtin"
	FontTomThumb = "tomthumb"
)

var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration
type Config struct {
	Display types.DisplayConfig `json:"display"`
	GPIO    types.GPIOConfig    `json:"gpio"`
	Remote  types.RemoteConfig  `json:"remote"`
	Log     types.LogConfig     `json:"log"`
}

// LoadConfig loads the configuration from a file. Fields missing from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return config, nil
}

// Load reads path (defaults only when empty), applies the environment after
// loading envFiles into it, and validates the result.
func Load(path string, envFiles ...string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		var err error
		if config, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if err := LoadEnv(envFiles...); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadEnv loads the given dotenv files into the process environment. Missing
// files are skipped and variables already set are never overwritten.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Display: types.DisplayConfig{
			Layout:        matrix.Layout3x9.Name(),
			Font:          FontBuiltin,
			ScrollDelayMS: 100,
			Message:       "Hello World!",
		},
		GPIO: types.GPIOConfig{
			Driver: gpio.DriverCdev,
			Chip:   "gpiochip0",
		},
		Remote: types.RemoteConfig{
			Listen: "localhost:8080",
		},
		Log: types.LogConfig{
			Level: "info",
		},
	}
}

// ApplyEnv overrides fields from lookup, normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = splitList(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		*dst = n
		return nil
	}

	str(EnvLayout, &c.Display.Layout)
	str(EnvFont, &c.Display.Font)
	str(EnvMessage, &c.Display.Message)
	str(EnvDriver, &c.GPIO.Driver)
	str(EnvChip, &c.GPIO.Chip)
	list(EnvRows, &c.GPIO.Rows)
	list(EnvCols, &c.GPIO.Cols)
	str(EnvListen, &c.Remote.Listen)
	str(EnvLogLevel, &c.Log.Level)
	if err := num(EnvRefreshUS, &c.Display.RefreshUS); err != nil {
		return err
	}
	if err := num(EnvScrollDelay, &c.Display.ScrollDelayMS); err != nil {
		return err
	}
	if v, ok := lookup(EnvLogDev); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvLogDev, err)
		}
		c.Log.Development = b
	}
	return nil
}

// Layout resolves the configured layout name.
func (c *Config) Layout() (matrix.Layout, error) {
	return matrix.LayoutByName(c.Display.Layout)
}

// Pins returns the configured row and column line names, falling back to the
// board wiring for the layout when none are given.
func (c *Config) Pins() (rows, cols []string, err error) {
	l, err := c.Layout()
	if err != nil {
		return nil, nil, err
	}
	rows, cols = c.GPIO.Rows, c.GPIO.Cols
	if len(rows) == 0 && len(cols) == 0 {
		rows, cols = DefaultPins(l)
	}
	return rows, cols, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	l, err := c.Layout()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	rows, cols, err := c.Pins()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(rows) != l.Rows() || len(cols) != l.Cols() {
		return fmt.Errorf("%w: layout %s needs %d rows and %d cols, got %d and %d",
			ErrInvalid, l.Name(), l.Rows(), l.Cols(), len(rows), len(cols))
	}
	switch c.GPIO.Driver {
	case gpio.DriverCdev, gpio.DriverSysfs, gpio.DriverPeriph, gpio.DriverFake:
	default:
		return fmt.Errorf("%w: unknown gpio driver %q", ErrInvalid, c.GPIO.Driver)
	}
	switch strings.ToLower(c.Display.Font) {
	case "", FontBuiltin, FontTomThumb:
	default:
		return fmt.Errorf("%w: unknown font %q", ErrInvalid, c.Display.Font)
	}
	if c.Display.RefreshUS < 0 {
		return fmt.Errorf("%w: refresh interval must not be negative", ErrInvalid)
	}
	if c.Display.ScrollDelayMS <= 0 {
		return fmt.Errorf("%w: scroll delay must be positive", ErrInvalid)
	}
	return nil
}

// DefaultPins returns the micro:bit line numbers for l: GPIO port 0 offsets
// on v1, with P1.05 counted as offset 37 on v2.
func DefaultPins(l matrix.Layout) (rows, cols []string) {
	if l.Rows() == 3 {
		return []string{"13", "14", "15"},
			[]string{"4", "5", "6", "7", "8", "9", "10", "11", "12"}
	}
	return []string{"21", "22", "15", "24", "19"},
		[]string{"28", "11", "31", "37", "30"}
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
