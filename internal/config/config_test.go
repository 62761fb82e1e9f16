package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	rows, cols, err := cfg.Pins()
	if err != nil {
		t.Fatalf("Pins() error = %v", err)
	}
	if len(rows) != 3 || len(cols) != 9 {
		t.Errorf("Pins() = %d rows %d cols, want 3 and 9", len(rows), len(cols))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults"},
		{name: "5x5 board pins", mutate: func(c *Config) { c.Display.Layout = "v2" }},
		{name: "unknown layout", mutate: func(c *Config) { c.Display.Layout = "8x8" }, wantErr: true},
		{
			name: "row count mismatch",
			mutate: func(c *Config) {
				c.GPIO.Rows = []string{"1", "2"}
				c.GPIO.Cols = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
			},
			wantErr: true,
		},
		{name: "unknown driver", mutate: func(c *Config) { c.GPIO.Driver = "spi" }, wantErr: true},
		{name: "tinyfont", mutate: func(c *Config) { c.Display.Font = "TomThumb" }},
		{name: "unknown font", mutate: func(c *Config) { c.Display.Font = "comic" }, wantErr: true},
		{name: "negative refresh", mutate: func(c *Config) { c.Display.RefreshUS = -1 }, wantErr: true},
		{name: "zero scroll delay", mutate: func(c *Config) { c.Display.ScrollDelayMS = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want wrapped %v", err, ErrInvalid)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env, err := godotenv.Unmarshal(`
LEDMATRIX_LAYOUT=5x5
LEDMATRIX_GPIO_DRIVER=fake
LEDMATRIX_ROWS=a, b,c,d,e
LEDMATRIX_COLS="f,g,h,i,j"
LEDMATRIX_REFRESH_US=2000
LEDMATRIX_SCROLL_DELAY_MS=40
LEDMATRIX_MESSAGE='RIOT'
LEDMATRIX_LOG_DEV=true
`)
	if err != nil {
		t.Fatal(err)
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Display.Layout != "5x5" || cfg.GPIO.Driver != "fake" {
		t.Errorf("layout/driver = %s/%s, want 5x5/fake", cfg.Display.Layout, cfg.GPIO.Driver)
	}
	if len(cfg.GPIO.Rows) != 5 || cfg.GPIO.Rows[1] != "b" || cfg.GPIO.Cols[4] != "j" {
		t.Errorf("rows/cols = %v/%v", cfg.GPIO.Rows, cfg.GPIO.Cols)
	}
	if cfg.Display.RefreshUS != 2000 || cfg.Display.ScrollDelayMS != 40 {
		t.Errorf("timings = %d/%d, want 2000/40", cfg.Display.RefreshUS, cfg.Display.ScrollDelayMS)
	}
	if cfg.Display.Message != "RIOT" || !cfg.Log.Development {
		t.Errorf("message/dev = %q/%v", cfg.Display.Message, cfg.Log.Development)
	}
	if cfg.Remote.Listen != DefaultConfig().Remote.Listen {
		t.Errorf("unset key changed listen to %q", cfg.Remote.Listen)
	}
}

func TestApplyEnvBadNumber(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == EnvRefreshUS {
			return "fast", true
		}
		return "", false
	}
	if err := DefaultConfig().ApplyEnv(lookup); !errors.Is(err, ErrInvalid) {
		t.Errorf("ApplyEnv() error = %v, want %v", err, ErrInvalid)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"display": {"layout": "5x5", "message": "hi"}, "gpio": {"driver": "sysfs"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Display.Layout != "5x5" || cfg.Display.Message != "hi" || cfg.GPIO.Driver != "sysfs" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
	if cfg.Display.ScrollDelayMS != 100 || cfg.GPIO.Chip != "gpiochip0" {
		t.Error("LoadConfig() dropped defaults for fields missing from the file")
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadConfig() of a missing file did not return error")
	}
}

func TestLoadWithEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("LEDMATRIX_GPIO_DRIVER=fake\nLEDMATRIX_LISTEN=:9999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvLayout, "v2")
	// godotenv sets keys it loads; register them so they are restored.
	t.Setenv(EnvDriver, "")
	t.Setenv(EnvListen, "")
	os.Unsetenv(EnvDriver)
	os.Unsetenv(EnvListen)

	cfg, err := Load("", filepath.Join(dir, ".env.local"), envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Display.Layout != "v2" || cfg.GPIO.Driver != "fake" || cfg.Remote.Listen != ":9999" {
		t.Errorf("Load() = %+v", cfg)
	}
}
