package types

import (
	"time"

	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

// Op names a remote display operation
type Op string

const (
	OpPixelOn  Op = "pixel_on"
	OpPixelOff Op = "pixel_off"
	OpSetRaw   Op = "set_raw"
	OpSetChar  Op = "set_char"
	OpShift    Op = "shift"
	OpIcon     Op = "icon"
	OpClear    Op = "clear"
	OpFrame    Op = "frame"
	OpStatus   Op = "status"
	OpAnim     Op = "anim"
)

// Command is a single request sent to the display daemon
type Command struct {
	ID      uint64 `json:"id,omitempty"`
	Op      Op     `json:"op"`
	Row     int    `json:"row,omitempty"`
	Col     int    `json:"col,omitempty"`
	Char    string `json:"char,omitempty"`
	Text    string `json:"text,omitempty"`
	Icon    string `json:"icon,omitempty"`
	Anim    string `json:"anim,omitempty"`
	Frame   []int  `json:"frame,omitempty"`
	DelayMS int    `json:"delay_ms,omitempty"`
	FPS     int    `json:"fps,omitempty"`
	// Loop hands a shift to the marquee instead of scrolling once
	Loop bool `json:"loop,omitempty"`
}

// Reply answers a Command
type Reply struct {
	ID     uint64         `json:"id,omitempty"`
	OK     bool           `json:"ok"`
	Error  string         `json:"error,omitempty"`
	Code   Code           `json:"code,omitempty"`
	Frame  []int          `json:"frame,omitempty"`
	Status *DisplayStatus `json:"status,omitempty"`
}

// DisplayStatus is the daemon's view of the display
type DisplayStatus struct {
	Matrix      matrix.Status `json:"matrix"`
	Scrolling   bool          `json:"scrolling"`
	Message     string        `json:"message,omitempty"`
	Uptime      time.Duration `json:"uptime"`
	LastUpdated time.Time     `json:"last_updated"`
}

// DisplayConfig represents the configuration for the display
type DisplayConfig struct {
	Layout        string `json:"layout"`
	Font          string `json:"font"`
	RefreshUS     int    `json:"refresh_us"`
	ScrollDelayMS int    `json:"scroll_delay_ms"`
	Message       string `json:"message"`
}

// RefreshInterval returns the row interval; zero means the layout default
func (c DisplayConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshUS) * time.Microsecond
}

// ScrollDelay returns the per-column scroll delay
func (c DisplayConfig) ScrollDelay() time.Duration {
	return time.Duration(c.ScrollDelayMS) * time.Millisecond
}

// GPIOConfig represents the configuration for the row and column lines
type GPIOConfig struct {
	Driver    string   `json:"driver"`
	Chip      string   `json:"chip"`
	SysfsRoot string   `json:"sysfs_root,omitempty"`
	Rows      []string `json:"rows,omitempty"`
	Cols      []string `json:"cols,omitempty"`
}

// RemoteConfig represents the configuration for the control server
type RemoteConfig struct {
	Listen string `json:"listen"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// DiscoveryConfig represents the configuration for daemon discovery
type DiscoveryConfig struct {
	Port      int `json:"port"`
	TimeoutMS int `json:"timeout_ms"`
}
