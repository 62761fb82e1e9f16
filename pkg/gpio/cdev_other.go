//go:build !linux

package gpio

// Line is unavailable off Linux.
type Line struct{}

func OpenLine(string, int, string) (*Line, error) { return nil, ErrUnsupported }

func (*Line) ConfigureOutput(bool) error { return ErrUnsupported }
func (*Line) Set(bool) error             { return ErrUnsupported }
func (*Line) Close() error               { return nil }
