package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fcurrie/ledmatrix-golang/internal/anim"
	"github.com/fcurrie/ledmatrix-golang/internal/icon"
	"github.com/fcurrie/ledmatrix-golang/internal/remote"
	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

var errUsage = errors.New("usage")

const help = `commands:
  on <row> <col>           light a pixel
  off <row> <col>          clear a pixel
  raw <25 digits>          write a frame, row-major, e.g. raw 10001...
  char <c>                 show one character
  shift <text> [delay_ms]  scroll text once
  loop <text> [delay_ms]   scroll text until replaced
  icon <name>              show an icon (%s)
  anim <name> [fps]        play an animation (%s)
  clear                    blank the display
  frame                    print the current frame
  status                   print daemon status
  quit
`

type shell struct {
	client  *remote.Client
	out     io.Writer
	timeout time.Duration
}

func (sh *shell) exec(ctx context.Context, args []string) error {
	if sh.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sh.timeout)
		defer cancel()
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "help", "?":
		fmt.Fprintf(sh.out, help, strings.Join(icon.Names(), ", "), strings.Join(anim.Names(), ", "))
		return nil
	case "on", "off":
		row, col, err := coords(args)
		if err != nil {
			return err
		}
		if cmd == "on" {
			return sh.client.PixelOn(ctx, row, col)
		}
		return sh.client.PixelOff(ctx, row, col)
	case "raw":
		buf, err := parseFrame(strings.Join(args, ""))
		if err != nil {
			return err
		}
		return sh.client.SetRaw(ctx, buf)
	case "char":
		if len(args) != 1 || len(args[0]) != 1 {
			return fmt.Errorf("%w: char <c>", errUsage)
		}
		return sh.client.SetChar(ctx, args[0][0])
	case "shift", "loop":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("%w: %s <text> [delay_ms]", errUsage, cmd)
		}
		var delay time.Duration
		if len(args) == 2 {
			ms, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: bad delay %q", errUsage, args[1])
			}
			delay = time.Duration(ms) * time.Millisecond
		}
		return sh.client.Shift(ctx, args[0], delay, cmd == "loop")
	case "icon":
		if len(args) != 1 {
			return fmt.Errorf("%w: icon <name>", errUsage)
		}
		return sh.client.Icon(ctx, args[0])
	case "anim":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("%w: anim <name> [fps]", errUsage)
		}
		fps := 0
		if len(args) == 2 {
			var err error
			if fps, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("%w: bad fps %q", errUsage, args[1])
			}
		}
		return sh.client.Anim(ctx, args[0], fps)
	case "clear":
		return sh.client.Clear(ctx)
	case "frame":
		f, err := sh.client.Frame(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(sh.out, formatFrame(f))
		return nil
	case "status":
		st, err := sh.client.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "layout %s (%dx%d) interval %v\n", st.Matrix.Layout, st.Matrix.Rows, st.Matrix.Cols, st.Matrix.Interval)
		fmt.Fprintf(sh.out, "refreshes %d faults %d cursor %d\n", st.Matrix.Refreshes, st.Matrix.Faults, st.Matrix.Cursor)
		fmt.Fprintf(sh.out, "scrolling %v message %q uptime %v\n", st.Scrolling, st.Message, st.Uptime.Round(time.Second))
		return nil
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func coords(args []string) (row, col int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: on|off <row> <col>", errUsage)
	}
	if row, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: bad row %q", errUsage, args[0])
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: bad col %q", errUsage, args[1])
	}
	return row, col, nil
}

// parseFrame accepts 25 of '0'/'1' (or '.'/'#'), ignoring '/' row separators.
func parseFrame(s string) ([matrix.Pixels]byte, error) {
	var buf [matrix.Pixels]byte
	s = strings.ReplaceAll(s, "/", "")
	if len(s) != matrix.Pixels {
		return buf, fmt.Errorf("%w: raw needs %d cells, got %d", errUsage, matrix.Pixels, len(s))
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1', '#':
			buf[i] = 1
		case '0', '.':
		default:
			return buf, fmt.Errorf("%w: bad cell %q", errUsage, s[i])
		}
	}
	return buf, nil
}

func formatFrame(f [matrix.Pixels]byte) string {
	var sb strings.Builder
	for r := 0; r < matrix.Height; r++ {
		for c := 0; c < matrix.Width; c++ {
			if f[r*matrix.Width+c] != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
