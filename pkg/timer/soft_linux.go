//go:build linux

package timer

import (
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// irqNice is the nice value requested for the interrupt thread.
const irqNice = -10

// prepareIRQThread pins the interrupt goroutine to its own thread and asks the
// kernel to favour it. Raising priority needs CAP_SYS_NICE; without it the
// thread keeps the default nice value.
func prepareIRQThread(log *zap.SugaredLogger) {
	runtime.LockOSThread()
	if err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), irqNice); err != nil {
		log.Debugw("timer thread priority unchanged", "nice", irqNice, "error", err)
	}
}
