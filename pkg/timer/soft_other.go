//go:build !linux

package timer

import (
	"runtime"

	"go.uber.org/zap"
)

func prepareIRQThread(_ *zap.SugaredLogger) {
	runtime.LockOSThread()
}
