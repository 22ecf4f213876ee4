// Package hostinfo answers questions about the machine we run on.
package hostinfo

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/xaionaro-go/ffencoder/logger"
)

// LogicalCPUs returns the amount of hardware threads, never less than 1.
func LogicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		logger.Debugf(context.Background(), "unable to count the logical CPUs (%v), falling back to GOMAXPROCS logic", err)
		n = runtime.NumCPU()
	}
	if n <= 0 {
		n = 1
	}
	return n
}
