package encoder

import (
	"github.com/xaionaro-go/ffencoder/internal/hostinfo"
)

func defaultHardwareConcurrency() int {
	return hostinfo.LogicalCPUs()
}
