package encoder

import (
	"time"

	"github.com/xaionaro-go/ffencoder/types"
)

type Option interface {
	encoderOption()
}

type OptionCommons struct{}

func (OptionCommons) encoderOption() {}

type Options []Option

func OptionLatest[T Option](s Options) (ret T, ok bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if v, ok := s[i].(T); ok {
			return v, true
		}
	}
	return
}

// OptionConfig overrides the engine policy knobs.
type OptionConfig struct {
	OptionCommons
	Config Config
}

// OptionHardwareConcurrency overrides how many threads the host can run
// in parallel; used as the default thread count.
type OptionHardwareConcurrency struct {
	OptionCommons
	Threads int
}

// OptionDebugHandler is used for codecs without a registered handler.
type OptionDebugHandler struct {
	OptionCommons
	Handler Handler
}

// OptionClock replaces the wall clock and sleep, for tests.
type OptionClock struct {
	OptionCommons
	Now   func() time.Time
	Sleep func(time.Duration)
}

// OptionMediaTypes restricts which codecs are registered.
type OptionMediaTypes struct {
	OptionCommons
	MediaTypes []types.MediaType
}
