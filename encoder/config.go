package encoder

import (
	"time"
)

// Config holds the engine policy knobs.
type Config struct {
	// PacketBufferSize is the size of the packet buffer preallocated per
	// instance; it bounds the largest single compressed frame.
	PacketBufferSize int

	// FrameDeadline bounds the send/receive loop of a single frame.
	FrameDeadline time.Duration

	// RetryInterval is the pause between two iterations of the
	// send/receive loop that made no progress.
	RetryInterval time.Duration

	// FlushTimeout bounds the drain on Flush and Close.
	FlushTimeout time.Duration

	// FramePoolRetention is how long released frames are kept once the
	// pool stopped shrinking back to empty.
	FramePoolRetention time.Duration

	// FrameAlignment is the row alignment of CPU frames.
	FrameAlignment int
}

func DefaultConfig() Config {
	return Config{
		PacketBufferSize:   8 * 1024 * 1024,
		FrameDeadline:      50 * time.Millisecond,
		RetryInterval:      time.Millisecond,
		FlushTimeout:       5 * time.Second,
		FramePoolRetention: time.Second,
		FrameAlignment:     32,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.PacketBufferSize <= 0 {
		cfg.PacketBufferSize = def.PacketBufferSize
	}
	if cfg.FrameDeadline <= 0 {
		cfg.FrameDeadline = def.FrameDeadline
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = def.FlushTimeout
	}
	if cfg.FramePoolRetention <= 0 {
		cfg.FramePoolRetention = def.FramePoolRetention
	}
	if cfg.FrameAlignment <= 0 {
		cfg.FrameAlignment = def.FrameAlignment
	}
	return cfg
}
