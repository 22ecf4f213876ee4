package encoder

import (
	"go.uber.org/atomic"
)

// Statistics are the counters of one Instance; safe to read concurrently
// with encoding.
type Statistics struct {
	FramesSubmitted    atomic.Uint64
	FramesSkipped      atomic.Uint64
	FramesTimedOut     atomic.Uint64
	ConversionFailures atomic.Uint64
	EncodeFailures     atomic.Uint64
	PacketsReceived    atomic.Uint64
	BytesReceived      atomic.Uint64
	OversizedPackets   atomic.Uint64
}

// StatisticsSnapshot is a plain copy of Statistics.
type StatisticsSnapshot struct {
	FramesSubmitted    uint64 `yaml:"frames_submitted"`
	FramesSkipped      uint64 `yaml:"frames_skipped"`
	FramesTimedOut     uint64 `yaml:"frames_timed_out"`
	ConversionFailures uint64 `yaml:"conversion_failures"`
	EncodeFailures     uint64 `yaml:"encode_failures"`
	PacketsReceived    uint64 `yaml:"packets_received"`
	BytesReceived      uint64 `yaml:"bytes_received"`
	OversizedPackets   uint64 `yaml:"oversized_packets"`
}

func (s *Statistics) Snapshot() StatisticsSnapshot {
	return StatisticsSnapshot{
		FramesSubmitted:    s.FramesSubmitted.Load(),
		FramesSkipped:      s.FramesSkipped.Load(),
		FramesTimedOut:     s.FramesTimedOut.Load(),
		ConversionFailures: s.ConversionFailures.Load(),
		EncodeFailures:     s.EncodeFailures.Load(),
		PacketsReceived:    s.PacketsReceived.Load(),
		BytesReceived:      s.BytesReceived.Load(),
		OversizedPackets:   s.OversizedPackets.Load(),
	}
}
