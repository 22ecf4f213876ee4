package encoder

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/logger"
)

// VideoFrame is a CPU frame of the host in the format InputFormat reports.
type VideoFrame struct {
	Planes  [][]byte
	Strides []int
	PTS     int64
}

// EncodeVideo encodes one CPU frame. The returned bool tells whether out
// was filled; a packet may lag behind its frame. The bool is also valid
// together with an error: a packet retrieved before the failure is still
// in out and is not retrieved again.
func (inst *Instance) EncodeVideo(
	ctx context.Context,
	in *VideoFrame,
	out *OutputPacket,
) (_ret bool, _err error) {
	logger.Tracef(ctx, "EncodeVideo(pts: %d)", in.PTS)
	defer func() { logger.Tracef(ctx, "/EncodeVideo(pts: %d): %v %v", in.PTS, _ret, _err) }()
	if inst.scaler == nil {
		return false, ErrConfiguration{Err: fmt.Errorf("CPU frames cannot be fed into a zero-copy encoder")}
	}

	h, frame, err := inst.frames.Acquire(ctx)
	if err != nil {
		return false, err
	}
	frame.SetPTS(in.PTS)
	cfg := inst.cc.Config()
	frame.SetColor(cfg.ColorSpace, cfg.ColorRange)

	if err := inst.convert(ctx, in, frame); err != nil {
		inst.frames.Release(ctx, h)
		inst.stats.ConversionFailures.Inc()
		logger.Errorf(ctx, "unable to convert the frame: %v", err)
		return false, ErrConversion{Err: err}
	}

	return inst.encodeFrame(ctx, h, frame, out)
}

func (inst *Instance) convert(
	ctx context.Context,
	in *VideoFrame,
	dst Frame,
) error {
	if inst.scaler.Source() == inst.scaler.Target() {
		return dst.WritePlanes(in.Planes, in.Strides)
	}
	return inst.scaler.Scale(ctx, in.Planes, in.Strides, dst)
}

// EncodeTexture encodes a shared GPU texture. lockKey is the key the host
// holds the texture with; the returned key is the one to acquire it next.
// On failure the returned key is lockKey. The returned bool follows the
// EncodeVideo semantics.
func (inst *Instance) EncodeTexture(
	ctx context.Context,
	handle uint64,
	pts int64,
	lockKey uint64,
	out *OutputPacket,
) (_nextKey uint64, _ret bool, _err error) {
	logger.Tracef(ctx, "EncodeTexture(handle: %d, pts: %d)", handle, pts)
	defer func() { logger.Tracef(ctx, "/EncodeTexture(handle: %d, pts: %d): %v %v", handle, pts, _ret, _err) }()
	if inst.hardware == nil {
		return lockKey, false, ErrConfiguration{Err: fmt.Errorf("textures can only be fed into a zero-copy encoder")}
	}
	if handle == gfx.InvalidHandle {
		logger.Errorf(ctx, "received an invalid texture handle")
		return lockKey, false, ErrConversion{Err: fmt.Errorf("invalid texture handle")}
	}

	h, frame, err := inst.frames.Acquire(ctx)
	if err != nil {
		return lockKey, false, err
	}

	gfx.Do(ctx, inst.graphics, func() {
		var nextKey uint64
		nextKey, err = inst.hardware.CopyFromTexture(ctx, handle, lockKey, frame)
		if err != nil {
			inst.frames.Release(ctx, h)
			inst.stats.ConversionFailures.Inc()
			_nextKey, _err = lockKey, ErrConversion{Err: fmt.Errorf("unable to copy texture %d: %w", handle, err)}
			return
		}
		_nextKey = nextKey
		frame.SetPTS(pts)
		_ret, _err = inst.encodeFrame(ctx, h, frame, out)
	})
	return
}

// EncodeAudio is not supported.
func (inst *Instance) EncodeAudio(
	ctx context.Context,
	samples [][]byte,
	pts int64,
	out *OutputPacket,
) (bool, error) {
	return false, ErrNotImplemented{Err: fmt.Errorf("audio encoding")}
}

// encodeFrame drives the send/receive protocol for one frame within
// Config.FrameDeadline. Once the pipeline is filled up to the lag depth,
// it also waits for a packet. The returned bool reports a packet in out
// even when an error is returned.
func (inst *Instance) encodeFrame(
	ctx context.Context,
	h FrameHandle,
	frame Frame,
	out *OutputPacket,
) (_ret bool, _err error) {
	logger.Tracef(ctx, "encodeFrame(#%d)", h)
	defer func() { logger.Tracef(ctx, "/encodeFrame(#%d): %v %v", h, _ret, _err) }()

	deadline := inst.now().Add(inst.config.FrameDeadline)
	shouldLag := inst.sentFrames >= uint64(inst.lag)

	var (
		sentFrame      bool
		receivedPacket bool
		receiveDone    bool
	)
	for {
		bothBusy := false
		if !sentFrame {
			err := inst.cc.SendFrame(ctx, frame)
			switch {
			case err == nil:
				sentFrame = true
				inst.sentFrames++
				inst.stats.FramesSubmitted.Inc()
				if err := inst.frames.Submit(h); err != nil {
					logger.Errorf(ctx, "unable to track the submitted frame: %v", err)
				}
			case errors.Is(err, ErrAgain):
				if receivedPacket {
					logger.Warnf(ctx, "the encoder refused a frame after producing a packet, skipping frame with PTS %d", frame.PTS())
					sentFrame = true
					inst.skipFrame(ctx, h)
				} else {
					bothBusy = true
				}
			case errors.Is(err, ErrEOF):
				logger.Errorf(ctx, "the encoder is already flushed, dropping frame with PTS %d", frame.PTS())
				sentFrame = true
				inst.skipFrame(ctx, h)
			default:
				inst.frames.Release(ctx, h)
				inst.stats.EncodeFailures.Inc()
				return receivedPacket, ErrEncode{Err: fmt.Errorf("unable to send the frame: %w", err)}
			}
		}

		if !receiveDone {
			err := inst.receivePacket(ctx, out)
			switch {
			case err == nil:
				receivedPacket = true
				receiveDone = true
			case errors.Is(err, ErrEOF):
				logger.Errorf(ctx, "the encoder reached the end of stream while encoding")
				receiveDone = true
			case errors.Is(err, ErrAgain):
				if bothBusy {
					if !sentFrame {
						inst.frames.Release(ctx, h)
					}
					inst.stats.EncodeFailures.Inc()
					logger.Errorf(ctx, "both sending and receiving are blocked, the encoder is broken")
					return false, ErrEncode{Err: ErrProtocolDeadlock{}}
				}
				if sentFrame {
					receiveDone = true
				}
			default:
				if !sentFrame {
					inst.frames.Release(ctx, h)
				}
				inst.stats.EncodeFailures.Inc()
				return false, ErrEncode{Err: fmt.Errorf("unable to receive a packet: %w", err)}
			}
		}

		if sentFrame && (receivedPacket || receiveDone || !shouldLag) {
			break
		}
		if !inst.now().Before(deadline) {
			break
		}
		inst.sleep(inst.config.RetryInterval)
	}

	if !sentFrame {
		inst.frames.Release(ctx, h)
		inst.stats.FramesTimedOut.Inc()
		logger.Errorf(ctx, "the encoder did not accept frame with PTS %d in time", frame.PTS())
		return receivedPacket, ErrEncode{Err: ErrFrameTimeout{Deadline: inst.config.FrameDeadline}}
	}
	return receivedPacket, nil
}

func (inst *Instance) skipFrame(ctx context.Context, h FrameHandle) {
	inst.frames.Release(ctx, h)
	inst.stats.FramesSkipped.Inc()
}
