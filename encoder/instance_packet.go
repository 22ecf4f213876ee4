package encoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/ffencoder/extradata"
	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/types"
	"github.com/xaionaro-go/xcontext"
)

func (inst *Instance) receivePacket(
	ctx context.Context,
	out *OutputPacket,
) error {
	if err := inst.cc.ReceivePacket(ctx, inst.packet); err != nil {
		return err
	}

	if !inst.haveFirstPacket {
		inst.extractMetadata(ctx)
		inst.haveFirstPacket = true
	}

	inst.handler.ProcessPacket(ctx, inst.packet, inst)

	data := inst.packet.Data()
	if len(data) > inst.config.PacketBufferSize {
		inst.stats.OversizedPackets.Inc()
		logger.Warnf(ctx, "the packet (%s) exceeds the configured packet buffer (%s)",
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(inst.config.PacketBufferSize)))
	}

	keyframe := inst.packet.IsKeyFrame()
	pictureType, hasPictureType := inst.packet.PictureType()
	priority, dropPriority := packetPriority(keyframe, pictureType, hasPictureType)
	*out = OutputPacket{
		Type:         types.MediaTypeVideo,
		PTS:          inst.packet.PTS(),
		DTS:          inst.packet.DTS(),
		Data:         data,
		Keyframe:     keyframe,
		Priority:     priority,
		DropPriority: dropPriority,
	}

	inst.stats.PacketsReceived.Inc()
	inst.stats.BytesReceived.Add(uint64(len(data)))
	if !inst.frames.Retrieved(ctx) {
		logger.Warnf(ctx, "received a packet (PTS %d) while no frame was in flight", out.PTS)
	}
	return nil
}

// extractMetadata copies the codec header and SEI out of the first packet.
func (inst *Instance) extractMetadata(ctx context.Context) {
	family := extradata.FamilyFromCodecID(inst.codec.IDName())
	if family != extradata.FamilyOther {
		header, sei, _ := extradata.Split(family, inst.packet.Data())
		inst.extraData = header
		inst.sei = sei
	}
	if len(inst.extraData) == 0 {
		inst.extraData = bytes.Clone(inst.cc.ExtraData())
	}
	logger.Debugf(ctx, "extradata: %d bytes, SEI: %d bytes (%s)", len(inst.extraData), len(inst.sei), family)
}

// Flush drains the encoder, passing every remaining packet to fn. The
// packet passed to fn is only valid during the call. The encoder accepts
// no more frames afterwards.
func (inst *Instance) Flush(
	ctx context.Context,
	fn func(ctx context.Context, pkt *OutputPacket) error,
) (_err error) {
	logger.Tracef(ctx, "Flush")
	defer func() { logger.Tracef(ctx, "/Flush: %v", _err) }()
	return gfx.DoR1(ctx, inst.graphics, func() error {
		return inst.drain(ctx, fn)
	})
}

func (inst *Instance) drain(
	ctx context.Context,
	fn func(ctx context.Context, pkt *OutputPacket) error,
) error {
	if inst.drained {
		return nil
	}
	inst.drained = true

	if err := inst.cc.SendFrame(ctx, nil); err != nil && !errors.Is(err, ErrEOF) {
		return ErrEncode{Err: fmt.Errorf("unable to start draining: %w", err)}
	}

	deadline := inst.now().Add(inst.config.FlushTimeout)
	var out OutputPacket
	count := 0
	for {
		err := inst.receivePacket(ctx, &out)
		switch {
		case err == nil:
			count++
			if fn != nil {
				if err := fn(ctx, &out); err != nil {
					return fmt.Errorf("unable to process a drained packet: %w", err)
				}
			}
			continue
		case errors.Is(err, ErrEOF):
			logger.Debugf(ctx, "drained %d packets", count)
			return nil
		case errors.Is(err, ErrAgain):
		default:
			return ErrEncode{Err: fmt.Errorf("unable to receive a packet while draining: %w", err)}
		}
		if !inst.now().Before(deadline) {
			return ErrEncode{Err: fmt.Errorf("the encoder was not drained within %s (%d packets so far)", inst.config.FlushTimeout, count)}
		}
		inst.sleep(inst.config.RetryInterval)
	}
}

// Close drains a buffering encoder and releases everything. The drained
// packets go to InstanceParams.OnFlushedPacket.
func (inst *Instance) Close(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Close")
	defer func() { logger.Tracef(ctx, "/Close: %v", _err) }()
	if inst.closed {
		return nil
	}
	inst.closed = true
	ctx = xcontext.DetachDone(ctx)

	var errs []error
	if inst.codec.Capabilities().Has(CapabilityDelay) && inst.cc.IsOpen() {
		err := gfx.DoR1(ctx, inst.graphics, func() error {
			return inst.drain(ctx, func(ctx context.Context, pkt *OutputPacket) error {
				if inst.onFlushedPacket != nil {
					inst.onFlushedPacket(ctx, pkt)
				}
				return nil
			})
		})
		if err != nil {
			logger.Errorf(ctx, "unable to drain the encoder: %v", err)
			errs = append(errs, err)
		}
	}

	logger.Flush(ctx)
	if err := inst.closer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("unable to release the encoder: %w", err))
	}
	return errors.Join(errs...)
}
