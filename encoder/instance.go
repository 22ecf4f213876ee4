package encoder

import (
	"context"
	"fmt"
	"time"

	"github.com/asticode/go-astikit"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
	"github.com/xaionaro-go/xcontext"
)

// HardwareInputPixelFormat is the only host format the zero-copy path accepts.
const HardwareInputPixelFormat = types.PixelFormatNV12

// VideoInfo describes the video the host feeds into an Instance.
type VideoInfo struct {
	Width      int
	Height     int
	Format     types.PixelFormat
	ColorSpace types.ColorSpace
	ColorRange types.ColorRange
	FrameRate  types.Rational

	// ScalingEnabled means the host rescales its output for this encoder.
	ScalingEnabled bool
}

type InstanceParams struct {
	// Settings default to the factory defaults.
	Settings *settings.Settings
	Video    VideoInfo
	// Hardware selects the zero-copy texture path.
	Hardware bool
	Graphics gfx.Context

	// OnFlushedPacket receives the packets drained on Close.
	OnFlushedPacket func(ctx context.Context, pkt *OutputPacket)
}

// Instance is one running encoder. It is not safe for concurrent use:
// the host must serialize calls.
type Instance struct {
	ID uuid.UUID

	factory  *Factory
	backend  Backend
	codec    Codec
	handler  Handler
	config   Config
	graphics gfx.Context

	cc       CodecContext
	hardware Hardware
	scaler   Scaler
	packet   Packet
	frames   *framePool

	videoInfo   VideoInfo
	inputFormat types.PixelFormat

	lag             int
	sentFrames      uint64
	drained         bool
	haveFirstPacket bool
	extraData       []byte
	sei             []byte

	stats           Statistics
	closer          *astikit.Closer
	closed          bool
	onFlushedPacket func(ctx context.Context, pkt *OutputPacket)

	now   func() time.Time
	sleep func(time.Duration)
}

// NewInstance creates and opens an encoder.
func (f *Factory) NewInstance(
	ctx context.Context,
	params InstanceParams,
) (_ret *Instance, _err error) {
	if f.codec.MediaType() == types.MediaTypeAudio {
		return nil, ErrNotImplemented{Err: fmt.Errorf("audio encoding (codec '%s')", f.codec.Name())}
	}

	inst := &Instance{
		ID:        uuid.New(),
		factory:   f,
		backend:   f.backend,
		codec:     f.codec,
		handler:   f.handler,
		config:    f.config,
		graphics:  params.Graphics,
		videoInfo: params.Video,
		closer:    astikit.NewCloser(),
		now:       f.now,
		sleep:     f.sleep,

		onFlushedPacket: params.OnFlushedPacket,
	}
	ctx = inst.withLogFields(ctx, params.Hardware)
	logger.Tracef(ctx, "NewInstance")
	defer func() { logger.Tracef(ctx, "/NewInstance: %v", _err) }()
	defer func() {
		if _err != nil {
			if err := inst.closer.Close(); err != nil {
				logger.Errorf(ctx, "unable to release the partially initialized encoder: %v", err)
			}
		}
	}()

	s := params.Settings
	if s == nil {
		s = f.Defaults(ctx)
	} else {
		f.ApplyDefaults(ctx, s)
	}

	if params.Hardware {
		if err := inst.checkHardwareCompatibility(s); err != nil {
			return nil, err
		}
		hw, err := f.backend.NewHardware(ctx, params.Graphics)
		if err != nil {
			return nil, ErrAccelerationUnavailable{Err: err}
		}
		inst.hardware = hw
		inst.closer.Add(func() {
			if err := hw.Close(xcontext.DetachDone(ctx)); err != nil {
				logger.Errorf(ctx, "unable to close the hardware device: %v", err)
			}
		})
	}

	cc, err := f.backend.NewContext(ctx, f.codec)
	if err != nil {
		return nil, ErrContextAllocation{Err: err}
	}
	inst.cc = cc
	inst.closer.Add(func() {
		if err := cc.Close(xcontext.DetachDone(ctx)); err != nil {
			logger.Errorf(ctx, "unable to close the codec context: %v", err)
		}
	})

	pkt, err := f.backend.NewPacket(ctx, inst.config.PacketBufferSize)
	if err != nil {
		return nil, ErrContextAllocation{Err: fmt.Errorf("unable to allocate a %s packet: %w", humanize.IBytes(uint64(inst.config.PacketBufferSize)), err)}
	}
	inst.packet = pkt
	inst.closer.Add(pkt.Free)

	if inst.hardware != nil {
		err = inst.initHardware(ctx)
	} else {
		err = inst.initSoftware(ctx, s)
	}
	if err != nil {
		return nil, err
	}

	if err := inst.Update(ctx, s); err != nil {
		return nil, ErrConfiguration{Err: err}
	}

	err = gfx.DoR1(ctx, inst.graphics, func() error {
		return cc.Open(ctx)
	})
	if err != nil {
		return nil, ErrOpen{Err: err}
	}

	inst.frames = newFramePool(ctx, inst.allocFrame, inst.config.FramePoolRetention, inst.now)
	inst.closer.Add(inst.frames.Close)

	logger.Infof(ctx, "encoder '%s' opened (%dx%d %s, lag %d)",
		f.codec.Name(), inst.videoInfo.Width, inst.videoInfo.Height, cc.Config().PixelFormat, inst.lag)
	return inst, nil
}

func (inst *Instance) withLogFields(ctx context.Context, isHardware bool) context.Context {
	ctx = logger.WithField(ctx, "encoder_id", inst.ID.String())
	ctx = logger.WithField(ctx, "codec", inst.codec.Name())
	ctx = logger.WithField(ctx, "hardware", isHardware)
	return ctx
}

func (inst *Instance) checkHardwareCompatibility(s *settings.Settings) error {
	if gpu := s.GetInt(settings.KeyGPU); gpu != -1 {
		return ErrConfiguration{Err: fmt.Errorf("a manual GPU selection (%d) cannot be used with the zero-copy path", gpu)}
	}
	if inst.videoInfo.ScalingEnabled {
		return ErrConfiguration{Err: fmt.Errorf("output scaling cannot be used with the zero-copy path")}
	}
	if inst.videoInfo.Format != HardwareInputPixelFormat {
		return ErrConfiguration{Err: fmt.Errorf("the zero-copy path requires %s input, got %s", HardwareInputPixelFormat, inst.videoInfo.Format)}
	}
	return nil
}

func (inst *Instance) initSoftware(
	ctx context.Context,
	s *settings.Settings,
) (_err error) {
	logger.Tracef(ctx, "initSoftware")
	defer func() { logger.Tracef(ctx, "/initSoftware: %v", _err) }()

	source := inst.videoInfo.Format
	target := source
	if formats := inst.codec.PixelFormats(); len(formats) > 0 {
		target = types.LeastLossyPixelFormat(source, formats)
	}
	inst.handler.OverrideColorFormat(ctx, &target, s, inst.codec)
	if target != source {
		logger.Debugf(ctx, "converting %s to %s", source, target)
	}

	cfg := inst.cc.Config()
	inst.applyVideoInfo(cfg)
	cfg.PixelFormat = target

	scaler, err := inst.backend.NewScaler(ctx,
		ScalerConfig{
			Width:      inst.videoInfo.Width,
			Height:     inst.videoInfo.Height,
			Format:     source,
			ColorSpace: inst.videoInfo.ColorSpace,
			ColorRange: inst.videoInfo.ColorRange,
		},
		ScalerConfig{
			Width:      cfg.Width,
			Height:     cfg.Height,
			Format:     target,
			ColorSpace: cfg.ColorSpace,
			ColorRange: cfg.ColorRange,
		},
	)
	if err != nil {
		return ErrConfiguration{Err: fmt.Errorf("unable to initialize the converter from %s to %s: %w", source, target, err)}
	}
	inst.scaler = scaler
	inst.closer.Add(func() {
		if err := scaler.Close(); err != nil {
			logger.Errorf(ctx, "unable to close the converter: %v", err)
		}
	})
	inst.inputFormat = scaler.Source().Format
	return nil
}

func (inst *Instance) initHardware(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "initHardware")
	defer func() { logger.Tracef(ctx, "/initHardware: %v", _err) }()

	cfg := inst.cc.Config()
	inst.applyVideoInfo(cfg)
	cfg.PixelFormat = inst.hardware.PixelFormat()
	cfg.SoftwarePixelFormat = inst.videoInfo.Format
	inst.inputFormat = inst.videoInfo.Format

	err := gfx.DoR1(ctx, inst.graphics, func() error {
		return inst.hardware.Setup(ctx, inst.cc)
	})
	if err != nil {
		return ErrAccelerationUnavailable{Err: fmt.Errorf("unable to set up the %s frames context: %w", inst.hardware.DeviceType(), err)}
	}
	return nil
}

func (inst *Instance) applyVideoInfo(cfg *ContextConfig) {
	cfg.Width = inst.videoInfo.Width
	cfg.Height = inst.videoInfo.Height
	cfg.ColorSpace = inst.videoInfo.ColorSpace
	cfg.ColorRange = inst.videoInfo.ColorRange
	cfg.FrameRate = inst.videoInfo.FrameRate
	if inst.videoInfo.FrameRate.IsValid() {
		cfg.TimeBase = inst.videoInfo.FrameRate.Reverse()
	}
}

func (inst *Instance) allocFrame(ctx context.Context) (Frame, error) {
	if inst.hardware != nil {
		return gfx.DoR2(ctx, inst.graphics, func() (Frame, error) {
			return inst.hardware.NewFrame(ctx, inst.cc)
		})
	}
	return inst.cc.NewFrame(ctx, inst.config.FrameAlignment)
}

func (inst *Instance) String() string {
	return fmt.Sprintf("%s[%s]", inst.codec.Name(), inst.ID)
}

func (inst *Instance) Factory() *Factory {
	return inst.factory
}

func (inst *Instance) Codec() Codec {
	return inst.codec
}

// CodecContext is meant for handlers, which configure the context directly.
func (inst *Instance) CodecContext() CodecContext {
	return inst.cc
}

func (inst *Instance) IsHardware() bool {
	return inst.hardware != nil
}

// VideoInfo returns the video description the instance was created with.
func (inst *Instance) VideoInfo() VideoInfo {
	return inst.videoInfo
}

// InputFormat is the pixel format the host must feed EncodeVideo with.
func (inst *Instance) InputFormat() types.PixelFormat {
	return inst.inputFormat
}

// Lag is the amount of frames submitted before a packet is awaited.
func (inst *Instance) Lag() int {
	return inst.lag
}

func (inst *Instance) Stats() *Statistics {
	return &inst.stats
}

// ExtraData returns the codec header; false until the first packet
// arrived or if the codec reported none.
func (inst *Instance) ExtraData() ([]byte, bool) {
	if !inst.haveFirstPacket || len(inst.extraData) == 0 {
		return nil, false
	}
	return inst.extraData, true
}

// SEI returns the supplemental enhancement information split off the
// first packet; false until the first packet arrived or if there was none.
func (inst *Instance) SEI() ([]byte, bool) {
	if !inst.haveFirstPacket || len(inst.sei) == 0 {
		return nil, false
	}
	return inst.sei, true
}

func (inst *Instance) Properties(ctx context.Context) *settings.Properties {
	return inst.factory.Properties(ctx, inst)
}
