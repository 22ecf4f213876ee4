package encoder

import (
	"context"
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/typing"
)

// Update applies s. Before the encoder is opened everything is applied;
// afterwards only what the handler can reconfigure on the fly.
func (inst *Instance) Update(
	ctx context.Context,
	s *settings.Settings,
) (_err error) {
	logger.Tracef(ctx, "Update")
	defer func() { logger.Tracef(ctx, "/Update: %v", _err) }()

	reconf, canReconfigure := inst.handler.SupportsReconfigure(inst.factory)
	isInitial := !inst.cc.IsOpen()
	if isInitial {
		reconf = Reconfigure{Threads: true, GPU: true, KeyFrames: true}
	}

	cfg := inst.cc.Config()

	if reconf.Threads {
		inst.updateThreads(ctx, cfg, s)
	}

	if reconf.GPU && inst.hardware == nil && inst.codec.Capabilities().Has(CapabilityHardware) {
		gpu := s.GetInt(settings.KeyGPU)
		if err := inst.cc.SetOption(ctx, "gpu", strconv.Itoa(gpu)); err != nil {
			logger.Debugf(ctx, "unable to select GPU %d: %v", gpu, err)
		}
	}

	if reconf.KeyFrames && inst.handler.HasKeyframeSupport(inst.factory) {
		if err := inst.updateKeyFrames(ctx, cfg, s); err != nil {
			return err
		}
	}

	if err := inst.cc.ApplyConfig(ctx); err != nil {
		return fmt.Errorf("unable to apply the codec configuration: %w", err)
	}

	if !isInitial && !canReconfigure {
		logger.Debugf(ctx, "the handler does not support reconfiguration; skipping the handler settings")
		return nil
	}

	if err := inst.handler.Update(ctx, s, inst); err != nil {
		return fmt.Errorf("the codec handler rejected the settings: %w", err)
	}
	applied := applyCustomOptions(ctx, inst.cc, s.GetString(settings.KeyCustomSettings))
	logger.Debugf(ctx, "applied %d custom options", applied)

	inst.handler.OverrideUpdate(ctx, inst, s)
	if err := inst.cc.ApplyConfig(ctx); err != nil {
		return fmt.Errorf("unable to apply the overridden codec configuration: %w", err)
	}

	inst.logOptions(ctx, s)
	return nil
}

func (inst *Instance) updateThreads(
	ctx context.Context,
	cfg *ContextConfig,
	s *settings.Settings,
) {
	caps := inst.codec.Capabilities()
	var threadType ThreadType
	if caps.Has(CapabilityFrameThreads) {
		threadType |= ThreadTypeFrame
	}
	if caps.Has(CapabilitySliceThreads) {
		threadType |= ThreadTypeSlice
	}

	cfg.ThreadType = threadType
	switch {
	case threadType == 0:
		cfg.ThreadCount = 1
	case s.GetInt(settings.KeyThreads) > 0:
		cfg.ThreadCount = s.GetInt(settings.KeyThreads)
	default:
		cfg.ThreadCount = inst.factory.HardwareConcurrency()
	}

	if inst.hardware != nil {
		inst.lag = 0
	} else {
		inst.lag = cfg.ThreadCount
	}
	cfg.Delay = inst.lag
	logger.Debugf(ctx, "threads: %d (%s), lag: %d", cfg.ThreadCount, cfg.ThreadType, inst.lag)
}

func (inst *Instance) updateKeyFrames(
	ctx context.Context,
	cfg *ContextConfig,
	s *settings.Settings,
) error {
	var gop int
	switch t := s.KeyFrameIntervalType(); t {
	case settings.KeyFrameIntervalTypeSeconds:
		fps := inst.videoInfo.FrameRate
		if !fps.IsValid() {
			return fmt.Errorf("unable to derive the keyframe interval: invalid frame rate %s", fps)
		}
		gop = fps.FramesIn(s.GetFloat64(settings.KeyKeyFramesSeconds))
	case settings.KeyFrameIntervalTypeFrames:
		gop = s.GetInt(settings.KeyKeyFramesFrames)
	default:
		return fmt.Errorf("unknown keyframe interval type: %v", t)
	}
	if gop < 0 {
		return fmt.Errorf("negative keyframe interval: %d", gop)
	}
	cfg.GOPSize = typing.Opt(gop)
	cfg.KeyintMin = typing.Opt(gop)
	logger.Debugf(ctx, "keyframe interval: %d frames", gop)
	return nil
}

func (inst *Instance) logOptions(ctx context.Context, s *settings.Settings) {
	cfg := inst.cc.Config()
	logger.Infof(ctx, "[%s] initializing codec '%s'", inst.factory.Info.ID, inst.codec.Name())
	logger.Infof(ctx, "  video: %dx%d %s (%s, %s) @ %s", cfg.Width, cfg.Height, cfg.PixelFormat, cfg.ColorSpace, cfg.ColorRange, cfg.FrameRate)
	if inst.hardware != nil {
		logger.Infof(ctx, "  hardware: %s, software format %s", inst.hardware.DeviceType(), cfg.SoftwarePixelFormat)
	}
	logger.Infof(ctx, "  threads: %d (%s)", cfg.ThreadCount, cfg.ThreadType)
	if cfg.GOPSize.IsSet() {
		logger.Infof(ctx, "  keyframe interval: %d", cfg.GOPSize.Get())
	}
	if custom := s.GetString(settings.KeyCustomSettings); custom != "" {
		logger.Infof(ctx, "  custom settings: %s", custom)
	}
	inst.handler.LogOptions(ctx, s, inst)
	if logger.IsTraceEnabled(ctx) {
		logger.Tracef(ctx, "resolved context configuration: %s", spew.Sdump(cfg))
	}
}
