package encoder

import (
	"context"
	"fmt"
	"time"

	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
)

const (
	FactoryIDPrefix   = "streamfx-"
	FactoryNameSuffix = " (via FFmpeg)"
)

type FactoryCapabilities uint

const (
	// FactoryCapabilityPassTexture means instances accept shared GPU textures.
	FactoryCapabilityPassTexture = FactoryCapabilities(1 << iota)
	// FactoryCapabilityDeprecated hides codecs nobody wrote a handler for.
	FactoryCapabilityDeprecated
)

func (c FactoryCapabilities) Has(flag FactoryCapabilities) bool {
	return c&flag == flag
}

// FactoryInfo is how a Factory presents itself to a host.
type FactoryInfo struct {
	ID           string
	Name         string
	CodecName    string
	MediaType    types.MediaType
	Capabilities FactoryCapabilities
	// Proxies are legacy ids that resolve to this factory.
	Proxies []string
}

// Factory creates Instances of one codec.
type Factory struct {
	Info FactoryInfo

	backend             Backend
	codec               Codec
	handler             Handler
	config              Config
	hardwareConcurrency int
	now                 func() time.Time
	sleep               func(time.Duration)
}

func NewFactory(
	ctx context.Context,
	backend Backend,
	codec Codec,
	handler Handler,
	opts ...Option,
) *Factory {
	if handler == nil {
		handler = NopHandler{}
	}
	f := &Factory{
		backend:             backend,
		codec:               codec,
		handler:             handler,
		config:              DefaultConfig(),
		hardwareConcurrency: defaultHardwareConcurrency(),
		now:                 time.Now,
		sleep:               time.Sleep,
	}
	if opt, ok := OptionLatest[OptionConfig](opts); ok {
		f.config = opt.Config.withDefaults()
	}
	if opt, ok := OptionLatest[OptionHardwareConcurrency](opts); ok && opt.Threads > 0 {
		f.hardwareConcurrency = opt.Threads
	}
	if opt, ok := OptionLatest[OptionClock](opts); ok {
		if opt.Now != nil {
			f.now = opt.Now
		}
		if opt.Sleep != nil {
			f.sleep = opt.Sleep
		}
	}

	name := codec.Name()
	if long := codec.LongName(); long != "" && long != name {
		name = fmt.Sprintf("%s (%s)", long, codec.Name())
	}
	f.Info = FactoryInfo{
		ID:        FactoryIDPrefix + codec.Name(),
		Name:      name + FactoryNameSuffix,
		CodecName: codec.IDName(),
		MediaType: codec.MediaType(),
	}
	if f.Info.CodecName == "" {
		f.Info.CodecName = codec.Name()
	}

	if _, isNop := handler.(NopHandler); isNop {
		f.Info.Capabilities |= FactoryCapabilityDeprecated
	} else {
		handler.AdjustInfo(ctx, f, &f.Info)
		if handler.IsHardwareEncoder(f) {
			f.Info.Capabilities |= FactoryCapabilityPassTexture
		}
	}

	for _, proxy := range []string{
		"streamfx--" + codec.Name(),
		"StreamFX-" + codec.Name(),
		"obs-ffmpeg-encoder_" + codec.Name(),
	} {
		f.Info.Proxies = append(f.Info.Proxies, proxy)
		if f.Info.Capabilities.Has(FactoryCapabilityPassTexture) {
			f.Info.Proxies = append(f.Info.Proxies, proxy+"_sw")
		}
	}
	return f
}

func (f *Factory) String() string {
	return f.Info.ID
}

func (f *Factory) Codec() Codec {
	return f.codec
}

func (f *Factory) Handler() Handler {
	return f.handler
}

func (f *Factory) Backend() Backend {
	return f.backend
}

func (f *Factory) Config() Config {
	return f.config
}

func (f *Factory) HardwareConcurrency() int {
	return f.hardwareConcurrency
}

// Matches reports whether id is the factory id or one of its proxies.
func (f *Factory) Matches(id string) bool {
	if id == f.Info.ID {
		return true
	}
	for _, proxy := range f.Info.Proxies {
		if proxy == id {
			return true
		}
	}
	return false
}

// ApplyDefaults registers default values of every key this factory uses.
func (f *Factory) ApplyDefaults(ctx context.Context, s *settings.Settings) {
	f.handler.GetDefaults(ctx, s, f.codec, f.handler.IsHardwareEncoder(f))

	if !f.codec.Capabilities().Has(CapabilityIntraOnly) {
		s.SetDefault(settings.KeyKeyFramesIntervalType, int(settings.KeyFrameIntervalTypeSeconds))
		s.SetDefault(settings.KeyKeyFramesSeconds, 2.0)
		s.SetDefault(settings.KeyKeyFramesFrames, 300)
	}

	s.SetDefault(settings.KeyCustomSettings, "")
	s.SetDefault(settings.KeyThreads, 0)
	s.SetDefault(settings.KeyGPU, -1)
}

func (f *Factory) Defaults(ctx context.Context) *settings.Settings {
	s := settings.New()
	f.ApplyDefaults(ctx, s)
	return s
}

func (f *Factory) Migrate(ctx context.Context, s *settings.Settings, version uint64) {
	f.handler.Migrate(ctx, s, version, f.codec)
}

func (f *Factory) HelpURL() string {
	return f.handler.HelpURL(f.codec)
}

// Properties builds the property schema; inst is nil when no encoder is
// running, otherwise fields that cannot change while encoding are disabled.
func (f *Factory) Properties(ctx context.Context, inst *Instance) *settings.Properties {
	props := settings.NewProperties()
	isHardware := f.handler.IsHardwareEncoder(f)

	f.handler.GetProperties(ctx, props, f.codec, inst, isHardware)

	if f.handler.HasKeyframeSupport(f) {
		grp := props.AddGroup("KeyFrames", "Key Frames")
		intervalType := grp.AddList(settings.KeyKeyFramesIntervalType, "Interval Type",
			settings.ListItem{Name: "Seconds", Value: int(settings.KeyFrameIntervalTypeSeconds)},
			settings.ListItem{Name: "Frames", Value: int(settings.KeyFrameIntervalTypeFrames)},
		)
		intervalType.Modified = modifiedKeyFrames
		grp.AddFloat(settings.KeyKeyFramesSeconds, "Interval (seconds)", 0, 32767, 0.01)
		grp.AddInt(settings.KeyKeyFramesFrames, "Interval (frames)", 0, 2147483647, 1)
	}

	grp := props.AddGroup("FFmpeg", "FFmpeg Options")
	grp.AddText(settings.KeyCustomSettings, "Custom Settings")
	if isHardware {
		grp.AddInt(settings.KeyGPU, "GPU", -1, 255, 1)
	}
	if f.handler.HasThreadingSupport(f) {
		grp.AddInt(settings.KeyThreads, "Threads", 0, 2*f.hardwareConcurrency, 1)
	}

	if inst != nil {
		for _, key := range []string{
			settings.KeyKeyFramesIntervalType,
			settings.KeyKeyFramesSeconds,
			settings.KeyKeyFramesFrames,
			settings.KeyThreads,
			settings.KeyGPU,
		} {
			if p := props.Get(key); p != nil {
				p.Enabled = false
			}
		}
	}
	return props
}

func modifiedKeyFrames(props *settings.Properties, s *settings.Settings) bool {
	isSeconds := s.KeyFrameIntervalType() == settings.KeyFrameIntervalTypeSeconds
	if p := props.Get(settings.KeyKeyFramesSeconds); p != nil {
		p.Visible = isSeconds
	}
	if p := props.Get(settings.KeyKeyFramesFrames); p != nil {
		p.Visible = !isSeconds
	}
	return true
}
