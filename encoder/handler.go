package encoder

import (
	"context"

	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
)

// Reconfigure lists which settings groups may change while encoding.
type Reconfigure struct {
	Threads   bool
	GPU       bool
	KeyFrames bool
}

// Handler carries everything that differs per codec family. One Handler
// is shared by every Factory and Instance of its codecs, so it must not
// keep per-instance state.
type Handler interface {
	AdjustInfo(ctx context.Context, f *Factory, info *FactoryInfo)
	GetDefaults(ctx context.Context, s *settings.Settings, codec Codec, isHardware bool)
	// GetProperties is called with a nil inst when no encoder is running.
	GetProperties(ctx context.Context, props *settings.Properties, codec Codec, inst *Instance, isHardware bool)
	Migrate(ctx context.Context, s *settings.Settings, version uint64, codec Codec)
	HelpURL(codec Codec) string

	IsHardwareEncoder(f *Factory) bool
	HasKeyframeSupport(f *Factory) bool
	HasThreadingSupport(f *Factory) bool
	// SupportsReconfigure returns false if nothing may change while encoding.
	SupportsReconfigure(f *Factory) (Reconfigure, bool)

	Update(ctx context.Context, s *settings.Settings, inst *Instance) error
	// OverrideUpdate runs after the custom options, so it wins over them.
	OverrideUpdate(ctx context.Context, inst *Instance, s *settings.Settings)
	OverrideColorFormat(ctx context.Context, target *types.PixelFormat, s *settings.Settings, codec Codec)
	LogOptions(ctx context.Context, s *settings.Settings, inst *Instance)
	ProcessPacket(ctx context.Context, pkt Packet, inst *Instance)
}

// NopHandler is used for codecs nobody wrote a handler for.
type NopHandler struct{}

var _ Handler = NopHandler{}

func (NopHandler) AdjustInfo(context.Context, *Factory, *FactoryInfo) {}

func (NopHandler) GetDefaults(context.Context, *settings.Settings, Codec, bool) {}

func (NopHandler) GetProperties(context.Context, *settings.Properties, Codec, *Instance, bool) {}

func (NopHandler) Migrate(context.Context, *settings.Settings, uint64, Codec) {}

func (NopHandler) HelpURL(Codec) string { return "" }

func (NopHandler) IsHardwareEncoder(*Factory) bool { return false }

func (NopHandler) HasKeyframeSupport(*Factory) bool { return false }

func (NopHandler) HasThreadingSupport(*Factory) bool { return false }

func (NopHandler) SupportsReconfigure(*Factory) (Reconfigure, bool) { return Reconfigure{}, false }

func (NopHandler) Update(context.Context, *settings.Settings, *Instance) error { return nil }

func (NopHandler) OverrideUpdate(context.Context, *Instance, *settings.Settings) {}

func (NopHandler) OverrideColorFormat(context.Context, *types.PixelFormat, *settings.Settings, Codec) {
}

func (NopHandler) LogOptions(context.Context, *settings.Settings, *Instance) {}

func (NopHandler) ProcessPacket(context.Context, Packet, *Instance) {}
