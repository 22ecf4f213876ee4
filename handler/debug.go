package handler

import (
	"context"

	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
)

// Debug is the fallback for codecs without a handler when debugging: it
// changes nothing and logs every call.
type Debug struct{}

var _ encoder.Handler = Debug{}

func (Debug) AdjustInfo(ctx context.Context, f *encoder.Factory, info *encoder.FactoryInfo) {
	logger.Debugf(ctx, "AdjustInfo(%s): %#+v", f, *info)
}

func (Debug) GetDefaults(ctx context.Context, s *settings.Settings, codec encoder.Codec, isHardware bool) {
	logger.Debugf(ctx, "GetDefaults(%s, hardware: %t)", codec.Name(), isHardware)
}

func (Debug) GetProperties(ctx context.Context, props *settings.Properties, codec encoder.Codec, inst *encoder.Instance, isHardware bool) {
	logger.Debugf(ctx, "GetProperties(%s, instance: %v, hardware: %t)", codec.Name(), inst, isHardware)
}

func (Debug) Migrate(ctx context.Context, s *settings.Settings, version uint64, codec encoder.Codec) {
	logger.Debugf(ctx, "Migrate(%s, version: %X)", codec.Name(), version)
}

func (Debug) HelpURL(codec encoder.Codec) string {
	return ""
}

func (Debug) IsHardwareEncoder(f *encoder.Factory) bool {
	return f.Codec().Capabilities().Has(encoder.CapabilityHardware)
}

func (Debug) HasKeyframeSupport(f *encoder.Factory) bool {
	return !f.Codec().Capabilities().Has(encoder.CapabilityIntraOnly)
}

func (Debug) HasThreadingSupport(f *encoder.Factory) bool {
	caps := f.Codec().Capabilities()
	return caps.Has(encoder.CapabilityFrameThreads) || caps.Has(encoder.CapabilitySliceThreads)
}

func (Debug) SupportsReconfigure(f *encoder.Factory) (encoder.Reconfigure, bool) {
	return encoder.Reconfigure{}, false
}

func (Debug) Update(ctx context.Context, s *settings.Settings, inst *encoder.Instance) error {
	logger.Debugf(ctx, "Update(%s): %s", inst, s)
	return nil
}

func (Debug) OverrideUpdate(ctx context.Context, inst *encoder.Instance, s *settings.Settings) {
	logger.Debugf(ctx, "OverrideUpdate(%s)", inst)
}

func (Debug) OverrideColorFormat(ctx context.Context, target *types.PixelFormat, s *settings.Settings, codec encoder.Codec) {
	logger.Debugf(ctx, "OverrideColorFormat(%s, %s)", codec.Name(), *target)
}

func (Debug) LogOptions(ctx context.Context, s *settings.Settings, inst *encoder.Instance) {
	logger.Debugf(ctx, "LogOptions(%s)", inst)
	for _, key := range s.Keys() {
		logSetting(ctx, s, key)
	}
}

func (Debug) ProcessPacket(ctx context.Context, pkt encoder.Packet, inst *encoder.Instance) {
	logger.Tracef(ctx, "ProcessPacket(%s): %d bytes, PTS %d", inst, len(pkt.Data()), pkt.PTS())
}
