package handler

import (
	"context"

	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/extradata"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/settings"
)

const (
	KeyAMFQuality    = "AMF.Quality"
	KeyAMFFillerData = "AMF.FillerData"
)

var (
	amfQualities        = []string{"speed", "balanced", "quality"}
	amfRateControlModes = []string{"cqp", "cbr", "vbr_peak", "vbr_latency"}
	amfRateControlNames = map[string]string{
		"cqp":         "Constant Quantization Parameter",
		"cbr":         "Constant Bitrate",
		"vbr_peak":    "Peak Constrained Variable Bitrate",
		"vbr_latency": "Latency Constrained Variable Bitrate",
	}
)

// AMF drives the AMD hardware encoders.
type AMF struct {
	encoder.NopHandler

	Family string
	// BitstreamFamily selects the NAL unit rules of the filler stripping.
	BitstreamFamily extradata.Family
}

var _ encoder.Handler = (*AMF)(nil)

func NewAMFH264() *AMF {
	return &AMF{Family: "H.264/AVC", BitstreamFamily: extradata.FamilyH264}
}

func NewAMFHEVC() *AMF {
	return &AMF{Family: "H.265/HEVC", BitstreamFamily: extradata.FamilyHEVC}
}

func (h *AMF) AdjustInfo(ctx context.Context, f *encoder.Factory, info *encoder.FactoryInfo) {
	info.Name = factoryName(h.Family + " AMD AMF")
}

func (h *AMF) GetDefaults(ctx context.Context, s *settings.Settings, codec encoder.Codec, isHardware bool) {
	s.SetDefault(KeyAMFQuality, "balanced")
	s.SetDefault(KeyRateControlMode, "cbr")
	setBitrateDefaults(s)
	s.SetDefault(KeyAMFFillerData, false)
}

func (h *AMF) GetProperties(ctx context.Context, props *settings.Properties, codec encoder.Codec, inst *encoder.Instance, isHardware bool) {
	grp := props.AddGroup("AMF", "AMD AMF")
	grp.AddList(KeyAMFQuality, "Quality Preset", listItems(amfQualities, nil)...)

	rc := props.AddGroup("RateControl", "Rate Control")
	rc.AddList(KeyRateControlMode, "Mode", listItems(amfRateControlModes, amfRateControlNames)...)
	addBitrateProperties(rc, true)
	rc.AddBool(KeyAMFFillerData, "Filler Data")
}

func (h *AMF) Migrate(ctx context.Context, s *settings.Settings, version uint64, codec encoder.Codec) {
	migrateBitrate(ctx, s, version)
}

func (h *AMF) HelpURL(codec encoder.Codec) string {
	return helpURLPrefix + "Encoder-FFmpeg-AMF"
}

func (h *AMF) IsHardwareEncoder(*encoder.Factory) bool  { return true }
func (h *AMF) HasKeyframeSupport(*encoder.Factory) bool { return true }

func (h *AMF) Update(ctx context.Context, s *settings.Settings, inst *encoder.Instance) error {
	setOption(ctx, inst, "quality", s.GetString(KeyAMFQuality))
	mode := s.GetString(KeyRateControlMode)
	setOption(ctx, inst, "rc", mode)
	if mode != "cqp" {
		setKbitOption(ctx, inst, "b", s.GetInt(KeyBitrateTarget))
		setKbitOption(ctx, inst, "maxrate", s.GetInt(KeyBitrateMaximum))
		setKbitOption(ctx, inst, "bufsize", s.GetInt(KeyBufferSize))
	}
	fillerData := "0"
	if s.GetBool(KeyAMFFillerData) {
		fillerData = "1"
	}
	setOption(ctx, inst, "filler_data", fillerData)
	return nil
}

func (h *AMF) LogOptions(ctx context.Context, s *settings.Settings, inst *encoder.Instance) {
	logger.Infof(ctx, "  AMD AMF:")
	for _, key := range []string{
		KeyAMFQuality,
		KeyRateControlMode,
		KeyBitrateTarget,
		KeyBitrateMaximum,
		KeyBufferSize,
		KeyAMFFillerData,
	} {
		logSetting(ctx, s, key)
	}
}

// ProcessPacket strips the filler NAL units AMF inserts even when filler
// data is disabled.
func (h *AMF) ProcessPacket(ctx context.Context, pkt encoder.Packet, inst *encoder.Instance) {
	data := pkt.Data()
	stripped := extradata.StripFiller(h.BitstreamFamily, data)
	if len(stripped) == len(data) {
		return
	}
	logger.Tracef(ctx, "stripped %d bytes of filler data", len(data)-len(stripped))
	if err := pkt.SetData(stripped); err != nil {
		logger.Errorf(ctx, "unable to replace the packet payload: %v", err)
	}
}
