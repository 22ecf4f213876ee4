package handler

import (
	"context"
	"strconv"

	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
)

const (
	KeyNVENCPreset  = "Preset"
	KeyNVENCBFrames = "Other.BFrames"
	KeyH264Profile  = "H264.Profile"
	KeyH265Profile  = "H265.Profile"
)

var (
	nvencPresets     = []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}
	nvencPresetNames = map[string]string{
		"p1": "Fastest (P1)",
		"p4": "Medium (P4)",
		"p7": "Slowest (P7)",
	}
	nvencRateControlModes = []string{"constqp", "vbr", "cbr"}
	nvencRateControlNames = map[string]string{
		"constqp": "Constant Quantization Parameter",
		"vbr":     "Variable Bitrate",
		"cbr":     "Constant Bitrate",
	}
)

// NVENC drives the NVIDIA hardware encoders. The H.264 and HEVC variants
// only differ in their profiles.
type NVENC struct {
	encoder.NopHandler

	Family     string
	ProfileKey string
	Profiles   []string
	// DefaultProfile must be one of Profiles.
	DefaultProfile string
}

var _ encoder.Handler = (*NVENC)(nil)

func NewNVENCH264() *NVENC {
	return &NVENC{
		Family:         "H.264/AVC",
		ProfileKey:     KeyH264Profile,
		Profiles:       []string{"baseline", "main", "high", "high444p"},
		DefaultProfile: "high",
	}
}

func NewNVENCHEVC() *NVENC {
	return &NVENC{
		Family:         "H.265/HEVC",
		ProfileKey:     KeyH265Profile,
		Profiles:       []string{"main", "main10", "rext"},
		DefaultProfile: "main",
	}
}

func (h *NVENC) AdjustInfo(ctx context.Context, f *encoder.Factory, info *encoder.FactoryInfo) {
	info.Name = factoryName(h.Family + " NVIDIA NVENC")
}

func (h *NVENC) GetDefaults(ctx context.Context, s *settings.Settings, codec encoder.Codec, isHardware bool) {
	s.SetDefault(KeyNVENCPreset, "p5")
	s.SetDefault(KeyRateControlMode, "cbr")
	s.SetDefault(KeyRateControlLookahead, 0)
	setBitrateDefaults(s)
	s.SetDefault(KeyNVENCBFrames, 2)
	s.SetDefault(h.ProfileKey, h.DefaultProfile)
}

func (h *NVENC) GetProperties(ctx context.Context, props *settings.Properties, codec encoder.Codec, inst *encoder.Instance, isHardware bool) {
	grp := props.AddGroup("NVENC", "NVIDIA NVENC")
	grp.AddList(KeyNVENCPreset, "Preset", listItems(nvencPresets, nvencPresetNames)...)
	grp.AddList(h.ProfileKey, "Profile", listItems(h.Profiles, nil)...)

	rc := props.AddGroup("RateControl", "Rate Control")
	rc.AddList(KeyRateControlMode, "Mode", listItems(nvencRateControlModes, nvencRateControlNames)...)
	lookahead := rc.AddInt(KeyRateControlLookahead, "Look Ahead (frames)", 0, 32, 1)
	addBitrateProperties(rc, true)

	other := props.AddGroup("Other", "Other")
	bframes := other.AddInt(KeyNVENCBFrames, "B-Frames", 0, 4, 1)

	if inst != nil {
		lookahead.Enabled = false
		bframes.Enabled = false
	}
}

func (h *NVENC) Migrate(ctx context.Context, s *settings.Settings, version uint64, codec encoder.Codec) {
	migrateBitrate(ctx, s, version)
}

func (h *NVENC) HelpURL(codec encoder.Codec) string {
	return helpURLPrefix + "Encoder-FFmpeg-NVENC"
}

func (h *NVENC) IsHardwareEncoder(*encoder.Factory) bool   { return true }
func (h *NVENC) HasKeyframeSupport(*encoder.Factory) bool  { return true }
func (h *NVENC) HasThreadingSupport(*encoder.Factory) bool { return false }

// SupportsReconfigure allows bitrate changes while encoding.
func (h *NVENC) SupportsReconfigure(*encoder.Factory) (encoder.Reconfigure, bool) {
	return encoder.Reconfigure{}, true
}

func (h *NVENC) Update(ctx context.Context, s *settings.Settings, inst *encoder.Instance) error {
	if !inst.CodecContext().IsOpen() {
		setOption(ctx, inst, "preset", s.GetString(KeyNVENCPreset))
		setOption(ctx, inst, "profile", s.GetString(h.ProfileKey))
		setOption(ctx, inst, "rc-lookahead", strconv.Itoa(s.GetInt(KeyRateControlLookahead)))
		setOption(ctx, inst, "bf", strconv.Itoa(s.GetInt(KeyNVENCBFrames)))
	}
	mode := s.GetString(KeyRateControlMode)
	setOption(ctx, inst, "rc", mode)
	if mode != "constqp" {
		setKbitOption(ctx, inst, "b", s.GetInt(KeyBitrateTarget))
		setKbitOption(ctx, inst, "maxrate", s.GetInt(KeyBitrateMaximum))
		setKbitOption(ctx, inst, "bufsize", s.GetInt(KeyBufferSize))
	}
	return nil
}

func (h *NVENC) OverrideColorFormat(ctx context.Context, target *types.PixelFormat, s *settings.Settings, codec encoder.Codec) {
	if s.GetString(h.ProfileKey) == "main10" && *target == types.PixelFormatNV12 {
		logger.Debugf(ctx, "main10 requires a 10-bit input, switching %s to %s", *target, types.PixelFormatP010)
		*target = types.PixelFormatP010
	}
}

func (h *NVENC) LogOptions(ctx context.Context, s *settings.Settings, inst *encoder.Instance) {
	logger.Infof(ctx, "  NVIDIA NVENC:")
	for _, key := range []string{
		KeyNVENCPreset,
		h.ProfileKey,
		KeyRateControlMode,
		KeyRateControlLookahead,
		KeyBitrateTarget,
		KeyBitrateMaximum,
		KeyBufferSize,
		KeyNVENCBFrames,
	} {
		logSetting(ctx, s, key)
	}
}
