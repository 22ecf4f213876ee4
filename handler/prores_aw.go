package handler

import (
	"context"
	"strconv"

	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
)

const KeyProResProfile = "ProRes.Profile"

type ProResProfile int

const (
	ProResProfileProxy = ProResProfile(iota)
	ProResProfileLT
	ProResProfileStandard
	ProResProfileHQ
	ProResProfile4444
	ProResProfile4444XQ
)

func (p ProResProfile) String() string {
	switch p {
	case ProResProfileProxy:
		return "422 Proxy (apco)"
	case ProResProfileLT:
		return "422 LT (apcs)"
	case ProResProfileStandard:
		return "422 Standard (apcn)"
	case ProResProfileHQ:
		return "422 HQ (apch)"
	case ProResProfile4444:
		return "4444 (ap4h)"
	case ProResProfile4444XQ:
		return "4444 XQ (ap4x)"
	}
	return "unknown"
}

// HasAlpha tells whether the profile encodes 4:4:4 with alpha.
func (p ProResProfile) HasAlpha() bool {
	return p >= ProResProfile4444
}

// ProResAW drives the Anatoliy Wasserman ProRes encoder.
type ProResAW struct {
	encoder.NopHandler
}

var _ encoder.Handler = (*ProResAW)(nil)

func (h *ProResAW) AdjustInfo(ctx context.Context, f *encoder.Factory, info *encoder.FactoryInfo) {
	info.Name = factoryName("Apple ProRes (Anatoliy Wasserman)")
}

func (h *ProResAW) GetDefaults(ctx context.Context, s *settings.Settings, codec encoder.Codec, isHardware bool) {
	s.SetDefault(KeyProResProfile, int(ProResProfileHQ))
}

func (h *ProResAW) GetProperties(ctx context.Context, props *settings.Properties, codec encoder.Codec, inst *encoder.Instance, isHardware bool) {
	items := make([]settings.ListItem, 0, int(ProResProfile4444XQ)+1)
	for p := ProResProfileProxy; p <= ProResProfile4444XQ; p++ {
		items = append(items, settings.ListItem{Name: p.String(), Value: int(p)})
	}
	profile := props.AddGroup("ProRes", "Apple ProRes").AddList(KeyProResProfile, "Profile", items...)
	if inst != nil {
		profile.Enabled = false
	}
}

func (h *ProResAW) HelpURL(codec encoder.Codec) string {
	return helpURLPrefix + "Encoder-FFmpeg-Apple-ProRes"
}

func profileOf(s *settings.Settings) ProResProfile {
	p := ProResProfile(s.GetInt(KeyProResProfile))
	if p < ProResProfileProxy || p > ProResProfile4444XQ {
		return ProResProfileHQ
	}
	return p
}

func (h *ProResAW) Update(ctx context.Context, s *settings.Settings, inst *encoder.Instance) error {
	setOption(ctx, inst, "profile", strconv.Itoa(int(profileOf(s))))
	return nil
}

func (h *ProResAW) OverrideColorFormat(ctx context.Context, target *types.PixelFormat, s *settings.Settings, codec encoder.Codec) {
	if profileOf(s).HasAlpha() {
		*target = types.PixelFormatYUVA444P10
	} else {
		*target = types.PixelFormatYUV422P10
	}
}

func (h *ProResAW) LogOptions(ctx context.Context, s *settings.Settings, inst *encoder.Instance) {
	logger.Infof(ctx, "  Apple ProRes:")
	logger.Infof(ctx, "    Profile: %s", profileOf(s))
}
