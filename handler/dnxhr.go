package handler

import (
	"context"

	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
)

const KeyDNxHRProfile = "DNxHR.Profile"

var (
	dnxhrProfiles     = []string{"dnxhr_sq", "dnxhr_lb", "dnxhr_hq", "dnxhr_hqx", "dnxhr_444"}
	dnxhrProfileNames = map[string]string{
		"dnxhr_sq":  "Standard Quality",
		"dnxhr_lb":  "Low Bandwidth",
		"dnxhr_hq":  "High Quality",
		"dnxhr_hqx": "High Quality 10-bit",
		"dnxhr_444": "4:4:4 10-bit",
	}
)

// DNxHR drives the Avid DNxHD encoder restricted to its resolution
// independent DNxHR profiles.
type DNxHR struct {
	encoder.NopHandler
}

var _ encoder.Handler = (*DNxHR)(nil)

func (h *DNxHR) AdjustInfo(ctx context.Context, f *encoder.Factory, info *encoder.FactoryInfo) {
	info.Name = factoryName("Avid DNxHR")
}

func (h *DNxHR) GetDefaults(ctx context.Context, s *settings.Settings, codec encoder.Codec, isHardware bool) {
	s.SetDefault(KeyDNxHRProfile, "dnxhr_sq")
}

func (h *DNxHR) GetProperties(ctx context.Context, props *settings.Properties, codec encoder.Codec, inst *encoder.Instance, isHardware bool) {
	profile := props.AddGroup("DNxHR", "Avid DNxHR").AddList(KeyDNxHRProfile, "Profile", listItems(dnxhrProfiles, dnxhrProfileNames)...)
	if inst != nil {
		profile.Enabled = false
	}
}

func (h *DNxHR) HelpURL(codec encoder.Codec) string {
	return helpURLPrefix + "Encoder-FFmpeg-Avid-DNxHR"
}

func (h *DNxHR) Update(ctx context.Context, s *settings.Settings, inst *encoder.Instance) error {
	setOption(ctx, inst, "profile", s.GetString(KeyDNxHRProfile))
	return nil
}

func (h *DNxHR) OverrideColorFormat(ctx context.Context, target *types.PixelFormat, s *settings.Settings, codec encoder.Codec) {
	switch s.GetString(KeyDNxHRProfile) {
	case "dnxhr_444":
		*target = types.PixelFormatYUV444P10
	case "dnxhr_hqx":
		*target = types.PixelFormatYUV422P10
	default:
		*target = types.PixelFormatYUV422P
	}
}

func (h *DNxHR) LogOptions(ctx context.Context, s *settings.Settings, inst *encoder.Instance) {
	logger.Infof(ctx, "  Avid DNxHR:")
	logSetting(ctx, s, KeyDNxHRProfile)
}
