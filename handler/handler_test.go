package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/extradata"
	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
)

func TestNVENC(t *testing.T) {
	ctx := context.Background()
	h := NewNVENCH264()
	var s *settings.Settings
	inst, cc, err := newTestInstance(&fakeBackend{}, &fakeCodec{name: "h264_nvenc", idName: "h264", caps: encoder.CapabilityHardware}, h,
		func(f *encoder.Factory) *encoder.InstanceParams {
			require.True(t, f.Info.Capabilities.Has(encoder.FactoryCapabilityPassTexture))
			require.Equal(t, "H.264/AVC NVIDIA NVENC (via FFmpeg)", f.Info.Name)
			s = f.Defaults(ctx)
			s.Set(KeyBitrateTarget, 8000)
			return &encoder.InstanceParams{Settings: s, Video: testVideoInfo()}
		})
	require.NoError(t, err)
	defer inst.Close(ctx)

	require.Equal(t, map[string]string{
		"gpu":          "-1",
		"preset":       "p5",
		"profile":      "high",
		"rc":           "cbr",
		"rc-lookahead": "0",
		"bf":           "2",
		"b":            "8000000",
		"bufsize":      "12000000",
	}, cc.options)
	require.Equal(t, 120, cc.config.GOPSize.Get())
	require.Equal(t, 1, cc.config.ThreadCount)

	s.Set(KeyBitrateTarget, 4000)
	s.Set(KeyNVENCPreset, "p1")
	require.NoError(t, inst.Update(ctx, s))
	require.Equal(t, "4000000", cc.options["b"])
	require.Equal(t, "p5", cc.options["preset"], "the preset cannot change while encoding")

	props := inst.Properties(ctx)
	require.NotNil(t, props.Get(settings.KeyGPU))
	require.False(t, props.Get(KeyNVENCBFrames).Enabled)
	require.True(t, props.Get(KeyBitrateTarget).Enabled)
}

func TestNVENCHEVCMain10(t *testing.T) {
	ctx := context.Background()
	s := settings.New()
	h := NewNVENCHEVC()
	h.GetDefaults(ctx, s, nil, true)
	require.Equal(t, "main", s.GetString(KeyH265Profile))

	format := types.PixelFormatNV12
	h.OverrideColorFormat(ctx, &format, s, nil)
	require.Equal(t, types.PixelFormatNV12, format)

	s.Set(KeyH265Profile, "main10")
	h.OverrideColorFormat(ctx, &format, s, nil)
	require.Equal(t, types.PixelFormatP010, format)
}

func TestMigrateBitrate(t *testing.T) {
	ctx := context.Background()
	h := NewNVENCH264()

	s := settings.New()
	s.Set(legacyKeyBitrateTarget, 3500)
	h.Migrate(ctx, s, Version(0, 10, 0), nil)
	require.Equal(t, 3500, s.GetInt(KeyBitrateTarget))

	s = settings.New()
	s.Set(legacyKeyBitrateTarget, 3500)
	h.Migrate(ctx, s, Version(0, 11, 0), nil)
	require.False(t, s.IsSet(KeyBitrateTarget))
}

func TestMigrateBitrateOverDefaults(t *testing.T) {
	ctx := context.Background()
	h := NewNVENCH264()

	s := settings.New()
	h.GetDefaults(ctx, s, nil, true)
	s.Set(legacyKeyBitrateTarget, 3500)
	h.Migrate(ctx, s, Version(0, 10, 0), nil)
	require.Equal(t, 3500, s.GetInt(KeyBitrateTarget))

	s = settings.New()
	h.GetDefaults(ctx, s, nil, true)
	s.Set(legacyKeyBitrateTarget, 3500)
	s.Set(KeyBitrateTarget, 8000)
	h.Migrate(ctx, s, Version(0, 10, 0), nil)
	require.Equal(t, 8000, s.GetInt(KeyBitrateTarget))
}

func TestAMFStripsFiller(t *testing.T) {
	ctx := context.Background()
	var data []byte
	data = extradata.AppendNALU(data, []byte{0x65, 0x88, 0x84})
	data = extradata.AppendNALU(data, []byte{0x0c, 0xff, 0xff, 0xff})
	pkt := &fakePacket{data: data}

	NewAMFH264().ProcessPacket(ctx, pkt, nil)
	require.Equal(t, []byte{0, 0, 0, 1, 0x65, 0x88, 0x84}, pkt.data)

	clean := pkt.data
	NewAMFH264().ProcessPacket(ctx, pkt, nil)
	require.Equal(t, clean, pkt.data)
}

func TestAMFUpdate(t *testing.T) {
	ctx := context.Background()
	inst, cc, err := newTestInstance(&fakeBackend{}, &fakeCodec{name: "hevc_amf", idName: "hevc"}, NewAMFHEVC(),
		func(f *encoder.Factory) *encoder.InstanceParams {
			s := f.Defaults(ctx)
			s.Set(KeyRateControlMode, "cqp")
			s.Set(KeyAMFFillerData, true)
			return &encoder.InstanceParams{Settings: s, Video: testVideoInfo()}
		})
	require.NoError(t, err)
	defer inst.Close(ctx)

	require.Equal(t, map[string]string{
		"quality":     "balanced",
		"rc":          "cqp",
		"filler_data": "1",
	}, cc.options)
}

func TestProResAW(t *testing.T) {
	ctx := context.Background()
	inst, cc, err := newTestInstance(&fakeBackend{}, &fakeCodec{name: "prores_aw", idName: "prores", caps: encoder.CapabilityIntraOnly}, &ProResAW{},
		func(f *encoder.Factory) *encoder.InstanceParams {
			s := f.Defaults(ctx)
			require.Equal(t, int(ProResProfileHQ), s.GetInt(KeyProResProfile))
			require.False(t, s.IsSet(settings.KeyKeyFramesSeconds))
			s.Set(KeyProResProfile, int(ProResProfile4444))
			return &encoder.InstanceParams{Settings: s, Video: testVideoInfo()}
		})
	require.NoError(t, err)
	defer inst.Close(ctx)

	require.Equal(t, "4", cc.options["profile"])
	require.Equal(t, types.PixelFormatYUVA444P10, cc.config.PixelFormat)
	require.False(t, cc.config.GOPSize.IsSet())

	s := settings.New()
	s.Set(KeyProResProfile, int(ProResProfileLT))
	format := types.PixelFormatNV12
	(&ProResAW{}).OverrideColorFormat(ctx, &format, s, nil)
	require.Equal(t, types.PixelFormatYUV422P10, format)
}

func TestDNxHRColorFormat(t *testing.T) {
	ctx := context.Background()
	h := &DNxHR{}
	for profile, expected := range map[string]types.PixelFormat{
		"dnxhr_444": types.PixelFormatYUV444P10,
		"dnxhr_hqx": types.PixelFormatYUV422P10,
		"dnxhr_hq":  types.PixelFormatYUV422P,
		"dnxhr_sq":  types.PixelFormatYUV422P,
		"dnxhr_lb":  types.PixelFormatYUV422P,
	} {
		s := settings.New()
		h.GetDefaults(ctx, s, nil, false)
		s.Set(KeyDNxHRProfile, profile)
		format := types.PixelFormatNV12
		h.OverrideColorFormat(ctx, &format, s, nil)
		require.Equal(t, expected, format, profile)
	}
}

func TestRegisterAll(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{codecs: []*fakeCodec{
		{name: "h264_nvenc", idName: "h264"},
		{name: "dnxhd", idName: "dnxhd"},
		{name: "libx264", idName: "h264"},
	}}
	m := encoder.NewManager(backend, encoder.OptionDebugHandler{Handler: Debug{}})
	RegisterAll(m)
	require.NoError(t, m.RegisterEncoders(ctx))

	require.IsType(t, &NVENC{}, m.FactoryByCodecName("h264_nvenc").Handler())
	require.IsType(t, &DNxHR{}, m.FactoryByCodecName("dnxhd").Handler())
	require.IsType(t, Debug{}, m.FactoryByCodecName("libx264").Handler())
	require.Equal(t, "Avid DNxHR (via FFmpeg)", m.FactoryByCodecName("dnxhd").Info.Name)
	require.Equal(t, helpURLPrefix+"Encoder-FFmpeg-Avid-DNxHR", m.FactoryByCodecName("dnxhd").HelpURL())
}
