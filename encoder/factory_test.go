package encoder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/ffencoder/settings"
)

func TestFactoryInfo(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{}

	f := NewFactory(ctx, b, &fakeCodec{name: "h264_nvenc", longName: "NVIDIA NVENC H.264 encoder", idName: "h264"}, &testHandler{hardware: true})
	require.Equal(t, "streamfx-h264_nvenc", f.Info.ID)
	require.Equal(t, "NVIDIA NVENC H.264 encoder (h264_nvenc) (via FFmpeg)", f.Info.Name)
	require.Equal(t, "h264", f.Info.CodecName)
	require.True(t, f.Info.Capabilities.Has(FactoryCapabilityPassTexture))
	require.False(t, f.Info.Capabilities.Has(FactoryCapabilityDeprecated))
	require.Equal(t, []string{
		"streamfx--h264_nvenc", "streamfx--h264_nvenc_sw",
		"StreamFX-h264_nvenc", "StreamFX-h264_nvenc_sw",
		"obs-ffmpeg-encoder_h264_nvenc", "obs-ffmpeg-encoder_h264_nvenc_sw",
	}, f.Info.Proxies)
	require.True(t, f.Matches("StreamFX-h264_nvenc_sw"))
	require.False(t, f.Matches("h264_nvenc"))

	f = NewFactory(ctx, b, &fakeCodec{name: "mpeg2video", idName: "mpeg2video"}, nil)
	require.Equal(t, "mpeg2video (via FFmpeg)", f.Info.Name)
	require.True(t, f.Info.Capabilities.Has(FactoryCapabilityDeprecated))
	require.False(t, f.Info.Capabilities.Has(FactoryCapabilityPassTexture))
	require.Len(t, f.Info.Proxies, 3)
}

func TestFactoryDefaults(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{}

	s := NewFactory(ctx, b, &fakeCodec{name: "libx264", idName: "h264"}, &testHandler{}).Defaults(ctx)
	require.Equal(t, settings.KeyFrameIntervalTypeSeconds, s.KeyFrameIntervalType())
	require.Equal(t, 2.0, s.GetFloat64(settings.KeyKeyFramesSeconds))
	require.Equal(t, 300, s.GetInt(settings.KeyKeyFramesFrames))
	require.Equal(t, "", s.GetString(settings.KeyCustomSettings))
	require.Equal(t, 0, s.GetInt(settings.KeyThreads))
	require.Equal(t, -1, s.GetInt(settings.KeyGPU))

	s = NewFactory(ctx, b, &fakeCodec{name: "prores_aw", idName: "prores", caps: CapabilityIntraOnly}, &testHandler{}).Defaults(ctx)
	require.False(t, s.IsSet(settings.KeyKeyFramesSeconds))
	require.Equal(t, -1, s.GetInt(settings.KeyGPU))
}

func TestFactoryProperties(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{}

	f := NewFactory(ctx, b, &fakeCodec{name: "libx264", idName: "h264"}, &testHandler{keyFrames: true, threading: true}, OptionHardwareConcurrency{Threads: 6})
	props := f.Properties(ctx, nil)
	require.NotNil(t, props.Get(settings.KeyKeyFramesIntervalType))
	require.Nil(t, props.Get(settings.KeyGPU))
	threads := props.Get(settings.KeyThreads)
	require.NotNil(t, threads)
	require.Equal(t, 12.0, threads.Max)
	require.True(t, threads.Enabled)

	s := f.Defaults(ctx)
	s.Set(settings.KeyKeyFramesIntervalType, int(settings.KeyFrameIntervalTypeFrames))
	require.True(t, props.Get(settings.KeyKeyFramesIntervalType).Modified(props, s))
	require.False(t, props.Get(settings.KeyKeyFramesSeconds).Visible)
	require.True(t, props.Get(settings.KeyKeyFramesFrames).Visible)

	f = NewFactory(ctx, b, &fakeCodec{name: "h264_nvenc", idName: "h264"}, &testHandler{hardware: true})
	props = f.Properties(ctx, nil)
	require.Nil(t, props.Get(settings.KeyKeyFramesIntervalType))
	require.Nil(t, props.Get(settings.KeyThreads))
	require.NotNil(t, props.Get(settings.KeyGPU))
	require.NotNil(t, props.Get(settings.KeyCustomSettings))
}

func TestFactoryPropertiesWhileEncoding(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&fakeBackend{}, &fakeCodec{name: "libx264", idName: "h264"}, &testHandler{keyFrames: true, threading: true})
	inst, _ := env.newInstance(t, InstanceParams{})
	defer inst.Close(ctx)

	props := inst.Properties(ctx)
	require.False(t, props.Get(settings.KeyThreads).Enabled)
	require.False(t, props.Get(settings.KeyKeyFramesSeconds).Enabled)
	require.True(t, props.Get(settings.KeyCustomSettings).Enabled)
}
