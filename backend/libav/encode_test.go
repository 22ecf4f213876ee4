package libav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/types"
)

func TestBackendCodecs(t *testing.T) {
	ctx := context.Background()
	b := New()
	codecs := b.Codecs(ctx)
	require.NotEmpty(t, codecs)
	for idx := 1; idx < len(codecs); idx++ {
		require.LessOrEqual(t, codecs[idx-1].Name(), codecs[idx].Name())
	}

	require.Nil(t, b.FindEncoder(ctx, "no-such-encoder"))
}

func TestEncodeSoftware(t *testing.T) {
	ctx := context.Background()
	b := New()
	codec := b.FindEncoder(ctx, "mpeg2video")
	if codec == nil {
		t.Skip("mpeg2video is not available in this libav build")
	}
	require.Equal(t, types.MediaTypeVideo, codec.MediaType())
	require.Equal(t, "mpeg2video", codec.IDName())

	const (
		width  = 64
		height = 48
		frames = 10
	)
	f := encoder.NewFactory(ctx, b, codec, nil)
	inst, err := f.NewInstance(ctx, encoder.InstanceParams{
		Video: encoder.VideoInfo{
			Width:      width,
			Height:     height,
			Format:     types.PixelFormatNV12,
			ColorSpace: types.ColorSpaceBT709,
			ColorRange: types.ColorRangePartial,
			FrameRate:  types.Rational{Num: 30, Den: 1},
		},
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, inst.Close(ctx)) }()
	require.Equal(t, types.PixelFormatNV12, inst.InputFormat())

	y := make([]byte, width*height)
	uv := make([]byte, width*height/2)
	for idx := range y {
		y[idx] = byte(idx)
	}
	for idx := range uv {
		uv[idx] = 128
	}

	received := 0
	var out encoder.OutputPacket
	for pts := int64(0); pts < frames; pts++ {
		ok, err := inst.EncodeVideo(ctx, &encoder.VideoFrame{
			Planes:  [][]byte{y, uv},
			Strides: []int{width, width},
			PTS:     pts,
		}, &out)
		require.NoError(t, err)
		if ok {
			received++
			require.NotEmpty(t, out.Data)
		}
	}
	require.NoError(t, inst.Flush(ctx, func(ctx context.Context, pkt *encoder.OutputPacket) error {
		received++
		return nil
	}))
	require.Equal(t, frames, received)
}

func TestLiveOptions(t *testing.T) {
	ctx := context.Background()
	b := New()
	codec := b.FindEncoder(ctx, "mpeg2video")
	if codec == nil {
		t.Skip("mpeg2video is not available in this libav build")
	}

	f := encoder.NewFactory(ctx, b, codec, nil)
	inst, err := f.NewInstance(ctx, encoder.InstanceParams{
		Video: encoder.VideoInfo{
			Width:      64,
			Height:     48,
			Format:     types.PixelFormatNV12,
			ColorSpace: types.ColorSpaceBT709,
			ColorRange: types.ColorRangePartial,
			FrameRate:  types.Rational{Num: 25, Den: 1},
		},
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, inst.Close(ctx)) }()

	cc := inst.CodecContext()
	require.True(t, cc.IsOpen())

	require.NoError(t, cc.SetOption(ctx, "keyint_min", "5"))
	v, ok := cc.Option(ctx, "keyint_min")
	require.True(t, ok)
	require.Equal(t, "5", v)

	require.NoError(t, cc.SetOption(ctx, "g", "12"))
	require.NoError(t, cc.SetOption(ctx, "intra_vlc", "1"))
	require.Error(t, cc.SetOption(ctx, "no_such_option", "1"))
}
