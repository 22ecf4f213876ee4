// Package libav implements the encoder backend on top of FFmpeg's
// libavcodec through go-astiav.
package libav

import (
	"context"
	"sort"

	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/logger"
)

// Backend is an encoder.Backend over the libavcodec linked into the binary.
type Backend struct {
	// FrameAlignment is the row alignment of the frames the backend
	// allocates internally.
	FrameAlignment int
}

var _ encoder.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		FrameAlignment: encoder.DefaultConfig().FrameAlignment,
	}
}

// Codecs lists the registered encoders ordered by name.
func (b *Backend) Codecs(ctx context.Context) []encoder.Codec {
	var result []encoder.Codec
	for _, name := range encoderNames() {
		c, err := findCodec(name)
		if err != nil {
			logger.Warnf(ctx, "skipping encoder '%s': %v", name, err)
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	logger.Debugf(ctx, "found %d encoders", len(result))
	return result
}

func (b *Backend) FindEncoder(ctx context.Context, name string) encoder.Codec {
	c, err := findCodec(name)
	if err != nil {
		logger.Debugf(ctx, "%v", err)
		return nil
	}
	return c
}

func (b *Backend) NewContext(ctx context.Context, codec encoder.Codec) (encoder.CodecContext, error) {
	c, ok := codec.(*Codec)
	if !ok {
		var err error
		c, err = findCodec(codec.Name())
		if err != nil {
			return nil, err
		}
	}
	return newCodecContext(ctx, c)
}

func (b *Backend) NewPacket(ctx context.Context, bufferSize int) (encoder.Packet, error) {
	return newPacket(bufferSize)
}

func (b *Backend) NewScaler(ctx context.Context, src, dst encoder.ScalerConfig) (encoder.Scaler, error) {
	return newScaler(ctx, src, dst, b.FrameAlignment)
}

func (b *Backend) NewHardware(ctx context.Context, g gfx.Context) (encoder.Hardware, error) {
	return newHardware(ctx, g)
}
