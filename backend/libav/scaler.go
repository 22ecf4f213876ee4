package libav

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/scaler"
)

// Scaler converts host planes into encoder frames through libswscale.
type Scaler struct {
	*scaler.Software
	source      encoder.ScalerConfig
	target      encoder.ScalerConfig
	sourceFrame *astiav.Frame
	ctx         context.Context
}

var _ encoder.Scaler = (*Scaler)(nil)

func scalerConfigToAstiav(cfg encoder.ScalerConfig) scaler.Config {
	return scaler.Config{
		Width:       cfg.Width,
		Height:      cfg.Height,
		PixelFormat: pixelFormatToAstiav(cfg.Format),
		ColorSpace:  colorSpaceToAstiav(cfg.ColorSpace),
		ColorRange:  colorRangeToAstiav(cfg.ColorRange),
	}
}

func newScaler(
	ctx context.Context,
	src encoder.ScalerConfig,
	dst encoder.ScalerConfig,
	align int,
) (_ret *Scaler, _err error) {
	logger.Tracef(ctx, "newScaler(%v, %v)", src, dst)
	defer func() { logger.Tracef(ctx, "/newScaler(%v, %v): %v", src, dst, _err) }()

	sw, err := scaler.NewSoftware(ctx, scalerConfigToAstiav(src), scalerConfigToAstiav(dst))
	if err != nil {
		return nil, err
	}
	sourceFrame, err := newSoftwareFrame(src.Width, src.Height, src.Format, align)
	if err != nil {
		_ = sw.Close(ctx)
		return nil, fmt.Errorf("unable to allocate the source frame: %w", err)
	}
	return &Scaler{
		Software:    sw,
		source:      src,
		target:      dst,
		sourceFrame: sourceFrame,
		ctx:         ctx,
	}, nil
}

func (s *Scaler) Source() encoder.ScalerConfig {
	return s.source
}

func (s *Scaler) Target() encoder.ScalerConfig {
	return s.target
}

func (s *Scaler) Scale(
	ctx context.Context,
	planes [][]byte,
	strides []int,
	dst encoder.Frame,
) error {
	frame, ok := dst.(*Frame)
	if !ok || s.sourceFrame == nil {
		return fmt.Errorf("unexpected frame type %T", dst)
	}
	if err := writePlanes(s.sourceFrame, planes, strides); err != nil {
		return fmt.Errorf("unable to fill the source frame: %w", err)
	}
	if err := frame.MakeWritable(); err != nil {
		return fmt.Errorf("unable to make the frame writable: %w", err)
	}
	return s.Software.ScaleFrame(ctx, s.sourceFrame, frame.Frame)
}

func (s *Scaler) Close() error {
	if s.sourceFrame != nil {
		s.sourceFrame.Free()
		s.sourceFrame = nil
	}
	return s.Software.Close(s.ctx)
}
