package scaler

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/ffencoder/logger"
	"go.uber.org/atomic"
)

// Software is a Scaler backed by libswscale.
type Software struct {
	*astiav.SoftwareScaleContext
	source      Config
	destination Config
	closed      atomic.Bool
}

var _ Scaler = (*Software)(nil)

// NewSoftware creates a libswscale context. Without flags point sampling
// is used, which is exact whenever only the pixel layout changes.
func NewSoftware(
	ctx context.Context,
	src Config,
	dst Config,
	opts ...astiav.SoftwareScaleContextFlag,
) (*Software, error) {
	if len(opts) == 0 {
		opts = []astiav.SoftwareScaleContextFlag{astiav.SoftwareScaleContextFlagPoint}
	}
	swSCtx, err := astiav.CreateSoftwareScaleContext(
		src.Width,
		src.Height,
		src.PixelFormat,
		dst.Width,
		dst.Height,
		dst.PixelFormat,
		astiav.NewSoftwareScaleContextFlags(opts...),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create a software scale context for %s -> %s: %w", src, dst, err)
	}
	logger.Debugf(ctx, "created a software scaler %s -> %s", src, dst)
	return &Software{
		SoftwareScaleContext: swSCtx,
		source:               src,
		destination:          dst,
	}, nil
}

func (s *Software) String() string {
	return fmt.Sprintf("SoftwareScaler(%s -> %s)", s.source, s.destination)
}

func (s *Software) Close(ctx context.Context) error {
	logger.Tracef(ctx, "Close")
	defer logger.Tracef(ctx, "/Close")
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.SoftwareScaleContext.Free()
	return nil
}

// ScaleFrame converts src into dst; the color properties of dst are set
// from the destination Config.
func (s *Software) ScaleFrame(
	ctx context.Context,
	src *astiav.Frame,
	dst *astiav.Frame,
) (_err error) {
	logger.Tracef(ctx, "ScaleFrame")
	defer func() { logger.Tracef(ctx, "/ScaleFrame: %v", _err) }()
	if s.closed.Load() {
		return fmt.Errorf("scaler is closed")
	}
	src.SetColorSpace(s.source.ColorSpace)
	src.SetColorRange(s.source.ColorRange)
	if err := s.SoftwareScaleContext.ScaleFrame(src, dst); err != nil {
		return fmt.Errorf("unable to scale a frame: %w", err)
	}
	dst.SetColorSpace(s.destination.ColorSpace)
	dst.SetColorRange(s.destination.ColorRange)
	return nil
}

func (s *Software) Source() Config {
	return s.source
}

func (s *Software) Destination() Config {
	return s.destination
}
