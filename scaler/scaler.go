// Package scaler converts libav frames between resolutions and pixel formats.
package scaler

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
)

// Config is one side of a conversion.
type Config struct {
	Width       int
	Height      int
	PixelFormat astiav.PixelFormat
	ColorSpace  astiav.ColorSpace
	ColorRange  astiav.ColorRange
}

func (cfg Config) String() string {
	return fmt.Sprintf("%dx%d:%s", cfg.Width, cfg.Height, cfg.PixelFormat)
}

type Scaler interface {
	fmt.Stringer
	Close(context.Context) error
	ScaleFrame(ctx context.Context, src *astiav.Frame, dst *astiav.Frame) error
	Source() Config
	Destination() Config
}
