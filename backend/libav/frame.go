package libav

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/types"
)

// Frame is an encoder.Frame backed by an AVFrame.
type Frame struct {
	*astiav.Frame
}

var _ encoder.Frame = (*Frame)(nil)

func (f *Frame) PixelFormat() types.PixelFormat {
	return pixelFormatFromAstiav(f.Frame.PixelFormat())
}

func (f *Frame) IsHardware() bool {
	return f.PixelFormat().IsHardware()
}

func (f *Frame) PTS() int64 {
	return f.Frame.Pts()
}

func (f *Frame) SetPTS(pts int64) {
	f.Frame.SetPts(pts)
}

func (f *Frame) SetColor(space types.ColorSpace, colorRange types.ColorRange) {
	f.Frame.SetColorSpace(colorSpaceToAstiav(space))
	f.Frame.SetColorRange(colorRangeToAstiav(colorRange))
}

func (f *Frame) WritePlanes(planes [][]byte, strides []int) error {
	return writePlanes(f.Frame, planes, strides)
}

// writePlanes packs the host rows and lets libav lay them out with the
// frame's own line sizes.
func writePlanes(f *astiav.Frame, planes [][]byte, strides []int) error {
	pixFmt := pixelFormatFromAstiav(f.PixelFormat())
	buf, err := pixFmt.PackPlanes(f.Width(), f.Height(), planes, strides)
	if err != nil {
		return err
	}
	if err := f.MakeWritable(); err != nil {
		return fmt.Errorf("unable to make the frame writable: %w", err)
	}
	if err := f.Data().SetBytes(buf, 1); err != nil {
		return fmt.Errorf("unable to copy %d bytes into the %dx%d %s frame: %w", len(buf), f.Width(), f.Height(), pixFmt, err)
	}
	return nil
}

func newSoftwareFrame(width, height int, pixFmt types.PixelFormat, align int) (*astiav.Frame, error) {
	f := astiav.AllocFrame()
	if f == nil {
		return nil, fmt.Errorf("unable to allocate a frame")
	}
	f.SetWidth(width)
	f.SetHeight(height)
	f.SetPixelFormat(pixelFormatToAstiav(pixFmt))
	if err := f.AllocBuffer(align); err != nil {
		f.Free()
		return nil, fmt.Errorf("unable to allocate a %dx%d %s frame buffer: %w", width, height, pixFmt, err)
	}
	return f, nil
}
