package types

import (
	"fmt"
	"strings"
)

// PixelFormat is a libav pixel format name, e.g. "nv12" or "yuv420p".
type PixelFormat string

const (
	PixelFormatNone         = PixelFormat("")
	PixelFormatNV12         = PixelFormat("nv12")
	PixelFormatP010         = PixelFormat("p010le")
	PixelFormatYUV420P      = PixelFormat("yuv420p")
	PixelFormatYUV422P      = PixelFormat("yuv422p")
	PixelFormatYUV444P      = PixelFormat("yuv444p")
	PixelFormatYUV420P10    = PixelFormat("yuv420p10le")
	PixelFormatYUV422P10    = PixelFormat("yuv422p10le")
	PixelFormatYUV444P10    = PixelFormat("yuv444p10le")
	PixelFormatYUVA444P10   = PixelFormat("yuva444p10le")
	PixelFormatYUYV422      = PixelFormat("yuyv422")
	PixelFormatUYVY422      = PixelFormat("uyvy422")
	PixelFormatGray8        = PixelFormat("gray")
	PixelFormatRGBA         = PixelFormat("rgba")
	PixelFormatBGRA         = PixelFormat("bgra")
	PixelFormatBGR0         = PixelFormat("bgr0")
	PixelFormatCUDA         = PixelFormat("cuda")
	PixelFormatD3D11        = PixelFormat("d3d11")
	PixelFormatVAAPI        = PixelFormat("vaapi")
	PixelFormatVideoToolbox = PixelFormat("videotoolbox_vld")
)

// PlaneDescriptor describes one plane relative to the frame size.
type PlaneDescriptor struct {
	// BytesPerPixel counts bytes per horizontal sample step of this plane,
	// so the interleaved UV plane of NV12 has 2.
	BytesPerPixel int
	ShiftW        uint
	ShiftH        uint
}

type PixelFormatDescriptor struct {
	Planes   []PlaneDescriptor
	BitDepth int
	IsRGB    bool
	HasAlpha bool
	// IsHardware marks opaque surface formats that carry no CPU planes.
	IsHardware bool
}

func (d PixelFormatDescriptor) ChromaShiftW() uint {
	if len(d.Planes) < 2 {
		return 0
	}
	return d.Planes[1].ShiftW
}

func (d PixelFormatDescriptor) ChromaShiftH() uint {
	if len(d.Planes) < 2 {
		return 0
	}
	return d.Planes[1].ShiftH
}

// PlaneRowBytes returns how many payload bytes a row of the plane holds
// for a frame of the given width (padding excluded).
func (d PixelFormatDescriptor) PlaneRowBytes(plane, width int) int {
	p := d.Planes[plane]
	return shiftCeil(width, p.ShiftW) * p.BytesPerPixel
}

// PlaneRows returns the row count of the plane for a frame of the given height.
func (d PixelFormatDescriptor) PlaneRows(plane, height int) int {
	return shiftCeil(height, d.Planes[plane].ShiftH)
}

func shiftCeil(v int, shift uint) int {
	return (v + (1 << shift) - 1) >> shift
}

var pixelFormatDescriptors = map[PixelFormat]PixelFormatDescriptor{
	PixelFormatNV12: {
		Planes:   []PlaneDescriptor{{1, 0, 0}, {2, 1, 1}},
		BitDepth: 8,
	},
	PixelFormatP010: {
		Planes:   []PlaneDescriptor{{2, 0, 0}, {4, 1, 1}},
		BitDepth: 10,
	},
	PixelFormatYUV420P: {
		Planes:   []PlaneDescriptor{{1, 0, 0}, {1, 1, 1}, {1, 1, 1}},
		BitDepth: 8,
	},
	PixelFormatYUV422P: {
		Planes:   []PlaneDescriptor{{1, 0, 0}, {1, 1, 0}, {1, 1, 0}},
		BitDepth: 8,
	},
	PixelFormatYUV444P: {
		Planes:   []PlaneDescriptor{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}},
		BitDepth: 8,
	},
	PixelFormatYUV420P10: {
		Planes:   []PlaneDescriptor{{2, 0, 0}, {2, 1, 1}, {2, 1, 1}},
		BitDepth: 10,
	},
	PixelFormatYUV422P10: {
		Planes:   []PlaneDescriptor{{2, 0, 0}, {2, 1, 0}, {2, 1, 0}},
		BitDepth: 10,
	},
	PixelFormatYUV444P10: {
		Planes:   []PlaneDescriptor{{2, 0, 0}, {2, 0, 0}, {2, 0, 0}},
		BitDepth: 10,
	},
	PixelFormatYUVA444P10: {
		Planes:   []PlaneDescriptor{{2, 0, 0}, {2, 0, 0}, {2, 0, 0}, {2, 0, 0}},
		BitDepth: 10,
		HasAlpha: true,
	},
	PixelFormatYUYV422: {
		Planes:   []PlaneDescriptor{{2, 0, 0}},
		BitDepth: 8,
	},
	PixelFormatUYVY422: {
		Planes:   []PlaneDescriptor{{2, 0, 0}},
		BitDepth: 8,
	},
	PixelFormatGray8: {
		Planes:   []PlaneDescriptor{{1, 0, 0}},
		BitDepth: 8,
	},
	PixelFormatRGBA: {
		Planes:   []PlaneDescriptor{{4, 0, 0}},
		BitDepth: 8,
		IsRGB:    true,
		HasAlpha: true,
	},
	PixelFormatBGRA: {
		Planes:   []PlaneDescriptor{{4, 0, 0}},
		BitDepth: 8,
		IsRGB:    true,
		HasAlpha: true,
	},
	PixelFormatBGR0: {
		Planes:   []PlaneDescriptor{{4, 0, 0}},
		BitDepth: 8,
		IsRGB:    true,
	},
	PixelFormatCUDA:         {IsHardware: true},
	PixelFormatD3D11:        {IsHardware: true},
	PixelFormatVAAPI:        {IsHardware: true},
	PixelFormatVideoToolbox: {IsHardware: true},
}

// chroma subsampling of packed 4:2:2 formats lives inside the single plane
var packed422 = map[PixelFormat]struct{}{
	PixelFormatYUYV422: {},
	PixelFormatUYVY422: {},
}

func (f PixelFormat) String() string {
	if f == PixelFormatNone {
		return "none"
	}
	return string(f)
}

// Descriptor returns the plane layout of the format.
func (f PixelFormat) Descriptor() (PixelFormatDescriptor, bool) {
	d, ok := pixelFormatDescriptors[f]
	return d, ok
}

func (f PixelFormat) IsHardware() bool {
	d, ok := pixelFormatDescriptors[f]
	return ok && d.IsHardware
}

func PixelFormatFromString(s string) (PixelFormat, error) {
	f := PixelFormat(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := pixelFormatDescriptors[f]; !ok {
		return PixelFormatNone, fmt.Errorf("unknown pixel format '%s'", s)
	}
	return f, nil
}

// Set implements pflag.Value.
func (f *PixelFormat) Set(s string) error {
	v, err := PixelFormatFromString(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type implements pflag.Value.
func (f *PixelFormat) Type() string {
	return "pixel-format"
}

func (f PixelFormat) chromaShifts() (uint, uint) {
	if _, ok := packed422[f]; ok {
		return 1, 0
	}
	d := pixelFormatDescriptors[f]
	return d.ChromaShiftW(), d.ChromaShiftH()
}

// conversionLoss scores what is lost when converting from src into dst;
// lower is better. Components are weighted so that colour model loss
// dominates depth loss which dominates chroma loss.
func conversionLoss(src, dst PixelFormat) int {
	s, ok := pixelFormatDescriptors[src]
	if !ok {
		return 0
	}
	d, ok := pixelFormatDescriptors[dst]
	if !ok || d.IsHardware {
		return 1 << 20
	}

	loss := 0
	if s.IsRGB != d.IsRGB {
		loss += 1 << 16
	}
	if d.BitDepth < s.BitDepth {
		loss += (s.BitDepth - d.BitDepth) << 12
	}
	sw, sh := src.chromaShifts()
	dw, dh := dst.chromaShifts()
	if dw > sw {
		loss += int(dw-sw) << 8
	}
	if dh > sh {
		loss += int(dh-sh) << 8
	}
	if s.HasAlpha && !d.HasAlpha {
		loss += 1 << 4
	}

	// prefer not spending more than needed
	if d.BitDepth > s.BitDepth {
		loss += 2
	}
	if dw < sw || dh < sh {
		loss++
	}
	return loss
}

// LeastLossyPixelFormat picks the candidate that loses the least
// information when converting from src. Ties keep the earliest candidate.
func LeastLossyPixelFormat(src PixelFormat, candidates []PixelFormat) PixelFormat {
	best := PixelFormatNone
	bestLoss := 0
	for _, c := range candidates {
		if c == src {
			return c
		}
		loss := conversionLoss(src, c)
		if best == PixelFormatNone || loss < bestLoss {
			best, bestLoss = c, loss
		}
	}
	return best
}

// PackPlanes copies strided planes into one tightly packed buffer, plane
// after plane, as expected by libav's image buffer helpers.
func (f PixelFormat) PackPlanes(
	width, height int,
	planes [][]byte,
	strides []int,
) ([]byte, error) {
	d, ok := f.Descriptor()
	if !ok || d.IsHardware {
		return nil, fmt.Errorf("pixel format %s has no CPU plane layout", f)
	}
	if len(planes) < len(d.Planes) || len(strides) < len(d.Planes) {
		return nil, fmt.Errorf("%s requires %d planes, got %d planes and %d strides", f, len(d.Planes), len(planes), len(strides))
	}

	size := 0
	for idx := range d.Planes {
		size += d.PlaneRowBytes(idx, width) * d.PlaneRows(idx, height)
	}
	buf := make([]byte, 0, size)
	for idx := range d.Planes {
		rowBytes := d.PlaneRowBytes(idx, width)
		rows := d.PlaneRows(idx, height)
		stride := strides[idx]
		if stride < rowBytes {
			return nil, fmt.Errorf("plane #%d: stride %d is less than the row size %d", idx, stride, rowBytes)
		}
		plane := planes[idx]
		if need := stride*(rows-1) + rowBytes; len(plane) < need {
			return nil, fmt.Errorf("plane #%d: expected at least %d bytes, got %d", idx, need, len(plane))
		}
		for row := 0; row < rows; row++ {
			offset := row * stride
			buf = append(buf, plane[offset:offset+rowBytes]...)
		}
	}
	return buf, nil
}
