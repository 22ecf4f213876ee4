package types

import "fmt"

type ColorSpace int

const (
	ColorSpaceUnspecified = ColorSpace(iota)
	ColorSpaceBT601
	ColorSpaceBT709
	ColorSpaceSRGB
	ColorSpaceBT2100PQ
	ColorSpaceBT2100HLG
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceUnspecified:
		return "unspecified"
	case ColorSpaceBT601:
		return "bt601"
	case ColorSpaceBT709:
		return "bt709"
	case ColorSpaceSRGB:
		return "srgb"
	case ColorSpaceBT2100PQ:
		return "bt2100-pq"
	case ColorSpaceBT2100HLG:
		return "bt2100-hlg"
	}
	return fmt.Sprintf("unknown_colorspace_%d", int(c))
}

func (c *ColorSpace) Set(s string) error {
	for candidate := ColorSpaceUnspecified; candidate <= ColorSpaceBT2100HLG; candidate++ {
		if candidate.String() == s {
			*c = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown color space '%s'", s)
}

func (c *ColorSpace) Type() string {
	return "color-space"
}

type ColorRange int

const (
	ColorRangeUnspecified = ColorRange(iota)
	ColorRangePartial
	ColorRangeFull
)

func (r ColorRange) String() string {
	switch r {
	case ColorRangeUnspecified:
		return "unspecified"
	case ColorRangePartial:
		return "partial"
	case ColorRangeFull:
		return "full"
	}
	return fmt.Sprintf("unknown_colorrange_%d", int(r))
}

func (r *ColorRange) Set(s string) error {
	for candidate := ColorRangeUnspecified; candidate <= ColorRangeFull; candidate++ {
		if candidate.String() == s {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown color range '%s'", s)
}

func (r *ColorRange) Type() string {
	return "color-range"
}
