package libav

import (
	"errors"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/types"
)

func pixelFormatToAstiav(f types.PixelFormat) astiav.PixelFormat {
	if f == types.PixelFormatNone {
		return astiav.PixelFormatNone
	}
	return findPixelFormat(string(f))
}

func pixelFormatFromAstiav(f astiav.PixelFormat) types.PixelFormat {
	if f == astiav.PixelFormatNone {
		return types.PixelFormatNone
	}
	return types.PixelFormat(f.String())
}

func colorSpaceToAstiav(c types.ColorSpace) astiav.ColorSpace {
	switch c {
	case types.ColorSpaceBT601:
		return astiav.ColorSpaceSmpte170M
	case types.ColorSpaceBT709, types.ColorSpaceSRGB:
		return astiav.ColorSpaceBt709
	case types.ColorSpaceBT2100PQ, types.ColorSpaceBT2100HLG:
		return astiav.ColorSpaceBt2020Ncl
	default:
		return astiav.ColorSpaceUnspecified
	}
}

// colorOptions returns the primaries and transfer option values matching
// the color space; empty if libav should keep its defaults.
func colorOptions(c types.ColorSpace) (primaries, trc string) {
	switch c {
	case types.ColorSpaceBT601:
		return "smpte170m", "smpte170m"
	case types.ColorSpaceBT709:
		return "bt709", "bt709"
	case types.ColorSpaceSRGB:
		return "bt709", "iec61966-2-1"
	case types.ColorSpaceBT2100PQ:
		return "bt2020", "smpte2084"
	case types.ColorSpaceBT2100HLG:
		return "bt2020", "arib-std-b67"
	}
	return "", ""
}

func colorRangeToAstiav(r types.ColorRange) astiav.ColorRange {
	switch r {
	case types.ColorRangePartial:
		return astiav.ColorRangeMpeg
	case types.ColorRangeFull:
		return astiav.ColorRangeJpeg
	default:
		return astiav.ColorRangeUnspecified
	}
}

func rationalToAstiav(r types.Rational) astiav.Rational {
	return astiav.NewRational(r.Num, r.Den)
}

func mediaTypeFromAstiav(t astiav.MediaType) types.MediaType {
	switch t {
	case astiav.MediaTypeVideo:
		return types.MediaTypeVideo
	case astiav.MediaTypeAudio:
		return types.MediaTypeAudio
	default:
		return types.MediaTypeUnknown
	}
}

func threadTypeToAstiav(t encoder.ThreadType) astiav.ThreadType {
	var r astiav.ThreadType
	if t&encoder.ThreadTypeFrame != 0 {
		r |= astiav.ThreadTypeFrame
	}
	if t&encoder.ThreadTypeSlice != 0 {
		r |= astiav.ThreadTypeSlice
	}
	return r
}

func capabilitiesFromAstiav(caps astiav.CodecCapabilities, intraOnly bool) encoder.Capabilities {
	var r encoder.Capabilities
	for _, m := range []struct {
		From astiav.CodecCapabilities
		To   encoder.Capabilities
	}{
		{astiav.CodecCapabilities(astiav.CodecCapabilityDelay), encoder.CapabilityDelay},
		{astiav.CodecCapabilities(astiav.CodecCapabilityFrameThreads), encoder.CapabilityFrameThreads},
		{astiav.CodecCapabilities(astiav.CodecCapabilitySliceThreads), encoder.CapabilitySliceThreads},
		{astiav.CodecCapabilities(astiav.CodecCapabilityHardware), encoder.CapabilityHardware},
		{astiav.CodecCapabilities(astiav.CodecCapabilityEncoderFlush), encoder.CapabilityEncoderFlush},
	} {
		if caps&m.From != 0 {
			r |= m.To
		}
	}
	if intraOnly {
		r |= encoder.CapabilityIntraOnly
	}
	return r
}

func hardwarePixelFormat(t types.HardwareDeviceType) types.PixelFormat {
	switch t {
	case types.HardwareDeviceTypeCUDA:
		return types.PixelFormatCUDA
	case types.HardwareDeviceTypeD3D11VA:
		return types.PixelFormatD3D11
	case types.HardwareDeviceTypeVAAPI:
		return types.PixelFormatVAAPI
	case types.HardwareDeviceTypeVideoToolbox:
		return types.PixelFormatVideoToolbox
	}
	return types.PixelFormatNone
}

// mapError translates the libav result codes of the send/receive protocol.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, astiav.ErrEagain):
		return encoder.ErrAgain
	case errors.Is(err, astiav.ErrEof):
		return encoder.ErrEOF
	default:
		return err
	}
}
