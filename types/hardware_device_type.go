// Package types holds the plain value types shared by the encoder, the
// handlers and the libav backend.
package types

import (
	"fmt"
	"strings"
)

// HardwareDeviceType names the device API a graphics context is bound to.
// Values follow libav's AVHWDeviceType numbering.
type HardwareDeviceType int

const (
	HardwareDeviceTypeNone         = HardwareDeviceType(0x0)
	HardwareDeviceTypeVDPAU        = HardwareDeviceType(0x1)
	HardwareDeviceTypeCUDA         = HardwareDeviceType(0x2)
	HardwareDeviceTypeVAAPI        = HardwareDeviceType(0x3)
	HardwareDeviceTypeDXVA2        = HardwareDeviceType(0x4)
	HardwareDeviceTypeQSV          = HardwareDeviceType(0x5)
	HardwareDeviceTypeVideoToolbox = HardwareDeviceType(0x6)
	HardwareDeviceTypeD3D11VA      = HardwareDeviceType(0x7)
	HardwareDeviceTypeDRM          = HardwareDeviceType(0x8)
	HardwareDeviceTypeOpenCL       = HardwareDeviceType(0x9)
	HardwareDeviceTypeMediaCodec   = HardwareDeviceType(0xa)
	HardwareDeviceTypeVulkan       = HardwareDeviceType(0xb)
)

var hardwareDeviceTypeNames = map[HardwareDeviceType]string{
	HardwareDeviceTypeNone:         "none",
	HardwareDeviceTypeVDPAU:        "vdpau",
	HardwareDeviceTypeCUDA:         "cuda",
	HardwareDeviceTypeVAAPI:        "vaapi",
	HardwareDeviceTypeDXVA2:        "dxva2",
	HardwareDeviceTypeQSV:          "qsv",
	HardwareDeviceTypeVideoToolbox: "videotoolbox",
	HardwareDeviceTypeD3D11VA:      "d3d11va",
	HardwareDeviceTypeDRM:          "drm",
	HardwareDeviceTypeOpenCL:       "opencl",
	HardwareDeviceTypeMediaCodec:   "mediacodec",
	HardwareDeviceTypeVulkan:       "vulkan",
}

func (t HardwareDeviceType) String() string {
	if name, ok := hardwareDeviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown_%X", int64(t))
}

// HardwareDeviceTypeFromString returns -1 if the name is not known.
func HardwareDeviceTypeFromString(s string) HardwareDeviceType {
	s = strings.Trim(strings.ToLower(s), " \n\r\t")
	for t, name := range hardwareDeviceTypeNames {
		if name == s {
			return t
		}
	}
	return -1
}

func (t HardwareDeviceType) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (t *HardwareDeviceType) UnmarshalText(b []byte) error {
	v := HardwareDeviceTypeFromString(string(b))
	if v < 0 {
		return fmt.Errorf("unknown hardware device type: '%s'", b)
	}
	*t = v
	return nil
}
