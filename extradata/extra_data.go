// Package extradata splits encoder output into out-of-band codec headers,
// supplemental enhancement information and payload.
package extradata

import (
	"bytes"
	"fmt"
)

// Raw is a codec-level header blob as reported by an encoder.
type Raw []byte

func (b Raw) Equal(cmp Raw) bool {
	return bytes.Equal(b, cmp)
}

func (b Raw) String() string {
	if len(b) == 0 {
		return "<empty>"
	}
	if FindStartCode(b, 0) != 0 {
		return fmt.Sprintf("<opaque, len:%d>", len(b))
	}
	var parts []string
	ForEachNALU(b, func(nalu []byte) bool {
		parts = append(parts, fmt.Sprintf("%d:%d", nalu[0], len(nalu)))
		return true
	})
	return fmt.Sprintf("<annex-b, nalus:%v>", parts)
}

// Family selects the bitstream rules for a codec.
type Family int

const (
	FamilyOther = Family(iota)
	FamilyH264
	FamilyHEVC
)

func (f Family) String() string {
	switch f {
	case FamilyH264:
		return "h264"
	case FamilyHEVC:
		return "hevc"
	default:
		return "other"
	}
}

// FamilyFromCodecID maps a libav codec id name ("h264", "hevc", ...).
func FamilyFromCodecID(name string) Family {
	switch name {
	case "h264":
		return FamilyH264
	case "hevc", "h265":
		return FamilyHEVC
	}
	return FamilyOther
}

// Split sorts the NAL units of an Annex-B access unit into parameter
// sets (header), SEI messages (sei) and everything else (payload). Each
// output is a standalone Annex-B stream with 4-byte start codes and is
// nil if nothing fell into it. FamilyOther yields nothing.
func Split(family Family, data []byte) (header, sei, payload []byte) {
	switch family {
	case FamilyH264:
		ForEachNALU(data, func(nalu []byte) bool {
			switch t := H264NALUType(nalu); {
			case t.IsParameterSet():
				header = AppendNALU(header, nalu)
			case t == H264NalUnitTypeSEI:
				sei = AppendNALU(sei, nalu)
			default:
				payload = AppendNALU(payload, nalu)
			}
			return true
		})
	case FamilyHEVC:
		ForEachNALU(data, func(nalu []byte) bool {
			switch t := H265NALUType(nalu); {
			case t.IsParameterSet():
				header = AppendNALU(header, nalu)
			case t.IsSEI():
				sei = AppendNALU(sei, nalu)
			default:
				payload = AppendNALU(payload, nalu)
			}
			return true
		})
	}
	return
}

// IsFiller reports whether the NAL unit is filler data for the family.
func IsFiller(family Family, nalu []byte) bool {
	switch family {
	case FamilyH264:
		return H264NALUType(nalu) == H264NalUnitTypeFiller
	case FamilyHEVC:
		return H265NALUType(nalu) == H265NalUnitTypeFD
	}
	return false
}

// StripFiller returns data without filler NAL units. The input is
// returned unchanged if it has none, so the common case does not copy.
func StripFiller(family Family, data []byte) []byte {
	if family == FamilyOther {
		return data
	}
	hasFiller := false
	ForEachNALU(data, func(nalu []byte) bool {
		hasFiller = IsFiller(family, nalu)
		return !hasFiller
	})
	if !hasFiller {
		return data
	}

	result := make([]byte, 0, len(data))
	ForEachNALU(data, func(nalu []byte) bool {
		if !IsFiller(family, nalu) {
			result = AppendNALU(result, nalu)
		}
		return true
	})
	return result
}
