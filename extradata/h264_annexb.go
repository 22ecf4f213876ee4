package extradata

type H264NalUnitType uint8

const (
	H264NalUnitTypeUnspecified       H264NalUnitType = 0
	H264NalUnitTypeNonIDR            H264NalUnitType = 1
	H264NalUnitTypeDataA             H264NalUnitType = 2
	H264NalUnitTypeDataB             H264NalUnitType = 3
	H264NalUnitTypeDataC             H264NalUnitType = 4
	H264NalUnitTypeIDR               H264NalUnitType = 5
	H264NalUnitTypeSEI               H264NalUnitType = 6
	H264NalUnitTypeSPS               H264NalUnitType = 7
	H264NalUnitTypePPS               H264NalUnitType = 8
	H264NalUnitTypeAUD               H264NalUnitType = 9
	H264NalUnitTypeEndOfSequence     H264NalUnitType = 10
	H264NalUnitTypeEndOfStream       H264NalUnitType = 11
	H264NalUnitTypeFiller            H264NalUnitType = 12
	H264NalUnitTypeSPSExt            H264NalUnitType = 13
	H264NalUnitTypePrefix            H264NalUnitType = 14
	H264NalUnitTypeSubsetSPS         H264NalUnitType = 15
	H264NalUnitTypeDepthParameterSet H264NalUnitType = 16
	H264NalUnitTypeReserved17        H264NalUnitType = 17
	H264NalUnitTypeReserved18        H264NalUnitType = 18
	H264NalUnitTypeAuxiliary         H264NalUnitType = 19
	H264NalUnitTypeExtension         H264NalUnitType = 20
	H264NalUnitTypeDepthNonIDR       H264NalUnitType = 21
)

func H264NALUType(nalu []byte) H264NalUnitType {
	if len(nalu) == 0 {
		return H264NalUnitTypeUnspecified
	}
	return H264NalUnitType(nalu[0] & 0x1F)
}

func (t H264NalUnitType) IsParameterSet() bool {
	switch t {
	case H264NalUnitTypeSPS, H264NalUnitTypePPS, H264NalUnitTypeSPSExt, H264NalUnitTypeSubsetSPS:
		return true
	}
	return false
}

func (t H264NalUnitType) String() string {
	switch t {
	case H264NalUnitTypeNonIDR:
		return "non-IDR slice"
	case H264NalUnitTypeDataA, H264NalUnitTypeDataB, H264NalUnitTypeDataC:
		return "slice data partition"
	case H264NalUnitTypeIDR:
		return "IDR slice"
	case H264NalUnitTypeSEI:
		return "SEI"
	case H264NalUnitTypeSPS:
		return "SPS"
	case H264NalUnitTypePPS:
		return "PPS"
	case H264NalUnitTypeAUD:
		return "AUD"
	case H264NalUnitTypeEndOfSequence:
		return "end of sequence"
	case H264NalUnitTypeEndOfStream:
		return "end of stream"
	case H264NalUnitTypeFiller:
		return "filler"
	default:
		return "reserved/unknown"
	}
}
