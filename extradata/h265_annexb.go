package extradata

type H265NalUnitType uint8

const (
	H265NalUnitTypeTrailN    H265NalUnitType = 0
	H265NalUnitTypeTrailR    H265NalUnitType = 1
	H265NalUnitTypeTSAN      H265NalUnitType = 2
	H265NalUnitTypeTSAR      H265NalUnitType = 3
	H265NalUnitTypeSTSAN     H265NalUnitType = 4
	H265NalUnitTypeSTSAR     H265NalUnitType = 5
	H265NalUnitTypeRADLN     H265NalUnitType = 6
	H265NalUnitTypeRADLR     H265NalUnitType = 7
	H265NalUnitTypeRASLN     H265NalUnitType = 8
	H265NalUnitTypeRASLR     H265NalUnitType = 9
	H265NalUnitTypeBLAWLP    H265NalUnitType = 16
	H265NalUnitTypeBLAWRADL  H265NalUnitType = 17
	H265NalUnitTypeBLANLP    H265NalUnitType = 18
	H265NalUnitTypeIDRWISCL  H265NalUnitType = 19
	H265NalUnitTypeIDRNLP    H265NalUnitType = 20
	H265NalUnitTypeCRAWNUT   H265NalUnitType = 21
	H265NalUnitTypeVPS       H265NalUnitType = 32
	H265NalUnitTypeSPS       H265NalUnitType = 33
	H265NalUnitTypePPS       H265NalUnitType = 34
	H265NalUnitTypeAUD       H265NalUnitType = 35
	H265NalUnitTypeEOS       H265NalUnitType = 36
	H265NalUnitTypeEOB       H265NalUnitType = 37
	H265NalUnitTypeFD        H265NalUnitType = 38
	H265NalUnitTypePrefixSEI H265NalUnitType = 39
	H265NalUnitTypeSuffixSEI H265NalUnitType = 40
)

func H265NALUType(nalu []byte) H265NalUnitType {
	if len(nalu) < 2 {
		return H265NalUnitType(0xFF)
	}
	return H265NalUnitType((nalu[0] & 0x7E) >> 1)
}

func (t H265NalUnitType) IsParameterSet() bool {
	switch t {
	case H265NalUnitTypeVPS, H265NalUnitTypeSPS, H265NalUnitTypePPS:
		return true
	}
	return false
}

func (t H265NalUnitType) IsSEI() bool {
	return t == H265NalUnitTypePrefixSEI || t == H265NalUnitTypeSuffixSEI
}

func (t H265NalUnitType) String() string {
	return h265NalTypeName(t)
}

func h265NalTypeName(t H265NalUnitType) string {
	switch t {
	case H265NalUnitTypeTrailN, H265NalUnitTypeTrailR:
		return "TRAIL_N/TRAIL_R"
	case H265NalUnitTypeTSAN, H265NalUnitTypeTSAR:
		return "TSA_N/TSA_R"
	case H265NalUnitTypeSTSAN, H265NalUnitTypeSTSAR:
		return "STSA_N/STSA_R"
	case H265NalUnitTypeRADLN, H265NalUnitTypeRADLR:
		return "RADL_N/RADL_R"
	case H265NalUnitTypeRASLN, H265NalUnitTypeRASLR:
		return "RASL_N/RASL_R"
	case H265NalUnitTypeBLAWLP, H265NalUnitTypeBLAWRADL, H265NalUnitTypeBLANLP:
		return "BLA"
	case H265NalUnitTypeIDRWISCL, H265NalUnitTypeIDRNLP:
		return "IDR"
	case H265NalUnitTypeCRAWNUT:
		return "CRA"
	case H265NalUnitTypeVPS:
		return "VPS"
	case H265NalUnitTypeSPS:
		return "SPS"
	case H265NalUnitTypePPS:
		return "PPS"
	case H265NalUnitTypeAUD:
		return "AUD"
	case H265NalUnitTypeEOS:
		return "EOS"
	case H265NalUnitTypeEOB:
		return "EOB"
	case H265NalUnitTypeFD:
		return "FD" // Filler Data
	case H265NalUnitTypePrefixSEI, H265NalUnitTypeSuffixSEI:
		return "SEI"
	default:
		return "other"
	}
}
