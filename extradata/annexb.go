package extradata

var startCode = []byte{0, 0, 0, 1}

// SplitAnnexB returns copies of the NAL units of an Annex-B byte stream,
// start codes excluded.
func SplitAnnexB(b []byte) [][]byte {
	var nalus [][]byte
	ForEachNALU(b, func(nalu []byte) bool {
		nalus = append(nalus, append([]byte(nil), nalu...))
		return true
	})
	return nalus
}

// ForEachNALU calls fn with every non-empty NAL unit of b (aliasing b)
// until fn returns false.
func ForEachNALU(b []byte, fn func(nalu []byte) bool) {
	n := len(b)
	start := FindStartCode(b, 0)
	for start >= 0 {
		scLen := startCodeLen(b, start)
		next := FindStartCode(b, start+scLen)
		end := n
		if next >= 0 {
			end = next
		}
		if nalu := b[start+scLen : end]; len(nalu) > 0 {
			if !fn(nalu) {
				return
			}
		}
		start = next
	}
}

func startCodeLen(b []byte, at int) int {
	if at+3 < len(b) && b[at+2] == 0 && b[at+3] == 1 {
		return 4
	}
	return 3
}

// FindStartCode returns the offset of the next 00 00 01 or 00 00 00 01
// at or after start, or -1.
func FindStartCode(b []byte, start int) int {
	n := len(b)
	for i := start; i+3 <= n; i++ {
		if b[i] != 0 || b[i+1] != 0 {
			continue
		}
		if b[i+2] == 1 {
			return i
		}
		if i+4 <= n && b[i+2] == 0 && b[i+3] == 1 {
			return i
		}
	}
	return -1
}

// AppendNALU appends the NAL unit to dst with a 4-byte start code.
func AppendNALU(dst, nalu []byte) []byte {
	dst = append(dst, startCode...)
	return append(dst, nalu...)
}
