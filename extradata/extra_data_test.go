package extradata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func join(nalus ...[]byte) []byte {
	var b []byte
	for _, n := range nalus {
		b = AppendNALU(b, n)
	}
	return b
}

var (
	h264SPS    = []byte{0x67, 0x42, 0x00, 0x1f}
	h264PPS    = []byte{0x68, 0xce, 0x3c, 0x80}
	h264SEI    = []byte{0x06, 0x05, 0x01, 0xaa}
	h264IDR    = []byte{0x65, 0x88, 0x84, 0x00}
	h264Filler = []byte{0x0c, 0xff, 0xff, 0x80}

	h265VPS = []byte{0x40, 0x01, 0x0c}
	h265SPS = []byte{0x42, 0x01, 0x01}
	h265PPS = []byte{0x44, 0x01, 0xc1}
	h265SEI = []byte{0x4e, 0x01, 0x05}
	h265IDR = []byte{0x26, 0x01, 0xaf}
	h265FD  = []byte{0x4c, 0x01, 0xff}
)

func TestSplitAnnexB(t *testing.T) {
	// mixed 3- and 4-byte start codes
	data := []byte{0, 0, 1, 0x67, 0x42, 0, 0, 0, 1, 0x68, 0xce}
	require.Equal(t, [][]byte{{0x67, 0x42}, {0x68, 0xce}}, SplitAnnexB(data))
	require.Empty(t, SplitAnnexB([]byte{1, 2, 3}))
}

func TestSplitH264(t *testing.T) {
	header, sei, payload := Split(FamilyH264, join(h264SPS, h264PPS, h264SEI, h264IDR))
	require.Equal(t, join(h264SPS, h264PPS), header)
	require.Equal(t, join(h264SEI), sei)
	require.Equal(t, join(h264IDR), payload)
}

func TestSplitHEVC(t *testing.T) {
	header, sei, payload := Split(FamilyHEVC, join(h265VPS, h265SPS, h265PPS, h265SEI, h265IDR))
	require.Equal(t, join(h265VPS, h265SPS, h265PPS), header)
	require.Equal(t, join(h265SEI), sei)
	require.Equal(t, join(h265IDR), payload)
}

func TestSplitOther(t *testing.T) {
	header, sei, payload := Split(FamilyOther, join(h264SPS))
	require.Nil(t, header)
	require.Nil(t, sei)
	require.Nil(t, payload)
}

func TestStripFiller(t *testing.T) {
	in := join(h264IDR, h264Filler)
	require.Equal(t, join(h264IDR), StripFiller(FamilyH264, in))

	clean := join(h264SPS, h264IDR)
	out := StripFiller(FamilyH264, clean)
	require.Equal(t, clean, out)
	require.Same(t, &clean[0], &out[0])

	require.Equal(t, join(h265IDR), StripFiller(FamilyHEVC, join(h265FD, h265IDR)))
	require.Equal(t, in, StripFiller(FamilyOther, in))
}

func TestFamilyFromCodecID(t *testing.T) {
	require.Equal(t, FamilyH264, FamilyFromCodecID("h264"))
	require.Equal(t, FamilyHEVC, FamilyFromCodecID("hevc"))
	require.Equal(t, FamilyOther, FamilyFromCodecID("prores"))
}
