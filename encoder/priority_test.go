package encoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketPriority(t *testing.T) {
	for _, tc := range []struct {
		name           string
		keyframe       bool
		pictureType    PictureType
		hasPictureType bool
		priority       Priority
		dropPriority   Priority
	}{
		{"key_without_side_data", true, PictureTypeNone, false, PriorityHighest, PriorityHighest},
		{"delta_without_side_data", false, PictureTypeNone, false, PriorityHigh, PriorityHighest},
		{"idr", true, PictureTypeI, true, PriorityHighest, PriorityHigh},
		{"non_idr_i", false, PictureTypeI, true, PriorityHigh, PriorityHigh},
		{"si", false, PictureTypeSI, true, PriorityHigh, PriorityHigh},
		{"p", false, PictureTypeP, true, PriorityLow, PriorityHigh},
		{"sp", false, PictureTypeSP, true, PriorityLow, PriorityHigh},
		{"b", false, PictureTypeB, true, PriorityDisposable, PriorityHigh},
		{"bi", false, PictureTypeBI, true, PriorityHigh, PriorityHigh},
		{"unknown", false, PictureTypeS, true, PriorityHigh, PriorityHighest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, d := packetPriority(tc.keyframe, tc.pictureType, tc.hasPictureType)
			require.Equal(t, tc.priority, p)
			require.Equal(t, tc.dropPriority, d)
		})
	}
}
