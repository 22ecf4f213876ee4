package encoder

import (
	"fmt"

	"github.com/xaionaro-go/ffencoder/types"
)

// Priority is a network priority hint of an encoded packet.
type Priority int

const (
	PriorityDisposable = Priority(0)
	PriorityLow        = Priority(1)
	PriorityHigh       = Priority(2)
	PriorityHighest    = Priority(3)
)

func (p Priority) String() string {
	switch p {
	case PriorityDisposable:
		return "disposable"
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	case PriorityHighest:
		return "highest"
	}
	return fmt.Sprintf("unknown_priority_%d", int(p))
}

// OutputPacket is what an Instance hands out to its host. Data aliases the
// instance's packet buffer and is only valid until the next encode call.
type OutputPacket struct {
	Type         types.MediaType
	PTS          int64
	DTS          int64
	Data         []byte
	Keyframe     bool
	Priority     Priority
	DropPriority Priority
}

// packetPriority derives (priority, drop priority) of a packet. The drop
// priority is the level a packet must be at to recover from dropping this one.
func packetPriority(
	keyframe bool,
	pictureType PictureType,
	hasPictureType bool,
) (Priority, Priority) {
	if !hasPictureType {
		if keyframe {
			return PriorityHighest, PriorityHighest
		}
		return PriorityHigh, PriorityHighest
	}

	switch pictureType {
	case PictureTypeI, PictureTypeSI:
		if keyframe {
			// recovery only through an IDR frame
			return PriorityHighest, PriorityHigh
		}
		return PriorityHigh, PriorityHigh
	case PictureTypeP, PictureTypeSP:
		return PriorityLow, PriorityHigh
	case PictureTypeB:
		return PriorityDisposable, PriorityHigh
	case PictureTypeBI:
		return PriorityHigh, PriorityHigh
	default:
		return PriorityHigh, PriorityHighest
	}
}
