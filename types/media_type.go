package types

import "fmt"

type MediaType int

const (
	MediaTypeUnknown = MediaType(-0x1)
	MediaTypeVideo   = MediaType(0x0)
	MediaTypeAudio   = MediaType(0x1)
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeUnknown:
		return "unknown"
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	}
	return fmt.Sprintf("unexpected_media_type_%d", int(t))
}

func (t MediaType) MarshalYAML() (any, error) {
	return t.String(), nil
}
