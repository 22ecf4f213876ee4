package libav

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/types"
)

// Codec is an encoder.Codec backed by an AVCodec.
type Codec struct {
	*astiav.Codec
	info encoderInfo
	caps encoder.Capabilities
}

var _ encoder.Codec = (*Codec)(nil)

func findCodec(name string) (*Codec, error) {
	c := astiav.FindEncoderByName(name)
	if c == nil {
		return nil, fmt.Errorf("encoder '%s' is not found", name)
	}
	info, ok := lookupEncoderInfo(name)
	if !ok {
		return nil, fmt.Errorf("unable to describe encoder '%s'", name)
	}
	return &Codec{
		Codec: c,
		info:  info,
		caps:  capabilitiesFromAstiav(c.Capabilities(), info.IntraOnly),
	}, nil
}

func (c *Codec) LongName() string {
	return c.info.LongName
}

func (c *Codec) IDName() string {
	return c.Codec.ID().Name()
}

func (c *Codec) MediaType() types.MediaType {
	return c.info.MediaType
}

func (c *Codec) Capabilities() encoder.Capabilities {
	return c.caps
}

func (c *Codec) PixelFormats() []types.PixelFormat {
	pixFmts := c.Codec.PixelFormats()
	if len(pixFmts) == 0 {
		return nil
	}
	result := make([]types.PixelFormat, 0, len(pixFmts))
	for _, pixFmt := range pixFmts {
		if pixFmt == astiav.PixelFormatNone {
			continue
		}
		result = append(result, pixelFormatFromAstiav(pixFmt))
	}
	return result
}
