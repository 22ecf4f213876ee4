package libav

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/logger"
)

// Packet is an encoder.Packet backed by an AVPacket.
//
// The payload is never preallocated: avcodec_receive_packet unreferences
// the packet and attaches a buffer of the encoder. bufferSize is only the
// size a single packet is expected to fit into.
type Packet struct {
	*astiav.Packet
	bufferSize int

	// side data does not survive SetData, so it is read on receive
	pictureType    encoder.PictureType
	hasPictureType bool
}

var _ encoder.Packet = (*Packet)(nil)

func newPacket(bufferSize int) (*Packet, error) {
	pkt := astiav.AllocPacket()
	if pkt == nil {
		return nil, fmt.Errorf("unable to allocate a packet")
	}
	return &Packet{
		Packet:     pkt,
		bufferSize: bufferSize,
	}, nil
}

func (p *Packet) onReceived(ctx context.Context) {
	p.pictureType, p.hasPictureType = qualityStatsPictureType(p.Packet)
	if size := p.Packet.Size(); p.bufferSize > 0 && size > p.bufferSize {
		logger.Debugf(ctx, "received a %s packet, larger than the %s buffer", humanize.IBytes(uint64(size)), humanize.IBytes(uint64(p.bufferSize)))
	}
}

func (p *Packet) SetData(b []byte) error {
	// FromData keeps a reference to b; copy since b may alias the old payload
	data := make([]byte, len(b))
	copy(data, b)
	pts, dts, flags := p.Packet.Pts(), p.Packet.Dts(), p.Packet.Flags()
	p.Packet.Unref()
	if err := p.Packet.FromData(data); err != nil {
		return fmt.Errorf("unable to replace the packet payload: %w", err)
	}
	p.Packet.SetPts(pts)
	p.Packet.SetDts(dts)
	p.Packet.SetFlags(flags)
	return nil
}

func (p *Packet) PTS() int64 {
	return p.Packet.Pts()
}

func (p *Packet) DTS() int64 {
	return p.Packet.Dts()
}

func (p *Packet) IsKeyFrame() bool {
	return p.Packet.Flags().Has(astiav.PacketFlagKey)
}

func (p *Packet) PictureType() (encoder.PictureType, bool) {
	return p.pictureType, p.hasPictureType
}

func (p *Packet) Unref() {
	p.Packet.Unref()
	p.pictureType, p.hasPictureType = encoder.PictureTypeNone, false
}
