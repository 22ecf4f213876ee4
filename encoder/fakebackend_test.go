package encoder

import (
	"context"
	"fmt"
	"time"

	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/types"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeCodec struct {
	name      string
	longName  string
	idName    string
	mediaType types.MediaType
	caps      Capabilities
	formats   []types.PixelFormat
}

var _ Codec = (*fakeCodec)(nil)

func (c *fakeCodec) Name() string                      { return c.name }
func (c *fakeCodec) LongName() string                  { return c.longName }
func (c *fakeCodec) IDName() string                    { return c.idName }
func (c *fakeCodec) MediaType() types.MediaType        { return c.mediaType }
func (c *fakeCodec) Capabilities() Capabilities        { return c.caps }
func (c *fakeCodec) PixelFormats() []types.PixelFormat { return c.formats }

type fakeBackend struct {
	codecs []*fakeCodec

	// delay is how many frames a new context keeps before emitting packets.
	delay          int
	capacity       int
	extraData      []byte
	packetData     func(pts int64, index int) []byte
	pictureType    func(pts int64) (PictureType, bool)
	newContextErr  error
	openErr        error
	newHardwareErr error
	newScalerErr   error
	rejectOptions  map[string]bool

	contexts []*fakeContext
	scalers  []*fakeScaler
	hardware []*fakeHardware
	packets  []*fakePacket
}

var _ Backend = (*fakeBackend)(nil)

func (b *fakeBackend) Codecs(ctx context.Context) []Codec {
	result := make([]Codec, 0, len(b.codecs))
	for _, c := range b.codecs {
		result = append(result, c)
	}
	return result
}

func (b *fakeBackend) FindEncoder(ctx context.Context, name string) Codec {
	for _, c := range b.codecs {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (b *fakeBackend) NewContext(ctx context.Context, codec Codec) (CodecContext, error) {
	if b.newContextErr != nil {
		return nil, b.newContextErr
	}
	cc := &fakeContext{
		backend: b,
		codec:   codec,
		options: map[string]string{},
		delay:   b.delay,
	}
	b.contexts = append(b.contexts, cc)
	return cc, nil
}

func (b *fakeBackend) NewPacket(ctx context.Context, bufferSize int) (Packet, error) {
	pkt := &fakePacket{bufferSize: bufferSize}
	b.packets = append(b.packets, pkt)
	return pkt, nil
}

func (b *fakeBackend) NewScaler(ctx context.Context, src, dst ScalerConfig) (Scaler, error) {
	if b.newScalerErr != nil {
		return nil, b.newScalerErr
	}
	s := &fakeScaler{source: src, target: dst}
	b.scalers = append(b.scalers, s)
	return s, nil
}

func (b *fakeBackend) NewHardware(ctx context.Context, g gfx.Context) (Hardware, error) {
	if b.newHardwareErr != nil {
		return nil, b.newHardwareErr
	}
	hw := &fakeHardware{graphics: g}
	b.hardware = append(b.hardware, hw)
	return hw, nil
}

type fakeContext struct {
	backend *fakeBackend
	codec   Codec
	config  ContextConfig
	applied ContextConfig
	applies int
	options map[string]string
	isOpen  bool
	closed  bool

	delay int
	queue []int64

	// scripted results; a nil entry means the regular behavior
	sendScript    []error
	receiveScript []error
	sendErr       error
	receiveErr    error

	draining       bool
	drainReceives  int
	sentFrames     []int64
	emitted        int
	allocedFrames  []*fakeFrame
	receivedFrames int
}

var _ CodecContext = (*fakeContext)(nil)

func (cc *fakeContext) Codec() Codec           { return cc.codec }
func (cc *fakeContext) Config() *ContextConfig { return &cc.config }
func (cc *fakeContext) IsOpen() bool           { return cc.isOpen }
func (cc *fakeContext) ExtraData() []byte      { return cc.backend.extraData }
func (cc *fakeContext) Option(ctx context.Context, key string) (string, bool) {
	v, ok := cc.options[key]
	return v, ok
}

func (cc *fakeContext) ApplyConfig(ctx context.Context) error {
	cc.applied = cc.config
	cc.applies++
	return nil
}

func (cc *fakeContext) SetOption(ctx context.Context, key, value string) error {
	if cc.backend.rejectOptions[key] {
		return fmt.Errorf("option '%s' not found", key)
	}
	cc.options[key] = value
	return nil
}

func (cc *fakeContext) Open(ctx context.Context) error {
	if cc.backend.openErr != nil {
		return cc.backend.openErr
	}
	cc.isOpen = true
	return nil
}

func (cc *fakeContext) NewFrame(ctx context.Context, align int) (Frame, error) {
	f := &fakeFrame{
		width:  cc.config.Width,
		height: cc.config.Height,
		format: cc.config.PixelFormat,
	}
	cc.allocedFrames = append(cc.allocedFrames, f)
	return f, nil
}

func popScript(script *[]error) (bool, error) {
	if len(*script) == 0 {
		return false, nil
	}
	err := (*script)[0]
	*script = (*script)[1:]
	return err != nil, err
}

func (cc *fakeContext) SendFrame(ctx context.Context, f Frame) error {
	if ok, err := popScript(&cc.sendScript); ok {
		return err
	}
	if cc.sendErr != nil {
		return cc.sendErr
	}
	if f == nil {
		if cc.draining {
			return ErrEOF
		}
		cc.draining = true
		return nil
	}
	if cc.draining {
		return ErrEOF
	}
	if cc.backend.capacity > 0 && len(cc.queue) >= cc.backend.capacity {
		return ErrAgain
	}
	cc.queue = append(cc.queue, f.PTS())
	cc.sentFrames = append(cc.sentFrames, f.PTS())
	return nil
}

func (cc *fakeContext) ReceivePacket(ctx context.Context, pkt Packet) error {
	if ok, err := popScript(&cc.receiveScript); ok {
		return err
	}
	if cc.receiveErr != nil {
		return cc.receiveErr
	}
	switch {
	case cc.draining && len(cc.queue) == 0:
		return ErrEOF
	case cc.draining:
		cc.drainReceives++
	case len(cc.queue) <= cc.delay:
		return ErrAgain
	}
	pts := cc.queue[0]
	cc.queue = cc.queue[1:]

	p := pkt.(*fakePacket)
	p.pts, p.dts = pts, pts
	p.keyFrame = cc.emitted == 0
	p.data = []byte{byte(pts)}
	if cc.backend.packetData != nil {
		p.data = cc.backend.packetData(pts, cc.emitted)
	}
	p.pictureType, p.hasPictureType = PictureTypeNone, false
	if cc.backend.pictureType != nil {
		p.pictureType, p.hasPictureType = cc.backend.pictureType(pts)
	}
	cc.emitted++
	return nil
}

func (cc *fakeContext) Close(ctx context.Context) error {
	cc.closed = true
	return nil
}

type fakeFrame struct {
	width      int
	height     int
	format     types.PixelFormat
	hardware   bool
	pts        int64
	colorSpace types.ColorSpace
	colorRange types.ColorRange
	planes     [][]byte
	freed      bool
}

var _ Frame = (*fakeFrame)(nil)

func (f *fakeFrame) Width() int                     { return f.width }
func (f *fakeFrame) Height() int                    { return f.height }
func (f *fakeFrame) PixelFormat() types.PixelFormat { return f.format }
func (f *fakeFrame) IsHardware() bool               { return f.hardware }
func (f *fakeFrame) PTS() int64                     { return f.pts }
func (f *fakeFrame) SetPTS(pts int64)               { f.pts = pts }
func (f *fakeFrame) Free()                          { f.freed = true }

func (f *fakeFrame) SetColor(space types.ColorSpace, colorRange types.ColorRange) {
	f.colorSpace, f.colorRange = space, colorRange
}

func (f *fakeFrame) WritePlanes(planes [][]byte, strides []int) error {
	if len(planes) != len(strides) {
		return fmt.Errorf("%d planes, but %d strides", len(planes), len(strides))
	}
	f.planes = f.planes[:0]
	for _, plane := range planes {
		f.planes = append(f.planes, append([]byte(nil), plane...))
	}
	return nil
}

type fakePacket struct {
	bufferSize     int
	data           []byte
	pts            int64
	dts            int64
	keyFrame       bool
	pictureType    PictureType
	hasPictureType bool
	freed          bool
}

var _ Packet = (*fakePacket)(nil)

func (p *fakePacket) Data() []byte           { return p.data }
func (p *fakePacket) SetData(b []byte) error { p.data = b; return nil }
func (p *fakePacket) PTS() int64             { return p.pts }
func (p *fakePacket) DTS() int64             { return p.dts }
func (p *fakePacket) IsKeyFrame() bool       { return p.keyFrame }
func (p *fakePacket) Unref()                 { p.data = nil }
func (p *fakePacket) Free()                  { p.freed = true }
func (p *fakePacket) PictureType() (PictureType, bool) {
	return p.pictureType, p.hasPictureType
}

type fakeScaler struct {
	source   ScalerConfig
	target   ScalerConfig
	scaleErr error
	scaled   int
	closed   bool
}

var _ Scaler = (*fakeScaler)(nil)

func (s *fakeScaler) Source() ScalerConfig { return s.source }
func (s *fakeScaler) Target() ScalerConfig { return s.target }

func (s *fakeScaler) Scale(ctx context.Context, planes [][]byte, strides []int, dst Frame) error {
	if s.scaleErr != nil {
		return s.scaleErr
	}
	s.scaled++
	return nil
}

func (s *fakeScaler) Close() error {
	s.closed = true
	return nil
}

type fakeHardware struct {
	graphics gfx.Context
	setupErr error
	copyErr  error
	copies   int
	closed   bool
}

var _ Hardware = (*fakeHardware)(nil)

func (hw *fakeHardware) DeviceType() types.HardwareDeviceType {
	return types.HardwareDeviceTypeCUDA
}

func (hw *fakeHardware) PixelFormat() types.PixelFormat {
	return types.PixelFormatCUDA
}

func (hw *fakeHardware) Setup(ctx context.Context, cc CodecContext) error {
	return hw.setupErr
}

func (hw *fakeHardware) NewFrame(ctx context.Context, cc CodecContext) (Frame, error) {
	cfg := cc.Config()
	return &fakeFrame{width: cfg.Width, height: cfg.Height, format: cfg.PixelFormat, hardware: true}, nil
}

func (hw *fakeHardware) CopyFromTexture(ctx context.Context, handle uint64, lockKey uint64, dst Frame) (uint64, error) {
	if hw.copyErr != nil {
		return lockKey, hw.copyErr
	}
	hw.copies++
	return lockKey + 1, nil
}

func (hw *fakeHardware) Close(ctx context.Context) error {
	hw.closed = true
	return nil
}
