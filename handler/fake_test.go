package handler

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/types"
)

type fakeCodec struct {
	name   string
	idName string
	caps   encoder.Capabilities
}

func (c *fakeCodec) Name() string                       { return c.name }
func (c *fakeCodec) LongName() string                   { return "" }
func (c *fakeCodec) IDName() string                     { return c.idName }
func (c *fakeCodec) MediaType() types.MediaType         { return types.MediaTypeVideo }
func (c *fakeCodec) Capabilities() encoder.Capabilities { return c.caps }
func (c *fakeCodec) PixelFormats() []types.PixelFormat  { return nil }

type fakeBackend struct {
	codecs   []*fakeCodec
	contexts []*fakeContext
}

func (b *fakeBackend) Codecs(ctx context.Context) []encoder.Codec {
	var result []encoder.Codec
	for _, c := range b.codecs {
		result = append(result, c)
	}
	return result
}

func (b *fakeBackend) FindEncoder(ctx context.Context, name string) encoder.Codec {
	return nil
}

func (b *fakeBackend) NewContext(ctx context.Context, codec encoder.Codec) (encoder.CodecContext, error) {
	cc := &fakeContext{codec: codec, options: map[string]string{}}
	b.contexts = append(b.contexts, cc)
	return cc, nil
}

func (b *fakeBackend) NewPacket(ctx context.Context, bufferSize int) (encoder.Packet, error) {
	return &fakePacket{}, nil
}

func (b *fakeBackend) NewScaler(ctx context.Context, src, dst encoder.ScalerConfig) (encoder.Scaler, error) {
	return &fakeScaler{source: src, target: dst}, nil
}

func (b *fakeBackend) NewHardware(ctx context.Context, g gfx.Context) (encoder.Hardware, error) {
	return nil, fmt.Errorf("no hardware in tests")
}

type fakeContext struct {
	codec   encoder.Codec
	config  encoder.ContextConfig
	options map[string]string
	isOpen  bool
}

func (cc *fakeContext) Codec() encoder.Codec                  { return cc.codec }
func (cc *fakeContext) Config() *encoder.ContextConfig        { return &cc.config }
func (cc *fakeContext) ApplyConfig(ctx context.Context) error { return nil }
func (cc *fakeContext) Open(ctx context.Context) error        { cc.isOpen = true; return nil }
func (cc *fakeContext) IsOpen() bool                          { return cc.isOpen }
func (cc *fakeContext) ExtraData() []byte                     { return nil }
func (cc *fakeContext) Close(ctx context.Context) error       { return nil }

func (cc *fakeContext) SetOption(ctx context.Context, key, value string) error {
	cc.options[key] = value
	return nil
}

func (cc *fakeContext) Option(ctx context.Context, key string) (string, bool) {
	v, ok := cc.options[key]
	return v, ok
}

func (cc *fakeContext) NewFrame(ctx context.Context, align int) (encoder.Frame, error) {
	return nil, fmt.Errorf("not needed")
}

func (cc *fakeContext) SendFrame(ctx context.Context, f encoder.Frame) error {
	return encoder.ErrEOF
}

func (cc *fakeContext) ReceivePacket(ctx context.Context, pkt encoder.Packet) error {
	return encoder.ErrEOF
}

type fakePacket struct {
	data []byte
}

func (p *fakePacket) Data() []byte                             { return p.data }
func (p *fakePacket) SetData(b []byte) error                   { p.data = b; return nil }
func (p *fakePacket) PTS() int64                               { return 0 }
func (p *fakePacket) DTS() int64                               { return 0 }
func (p *fakePacket) IsKeyFrame() bool                         { return false }
func (p *fakePacket) PictureType() (encoder.PictureType, bool) { return 0, false }
func (p *fakePacket) Unref()                                   {}
func (p *fakePacket) Free()                                    {}

type fakeScaler struct {
	source encoder.ScalerConfig
	target encoder.ScalerConfig
}

func (s *fakeScaler) Source() encoder.ScalerConfig { return s.source }
func (s *fakeScaler) Target() encoder.ScalerConfig { return s.target }
func (s *fakeScaler) Close() error                 { return nil }

func (s *fakeScaler) Scale(ctx context.Context, planes [][]byte, strides []int, dst encoder.Frame) error {
	return nil
}

func newTestInstance(
	backend *fakeBackend,
	codec *fakeCodec,
	h encoder.Handler,
	s func(f *encoder.Factory) *encoder.InstanceParams,
) (*encoder.Instance, *fakeContext, error) {
	f := encoder.NewFactory(context.Background(), backend, codec, h, encoder.OptionHardwareConcurrency{Threads: 2})
	params := s(f)
	inst, err := f.NewInstance(context.Background(), *params)
	if err != nil {
		return nil, nil, err
	}
	return inst, backend.contexts[len(backend.contexts)-1], nil
}

func testVideoInfo() encoder.VideoInfo {
	return encoder.VideoInfo{
		Width:     1920,
		Height:    1080,
		Format:    types.PixelFormatNV12,
		FrameRate: types.Rational{Num: 60, Den: 1},
	}
}
