package libav

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/unsafetools"
)

// CodecContext is an encoder.CodecContext backed by an AVCodecContext.
//
// Until Open options are collected into a dictionary which is consumed by
// avcodec_open2; afterwards they are applied to the live context.
type CodecContext struct {
	codec        *Codec
	codecContext *astiav.CodecContext
	closer       *astikit.Closer

	config  encoder.ContextConfig
	applied encoder.ContextConfig
	// touched is false until the first ApplyConfig, so the initial one
	// applies every field.
	touched bool

	options        *astiav.Dictionary
	optionValues   map[string]string
	hardwareFrames *astiav.HardwareFramesContext
	isOpen         bool
}

var _ encoder.CodecContext = (*CodecContext)(nil)

func newCodecContext(
	ctx context.Context,
	codec *Codec,
) (_ret *CodecContext, _err error) {
	logger.Tracef(ctx, "newCodecContext(%s)", codec.Name())
	defer func() { logger.Tracef(ctx, "/newCodecContext(%s): %v", codec.Name(), _err) }()

	c := &CodecContext{
		codec:        codec,
		closer:       astikit.NewCloser(),
		optionValues: map[string]string{},
	}
	c.codecContext = astiav.AllocCodecContext(codec.Codec)
	if c.codecContext == nil {
		return nil, fmt.Errorf("unable to allocate codec context for '%s'", codec.Name())
	}
	c.closer.Add(c.codecContext.Free)
	c.options = astiav.NewDictionary()
	c.closer.Add(c.options.Free)
	return c, nil
}

func (c *CodecContext) Codec() encoder.Codec {
	return c.codec
}

func (c *CodecContext) Config() *encoder.ContextConfig {
	return &c.config
}

func (c *CodecContext) IsOpen() bool {
	return c.isOpen
}

// ApplyConfig pushes the fields changed since the previous call.
func (c *CodecContext) ApplyConfig(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "ApplyConfig")
	defer func() { logger.Tracef(ctx, "/ApplyConfig: %v", _err) }()

	cfg, prev := &c.config, &c.applied
	all := !c.touched
	cc := c.codecContext

	if all || cfg.Width != prev.Width || cfg.Height != prev.Height {
		if c.isOpen {
			logger.Warnf(ctx, "the resolution cannot change while encoding (%dx%d -> %dx%d)", prev.Width, prev.Height, cfg.Width, cfg.Height)
		} else {
			cc.SetWidth(cfg.Width)
			cc.SetHeight(cfg.Height)
		}
	}
	if all || cfg.PixelFormat != prev.PixelFormat {
		pixFmt := pixelFormatToAstiav(cfg.PixelFormat)
		if cfg.PixelFormat != "" && pixFmt == astiav.PixelFormatNone {
			return fmt.Errorf("unknown pixel format '%s'", cfg.PixelFormat)
		}
		cc.SetPixelFormat(pixFmt)
	}
	if all || cfg.ColorSpace != prev.ColorSpace {
		cc.SetColorSpace(colorSpaceToAstiav(cfg.ColorSpace))
		if primaries, trc := colorOptions(cfg.ColorSpace); primaries != "" && !c.isOpen {
			if err := c.SetOption(ctx, "color_primaries", primaries); err != nil {
				return err
			}
			if err := c.SetOption(ctx, "color_trc", trc); err != nil {
				return err
			}
		}
	}
	if all || cfg.ColorRange != prev.ColorRange {
		cc.SetColorRange(colorRangeToAstiav(cfg.ColorRange))
	}
	if (all || cfg.TimeBase != prev.TimeBase) && cfg.TimeBase.IsValid() {
		cc.SetTimeBase(rationalToAstiav(cfg.TimeBase))
	}
	if (all || cfg.FrameRate != prev.FrameRate) && cfg.FrameRate.IsValid() {
		cc.SetFramerate(rationalToAstiav(cfg.FrameRate))
	}
	if !c.isOpen {
		if all || cfg.ThreadType != prev.ThreadType {
			cc.SetThreadType(threadTypeToAstiav(cfg.ThreadType))
		}
		if all || cfg.ThreadCount != prev.ThreadCount {
			cc.SetThreadCount(cfg.ThreadCount)
		}
		if all || cfg.StrictStdCompliance != prev.StrictStdCompliance {
			if err := c.SetOption(ctx, "strict", strconv.Itoa(int(cfg.StrictStdCompliance))); err != nil {
				return err
			}
		}
	}
	if all || cfg.GOPSize != prev.GOPSize {
		if cfg.GOPSize.IsSet() {
			cc.SetGopSize(cfg.GOPSize.Get())
		}
	}
	if all || cfg.KeyintMin != prev.KeyintMin {
		if cfg.KeyintMin.IsSet() {
			if err := c.SetOption(ctx, "keyint_min", strconv.Itoa(cfg.KeyintMin.Get())); err != nil {
				return err
			}
		}
	}
	// Delay is what the engine expects from the codec; libav computes its own.

	c.applied = *cfg
	c.touched = true
	return nil
}

// SetOption records the option into the open-time dictionary, or applies
// it to the live context once the codec is open.
func (c *CodecContext) SetOption(
	ctx context.Context,
	key string,
	value string,
) (_err error) {
	logger.Tracef(ctx, "SetOption(%s, %s)", key, value)
	defer func() { logger.Tracef(ctx, "/SetOption(%s, %s): %v", key, value, _err) }()

	if !c.isOpen {
		if err := c.options.Set(key, value, 0); err != nil {
			return fmt.Errorf("unable to set option '%s' to '%s': %w", key, value, err)
		}
		c.optionValues[key] = value
		return nil
	}

	ok, err := c.setLiveGenericOption(key, value)
	if err != nil {
		return fmt.Errorf("unable to set option '%s' to '%s': %w", key, value, err)
	}
	if !ok {
		privData := c.codecContext.PrivateData()
		if privData == nil {
			return fmt.Errorf("codec '%s' has no private options, cannot set '%s'", c.codec.Name(), key)
		}
		if err := privData.Options().Set(key, value, 0); err != nil {
			return fmt.Errorf("unable to set option '%s' to '%s': %w", key, value, err)
		}
	}
	c.optionValues[key] = value
	return nil
}

// setLiveGenericOption handles the AVCodecContext fields an open encoder
// may still pick up (e.g. on NVENC reconfiguration). It returns false if
// key is not a generic option, so it belongs to the codec's private ones.
func (c *CodecContext) setLiveGenericOption(key, value string) (bool, error) {
	var set func(int64)
	switch key {
	case "b":
		set = func(v int64) { c.codecContext.SetBitRate(v) }
	case "maxrate":
		set = func(v int64) { c.codecContext.SetRateControlMaxRate(v) }
	case "minrate":
		set = func(v int64) { c.codecContext.SetRateControlMinRate(v) }
	case "bufsize":
		set = func(v int64) { c.codecContext.SetRateControlBufferSize(int(v)) }
	case "g":
		set = func(v int64) { c.codecContext.SetGopSize(int(v)) }
	case "bf":
		set = func(v int64) { c.codecContext.SetMaxBFrames(int(v)) }
	default:
		return setContextOption(c.codecContext, key, value)
	}
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return true, fmt.Errorf("unable to parse '%s' as an integer: %w", value, err)
	}
	set(v)
	return true, nil
}

// Option returns the last value set through SetOption.
func (c *CodecContext) Option(ctx context.Context, key string) (string, bool) {
	v, ok := c.optionValues[key]
	return v, ok
}

func (c *CodecContext) Open(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Open")
	defer func() { logger.Tracef(ctx, "/Open: %v", _err) }()
	if c.isOpen {
		return fmt.Errorf("codec context is already open")
	}
	if err := c.ApplyConfig(ctx); err != nil {
		return fmt.Errorf("unable to apply the configuration: %w", err)
	}
	if c.config.TimeBase.Num == 0 {
		return fmt.Errorf("TimeBase must be set")
	}
	c.codecContext.SetFlags(c.codecContext.Flags() | astiav.CodecContextFlags(astiav.CodecContextFlagLowDelay))

	if logger.IsTraceEnabled(ctx) {
		logger.Tracef(ctx, "codec_context: %s", spew.Sdump(unsafetools.FieldByNameInValue(reflect.ValueOf(c.codecContext), "c").Elem().Elem().Interface()))
	}

	logger.Tracef(ctx, "c.codecContext.Open(%s, %#+v)", c.codec.Name(), c.options)
	if err := c.codecContext.Open(c.codec.Codec, c.options); err != nil {
		return fmt.Errorf("unable to open codec context: %w", err)
	}
	c.isOpen = true

	// avcodec_open2 leaves only the entries nobody consumed
	for key := range c.optionValues {
		if c.options.Get(key, nil, 0) != nil {
			logger.Warnf(ctx, "option '%s' was not recognized by '%s'", key, c.codec.Name())
		}
	}
	return nil
}

func (c *CodecContext) NewFrame(ctx context.Context, align int) (encoder.Frame, error) {
	f := astiav.AllocFrame()
	if f == nil {
		return nil, fmt.Errorf("unable to allocate a frame")
	}
	f.SetWidth(c.config.Width)
	f.SetHeight(c.config.Height)
	f.SetPixelFormat(pixelFormatToAstiav(c.config.PixelFormat))
	if err := f.AllocBuffer(align); err != nil {
		f.Free()
		return nil, fmt.Errorf("unable to allocate a %dx%d %s frame buffer: %w", c.config.Width, c.config.Height, c.config.PixelFormat, err)
	}
	return &Frame{Frame: f}, nil
}

func (c *CodecContext) SendFrame(ctx context.Context, f encoder.Frame) error {
	if f == nil {
		return mapError(c.codecContext.SendFrame(nil))
	}
	frame, ok := f.(*Frame)
	if !ok {
		return fmt.Errorf("unexpected frame type %T", f)
	}
	return mapError(c.codecContext.SendFrame(frame.Frame))
}

func (c *CodecContext) ReceivePacket(ctx context.Context, p encoder.Packet) error {
	pkt, ok := p.(*Packet)
	if !ok {
		return fmt.Errorf("unexpected packet type %T", p)
	}
	err := mapError(c.codecContext.ReceivePacket(pkt.Packet))
	if err == nil {
		pkt.onReceived(ctx)
	}
	return err
}

func (c *CodecContext) ExtraData() []byte {
	return c.codecContext.ExtraData()
}

// setHardwareFrames binds a hardware frames context; the context is freed
// together with the codec context.
func (c *CodecContext) setHardwareFrames(hfc *astiav.HardwareFramesContext) {
	c.hardwareFrames = hfc
	c.codecContext.SetHardwareFramesContext(hfc)
	c.closer.Add(hfc.Free)
}

func (c *CodecContext) Close(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Close")
	defer func() { logger.Tracef(ctx, "/Close: %v", _err) }()
	caps := c.codec.Codec.Capabilities()
	if c.isOpen && caps&astiav.CodecCapabilities(astiav.CodecCapabilityEncoderFlush) != 0 {
		logger.Tracef(ctx, "flushing buffers")
		c.codecContext.FlushBuffers()
	}
	c.isOpen = false
	return c.closer.Close()
}
