package libav

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/types"
)

// hardwareFramesPoolSize is the initial amount of surfaces in the frames context.
const hardwareFramesPoolSize = 20

// Hardware uploads shared textures into hardware surfaces of the device
// the host graphics context runs on.
type Hardware struct {
	graphics              gfx.Context
	deviceType            types.HardwareDeviceType
	pixelFormat           types.PixelFormat
	hardwareDeviceContext *astiav.HardwareDeviceContext
	codecContext          *CodecContext
	// uploadFrame is the CPU staging frame textures are copied into.
	uploadFrame *astiav.Frame
}

var _ encoder.Hardware = (*Hardware)(nil)

func newHardware(
	ctx context.Context,
	g gfx.Context,
) (_ret *Hardware, _err error) {
	if g == nil {
		return nil, fmt.Errorf("no graphics context")
	}
	deviceType, deviceName := g.DeviceType(), g.DeviceName()
	logger.Tracef(ctx, "newHardware(%s, '%s')", deviceType, deviceName)
	defer func() { logger.Tracef(ctx, "/newHardware(%s, '%s'): %v", deviceType, deviceName, _err) }()

	pixFmt := hardwarePixelFormat(deviceType)
	if pixFmt == types.PixelFormatNone {
		return nil, fmt.Errorf("hardware device type '%s' is not supported", deviceType)
	}

	hwDevCtx, err := astiav.CreateHardwareDeviceContext(
		astiav.HardwareDeviceType(deviceType),
		deviceName,
		nil,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create hardware (%s:%s) device context: %w", deviceType, deviceName, err)
	}
	logger.Tracef(ctx, "HardwareDeviceContext: %p", hwDevCtx)
	return &Hardware{
		graphics:              g,
		deviceType:            deviceType,
		pixelFormat:           pixFmt,
		hardwareDeviceContext: hwDevCtx,
	}, nil
}

func (h *Hardware) DeviceType() types.HardwareDeviceType {
	return h.deviceType
}

func (h *Hardware) PixelFormat() types.PixelFormat {
	return h.pixelFormat
}

func (h *Hardware) Setup(ctx context.Context, encCC encoder.CodecContext) (_err error) {
	logger.Tracef(ctx, "Setup")
	defer func() { logger.Tracef(ctx, "/Setup: %v", _err) }()

	cc, ok := encCC.(*CodecContext)
	if !ok {
		return fmt.Errorf("unexpected codec context type %T", encCC)
	}
	cfg := cc.Config()

	hfc := astiav.AllocHardwareFramesContext(h.hardwareDeviceContext)
	if hfc == nil {
		return fmt.Errorf("unable to allocate a hardware frames context")
	}
	hfc.SetHardwarePixelFormat(pixelFormatToAstiav(h.pixelFormat))
	hfc.SetSoftwarePixelFormat(pixelFormatToAstiav(cfg.SoftwarePixelFormat))
	hfc.SetWidth(cfg.Width)
	hfc.SetHeight(cfg.Height)
	hfc.SetInitialPoolSize(hardwareFramesPoolSize)
	if err := hfc.Initialize(); err != nil {
		hfc.Free()
		return fmt.Errorf("unable to initialize the %dx%d %s/%s frames context: %w", cfg.Width, cfg.Height, h.pixelFormat, cfg.SoftwarePixelFormat, err)
	}
	cc.setHardwareFrames(hfc)
	h.codecContext = cc

	uploadFrame, err := newSoftwareFrame(cfg.Width, cfg.Height, cfg.SoftwarePixelFormat, 0)
	if err != nil {
		return fmt.Errorf("unable to allocate the upload frame: %w", err)
	}
	if h.uploadFrame != nil {
		h.uploadFrame.Free()
	}
	h.uploadFrame = uploadFrame
	return nil
}

func (h *Hardware) NewFrame(ctx context.Context, encCC encoder.CodecContext) (encoder.Frame, error) {
	cc, ok := encCC.(*CodecContext)
	if !ok {
		return nil, fmt.Errorf("unexpected codec context type %T", encCC)
	}
	if cc.hardwareFrames == nil {
		return nil, fmt.Errorf("the codec context has no hardware frames context")
	}
	f := astiav.AllocFrame()
	if f == nil {
		return nil, fmt.Errorf("unable to allocate a frame")
	}
	if err := f.AllocHardwareBuffer(cc.hardwareFrames); err != nil {
		f.Free()
		return nil, fmt.Errorf("unable to allocate a hardware surface: %w", err)
	}
	return &Frame{Frame: f}, nil
}

// CopyFromTexture reads the shared texture through the graphics context
// and uploads it into dst. The caller holds the graphics context.
func (h *Hardware) CopyFromTexture(
	ctx context.Context,
	handle uint64,
	lockKey uint64,
	dst encoder.Frame,
) (_ uint64, _err error) {
	logger.Tracef(ctx, "CopyFromTexture(%d, %d)", handle, lockKey)
	defer func() { logger.Tracef(ctx, "/CopyFromTexture(%d, %d): %v", handle, lockKey, _err) }()

	frame, ok := dst.(*Frame)
	if !ok {
		return lockKey, fmt.Errorf("unexpected frame type %T", dst)
	}
	if h.uploadFrame == nil {
		return lockKey, fmt.Errorf("hardware is not set up")
	}

	tex, nextKey, err := h.graphics.ReadTexture(ctx, handle, lockKey)
	if err != nil {
		return nextKey, fmt.Errorf("unable to read texture %d: %w", handle, err)
	}
	if tex.Width != h.uploadFrame.Width() || tex.Height != h.uploadFrame.Height() {
		return nextKey, fmt.Errorf("texture is %dx%d, but the encoder expects %dx%d", tex.Width, tex.Height, h.uploadFrame.Width(), h.uploadFrame.Height())
	}
	if swFmt := h.codecContext.config.SoftwarePixelFormat; tex.Format != swFmt {
		return nextKey, fmt.Errorf("texture format is %s, but the encoder expects %s", tex.Format, swFmt)
	}
	if err := writePlanes(h.uploadFrame, tex.Planes, tex.Strides); err != nil {
		return nextKey, fmt.Errorf("unable to stage the texture: %w", err)
	}
	if err := h.uploadFrame.TransferHardwareData(frame.Frame); err != nil {
		return nextKey, fmt.Errorf("unable to upload the texture to the %s surface: %w", h.deviceType, err)
	}
	return nextKey, nil
}

func (h *Hardware) Close(ctx context.Context) error {
	logger.Tracef(ctx, "Close")
	defer logger.Tracef(ctx, "/Close")
	if h.uploadFrame != nil {
		h.uploadFrame.Free()
		h.uploadFrame = nil
	}
	if h.hardwareDeviceContext != nil {
		h.hardwareDeviceContext.Free()
		h.hardwareDeviceContext = nil
	}
	return nil
}
