package encoder

import (
	"context"

	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/types"
	"github.com/xaionaro-go/typing"
)

// Backend is the encoding library the engine drives.
type Backend interface {
	// Codecs lists every registered encoder.
	Codecs(ctx context.Context) []Codec
	FindEncoder(ctx context.Context, name string) Codec
	NewContext(ctx context.Context, codec Codec) (CodecContext, error)
	NewPacket(ctx context.Context, bufferSize int) (Packet, error)
	NewScaler(ctx context.Context, src, dst ScalerConfig) (Scaler, error)

	// NewHardware binds a hardware encode path to the host graphics context.
	NewHardware(ctx context.Context, g gfx.Context) (Hardware, error)
}

type Capabilities uint

const (
	// CapabilityDelay means the encoder buffers frames internally and
	// must be drained before it is closed.
	CapabilityDelay = Capabilities(1 << iota)
	CapabilityFrameThreads
	CapabilitySliceThreads
	CapabilityHardware
	CapabilityIntraOnly
	CapabilityEncoderFlush
)

func (c Capabilities) Has(flag Capabilities) bool {
	return c&flag == flag
}

// Codec is an immutable encoder descriptor.
type Codec interface {
	Name() string
	LongName() string
	// IDName is the name of the bitstream format, e.g. "h264" for "h264_nvenc".
	IDName() string
	MediaType() types.MediaType
	Capabilities() Capabilities
	// PixelFormats returns nil if the codec did not declare any.
	PixelFormats() []types.PixelFormat
}

type ThreadType uint

const (
	ThreadTypeFrame = ThreadType(1 << iota)
	ThreadTypeSlice
)

func (t ThreadType) String() string {
	switch t {
	case 0:
		return "none"
	case ThreadTypeFrame:
		return "frame"
	case ThreadTypeSlice:
		return "slice"
	case ThreadTypeFrame | ThreadTypeSlice:
		return "frame+slice"
	}
	return "unknown"
}

type StrictStdCompliance int

const (
	StrictStdComplianceVeryStrict   = StrictStdCompliance(2)
	StrictStdComplianceStrict       = StrictStdCompliance(1)
	StrictStdComplianceNormal       = StrictStdCompliance(0)
	StrictStdComplianceUnofficial   = StrictStdCompliance(-1)
	StrictStdComplianceExperimental = StrictStdCompliance(-2)
)

func (c StrictStdCompliance) String() string {
	switch c {
	case StrictStdComplianceVeryStrict:
		return "very_strict"
	case StrictStdComplianceStrict:
		return "strict"
	case StrictStdComplianceNormal:
		return "normal"
	case StrictStdComplianceUnofficial:
		return "unofficial"
	case StrictStdComplianceExperimental:
		return "experimental"
	}
	return "unknown"
}

// ContextConfig is the mutable configuration of a codec context. Changes
// reach the backend on ApplyConfig.
type ContextConfig struct {
	Width       int
	Height      int
	PixelFormat types.PixelFormat
	// SoftwarePixelFormat is the format of frames uploaded into hardware
	// surfaces; only set on the hardware path.
	SoftwarePixelFormat types.PixelFormat
	ColorSpace          types.ColorSpace
	ColorRange          types.ColorRange
	TimeBase            types.Rational
	FrameRate           types.Rational

	ThreadType  ThreadType
	ThreadCount int
	// Delay is the lag depth: how many frames may be submitted before a
	// packet is expected back.
	Delay int

	GOPSize   typing.Optional[int]
	KeyintMin typing.Optional[int]

	StrictStdCompliance StrictStdCompliance
}

type CodecContext interface {
	Codec() Codec
	Config() *ContextConfig
	ApplyConfig(ctx context.Context) error

	// SetOption sets a backend-specific option, searching nested option
	// holders (e.g. the private codec options) too.
	SetOption(ctx context.Context, key, value string) error
	Option(ctx context.Context, key string) (string, bool)

	Open(ctx context.Context) error
	IsOpen() bool

	// NewFrame allocates a CPU frame matching the configuration.
	NewFrame(ctx context.Context, align int) (Frame, error)

	// SendFrame submits a frame; a nil frame starts draining.
	SendFrame(ctx context.Context, f Frame) error
	ReceivePacket(ctx context.Context, pkt Packet) error

	ExtraData() []byte
	Close(ctx context.Context) error
}

type Frame interface {
	Width() int
	Height() int
	PixelFormat() types.PixelFormat
	IsHardware() bool

	PTS() int64
	SetPTS(pts int64)
	SetColor(space types.ColorSpace, colorRange types.ColorRange)

	// WritePlanes copies raw planes into the frame honoring both sides' strides.
	WritePlanes(planes [][]byte, strides []int) error
	Free()
}

// PictureType follows the numbering of libav's AVPictureType.
type PictureType int

const (
	PictureTypeNone = PictureType(iota)
	PictureTypeI
	PictureTypeP
	PictureTypeB
	PictureTypeS
	PictureTypeSI
	PictureTypeSP
	PictureTypeBI
)

func (t PictureType) String() string {
	switch t {
	case PictureTypeNone:
		return "none"
	case PictureTypeI:
		return "I"
	case PictureTypeP:
		return "P"
	case PictureTypeB:
		return "B"
	case PictureTypeS:
		return "S"
	case PictureTypeSI:
		return "SI"
	case PictureTypeSP:
		return "SP"
	case PictureTypeBI:
		return "BI"
	}
	return "unknown"
}

// Packet is a reusable output buffer; its data is valid until the next
// ReceivePacket into it.
type Packet interface {
	Data() []byte
	// SetData replaces the payload, used by post-processing.
	SetData(b []byte) error
	PTS() int64
	DTS() int64
	IsKeyFrame() bool
	// PictureType returns the picture type reported through the encoder's
	// quality statistics, if any.
	PictureType() (PictureType, bool)
	Unref()
	Free()
}

type ScalerConfig struct {
	Width      int
	Height     int
	Format     types.PixelFormat
	ColorSpace types.ColorSpace
	ColorRange types.ColorRange
}

// Scaler converts raw host planes into encoder frames.
type Scaler interface {
	Source() ScalerConfig
	Target() ScalerConfig
	Scale(ctx context.Context, planes [][]byte, strides []int, dst Frame) error
	Close() error
}

// Hardware is a hardware encode path bound to one graphics context.
type Hardware interface {
	DeviceType() types.HardwareDeviceType
	// PixelFormat is the surface format the codec context must use.
	PixelFormat() types.PixelFormat
	// Setup creates the device and frames contexts of the codec context.
	Setup(ctx context.Context, cc CodecContext) error
	NewFrame(ctx context.Context, cc CodecContext) (Frame, error)
	// CopyFromTexture fills dst from the shared texture and returns the
	// key the texture was released with.
	CopyFromTexture(ctx context.Context, handle uint64, lockKey uint64, dst Frame) (uint64, error)
	Close(ctx context.Context) error
}
