// Package gfx models the host's shared graphics context: an explicit
// handle that must be held exclusively while touching device state.
package gfx

import (
	"context"
	"fmt"
	"math"

	"github.com/xaionaro-go/ffencoder/types"
	"github.com/xaionaro-go/xsync"
)

// InvalidHandle is what a host passes when it has no shared texture.
const InvalidHandle = uint64(math.MaxUint32)

// Texture is a CPU-visible copy of a shared texture.
type Texture struct {
	Width   int
	Height  int
	Format  types.PixelFormat
	Planes  [][]byte
	Strides []int
}

type Context interface {
	DeviceType() types.HardwareDeviceType
	DeviceName() string

	Lock(ctx context.Context)
	Unlock(ctx context.Context)

	// ReadTexture acquires the shared texture with lockKey and returns its
	// contents together with the key to release it with.
	ReadTexture(ctx context.Context, handle uint64, lockKey uint64) (*Texture, uint64, error)
}

// Do runs fn while holding the graphics context exclusively.
// A nil context runs fn directly.
func Do(ctx context.Context, g Context, fn func()) {
	if g == nil {
		fn()
		return
	}
	g.Lock(ctx)
	defer g.Unlock(ctx)
	fn()
}

// DoR1 is Do for functions returning a value.
func DoR1[T any](ctx context.Context, g Context, fn func() T) T {
	var r T
	Do(ctx, g, func() {
		r = fn()
	})
	return r
}

func DoR2[T0, T1 any](ctx context.Context, g Context, fn func() (T0, T1)) (T0, T1) {
	var (
		r0 T0
		r1 T1
	)
	Do(ctx, g, func() {
		r0, r1 = fn()
	})
	return r0, r1
}

type TextureReaderFunc func(ctx context.Context, handle uint64, lockKey uint64) (*Texture, uint64, error)

// Device is a Context backed by a mutex and an optional texture reader.
type Device struct {
	Type          types.HardwareDeviceType
	Name          string
	TextureReader TextureReaderFunc

	locker xsync.Mutex
}

var _ Context = (*Device)(nil)

func NewDevice(
	deviceType types.HardwareDeviceType,
	name string,
	textureReader TextureReaderFunc,
) *Device {
	return &Device{
		Type:          deviceType,
		Name:          name,
		TextureReader: textureReader,
	}
}

func (d *Device) DeviceType() types.HardwareDeviceType {
	return d.Type
}

func (d *Device) DeviceName() string {
	return d.Name
}

func (d *Device) Lock(ctx context.Context) {
	d.locker.ManualLock(xsync.WithNoLogging(ctx, true))
}

func (d *Device) Unlock(ctx context.Context) {
	d.locker.ManualUnlock(xsync.WithNoLogging(ctx, true))
}

func (d *Device) ReadTexture(ctx context.Context, handle uint64, lockKey uint64) (*Texture, uint64, error) {
	if d.TextureReader == nil {
		return nil, lockKey, fmt.Errorf("device %s:'%s' cannot share textures", d.Type, d.Name)
	}
	return d.TextureReader(ctx, handle, lockKey)
}

func (d *Device) String() string {
	return fmt.Sprintf("%s:%s", d.Type, d.Name)
}
