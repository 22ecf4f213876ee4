package gfx

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/ffencoder/types"
)

func TestDoExclusive(t *testing.T) {
	ctx := context.Background()
	dev := NewDevice(types.HardwareDeviceTypeD3D11VA, "0", nil)

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Do(ctx, dev, func() {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxSeen)
}

func TestDoNil(t *testing.T) {
	require.Equal(t, 42, DoR1(context.Background(), nil, func() int { return 42 }))
}

func TestReadTextureWithoutReader(t *testing.T) {
	dev := NewDevice(types.HardwareDeviceTypeCUDA, "", nil)
	_, next, err := dev.ReadTexture(context.Background(), 1, 7)
	require.Error(t, err)
	require.Equal(t, uint64(7), next)
}
