package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPictureNV12(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})

	p := newPictureNV12(img)
	require.Equal(t, []int{3, 4}, p.Strides)
	require.Len(t, p.Planes[0], 9)
	require.Len(t, p.Planes[1], 8)

	// limited range: black is 16, white is 235
	require.Equal(t, byte(16), p.Planes[0][0])
	require.Equal(t, byte(235), p.Planes[0][1])
	for _, v := range p.Planes[1] {
		require.InDelta(t, 128, int(v), 1)
	}
}

func TestSyntheticImageMoves(t *testing.T) {
	a := syntheticImage(16, 2, 0)
	b := syntheticImage(16, 2, 1)
	require.NotEqual(t, a.At(1, 0), b.At(1, 0))
	require.Equal(t, a.At(2, 0), b.At(1, 0))
}
