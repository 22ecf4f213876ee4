package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// picture is an NV12 frame in host memory.
type picture struct {
	Width   int
	Height  int
	Planes  [][]byte
	Strides []int
}

func loadImage(path string, width, height int, blurRadius float64) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open image '%s': %w", path, err)
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		img = transform.Resize(img, width, height, transform.Linear)
	}
	if blurRadius > 0 {
		img = blur.Gaussian(img, blurRadius)
	}
	return img, nil
}

// syntheticImage draws vertical color bars shifted by the frame index.
func syntheticImage(width, height int, frameIdx int) image.Image {
	bars := []color.RGBA{
		{235, 235, 235, 255},
		{235, 235, 16, 255},
		{16, 235, 235, 255},
		{16, 235, 16, 255},
		{235, 16, 235, 255},
		{235, 16, 16, 255},
		{16, 16, 235, 255},
		{16, 16, 16, 255},
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	barWidth := max(width/len(bars), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, bars[((x+frameIdx)/barWidth)%len(bars)])
		}
	}
	return img
}

// newPictureNV12 converts img to limited range BT.709 NV12. Odd sizes are
// rounded up for the chroma plane.
func newPictureNV12(img image.Image) *picture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cw, ch := (w+1)/2, (h+1)/2
	p := &picture{
		Width:   w,
		Height:  h,
		Planes:  [][]byte{make([]byte, w*h), make([]byte, cw*2*ch)},
		Strides: []int{w, cw * 2},
	}
	yPlane, uvPlane := p.Planes[0], p.Planes[1]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl := rgb8(img.At(b.Min.X+x, b.Min.Y+y))
			yPlane[y*w+x] = clamp8(16 + (47*r+157*g+16*bl)/256)
		}
	}
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			// top-left sample of each 2x2 block
			r, g, bl := rgb8(img.At(b.Min.X+x*2, b.Min.Y+y*2))
			uvPlane[y*cw*2+x*2] = clamp8(128 + (-26*r-87*g+112*bl)/256)
			uvPlane[y*cw*2+x*2+1] = clamp8(128 + (112*r-102*g-10*bl)/256)
		}
	}
	return p
}

func rgb8(c color.Color) (int, int, int) {
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}

func clamp8(v int) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return byte(v)
}
