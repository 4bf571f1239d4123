package rend3

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/draw"
)

// textureFromImage converts a CPU-side image into an RGBA8 GPU texture,
// downscaling with a bilinear filter when the image exceeds the hardware's
// maximum 2-D texture dimension.
func textureFromImage(ctx *GpuContext, img image.Image, label string) *InternalTexture {
	bounds := img.Bounds()
	width := uint32(bounds.Dx())
	height := uint32(bounds.Dy())

	if width > ctx.MaxTextureDimension2D || height > ctx.MaxTextureDimension2D {
		scale := float64(ctx.MaxTextureDimension2D) / float64(maxU32(width, height))
		width = uint32(float64(width) * scale)
		height = uint32(float64(height) * scale)
		scaled := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
		bounds = scaled.Bounds()
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
		draw.Copy(rgba, image.Point{}, img, bounds, draw.Src, nil)
	}

	extent := wgpu.Extent3D{
		Width:              width,
		Height:             height,
		DepthOrArrayLayers: 1,
	}
	texture, err := ctx.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	err = ctx.Queue.WriteTexture(
		texture.AsImageCopy(),
		rgba.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&extent,
	)
	if err != nil {
		panic(err)
	}

	return &InternalTexture{
		Texture:  texture,
		View:     view,
		Size:     extent,
		Format:   wgpu.TextureFormatRGBA8UnormSrgb,
		MipCount: 1,
	}
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
