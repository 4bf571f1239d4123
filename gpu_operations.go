package rend3

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// internalShadowDepthFormat is the depth format of the shadow atlas texture.
const internalShadowDepthFormat = wgpu.TextureFormatDepth32Float

// WindowState owns the GLFW window the renderer presents into.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// GpuContext bundles the device-layer objects every manager needs: the
// device for resource creation, the queue for uploads, and the hardware
// limits that bound texture allocation.
type GpuContext struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	Device        *wgpu.Device
	Queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration

	// MaxTextureDimension2D is the hardware's maximum side length for 2-D
	// textures, queried from the adapter at startup.
	MaxTextureDimension2D uint32
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

func createGpuContext(s *WindowState) *GpuContext {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "rend3 device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	// defines how the swapchain behaves (size, format, vsync)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuContext{
		surface:               surface,
		adapter:               adapter,
		Device:                device,
		Queue:                 queue,
		surfaceConfig:         &surfaceConfig,
		MaxTextureDimension2D: adapter.GetLimits().Limits.MaxTextureDimension2D,
	}
}

func (c *GpuContext) release() {
	c.Device.Release()
	c.adapter.Release()
	c.surface.Release()
}

// createShadowTexture allocates the square depth texture backing the shadow
// atlas and returns it with a full view. The old texture, if any, must be
// released by the caller.
func createShadowTexture(device *wgpu.Device, size uint32, label string) (*wgpu.Texture, *wgpu.TextureView) {
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              size,
			Height:             size,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        internalShadowDepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		panic(err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	return texture, view
}
