package rend3

import (
	"image"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/google/uuid"
)

// RendererOptions configures renderer creation.
type RendererOptions struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
	// Debug enables instruction-level trace logging.
	Debug bool
	// Logger overrides the default stdout logger when non-nil.
	Logger Logger
}

// Renderer owns the instruction queue, every resource manager, and the
// user camera. Arbitrary threads push instructions; all other state is
// owned by the single frame-processing thread.
type Renderer struct {
	id     string
	logger Logger

	window *WindowState
	ctx    *GpuContext

	instructions *InstructionStreamPair

	meshes            *MeshManager
	skeletons         *SkeletonManager
	textures2D        *TextureManager
	texturesCube      *TextureManager
	materials         *MaterialManager
	objects           *ObjectManager
	directionalLights *DirectionalLightManager
	pointLights       *PointLightManager
	graphStorage      *GraphStorage

	camera      CameraState
	aspectRatio float32
}

// NewRenderer opens a window, acquires a device, and builds an empty scene.
func NewRenderer(opts RendererOptions) *Renderer {
	window := createWindowState(opts.WindowWidth, opts.WindowHeight, opts.WindowTitle)
	ctx := createGpuContext(window)

	logger := opts.Logger
	if logger == nil {
		logger = NewDefaultLogger("rend3", opts.Debug)
	}

	r := &Renderer{
		id:                uuid.NewString(),
		logger:            logger,
		window:            window,
		ctx:               ctx,
		instructions:      NewInstructionStreamPair(),
		meshes:            NewMeshManager(),
		skeletons:         NewSkeletonManager(),
		textures2D:        NewTextureManager(),
		texturesCube:      NewTextureManager(),
		materials:         NewMaterialManager(),
		objects:           NewObjectManager(),
		directionalLights: NewDirectionalLightManager(ctx.Device),
		pointLights:       NewPointLightManager(ctx.Device),
		graphStorage:      NewGraphStorage(),
		aspectRatio:       float32(opts.WindowWidth) / float32(opts.WindowHeight),
	}
	r.camera = NewCameraState(Camera{}, r.aspectRatio)

	logger.Infof("renderer %s ready, max 2d texture dimension %d", r.id, ctx.MaxTextureDimension2D)
	return r
}

// Id is the unique identity of this renderer instance, used in debug labels.
func (r *Renderer) Id() string {
	return r.id
}

// Instructions exposes the queue callers push scene mutations into.
func (r *Renderer) Instructions() *InstructionStreamPair {
	return r.instructions
}

// Camera returns the camera state instructions last applied.
func (r *Renderer) Camera() *CameraState {
	return &r.camera
}

// DirectionalLights exposes the directional light manager for render-graph
// stages (bind group assembly, atlas view).
func (r *Renderer) DirectionalLights() *DirectionalLightManager {
	return r.directionalLights
}

// PointLights exposes the point light manager.
func (r *Renderer) PointLights() *PointLightManager {
	return r.pointLights
}

// ProcessInstructions runs the per-frame mutation step: swap the queue
// buffers, then drain and apply everything pushed since the previous frame.
// Must be called from the frame-processing thread only.
func (r *Renderer) ProcessInstructions() {
	r.SwapInstructionBuffers()
	r.EvaluateInstructions()
}

// EvaluateLights repacks the shadow atlas, recomputes shadow cameras, and
// rewrites the GPU light buffers. Returns the atlas side length and the
// shadow descriptors the shadow-rendering stage consumes.
func (r *Renderer) EvaluateLights() (uint32, []ShadowDesc) {
	r.pointLights.Evaluate(r.ctx)
	return r.directionalLights.Evaluate(r.ctx, &r.camera)
}

// TextureFromImage uploads a CPU-side image as an RGBA8 texture, ready to be
// carried by an AddTexture2D instruction. Oversized images are downscaled to
// the hardware limit.
func (r *Renderer) TextureFromImage(img image.Image, label string) *InternalTexture {
	return textureFromImage(r.ctx, img, label)
}

// Release tears down every GPU resource the renderer owns, then the device
// and the window. The renderer is unusable afterwards.
func (r *Renderer) Release() {
	r.directionalLights.release()
	r.pointLights.release()
	if r.ctx != nil {
		r.ctx.release()
	}
	if r.window != nil {
		r.window.windowGlfw.Destroy()
		glfw.Terminate()
	}
}
