package rend3

import (
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// AddMaterialFillInvoke fills a freshly allocated material slot. Creating a
// material needs mutable manager state and the device, neither of which is
// available at enqueue time, so the instruction carries this one-shot
// callback instead of inline data.
type AddMaterialFillInvoke func(man *MaterialManager, device *wgpu.Device, textures *TextureManager, handle RawMaterialHandle)

// ChangeMaterialChangeInvoke mutates an existing material at apply time.
type ChangeMaterialChangeInvoke func(man *MaterialManager, device *wgpu.Device, textures *TextureManager, handle RawMaterialHandle)

// AddGraphDataAddInvoke inserts a value into graph storage at apply time.
type AddGraphDataAddInvoke func(storage *GraphStorage)

// InstructionOrigin records the call site that pushed an instruction. Purely
// diagnostic; never semantically load-bearing.
type InstructionOrigin struct {
	File string
	Line int
}

func captureOrigin(skip int) InstructionOrigin {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return InstructionOrigin{}
	}
	return InstructionOrigin{File: file, Line: line}
}

// Instruction is a single recorded scene mutation, queued for deferred
// application on the frame-processing thread.
type Instruction struct {
	Kind   InstructionKind
	Origin InstructionOrigin
}

// InstructionKind is a closed sum over every scene mutation the renderer
// accepts. Instructions never hold strong references to resources: any
// deletion is itself an instruction pushed after every use of the handle,
// so queue order alone guarantees validity at apply time.
type InstructionKind interface {
	isInstructionKind()
}

type AddSkeleton struct {
	Handle   RawSkeletonHandle
	Skeleton *Skeleton
}

type AddTexture2D struct {
	Handle  RawTexture2DHandle
	Texture *InternalTexture
	CmdBuf  *wgpu.CommandBuffer
}

type AddTexture2DFromTexture struct {
	Handle  RawTexture2DHandle
	Texture TextureFromTexture
}

type AddTextureCube struct {
	Handle  RawTextureCubeHandle
	Texture *InternalTexture
	CmdBuf  *wgpu.CommandBuffer
}

type AddMaterial struct {
	Handle     RawMaterialHandle
	FillInvoke AddMaterialFillInvoke
}

type AddObject struct {
	Handle RawObjectHandle
	Object Object
}

type AddDirectionalLight struct {
	Handle RawDirectionalLightHandle
	Light  DirectionalLight
}

type AddPointLight struct {
	Handle RawPointLightHandle
	Light  PointLight
}

type AddGraphData struct {
	AddInvoke AddGraphDataAddInvoke
}

type ChangeMaterial struct {
	Handle       RawMaterialHandle
	ChangeInvoke ChangeMaterialChangeInvoke
}

type ChangeDirectionalLight struct {
	Handle RawDirectionalLightHandle
	Change DirectionalLightChange
}

type ChangePointLight struct {
	Handle RawPointLightHandle
	Change PointLightChange
}

type DeleteMesh struct{ Handle RawMeshHandle }

type DeleteSkeleton struct{ Handle RawSkeletonHandle }

type DeleteTexture2D struct{ Handle RawTexture2DHandle }

type DeleteTextureCube struct{ Handle RawTextureCubeHandle }

type DeleteMaterial struct{ Handle RawMaterialHandle }

type DeleteObject struct{ Handle RawObjectHandle }

type DeleteDirectionalLight struct{ Handle RawDirectionalLightHandle }

type DeletePointLight struct{ Handle RawPointLightHandle }

type DeleteGraphData struct{ Handle RawGraphDataHandle }

type SetObjectTransform struct {
	Handle    RawObjectHandle
	Transform mgl32.Mat4
}

type SetSkeletonJointDeltas struct {
	Handle        RawSkeletonHandle
	JointMatrices []mgl32.Mat4
}

type SetAspectRatio struct{ Ratio float32 }

type SetCameraData struct{ Data Camera }

type DuplicateObject struct {
	SrcHandle RawObjectHandle
	DstHandle RawObjectHandle
	Change    ObjectChange
}

func (AddSkeleton) isInstructionKind()             {}
func (AddTexture2D) isInstructionKind()            {}
func (AddTexture2DFromTexture) isInstructionKind() {}
func (AddTextureCube) isInstructionKind()          {}
func (AddMaterial) isInstructionKind()             {}
func (AddObject) isInstructionKind()               {}
func (AddDirectionalLight) isInstructionKind()     {}
func (AddPointLight) isInstructionKind()           {}
func (AddGraphData) isInstructionKind()            {}
func (ChangeMaterial) isInstructionKind()          {}
func (ChangeDirectionalLight) isInstructionKind()  {}
func (ChangePointLight) isInstructionKind()        {}
func (DeleteMesh) isInstructionKind()              {}
func (DeleteSkeleton) isInstructionKind()          {}
func (DeleteTexture2D) isInstructionKind()         {}
func (DeleteTextureCube) isInstructionKind()       {}
func (DeleteMaterial) isInstructionKind()          {}
func (DeleteObject) isInstructionKind()            {}
func (DeleteDirectionalLight) isInstructionKind()  {}
func (DeletePointLight) isInstructionKind()        {}
func (DeleteGraphData) isInstructionKind()         {}
func (SetObjectTransform) isInstructionKind()      {}
func (SetSkeletonJointDeltas) isInstructionKind()  {}
func (SetAspectRatio) isInstructionKind()          {}
func (SetCameraData) isInstructionKind()           {}
func (DuplicateObject) isInstructionKind()         {}

// InstructionStreamPair is a double-buffered instruction queue. Arbitrary
// threads append to the producer buffer; once per frame the renderer swaps
// the buffers and drains the consumer buffer single-threadedly.
type InstructionStreamPair struct {
	producerMu sync.Mutex
	producer   []Instruction

	consumerMu sync.Mutex
	consumer   []Instruction
}

func NewInstructionStreamPair() *InstructionStreamPair {
	return &InstructionStreamPair{}
}

// Push appends an instruction to the producer buffer, recording the caller's
// source location. Safe for concurrent use; never blocks on consumer
// activity.
func (p *InstructionStreamPair) Push(kind InstructionKind) {
	origin := captureOrigin(1)
	p.producerMu.Lock()
	p.producer = append(p.producer, Instruction{Kind: kind, Origin: origin})
	p.producerMu.Unlock()
}

// Swap exchanges the producer and consumer buffers in O(1). Both locks are
// taken in a fixed order (producer, then consumer) so concurrent Swap calls
// cannot deadlock, and a concurrent Push lands wholly in either the pre-swap
// or post-swap producer.
func (p *InstructionStreamPair) Swap() {
	p.producerMu.Lock()
	defer p.producerMu.Unlock()
	p.consumerMu.Lock()
	defer p.consumerMu.Unlock()

	p.producer, p.consumer = p.consumer, p.producer
}

// Drain empties the consumer buffer and returns its contents in push order.
// The returned slice is owned by the caller; the buffer's capacity is kept
// for reuse by the next Swap.
func (p *InstructionStreamPair) Drain() []Instruction {
	p.consumerMu.Lock()
	defer p.consumerMu.Unlock()

	out := make([]Instruction, len(p.consumer))
	copy(out, p.consumer)
	p.consumer = p.consumer[:0]
	return out
}
