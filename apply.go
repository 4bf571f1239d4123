package rend3

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// SwapInstructionBuffers exchanges the producer and consumer instruction
// buffers. Called once per frame before EvaluateInstructions.
func (r *Renderer) SwapInstructionBuffers() {
	r.instructions.Swap()
}

// EvaluateInstructions drains the consumer buffer and applies every
// instruction, in push order, exactly once. This is the sole place
// instructions touch manager state, and it runs single-threadedly.
func (r *Renderer) EvaluateInstructions() {
	for _, instr := range r.instructions.Drain() {
		if r.logger != nil && r.logger.DebugEnabled() {
			r.logger.Debugf("apply %T from %s:%d", instr.Kind, instr.Origin.File, instr.Origin.Line)
		}
		r.applyInstruction(instr)
	}
}

// applyInstruction routes one instruction to its owning manager. An
// unrecognized kind means the closed instruction set was extended without
// extending this routing, which is a bug here, not in the caller.
func (r *Renderer) applyInstruction(instr Instruction) {
	var device *wgpu.Device
	var queue *wgpu.Queue
	if r.ctx != nil {
		device = r.ctx.Device
		queue = r.ctx.Queue
	}

	switch kind := instr.Kind.(type) {
	case AddSkeleton:
		r.skeletons.Add(kind.Handle, kind.Skeleton)
	case AddTexture2D:
		r.textures2D.AddIdx(kind.Handle.Idx, kind.Texture)
		if kind.CmdBuf != nil {
			queue.Submit(kind.CmdBuf)
		}
	case AddTexture2DFromTexture:
		r.textures2D.AddFromTexture(kind.Handle, kind.Texture)
	case AddTextureCube:
		r.texturesCube.AddIdx(kind.Handle.Idx, kind.Texture)
		if kind.CmdBuf != nil {
			queue.Submit(kind.CmdBuf)
		}
	case AddMaterial:
		kind.FillInvoke(r.materials, device, r.textures2D, kind.Handle)
	case AddObject:
		r.objects.Add(kind.Handle, kind.Object)
	case AddDirectionalLight:
		r.directionalLights.Add(kind.Handle, kind.Light)
	case AddPointLight:
		r.pointLights.Add(kind.Handle, kind.Light)
	case AddGraphData:
		kind.AddInvoke(r.graphStorage)
	case ChangeMaterial:
		kind.ChangeInvoke(r.materials, device, r.textures2D, kind.Handle)
	case ChangeDirectionalLight:
		r.directionalLights.Update(kind.Handle, kind.Change)
	case ChangePointLight:
		r.pointLights.Update(kind.Handle, kind.Change)
	case DeleteMesh:
		r.meshes.Remove(kind.Handle)
	case DeleteSkeleton:
		r.skeletons.Remove(kind.Handle)
	case DeleteTexture2D:
		r.textures2D.RemoveIdx(kind.Handle.Idx)
	case DeleteTextureCube:
		r.texturesCube.RemoveIdx(kind.Handle.Idx)
	case DeleteMaterial:
		r.materials.Remove(kind.Handle)
	case DeleteObject:
		r.objects.Remove(kind.Handle)
	case DeleteDirectionalLight:
		r.directionalLights.Remove(kind.Handle)
	case DeletePointLight:
		r.pointLights.Remove(kind.Handle)
	case DeleteGraphData:
		r.graphStorage.Remove(kind.Handle)
	case SetObjectTransform:
		r.objects.SetTransform(kind.Handle, kind.Transform)
	case SetSkeletonJointDeltas:
		r.skeletons.SetJointDeltas(kind.Handle, kind.JointMatrices)
	case SetAspectRatio:
		r.aspectRatio = kind.Ratio
		r.camera.SetAspectRatio(kind.Ratio)
	case SetCameraData:
		r.camera.SetData(kind.Data)
	case DuplicateObject:
		r.objects.Duplicate(kind.SrcHandle, kind.DstHandle, kind.Change)
	default:
		panic(fmt.Sprintf("rend3: unhandled instruction kind %T pushed at %s:%d",
			instr.Kind, instr.Origin.File, instr.Origin.Line))
	}
}
