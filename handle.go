package rend3

// Raw resource handles are stable slot indices into the sparse storage of
// their owning manager. A handle is valid while its slot is occupied; slots
// are freed by delete instructions and may be reused afterwards.

type RawMeshHandle struct{ Idx int }

type RawSkeletonHandle struct{ Idx int }

type RawTexture2DHandle struct{ Idx int }

type RawTextureCubeHandle struct{ Idx int }

type RawMaterialHandle struct{ Idx int }

type RawObjectHandle struct{ Idx int }

type RawDirectionalLightHandle struct{ Idx int }

type RawPointLightHandle struct{ Idx int }

type RawGraphDataHandle struct{ Idx int }

// DeletableRawResourceHandle turns a raw handle into the delete instruction
// for its resource kind. The set of implementations is closed: exactly the
// nine handle types above.
type DeletableRawResourceHandle interface {
	IntoDeleteInstructionKind() InstructionKind
}

func (h RawMeshHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeleteMesh{Handle: h}
}

func (h RawSkeletonHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeleteSkeleton{Handle: h}
}

func (h RawTexture2DHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeleteTexture2D{Handle: h}
}

func (h RawTextureCubeHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeleteTextureCube{Handle: h}
}

func (h RawMaterialHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeleteMaterial{Handle: h}
}

func (h RawObjectHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeleteObject{Handle: h}
}

func (h RawDirectionalLightHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeleteDirectionalLight{Handle: h}
}

func (h RawPointLightHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeletePointLight{Handle: h}
}

func (h RawGraphDataHandle) IntoDeleteInstructionKind() InstructionKind {
	return DeleteGraphData{Handle: h}
}
