package rend3

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionStreamPair_SwapMovesPushesInOrder(t *testing.T) {
	pair := NewInstructionStreamPair()

	pair.Push(SetAspectRatio{Ratio: 1})
	pair.Push(SetAspectRatio{Ratio: 2})
	pair.Push(SetAspectRatio{Ratio: 3})

	pair.Swap()
	drained := pair.Drain()

	if len(drained) != 3 {
		t.Fatalf("Expected 3 instructions after swap, got %d", len(drained))
	}
	for i, instr := range drained {
		ratio := instr.Kind.(SetAspectRatio).Ratio
		if ratio != float32(i+1) {
			t.Errorf("Instruction %d out of order: got ratio %v", i, ratio)
		}
	}
}

func TestInstructionStreamPair_ProducerEmptyAfterSwap(t *testing.T) {
	pair := NewInstructionStreamPair()

	pair.Push(SetAspectRatio{Ratio: 1})
	pair.Swap()
	pair.Drain()

	// Nothing pushed since the swap, so the next swap yields nothing.
	pair.Swap()
	if drained := pair.Drain(); len(drained) != 0 {
		t.Errorf("Expected empty consumer, got %d instructions", len(drained))
	}
}

func TestInstructionStreamPair_SwapBoundary(t *testing.T) {
	pair := NewInstructionStreamPair()

	pair.Push(SetAspectRatio{Ratio: 1})
	pair.Swap()
	pair.Push(SetAspectRatio{Ratio: 2})

	first := pair.Drain()
	require.Len(t, first, 1)
	assert.Equal(t, float32(1), first[0].Kind.(SetAspectRatio).Ratio)

	pair.Swap()
	second := pair.Drain()
	require.Len(t, second, 1)
	assert.Equal(t, float32(2), second[0].Kind.(SetAspectRatio).Ratio)
}

func TestInstructionStreamPair_ConcurrentPushes(t *testing.T) {
	const threads = 8
	const perThread = 1000

	pair := NewInstructionStreamPair()

	var wg sync.WaitGroup
	for thread := 0; thread < threads; thread++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			for i := 0; i < perThread; i++ {
				pair.Push(SetAspectRatio{Ratio: float32(thread*perThread + i)})
			}
		}(thread)
	}
	wg.Wait()

	pair.Swap()
	drained := pair.Drain()
	require.Len(t, drained, threads*perThread, "no instruction may be dropped or duplicated")

	// Set equality: every pushed value appears exactly once.
	seen := make(map[float32]bool, len(drained))
	lastPerThread := make(map[int]int)
	for _, instr := range drained {
		ratio := instr.Kind.(SetAspectRatio).Ratio
		if seen[ratio] {
			t.Fatalf("Duplicate instruction %v", ratio)
		}
		seen[ratio] = true

		// Each thread's own pushes must retain their relative order.
		thread := int(ratio) / perThread
		seq := int(ratio) % perThread
		if prev, ok := lastPerThread[thread]; ok && seq < prev {
			t.Fatalf("Thread %d pushes reordered: %d before %d", thread, prev, seq)
		}
		lastPerThread[thread] = seq
	}
}

func TestInstructionStreamPair_ConcurrentSwaps(t *testing.T) {
	const total = 5000

	pair := NewInstructionStreamPair()
	done := make(chan struct{})

	go func() {
		for i := 0; i < total; i++ {
			pair.Push(SetAspectRatio{Ratio: float32(i)})
		}
		close(done)
	}()

	collected := 0
	for {
		pair.Swap()
		collected += len(pair.Drain())
		select {
		case <-done:
			pair.Swap()
			collected += len(pair.Drain())
			require.Equal(t, total, collected)
			return
		default:
		}
	}
}

func TestInstruction_OriginCaptured(t *testing.T) {
	pair := NewInstructionStreamPair()
	pair.Push(SetAspectRatio{Ratio: 1})
	pair.Swap()

	drained := pair.Drain()
	require.Len(t, drained, 1)
	origin := drained[0].Origin
	assert.True(t, strings.HasSuffix(origin.File, "instruction_test.go"), "origin file: %s", origin.File)
	assert.Greater(t, origin.Line, 0)
}

func TestDeletableRawResourceHandles(t *testing.T) {
	cases := []struct {
		name   string
		handle DeletableRawResourceHandle
		want   InstructionKind
	}{
		{"mesh", RawMeshHandle{Idx: 1}, DeleteMesh{Handle: RawMeshHandle{Idx: 1}}},
		{"skeleton", RawSkeletonHandle{Idx: 2}, DeleteSkeleton{Handle: RawSkeletonHandle{Idx: 2}}},
		{"texture2d", RawTexture2DHandle{Idx: 3}, DeleteTexture2D{Handle: RawTexture2DHandle{Idx: 3}}},
		{"texturecube", RawTextureCubeHandle{Idx: 4}, DeleteTextureCube{Handle: RawTextureCubeHandle{Idx: 4}}},
		{"material", RawMaterialHandle{Idx: 5}, DeleteMaterial{Handle: RawMaterialHandle{Idx: 5}}},
		{"object", RawObjectHandle{Idx: 6}, DeleteObject{Handle: RawObjectHandle{Idx: 6}}},
		{"directional", RawDirectionalLightHandle{Idx: 7}, DeleteDirectionalLight{Handle: RawDirectionalLightHandle{Idx: 7}}},
		{"point", RawPointLightHandle{Idx: 8}, DeletePointLight{Handle: RawPointLightHandle{Idx: 8}}},
		{"graphdata", RawGraphDataHandle{Idx: 9}, DeleteGraphData{Handle: RawGraphDataHandle{Idx: 9}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.handle.IntoDeleteInstructionKind())
		})
	}
}
