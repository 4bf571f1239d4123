package rend3

import "sort"

// ShadowMap is one allocated rectangle inside the shadow atlas.
type ShadowMap struct {
	Handle RawDirectionalLightHandle
	// Offset of the rectangle's top-left corner inside the atlas, texels.
	OffsetX uint32
	OffsetY uint32
	// Size of the square rectangle, texels.
	Size uint32
}

// ShadowAtlas is the result of packing every shadow-mapped light into one
// square texture.
type ShadowAtlas struct {
	// TextureDimension is the atlas side length, texels.
	TextureDimension uint32
	// Maps holds one placement per light that fit, in allocation order.
	Maps []ShadowMap
}

type shadowRequest struct {
	handle     RawDirectionalLightHandle
	resolution uint32
}

// allocateShadowAtlas packs the requested shadow resolutions into a single
// square atlas no larger than maxDimension on a side, using a shelf packer.
//
// Policy (deterministic, externally observable):
//   - Requests are sorted by resolution descending, ties broken by handle
//     index ascending.
//   - The candidate side length starts at the largest request rounded up to
//     a power of two and doubles until everything fits or maxDimension is
//     reached.
//   - If the full set does not fit at maxDimension, the lowest-priority
//     request (smallest resolution, then highest handle index) is dropped
//     and packing is retried.
//   - Returns nil when no request can be placed at all.
func allocateShadowAtlas(requests []shadowRequest, maxDimension uint32) *ShadowAtlas {
	if len(requests) == 0 {
		return nil
	}

	sorted := make([]shadowRequest, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].resolution != sorted[j].resolution {
			return sorted[i].resolution > sorted[j].resolution
		}
		return sorted[i].handle.Idx < sorted[j].handle.Idx
	})

	// Drop the tail one request at a time until the remainder packs.
	for working := sorted; len(working) != 0; working = working[:len(working)-1] {
		if atlas := packShelves(working, maxDimension); atlas != nil {
			return atlas
		}
	}
	return nil
}

// packShelves attempts to place every request, growing the candidate side
// length geometrically. Requests must be sorted by resolution descending so
// each shelf's first occupant sets its height.
func packShelves(requests []shadowRequest, maxDimension uint32) *ShadowAtlas {
	largest := requests[0].resolution
	if largest == 0 || largest > maxDimension {
		return nil
	}

	for side := nextPowerOfTwo(largest); side <= maxDimension; side *= 2 {
		if maps, ok := tryPack(requests, side); ok {
			return &ShadowAtlas{TextureDimension: side, Maps: maps}
		}
	}
	return nil
}

func tryPack(requests []shadowRequest, side uint32) ([]ShadowMap, bool) {
	maps := make([]ShadowMap, 0, len(requests))

	var x, y, shelfHeight uint32
	for _, req := range requests {
		if x+req.resolution > side {
			// Open a new shelf below the current one.
			y += shelfHeight
			x = 0
			shelfHeight = 0
		}
		if req.resolution > shelfHeight {
			shelfHeight = req.resolution
		}
		if y+req.resolution > side {
			return nil, false
		}
		maps = append(maps, ShadowMap{
			Handle:  req.handle,
			OffsetX: x,
			OffsetY: y,
			Size:    req.resolution,
		})
		x += req.resolution
	}
	return maps, true
}

func nextPowerOfTwo(v uint32) uint32 {
	p := uint32(1)
	for p < v {
		p *= 2
	}
	return p
}
