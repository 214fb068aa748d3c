// SPDX-License-Identifier: GPL-2.0-or-later

package colmesh

import (
	"bgsim/math/vec"
)

// KakarikoGuardGate returns the collision of the guard gate: a single
// vertical wall made of two triangles in the plane z = 0, facing +z, 120
// units wide and 120 high.
func KakarikoGuardGate() *Header {
	return &Header{
		Name:      "gKakarikoGuardGateCol",
		MinBounds: vec.Vec3s{X: -60, Y: 0, Z: 0},
		MaxBounds: vec.Vec3s{X: 60, Y: 120, Z: 0},
		Vertices: []vec.Vec3s{
			{X: -60, Y: 0, Z: 0},
			{X: 60, Y: 0, Z: 0},
			{X: 60, Y: 120, Z: 0},
			{X: -60, Y: 120, Z: 0},
		},
		Polys: []Poly{
			{Type: 0, VtxA: 0, VtxB: 1, VtxC: 2, Normal: vec.Vec3s{X: 0, Y: 0, Z: 32767}, Dist: 0},
			{Type: 0, VtxA: 0, VtxB: 2, VtxC: 3, Normal: vec.Vec3s{X: 0, Y: 0, Z: 32767}, Dist: 0},
		},
		SurfaceTypes: []SurfaceType{{0x00000000, 0x000007C0}},
	}
}

// Floor returns a flat square of half width half at height y.
func Floor(half, y int16) *Header {
	return &Header{
		Name:      "floor",
		MinBounds: vec.Vec3s{X: -half, Y: y, Z: -half},
		MaxBounds: vec.Vec3s{X: half, Y: y, Z: half},
		Vertices: []vec.Vec3s{
			{X: -half, Y: y, Z: -half},
			{X: half, Y: y, Z: -half},
			{X: half, Y: y, Z: half},
			{X: -half, Y: y, Z: half},
		},
		Polys: []Poly{
			{VtxA: 0, VtxB: 3, VtxC: 2, Normal: vec.Vec3s{Y: 32767}, Dist: -y},
			{VtxA: 0, VtxB: 2, VtxC: 1, Normal: vec.Vec3s{Y: 32767}, Dist: -y},
		},
	}
}

// Platform returns a closed box of 100x20x100 units resting on y = 0,
// centered on the y axis. Two triangles per face: top floor, bottom
// ceiling, four walls facing -z, +z, +x and -x.
func Platform() *Header {
	h := &Header{
		Name: "platform",
		Vertices: []vec.Vec3s{
			{X: -50, Y: 0, Z: -50},
			{X: 50, Y: 0, Z: -50},
			{X: 50, Y: 0, Z: 50},
			{X: -50, Y: 0, Z: 50},
			{X: -50, Y: 20, Z: -50},
			{X: 50, Y: 20, Z: -50},
			{X: 50, Y: 20, Z: 50},
			{X: -50, Y: 20, Z: 50},
		},
	}
	for _, c := range [][3]int{
		{4, 7, 6}, {4, 6, 5}, // top
		{0, 1, 2}, {0, 2, 3}, // bottom
		{1, 0, 4}, {1, 4, 5}, // -z
		{3, 2, 6}, {3, 6, 7}, // +z
		{2, 1, 5}, {2, 5, 6}, // +x
		{0, 3, 7}, {0, 7, 4}, // -x
	} {
		h.Polys = append(h.Polys, ComputePoly(h.Vertices, c[0], c[1], c[2], 0))
	}
	h.SurfaceTypes = []SurfaceType{{}}
	h.ComputeBounds()
	return h
}
