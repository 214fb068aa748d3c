// SPDX-License-Identifier: GPL-2.0-or-later

// Package colmesh reads and writes collision mesh records in the ROM layout.
//
// Only the vertices and the polygons are interpreted. Surface types, camera
// data and water boxes are carried along untouched for the gameplay layer.
package colmesh

import (
	"github.com/pkg/errors"

	"bgsim/math"
	"bgsim/math/vec"
)

const (
	VtxIndexMask = 0x1FFF

	// flags stored in the top bits of VtxA
	IgnoreCamera     = 0x2000
	IgnoreEntity     = 0x4000
	IgnoreProjectile = 0x8000

	// flags stored in the top bits of VtxB
	Conveyor = 0x2000
)

type Poly struct {
	Type   uint16
	VtxA   uint16
	VtxB   uint16
	VtxC   uint16
	Normal vec.Vec3s // unit normal, each component scaled by 32767
	Dist   int16
}

// VtxIndex returns the masked vertex index of corner i (0, 1 or 2).
func (p *Poly) VtxIndex(i int) int {
	switch i {
	default:
		return int(p.VtxA & VtxIndexMask)
	case 1:
		return int(p.VtxB & VtxIndexMask)
	case 2:
		return int(p.VtxC & VtxIndexMask)
	}
}

// Vertices returns the three corners as floats.
func (p *Poly) Vertices(verts []vec.Vec3s) [3]vec.Vec3 {
	return [3]vec.Vec3{
		verts[p.VtxA&VtxIndexMask].F(),
		verts[p.VtxB&VtxIndexMask].F(),
		verts[p.VtxC&VtxIndexMask].F(),
	}
}

// NormalF returns the dequantized normal.
func (p *Poly) NormalF() (float32, float32, float32) {
	return math.Normal(p.Normal.X), math.Normal(p.Normal.Y), math.Normal(p.Normal.Z)
}

// MinY returns the lowest corner height. A normal pointing exactly up or
// down is taken to mean a flat polygon and the first corner is returned
// without looking at the others. Quantization makes some slightly sloped
// polygons hit that case; the engine behaves the same way.
func (p *Poly) MinY(verts []vec.Vec3s) int16 {
	if p.Normal.Y == 32767 || p.Normal.Y == -32767 {
		return verts[p.VtxA&VtxIndexMask].Y
	}
	a := verts[p.VtxA&VtxIndexMask].Y
	b := verts[p.VtxB&VtxIndexMask].Y
	c := verts[p.VtxC&VtxIndexMask].Y
	m := a
	if m > b {
		m = b
	}
	if m > c {
		m = c
	}
	return m
}

// MaxY returns the highest corner height.
func (p *Poly) MaxY(verts []vec.Vec3s) int16 {
	a := verts[p.VtxA&VtxIndexMask].Y
	b := verts[p.VtxB&VtxIndexMask].Y
	c := verts[p.VtxC&VtxIndexMask].Y
	m := a
	if m < b {
		m = b
	}
	if m < c {
		m = c
	}
	return m
}

func (p *Poly) IgnoresCamera() bool {
	return p.VtxA&IgnoreCamera != 0
}

func (p *Poly) IgnoresEntity() bool {
	return p.VtxA&IgnoreEntity != 0
}

func (p *Poly) IgnoresProjectile() bool {
	return p.VtxA&IgnoreProjectile != 0
}

func (p *Poly) IsConveyor() bool {
	return p.VtxB&Conveyor != 0
}

// SurfaceType is opaque gameplay data referenced by Poly.Type.
type SurfaceType [2]uint32

// BgCamIndex returns the camera data entry the surface refers to.
func (s SurfaceType) BgCamIndex() int {
	return int(s[0] & 0xFF)
}

type BgCamInfo struct {
	Setting  uint16
	Count    int16
	FuncData uint32 // segmented address, not followed
}

type WaterBox struct {
	XMin       int16
	YSurface   int16
	ZMin       int16
	XLength    int16
	ZLength    int16
	Properties uint32
}

// Header is a decoded collision mesh.
type Header struct {
	Name         string
	MinBounds    vec.Vec3s
	MaxBounds    vec.Vec3s
	Vertices     []vec.Vec3s
	Polys        []Poly
	SurfaceTypes []SurfaceType
	BgCams       []BgCamInfo
	WaterBoxes   []WaterBox
}

// PolyVertices returns the corners of polygon id as floats.
func (h *Header) PolyVertices(id int) [3]vec.Vec3 {
	return h.Polys[id].Vertices(h.Vertices)
}

// Validate checks that every polygon references existing vertices.
func (h *Header) Validate() error {
	for i := range h.Polys {
		p := &h.Polys[i]
		for c := 0; c < 3; c++ {
			if idx := p.VtxIndex(c); idx >= len(h.Vertices) {
				return errors.Errorf("colmesh: %s: poly %d corner %d references vertex %d of %d", h.Name, i, c, idx, len(h.Vertices))
			}
		}
	}
	return nil
}

// ComputePoly builds a polygon over the given corners with the normal and
// plane distance quantized from the vertex positions.
func ComputePoly(verts []vec.Vec3s, a, b, c int, typ uint16) Poly {
	va, vb, vc := verts[a].F(), verts[b].F(), verts[c].F()
	n := vec.SurfaceNorm(va, vb, vc)
	n = n.Normalize()
	return Poly{
		Type:   typ,
		VtxA:   uint16(a),
		VtxB:   uint16(b),
		VtxC:   uint16(c),
		Normal: vec.Vec3s{X: math.Quantize(n.X), Y: math.Quantize(n.Y), Z: math.Quantize(n.Z)},
		Dist:   int16(-vec.Dot(n, va)),
	}
}

// ComputeBounds sets MinBounds and MaxBounds from the vertex list.
func (h *Header) ComputeBounds() {
	if len(h.Vertices) == 0 {
		h.MinBounds, h.MaxBounds = vec.Vec3s{}, vec.Vec3s{}
		return
	}
	lo, hi := h.Vertices[0], h.Vertices[0]
	for _, v := range h.Vertices[1:] {
		lo.X, hi.X = min(lo.X, v.X), max(hi.X, v.X)
		lo.Y, hi.Y = min(lo.Y, v.Y), max(hi.Y, v.Y)
		lo.Z, hi.Z = min(lo.Z, v.Z), max(hi.Z, v.Z)
	}
	h.MinBounds, h.MaxBounds = lo, hi
}
