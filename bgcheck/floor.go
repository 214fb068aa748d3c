// SPDX-License-Identifier: GPL-2.0-or-later

package bgcheck

import (
	"bgsim/colmesh"
	"bgsim/geom"
	"bgsim/math"
	"bgsim/math/vec"
)

// MinHeight is returned when there is no floor below the query point.
const MinHeight = -32000

const floorChkDist = 1

// floorScan keeps the highest polygon of ids strictly below pos. With refine
// set each candidate height is corrected by refineFloor before it is
// compared.
func floorScan(ids []int, polys []colmesh.Poly, verts []vec.Vec3s, bgID int, pos vec.Vec3, exclude uint16, refine bool, best *float32, ref *PolyRef) {
	for _, id := range ids {
		p := &polys[id]
		if p.VtxA&exclude != 0 {
			continue
		}
		if pos.Y < float32(p.MinY(verts)) {
			continue
		}
		nx, ny, nz := p.NormalF()
		v := p.Vertices(verts)
		y, ok := geom.TriChkPointParaYIntersectDist(v[0], v[1], v[2], nx, ny, nz, float32(p.Dist), pos.Z, pos.X, floorChkDist)
		if !ok || y >= pos.Y {
			continue
		}
		if refine {
			y = refineFloor(v, pos, y)
		}
		if *best < y {
			*best = y
			*ref = PolyRef{BgID: bgID, Index: id}
		}
	}
}

// refineFloor recomputes the plane of a dyna polygon from its corners and
// returns its height at pos when that is within a unit of y.
func refineFloor(v [3]vec.Vec3, pos vec.Vec3, y float32) float32 {
	n := vec.SurfaceNorm(v[0], v[1], v[2])
	l := n.Length()
	if math.IsZero(l) {
		l = 1
	}
	inv := 1 / l
	n = vec.Vec3{X: n.X * inv, Y: n.Y * inv, Z: n.Z * inv}
	dist := -vec.Dot(n, v[0])
	if fine, ok := geom.TriChkPointParaYIntersectInsideTri(v[0], v[1], v[2], n.X, n.Y, n.Z, dist, pos.Z, pos.X); ok && math.Abs(fine-y) < 1 {
		return fine
	}
	return y
}

// raycastFloor returns the height of the highest surface strictly below pos
// or MinHeight. Static floors and walls are scanned first, then those of
// each dyna.
func (w *World) raycastFloor(pos vec.Vec3, exclude uint16) (float32, PolyRef) {
	best := float32(MinHeight)
	ref := NoPoly

	if s := w.static; s.mesh != nil {
		floorScan(s.floors, s.mesh.Polys, s.mesh.Vertices, SceneID, pos, exclude, false, &best, &ref)
		floorScan(s.walls, s.mesh.Polys, s.mesh.Vertices, SceneID, pos, exclude, false, &best, &ref)
	}

	for id, d := range w.dynas {
		if pos.Y < d.minY {
			continue
		}
		floorScan(d.floors, d.polys, d.vertices, id, pos, exclude, true, &best, &ref)
		floorScan(d.walls, d.polys, d.vertices, id, pos, exclude, true, &best, &ref)
	}
	return best, ref
}
