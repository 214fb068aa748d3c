// SPDX-License-Identifier: GPL-2.0-or-later

package bgcheck

import (
	"bgsim/colmesh"
	"bgsim/math"
	"bgsim/math/vec"
)

const (
	// HeadClearance is the height above the feet at which walls are probed.
	HeadClearance = 26
	// below this, head clearance plus vertical movement takes the falling path
	fastPathLimit = 5
	// minimum share of the horizontal normal along the axis of a sweep pass
	sweepAxisMin = 0.4
	// how far behind a wall plane a sphere may be and still get pushed
	wallBackLimit = 4
)

// pushOut moves the horizontal position to radius in front of a polygon hit
// at hit. Flat polygons do not push.
func pushOut(res *vec.Vec3, hit vec.Vec3, p *colmesh.Poly, radius float32) bool {
	nx, _, nz := p.NormalF()
	nxz := float32(nx*nx) + float32(nz*nz)
	if math.IsZero(nxz) {
		return false
	}
	nxz = math.Sqrt(nxz)
	f := float32(radius * (1 / nxz))
	res.X = hit.X + float32(nx*f)
	res.Z = hit.Z + float32(nz*f)
	return true
}

// sweepAxis selects the pass of a sphere sweep.
type sweepAxis int

const (
	sweepZ sweepAxis = iota
	sweepX
)

// wallSweep pushes the sphere at (res.x, y, res.z) out of the listed walls.
// It only considers walls that face mostly along axis and moves res by the
// closed form plane push for each wall the sphere touches. Spheres more than
// wallBackLimit behind a plane are left alone. The last wall pushing is
// returned.
func wallSweep(ids []int, polys []colmesh.Poly, verts []vec.Vec3s, bgID int, res *vec.Vec3, y, radius float32, axis sweepAxis, exclude uint16) (PolyRef, bool) {
	ref, ok := NoPoly, false
	for _, id := range ids {
		p := &polys[id]
		if p.VtxA&exclude != 0 {
			continue
		}
		nx, ny, nz := p.NormalF()
		nxz := float32(nx*nx) + float32(nz*nz)
		if math.IsZero(nxz) {
			continue
		}
		nxz = math.Sqrt(nxz)
		inv := 1 / nxz

		v := p.Vertices(verts)
		var along, lo, hi, at float32
		switch axis {
		case sweepZ:
			along = float32(math.Abs(nz) * inv)
			lo, hi = min(v[0].X, v[1].X, v[2].X), max(v[0].X, v[1].X, v[2].X)
			at = res.X
		case sweepX:
			along = float32(math.Abs(nx) * inv)
			lo, hi = min(v[0].Z, v[1].Z, v[2].Z), max(v[0].Z, v[1].Z, v[2].Z)
			at = res.Z
		}
		if along < sweepAxisMin {
			continue
		}
		if y < float32(p.MinY(verts)) || y > float32(p.MaxY(verts)) {
			continue
		}
		if at < lo-radius || at > hi+radius {
			continue
		}
		d := float32(nx*res.X) + float32(ny*y) + float32(nz*res.Z) + float32(p.Dist)
		if math.Abs(d) > radius || d < -wallBackLimit {
			continue
		}
		push := float32((radius - d) * inv)
		res.X += float32(nx * push)
		res.Z += float32(nz * push)
		ref, ok = PolyRef{BgID: bgID, Index: id}, true
	}
	return ref, ok
}

// sweepWalls runs the Z pass and then the X pass over one wall bucket.
func sweepWalls(ids []int, polys []colmesh.Poly, verts []vec.Vec3s, bgID int, res *vec.Vec3, y, radius float32, exclude uint16) (PolyRef, bool) {
	ref, ok := wallSweep(ids, polys, verts, bgID, res, y, radius, sweepZ, exclude)
	if r, hit := wallSweep(ids, polys, verts, bgID, res, y, radius, sweepX, exclude); hit {
		ref, ok = r, true
	}
	return ref, ok
}

// checkWall resolves the move from prev to next against walls and returns
// the corrected position together with the last polygon that moved it.
func (w *World) checkWall(prev, next vec.Vec3, radius float32) (vec.Vec3, PolyRef, bool) {
	const exclude = colmesh.IgnoreEntity

	res := next
	wall, hit := NoPoly, false
	dx := next.X - prev.X
	dy := next.Y - prev.Y
	dz := next.Z - prev.Z

	if dx != 0 || dz != 0 {
		if HeadClearance+dy < fastPathLimit {
			chk := lineChk{floors: true, walls: true, dyna: true, exclude: exclude}
			if pos, ref, ok := w.lineTest(prev, next, &chk); ok {
				p := w.Poly(ref)
				nx, ny, nz := p.NormalF()
				if ny > 0.5 {
					res = vec.Vec3{X: pos.X, Y: pos.Y - 1, Z: pos.Z}
				} else {
					res.X = float32(radius*nx) + pos.X
					res.Y = float32(radius*ny) + pos.Y
					res.Z = float32(radius*nz) + pos.Z
				}
				wall, hit = ref, true
			}
		} else {
			chk := lineChk{walls: true, dyna: true, oneFace: true, exclude: exclude}
			if radius*radius < float32(dx*dx)+float32(dz*dz) {
				chk.floors = true
			}
			from := vec.Vec3{X: prev.X, Y: next.Y + HeadClearance, Z: prev.Z}
			to := vec.Vec3{X: next.X, Y: next.Y + HeadClearance, Z: next.Z}
			if pos, ref, ok := w.lineTest(from, to, &chk); ok && pushOut(&res, pos, w.Poly(ref), radius) {
				wall, hit = ref, true
			}
		}
	}

	y := res.Y + HeadClearance
	dynaHit := false
	for id, d := range w.dynas {
		if y < d.minY || y > d.maxY {
			continue
		}
		if ref, ok := sweepWalls(d.walls, d.polys, d.vertices, id, &res, y, radius, exclude); ok {
			wall, hit, dynaHit = ref, true, true
		}
	}
	staticHit := false
	if s := w.static; s.mesh != nil {
		if ref, ok := sweepWalls(s.walls, s.mesh.Polys, s.mesh.Vertices, SceneID, &res, y, radius, exclude); ok {
			wall, hit, staticHit = ref, true, true
		}
	}

	if dynaHit || !staticHit {
		chk := lineChk{walls: true, dyna: true, oneFace: true, exclude: exclude}
		if pos, ref, ok := w.lineTest(prev, res, &chk); ok && pushOut(&res, pos, w.Poly(ref), radius) {
			wall, hit = ref, true
		}
	}
	return res, wall, hit
}
