// SPDX-License-Identifier: GPL-2.0-or-later

package bgcheck

import (
	"fmt"

	"bgsim/colmesh"
	"bgsim/geom"
	"bgsim/math"
	"bgsim/math/vec"
)

// SceneID is the BgID of the static scene geometry.
const SceneID = 50

// PolyRef names a polygon: BgID is SceneID for static geometry, otherwise
// the id returned by AddDynapoly. Index is the polygon index in that mesh.
type PolyRef struct {
	BgID  int
	Index int
}

// NoPoly is the reference returned when nothing was hit.
var NoPoly = PolyRef{BgID: SceneID, Index: -1}

func (r PolyRef) Valid() bool {
	return r.Index >= 0
}

func (r PolyRef) IsScene() bool {
	return r.BgID == SceneID
}

func (r PolyRef) String() string {
	switch {
	case !r.Valid():
		return "none"
	case r.IsScene():
		return fmt.Sprintf("scene:%d", r.Index)
	}
	return fmt.Sprintf("dyna%d:%d", r.BgID, r.Index)
}

// lineChk selects what a line test looks at.
type lineChk struct {
	floors   bool
	walls    bool
	ceilings bool
	dyna     bool
	oneFace  bool
	// polygons with any of these VtxA flags are skipped
	exclude uint16
}

const lineChkDist = 1

// lineVsPoly intersects the segment a b with the polygon. In one face mode
// a segment entering the polygon from behind does not hit.
func lineVsPoly(p *colmesh.Poly, verts []vec.Vec3s, a, b vec.Vec3, oneFace bool, chkDist float32) (vec.Vec3, bool) {
	nx, ny, nz := p.NormalF()
	dist := float32(p.Dist)
	da := geom.PlaneDist(nx, ny, nz, dist, a)
	db := geom.PlaneDist(nx, ny, nz, dist, b)
	if (da >= 0 && db >= 0) || (da < 0 && db < 0) {
		return vec.Vec3{}, false
	}
	if oneFace && da < 0 && db > 0 {
		return vec.Vec3{}, false
	}
	delta := da - db
	if math.IsZero(delta) {
		return vec.Vec3{}, false
	}
	hit := vec.Lerp(a, b, da/delta)
	v := p.Vertices(verts)
	if (math.Abs(nx) > 0.5 && geom.TriChkPointParaXDist(v[0], v[1], v[2], nx, hit.Y, hit.Z, chkDist)) ||
		(math.Abs(ny) > 0.5 && geom.TriChkPointParaYDist(v[0], v[1], v[2], ny, hit.Z, hit.X, chkDist)) ||
		(math.Abs(nz) > 0.5 && geom.TriChkPointParaZDist(v[0], v[1], v[2], nz, hit.X, hit.Y, chkDist)) {
		return hit, true
	}
	return vec.Vec3{}, false
}

// lineHit tracks the nearest hit of a line test.
type lineHit struct {
	pos    vec.Vec3
	ref    PolyRef
	distSq float32
	ok     bool
}

// scan tests a b against the listed polygons. Only strictly nearer hits
// replace the current one.
func (h *lineHit) scan(ids []int, polys []colmesh.Poly, verts []vec.Vec3s, bgID int, a, b vec.Vec3, chk *lineChk) {
	for _, id := range ids {
		p := &polys[id]
		if p.VtxA&chk.exclude != 0 {
			continue
		}
		minY := float32(p.MinY(verts))
		if a.Y < minY && b.Y < minY {
			continue
		}
		hit, ok := lineVsPoly(p, verts, a, b, chk.oneFace, lineChkDist)
		if !ok {
			continue
		}
		if d := vec.DistSq(a, hit); d < h.distSq {
			h.pos = hit
			h.ref = PolyRef{BgID: bgID, Index: id}
			h.distSq = d
			h.ok = true
		}
	}
}

func (h *lineHit) scanBuckets(b *buckets, polys []colmesh.Poly, verts []vec.Vec3s, bgID int, pa, pb vec.Vec3, chk *lineChk) {
	if chk.floors {
		h.scan(b.floors, polys, verts, bgID, pa, pb, chk)
	}
	if chk.walls {
		h.scan(b.walls, polys, verts, bgID, pa, pb, chk)
	}
	if chk.ceilings {
		h.scan(b.ceilings, polys, verts, bgID, pa, pb, chk)
	}
}

// lineTest returns the hit nearest to a on the segment a b. Static
// geometry is tested first, then each dyna in registration order.
func (w *World) lineTest(a, b vec.Vec3, chk *lineChk) (vec.Vec3, PolyRef, bool) {
	h := lineHit{ref: NoPoly, distSq: float32(1e38)}
	if s := w.static; s.mesh != nil {
		h.scanBuckets(&s.buckets, s.mesh.Polys, s.mesh.Vertices, SceneID, a, b, chk)
	}
	if chk.dyna {
		for id, d := range w.dynas {
			if (a.Y < d.minY && b.Y < d.minY) || (a.Y > d.maxY && b.Y > d.maxY) {
				continue
			}
			h.scanBuckets(&d.buckets, d.polys, d.vertices, id, a, b, chk)
		}
	}
	return h.pos, h.ref, h.ok
}
