// SPDX-License-Identifier: GPL-2.0-or-later

package bgcheck

import (
	"log/slog"

	"bgsim/colmesh"
	"bgsim/math"
	"bgsim/math/mtx"
	"bgsim/math/vec"
)

// Placement positions a moving platform. Rotation is in binary angles and
// applied Y, then X, then Z.
type Placement struct {
	Scale vec.Vec3
	Rot   vec.Vec3s
	Pos   vec.Vec3
}

// Identity returns a placement that leaves the mesh where it is.
func Identity() Placement {
	return Placement{Scale: vec.Vec3{X: 1, Y: 1, Z: 1}}
}

func (p Placement) Matrix(tr math.Trig) mtx.MtxF {
	return mtx.ScaleRotateYXZTranslate(p.Scale, p.Rot, p.Pos, tr)
}

// Dyna is a moving platform. It owns its world space copy of the mesh which
// is rebuilt in full on every placement change.
type Dyna struct {
	buckets
	mesh      *colmesh.Header
	placement Placement
	vertices  []vec.Vec3s
	polys     []colmesh.Poly
	minY      float32
	maxY      float32
}

func newDyna(mesh *colmesh.Header, p Placement, tr math.Trig) *Dyna {
	d := &Dyna{
		mesh:     mesh,
		vertices: make([]vec.Vec3s, len(mesh.Vertices)),
		polys:    make([]colmesh.Poly, len(mesh.Polys)),
	}
	d.place(p, tr)
	return d
}

// place transforms every vertex, recomputes every normal from the stored
// integer vertices and rebuilds the buckets. Polygons end up in the buckets
// in reverse mesh order.
func (d *Dyna) place(p Placement, tr math.Trig) {
	d.placement = p
	m := p.Matrix(tr)

	d.minY, d.maxY = 32000, -32000
	for i, v := range d.mesh.Vertices {
		w := m.MultVec3(v.F())
		if w.Y < d.minY {
			d.minY = w.Y
		}
		if w.Y > d.maxY {
			d.maxY = w.Y
		}
		d.vertices[i] = w.Vec3s()
	}

	d.buckets.reset()
	for i := range d.mesh.Polys {
		src := &d.mesh.Polys[i]
		dst := &d.polys[i]
		*dst = *src
		v := dst.Vertices(d.vertices)
		n := vec.SurfaceNorm(v[0], v[1], v[2])
		if l := n.Length(); !math.IsZero(l) {
			n = n.Scale(1 / l)
		}
		dst.Normal = vec.Vec3s{X: math.Quantize(n.X), Y: math.Quantize(n.Y), Z: math.Quantize(n.Z)}
		dst.Dist = int16(-vec.Dot(n, v[0]))
		d.buckets.push(Classify(dst.Normal.Y), i)
	}
	slog.Debug("bgcheck: dyna placed", "mesh", d.mesh.Name, "polys", len(d.polys),
		"minY", d.minY, "maxY", d.maxY)
}

func (d *Dyna) Mesh() *colmesh.Header {
	return d.mesh
}

func (d *Dyna) Placement() Placement {
	return d.placement
}

// Vertices returns the transformed vertex list.
func (d *Dyna) Vertices() []vec.Vec3s {
	return d.vertices
}

// Polys returns the transformed polygons, in mesh order.
func (d *Dyna) Polys() []colmesh.Poly {
	return d.polys
}

// YRange returns the vertical extent of the transformed vertices.
func (d *Dyna) YRange() (float32, float32) {
	return d.minY, d.maxY
}
