// SPDX-License-Identifier: GPL-2.0-or-later

package bgcheck

import (
	"github.com/pkg/errors"

	"bgsim/colmesh"
	"bgsim/math/vec"
)

// AABB is an axis aligned box, bounds inclusive.
type AABB struct {
	Min vec.Vec3
	Max vec.Vec3
}

func (b AABB) Contains(p vec.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// StaticIndex buckets polygons of the scene mesh. It reads the mesh's
// vertex and polygon slices in place and never modifies them.
type StaticIndex struct {
	buckets
	mesh  *colmesh.Header
	added []bool
	count int
}

func newStaticIndex(mesh *colmesh.Header) *StaticIndex {
	s := &StaticIndex{mesh: mesh}
	if mesh != nil {
		s.added = make([]bool, len(mesh.Polys))
	}
	return s
}

// Mesh returns the source mesh or nil for an empty index.
func (s *StaticIndex) Mesh() *colmesh.Header {
	return s.mesh
}

// Len returns the number of indexed polygons.
func (s *StaticIndex) Len() int {
	return s.count
}

// Contains reports whether polygon id has been indexed.
func (s *StaticIndex) Contains(id int) bool {
	return id >= 0 && id < len(s.added) && s.added[id]
}

// add indexes polygon id of mesh. The first mesh added becomes the scene
// mesh; polygons of a different mesh are rejected. Adding an id twice is a
// no-op.
func (s *StaticIndex) add(mesh *colmesh.Header, id int) error {
	if mesh == nil {
		return errors.New("bgcheck: nil mesh")
	}
	if s.mesh == nil {
		s.mesh = mesh
		s.added = make([]bool, len(mesh.Polys))
	}
	if mesh != s.mesh {
		return errors.Errorf("bgcheck: poly %d of %q added to index of %q", id, mesh.Name, s.mesh.Name)
	}
	if id < 0 || id >= len(mesh.Polys) {
		return errors.Errorf("bgcheck: poly %d out of range [0, %d) in %q", id, len(mesh.Polys), mesh.Name)
	}
	if s.added[id] {
		return nil
	}
	p := &mesh.Polys[id]
	for c := 0; c < 3; c++ {
		if idx := p.VtxIndex(c); idx >= len(mesh.Vertices) {
			return errors.Errorf("bgcheck: poly %d references vertex %d of %d in %q", id, idx, len(mesh.Vertices), mesh.Name)
		}
	}
	s.added[id] = true
	s.count++
	s.buckets.add(Classify(p.Normal.Y), id)
	return nil
}

// inBox reports whether at least one corner of polygon id lies in box.
func (s *StaticIndex) inBox(id int, box AABB) bool {
	v := s.mesh.PolyVertices(id)
	return box.Contains(v[0]) || box.Contains(v[1]) || box.Contains(v[2])
}

func (s *StaticIndex) poly(id int) *colmesh.Poly {
	return &s.mesh.Polys[id]
}

func (s *StaticIndex) vertices() []vec.Vec3s {
	return s.mesh.Vertices
}
