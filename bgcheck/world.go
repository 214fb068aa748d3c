// SPDX-License-Identifier: GPL-2.0-or-later

package bgcheck

import (
	"log/slog"

	"github.com/pkg/errors"

	"bgsim/colmesh"
	"bgsim/math"
	"bgsim/math/vec"
)

// Age selects the entity collision radius.
type Age int

const (
	Adult Age = iota
	Child
)

const (
	AdultRadius = 18
	ChildRadius = 15

	// FloorProbeOffset is the height above the previous position from which
	// RunChecks looks for the floor.
	FloorProbeOffset = 26

	// MaxDynas is the number of moving platforms a world can hold. Dyna ids
	// stay below SceneID.
	MaxDynas = SceneID
)

func (a Age) Radius() float32 {
	if a == Child {
		return ChildRadius
	}
	return AdultRadius
}

func (a Age) String() string {
	if a == Child {
		return "child"
	}
	return "adult"
}

// World is the collision context of one simulation: the static scene index
// and the moving platforms in registration order. A World is not safe for
// concurrent use; build one per goroutine.
type World struct {
	static *StaticIndex
	dynas  []*Dyna
	age    Age
	trig   math.Trig
}

// New returns a world without geometry.
func New(age Age) *World {
	return &World{
		static: newStaticIndex(nil),
		age:    age,
		trig:   math.Table{},
	}
}

// NewFiltered returns a world holding the polygons of mesh with at least one
// corner inside box.
func NewFiltered(mesh *colmesh.Header, age Age, box AABB) (*World, error) {
	if mesh == nil {
		return nil, errors.New("bgcheck: nil mesh")
	}
	w := New(age)
	w.static = newStaticIndex(mesh)
	for id := range mesh.Polys {
		p := &mesh.Polys[id]
		if p.VtxIndex(0) >= len(mesh.Vertices) || p.VtxIndex(1) >= len(mesh.Vertices) || p.VtxIndex(2) >= len(mesh.Vertices) {
			return nil, errors.Errorf("bgcheck: poly %d of %q references a missing vertex", id, mesh.Name)
		}
		if !w.static.inBox(id, box) {
			continue
		}
		if err := w.static.add(mesh, id); err != nil {
			return nil, err
		}
	}
	slog.Debug("bgcheck: static index built", "mesh", mesh.Name, "polys", w.static.Len(),
		"floors", len(w.static.floors), "walls", len(w.static.walls), "ceilings", len(w.static.ceilings))
	return w, nil
}

// NewFromIDs returns a world holding the listed polygons of mesh.
func NewFromIDs(mesh *colmesh.Header, age Age, ids []int) (*World, error) {
	if mesh == nil {
		return nil, errors.New("bgcheck: nil mesh")
	}
	w := New(age)
	if err := w.AddPolys(mesh, ids); err != nil {
		return nil, err
	}
	slog.Debug("bgcheck: static index built", "mesh", mesh.Name, "polys", w.static.Len())
	return w, nil
}

// NewFromMesh returns a world holding every polygon of mesh.
func NewFromMesh(mesh *colmesh.Header, age Age) (*World, error) {
	if mesh == nil {
		return nil, errors.New("bgcheck: nil mesh")
	}
	ids := make([]int, len(mesh.Polys))
	for i := range ids {
		ids[i] = i
	}
	return NewFromIDs(mesh, age, ids)
}

func (w *World) Age() Age {
	return w.age
}

func (w *World) SetAge(a Age) {
	w.age = a
}

// SetTrig replaces the sine and cosine used for dyna placements. It only
// affects placements made afterwards.
func (w *World) SetTrig(t math.Trig) {
	w.trig = t
}

func (w *World) Trig() math.Trig {
	return w.trig
}

func (w *World) Static() *StaticIndex {
	return w.static
}

// AddPoly adds polygon id of mesh to the static index. All static polygons
// must come from the same mesh.
func (w *World) AddPoly(mesh *colmesh.Header, id int) error {
	return w.static.add(mesh, id)
}

func (w *World) AddPolys(mesh *colmesh.Header, ids []int) error {
	for _, id := range ids {
		if err := w.static.add(mesh, id); err != nil {
			return err
		}
	}
	return nil
}

// AddDynapoly registers a moving platform and returns its BgID.
func (w *World) AddDynapoly(mesh *colmesh.Header, p Placement) (int, error) {
	if mesh == nil {
		return -1, errors.New("bgcheck: nil dyna mesh")
	}
	if len(w.dynas) >= MaxDynas {
		return -1, errors.Errorf("bgcheck: more than %d dynas", MaxDynas)
	}
	if err := mesh.Validate(); err != nil {
		return -1, errors.Wrap(err, "bgcheck: dyna mesh")
	}
	w.dynas = append(w.dynas, newDyna(mesh, p, w.trig))
	return len(w.dynas) - 1, nil
}

// SetDynaPlacement moves dyna id, recomputing all of its geometry.
func (w *World) SetDynaPlacement(id int, p Placement) error {
	d, ok := w.Dyna(id)
	if !ok {
		return errors.Errorf("bgcheck: unknown dyna %d", id)
	}
	d.place(p, w.trig)
	return nil
}

func (w *World) Dyna(id int) (*Dyna, bool) {
	if id < 0 || id >= len(w.dynas) {
		return nil, false
	}
	return w.dynas[id], true
}

func (w *World) NumDynas() int {
	return len(w.dynas)
}

// Poly returns the polygon ref names, or nil if it names none.
func (w *World) Poly(ref PolyRef) *colmesh.Poly {
	polys, _ := w.polys(ref)
	if polys == nil {
		return nil
	}
	return &polys[ref.Index]
}

// PolyVertices returns the corners of the polygon ref names.
func (w *World) PolyVertices(ref PolyRef) ([3]vec.Vec3, bool) {
	polys, verts := w.polys(ref)
	if polys == nil {
		return [3]vec.Vec3{}, false
	}
	return polys[ref.Index].Vertices(verts), true
}

func (w *World) polys(ref PolyRef) ([]colmesh.Poly, []vec.Vec3s) {
	if !ref.Valid() {
		return nil, nil
	}
	if ref.IsScene() {
		if !w.static.Contains(ref.Index) {
			return nil, nil
		}
		return w.static.mesh.Polys, w.static.mesh.Vertices
	}
	d, ok := w.Dyna(ref.BgID)
	if !ok || ref.Index >= len(d.polys) {
		return nil, nil
	}
	return d.polys, d.vertices
}

// Result is the outcome of RunChecks.
type Result struct {
	Pos         vec.Vec3
	Wall        PolyRef
	Floor       PolyRef
	FloorHeight float32
	HitWall     bool
}

// RunChecks moves an entity from prev toward intended: walls first, then
// the floor below the corrected position probed from FloorProbeOffset above
// prev. An entity below the floor lands on it.
func (w *World) RunChecks(prev, intended vec.Vec3) Result {
	pos, wall, hit := w.checkWall(prev, intended, w.age.Radius())
	probe := vec.Vec3{X: pos.X, Y: prev.Y + FloorProbeOffset, Z: pos.Z}
	h, floor := w.raycastFloor(probe, colmesh.IgnoreEntity)
	if floor.Valid() && h > pos.Y {
		pos.Y = h
	}
	return Result{
		Pos:         pos,
		Wall:        wall,
		Floor:       floor,
		FloorHeight: h,
		HitWall:     hit,
	}
}

// FindFloor returns pos with Y replaced by the height of the floor under
// it, or MinHeight. The floor is searched below pos.Y+1, so a point lying
// on a floor finds that floor and a floor up to a unit above pos is found
// too.
func (w *World) FindFloor(pos vec.Vec3) vec.Vec3 {
	probe := pos
	probe.Y += 1
	h, _ := w.raycastFloor(probe, colmesh.IgnoreEntity)
	pos.Y = h
	return pos
}

// FloorHeight returns the highest surface strictly below pos.
func (w *World) FloorHeight(pos vec.Vec3) (float32, PolyRef) {
	return w.raycastFloor(pos, colmesh.IgnoreEntity)
}

// EntityLineTest returns the hit nearest to pos on the segment to target.
// Dynas always take part; the flags select the static and dyna buckets.
func (w *World) EntityLineTest(pos, target vec.Vec3, checkWalls, checkFloors, checkCeilings bool) (vec.Vec3, PolyRef, bool) {
	chk := lineChk{
		floors:   checkFloors,
		walls:    checkWalls,
		ceilings: checkCeilings,
		dyna:     true,
		exclude:  colmesh.IgnoreEntity,
	}
	return w.lineTest(pos, target, &chk)
}

// CameraLineTest is EntityLineTest against all buckets with the camera's
// exclusion flag.
func (w *World) CameraLineTest(pos, target vec.Vec3) (vec.Vec3, PolyRef, bool) {
	chk := lineChk{
		floors:   true,
		walls:    true,
		ceilings: true,
		dyna:     true,
		exclude:  colmesh.IgnoreCamera,
	}
	return w.lineTest(pos, target, &chk)
}

// CameraFindFloor is FloorHeight with the camera's exclusion flag.
func (w *World) CameraFindFloor(pos vec.Vec3) (float32, PolyRef) {
	return w.raycastFloor(pos, colmesh.IgnoreCamera)
}
