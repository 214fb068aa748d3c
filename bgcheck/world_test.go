// SPDX-License-Identifier: GPL-2.0-or-later

package bgcheck

import (
	"testing"

	"bgsim/colmesh"
	"bgsim/math"
	"bgsim/math/vec"
)

// rampMesh is a 100 units deep slope rising along +x from y0 at x = 0 to y1
// at x = run.
func rampMesh(run, y0, y1 int16) *colmesh.Header {
	h := &colmesh.Header{
		Name: "ramp",
		Vertices: []vec.Vec3s{
			{X: 0, Y: y0, Z: -50},
			{X: 0, Y: y0, Z: 50},
			{X: run, Y: y1, Z: 50},
			{X: run, Y: y1, Z: -50},
		},
	}
	h.Polys = []colmesh.Poly{
		colmesh.ComputePoly(h.Vertices, 0, 1, 2, 0),
		colmesh.ComputePoly(h.Vertices, 0, 2, 3, 0),
	}
	return h
}

func gateWorld(t *testing.T, age Age) *World {
	t.Helper()
	w, err := NewFromMesh(colmesh.KakarikoGuardGate(), age)
	if err != nil {
		t.Fatalf("NewFromMesh: %v", err)
	}
	return w
}

func TestEmptyWorld(t *testing.T) {
	w := New(Adult)
	for _, p := range []vec.Vec3{
		{},
		{X: 100, Y: 5000, Z: -100},
		{X: -1e4, Y: -31999, Z: 3},
	} {
		if got := w.FindFloor(p); got.Y != MinHeight || got.X != p.X || got.Z != p.Z {
			t.Errorf("FindFloor(%v) = %v want y %v", p, got, MinHeight)
		}
		if h, ref := w.FloorHeight(p); h != MinHeight || ref.Valid() {
			t.Errorf("FloorHeight(%v) = %v, %v", p, h, ref)
		}
		if _, _, ok := w.CameraLineTest(p, vec.Vec3{X: 1, Y: 2, Z: 3}); ok {
			t.Errorf("CameraLineTest(%v) hit in an empty world", p)
		}
	}
	r := w.RunChecks(vec.Vec3{}, vec.Vec3{X: 10, Y: -30, Z: 10})
	if r.Pos != (vec.Vec3{X: 10, Y: -30, Z: 10}) || r.HitWall || r.FloorHeight != MinHeight {
		t.Errorf("RunChecks in empty world = %+v", r)
	}
}

func TestFloorIdempotence(t *testing.T) {
	flat, err := NewFromMesh(colmesh.Floor(100, 0), Adult)
	if err != nil {
		t.Fatalf("NewFromMesh: %v", err)
	}
	sloped, err := NewFromMesh(rampMesh(100, 0, 37), Adult)
	if err != nil {
		t.Fatalf("NewFromMesh: %v", err)
	}
	if n := len(sloped.Static().Floors()); n != 2 {
		t.Fatalf("ramp has %d floors want 2", n)
	}

	for _, tc := range []struct {
		w *World
		p vec.Vec3
	}{
		{flat, vec.Vec3{X: 10, Y: 40, Z: -30}},
		{flat, vec.Vec3{X: -99, Y: 0, Z: 99}},
		{sloped, vec.Vec3{X: 20, Y: 100, Z: 10}},
		{sloped, vec.Vec3{X: 77.5, Y: 60, Z: -12.25}},
	} {
		first := tc.w.FindFloor(tc.p)
		if first.Y == MinHeight {
			t.Errorf("FindFloor(%v) found no floor", tc.p)
			continue
		}
		if again := tc.w.FindFloor(first); again.Y != first.Y {
			t.Errorf("FindFloor(%v) = %v want %v", first, again.Y, first.Y)
		}
	}
	if got := flat.FindFloor(vec.Vec3{X: 10, Y: 40, Z: -30}); got.Y != 0 {
		t.Errorf("FindFloor on flat floor = %v want 0", got.Y)
	}
	if h, _ := flat.FloorHeight(vec.Vec3{X: 10, Y: 0, Z: -30}); h != MinHeight {
		t.Errorf("FloorHeight exactly on the floor = %v want %v", h, float32(MinHeight))
	}
	// FindFloor looks from one unit above the point
	for _, tc := range []struct {
		y, want float32
	}{
		{-0.5, 0},
		{-1, MinHeight},
		{-1.5, MinHeight},
	} {
		if got := flat.FindFloor(vec.Vec3{X: 10, Y: tc.y, Z: -30}); got.Y != tc.want {
			t.Errorf("FindFloor at y %v = %v want %v", tc.y, got.Y, tc.want)
		}
	}
}

func TestDynaFloorRefine(t *testing.T) {
	for _, tc := range []struct {
		name    string
		mesh    *colmesh.Header
		pos     vec.Vec3
		lo, hi  float32
		refined bool
	}{
		// quantized plane at 27.80, corners give 28.2003
		{"near", rampMesh(100, 10, 47), vec.Vec3{X: 49.19, Y: 100, Z: 10}, 28.15, 28.25, true},
		// quantized plane at 16.80, corners give 18, too far to replace
		{"far", rampMesh(40, 3, 63), vec.Vec3{X: 10, Y: 100, Z: 0}, 16.75, 16.85, false},
	} {
		static, err := NewFromMesh(tc.mesh, Adult)
		if err != nil {
			t.Fatalf("NewFromMesh: %v", err)
		}
		coarse, _ := static.FloorHeight(tc.pos)
		w := New(Adult)
		id, err := w.AddDynapoly(tc.mesh, Identity())
		if err != nil {
			t.Fatalf("AddDynapoly: %v", err)
		}
		h, ref := w.FloorHeight(tc.pos)
		if h < tc.lo || h > tc.hi || ref.BgID != id {
			t.Errorf("%s: FloorHeight(%v) = %v %v want %v..%v on dyna %d", tc.name, tc.pos, h, ref, tc.lo, tc.hi, id)
		}
		if d := h - coarse; tc.refined != (d > 0.3) || (!tc.refined && math.Abs(d) > 0.01) {
			t.Errorf("%s: dyna height %v, static %v, refined %v", tc.name, h, coarse, tc.refined)
		}
	}
}

func TestDynaFloorAboveStatic(t *testing.T) {
	pos := vec.Vec3{X: 49.19, Y: 100, Z: 10}
	for _, tc := range []struct {
		floor int16
		dyna  bool
	}{
		{27, true},
		{28, true},
		{29, false},
	} {
		w, err := NewFromMesh(colmesh.Floor(200, tc.floor), Adult)
		if err != nil {
			t.Fatalf("NewFromMesh: %v", err)
		}
		id, err := w.AddDynapoly(rampMesh(100, 10, 47), Identity())
		if err != nil {
			t.Fatalf("AddDynapoly: %v", err)
		}
		h, ref := w.FloorHeight(pos)
		if tc.dyna {
			if ref.BgID != id || h <= float32(tc.floor) {
				t.Errorf("floor at %d: FloorHeight = %v %v want the ramp above it", tc.floor, h, ref)
			}
		} else if !ref.IsScene() || h != float32(tc.floor) {
			t.Errorf("floor at %d: FloorHeight = %v %v want the floor", tc.floor, h, ref)
		}
	}
}

func TestWallNonPenetration(t *testing.T) {
	for _, tc := range []struct {
		age      Age
		prev     vec.Vec3
		intended vec.Vec3
		want     vec.Vec3
	}{
		{Adult, vec.Vec3{X: 0, Y: 0, Z: 30}, vec.Vec3{X: 0, Y: 0, Z: 10}, vec.Vec3{X: 0, Y: 0, Z: 18}},
		{Child, vec.Vec3{X: 0, Y: 0, Z: 30}, vec.Vec3{X: 0, Y: 0, Z: 10}, vec.Vec3{X: 0, Y: 0, Z: 15}},
		{Adult, vec.Vec3{X: 20, Y: 0, Z: 40}, vec.Vec3{X: 25, Y: 0, Z: 5}, vec.Vec3{X: 25, Y: 0, Z: 18}},
		{Adult, vec.Vec3{X: 0, Y: 0, Z: 40}, vec.Vec3{X: 0, Y: 0, Z: 30}, vec.Vec3{X: 0, Y: 0, Z: 30}},
		// behind the gate nothing pushes
		{Adult, vec.Vec3{X: 0, Y: 0, Z: -30}, vec.Vec3{X: 0, Y: 0, Z: -10}, vec.Vec3{X: 0, Y: 0, Z: -10}},
		{Adult, vec.Vec3{X: 0, Y: 0, Z: -10}, vec.Vec3{X: 5, Y: 0, Z: -10}, vec.Vec3{X: 5, Y: 0, Z: -10}},
		{Child, vec.Vec3{X: 0, Y: 0, Z: -30}, vec.Vec3{X: 0, Y: 0, Z: -5}, vec.Vec3{X: 0, Y: 0, Z: -5}},
	} {
		w := gateWorld(t, tc.age)
		r := w.RunChecks(tc.prev, tc.intended)
		if r.Pos != tc.want {
			t.Errorf("%v: RunChecks(%v, %v) = %v want %v", tc.age, tc.prev, tc.intended, r.Pos, tc.want)
		}
		if (tc.prev.Z > 0) != (r.Pos.Z > 0) {
			t.Errorf("%v: RunChecks(%v, %v) = %v changed side", tc.age, tc.prev, tc.intended, r.Pos)
		}
		if (tc.want.Z != tc.intended.Z) != r.HitWall {
			t.Errorf("%v: RunChecks(%v, %v) HitWall = %v", tc.age, tc.prev, tc.intended, r.HitWall)
		}
		if r.HitWall && (!r.Wall.IsScene() || !r.Wall.Valid()) {
			t.Errorf("wall ref %+v", r.Wall)
		}
	}
}

func TestGateClip(t *testing.T) {
	w := gateWorld(t, Adult)
	prev := vec.Vec3{X: 0, Y: 0, Z: 30}
	intended := vec.Vec3{X: 0, Y: 0, Z: -10}
	r := w.RunChecks(prev, intended)
	if r.Pos == intended {
		t.Fatalf("RunChecks(%v, %v) went through the gate", prev, intended)
	}
	if d := r.Pos.Z; d != AdultRadius {
		t.Errorf("distance to gate = %v want %v", d, AdultRadius)
	}
	if !r.HitWall || r.Wall.BgID != SceneID {
		t.Errorf("wall = %+v, hit %v", r.Wall, r.HitWall)
	}
	if r.FloorHeight != MinHeight || r.Floor.Valid() {
		t.Errorf("floor = %v %+v want none", r.FloorHeight, r.Floor)
	}
}

func TestDynaWallSweep(t *testing.T) {
	w := New(Adult)
	p := Identity()
	p.Rot.Y = 0x4000
	id, err := w.AddDynapoly(colmesh.KakarikoGuardGate(), p)
	if err != nil {
		t.Fatalf("AddDynapoly: %v", err)
	}
	d, _ := w.Dyna(id)
	for i, poly := range d.Polys() {
		if poly.Normal != (vec.Vec3s{X: 32767}) {
			t.Fatalf("poly %d normal %v want +x", i, poly.Normal)
		}
	}
	r := w.RunChecks(vec.Vec3{X: 30, Y: 0, Z: 0}, vec.Vec3{X: 10, Y: 0, Z: 0})
	if want := (vec.Vec3{X: 18, Y: 0, Z: 0}); r.Pos != want {
		t.Errorf("RunChecks = %v want %v", r.Pos, want)
	}
	if !r.HitWall || r.Wall.BgID != id {
		t.Errorf("wall = %+v want dyna %d", r.Wall, id)
	}
	r = w.RunChecks(vec.Vec3{X: -30, Y: 0, Z: 0}, vec.Vec3{X: -10, Y: 0, Z: 0})
	if want := (vec.Vec3{X: -10, Y: 0, Z: 0}); r.Pos != want || r.HitWall {
		t.Errorf("RunChecks behind the dyna = %v %v want %v", r.Pos, r.Wall, want)
	}
}

func TestFallThroughFloor(t *testing.T) {
	w, err := NewFromMesh(colmesh.Floor(100, 0), Adult)
	if err != nil {
		t.Fatalf("NewFromMesh: %v", err)
	}
	r := w.RunChecks(vec.Vec3{X: 10, Y: 40, Z: -30}, vec.Vec3{X: 20, Y: -10, Z: -30})
	if want := (vec.Vec3{X: 18, Y: 0, Z: -30}); r.Pos != want {
		t.Errorf("RunChecks = %v want %v", r.Pos, want)
	}
	if !r.Floor.Valid() || r.FloorHeight != 0 {
		t.Errorf("floor = %v %+v", r.FloorHeight, r.Floor)
	}
}

func TestLanding(t *testing.T) {
	w := gateWorld(t, Adult)
	p := Identity()
	p.Pos.Y = 50
	id, err := w.AddDynapoly(colmesh.Floor(200, 0), p)
	if err != nil {
		t.Fatalf("AddDynapoly: %v", err)
	}
	r := w.RunChecks(vec.Vec3{X: 10, Y: 60, Z: -50}, vec.Vec3{X: 10, Y: 45, Z: -50})
	if r.Pos.Y != 50 || r.Floor.BgID != id || r.FloorHeight != 50 {
		t.Errorf("RunChecks = %+v want landing on dyna %d at 50", r, id)
	}

	p.Pos.Y = 70
	if err := w.SetDynaPlacement(id, p); err != nil {
		t.Fatalf("SetDynaPlacement: %v", err)
	}
	if h, ref := w.FloorHeight(vec.Vec3{X: 10, Y: 100, Z: -50}); h != 70 || ref.BgID != id {
		t.Errorf("FloorHeight after move = %v %+v want 70", h, ref)
	}
	if h, _ := w.FloorHeight(vec.Vec3{X: 10, Y: 60, Z: -50}); h != MinHeight {
		t.Errorf("FloorHeight below the dyna = %v want none", h)
	}
}

func TestLineTests(t *testing.T) {
	a := vec.Vec3{X: 0, Y: 26, Z: 30}
	b := vec.Vec3{X: 0, Y: 26, Z: -10}

	w := gateWorld(t, Adult)
	id, err := w.AddDynapoly(colmesh.KakarikoGuardGate(), Identity())
	if err != nil {
		t.Fatalf("AddDynapoly: %v", err)
	}
	// equal distance keeps the static hit
	pos, ref, ok := w.CameraLineTest(a, b)
	if !ok || ref.BgID != SceneID || pos != (vec.Vec3{X: 0, Y: 26, Z: 0}) {
		t.Errorf("CameraLineTest = %v %+v %v want scene hit at z 0", pos, ref, ok)
	}

	p := Identity()
	p.Pos.Z = 10
	if err := w.SetDynaPlacement(id, p); err != nil {
		t.Fatalf("SetDynaPlacement: %v", err)
	}
	pos, ref, ok = w.EntityLineTest(a, b, true, false, false)
	if !ok || ref.BgID != id || pos.Z != 10 {
		t.Errorf("EntityLineTest = %v %+v %v want dyna hit at z 10", pos, ref, ok)
	}
	if _, _, ok := w.EntityLineTest(a, vec.Vec3{X: 0, Y: 26, Z: 20}, true, true, true); ok {
		t.Errorf("EntityLineTest hit with both ends in front")
	}
	// the bucket flags apply to dynas as well
	if _, ref, ok := w.EntityLineTest(a, b, false, true, true); ok {
		t.Errorf("EntityLineTest without walls hit %+v", ref)
	}
	// two faced, the back side hits too
	if pos, _, ok := w.EntityLineTest(b, a, true, false, false); !ok || pos.Z != 0 {
		t.Errorf("EntityLineTest from behind = %v %v", pos, ok)
	}
}

func TestExclusionFlags(t *testing.T) {
	mesh := colmesh.KakarikoGuardGate()
	for i := range mesh.Polys {
		mesh.Polys[i].VtxA |= colmesh.IgnoreCamera
	}
	w, err := NewFromMesh(mesh, Adult)
	if err != nil {
		t.Fatalf("NewFromMesh: %v", err)
	}
	a := vec.Vec3{X: 0, Y: 26, Z: 30}
	b := vec.Vec3{X: 0, Y: 26, Z: -10}
	if _, _, ok := w.CameraLineTest(a, b); ok {
		t.Errorf("CameraLineTest hit a polygon flagged ignore camera")
	}
	if _, _, ok := w.EntityLineTest(a, b, true, true, true); !ok {
		t.Errorf("EntityLineTest missed the gate")
	}
	if r := w.RunChecks(vec.Vec3{Z: 30}, vec.Vec3{Z: 10}); r.Pos.Z != 18 {
		t.Errorf("RunChecks = %v want z 18", r.Pos)
	}

	floor := colmesh.Floor(50, 0)
	floor.Polys[0].VtxA |= colmesh.IgnoreEntity
	floor.Polys[1].VtxA |= colmesh.IgnoreEntity
	w, err = NewFromMesh(floor, Adult)
	if err != nil {
		t.Fatalf("NewFromMesh: %v", err)
	}
	p := vec.Vec3{X: 5, Y: 10, Z: 5}
	if h, _ := w.FloorHeight(p); h != MinHeight {
		t.Errorf("FloorHeight = %v want none", h)
	}
	if h, ref := w.CameraFindFloor(p); h != 0 || !ref.Valid() {
		t.Errorf("CameraFindFloor = %v %+v want 0", h, ref)
	}
}

func TestNewFiltered(t *testing.T) {
	mesh := colmesh.Platform()
	w, err := NewFiltered(mesh, Adult, AABB{Min: vec.Vec3{X: -100, Y: 15, Z: -100}, Max: vec.Vec3{X: 100, Y: 25, Z: 100}})
	if err != nil {
		t.Fatalf("NewFiltered: %v", err)
	}
	s := w.Static()
	if s.Len() != 10 || len(s.Floors()) != 2 || len(s.Walls()) != 8 || len(s.Ceilings()) != 0 {
		t.Errorf("index = %d polys, %v %v %v", s.Len(), s.Floors(), s.Walls(), s.Ceilings())
	}
	if s.Contains(2) || !s.Contains(0) {
		t.Errorf("Contains(2) = %v Contains(0) = %v", s.Contains(2), s.Contains(0))
	}
	if got := w.FindFloor(vec.Vec3{X: 0, Y: 30, Z: 0}); got.Y != 20 {
		t.Errorf("FindFloor on platform = %v want 20", got.Y)
	}
}

func TestAddPolyErrors(t *testing.T) {
	gate := colmesh.KakarikoGuardGate()
	w := New(Adult)
	if err := w.AddPoly(gate, 2); err == nil {
		t.Errorf("AddPoly accepted an out of range id")
	}
	if err := w.AddPolys(gate, []int{0, 1, 1}); err != nil {
		t.Errorf("AddPolys: %v", err)
	}
	if w.Static().Len() != 2 {
		t.Errorf("Len() = %d want 2", w.Static().Len())
	}
	if err := w.AddPoly(colmesh.Platform(), 0); err == nil {
		t.Errorf("AddPoly accepted a second mesh")
	}
	if _, err := NewFromIDs(gate, Adult, []int{-1}); err == nil {
		t.Errorf("NewFromIDs accepted a negative id")
	}
	if p := w.Poly(PolyRef{BgID: SceneID, Index: 1}); p == nil || p.VtxC != 3 {
		t.Errorf("Poly(scene 1) = %v", p)
	}
	if p := w.Poly(PolyRef{BgID: 4, Index: 0}); p != nil {
		t.Errorf("Poly of unknown dyna = %v", p)
	}
	if v, ok := w.PolyVertices(PolyRef{BgID: SceneID, Index: 0}); !ok || v[2] != (vec.Vec3{X: 60, Y: 120}) {
		t.Errorf("PolyVertices = %v %v", v, ok)
	}
}

func TestAgeRadius(t *testing.T) {
	if Adult.Radius() != 18 || Child.Radius() != 15 {
		t.Errorf("radii %v %v", Adult.Radius(), Child.Radius())
	}
	w := New(Child)
	w.SetAge(Adult)
	if w.Age() != Adult {
		t.Errorf("Age() = %v", w.Age())
	}
}

type halfTrig struct{}

func (halfTrig) SinS(a int16) float32 { return math.Table{}.SinS(a) / 2 }
func (halfTrig) CosS(a int16) float32 { return math.Table{}.CosS(a) }

func TestSetTrig(t *testing.T) {
	w := New(Adult)
	w.SetTrig(halfTrig{})
	p := Identity()
	p.Rot.Y = 0x4000
	id, err := w.AddDynapoly(colmesh.KakarikoGuardGate(), p)
	if err != nil {
		t.Fatalf("AddDynapoly: %v", err)
	}
	d, _ := w.Dyna(id)
	// x' = z*sin/2 = 0 and z' = -x*sin/2
	if got := d.Vertices()[0]; got != (vec.Vec3s{X: 0, Y: 0, Z: 30}) {
		t.Errorf("vertex 0 = %v want {0 0 30}", got)
	}
}
