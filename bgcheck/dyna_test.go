// SPDX-License-Identifier: GPL-2.0-or-later

package bgcheck

import (
	"slices"
	"testing"

	"bgsim/colmesh"
	"bgsim/math/vec"
)

func addPlatform(t *testing.T, w *World, p Placement) *Dyna {
	t.Helper()
	id, err := w.AddDynapoly(colmesh.Platform(), p)
	if err != nil {
		t.Fatalf("AddDynapoly: %v", err)
	}
	d, ok := w.Dyna(id)
	if !ok {
		t.Fatalf("Dyna(%d) not found", id)
	}
	return d
}

func TestDynaIdentity(t *testing.T) {
	w := New(Adult)
	d := addPlatform(t, w, Identity())
	src := d.Mesh()
	for i, p := range d.Polys() {
		if p.Normal != src.Polys[i].Normal || p.Dist != src.Polys[i].Dist {
			t.Errorf("poly %d = %v/%d want %v/%d", i, p.Normal, p.Dist, src.Polys[i].Normal, src.Polys[i].Dist)
		}
	}
	if !slices.Equal(d.Vertices(), src.Vertices) {
		t.Errorf("Vertices() = %v want %v", d.Vertices(), src.Vertices)
	}
	// buckets are filled in reverse mesh order
	if want := []int{1, 0}; !slices.Equal(d.Floors(), want) {
		t.Errorf("Floors() = %v want %v", d.Floors(), want)
	}
	if want := []int{3, 2}; !slices.Equal(d.Ceilings(), want) {
		t.Errorf("Ceilings() = %v want %v", d.Ceilings(), want)
	}
	if want := []int{11, 10, 9, 8, 7, 6, 5, 4}; !slices.Equal(d.Walls(), want) {
		t.Errorf("Walls() = %v want %v", d.Walls(), want)
	}
	if lo, hi := d.YRange(); lo != 0 || hi != 20 {
		t.Errorf("YRange() = %v, %v want 0, 20", lo, hi)
	}
}

func TestDynaYaw180(t *testing.T) {
	w := New(Adult)
	d := addPlatform(t, w, Identity())
	before := slices.Clone(d.Polys())
	floors, walls, ceilings := slices.Clone(d.Floors()), slices.Clone(d.Walls()), slices.Clone(d.Ceilings())

	p := Identity()
	p.Rot.Y = -0x8000
	if err := w.SetDynaPlacement(0, p); err != nil {
		t.Fatalf("SetDynaPlacement: %v", err)
	}
	for i, a := range d.Polys() {
		b := before[i]
		if a.Normal.X != -b.Normal.X || a.Normal.Z != -b.Normal.Z || a.Normal.Y != b.Normal.Y {
			t.Errorf("poly %d normal %v after yaw, %v before", i, a.Normal, b.Normal)
		}
	}
	if !slices.Equal(d.Floors(), floors) || !slices.Equal(d.Walls(), walls) || !slices.Equal(d.Ceilings(), ceilings) {
		t.Errorf("yaw changed buckets: %v %v %v", d.Floors(), d.Walls(), d.Ceilings())
	}
	if got := d.Vertices()[0]; got != (vec.Vec3s{X: 50, Y: 0, Z: 50}) {
		t.Errorf("vertex 0 = %v want {50 0 50}", got)
	}
}

func TestDynaRollRebuckets(t *testing.T) {
	w := New(Adult)
	d := addPlatform(t, w, Identity())
	p := Identity()
	p.Rot.Z = -0x8000
	if err := w.SetDynaPlacement(0, p); err != nil {
		t.Fatalf("SetDynaPlacement: %v", err)
	}
	// upside down, the old bottom is the floor and the old top the ceiling
	if want := []int{3, 2}; !slices.Equal(d.Floors(), want) {
		t.Errorf("Floors() = %v want %v", d.Floors(), want)
	}
	if want := []int{1, 0}; !slices.Equal(d.Ceilings(), want) {
		t.Errorf("Ceilings() = %v want %v", d.Ceilings(), want)
	}
	if len(d.Walls()) != 8 {
		t.Errorf("Walls() = %v want 8 walls", d.Walls())
	}
	if lo, hi := d.YRange(); lo != -20 || hi != 0 {
		t.Errorf("YRange() = %v, %v want -20, 0", lo, hi)
	}
}

func TestDynaTruncates(t *testing.T) {
	w := New(Adult)
	p := Identity()
	p.Pos = vec.Vec3{X: 0.75, Y: -0.75, Z: 10.5}
	d := addPlatform(t, w, p)
	if got := d.Vertices()[0]; got != (vec.Vec3s{X: -49, Y: 0, Z: -39}) {
		t.Errorf("vertex 0 = %v want {-49 0 -39}", got)
	}
	if lo, _ := d.YRange(); lo != -0.75 {
		t.Errorf("minY = %v want -0.75", lo)
	}
}

func TestDynaErrors(t *testing.T) {
	w := New(Child)
	if _, err := w.AddDynapoly(nil, Identity()); err == nil {
		t.Errorf("AddDynapoly(nil) succeeded")
	}
	if err := w.SetDynaPlacement(3, Identity()); err == nil {
		t.Errorf("SetDynaPlacement of unknown dyna succeeded")
	}
	bad := colmesh.KakarikoGuardGate()
	bad.Polys[0].VtxB = 9
	if _, err := w.AddDynapoly(bad, Identity()); err == nil {
		t.Errorf("AddDynapoly accepted a broken mesh")
	}
	for i := 0; i < MaxDynas; i++ {
		if _, err := w.AddDynapoly(colmesh.KakarikoGuardGate(), Identity()); err != nil {
			t.Fatalf("AddDynapoly %d: %v", i, err)
		}
	}
	if _, err := w.AddDynapoly(colmesh.KakarikoGuardGate(), Identity()); err == nil {
		t.Errorf("AddDynapoly past MaxDynas succeeded")
	}
}

// twinGate is the gate with its first triangle stored twice.
func twinGate() *colmesh.Header {
	h := colmesh.KakarikoGuardGate()
	h.Polys = []colmesh.Poly{h.Polys[0], h.Polys[0]}
	return h
}

func TestDynaTieBreak(t *testing.T) {
	a := vec.Vec3{X: 0, Y: 26, Z: 30}
	b := vec.Vec3{X: 0, Y: 26, Z: -10}

	static, err := NewFromMesh(twinGate(), Adult)
	if err != nil {
		t.Fatalf("NewFromMesh: %v", err)
	}
	if _, ref, ok := static.EntityLineTest(a, b, true, false, false); !ok || ref != (PolyRef{BgID: SceneID, Index: 0}) {
		t.Errorf("static EntityLineTest = %v %v want scene:0", ref, ok)
	}

	w := New(Adult)
	id, err := w.AddDynapoly(twinGate(), Identity())
	if err != nil {
		t.Fatalf("AddDynapoly: %v", err)
	}
	d, _ := w.Dyna(id)
	if want := []int{1, 0}; !slices.Equal(d.Walls(), want) {
		t.Fatalf("Walls() = %v want %v", d.Walls(), want)
	}
	// equal distances keep the first hit, which is the last polygon
	pos, ref, ok := w.EntityLineTest(a, b, true, false, false)
	if !ok || ref != (PolyRef{BgID: id, Index: 1}) || pos.Z != 0 {
		t.Errorf("dyna EntityLineTest = %v %v %v want dyna%d:1", pos, ref, ok, id)
	}
	if _, ref, _ := w.CameraLineTest(a, b); ref.Index != 1 {
		t.Errorf("dyna CameraLineTest = %v want index 1", ref)
	}
}
