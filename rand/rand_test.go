// SPDX-License-Identifier: GPL-2.0-or-later

package rand

import "testing"

func TestSequence(t *testing.T) {
	a := New(7)
	b := New(7)
	for i := 0; i < 100; i++ {
		if x, y := a.Uint32n(1000), b.Uint32n(1000); x != y {
			t.Fatalf("value %d: %d != %d", i, x, y)
		}
	}
	c := New(8)
	same := 0
	a = New(7)
	for i := 0; i < 100; i++ {
		if a.rand() == c.rand() {
			same++
		}
	}
	if same > 2 {
		t.Errorf("seeds 7 and 8 share %d of 100 values", same)
	}
}

func TestFork(t *testing.T) {
	g := New(3)
	f1 := g.Fork(5)
	g.rand()
	g.rand()
	f2 := g.Fork(5)
	if x, y := f1.rand(), f2.rand(); x != y {
		t.Errorf("Fork(5) after advancing = %d want %d", y, x)
	}
	f3 := g.Fork(6)
	f1 = g.Fork(5)
	if f1.rand() == f3.rand() {
		t.Errorf("Fork(5) and Fork(6) start equal")
	}
}

func TestRanges(t *testing.T) {
	g := New(1)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		j := g.Jitter(2)
		if j < -2 || j > 2 {
			t.Fatalf("Jitter(2) = %d", j)
		}
		seen[j] = true
		if f := g.Float32(); f < 0 || f >= 1 {
			t.Fatalf("Float32() = %v", f)
		}
	}
	if len(seen) != 5 {
		t.Errorf("Jitter(2) produced %v", seen)
	}
	if j := g.Jitter(0); j != 0 {
		t.Errorf("Jitter(0) = %d", j)
	}
}
