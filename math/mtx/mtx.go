// SPDX-License-Identifier: GPL-2.0-or-later

// Package mtx builds the placement transforms of moving geometry.
//
// A transform is a value passed to whoever needs it. There is no matrix
// stack.
package mtx

import (
	"github.com/go-gl/mathgl/mgl32"

	"bgsim/math"
	"bgsim/math/vec"
)

// MtxF is a 4x4 float matrix in mgl32 column major layout. Element names
// follow row/column: xw is row x, column w (the x translation).
type MtxF struct {
	m mgl32.Mat4
}

func Identity() MtxF {
	return MtxF{mgl32.Ident4()}
}

func (f *MtxF) at(row, col int) float32 {
	return f.m[col*4+row]
}

func (f *MtxF) set(row, col int, v float32) {
	f.m[col*4+row] = v
}

// Mat4 returns the underlying matrix.
func (f MtxF) Mat4() mgl32.Mat4 {
	return f.m
}

// ScaleRotateYXZTranslate returns T * Ry * Rx * Rz * S. Angles are binary
// angles evaluated through tr.
func ScaleRotateYXZTranslate(scale vec.Vec3, rot vec.Vec3s, pos vec.Vec3, tr math.Trig) MtxF {
	sx, cx := tr.SinS(rot.X), tr.CosS(rot.X)
	sy, cy := tr.SinS(rot.Y), tr.CosS(rot.Y)
	sz, cz := tr.SinS(rot.Z), tr.CosS(rot.Z)

	sysx := float32(sy * sx)
	cysx := float32(cy * sx)

	var f MtxF
	f.set(0, 0, float32(cy*cz)+float32(sysx*sz))
	f.set(0, 1, float32(sysx*cz)-float32(cy*sz))
	f.set(0, 2, float32(sy*cx))
	f.set(1, 0, float32(cx*sz))
	f.set(1, 1, float32(cx*cz))
	f.set(1, 2, -sx)
	f.set(2, 0, float32(cysx*sz)-float32(sy*cz))
	f.set(2, 1, float32(sy*sz)+float32(cysx*cz))
	f.set(2, 2, float32(cy*cx))

	s := [3]float32{scale.X, scale.Y, scale.Z}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			f.set(row, col, f.at(row, col)*s[col])
		}
	}
	f.set(0, 3, pos.X)
	f.set(1, 3, pos.Y)
	f.set(2, 3, pos.Z)
	f.set(3, 3, 1)
	return f
}

// MultVec3 transforms a point: x' = xw + ((x*xx + y*xy) + z*xz).
func (f *MtxF) MultVec3(v vec.Vec3) vec.Vec3 {
	row := func(r int) float32 {
		return f.at(r, 3) + (float32(v.X*f.at(r, 0)) + float32(v.Y*f.at(r, 1)) + float32(v.Z*f.at(r, 2)))
	}
	return vec.Vec3{X: row(0), Y: row(1), Z: row(2)}
}

// Mul returns a * b, each element summed left to right.
func Mul(a, b MtxF) MtxF {
	var f MtxF
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			f.set(r, c, float32(a.at(r, 0)*b.at(0, c))+float32(a.at(r, 1)*b.at(1, c))+
				float32(a.at(r, 2)*b.at(2, c))+float32(a.at(r, 3)*b.at(3, c)))
		}
	}
	return f
}
