// SPDX-License-Identifier: GPL-2.0-or-later

// Package vec holds the float and integer 3D vectors of the engine.
//
// Every product that feeds a sum is wrapped in an explicit float32
// conversion. The conversion forces rounding after the multiply, which keeps
// the compiler from fusing it into an FMA on architectures that have one.
// Results therefore match single precision evaluation step by step.
package vec

import (
	"github.com/chewxy/math32"
)

type Vec3 struct {
	X, Y, Z float32
}

// Vec3s is an integer point as stored in mesh records.
type Vec3s struct {
	X, Y, Z int16
}

func VFromA(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

func (v *Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func (v *Vec3) Idx(i int) float32 {
	switch i {
	default:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
}

// F converts the integer point to floats. The conversion is exact.
func (v Vec3s) F() Vec3 {
	return Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Vec3s truncates each component toward zero like a C float to short cast.
func (v Vec3) Vec3s() Vec3s {
	return Vec3s{int16(v.X), int16(v.Y), int16(v.Z)}
}

// Length returns the length of the vector
func (v *Vec3) Length() float32 {
	return math32.Sqrt(Dot(*v, *v))
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X + b.X,
		Y: a.Y + b.Y,
		Z: a.Z + b.Z,
	}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X - b.X,
		Y: a.Y - b.Y,
		Z: a.Z - b.Z,
	}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{
		X: v.X * s,
		Y: v.Y * s,
		Z: v.Z * s,
	}
}

// Normalize returns the normalized vector
func (v *Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Dot returns a dot b, summed left to right.
func Dot(a Vec3, b Vec3) float32 {
	return float32(a.X*b.X) + float32(a.Y*b.Y) + float32(a.Z*b.Z)
}

// DoublePrecDot return a dot b calculated in double precision
func DoublePrecDot(a Vec3, b Vec3) float32 {
	p := func(x, y float32) float64 {
		return float64(x) * float64(y)
	}
	return float32(p(a.X, b.X) + p(a.Y, b.Y) + p(a.Z, b.Z))
}

// Cross returns a cross b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		float32(a.Y*b.Z) - float32(a.Z*b.Y),
		float32(a.Z*b.X) - float32(a.X*b.Z),
		float32(a.X*b.Y) - float32(a.Y*b.X),
	}
}

// SurfaceNorm returns the unnormalized normal of the triangle a, b, c.
func SurfaceNorm(a, b, c Vec3) Vec3 {
	return Cross(Sub(b, a), Sub(c, a))
}

// Lerp returns a + (b - a) * frac, the engine's line split.
func Lerp(a, b Vec3, frac float32) Vec3 {
	return Vec3{
		a.X + float32(frac*(b.X-a.X)),
		a.Y + float32(frac*(b.Y-a.Y)),
		a.Z + float32(frac*(b.Z-a.Z)),
	}
}

// DistSq returns the squared distance between a and b.
func DistSq(a, b Vec3) float32 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return float32(dx*dx) + float32(dy*dy) + float32(dz*dz)
}

// DistXZ returns the horizontal distance between a and b.
func DistXZ(a, b Vec3) float32 {
	dx := b.X - a.X
	dz := b.Z - a.Z
	return math32.Sqrt(float32(dx*dx) + float32(dz*dz))
}

// Equal returns a == b
func Equal(a Vec3, b Vec3) bool {
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z
}

func minmax(a, b float32) (float32, float32) {
	if a < b {
		return a, b
	}
	return b, a
}

func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	r.X, s.X = minmax(a.X, b.X)
	r.Y, s.Y = minmax(a.Y, b.Y)
	r.Z, s.Z = minmax(a.Z, b.Z)
	return r, s
}
