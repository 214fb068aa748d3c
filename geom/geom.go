// SPDX-License-Identifier: GPL-2.0-or-later

// Package geom contains the triangle, plane and collider primitives consumed
// by the collision engine.
package geom

import (
	"bgsim/math"
	"bgsim/math/vec"
)

// detMax is the tolerance of the projected point in triangle determinants.
const detMax = 300

// PlaneDist returns the signed distance of p to the plane n.p + originDist = 0.
func PlaneDist(nx, ny, nz, originDist float32, p vec.Vec3) float32 {
	return float32(nx*p.X) + float32(ny*p.Y) + float32(nz*p.Z) + originDist
}

// det2D is twice the signed area of the triangle (a, b, p) in the plane of
// the two given coordinates.
func det2D(a0, a1, b0, b1, p0, p1 float32) float32 {
	return float32((a0-p0)*(b1-p1)) - float32((a1-p1)*(b0-p0))
}

// PointDistSqToLine2D returns the squared distance of p to the line through
// a and b if the foot of the perpendicular lies between a and b.
func PointDistSqToLine2D(p0, p1, a0, a1, b0, b1 float32) (float32, bool) {
	d0 := b0 - a0
	d1 := b1 - a1
	lenSq := float32(d0*d0) + float32(d1*d1)
	if math.IsZero(lenSq) {
		return 0, false
	}
	t := (float32((p0-a0)*d0) + float32((p1-a1)*d1)) / lenSq
	if t < 0 || t > 1 {
		return 0, false
	}
	f0 := a0 + float32(t*d0)
	f1 := a1 + float32(t*d1)
	return float32((f0-p0)*(f0-p0)) + float32((f1-p1)*(f1-p1)), true
}

// paraImpl tests whether the point (p0, p1) lies within the projection of
// the triangle onto the plane of the two coordinates. For polygons facing
// mostly along the projection axis (|n| > 0.5) points within chkDist of an
// edge or vertex count as inside too.
func paraImpl(t [3][2]float32, p0, p1, detLimit, chkDist, n float32) bool {
	lo0, hi0 := p0-chkDist, p0+chkDist
	lo1, hi1 := p1-chkDist, p1+chkDist
	if t[0][0] < lo0 && t[1][0] < lo0 && t[2][0] < lo0 {
		return false
	}
	if t[0][0] > hi0 && t[1][0] > hi0 && t[2][0] > hi0 {
		return false
	}
	if t[0][1] < lo1 && t[1][1] < lo1 && t[2][1] < lo1 {
		return false
	}
	if t[0][1] > hi1 && t[1][1] > hi1 && t[2][1] > hi1 {
		return false
	}

	d01 := det2D(t[0][0], t[0][1], t[1][0], t[1][1], p0, p1)
	d12 := det2D(t[1][0], t[1][1], t[2][0], t[2][1], p0, p1)
	d20 := det2D(t[2][0], t[2][1], t[0][0], t[0][1], p0, p1)
	if (d01 >= -detLimit && d12 >= -detLimit && d20 >= -detLimit) ||
		(d01 <= detLimit && d12 <= detLimit && d20 <= detLimit) {
		return true
	}

	if math.Abs(n) <= 0.5 {
		return false
	}
	chkDistSq := float32(chkDist * chkDist)
	for i := 0; i < 3; i++ {
		a := t[i]
		b := t[(i+1)%3]
		if d, ok := PointDistSqToLine2D(p0, p1, a[0], a[1], b[0], b[1]); ok && d < chkDistSq {
			return true
		}
	}
	for i := 0; i < 3; i++ {
		d0 := t[i][0] - p0
		d1 := t[i][1] - p1
		if float32(d0*d0)+float32(d1*d1) < chkDistSq {
			return true
		}
	}
	return false
}

// TriChkPointParaYDist tests (x, z) against the triangle projected along Y.
func TriChkPointParaYDist(v0, v1, v2 vec.Vec3, ny, z, x, chkDist float32) bool {
	t := [3][2]float32{{v0.Z, v0.X}, {v1.Z, v1.X}, {v2.Z, v2.X}}
	return paraImpl(t, z, x, detMax, chkDist, ny)
}

// TriChkPointParaXDist tests (y, z) against the triangle projected along X.
func TriChkPointParaXDist(v0, v1, v2 vec.Vec3, nx, y, z, chkDist float32) bool {
	t := [3][2]float32{{v0.Y, v0.Z}, {v1.Y, v1.Z}, {v2.Y, v2.Z}}
	return paraImpl(t, y, z, detMax, chkDist, nx)
}

// TriChkPointParaZDist tests (x, y) against the triangle projected along Z.
func TriChkPointParaZDist(v0, v1, v2 vec.Vec3, nz, x, y, chkDist float32) bool {
	t := [3][2]float32{{v0.X, v0.Y}, {v1.X, v1.Y}, {v2.X, v2.Y}}
	return paraImpl(t, x, y, detMax, chkDist, nz)
}

// PlaneY returns the height of the plane at (x, z). ny must not be zero.
func PlaneY(nx, ny, nz, originDist, x, z float32) float32 {
	return ((-float32(nx * x)) - float32(nz*z) - originDist) / ny
}

// TriChkPointParaYIntersectDist returns the height of the triangle's plane
// above (x, z) if the point lies within the triangle, edges inflated by
// chkDist.
func TriChkPointParaYIntersectDist(v0, v1, v2 vec.Vec3, nx, ny, nz, originDist, z, x, chkDist float32) (float32, bool) {
	if math.IsZero(ny) {
		return 0, false
	}
	if !TriChkPointParaYDist(v0, v1, v2, ny, z, x, chkDist) {
		return 0, false
	}
	return PlaneY(nx, ny, nz, originDist, x, z), true
}

// TriChkPointParaYIntersectInsideTri is TriChkPointParaYIntersectDist
// without the edge allowance and with a unit determinant tolerance.
func TriChkPointParaYIntersectInsideTri(v0, v1, v2 vec.Vec3, nx, ny, nz, originDist, z, x float32) (float32, bool) {
	if math.IsZero(ny) {
		return 0, false
	}
	t := [3][2]float32{{v0.Z, v0.X}, {v1.Z, v1.X}, {v2.Z, v2.X}}
	if !paraImpl(t, z, x, 1, 0, ny) {
		return 0, false
	}
	return PlaneY(nx, ny, nz, originDist, x, z), true
}
