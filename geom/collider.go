// SPDX-License-Identifier: GPL-2.0-or-later

package geom

import (
	"bgsim/math"
	"bgsim/math/vec"
)

type Sphere struct {
	Center vec.Vec3
	Radius float32
}

// Cylinder is an upright cylinder standing on Pos.Y + YShift.
type Cylinder struct {
	Pos    vec.Vec3
	Radius float32
	Height float32
	YShift float32
}

// Triangle carries its unit normal and plane distance.
type Triangle struct {
	V      [3]vec.Vec3
	Normal vec.Vec3
	Dist   float32
}

func NewTriangle(a, b, c vec.Vec3) Triangle {
	n := vec.SurfaceNorm(a, b, c)
	n = n.Normalize()
	return Triangle{
		V:      [3]vec.Vec3{a, b, c},
		Normal: n,
		Dist:   -vec.Dot(n, a),
	}
}

// SphVsCylOverlap reports whether s and c overlap and by how much
// horizontally.
func SphVsCylOverlap(s Sphere, c Cylinder) (float32, bool) {
	if s.Radius <= 0 || c.Radius <= 0 {
		return 0, false
	}
	cylBottom := c.Pos.Y + c.YShift
	cylTop := cylBottom + c.Height
	x := s.Center.X - c.Pos.X
	z := s.Center.Z - c.Pos.Z
	target := s.Radius + c.Radius
	centerDist := math.Sqrt(float32(x*x) + float32(z*z))
	sphBottom := s.Center.Y - s.Radius
	sphTop := s.Center.Y + s.Radius
	if sphTop >= cylBottom && sphBottom <= cylTop && centerDist < target {
		return target - centerDist, true
	}
	return 0, false
}

func closestOnSegment(p, a, b vec.Vec3) vec.Vec3 {
	ab := vec.Sub(b, a)
	l := vec.Dot(ab, ab)
	if l == 0 {
		return a
	}
	t := math.Clamp(0, vec.Dot(vec.Sub(p, a), ab)/l, 1)
	return vec.Add(a, ab.Scale(t))
}

// SphVsTri reports whether the sphere touches the triangle.
func SphVsTri(s Sphere, t Triangle) bool {
	d := PlaneDist(t.Normal.X, t.Normal.Y, t.Normal.Z, t.Dist, s.Center)
	if math.Abs(d) > s.Radius {
		return false
	}
	p := vec.Sub(s.Center, t.Normal.Scale(d))
	inside := true
	sign := float32(0)
	for i := 0; i < 3; i++ {
		a := t.V[i]
		b := t.V[(i+1)%3]
		c := vec.Dot(vec.Cross(vec.Sub(b, a), vec.Sub(p, a)), t.Normal)
		if c == 0 {
			continue
		}
		if sign == 0 {
			sign = c
		} else if (sign < 0) != (c < 0) {
			inside = false
			break
		}
	}
	if inside {
		return true
	}
	rSq := float32(s.Radius * s.Radius)
	for i := 0; i < 3; i++ {
		q := closestOnSegment(s.Center, t.V[i], t.V[(i+1)%3])
		if vec.DistSq(q, s.Center) <= rSq {
			return true
		}
	}
	return false
}

// QuadTris splits a collider quad into its two triangles.
func QuadTris(q [4]vec.Vec3) [2]Triangle {
	return [2]Triangle{
		NewTriangle(q[2], q[3], q[1]),
		NewTriangle(q[1], q[0], q[2]),
	}
}

// SphVsQuad returns the index of the first quad triangle the sphere touches.
func SphVsQuad(s Sphere, q [4]vec.Vec3) (int, bool) {
	for i, t := range QuadTris(q) {
		if SphVsTri(s, t) {
			return i, true
		}
	}
	return -1, false
}
