// SPDX-License-Identifier: GPL-2.0-or-later

// Package superslide checks whether a bomb explosion recoils off the shield
// before it reaches the player, the setup of a compact superslide.
package superslide

import (
	"bgsim/geom"
	"bgsim/math"
	"bgsim/math/mtx"
	"bgsim/math/vec"
)

const (
	// explosion frames simulated
	Frames = 15
	// the explosion sphere grows by this much per frame
	RadiusStep = 8

	CylRadius = 12
	CylHeight = 53
)

// ShieldCorners holds the shield collider quad in player space for each
// frame of the guard animation. The shield faces +z.
var ShieldCorners = [8][4]vec.Vec3{
	{{X: -10, Y: 18, Z: 14}, {X: 10, Y: 18, Z: 14}, {X: -10, Y: 50, Z: 14}, {X: 10, Y: 50, Z: 14}},
	{{X: -10, Y: 19, Z: 15}, {X: 10, Y: 19, Z: 15}, {X: -10, Y: 51, Z: 15}, {X: 10, Y: 51, Z: 15}},
	{{X: -11, Y: 21, Z: 16}, {X: 11, Y: 21, Z: 16}, {X: -11, Y: 52, Z: 16}, {X: 11, Y: 52, Z: 16}},
	{{X: -11, Y: 22, Z: 17}, {X: 11, Y: 22, Z: 17}, {X: -11, Y: 53, Z: 17}, {X: 11, Y: 53, Z: 17}},
	{{X: -11, Y: 23, Z: 17}, {X: 11, Y: 23, Z: 17}, {X: -11, Y: 54, Z: 17}, {X: 11, Y: 54, Z: 17}},
	{{X: -11, Y: 22, Z: 16}, {X: 11, Y: 22, Z: 16}, {X: -11, Y: 53, Z: 16}, {X: 11, Y: 53, Z: 16}},
	{{X: -10, Y: 21, Z: 15}, {X: 10, Y: 21, Z: 15}, {X: -10, Y: 52, Z: 15}, {X: 10, Y: 52, Z: 15}},
	{{X: -10, Y: 20, Z: 15}, {X: 10, Y: 20, Z: 15}, {X: -10, Y: 51, Z: 15}, {X: 10, Y: 51, Z: 15}},
}

// Setup is one candidate: player position and facing, shield animation
// frame and the bomb position at the start of the explosion.
type Setup struct {
	Pos         vec.Vec3
	Yaw         int16
	ShieldFrame int
	Bomb        vec.Vec3
}

type Contact int

const (
	None Contact = iota
	Shield
	Player
)

func (c Contact) String() string {
	switch c {
	case Shield:
		return "shield"
	case Player:
		return "player"
	}
	return "none"
}

// Outcome is the first contact of the explosion and the frame it
// happened on, or None and Frames.
type Outcome struct {
	Contact Contact
	Frame   int
}

// Shield returns the shield quad of s in world space.
func (s Setup) Shield(tr math.Trig) [4]vec.Vec3 {
	m := mtx.ScaleRotateYXZTranslate(vec.Vec3{X: 1, Y: 1, Z: 1}, vec.Vec3s{Y: s.Yaw}, s.Pos, tr)
	q := ShieldCorners[math.Clamp(0, s.ShieldFrame, len(ShieldCorners)-1)]
	for i := range q {
		q[i] = m.MultVec3(q[i])
	}
	return q
}

// Simulate grows the explosion frame by frame. The bomb position is
// truncated to whole units first. On each frame the shield is tested
// before the player cylinder.
func Simulate(s Setup, tr math.Trig) Outcome {
	quad := s.Shield(tr)
	cyl := geom.Cylinder{Pos: s.Pos, Radius: CylRadius, Height: CylHeight}
	center := s.Bomb.Vec3s().F()
	for frame := 1; frame <= Frames; frame++ {
		sph := geom.Sphere{Center: center, Radius: float32(RadiusStep * frame)}
		if _, ok := geom.SphVsQuad(sph, quad); ok {
			return Outcome{Contact: Shield, Frame: frame}
		}
		if _, ok := geom.SphVsCylOverlap(sph, cyl); ok {
			return Outcome{Contact: Player, Frame: frame}
		}
	}
	return Outcome{Contact: None, Frame: Frames}
}

// Works reports whether the explosion recoils off the shield without
// touching the player first.
func Works(s Setup, tr math.Trig) bool {
	return Simulate(s, tr).Contact == Shield
}
