// SPDX-License-Identifier: GPL-2.0-or-later

// Package bgcheck is the background collision engine: polygon buckets for the
// static scene and for moving platforms, the entity wall resolver, the floor
// raycaster and the line tests built on them.
//
// All arithmetic is float32 and follows the engine's evaluation order. Every
// product that feeds a sum is converted explicitly so the compiler cannot
// fuse it.
package bgcheck

import (
	"bgsim/math"
)

type Bucket int

const (
	Floor Bucket = iota
	Wall
	Ceiling
)

func (b Bucket) String() string {
	switch b {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	case Ceiling:
		return "ceiling"
	}
	return "unknown"
}

// Classify sorts a polygon by the y component of its quantized normal.
func Classify(normalY int16) Bucket {
	ny := math.Normal(normalY)
	if ny > 0.5 {
		return Floor
	}
	if ny < -0.8 {
		return Ceiling
	}
	return Wall
}

// buckets holds polygon indices per bucket.
type buckets struct {
	floors   []int
	walls    []int
	ceilings []int
}

func (b *buckets) list(k Bucket) *[]int {
	switch k {
	case Floor:
		return &b.floors
	case Ceiling:
		return &b.ceilings
	}
	return &b.walls
}

func (b *buckets) add(k Bucket, id int) {
	l := b.list(k)
	*l = append(*l, id)
}

// push inserts id at the front of its bucket.
func (b *buckets) push(k Bucket, id int) {
	l := b.list(k)
	*l = append(*l, 0)
	copy((*l)[1:], *l)
	(*l)[0] = id
}

func (b *buckets) reset() {
	b.floors = b.floors[:0]
	b.walls = b.walls[:0]
	b.ceilings = b.ceilings[:0]
}

// Floors returns the polygon indices classified as floor.
func (b *buckets) Floors() []int { return b.floors }

// Walls returns the polygon indices classified as wall.
func (b *buckets) Walls() []int { return b.walls }

// Ceilings returns the polygon indices classified as ceiling.
func (b *buckets) Ceilings() []int { return b.ceilings }
