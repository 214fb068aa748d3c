// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"github.com/chewxy/math32"
)

// Trig evaluates sine and cosine of 16-bit binary angles, 0x10000 units per
// full turn. Placement and scenario code only ever reaches trigonometry
// through this interface.
type Trig interface {
	SinS(a int16) float32
	CosS(a int16) float32
}

// Table is the lookup-table Trig used by the game: a quarter wave of
// 1024 int16 samples, so results are multiples of ShtMinV and quadrant
// boundaries are exact.
type Table struct{}

var sinTable [0x400]int16

func init() {
	for i := range sinTable {
		s := math32.Sin(float32(i) * math32.Pi / 2048)
		sinTable[i] = int16(math32.Round(s * 32767))
	}
}

func sins(a uint16) int16 {
	x := a >> 4
	var v int16
	if x&0x400 != 0 {
		v = sinTable[0x3FF-(x&0x3FF)]
	} else {
		v = sinTable[x&0x3FF]
	}
	if x&0x800 != 0 {
		return -v
	}
	return v
}

func (Table) SinS(a int16) float32 {
	return float32(sins(uint16(a))) * ShtMinV
}

func (Table) CosS(a int16) float32 {
	return float32(sins(uint16(a)+0x4000)) * ShtMinV
}

// DegToBinAng converts degrees into binary angle units.
func DegToBinAng(deg float32) int16 {
	return int16(int32(deg * (0x8000 / 180.0)))
}

// BinAngToDeg converts binary angle units into degrees.
func BinAngToDeg(a int16) float32 {
	return float32(a) * (180.0 / 0x8000)
}

// AngleMod changes an angle to be within 0-360 degrees
func AngleMod(a float32) float32 {
	return a - math32.Floor(a/360)*360
}
