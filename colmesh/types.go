// SPDX-License-Identifier: GPL-2.0-or-later

package colmesh

// On-disk layouts. All records are big-endian and addressed through 32-bit
// segmented pointers (segment << 24 | offset).

// called CollisionHeader in c
type header struct {
	MinBounds     [3]int16
	MaxBounds     [3]int16
	NumVertices   uint16
	_             uint16
	VtxList       uint32
	NumPolys      uint16
	_             uint16
	PolyList      uint32
	SurfaceTypes  uint32
	BgCamList     uint32
	NumWaterBoxes uint16
	_             uint16
	WaterBoxes    uint32
}

const headerSize = 0x2C

type vertex struct {
	X, Y, Z int16
}

const vertexSize = 6

type poly struct {
	Type   uint16
	VtxA   uint16 // vertex index, top 3 bits exclusion flags
	VtxB   uint16 // vertex index, top 3 bits surface flags
	VtxC   uint16
	Normal [3]int16
	Dist   int16
}

const polySize = 0x10

type surfaceType struct {
	Data [2]uint32
}

const surfaceTypeSize = 8

type bgCamInfo struct {
	Setting  uint16
	Count    int16
	FuncData uint32
}

const bgCamInfoSize = 8

type waterBox struct {
	XMin       int16
	YSurface   int16
	ZMin       int16
	XLength    int16
	ZLength    int16
	_          int16
	Properties uint32
}

const waterBoxSize = 0x10
