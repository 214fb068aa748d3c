// SPDX-License-Identifier: GPL-2.0-or-later

package colmesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"bgsim/crc"
	"bgsim/math/vec"
)

// segmented address helpers
func segment(addr uint32) byte {
	return byte(addr >> 24)
}

func offset(addr uint32) int {
	return int(addr & 0x00FFFFFF)
}

type reader struct {
	data []byte
	seg  byte
}

func (r *reader) read(addr uint32, size int, v any) error {
	if size == 0 {
		return nil
	}
	if segment(addr) != r.seg {
		return errors.Errorf("address %#08x outside segment %#02x", addr, r.seg)
	}
	off := offset(addr)
	if off+size > len(r.data) {
		return errors.Errorf("address %#08x: %d bytes past end of data (%d)", addr, size, len(r.data))
	}
	return binary.Read(bytes.NewReader(r.data[off:off+size]), binary.BigEndian, v)
}

// Decode reads the collision mesh whose header sits at headerAddr. data is
// the whole segment, addressed by the low 24 bits of every pointer.
func Decode(data []byte, headerAddr uint32) (*Header, error) {
	r := &reader{data: data, seg: segment(headerAddr)}
	var h header
	if err := r.read(headerAddr, headerSize, &h); err != nil {
		return nil, errors.Wrap(err, "colmesh: header")
	}

	mesh := &Header{
		MinBounds: vec.Vec3s{X: h.MinBounds[0], Y: h.MinBounds[1], Z: h.MinBounds[2]},
		MaxBounds: vec.Vec3s{X: h.MaxBounds[0], Y: h.MaxBounds[1], Z: h.MaxBounds[2]},
	}

	vs := make([]vertex, h.NumVertices)
	if err := r.read(h.VtxList, len(vs)*vertexSize, vs); err != nil {
		return nil, errors.Wrap(err, "colmesh: vertex list")
	}
	mesh.Vertices = make([]vec.Vec3s, len(vs))
	for i, v := range vs {
		mesh.Vertices[i] = vec.Vec3s{X: v.X, Y: v.Y, Z: v.Z}
	}

	ps := make([]poly, h.NumPolys)
	if err := r.read(h.PolyList, len(ps)*polySize, ps); err != nil {
		return nil, errors.Wrap(err, "colmesh: poly list")
	}
	mesh.Polys = make([]Poly, len(ps))
	numSurfaces := 0
	for i, p := range ps {
		mesh.Polys[i] = Poly{
			Type:   p.Type,
			VtxA:   p.VtxA,
			VtxB:   p.VtxB,
			VtxC:   p.VtxC,
			Normal: vec.Vec3s{X: p.Normal[0], Y: p.Normal[1], Z: p.Normal[2]},
			Dist:   p.Dist,
		}
		numSurfaces = max(numSurfaces, int(p.Type)+1)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	// the side tables carry no count, it follows from the references into them
	if h.SurfaceTypes != 0 && numSurfaces > 0 {
		st := make([]surfaceType, numSurfaces)
		if err := r.read(h.SurfaceTypes, len(st)*surfaceTypeSize, st); err != nil {
			return nil, errors.Wrap(err, "colmesh: surface types")
		}
		mesh.SurfaceTypes = make([]SurfaceType, len(st))
		for i, s := range st {
			mesh.SurfaceTypes[i] = SurfaceType(s.Data)
		}
	}
	if h.BgCamList != 0 && len(mesh.SurfaceTypes) > 0 {
		numCams := 0
		for _, s := range mesh.SurfaceTypes {
			numCams = max(numCams, s.BgCamIndex()+1)
		}
		cs := make([]bgCamInfo, numCams)
		if err := r.read(h.BgCamList, len(cs)*bgCamInfoSize, cs); err != nil {
			return nil, errors.Wrap(err, "colmesh: camera data")
		}
		mesh.BgCams = make([]BgCamInfo, len(cs))
		for i, c := range cs {
			mesh.BgCams[i] = BgCamInfo(c)
		}
	}
	if h.WaterBoxes != 0 && h.NumWaterBoxes > 0 {
		ws := make([]waterBox, h.NumWaterBoxes)
		if err := r.read(h.WaterBoxes, len(ws)*waterBoxSize, ws); err != nil {
			return nil, errors.Wrap(err, "colmesh: water boxes")
		}
		mesh.WaterBoxes = make([]WaterBox, len(ws))
		for i, w := range ws {
			mesh.WaterBoxes[i] = WaterBox{
				XMin:       w.XMin,
				YSurface:   w.YSurface,
				ZMin:       w.ZMin,
				XLength:    w.XLength,
				ZLength:    w.ZLength,
				Properties: w.Properties,
			}
		}
	}
	return mesh, nil
}

// LoadFile decodes the mesh at headerAddr from a raw segment dump.
func LoadFile(name string, headerAddr uint32) (*Header, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "colmesh: read %s", name)
	}
	h, err := Decode(b, headerAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "colmesh: decode %s", name)
	}
	h.Name = name
	slog.Debug("colmesh: loaded", slog.String("file", name), slog.Int("bytes", len(b)),
		slog.String("crc", fmt.Sprintf("%04x", crc.Checksum(b))),
		slog.Int("polys", len(h.Polys)), slog.Int("vertices", len(h.Vertices)))
	return h, nil
}

// Encode writes h as a self contained segment with the header at offset 0.
// Tables follow in the order vertices, polys, surface types, camera data,
// water boxes, each 4 byte aligned. Empty tables get a null pointer.
func Encode(h *Header, seg byte) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	addr := func(off int) uint32 {
		return uint32(seg)<<24 | uint32(off)
	}
	align := func(n int) int {
		return (n + 3) &^ 3
	}

	off := headerSize
	var vtxOff, polyOff, stOff, camOff, wbOff int
	if len(h.Vertices) > 0 {
		vtxOff = off
		off = align(off + len(h.Vertices)*vertexSize)
	}
	if len(h.Polys) > 0 {
		polyOff = off
		off += len(h.Polys) * polySize
	}
	if len(h.SurfaceTypes) > 0 {
		stOff = off
		off += len(h.SurfaceTypes) * surfaceTypeSize
	}
	if len(h.BgCams) > 0 {
		camOff = off
		off += len(h.BgCams) * bgCamInfoSize
	}
	if len(h.WaterBoxes) > 0 {
		wbOff = off
		off += len(h.WaterBoxes) * waterBoxSize
	}
	ptr := func(o int) uint32 {
		if o == 0 {
			return 0
		}
		return addr(o)
	}

	hd := header{
		MinBounds:     [3]int16{h.MinBounds.X, h.MinBounds.Y, h.MinBounds.Z},
		MaxBounds:     [3]int16{h.MaxBounds.X, h.MaxBounds.Y, h.MaxBounds.Z},
		NumVertices:   uint16(len(h.Vertices)),
		VtxList:       ptr(vtxOff),
		NumPolys:      uint16(len(h.Polys)),
		PolyList:      ptr(polyOff),
		SurfaceTypes:  ptr(stOff),
		BgCamList:     ptr(camOff),
		NumWaterBoxes: uint16(len(h.WaterBoxes)),
		WaterBoxes:    ptr(wbOff),
	}

	buf := bytes.NewBuffer(make([]byte, 0, off))
	write := func(v any) {
		// writes to a bytes.Buffer do not fail
		_ = binary.Write(buf, binary.BigEndian, v)
	}
	pad := func(to int) {
		for buf.Len() < to {
			buf.WriteByte(0)
		}
	}
	write(hd)
	if vtxOff != 0 {
		pad(vtxOff)
		for _, v := range h.Vertices {
			write(vertex{v.X, v.Y, v.Z})
		}
	}
	if polyOff != 0 {
		pad(polyOff)
		for _, p := range h.Polys {
			write(poly{
				Type:   p.Type,
				VtxA:   p.VtxA,
				VtxB:   p.VtxB,
				VtxC:   p.VtxC,
				Normal: [3]int16{p.Normal.X, p.Normal.Y, p.Normal.Z},
				Dist:   p.Dist,
			})
		}
	}
	if stOff != 0 {
		pad(stOff)
		for _, s := range h.SurfaceTypes {
			write(surfaceType{Data: s})
		}
	}
	if camOff != 0 {
		pad(camOff)
		for _, c := range h.BgCams {
			write(bgCamInfo(c))
		}
	}
	if wbOff != 0 {
		pad(wbOff)
		for _, w := range h.WaterBoxes {
			write(waterBox{
				XMin:       w.XMin,
				YSurface:   w.YSurface,
				ZMin:       w.ZMin,
				XLength:    w.XLength,
				ZLength:    w.ZLength,
				Properties: w.Properties,
			})
		}
	}
	return buf.Bytes(), nil
}
