// SPDX-License-Identifier: GPL-2.0-or-later

// Package record stores search hits as a stream of length delimited
// protobuf messages:
//
//	message Hit {
//	  bytes  run        = 1;  // 16 byte run id
//	  uint32 index      = 2;
//	  bytes  start      = 3;  // x, y, z as fixed32 float bits
//	  sint32 yaw        = 4;
//	  bytes  intended   = 5;
//	  bytes  pos        = 6;
//	  sint32 wall_bg    = 7;
//	  sint32 wall       = 8;
//	  sint32 crossed_bg = 9;
//	  sint32 crossed    = 10;
//	  bool   clip       = 11;
//	}
package record

import (
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"bgsim/bgcheck"
	"bgsim/math/vec"
	"bgsim/search"
)

const (
	fieldRun       protowire.Number = 1
	fieldIndex     protowire.Number = 2
	fieldStart     protowire.Number = 3
	fieldYaw       protowire.Number = 4
	fieldIntended  protowire.Number = 5
	fieldPos       protowire.Number = 6
	fieldWallBg    protowire.Number = 7
	fieldWall      protowire.Number = 8
	fieldCrossedBg protowire.Number = 9
	fieldCrossed   protowire.Number = 10
	fieldClip      protowire.Number = 11
)

// Hit is one search result stamped with the run that found it.
type Hit struct {
	Run      uuid.UUID
	Index    int
	Start    vec.Vec3
	Yaw      int16
	Intended vec.Vec3
	Pos      vec.Vec3
	Wall     bgcheck.PolyRef
	Crossed  bgcheck.PolyRef
	Clip     bool
}

func FromResult(run uuid.UUID, r search.Result) Hit {
	return Hit{
		Run:      run,
		Index:    r.Index,
		Start:    r.Start,
		Yaw:      r.Yaw,
		Intended: r.Intended,
		Pos:      r.Pos,
		Wall:     r.Wall,
		Crossed:  r.Crossed,
		Clip:     r.Clip,
	}
}

// FromReport returns the clips of rep.
func FromReport(rep *search.Report) []Hit {
	var h []Hit
	for _, r := range rep.Hits() {
		h = append(h, FromResult(rep.Run, r))
	}
	return h
}

func appendVec(b []byte, n protowire.Number, v vec.Vec3) []byte {
	b = protowire.AppendTag(b, n, protowire.BytesType)
	b = protowire.AppendVarint(b, 12)
	for _, f := range v.Array() {
		b = protowire.AppendFixed32(b, math.Float32bits(f))
	}
	return b
}

func appendSint(b []byte, n protowire.Number, v int) []byte {
	b = protowire.AppendTag(b, n, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

// AppendHit appends the message encoding of h to b.
func AppendHit(b []byte, h Hit) []byte {
	b = protowire.AppendTag(b, fieldRun, protowire.BytesType)
	b = protowire.AppendBytes(b, h.Run[:])
	b = protowire.AppendTag(b, fieldIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(h.Index))
	b = appendVec(b, fieldStart, h.Start)
	b = appendSint(b, fieldYaw, int(h.Yaw))
	b = appendVec(b, fieldIntended, h.Intended)
	b = appendVec(b, fieldPos, h.Pos)
	b = appendSint(b, fieldWallBg, h.Wall.BgID)
	b = appendSint(b, fieldWall, h.Wall.Index)
	b = appendSint(b, fieldCrossedBg, h.Crossed.BgID)
	b = appendSint(b, fieldCrossed, h.Crossed.Index)
	if h.Clip {
		b = protowire.AppendTag(b, fieldClip, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return b
}

func consumeVec(b []byte) (vec.Vec3, error) {
	if len(b) != 12 {
		return vec.Vec3{}, errors.Errorf("record: vector of %d bytes", len(b))
	}
	var a [3]float32
	for i := range a {
		u, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return vec.Vec3{}, protowire.ParseError(n)
		}
		a[i] = math.Float32frombits(u)
		b = b[n:]
	}
	return vec.VFromA(a), nil
}

// UnmarshalHit decodes one message. Unknown fields are skipped.
func UnmarshalHit(b []byte) (Hit, error) {
	var h Hit
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Hit{}, errors.Wrap(protowire.ParseError(n), "record: tag")
		}
		b = b[n:]
		switch {
		case typ == protowire.BytesType && (num == fieldRun || num == fieldStart || num == fieldIntended || num == fieldPos):
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Hit{}, errors.Wrapf(protowire.ParseError(n), "record: field %d", num)
			}
			b = b[n:]
			var err error
			switch num {
			case fieldRun:
				h.Run, err = uuid.FromBytes(v)
			case fieldStart:
				h.Start, err = consumeVec(v)
			case fieldIntended:
				h.Intended, err = consumeVec(v)
			case fieldPos:
				h.Pos, err = consumeVec(v)
			}
			if err != nil {
				return Hit{}, errors.Wrapf(err, "record: field %d", num)
			}
		case typ == protowire.VarintType && num >= fieldIndex && num <= fieldClip:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Hit{}, errors.Wrapf(protowire.ParseError(n), "record: field %d", num)
			}
			b = b[n:]
			s := int(protowire.DecodeZigZag(v))
			switch num {
			case fieldIndex:
				h.Index = int(v)
			case fieldYaw:
				h.Yaw = int16(s)
			case fieldWallBg:
				h.Wall.BgID = s
			case fieldWall:
				h.Wall.Index = s
			case fieldCrossedBg:
				h.Crossed.BgID = s
			case fieldCrossed:
				h.Crossed.Index = s
			case fieldClip:
				h.Clip = protowire.DecodeBool(v)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Hit{}, errors.Wrapf(protowire.ParseError(n), "record: field %d", num)
			}
			b = b[n:]
		}
	}
	return h, nil
}

// Write writes hits to w, each prefixed with its varint length.
func Write(w io.Writer, hits []Hit) error {
	var b, m []byte
	for _, h := range hits {
		m = AppendHit(m[:0], h)
		b = protowire.AppendBytes(b, m)
	}
	_, err := w.Write(b)
	return errors.Wrap(err, "record: write")
}

// Read reads a stream written by Write.
func Read(r io.Reader) ([]Hit, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "record: read")
	}
	var hits []Hit
	for len(b) > 0 {
		m, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, errors.Wrapf(protowire.ParseError(n), "record: hit %d", len(hits))
		}
		b = b[n:]
		h, err := UnmarshalHit(m)
		if err != nil {
			return nil, errors.Wrapf(err, "record: hit %d", len(hits))
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// WriteFile stores the clips of rep at path.
func WriteFile(path string, rep *search.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "record")
	}
	if err := Write(f, FromReport(rep)); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "record")
}

// ReadFile loads the hits stored at path.
func ReadFile(path string) ([]Hit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "record")
	}
	defer f.Close()
	return Read(f)
}
