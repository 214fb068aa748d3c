// SPDX-License-Identifier: GPL-2.0-or-later

// Package config reads scenario files: the collision meshes making up a
// world and the parameters of searches and floor maps run against it.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"bgsim/bgcheck"
	"bgsim/colmesh"
	"bgsim/math/vec"
)

type Vec3 [3]float32

func (v Vec3) Vec() vec.Vec3 {
	return vec.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

type Scenario struct {
	Name     string       `yaml:"name"`
	Age      string       `yaml:"age"`
	Mesh     Mesh         `yaml:"mesh"`
	Filter   *Box         `yaml:"filter"`
	Polys    []int        `yaml:"polys"`
	Dynas    []Dyna       `yaml:"dynas"`
	Search   Search       `yaml:"search"`
	FloorMap FloorMap     `yaml:"floormap"`
	Logging  LoggingBlock `yaml:"logging"`
}

// Mesh names a built in mesh or a segment dump plus header address.
type Mesh struct {
	Builtin string `yaml:"builtin"`
	File    string `yaml:"file"`
	Header  uint32 `yaml:"header"`
	// Floor builtin only
	Half int16 `yaml:"half"`
	Y    int16 `yaml:"y"`
}

type Box struct {
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`
}

type Placement struct {
	Scale *Vec3    `yaml:"scale"`
	Rot   [3]int16 `yaml:"rot"`
	Pos   Vec3     `yaml:"pos"`
}

type Dyna struct {
	Mesh      Mesh      `yaml:"mesh"`
	Placement Placement `yaml:"placement"`
}

// Search describes a grid of start positions and facings. Every start is
// moved Speed units along each yaw and the result checked for a clip.
type Search struct {
	Min     Vec3    `yaml:"min"`
	Max     Vec3    `yaml:"max"`
	Step    float32 `yaml:"step"`
	Yaws    []int16 `yaml:"yaws"`
	Speed   float32 `yaml:"speed"`
	Jitter  int     `yaml:"jitter"`
	Seed    uint32  `yaml:"seed"`
	Workers int     `yaml:"workers"`
	Out     string  `yaml:"out"`
}

// FloorMap is the horizontal area rendered by the floor map and the height
// of the probe.
type FloorMap struct {
	Min   Vec3    `yaml:"min"`
	Max   Vec3    `yaml:"max"`
	Step  float32 `yaml:"step"`
	Scale int     `yaml:"scale"`
	Out   string  `yaml:"out"`
}

type LoggingBlock struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and checks the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return s, nil
}

func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "config: parse")
	}
	s.setDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) setDefaults() {
	if s.Age == "" {
		s.Age = "adult"
	}
	if s.Search.Step == 0 {
		s.Search.Step = 1
	}
	if len(s.Search.Yaws) == 0 {
		s.Search.Yaws = []int16{0}
	}
	if s.FloorMap.Step == 0 {
		s.FloorMap.Step = 1
	}
	if s.FloorMap.Scale == 0 {
		s.FloorMap.Scale = 1
	}
}

func (s *Scenario) validate() error {
	if _, err := ParseAge(s.Age); err != nil {
		return err
	}
	if s.Mesh.Builtin == "" && s.Mesh.File == "" {
		return errors.New("config: mesh needs builtin or file")
	}
	if s.Search.Step < 0 || s.FloorMap.Step < 0 {
		return errors.New("config: negative step")
	}
	if s.Search.Jitter < 0 {
		return errors.Errorf("config: negative jitter %d", s.Search.Jitter)
	}
	for i, d := range s.Dynas {
		if d.Mesh.Builtin == "" && d.Mesh.File == "" {
			return errors.Errorf("config: dyna %d needs builtin or file", i)
		}
	}
	return nil
}

func ParseAge(s string) (bgcheck.Age, error) {
	switch s {
	case "adult":
		return bgcheck.Adult, nil
	case "child":
		return bgcheck.Child, nil
	}
	return bgcheck.Adult, errors.Errorf("config: unknown age %q", s)
}

// Load returns the mesh m names.
func (m Mesh) Load() (*colmesh.Header, error) {
	switch m.Builtin {
	case "":
	case "kakariko_gate":
		return colmesh.KakarikoGuardGate(), nil
	case "platform":
		return colmesh.Platform(), nil
	case "floor":
		half := m.Half
		if half == 0 {
			half = 1000
		}
		return colmesh.Floor(half, m.Y), nil
	default:
		return nil, errors.Errorf("config: unknown builtin mesh %q", m.Builtin)
	}
	return colmesh.LoadFile(m.File, m.Header)
}

func (p Placement) Placement() bgcheck.Placement {
	r := bgcheck.Identity()
	if p.Scale != nil {
		r.Scale = p.Scale.Vec()
	}
	r.Rot = vec.Vec3s{X: p.Rot[0], Y: p.Rot[1], Z: p.Rot[2]}
	r.Pos = p.Pos.Vec()
	return r
}

// World builds a fresh collision world for the scenario. Each call loads
// new meshes so worlds never share state.
func (s *Scenario) World() (*bgcheck.World, error) {
	age, err := ParseAge(s.Age)
	if err != nil {
		return nil, err
	}
	mesh, err := s.Mesh.Load()
	if err != nil {
		return nil, err
	}
	var w *bgcheck.World
	switch {
	case s.Filter != nil:
		w, err = bgcheck.NewFiltered(mesh, age, bgcheck.AABB{Min: s.Filter.Min.Vec(), Max: s.Filter.Max.Vec()})
	case len(s.Polys) > 0:
		w, err = bgcheck.NewFromIDs(mesh, age, s.Polys)
	default:
		w, err = bgcheck.NewFromMesh(mesh, age)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "config: scenario %q", s.Name)
	}
	for i, d := range s.Dynas {
		m, err := d.Mesh.Load()
		if err != nil {
			return nil, errors.Wrapf(err, "config: dyna %d", i)
		}
		if _, err := w.AddDynapoly(m, d.Placement.Placement()); err != nil {
			return nil, errors.Wrapf(err, "config: dyna %d", i)
		}
	}
	return w, nil
}
