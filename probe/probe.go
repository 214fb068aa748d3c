// SPDX-License-Identifier: GPL-2.0-or-later

// Package probe implements the script commands that query a collision
// world: age, runchecks, findfloor, linetest, dyna, place, superslide and
// list.
package probe

import (
	"fmt"

	"github.com/pkg/errors"

	"bgsim/bgcheck"
	"bgsim/cmd"
	"bgsim/conlog"
	"bgsim/math/vec"
	"bgsim/superslide"
)

// Probe runs commands against one world. Output goes through Printf.
type Probe struct {
	w      *bgcheck.World
	Printf func(format string, v ...interface{})
}

func New(w *bgcheck.World) *Probe {
	return &Probe{w: w, Printf: conlog.Printf}
}

func (p *Probe) World() *bgcheck.World {
	return p.w
}

// Register adds all probe commands to c.
func (p *Probe) Register(c *cmd.Commands) error {
	for _, e := range []struct {
		name string
		f    cmd.Func
	}{
		{"age", p.age},
		{"runchecks", p.runChecks},
		{"findfloor", p.findFloor},
		{"linetest", p.lineTest},
		{"dyna", p.dyna},
		{"place", p.place},
		{"superslide", p.superslide},
		{"list", p.list},
	} {
		if err := c.Add(e.name, e.f); err != nil {
			return err
		}
	}
	return nil
}

func fv(v vec.Vec3) string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

func vec3(a cmd.Arguments, i int) (vec.Vec3, error) {
	v, ok := a.Vec3(i)
	if !ok {
		return vec.Vec3{}, errors.Errorf("want x y z at argument %d", i)
	}
	return v, nil
}

func usage(u string) error {
	return errors.Errorf("usage: %s", u)
}

// age [adult|child]
func (p *Probe) age(a cmd.Arguments) error {
	switch a.Argv(1).String() {
	case "":
	case "adult":
		p.w.SetAge(bgcheck.Adult)
	case "child":
		p.w.SetAge(bgcheck.Child)
	default:
		return usage("age [adult|child]")
	}
	p.Printf("age %v radius %g\n", p.w.Age(), p.w.Age().Radius())
	return nil
}

// runchecks px py pz ix iy iz
func (p *Probe) runChecks(a cmd.Arguments) error {
	if len(a.Args()) != 7 {
		return usage("runchecks px py pz ix iy iz")
	}
	prev, err := vec3(a, 1)
	if err != nil {
		return err
	}
	next, err := vec3(a, 4)
	if err != nil {
		return err
	}
	r := p.w.RunChecks(prev, next)
	p.Printf("runchecks %s -> %s wall %v floor %v height %g\n",
		fv(prev), fv(r.Pos), r.Wall, r.Floor, r.FloorHeight)
	return nil
}

// findfloor x y z [camera]
func (p *Probe) findFloor(a cmd.Arguments) error {
	pos, err := vec3(a, 1)
	if err != nil {
		return usage("findfloor x y z [camera]")
	}
	if a.Argv(4).String() == "camera" {
		h, ref := p.w.CameraFindFloor(pos)
		p.Printf("findfloor %s camera %g %v\n", fv(pos), h, ref)
		return nil
	}
	r := p.w.FindFloor(pos)
	p.Printf("findfloor %s %g\n", fv(pos), r.Y)
	return nil
}

// linetest ax ay az bx by bz [camera|walls|floors|ceilings...]
func (p *Probe) lineTest(a cmd.Arguments) error {
	if len(a.Args()) < 7 {
		return usage("linetest ax ay az bx by bz [camera|walls|floors|ceilings...]")
	}
	from, err := vec3(a, 1)
	if err != nil {
		return err
	}
	to, err := vec3(a, 4)
	if err != nil {
		return err
	}
	var (
		hit vec.Vec3
		ref bgcheck.PolyRef
		ok  bool
	)
	sel := a.Args()[7:]
	if len(sel) == 1 && sel[0].String() == "camera" {
		hit, ref, ok = p.w.CameraLineTest(from, to)
	} else {
		walls, floors, ceilings := len(sel) == 0, len(sel) == 0, len(sel) == 0
		for _, s := range sel {
			switch s.String() {
			case "walls":
				walls = true
			case "floors":
				floors = true
			case "ceilings":
				ceilings = true
			default:
				return errors.Errorf("unknown bucket %q", s.String())
			}
		}
		hit, ref, ok = p.w.EntityLineTest(from, to, walls, floors, ceilings)
	}
	if !ok {
		p.Printf("linetest %s %s no hit\n", fv(from), fv(to))
		return nil
	}
	p.Printf("linetest %s %s hit %s %v\n", fv(from), fv(to), fv(hit), ref)
	return nil
}

// dyna id
func (p *Probe) dyna(a cmd.Arguments) error {
	if len(a.Args()) != 2 {
		return usage("dyna id")
	}
	id := a.Argv(1).Int()
	d, ok := p.w.Dyna(id)
	if !ok {
		return errors.Errorf("unknown dyna %d", id)
	}
	pl := d.Placement()
	lo, hi := d.YRange()
	fl := d.Floors()
	wa := d.Walls()
	ce := d.Ceilings()
	p.Printf("dyna %d pos %s rot (%d %d %d) scale %s y %g..%g floors %d walls %d ceilings %d\n",
		id, fv(pl.Pos), pl.Rot.X, pl.Rot.Y, pl.Rot.Z, fv(pl.Scale), lo, hi, len(fl), len(wa), len(ce))
	return nil
}

// place id x y z [rx ry rz]
func (p *Probe) place(a cmd.Arguments) error {
	n := len(a.Args())
	if n != 5 && n != 8 {
		return usage("place id x y z [rx ry rz]")
	}
	id := a.Argv(1).Int()
	d, ok := p.w.Dyna(id)
	if !ok {
		return errors.Errorf("unknown dyna %d", id)
	}
	pl := d.Placement()
	pos, err := vec3(a, 2)
	if err != nil {
		return err
	}
	pl.Pos = pos
	if n == 8 {
		var rot [3]int16
		for i := range rot {
			r, ok := a.Argv(5 + i).Angle()
			if !ok {
				return errors.Errorf("bad angle %q", a.Argv(5+i).String())
			}
			rot[i] = r
		}
		pl.Rot = vec.Vec3s{X: rot[0], Y: rot[1], Z: rot[2]}
	}
	return p.w.SetDynaPlacement(id, pl)
}

// superslide px py pz yaw frame bx by bz
func (p *Probe) superslide(a cmd.Arguments) error {
	if len(a.Args()) != 9 {
		return usage("superslide px py pz yaw frame bx by bz")
	}
	pos, err := vec3(a, 1)
	if err != nil {
		return err
	}
	yaw, ok := a.Argv(4).Angle()
	if !ok {
		return errors.Errorf("bad angle %q", a.Argv(4).String())
	}
	bomb, err := vec3(a, 6)
	if err != nil {
		return err
	}
	s := superslide.Setup{Pos: pos, Yaw: yaw, ShieldFrame: a.Argv(5).Int(), Bomb: bomb}
	o := superslide.Simulate(s, p.w.Trig())
	p.Printf("superslide %v frame %d works %v\n", o.Contact, o.Frame, o.Contact == superslide.Shield)
	return nil
}

// list
func (p *Probe) list(_ cmd.Arguments) error {
	st := p.w.Static()
	p.Printf("scene %d polys floors %d walls %d ceilings %d\n",
		st.Len(), len(st.Floors()), len(st.Walls()), len(st.Ceilings()))
	for i := 0; i < p.w.NumDynas(); i++ {
		d, _ := p.w.Dyna(i)
		p.Printf("dyna %d %d polys at %s\n", i, len(d.Polys()), fv(d.Placement().Pos))
	}
	return nil
}
