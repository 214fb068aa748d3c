// SPDX-License-Identifier: GPL-2.0-or-later

// Package commandline holds the flags of the bgsim binary.
package commandline

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	configFile string
	script     string
	floorMap   string
	age        string
	logLevel   string
	logFormat  string
	seed       uint

	search = boolInt{false, 0}
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func register(fs *flag.FlagSet) {
	fs.StringVar(&configFile, "config", "", "scenario file")
	fs.StringVar(&script, "script", "", "run the probe commands of this file, - for stdin")
	fs.StringVar(&floorMap, "floormap", "", "write the standing height map to this .png, .webp or .tga file")
	fs.StringVar(&age, "age", "", "adult or child, overrides the scenario")
	fs.StringVar(&logLevel, "loglevel", "", "debug, info, warn or error")
	fs.StringVar(&logFormat, "logformat", "", "console, text or json")
	fs.UintVar(&seed, "seed", 0, "search jitter seed, 0 keeps the scenario seed")

	fs.Var(&search, "search", "run the scenario search, optional number of workers")
}

func init() {
	register(flag.CommandLine)
}

func Config() string {
	return configFile
}

func Script() string {
	return script
}

func FloorMap() string {
	return floorMap
}

func Age() string {
	return age
}

func LogLevel() string {
	return logLevel
}

func LogFormat() string {
	return logFormat
}

func Seed() uint32 {
	return uint32(seed)
}

func Search() bool {
	return search.set
}

// SearchWorkers is the worker count given to -search, 0 if none.
func SearchWorkers() int {
	return search.num
}
