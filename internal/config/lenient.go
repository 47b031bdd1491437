package config

import (
	"strconv"

	"github.com/spf13/pflag"
)

// ParseRoomSize reads a room side length with single precision, falling
// back to DefaultRoomSize when s does not parse.
func ParseRoomSize(s string) float64 {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return DefaultRoomSize
	}
	return v
}

// ParseMaxIter reads a 32-bit tick budget, falling back to DefaultMaxIter
// when s does not parse or overflows.
func ParseMaxIter(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return DefaultMaxIter
	}
	return v
}

// lenientFloat is a flag value that swallows parse errors.
type lenientFloat struct {
	target *float64
	parse  func(string) float64
}

func (f *lenientFloat) String() string {
	if f.target == nil {
		return ""
	}
	return strconv.FormatFloat(*f.target, 'g', -1, 64)
}

func (f *lenientFloat) Set(s string) error {
	*f.target = f.parse(s)
	return nil
}

func (f *lenientFloat) Type() string { return "float32" }

type lenientInt struct {
	target *int64
	parse  func(string) int64
}

func (i *lenientInt) String() string {
	if i.target == nil {
		return ""
	}
	return strconv.FormatInt(*i.target, 10)
}

func (i *lenientInt) Set(s string) error {
	*i.target = i.parse(s)
	return nil
}

func (i *lenientInt) Type() string { return "int32" }

// RoomSizeVarP registers a room size flag whose bad values fall back to the default.
func RoomSizeVarP(fs *pflag.FlagSet, p *float64, name, shorthand, usage string) {
	*p = DefaultRoomSize
	fs.VarP(&lenientFloat{target: p, parse: ParseRoomSize}, name, shorthand, usage)
}

// MaxIterVarP registers a tick budget flag whose bad values fall back to the default.
func MaxIterVarP(fs *pflag.FlagSet, p *int64, name, shorthand, usage string) {
	*p = DefaultMaxIter
	fs.VarP(&lenientInt{target: p, parse: ParseMaxIter}, name, shorthand, usage)
}
