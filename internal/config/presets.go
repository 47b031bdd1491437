package config

import "sort"

var Presets = map[string]*Config{
	"classic": {
		RoomSize: 10, MaxIter: 100000, Dt: DefaultDt, Clock: ClockFixed,
		Workers: 1, SelfPair: "skip", G: DefaultG, SampleEvery: 1000, PrintDt: true,
	},
	"quick": {
		RoomSize: 4, MaxIter: 1000, Dt: DefaultDt, Clock: ClockFixed, Seed: 42,
		Workers: 1, SelfPair: "skip", G: DefaultG, SampleEvery: 10,
	},
	"dense": {
		RoomSize: 24, MaxIter: 2000, Dt: DefaultDt, Clock: ClockFixed, Seed: 7,
		Workers: 0, SelfPair: "skip", G: DefaultG, SampleEvery: 20,
	},
	"strong": {
		RoomSize: 6, MaxIter: 5000, Dt: 0.001, Clock: ClockFixed, Seed: 1,
		Workers: 1, SelfPair: "skip", G: 1.0, SampleEvery: 25, ValidateState: true,
	},
	"compat": {
		RoomSize: 10, MaxIter: 100000, Clock: ClockWall,
		Workers: 1, SelfPair: "literal", G: DefaultG, SampleEvery: 1000, PrintDt: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
