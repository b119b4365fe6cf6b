package config

import (
	"sort"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/loadshare"
)

var Presets = map[string]func() *Config{
	// 8x8 workover rig, 24.7 t, CG 2.4 m behind the second axle
	"workover": DefaultConfig,
	"workover-empty": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "workover-empty"
		cfg.Rig.MassKg = 19800
		cfg.Rig.CG = 3.9
		return cfg
	},
	"workover-components": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "workover-components"
		cfg.Rig.MassKg = 0
		cfg.Rig.Components = chassis.Components{
			{Name: "cab", MassKg: 2600, X: 0.4},
			{Name: "engine", MassKg: 3200, X: 1.9},
			{Name: "chassis", MassKg: 7400, X: 3.9},
			{Name: "drawworks", MassKg: 4800, X: 4.6},
			{Name: "mast", MassKg: 6700, X: 5.6},
		}
		return cfg
	},
	"reference": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "reference"
		cfg.Rig = RigConfig{WeightKN: 300, CG: 2.2, Axles: []float64{0, 1.35, 3.0, 4.35}}
		cfg.Sweep = loadshare.SweepRange{From: 0, To: 4.35, Step: DefaultSweepStep}
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
