package loadshare

import (
	"fmt"
	"sort"

	"github.com/san-kum/rigload/internal/chassis"
)

var models = map[string]func(chassis.Assumptions) Model{
	PairedName:          func(a chassis.Assumptions) Model { return NewPaired(a) },
	InverseDistanceName: func(a chassis.Assumptions) Model { return NewInverseDistance(a) },
	RigidFrameName:      func(a chassis.Assumptions) Model { return NewRigidFrame(a) },
}

var aliases = map[string]string{
	"simple":  PairedName,
	"inverse": InverseDistanceName,
	"linear":  RigidFrameName,
}

// ByName builds the named model. Accepts the canonical names and the aliases
// simple, inverse and linear.
func ByName(name string, a chassis.Assumptions) (Model, error) {
	if canon, ok := aliases[name]; ok {
		name = canon
	}
	fn, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s (available: %v)", name, Names())
	}
	return fn(a), nil
}

func Names() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
