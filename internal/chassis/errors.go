package chassis

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned (wrapped in a *ConfigError) whenever the
// geometry or weights would produce a nonphysical load distribution.
var ErrInvalidConfiguration = errors.New("chassis: invalid configuration")

// Constraint names the physical rule an input violated.
type Constraint string

const (
	ConstraintWeight     Constraint = "weight must be positive and finite"
	ConstraintMass       Constraint = "component mass must be positive and finite"
	ConstraintLayout     Constraint = "axle positions must be finite and strictly increasing"
	ConstraintCGOutside  Constraint = "center of gravity outside the load-bearing wheelbase"
	ConstraintAxleAtCG   Constraint = "axle coincident with the center of gravity"
	ConstraintStiffness  Constraint = "suspension stiffness must be positive and finite"
	ConstraintAssumption Constraint = "model assumption cannot be relaxed"
)

// ConfigError reports which constraint failed and the offending value.
type ConfigError struct {
	Constraint Constraint
	Value      float64
	Detail     string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s (value %g)", ErrInvalidConfiguration, e.Constraint, e.Value)
	}
	return fmt.Sprintf("%v: %s (value %g): %s", ErrInvalidConfiguration, e.Constraint, e.Value, e.Detail)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Invalid builds a *ConfigError.
func Invalid(c Constraint, value float64, detail string) error {
	return &ConfigError{Constraint: c, Value: value, Detail: detail}
}

// Violated reports whether err is a configuration error for constraint c.
func Violated(err error, c Constraint) bool {
	var ce *ConfigError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Constraint == c
}
