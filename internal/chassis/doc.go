// Package chassis describes the four-axle workover rig carrier: axle layout,
// component weights, the modelling assumptions behind the load formulas, and
// the configuration errors those formulas can raise.
//
// All quantities are SI: metres along the vehicle axis (axle 1 at the origin,
// positive rearward), newtons for weight, kilograms for mass.
//
//	layout := chassis.LayoutFromSpacings(1.8, 4.8, 1.4)
//	v, err := chassis.NewVehicle("rig", layout, chassis.MassToWeight(24700), 4.2)
package chassis
