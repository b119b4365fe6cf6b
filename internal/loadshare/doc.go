// Package loadshare computes static axle loads for the four-axle chassis.
//
// Three models implement [Model]:
//
//   - [Paired]: axles 1-2 and 3-4 share their pair's load equally; one moment
//     balance about the CG splits the weight between the pairs.
//   - [InverseDistance]: each axle's load is inversely proportional to its
//     distance from the CG, with moment balance enforced between the groups
//     ahead of and behind the CG.
//   - [RigidFrame]: a rigid frame on equal linear springs; loads vary linearly
//     with axle position.
//
// Every [Distribution] satisfies sum(F_i) = W and sum(F_i*(x_i - cg)) = 0;
// [Check] verifies both. Inputs that would give a negative or infinite load
// fail with [chassis.ErrInvalidConfiguration] instead.
//
//	m := loadshare.NewInverseDistance(chassis.DefaultAssumptions())
//	d, err := m.Distribute(vehicle)
package loadshare
