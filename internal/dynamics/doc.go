// Package dynamics evaluates the longitudinal performance of the rig: road
// speed per gear, tractive force, driving resistances, climbing ability and
// top speed. Every quantity is a direct evaluation at an operating point;
// nothing is integrated over time.
package dynamics
