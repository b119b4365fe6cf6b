package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/loadshare"
)

// testCommand mirrors the flags a sweep command sees after cobra merges
// the persistent ones.
func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	preset, configFile, components = "", "", ""
	cmd := &cobra.Command{Use: "sweep"}
	cmd.Flags().Float64Var(&cg, "cg", 0, "")
	cmd.Flags().Float64Var(&weightKN, "weight", 0, "")
	cmd.Flags().Float64Var(&massKg, "mass", 0, "")
	cmd.Flags().Float64Var(&tolerance, "tol", 0, "")
	addRangeFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(testCommand(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Tolerance != chassis.DefaultTolerance {
		t.Errorf("tolerance = %g", cfg.Tolerance)
	}
}

func TestLoadConfigWeightFlag(t *testing.T) {
	cfg, err := loadConfig(testCommand(t, "--weight", "250"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	v, err := cfg.Vehicle()
	if err != nil {
		t.Fatalf("vehicle: %v", err)
	}
	if v.Weight != 250000 {
		t.Errorf("weight = %g, want 250000", v.Weight)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(error) bool
	}{
		{"zero weight", []string{"--weight", "0"}, func(err error) bool { return chassis.Violated(err, chassis.ConstraintWeight) }},
		{"negative weight", []string{"--weight", "-10"}, func(err error) bool { return chassis.Violated(err, chassis.ConstraintWeight) }},
		{"reversed sweep", []string{"--from", "5", "--to", "1"}, func(err error) bool { return errors.Is(err, loadshare.ErrInvalidRange) }},
		{"zero step", []string{"--step", "0"}, func(err error) bool { return errors.Is(err, loadshare.ErrInvalidRange) }},
		{"zero tolerance", []string{"--tol", "0"}, func(err error) bool { return err != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(testCommand(t, tt.args...))
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.want(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
