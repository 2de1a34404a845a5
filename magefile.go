//go:build mage
// +build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Default = All

// All runs the linters and tests, then builds the binaries.
func All() {
	mg.SerialDeps(Lint, Test, Build)
}

// Build compiles knxsplit and knxdump into bin/.
func Build() error {
	for _, cmd := range []string{"knxsplit", "knxdump"} {
		if err := sh.RunV("go", "build", "-o", "bin/"+cmd, "./cmd/"+cmd); err != nil {
			return err
		}
	}
	return nil
}

// Test runs all package tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Tidy updates go.mod and go.sum.
func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}
