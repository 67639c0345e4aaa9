//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles both commands into ./bin
func Build() error {
	mg.Deps(BuildDelays, BuildWaveform)
	fmt.Println("Compilation finished")
	return nil
}

func BuildDelays() error {
	fmt.Println("Building delays executable...")
	return goCommand("build", "-o", "./bin/delays", "./delays")
}

func BuildWaveform() error {
	fmt.Println("Building waveform executable...")
	return goCommand("build", "-o", "./bin/waveform", "./waveform")
}

// Test runs the unit tests. The storage package needs the HDF5 C library.
func Test() error {
	fmt.Println("Running tests...")
	return goCommand("test", "./...")
}

// HDF5 bindings are cgo, so the C flags from the environment are forwarded.
func goCommand(args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
