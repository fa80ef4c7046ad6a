//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// CI runs static analysis and the test suite.
func CI() {
	mg.SerialDeps(Vet, Test)
}

// Test runs the full test suite.
func Test() error {
	return runGo("test", "./...")
}

// Vet runs static analysis over all packages.
func Vet() error {
	return runGo("vet", "./...")
}

func runGo(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go %s: %w", args[0], err)
	}
	return nil
}
