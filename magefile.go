//go:build mage

package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type (
	Test  mg.Namespace
	Build mg.Namespace
)

var Aliases = map[string]interface{}{
	"build": Build.Dev,
	"test":  Test.Unit,
}

const binary = "bin/shipit"

func shipit(args ...string) error {
	mg.Deps(Build.Dev)
	return sh.RunV(binary, args...)
}

// Validate checks the Python sources and config files.
func Validate() error {
	return shipit("validate")
}

// Deploy commits and pushes the working tree. MSG sets the commit message.
func Deploy() error {
	args := []string{"deploy"}
	if msg := os.Getenv("MSG"); msg != "" {
		args = append(args, msg)
	}
	return shipit(args...)
}

// Setup writes the credential file and wrapper script. TOKEN overrides GITHUB_TOKEN.
// The token travels in the child environment so it never shows up in argv.
func Setup() error {
	env := map[string]string{}
	if token := os.Getenv("TOKEN"); token != "" {
		env["GITHUB_TOKEN"] = token
	}
	mg.Deps(Build.Dev)
	return sh.RunWithV(env, binary, "setup")
}

func Status() error {
	return shipit("status")
}

// Log shows recent commits. N sets how many.
func Log() error {
	args := []string{"log"}
	if n := os.Getenv("N"); n != "" {
		if _, err := strconv.Atoi(n); err != nil {
			return fmt.Errorf("N must be a number: %w", err)
		}
		args = append(args, "-n", n)
	}
	return shipit(args...)
}

func Pull() error {
	return shipit("pull")
}

func (Test) Unit() error {
	fmt.Println("Running unit tests...")
	return sh.RunV("go", "run", "gotest.tools/gotestsum@latest", "--format", "testname", "--", "-short", "./...")
}

// Integration runs the CLI scripts against real git repositories.
func (Test) Integration() error {
	fmt.Println("Running integration tests...")
	return sh.RunV("go", "run", "gotest.tools/gotestsum@latest", "--format", "testname", "--", "-timeout=300s", "-run", "TestScript", "./cmd/shipit/...")
}

// Coverage runs unit tests with coverage reporting and optional CI validation.
func (Test) Coverage() error {
	fmt.Println("Running unit tests with coverage...")

	if err := os.MkdirAll("coverage", 0o755); err != nil {
		return err
	}

	isCI := os.Getenv("CI") != ""

	args := []string{"test", "-v", "-short", "-coverprofile=coverage/coverage.out", "-coverpkg=./internal/...", "-covermode=atomic"}
	if isCI {
		args = append(args, "-race")
	}
	args = append(args, "./...")

	if err := sh.RunV("go", args...); err != nil {
		return err
	}

	if !isCI {
		if err := sh.RunV("go", "tool", "cover", "-html=coverage/coverage.out", "-o=coverage/coverage.html"); err != nil {
			return err
		}
		fmt.Println("Coverage report generated at coverage/coverage.html")
	}

	output, err := sh.Output("go", "tool", "cover", "-func=coverage/coverage.out")
	if err != nil {
		return nil
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	totalLine := lines[len(lines)-1]
	if !strings.Contains(totalLine, "total:") {
		return nil
	}

	coverageStr := strings.TrimPrefix(totalLine, "total:")
	fmt.Printf("Total %s\n", coverageStr)

	if !isCI {
		return nil
	}

	parts := strings.Fields(coverageStr)
	if len(parts) == 0 {
		return nil
	}
	percentage := strings.TrimSuffix(parts[len(parts)-1], "%")
	if value, err := strconv.ParseFloat(percentage, 64); err == nil && value < 80.0 {
		return fmt.Errorf("coverage %.1f%% is below required 80%% threshold", value)
	}

	fmt.Println("Coverage requirement (80%+) met successfully!")
	return nil
}

// Dev builds the shipit binary for development.
func (Build) Dev() error {
	fmt.Println("Building shipit...")
	return sh.RunV("go", "build", "-o", binary, "./cmd/shipit")
}

// Release builds a stripped binary for the host platform. The Python grammar
// links through cgo, so cross builds need a matching C toolchain.
func (Build) Release() error {
	output := fmt.Sprintf("bin/shipit-%s-%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		output += ".exe"
	}

	fmt.Printf("Building %s...\n", output)

	env := map[string]string{"CGO_ENABLED": "1"}
	return sh.RunWithV(env, "go", "build", "-ldflags", "-s -w", "-o", output, "./cmd/shipit")
}

// Lint runs golangci-lint (with --fix unless in CI).
func Lint() error {
	fmt.Println("Running golangci-lint...")

	if os.Getenv("CI") != "" {
		return sh.RunV("golangci-lint", "run")
	}

	return sh.RunV("golangci-lint", "run", "--fix")
}

func CI() error {
	fmt.Println("Running CI pipeline...")

	if err := Clean(); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if err := Lint(); err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	test := Test{}
	if err := test.Coverage(); err != nil {
		return fmt.Errorf("unit tests with coverage failed: %w", err)
	}

	if err := test.Integration(); err != nil {
		return fmt.Errorf("integration tests failed: %w", err)
	}

	build := Build{}
	if err := build.Dev(); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Println("CI pipeline completed successfully!")
	return nil
}

// Clean removes all generated artifacts.
func Clean() error {
	fmt.Println("Cleaning all artifacts...")

	if err := os.RemoveAll("coverage"); err != nil {
		return err
	}

	if err := os.RemoveAll("bin"); err != nil {
		return err
	}

	return sh.RunV("go", "clean", "-testcache")
}

// Default target runs unit tests.
func Default() error {
	test := Test{}
	return test.Unit()
}

func init() {
	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("Warning: failed to create bin directory: %v\n", err)
	}
}
