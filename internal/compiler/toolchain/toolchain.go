// Package toolchain wraps invocation of the host C++ compiler for
// `ldplc build -r` (spec.md §1 marks the downstream toolchain an
// out-of-scope "external collaborator"; SPEC_FULL.md's CLI surface
// section calls for this as a thin, isolated wrapper). Nothing under
// internal/compiler/{lexer,preprocess,parser,emitter} imports this
// package — the core pipeline only ever produces a .cpp file; running
// it is purely a CLI convenience.
package toolchain

import (
	"fmt"
	"os"
	"os/exec"
)

// CompilerNotFoundError reports that neither g++ nor clang++ is on PATH.
type CompilerNotFoundError struct{}

func (CompilerNotFoundError) Error() string {
	return "no C++ compiler found on PATH (looked for g++, clang++)"
}

// findCompiler returns the first of g++/clang++ found on PATH.
func findCompiler() (string, error) {
	for _, name := range []string{"g++", "clang++"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", CompilerNotFoundError{}
}

// BuildAndRun compiles cppPath to a temporary binary with the first
// available host C++ compiler, then runs it with args, streaming its
// stdio straight through to the current process and propagating its
// exit code as the returned int (matching spec's "-r ... propagating
// its exit code" requirement). extraFlags are appended to the compiler
// invocation after the fixed `-std=c++17 -O2` baseline, one entry per
// `ldplc build -f <cxx_flag>` (spec.md:131's abstract CLI surface).
func BuildAndRun(cppPath string, args, extraFlags []string) (int, error) {
	compiler, err := findCompiler()
	if err != nil {
		return 0, err
	}

	binPath := cppPath + ".out"
	buildArgs := append([]string{"-std=c++17", "-O2"}, extraFlags...)
	buildArgs = append(buildArgs, "-o", binPath, cppPath)
	build := exec.Command(compiler, buildArgs...)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return 0, fmt.Errorf("toolchain: %s failed: %w", compiler, err)
	}
	defer os.Remove(binPath)

	run := exec.Command(binPath, args...)
	run.Stdin = os.Stdin
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	if err := run.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("toolchain: running %s: %w", binPath, err)
	}
	return 0, nil
}
